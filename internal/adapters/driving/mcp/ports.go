package mcp

import (
	"github.com/custodia-labs/conahgpt/internal/core/ports/driving"
)

// Ports aggregates the driving port interfaces used by the MCP server.
type Ports struct {
	// Answer runs the question pipeline and ranks chunks.
	Answer driving.AnswerService

	// Chunks exposes the cached snapshot. Optional; without it the
	// documents resource is empty.
	Chunks driving.ChunkProvider
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p.Answer == nil {
		return ErrMissingAnswerService
	}
	return nil
}
