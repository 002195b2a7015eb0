package ai

import (
	"context"

	"github.com/custodia-labs/conahgpt/internal/core/ports/driven"
)

// Ensure Unavailable implements the interface.
var _ driven.LLMService = (*Unavailable)(nil)

// Unavailable stands in for a provider that could not be created. Every
// call fails with the creation error, so the answer pipeline applies its
// generation failure policy instead of crashing.
type Unavailable struct {
	Err error
}

// Generate implements driven.LLMService.
func (u *Unavailable) Generate(_ context.Context, _ string, _ driven.GenerateOptions) (string, error) {
	return "", u.Err
}

// ModelName implements driven.LLMService.
func (u *Unavailable) ModelName() string { return "unavailable" }

// Ping implements driven.LLMService.
func (u *Unavailable) Ping(_ context.Context) error { return u.Err }

// Close implements driven.LLMService.
func (u *Unavailable) Close() error { return nil }
