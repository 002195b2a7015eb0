package httpapi

import (
	"errors"

	"github.com/custodia-labs/conahgpt/internal/core/ports/driven"
	"github.com/custodia-labs/conahgpt/internal/core/ports/driving"
)

var (
	// ErrMissingAnswerService is returned when the answer service is not provided.
	ErrMissingAnswerService = errors.New("httpapi: answer service is required")

	// ErrMissingDispatcher is returned when Slack is wired without a dispatcher.
	ErrMissingDispatcher = errors.New("httpapi: dispatcher is required for slack events")

	// ErrMissingMessenger is returned when Socket Mode is started without a messenger.
	ErrMissingMessenger = errors.New("httpapi: messenger is required for socket mode")
)

// Ports aggregates the services the HTTP adapter drives.
type Ports struct {
	Answer driving.AnswerService

	// Chunks backs the health endpoints. Optional.
	Chunks driving.ChunkProvider

	// Dispatcher runs Slack replies off the request path.
	Dispatcher driving.Dispatcher

	// Messenger posts Slack replies. When nil the events route is not mounted.
	Messenger driven.Messenger
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p.Answer == nil {
		return ErrMissingAnswerService
	}
	if p.Messenger != nil && p.Dispatcher == nil {
		return ErrMissingDispatcher
	}
	return nil
}
