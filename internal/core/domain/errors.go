package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrUnsupportedType indicates a file type no reader handles.
	ErrUnsupportedType = errors.New("unsupported type")

	// ErrInvalidConfig indicates settings failed validation.
	ErrInvalidConfig = errors.New("invalid configuration")

	// ErrNoDocuments indicates the document location produced no chunks.
	ErrNoDocuments = errors.New("no usable documents")

	// ErrGenerationFailed indicates the generation model call failed.
	ErrGenerationFailed = errors.New("generation failed")

	// ErrLLMUnavailable indicates no generation provider is configured.
	ErrLLMUnavailable = errors.New("LLM service unavailable")

	// ErrRateLimited indicates an external API rate limit was exceeded.
	ErrRateLimited = errors.New("rate limited")

	// ErrUnauthorized indicates invalid or missing credentials.
	ErrUnauthorized = errors.New("unauthorised")

	// ErrQueueFull indicates the background dispatcher rejected a task.
	ErrQueueFull = errors.New("dispatch queue full")

	// ErrDispatcherClosed indicates the dispatcher no longer accepts tasks.
	ErrDispatcherClosed = errors.New("dispatcher closed")
)
