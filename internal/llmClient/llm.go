package llmclient

import (
	"context"
	"errors"
	"fmt"
)

// ErrEmptyCompletion is returned when the provider answers without any text.
var ErrEmptyCompletion = errors.New("empty completion from model")

// Client is the single operation every generation component consumes.
// Model identifier and temperature are client configuration, supplied
// externally; callers only pass the prompt. Cross-cutting concerns
// (rate limiting, retries, timeouts, logging) are applied via Middleware.
type Client interface {
	Name() string
	Complete(ctx context.Context, prompt string) (string, error)
	Close() error
}

// ProviderError carries the upstream status and message of a failed
// provider call so callers can tell auth/rate-limit/timeout failures apart.
type ProviderError struct {
	Provider string
	Status   int
	Message  string
	Err      error
}

func (e *ProviderError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("%s: status %d: %s", e.Provider, e.Status, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Provider, e.Message)
}

func (e *ProviderError) Unwrap() error { return e.Err }

// PermanentError indicates an error that will not resolve with retries.
type PermanentError struct {
	Err error
}

func (e *PermanentError) Error() string { return e.Err.Error() }
func (e *PermanentError) Unwrap() error { return e.Err }

func NewPermanentError(err error) error {
	return &PermanentError{Err: err}
}
