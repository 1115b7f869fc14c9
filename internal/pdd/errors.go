package pdd

import "fmt"

// InvalidInputError reports empty/missing required caller input.
// It is never retried; the caller should fix the request.
type InvalidInputError struct {
	Msg string
}

func (e *InvalidInputError) Error() string { return "invalid input: " + e.Msg }

// GenerationError wraps a provider failure with the operation (and,
// for extraction, the section) that made the call.
type GenerationError struct {
	Op      string
	Section string
	Err     error
}

func (e *GenerationError) Error() string {
	if e.Section != "" {
		return fmt.Sprintf("%s %q: %v", e.Op, e.Section, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *GenerationError) Unwrap() error { return e.Err }
