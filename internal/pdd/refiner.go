package pdd

import (
	"context"
	"strings"

	llmclient "pddgen/internal/llmClient"
)

// Refiner rewrites one section's content under free-text user feedback.
// It is stateless and single-shot: it never consults the extraction
// instruction, keeps no history, and never mutates anything itself — the
// caller adopts or discards the returned content.
type Refiner struct {
	LLM llmclient.Client
}

// Refine returns replacement content for the named section. Feedback is
// required; current content may be empty (refining a blank section is valid).
func (r *Refiner) Refine(ctx context.Context, sectionName, currentContent, feedback string) (string, error) {
	if strings.TrimSpace(feedback) == "" {
		return "", &InvalidInputError{Msg: "feedback is empty"}
	}
	out, err := r.LLM.Complete(ctx, BuildRefinePrompt(sectionName, currentContent, feedback))
	if err != nil {
		return "", &GenerationError{Op: "refine", Section: sectionName, Err: err}
	}
	return SanitizeMarkup(out), nil
}
