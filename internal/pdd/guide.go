package pdd

import (
	"context"
	"strings"

	llmclient "pddgen/internal/llmClient"
)

// GuideSynthesizer combines a transcript and an optional visual-analysis
// note into one normalized narrative suitable as extraction input.
type GuideSynthesizer struct {
	LLM llmclient.Client
}

// Synthesize produces a step-by-step operational guide grounded in the
// transcript. visualNote may be empty or a placeholder saying visual
// analysis was skipped; the guide is transcript-grounded either way.
// Provider failure is fatal for the request: no fallback text is fabricated.
func (g *GuideSynthesizer) Synthesize(ctx context.Context, transcript, visualNote string) (string, error) {
	if strings.TrimSpace(transcript) == "" {
		return "", &InvalidInputError{Msg: "transcript is empty"}
	}
	out, err := g.LLM.Complete(ctx, BuildGuidePrompt(transcript, visualNote))
	if err != nil {
		return "", &GenerationError{Op: "guide", Err: err}
	}
	return strings.TrimSpace(out), nil
}
