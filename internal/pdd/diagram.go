package pdd

import (
	"context"
	"strings"

	llmclient "pddgen/internal/llmClient"
)

// DiagramSynthesizer derives a Mermaid flowchart from one section's content.
type DiagramSynthesizer struct {
	LLM llmclient.Client
}

// Synthesize returns Mermaid code for the given process-steps content.
// Empty content returns an empty diagram without a model call; a provider
// failure is reported as a GenerationError, the caller decides whether to
// proceed without the diagram.
func (d *DiagramSynthesizer) Synthesize(ctx context.Context, processSteps string) (string, error) {
	if strings.TrimSpace(processSteps) == "" {
		return "", nil
	}
	out, err := d.LLM.Complete(ctx, BuildDiagramPrompt(processSteps))
	if err != nil {
		return "", &GenerationError{Op: "diagram", Err: err}
	}
	return stripCodeFences(out), nil
}

// stripCodeFences removes a markdown code-fence wrapper the model may have
// added despite instructions.
func stripCodeFences(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "```") {
		if nl := strings.Index(s, "\n"); nl != -1 {
			s = s[nl+1:]
		} else {
			s = strings.TrimPrefix(s, "```")
		}
	}
	if strings.HasSuffix(s, "```") {
		s = strings.TrimSuffix(s, "```")
	}
	return strings.TrimSpace(s)
}
