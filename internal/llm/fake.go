package llm

import (
	"context"
	"strings"
	"sync"
)

// FakeClient returns deterministic, minimal responses for offline/testing.
// If Respond is set it is consulted first; otherwise a canned answer is
// derived from the prompt shape.
type FakeClient struct {
	Respond func(prompt string) (string, error)

	mu      sync.Mutex
	prompts []string
}

func NewFakeClient() *FakeClient { return &FakeClient{} }

func (f *FakeClient) Name() string { return "FakeLLM" }
func (f *FakeClient) Close() error { return nil }

// Prompts returns a copy of all prompts seen so far, in call order.
func (f *FakeClient) Prompts() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, len(f.prompts))
	copy(out, f.prompts)
	return out
}

// Calls returns how many completions were requested.
func (f *FakeClient) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.prompts)
}

func (f *FakeClient) Complete(ctx context.Context, prompt string) (string, error) {
	f.mu.Lock()
	f.prompts = append(f.prompts, prompt)
	f.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return "", err
	}
	if f.Respond != nil {
		return f.Respond(prompt)
	}
	switch {
	case strings.Contains(prompt, "flowchart"):
		return "graph TD\n    A[Start] --> B[End]", nil
	case strings.Contains(prompt, "step-by-step"):
		return "1. Open the application.\n2. Complete the task.", nil
	default:
		return "<p>Fake generated content.</p>", nil
	}
}
