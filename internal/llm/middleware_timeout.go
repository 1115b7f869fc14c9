package llm

import (
	"context"
	"time"

	llmclient "pddgen/internal/llmClient"
)

// Timeout bounds each Complete call with its own deadline so a hung
// provider call cannot stall the whole operation. If d <= 0 the
// middleware is a no-op.
func Timeout(d time.Duration) Middleware {
	return func(next llmclient.Client) llmclient.Client {
		if d <= 0 {
			return next
		}
		return &timed{next: next, d: d}
	}
}

type timed struct {
	next llmclient.Client
	d    time.Duration
}

func (t *timed) Name() string { return t.next.Name() }
func (t *timed) Close() error { return t.next.Close() }

func (t *timed) Complete(ctx context.Context, prompt string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, t.d)
	defer cancel()
	return t.next.Complete(ctx, prompt)
}
