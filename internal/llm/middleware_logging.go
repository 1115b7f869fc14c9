package llm

import (
	"context"
	"log"
	"time"

	llmclient "pddgen/internal/llmClient"
)

// Logging records every Complete call: client name, prompt size,
// duration and outcome.
func Logging() Middleware {
	return func(next llmclient.Client) llmclient.Client {
		return &logged{next: next}
	}
}

type logged struct {
	next llmclient.Client
}

func (l *logged) Name() string { return l.next.Name() }
func (l *logged) Close() error { return l.next.Close() }

func (l *logged) Complete(ctx context.Context, prompt string) (string, error) {
	start := time.Now()
	log.Printf("LLM request (%s): %d bytes", l.next.Name(), len(prompt))
	out, err := l.next.Complete(ctx, prompt)
	if err != nil {
		log.Printf("LLM error (%s) after %s: %v", l.next.Name(), time.Since(start).Round(time.Millisecond), err)
		return "", err
	}
	log.Printf("LLM response (%s): %d bytes in %s", l.next.Name(), len(out), time.Since(start).Round(time.Millisecond))
	return out, nil
}
