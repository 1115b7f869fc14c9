package pdd

import (
	"context"
	"strings"

	llmclient "pddgen/internal/llmClient"
)

// Chat answers a clarification question about PDD creation, optionally
// grounded in caller-supplied context. Thin pass-through, no history.
func Chat(ctx context.Context, client llmclient.Client, message, processContext string) (string, error) {
	if strings.TrimSpace(message) == "" {
		return "", &InvalidInputError{Msg: "message is empty"}
	}
	out, err := client.Complete(ctx, BuildChatPrompt(message, processContext))
	if err != nil {
		return "", &GenerationError{Op: "chat", Err: err}
	}
	return strings.TrimSpace(out), nil
}
