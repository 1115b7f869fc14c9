package llmclient

import (
	"context"
	"errors"

	genai "google.golang.org/genai"
)

// GeminiClient is a thin wrapper around the official genai client.
// It only focuses on the API call itself. Cross-cutting concerns
// (rate limiting, retries, timeouts, logging) are applied via Middleware.
type GeminiClient struct {
	cli         *genai.Client
	model       string
	temperature float32
}

// NewGeminiClient creates a client bound to one model and temperature.
// If apiKey is empty, the genai client falls back to GEMINI_API_KEY from env.
func NewGeminiClient(ctx context.Context, apiKey, model string, temperature float32) (*GeminiClient, error) {
	cli, err := genai.NewClient(ctx, &genai.ClientConfig{APIKey: apiKey, Backend: genai.BackendGeminiAPI})
	if err != nil {
		return nil, err
	}
	return &GeminiClient{cli: cli, model: model, temperature: temperature}, nil
}

func (g *GeminiClient) Name() string { return "Gemini:" + g.model }
func (g *GeminiClient) Close() error { return nil }

// Complete sends the prompt as a single user turn and returns the
// model's text response.
func (g *GeminiClient) Complete(ctx context.Context, prompt string) (string, error) {
	resp, err := g.cli.Models.GenerateContent(ctx, g.model,
		genai.Text(prompt),
		&genai.GenerateContentConfig{Temperature: genai.Ptr(g.temperature)},
	)
	if err != nil {
		return "", wrapGeminiError(err)
	}
	txt := resp.Text()
	if txt == "" {
		return "", &ProviderError{Provider: "gemini", Message: "no candidates in response", Err: ErrEmptyCompletion}
	}
	return txt, nil
}

func wrapGeminiError(err error) error {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		pe := &ProviderError{Provider: "gemini", Status: apiErr.Code, Message: apiErr.Message, Err: err}
		// 4xx other than 429 will not resolve with retries.
		if apiErr.Code >= 400 && apiErr.Code < 500 && apiErr.Code != 429 {
			return NewPermanentError(pe)
		}
		return pe
	}
	return &ProviderError{Provider: "gemini", Message: err.Error(), Err: err}
}
