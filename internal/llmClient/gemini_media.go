package llmclient

import (
	"context"

	genai "google.golang.org/genai"
)

const transcribeInstruction = "Transcribe the spoken audio in this recording. " +
	"Return only the transcript text, with no commentary, timestamps, or speaker labels."

// Transcribe sends a media upload inline with a transcription instruction
// and returns the plain transcript. Temperature is pinned to the client's
// configured value so repeated uploads transcribe consistently.
func (g *GeminiClient) Transcribe(ctx context.Context, mimeType string, data []byte) (string, error) {
	content := &genai.Content{
		Role: genai.RoleUser,
		Parts: []*genai.Part{
			{Text: transcribeInstruction},
			{InlineData: &genai.Blob{MIMEType: mimeType, Data: data}},
		},
	}
	resp, err := g.cli.Models.GenerateContent(ctx, g.model,
		[]*genai.Content{content},
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
