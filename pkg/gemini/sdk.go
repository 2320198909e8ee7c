package gemini

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/genai"
)

// callSDK performs one generation request against the Gemini API using the
// official SDK. It returns the concatenated text of the first candidate; a
// structurally valid but contentless response comes back as an empty string
// with a nil error so the caller can classify it as an empty response.
func (c *Client) callSDK(ctx context.Context, model, prompt string) (string, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		Backend: genai.BackendGeminiAPI,
		APIKey:  c.config.APIKey,
	})
	if err != nil {
		return "", fmt.Errorf("creating genai client: %w", err)
	}

	contents := []*genai.Content{
		{
			Role: "user",
			Parts: []*genai.Part{
				{Text: prompt},
			},
		},
	}

	temperature := float32(0.7)
	genConfig := &genai.GenerateContentConfig{
		Temperature:     &temperature,
		MaxOutputTokens: 4096,
	}
	if c.config.SystemInstruction != "" {
		genConfig.SystemInstruction = &genai.Content{
			Parts: []*genai.Part{
				{Text: c.config.SystemInstruction},
			},
		}
	}

	// The API expects model names without the "models/" prefix.
	modelName := strings.TrimPrefix(model, "models/")

	resp, err := client.Models.GenerateContent(ctx, modelName, contents, genConfig)
	if err != nil {
		return "", err
	}
	if resp == nil || len(resp.Candidates) == 0 {
		return "", nil
	}
	candidate := resp.Candidates[0]
	if candidate.Content == nil {
		return "", nil
	}

	var sb strings.Builder
	for _, part := range candidate.Content.Parts {
		if part != nil {
			sb.WriteString(part.Text)
		}
	}
	return sb.String(), nil
}
