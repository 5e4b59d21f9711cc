package tokens

import (
	"context"
	"fmt"
	"strings"

	genai "google.golang.org/genai"
)

const DefaultGeminiModel = "gemini-2.0-flash"

// GeminiCounter asks the Gemini API for the exact token count.
type GeminiCounter struct {
	cli   *genai.Client
	model string
}

func NewGeminiCounter(ctx context.Context, apiKey, model string) (*GeminiCounter, error) {
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		return nil, fmt.Errorf("gemini api key is required")
	}
	model = strings.TrimSpace(model)
	if model == "" {
		model = DefaultGeminiModel
	}
	cli, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("init gemini client: %w", err)
	}
	return &GeminiCounter{cli: cli, model: model}, nil
}

func (g *GeminiCounter) Name() string { return "gemini:" + g.model }

func (g *GeminiCounter) Count(ctx context.Context, text string) (int, error) {
	if strings.TrimSpace(text) == "" {
		return 0, nil
	}
	resp, err := g.cli.Models.CountTokens(ctx, g.model,
		[]*genai.Content{{Role: "user", Parts: []*genai.Part{{Text: text}}}},
		nil,
	)
	if err != nil {
		return 0, err
	}
	return int(resp.TotalTokens), nil
}
