package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"google.golang.org/genai"
)

// Client cleans up product names with Gemini. A nil *Client is valid and
// degrades to returning names unchanged, so callers never need to branch on
// whether AI is configured.
type Client struct {
	client *genai.Client
	model  string
}

type cleanupResult struct {
	CleanName string `json:"clean_name"`
}

func NewClient(ctx context.Context, apiKey, modelID string) (*Client, error) {
	if apiKey == "" {
		return nil, nil
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}

	return &Client{client: client, model: modelID}, nil
}

// CleanName asks the model for a concise product name without channel
// decorations, stray pricing fragments or seller boilerplate.
func (c *Client) CleanName(ctx context.Context, name string) (string, error) {
	if c == nil || c.client == nil {
		return name, nil
	}

	prompt := fmt.Sprintf(`Rewrite this deal-channel product line as a clean,
concise product name (3-12 words). Drop emoji, "loot", "steal", percentages
off, seller names and any price fragments. Keep brand and model.

Line: %q

Output JSON adhering to the schema.`, name)

	resp, err := c.client.Models.GenerateContent(ctx, c.model, genai.Text(prompt), &genai.GenerateContentConfig{
		Temperature:      genai.Ptr(float32(0.1)),
		ResponseMIMEType: "application/json",
		ResponseSchema: &genai.Schema{
			Type: genai.TypeObject,
			Properties: map[string]*genai.Schema{
				"clean_name": {
					Type:        genai.TypeString,
					Description: "The cleaned product name.",
				},
			},
			Required: []string{"clean_name"},
		},
	})
	if err != nil {
		return "", fmt.Errorf("gemini generation failed: %w", err)
	}

	var result cleanupResult
	if err := json.Unmarshal([]byte(resp.Text()), &result); err != nil {
		return "", fmt.Errorf("failed to parse gemini response: %w", err)
	}
	return strings.TrimSpace(result.CleanName), nil
}
