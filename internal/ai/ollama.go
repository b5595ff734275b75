package ai

import (
	"context"
	"fmt"

	"yukid/internal/types"
)

// ollamaClient speaks the Ollama generate protocol: a flat prompt plus
// system string rather than a message array.
type ollamaClient struct {
	cfg types.Provider
}

type ollamaRequest struct {
	Model  string `json:"model"`
	Prompt string `json:"prompt"`
	System string `json:"system"`
	Stream bool   `json:"stream"`
}

type ollamaResponse struct {
	// Pointer so a missing field is distinguishable from a legitimately
	// empty completion.
	Response *string `json:"response"`
}

type ollamaTagList struct {
	Models []struct {
		Name string `json:"name"`
	} `json:"models"`
}

func (c *ollamaClient) Name() string {
	return fmt.Sprintf("ollama:%s", c.cfg.Model)
}

func (c *ollamaClient) Complete(ctx context.Context, prompt, system string) (string, error) {
	req := ollamaRequest{
		Model:  c.cfg.Model,
		Prompt: prompt,
		System: system,
		Stream: false,
	}

	status, body, err := postJSON(ctx, "ollama", c.cfg.Endpoint+"/api/generate", nil, req)
	if err != nil {
		return "", err
	}
	if status < 200 || status >= 300 {
		return "", vendorError("ollama", status, body)
	}

	var resp ollamaResponse
	if err := decodeResponse(body, &resp); err != nil {
		return "", fmt.Errorf("ollama: %w", err)
	}
	if resp.Response == nil {
		return "", fmt.Errorf("ollama: missing response field")
	}
	return *resp.Response, nil
}

func (c *ollamaClient) CompleteWithVision(ctx context.Context, prompt string, payload []byte, mediaType, system string) (string, error) {
	return "", fmt.Errorf("ollama: %w", ErrVisionUnsupported)
}

func (c *ollamaClient) ListModels(ctx context.Context) ([]string, error) {
	status, body, err := getJSON(ctx, "ollama", c.cfg.Endpoint+"/api/tags", nil)
	if err != nil {
		return nil, err
	}
	if status < 200 || status >= 300 {
		return nil, vendorError("ollama", status, body)
	}

	var list ollamaTagList
	if err := decodeResponse(body, &list); err != nil {
		return nil, fmt.Errorf("ollama: %w", err)
	}

	var models []string
	for _, m := range list.Models {
		models = append(models, m.Name)
	}
	return models, nil
}
