package ai

import (
	"context"
	"encoding/base64"
	"fmt"

	"yukid/internal/types"
)

const (
	anthropicVersion = "2023-06-01"
	// Beta capability flag required for document (PDF) content blocks.
	anthropicPDFBeta = "pdfs-2024-09-25"
)

// Anthropic exposes no model discovery endpoint.
var anthropicModels = []string{
	"claude-sonnet-4-20250514",
	"claude-3-5-sonnet-20241022",
	"claude-3-5-haiku-20241022",
	"claude-3-opus-20240229",
}

type anthropicClient struct {
	cfg types.Provider
}

type anthropicSource struct {
	Type      string `json:"type"`
	MediaType string `json:"media_type"`
	Data      string `json:"data"`
}

type anthropicBlock struct {
	Type   string           `json:"type"`
	Text   string           `json:"text,omitempty"`
	Source *anthropicSource `json:"source,omitempty"`
}

type anthropicMessage struct {
	Role string `json:"role"`
	// Content is a plain string for text completions and a block list
	// for vision requests.
	Content any `json:"content"`
}

type anthropicRequest struct {
	Model     string             `json:"model"`
	MaxTokens int                `json:"max_tokens"`
	Messages  []anthropicMessage `json:"messages"`
	System    string             `json:"system,omitempty"`
}

type anthropicResponse struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
}

func (c *anthropicClient) Name() string {
	return fmt.Sprintf("anthropic:%s", c.cfg.Model)
}

func (c *anthropicClient) headers(pdf bool) (map[string]string, error) {
	if c.cfg.APIKey == "" {
		return nil, fmt.Errorf("anthropic: %w", ErrAPIKeyRequired)
	}
	h := map[string]string{
		"x-api-key":         c.cfg.APIKey,
		"anthropic-version": anthropicVersion,
	}
	if pdf {
		h["anthropic-beta"] = anthropicPDFBeta
	}
	return h, nil
}

func (c *anthropicClient) send(ctx context.Context, req anthropicRequest, pdf bool) (string, error) {
	headers, err := c.headers(pdf)
	if err != nil {
		return "", err
	}

	status, body, err := postJSON(ctx, "anthropic", c.cfg.Endpoint+"/messages", headers, req)
	if err != nil {
		return "", err
	}
	if status < 200 || status >= 300 {
		return "", vendorError("anthropic", status, body)
	}

	var resp anthropicResponse
	if err := decodeResponse(body, &resp); err != nil {
		return "", fmt.Errorf("anthropic: %w", err)
	}
	if len(resp.Content) == 0 {
		return "", fmt.Errorf("anthropic: empty content in response")
	}
	return resp.Content[0].Text, nil
}

func (c *anthropicClient) Complete(ctx context.Context, prompt, system string) (string, error) {
	return c.send(ctx, anthropicRequest{
		Model:     c.cfg.Model,
		MaxTokens: maxCompletionTokens,
		Messages:  []anthropicMessage{{Role: "user", Content: prompt}},
		System:    system,
	}, false)
}

func (c *anthropicClient) CompleteWithVision(ctx context.Context, prompt string, payload []byte, mediaType, system string) (string, error) {
	pdf := mediaType == "application/pdf"
	blockType := "image"
	if pdf {
		blockType = "document"
	}

	blocks := []anthropicBlock{
		{
			Type: blockType,
			Source: &anthropicSource{
				Type:      "base64",
				MediaType: mediaType,
				Data:      base64.StdEncoding.EncodeToString(payload),
			},
		},
		{Type: "text", Text: prompt},
	}

	return c.send(ctx, anthropicRequest{
		Model:     c.cfg.Model,
		MaxTokens: maxVisionTokens,
		Messages:  []anthropicMessage{{Role: "user", Content: blocks}},
		System:    system,
	}, pdf)
}

func (c *anthropicClient) ListModels(ctx context.Context) ([]string, error) {
	models := make([]string, len(anthropicModels))
	copy(models, anthropicModels)
	return models, nil
}
