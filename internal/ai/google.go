package ai

import (
	"context"
	"fmt"
	"net/url"

	"yukid/internal/types"
)

// googleClient speaks the Generative Language protocol. It has no native
// system prompt; one is emulated with a synthetic user/model exchange.
type googleClient struct {
	cfg types.Provider
}

// Google exposes no usable discovery endpoint for completion models.
var googleModels = []string{
	"gemini-2.0-flash",
	"gemini-1.5-pro",
	"gemini-1.5-flash",
}

const googleAck = "Understood. I will follow these instructions."

type googlePart struct {
	Text string `json:"text"`
}

type googleContent struct {
	Role  string       `json:"role"`
	Parts []googlePart `json:"parts"`
}

type googleRequest struct {
	Contents []googleContent `json:"contents"`
}

type googleResponse struct {
	Candidates []struct {
		Content struct {
			Parts []googlePart `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
}

func (c *googleClient) Name() string {
	return fmt.Sprintf("google:%s", c.cfg.Model)
}

func (c *googleClient) Complete(ctx context.Context, prompt, system string) (string, error) {
	if c.cfg.APIKey == "" {
		return "", fmt.Errorf("google: %w", ErrAPIKeyRequired)
	}

	var contents []googleContent
	if system != "" {
		contents = append(contents,
			googleContent{Role: "user", Parts: []googlePart{{Text: system}}},
			googleContent{Role: "model", Parts: []googlePart{{Text: googleAck}}},
		)
	}
	contents = append(contents, googleContent{Role: "user", Parts: []googlePart{{Text: prompt}}})

	endpoint := fmt.Sprintf("%s/models/%s:generateContent?key=%s",
		c.cfg.Endpoint, c.cfg.Model, url.QueryEscape(c.cfg.APIKey))

	status, body, err := postJSON(ctx, "google", endpoint, nil, googleRequest{Contents: contents})
	if err != nil {
		return "", err
	}
	if status < 200 || status >= 300 {
		return "", vendorError("google", status, body)
	}

	var resp googleResponse
	if err := decodeResponse(body, &resp); err != nil {
		return "", fmt.Errorf("google: %w", err)
	}
	if len(resp.Candidates) == 0 || len(resp.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("google: empty candidates in response")
	}
	return resp.Candidates[0].Content.Parts[0].Text, nil
}

func (c *googleClient) CompleteWithVision(ctx context.Context, prompt string, payload []byte, mediaType, system string) (string, error) {
	return "", fmt.Errorf("google: %w", ErrVisionUnsupported)
}

func (c *googleClient) ListModels(ctx context.Context) ([]string, error) {
	models := make([]string, len(googleModels))
	copy(models, googleModels)
	return models, nil
}
