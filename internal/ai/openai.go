package ai

import (
	"context"
	"encoding/base64"
	"fmt"

	"yukid/internal/types"
)

// openAIClient speaks the OpenAI-compatible chat completions protocol and
// covers openai, openrouter and lmstudio. Kind-specific behavior is limited
// to auth requirements, vision support and model-list filtering.
type openAIClient struct {
	cfg types.Provider
}

type openAIMessage struct {
	Role string `json:"role"`
	// Content is a plain string for text completions and a part list for
	// vision requests.
	Content any `json:"content"`
}

type openAIImageURL struct {
	URL string `json:"url"`
}

type openAIPart struct {
	Type     string          `json:"type"`
	Text     string          `json:"text,omitempty"`
	ImageURL *openAIImageURL `json:"image_url,omitempty"`
}

type openAIRequest struct {
	Model     string          `json:"model"`
	Messages  []openAIMessage `json:"messages"`
	MaxTokens int             `json:"max_tokens"`
}

type openAIResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

type openAIModelList struct {
	Data []struct {
		ID string `json:"id"`
	} `json:"data"`
}

func (c *openAIClient) backend() string { return string(c.cfg.Kind) }

func (c *openAIClient) Name() string {
	return fmt.Sprintf("%s:%s", c.cfg.Kind, c.cfg.Model)
}

func (c *openAIClient) headers() map[string]string {
	h := map[string]string{}
	if c.cfg.APIKey != "" {
		h["Authorization"] = "Bearer " + c.cfg.APIKey
	}
	return h
}

func (c *openAIClient) send(ctx context.Context, messages []openAIMessage, maxTokens int) (string, error) {
	req := openAIRequest{
		Model:     c.cfg.Model,
		Messages:  messages,
		MaxTokens: maxTokens,
	}

	status, body, err := postJSON(ctx, c.backend(), c.cfg.Endpoint+"/chat/completions", c.headers(), req)
	if err != nil {
		return "", err
	}
	if status < 200 || status >= 300 {
		return "", vendorError(c.backend(), status, body)
	}

	var resp openAIResponse
	if err := decodeResponse(body, &resp); err != nil {
		return "", fmt.Errorf("%s: %w", c.backend(), err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("%s: empty choices in response", c.backend())
	}
	return resp.Choices[0].Message.Content, nil
}

func (c *openAIClient) Complete(ctx context.Context, prompt, system string) (string, error) {
	var messages []openAIMessage
	if system != "" {
		messages = append(messages, openAIMessage{Role: "system", Content: system})
	}
	messages = append(messages, openAIMessage{Role: "user", Content: prompt})
	return c.send(ctx, messages, maxCompletionTokens)
}

func (c *openAIClient) CompleteWithVision(ctx context.Context, prompt string, payload []byte, mediaType, system string) (string, error) {
	// lmstudio speaks this protocol but is not routed through vision.
	if c.cfg.Kind == types.ProviderLMStudio {
		return "", fmt.Errorf("%s: %w", c.backend(), ErrVisionUnsupported)
	}

	var messages []openAIMessage
	if system != "" {
		messages = append(messages, openAIMessage{Role: "system", Content: system})
	}

	dataURI := fmt.Sprintf("data:%s;base64,%s", mediaType, base64.StdEncoding.EncodeToString(payload))
	messages = append(messages, openAIMessage{
		Role: "user",
		Content: []openAIPart{
			{Type: "image_url", ImageURL: &openAIImageURL{URL: dataURI}},
			{Type: "text", Text: prompt},
		},
	})

	return c.send(ctx, messages, maxVisionTokens)
}

func (c *openAIClient) ListModels(ctx context.Context) ([]string, error) {
	if c.cfg.Kind != types.ProviderLMStudio && c.cfg.APIKey == "" {
		return nil, fmt.Errorf("%s: %w", c.backend(), ErrAPIKeyRequired)
	}

	status, body, err := getJSON(ctx, c.backend(), c.cfg.Endpoint+"/models", c.headers())
	if err != nil {
		return nil, err
	}
	if status < 200 || status >= 300 {
		return nil, vendorError(c.backend(), status, body)
	}

	var list openAIModelList
	if err := decodeResponse(body, &list); err != nil {
		return nil, fmt.Errorf("%s: %w", c.backend(), err)
	}

	var models []string
	for _, m := range list.Data {
		switch c.cfg.Kind {
		case types.ProviderOpenAI:
			// Completion-capable chat models only.
			if len(m.ID) < 4 || m.ID[:4] != "gpt-" {
				continue
			}
		case types.ProviderOpenRouter:
			if len(models) >= 20 {
				return models, nil
			}
		}
		models = append(models, m.ID)
	}
	return models, nil
}
