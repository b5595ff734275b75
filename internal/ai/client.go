package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"yukid/internal/types"
)

// Client is the provider-agnostic contract every LLM backend satisfies.
//
// Complete and CompleteWithVision return the single completion string the
// backend produced; callers parse it with the helpers in parse.go. No
// implementation retries: retry policy, if any, belongs to the caller.
type Client interface {
	// Name returns a human-readable identifier such as
	// "anthropic:claude-3-5-sonnet-20241022".
	Name() string

	// Complete sends a text prompt with an optional system prompt
	// (empty string means none).
	Complete(ctx context.Context, prompt, system string) (string, error)

	// CompleteWithVision sends a prompt alongside a base64-encodable
	// payload (image or PDF). Backends without vision support return
	// ErrVisionUnsupported.
	CompleteWithVision(ctx context.Context, prompt string, payload []byte, mediaType, system string) (string, error)

	// ListModels reports the models the backend exposes. Backends with no
	// discovery endpoint return a fixed list.
	ListModels(ctx context.Context) ([]string, error)
}

// Text completions are sized for large statement extractions, vision calls
// are capped lower.
const (
	maxCompletionTokens = 16384
	maxVisionTokens     = 4096
)

var (
	// ErrVisionUnsupported is returned by backends that cannot accept
	// image or document input. Callers must not fall back silently.
	ErrVisionUnsupported = errors.New("vision input not supported")

	// ErrAPIKeyRequired is returned before any request is sent when a
	// hosted backend has no credential configured.
	ErrAPIKeyRequired = errors.New("api key required")
)

// ProviderError is a non-2xx HTTP response from a backend, carrying the
// message extracted from the vendor's error envelope where present.
type ProviderError struct {
	Backend string
	Status  int
	Message string
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("%s: http %d: %s", e.Backend, e.Status, e.Message)
}

// TransportError is a network-level failure reaching a backend.
type TransportError struct {
	Backend string
	Err     error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s: transport: %v", e.Backend, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// New returns the backend implementation for cfg.Kind.
func New(cfg types.Provider) (Client, error) {
	switch cfg.Kind {
	case types.ProviderAnthropic:
		return &anthropicClient{cfg: cfg}, nil
	case types.ProviderOpenAI, types.ProviderOpenRouter, types.ProviderLMStudio:
		return &openAIClient{cfg: cfg}, nil
	case types.ProviderOllama:
		return &ollamaClient{cfg: cfg}, nil
	case types.ProviderGoogle:
		return &googleClient{cfg: cfg}, nil
	default:
		return nil, fmt.Errorf("unsupported provider %q", cfg.Kind)
	}
}

// httpClient is shared by all backends. No timeout beyond the transport
// defaults; a hung provider call blocks its query.
var httpClient = &http.Client{}

// roundTrip sends req and returns the status and raw body. Network failures
// come back as *TransportError.
func roundTrip(backend string, req *http.Request) (int, []byte, error) {
	resp, err := httpClient.Do(req)
	if err != nil {
		return 0, nil, &TransportError{Backend: backend, Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, nil, &TransportError{Backend: backend, Err: err}
	}
	return resp.StatusCode, body, nil
}

// postJSON marshals body and POSTs it, returning the status and raw
// response. extraHeaders lets backends attach auth and version headers.
func postJSON(ctx context.Context, backend, url string, headers map[string]string, body any) (int, []byte, error) {
	raw, err := json.Marshal(body)
	if err != nil {
		return 0, nil, fmt.Errorf("%s: encode request: %w", backend, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(raw))
	if err != nil {
		return 0, nil, fmt.Errorf("%s: build request: %w", backend, err)
	}
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	return roundTrip(backend, req)
}

func getJSON(ctx context.Context, backend, url string, headers map[string]string) (int, []byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return 0, nil, fmt.Errorf("%s: build request: %w", backend, err)
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	return roundTrip(backend, req)
}

func decodeResponse(body []byte, out any) error {
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// vendorError builds a ProviderError from the common {"error":{"message"}}
// envelope, falling back to the raw body, then a fixed message.
func vendorError(backend string, status int, body []byte) *ProviderError {
	var envelope struct {
		Error struct {
			Message string `json:"message"`
		} `json:"error"`
	}
	msg := "unknown error"
	if err := json.Unmarshal(body, &envelope); err == nil && envelope.Error.Message != "" {
		msg = envelope.Error.Message
	} else if trimmed := strings.TrimSpace(string(body)); trimmed != "" {
		msg = trimmed
	}
	return &ProviderError{Backend: backend, Status: status, Message: msg}
}
