package service

import (
	"context"
	"fmt"
	"io"
	"testing"

	"yukid/internal/ai"
	"yukid/internal/db"
	"yukid/internal/types"

	"github.com/charmbracelet/log"
)

// llmCall records one request made to the fake client.
type llmCall struct {
	prompt    string
	system    string
	payload   []byte
	mediaType string
	vision    bool
}

// fakeClient replays queued responses and records every call.
type fakeClient struct {
	responses []string
	errs      []error
	calls     []llmCall
}

func (f *fakeClient) Name() string { return "fake:model" }

func (f *fakeClient) step() (string, error) {
	i := len(f.calls) - 1
	if i < len(f.errs) && f.errs[i] != nil {
		return "", f.errs[i]
	}
	if i >= len(f.responses) {
		return "", fmt.Errorf("unexpected call %d", i)
	}
	return f.responses[i], nil
}

func (f *fakeClient) Complete(ctx context.Context, prompt, system string) (string, error) {
	f.calls = append(f.calls, llmCall{prompt: prompt, system: system})
	return f.step()
}

func (f *fakeClient) CompleteWithVision(ctx context.Context, prompt string, payload []byte, mediaType, system string) (string, error) {
	f.calls = append(f.calls, llmCall{prompt: prompt, system: system, payload: payload, mediaType: mediaType, vision: true})
	return f.step()
}

func (f *fakeClient) ListModels(ctx context.Context) ([]string, error) {
	return []string{"fake-model"}, nil
}

func fakeFactory(f *fakeClient) clientFactory {
	return func(cfg types.Provider) (ai.Client, error) { return f, nil }
}

func testLogger() *log.Logger {
	return log.New(io.Discard)
}

// setupStore returns a migrated store with an ollama provider configured.
func setupStore(t *testing.T) *db.DB {
	t.Helper()

	store := db.SetupTestDB(t)
	err := store.SetProvider(context.Background(), types.Provider{
		Kind:     types.ProviderOllama,
		Name:     "test",
		Endpoint: "http://localhost:11434",
		Model:    "llama3.2",
		IsLocal:  true,
	})
	if err != nil {
		t.Fatalf("SetProvider: %v", err)
	}
	return store
}
