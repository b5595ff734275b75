package service

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"yukid/internal/ai"
)

var testCategories = []string{"Dining", "Groceries", "Other"}

func stubPDF(t *testing.T, pages int) {
	t.Helper()

	origCount, origExtract := pageCount, extractPages
	t.Cleanup(func() {
		pageCount, extractPages = origCount, origExtract
	})

	pageCount = func(data []byte) (int, error) { return pages, nil }
	extractPages = func(data []byte, from, to int) ([]byte, error) {
		return []byte(fmt.Sprintf("chunk-%d-%d", from, to)), nil
	}
}

func newStatementFixture(t *testing.T, fake *fakeClient) StatementService {
	t.Helper()
	store := setupStore(t)
	return newStatementSvc(store, testLogger(), fakeFactory(fake))
}

func TestWindows(t *testing.T) {
	tests := []struct {
		pages int
		want  []pageWindow
	}{
		{1, []pageWindow{{1, 1}}},
		{2, []pageWindow{{1, 2}}},
		{3, []pageWindow{{1, 2}, {3, 3}}},
		{4, []pageWindow{{1, 2}, {3, 4}}},
		{7, []pageWindow{{1, 2}, {3, 4}, {5, 6}, {7, 7}}},
	}
	for _, tt := range tests {
		got := windows(tt.pages, 2)
		if len(got) != len(tt.want) {
			t.Errorf("windows(%d, 2) = %v, want %v", tt.pages, got, tt.want)
			continue
		}
		for i := range got {
			if got[i] != tt.want[i] {
				t.Errorf("windows(%d, 2)[%d] = %v, want %v", tt.pages, i, got[i], tt.want[i])
			}
		}
	}
}

func TestMediaTypeFor(t *testing.T) {
	tests := []struct {
		filename string
		want     string
	}{
		{"statement.PDF", "application/pdf"},
		{"scan.png", "image/png"},
		{"scan.webp", "image/webp"},
		{"photo.jpg", "image/jpeg"},
		{"photo.jpeg", "image/jpeg"},
		{"noext", "image/jpeg"},
	}
	for _, tt := range tests {
		if got := mediaTypeFor(tt.filename); got != tt.want {
			t.Errorf("mediaTypeFor(%q) = %q, want %q", tt.filename, got, tt.want)
		}
	}
}

func TestParseImageStatement(t *testing.T) {
	fake := &fakeClient{responses: []string{
		`[{"date": "2025-06-01", "description": "coffee", "amount": -4.5, "currency": "USD", "category": "Dining"}]`,
	}}
	svc := newStatementFixture(t, fake)

	// an image must never hit the page counter
	orig := pageCount
	t.Cleanup(func() { pageCount = orig })
	pageCount = func(data []byte) (int, error) {
		t.Fatal("pageCount called for a non-pdf file")
		return 0, nil
	}

	txns, err := svc.Parse(context.Background(), []byte("img"), "statement.png", testCategories)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(txns) != 1 || txns[0].Description != "coffee" {
		t.Fatalf("txns = %+v", txns)
	}

	call := fake.calls[0]
	if !call.vision {
		t.Error("expected a vision call")
	}
	if call.mediaType != "image/png" {
		t.Errorf("mediaType = %q", call.mediaType)
	}
	if call.prompt != ai.StatementUserPrompt {
		t.Errorf("prompt = %q", call.prompt)
	}
	if call.system != ai.StatementPrompt(testCategories) {
		t.Error("system prompt should be the whole-document statement prompt")
	}
}

func TestParseSmallPDFWholeDocument(t *testing.T) {
	fake := &fakeClient{responses: []string{
		`[{"date": "2025-06-02", "description": "rent", "amount": -1200, "currency": "USD", "category": "Other"}]`,
	}}
	svc := newStatementFixture(t, fake)
	stubPDF(t, 3)

	txns, err := svc.Parse(context.Background(), []byte("pdf"), "statement.pdf", testCategories)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(txns) != 1 {
		t.Fatalf("txns = %+v", txns)
	}
	if len(fake.calls) != 1 {
		t.Fatalf("made %d vision calls, want 1 for a 3-page pdf", len(fake.calls))
	}
	if fake.calls[0].mediaType != "application/pdf" {
		t.Errorf("mediaType = %q", fake.calls[0].mediaType)
	}
	if string(fake.calls[0].payload) != "pdf" {
		t.Error("whole document should be sent unmodified")
	}
}

func TestParseLargePDFChunks(t *testing.T) {
	fake := &fakeClient{responses: []string{
		`[{"date": "2025-06-01", "description": "a", "amount": -1, "currency": "USD", "category": "Other"}]`,
		`[{"date": "2025-06-02", "description": "b", "amount": -2, "currency": "USD", "category": "Other"},
		  {"date": "2025-06-03", "description": "c", "amount": -3, "currency": "USD", "category": "Other"}]`,
		`[]`,
		`[{"date": "2025-06-04", "description": "d", "amount": -4, "currency": "USD", "category": "Other"}]`,
	}}
	svc := newStatementFixture(t, fake)
	stubPDF(t, 7)

	txns, err := svc.Parse(context.Background(), []byte("pdf"), "statement.pdf", testCategories)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	if len(fake.calls) != 4 {
		t.Fatalf("made %d vision calls, want 4 windows for 7 pages", len(fake.calls))
	}
	wantPayloads := []string{"chunk-1-2", "chunk-3-4", "chunk-5-6", "chunk-7-7"}
	for i, want := range wantPayloads {
		call := fake.calls[i]
		if string(call.payload) != want {
			t.Errorf("call %d payload = %q, want %q", i, call.payload, want)
		}
		if call.mediaType != "application/pdf" {
			t.Errorf("call %d mediaType = %q", i, call.mediaType)
		}
	}
	if fake.calls[0].prompt != ai.StatementChunkUserPrompt(1, 2) {
		t.Errorf("first chunk prompt = %q", fake.calls[0].prompt)
	}
	if fake.calls[3].system != ai.StatementChunkPrompt(7, 7, testCategories) {
		t.Error("last chunk should carry its own page range in the system prompt")
	}

	// results concatenated in window order
	want := []string{"a", "b", "c", "d"}
	if len(txns) != len(want) {
		t.Fatalf("got %d transactions, want %d", len(txns), len(want))
	}
	for i, w := range want {
		if txns[i].Description != w {
			t.Errorf("txns[%d] = %q, want %q", i, txns[i].Description, w)
		}
	}
}

func TestParseChunkFailureContinues(t *testing.T) {
	fake := &fakeClient{
		responses: []string{
			`[{"date": "2025-06-01", "description": "a", "amount": -1, "currency": "USD", "category": "Other"}]`,
			"",
			`[{"date": "2025-06-03", "description": "c", "amount": -3, "currency": "USD", "category": "Other"}]`,
		},
		errs: []error{nil, errors.New("vision timeout"), nil},
	}
	svc := newStatementFixture(t, fake)
	stubPDF(t, 5)

	txns, err := svc.Parse(context.Background(), []byte("pdf"), "statement.pdf", testCategories)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(fake.calls) != 3 {
		t.Fatalf("made %d vision calls, want 3", len(fake.calls))
	}
	if len(txns) != 2 || txns[0].Description != "a" || txns[1].Description != "c" {
		t.Errorf("txns = %+v", txns)
	}
}

func TestParseVisionRefusalIsUnsupported(t *testing.T) {
	fake := &fakeClient{
		responses: []string{""},
		errs:      []error{ai.ErrVisionUnsupported},
	}
	svc := newStatementFixture(t, fake)

	_, err := svc.Parse(context.Background(), []byte("img"), "statement.png", testCategories)
	if !errors.Is(err, ErrUnsupported) {
		t.Fatalf("err = %v, want ErrUnsupported", err)
	}
}

func TestParseUnparseableChunkYieldsNothing(t *testing.T) {
	fake := &fakeClient{responses: []string{
		"I could not find any transactions on these pages.",
		`[{"date": "2025-06-03", "description": "c", "amount": -3, "currency": "USD", "category": "Other"}]`,
	}}
	svc := newStatementFixture(t, fake)
	stubPDF(t, 4)

	txns, err := svc.Parse(context.Background(), []byte("pdf"), "statement.pdf", testCategories)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(txns) != 1 || txns[0].Description != "c" {
		t.Errorf("txns = %+v", txns)
	}
}
