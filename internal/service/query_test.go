package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"yukid/internal/ai"
	"yukid/internal/db"
	"yukid/internal/types"

	"github.com/shopspring/decimal"
)

func newQueryFixture(t *testing.T, fake *fakeClient) (QueryService, ConversationService, *db.DB, string) {
	t.Helper()

	store := setupStore(t)
	convos := newConvoSvc(store, testLogger())
	svc := newQuerySvc(store, testLogger(), convos, fakeFactory(fake))

	sessionID, err := convos.GetOrCreateCurrent(context.Background())
	if err != nil {
		t.Fatalf("GetOrCreateCurrent: %v", err)
	}
	return svc, convos, store, sessionID
}

func TestProcessRequiresProvider(t *testing.T) {
	store := db.SetupTestDB(t)
	convos := newConvoSvc(store, testLogger())
	svc := newQuerySvc(store, testLogger(), convos, fakeFactory(&fakeClient{}))

	_, err := svc.Process(context.Background(), "session", "hi")
	if !errors.Is(err, ErrNoProvider) {
		t.Fatalf("err = %v, want ErrNoProvider", err)
	}
}

func TestProcessConversational(t *testing.T) {
	fake := &fakeClient{responses: []string{
		`{"needs_data": false, "sql_query": null, "query_type": "greeting"}`,
		`{"cards": [{"type": "text", "content": {"body": "Hi! I can help track spending."}}]}`,
	}}
	svc, convos, _, sessionID := newQueryFixture(t, fake)
	ctx := context.Background()

	got, err := svc.Process(ctx, sessionID, "hello")
	if err != nil {
		t.Fatalf("Process: %v", err)
	}

	if len(got.Cards) != 1 || got.Cards[0].Text == nil {
		t.Fatalf("cards = %+v", got.Cards)
	}
	if len(fake.calls) != 2 {
		t.Fatalf("made %d LLM calls, want 2", len(fake.calls))
	}
	if fake.calls[0].system != ai.AnalyzeSystemPrompt {
		t.Error("first call should use the analyzer prompt")
	}
	if fake.calls[1].system != ai.ConversationalSystemPrompt {
		t.Error("second call should use the conversational prompt")
	}

	history, err := convos.RecentHistory(ctx, sessionID)
	if err != nil {
		t.Fatalf("RecentHistory: %v", err)
	}
	if len(history) != 2 {
		t.Fatalf("recorded %d turns, want user + assistant", len(history))
	}
	if history[0].Role != "user" || history[0].Content != "hello" {
		t.Errorf("user turn = %+v", history[0])
	}
	if history[1].Role != "assistant" || history[1].Content != "Hi! I can help track spending." {
		t.Errorf("assistant turn = %+v", history[1])
	}
}

func TestProcessDataQuery(t *testing.T) {
	fake := &fakeClient{responses: []string{
		`{"needs_data": true, "sql_query": "SELECT SUM(ABS(amount)) as total FROM ledger WHERE category_id = 'dining' AND amount < 0", "query_type": "data_query"}`,
		`{"cards": [{"type": "text", "content": {"body": "You spent **$42.50** on dining."}}]}`,
	}}
	svc, _, store, sessionID := newQueryFixture(t, fake)
	ctx := context.Background()

	_, err := store.InsertLedgerEntry(ctx, types.LedgerEntry{
		Date:        "2025-06-01",
		Description: "dinner",
		Amount:      decimal.NewFromFloat(-42.50),
		CategoryID:  "dining",
		Source:      "manual",
	})
	if err != nil {
		t.Fatalf("InsertLedgerEntry: %v", err)
	}

	got, err := svc.Process(ctx, sessionID, "how much did I spend on dining?")
	if err != nil {
		t.Fatalf("Process: %v", err)
	}

	if len(got.Cards) != 1 || got.Cards[0].Text.Body != "You spent **$42.50** on dining." {
		t.Fatalf("cards = %+v", got.Cards)
	}

	format := fake.calls[1]
	if format.system != ai.FormatSystemPrompt {
		t.Error("second call should use the formatter prompt")
	}
	if !strings.Contains(format.prompt, "User question: how much did I spend on dining?") {
		t.Errorf("format prompt missing question: %q", format.prompt)
	}
	if !strings.Contains(format.prompt, "Query results:") {
		t.Errorf("format prompt missing results framing: %q", format.prompt)
	}
	if !strings.Contains(format.prompt, `"row_count":1`) {
		t.Errorf("format prompt missing result data: %q", format.prompt)
	}
	if !strings.Contains(format.prompt, "42.5") {
		t.Errorf("format prompt missing the summed amount: %q", format.prompt)
	}
}

func TestProcessEmptyResultSkipsFormatting(t *testing.T) {
	fake := &fakeClient{responses: []string{
		`{"needs_data": true, "sql_query": "SELECT date, amount FROM ledger WHERE category_id = 'travel'", "query_type": "data_query"}`,
	}}
	svc, _, _, sessionID := newQueryFixture(t, fake)

	got, err := svc.Process(context.Background(), sessionID, "travel spending?")
	if err != nil {
		t.Fatalf("Process: %v", err)
	}

	if len(fake.calls) != 1 {
		t.Fatalf("made %d LLM calls, want 1 (no formatting for empty results)", len(fake.calls))
	}
	card := got.Cards[0]
	if card.Text == nil {
		t.Fatal("expected a text card")
	}
	if !strings.Contains(card.Text.Body, "I don't have any data matching that query yet") {
		t.Errorf("body = %q", card.Text.Body)
	}
	if card.Text.IsError == nil || *card.Text.IsError {
		t.Error("empty-result card must not be an error")
	}
}

func TestProcessRejectsNonSelect(t *testing.T) {
	fake := &fakeClient{responses: []string{
		`{"needs_data": true, "sql_query": "DELETE FROM ledger", "query_type": "data_query"}`,
	}}
	svc, _, store, sessionID := newQueryFixture(t, fake)
	ctx := context.Background()

	if _, err := store.InsertLedgerEntry(ctx, types.LedgerEntry{
		Date: "2025-06-01", Description: "x", Amount: decimal.NewFromInt(-1),
		CategoryID: "other", Source: "manual",
	}); err != nil {
		t.Fatalf("InsertLedgerEntry: %v", err)
	}

	got, err := svc.Process(ctx, sessionID, "wipe everything")
	if err != nil {
		t.Fatalf("Process: %v", err)
	}

	if len(fake.calls) != 1 {
		t.Fatalf("made %d LLM calls, want 1", len(fake.calls))
	}
	card := got.Cards[0]
	if card.Text.IsError == nil || !*card.Text.IsError {
		t.Fatal("expected an error card")
	}
	if !strings.Contains(card.Text.Body, "I couldn't retrieve that data. Error:") {
		t.Errorf("body = %q", card.Text.Body)
	}
	if !strings.Contains(card.Text.Body, "DELETE FROM ledger") {
		t.Errorf("body should echo the rejected SQL: %q", card.Text.Body)
	}

	// the row is untouched
	result, err := store.Select(ctx, "SELECT id FROM ledger")
	if err != nil {
		t.Fatalf("Select: %v", err)
	}
	if result.RowCount != 1 {
		t.Error("non-SELECT statement must not reach the store")
	}
}

func TestProcessGateIsPrefixOnly(t *testing.T) {
	// leading whitespace and lowercase pass the gate
	fake := &fakeClient{responses: []string{
		`{"needs_data": true, "sql_query": "  select 1 as one", "query_type": "data_query"}`,
		`{"cards": [{"type": "text", "content": {"body": "one"}}]}`,
	}}
	svc, _, _, sessionID := newQueryFixture(t, fake)

	got, err := svc.Process(context.Background(), sessionID, "q")
	if err != nil {
		t.Fatalf("Process: %v", err)
	}
	if got.Cards[0].Text == nil || got.Cards[0].Text.Body != "one" {
		t.Errorf("cards = %+v", got.Cards)
	}
	if len(fake.calls) != 2 {
		t.Errorf("made %d LLM calls, want 2", len(fake.calls))
	}
}

func TestProcessGateAcceptsSelectPrefixWord(t *testing.T) {
	// "SELECTed" starts with SELECT, so the gate lets it through and the
	// store reports the syntax error; the gate never rejects it itself
	fake := &fakeClient{responses: []string{
		`{"needs_data": true, "sql_query": "SELECTed data FROM ledger", "query_type": "data_query"}`,
	}}
	svc, _, _, sessionID := newQueryFixture(t, fake)

	got, err := svc.Process(context.Background(), sessionID, "q")
	if err != nil {
		t.Fatalf("Process: %v", err)
	}

	card := got.Cards[0]
	if card.Text.IsError == nil || !*card.Text.IsError {
		t.Fatal("expected a SQL error card")
	}
	if strings.Contains(card.Text.Body, "only SELECT queries are allowed") {
		t.Errorf("gate rejected a SELECT-prefixed statement: %q", card.Text.Body)
	}
	if !strings.Contains(card.Text.Body, "in SELECTed data FROM ledger") {
		t.Errorf("body = %q", card.Text.Body)
	}
}

func TestProcessSQLErrorBecomesErrorCard(t *testing.T) {
	fake := &fakeClient{responses: []string{
		`{"needs_data": true, "sql_query": "SELECT nope FROM not_a_table", "query_type": "data_query"}`,
	}}
	svc, _, _, sessionID := newQueryFixture(t, fake)

	got, err := svc.Process(context.Background(), sessionID, "q")
	if err != nil {
		t.Fatalf("Process: %v", err)
	}

	card := got.Cards[0]
	if card.Text.IsError == nil || !*card.Text.IsError {
		t.Fatal("expected an error card")
	}
	if !strings.Contains(card.Text.Body, "in SELECT nope FROM not_a_table") {
		t.Errorf("body = %q", card.Text.Body)
	}
}

func TestProcessAnalyzerFailureIsHardError(t *testing.T) {
	fake := &fakeClient{errs: []error{errors.New("boom")}}
	svc, _, _, sessionID := newQueryFixture(t, fake)

	if _, err := svc.Process(context.Background(), sessionID, "q"); err == nil {
		t.Fatal("expected analyzer transport failure to surface")
	}
}

func TestProcessIncludesHistoryPreamble(t *testing.T) {
	fake := &fakeClient{responses: []string{
		`{"needs_data": false, "sql_query": null, "query_type": "general"}`,
		`{"cards": [{"type": "text", "content": {"body": "sure"}}]}`,
		`{"needs_data": false, "sql_query": null, "query_type": "general"}`,
		`{"cards": [{"type": "text", "content": {"body": "again"}}]}`,
	}}
	svc, _, _, sessionID := newQueryFixture(t, fake)
	ctx := context.Background()

	if _, err := svc.Process(ctx, sessionID, "first question"); err != nil {
		t.Fatalf("Process: %v", err)
	}
	if _, err := svc.Process(ctx, sessionID, "second question"); err != nil {
		t.Fatalf("Process: %v", err)
	}

	third := fake.calls[2]
	if !strings.Contains(third.prompt, "## Recent Conversation History") {
		t.Errorf("second-turn analyzer prompt missing history: %q", third.prompt)
	}
	if !strings.Contains(third.prompt, "User: first question") {
		t.Errorf("history missing first turn: %q", third.prompt)
	}
	if !strings.Contains(third.prompt, "Current message:\nsecond question") {
		t.Errorf("prompt should end with the current question: %q", third.prompt)
	}
}
