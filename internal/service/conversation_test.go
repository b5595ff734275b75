package service

import (
	"context"
	"testing"

	"yukid/internal/db"
)

func TestGetOrCreateCurrentCaches(t *testing.T) {
	store := db.SetupTestDB(t)
	svc := newConvoSvc(store, testLogger())
	ctx := context.Background()

	first, err := svc.GetOrCreateCurrent(ctx)
	if err != nil {
		t.Fatalf("GetOrCreateCurrent: %v", err)
	}
	if first == "" {
		t.Fatal("expected a session id")
	}

	second, err := svc.GetOrCreateCurrent(ctx)
	if err != nil {
		t.Fatalf("GetOrCreateCurrent: %v", err)
	}
	if second != first {
		t.Errorf("second call returned %q, want cached %q", second, first)
	}
}

func TestGetOrCreateCurrentStartsFreshPerInstance(t *testing.T) {
	store := db.SetupTestDB(t)
	ctx := context.Background()

	prior, err := store.CreateSession(ctx)
	if err != nil {
		t.Fatalf("CreateSession: %v", err)
	}

	// a new service never injects an earlier conversation into prompts
	svc := newConvoSvc(store, testLogger())
	got, err := svc.GetOrCreateCurrent(ctx)
	if err != nil {
		t.Fatalf("GetOrCreateCurrent: %v", err)
	}
	if got == prior {
		t.Error("new instance must not resume a prior session")
	}
}

func TestClearStartsFreshAndKeepsRows(t *testing.T) {
	store := db.SetupTestDB(t)
	svc := newConvoSvc(store, testLogger())
	ctx := context.Background()

	first, err := svc.GetOrCreateCurrent(ctx)
	if err != nil {
		t.Fatalf("GetOrCreateCurrent: %v", err)
	}
	svc.RecordTurn(ctx, first, "user", "hello")
	svc.RecordTurn(ctx, first, "assistant", "hi there")

	second, err := svc.Clear(ctx)
	if err != nil {
		t.Fatalf("Clear: %v", err)
	}
	if second == first {
		t.Error("Clear should start a fresh session")
	}

	current, err := svc.GetOrCreateCurrent(ctx)
	if err != nil {
		t.Fatalf("GetOrCreateCurrent: %v", err)
	}
	if current != second {
		t.Errorf("current = %q, want the fresh session %q", current, second)
	}

	// the new session sees no history, but nothing was deleted
	history, err := svc.RecentHistory(ctx, second)
	if err != nil {
		t.Fatalf("RecentHistory: %v", err)
	}
	if len(history) != 0 {
		t.Errorf("history = %v, want empty", history)
	}

	result, err := store.Select(ctx, `SELECT id FROM conversation_messages`)
	if err != nil {
		t.Fatalf("Select messages: %v", err)
	}
	if result.RowCount != 2 {
		t.Errorf("got %d message rows after clear, want 2 kept for audit", result.RowCount)
	}

	old, err := svc.RecentHistory(ctx, first)
	if err != nil {
		t.Fatalf("RecentHistory old session: %v", err)
	}
	if len(old) != 2 {
		t.Errorf("old session history = %v, want both turns", old)
	}
}

func TestRecentHistoryChronological(t *testing.T) {
	store := db.SetupTestDB(t)
	svc := newConvoSvc(store, testLogger())
	ctx := context.Background()

	sessionID, err := svc.GetOrCreateCurrent(ctx)
	if err != nil {
		t.Fatalf("GetOrCreateCurrent: %v", err)
	}

	svc.RecordTurn(ctx, sessionID, "user", "one")
	svc.RecordTurn(ctx, sessionID, "assistant", "two")
	svc.RecordTurn(ctx, sessionID, "user", "three")

	history, err := svc.RecentHistory(ctx, sessionID)
	if err != nil {
		t.Fatalf("RecentHistory: %v", err)
	}
	if len(history) != 3 {
		t.Fatalf("got %d messages", len(history))
	}
	want := []string{"one", "two", "three"}
	for i, w := range want {
		if history[i].Content != w {
			t.Errorf("history[%d] = %q, want %q", i, history[i].Content, w)
		}
	}
}

func TestRecordTurnSwallowsErrors(t *testing.T) {
	store := db.SetupTestDB(t)
	svc := newConvoSvc(store, testLogger())

	// unknown session violates the foreign key; RecordTurn must not panic
	// or surface the failure
	svc.RecordTurn(context.Background(), "no-such-session", "user", "hi")
}
