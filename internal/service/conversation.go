package service

import (
	"context"
	"sync"

	"yukid/internal/ai"
	"yukid/internal/db"
	"yukid/internal/types"

	"github.com/charmbracelet/log"
)

// ----- interface ---------------------------------------------------------------------------

type ConversationService interface {
	// GetOrCreateCurrent returns the live session id, starting a fresh
	// session when none is active.
	GetOrCreateCurrent(ctx context.Context) (string, error)

	// RecentHistory returns up to ai.HistoryLimit messages for a session in
	// chronological order.
	RecentHistory(ctx context.Context, sessionID string) ([]types.Message, error)

	// RecordTurn persists one message best-effort. Losing a history row must
	// never fail the query that produced it, so errors are logged and
	// swallowed.
	RecordTurn(ctx context.Context, sessionID, role, content string)

	// Clear abandons the current conversation and returns the id of the
	// fresh session that replaces it. No rows are deleted; prior messages
	// persist for audit and history.
	Clear(ctx context.Context) (string, error)
}

type convoSvc struct {
	store *db.DB
	log   *log.Logger

	mu      sync.Mutex
	current string
}

func newConvoSvc(store *db.DB, logger *log.Logger) ConversationService {
	return &convoSvc{store: store, log: logger}
}

// ----- methods -----------------------------------------------------------------------------

func (s *convoSvc) GetOrCreateCurrent(ctx context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.current != "" {
		return s.current, nil
	}

	id, err := s.store.CreateSession(ctx)
	if err != nil {
		return "", wrapErr("ConversationService.GetOrCreateCurrent", err)
	}

	s.current = id
	return id, nil
}

func (s *convoSvc) RecentHistory(ctx context.Context, sessionID string) ([]types.Message, error) {
	msgs, err := s.store.RecentMessages(ctx, sessionID, ai.HistoryLimit)
	if err != nil {
		return nil, wrapErr("ConversationService.RecentHistory", err)
	}

	// newest-first from the store, chronological for prompts
	for i, j := 0, len(msgs)-1; i < j; i, j = i+1, j-1 {
		msgs[i], msgs[j] = msgs[j], msgs[i]
	}
	return msgs, nil
}

func (s *convoSvc) RecordTurn(ctx context.Context, sessionID, role, content string) {
	if err := s.store.InsertMessage(ctx, sessionID, role, content); err != nil {
		s.log.Warn("failed to record conversation turn", "session", sessionID, "role", role, "err", err)
	}
}

func (s *convoSvc) Clear(ctx context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id, err := s.store.CreateSession(ctx)
	if err != nil {
		return "", wrapErr("ConversationService.Clear", err)
	}

	s.current = id
	s.log.Info("conversation cleared", "session", id)
	return id, nil
}
