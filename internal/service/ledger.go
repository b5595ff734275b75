package service

import (
	"context"

	"yukid/internal/db"
	"yukid/internal/types"

	"github.com/charmbracelet/log"
)

// ----- interface ---------------------------------------------------------------------------

type LedgerService interface {
	// List returns the most recent entries, newest first.
	List(ctx context.Context, limit int) ([]types.LedgerEntry, error)

	// Delete removes an entry and its purchased items. ErrNotFound when the
	// id does not exist.
	Delete(ctx context.Context, id string) error
}

type ledgerSvc struct {
	store *db.DB
	log   *log.Logger
}

func newLedgerSvc(store *db.DB, logger *log.Logger) LedgerService {
	return &ledgerSvc{store: store, log: logger}
}

// ----- methods -----------------------------------------------------------------------------

const defaultLedgerLimit = 100

func (s *ledgerSvc) List(ctx context.Context, limit int) ([]types.LedgerEntry, error) {
	if limit <= 0 {
		limit = defaultLedgerLimit
	}

	entries, err := s.store.ListLedgerEntries(ctx, limit)
	if err != nil {
		return nil, wrapErr("LedgerService.List", err)
	}
	return entries, nil
}

func (s *ledgerSvc) Delete(ctx context.Context, id string) error {
	if id == "" {
		return wrapErr("LedgerService.Delete", ErrValidation)
	}

	if err := s.store.DeleteLedgerEntry(ctx, id); err != nil {
		if db.IsNoRows(err) {
			return wrapErr("LedgerService.Delete", ErrNotFound)
		}
		return wrapErr("LedgerService.Delete", err)
	}

	s.log.Info("deleted ledger entry", "id", id)
	return nil
}
