package service

import (
	"context"

	"yukid/internal/ai"
	"yukid/internal/db"
	"yukid/internal/types"

	"github.com/charmbracelet/log"
)

// clientFactory builds a model client from a stored provider config. Tests
// swap it for a fake.
type clientFactory func(cfg types.Provider) (ai.Client, error)

type Services struct {
	Conversations ConversationService
	Query         QueryService
	Statements    StatementService
	Receipts      ReceiptService
	Documents     DocumentService
	Providers     ProviderService
	Categories    CategoryService
	Ledger        LedgerService
}

func New(store *db.DB, lg *log.Logger) *Services {
	convoSvc := newConvoSvc(store, lg.WithPrefix("convo"))

	return &Services{
		Conversations: convoSvc,
		Query:         newQuerySvc(store, lg.WithPrefix("query"), convoSvc, ai.New),
		Statements:    newStatementSvc(store, lg.WithPrefix("stmt"), ai.New),
		Receipts:      newReceiptSvc(store, lg.WithPrefix("receipt"), ai.New),
		Documents:     newDocumentSvc(store, lg.WithPrefix("doc"), ai.New),
		Providers:     newProviderSvc(store, lg.WithPrefix("provider"), ai.New),
		Categories:    newCatSvc(store, lg.WithPrefix("cat")),
		Ledger:        newLedgerSvc(store, lg.WithPrefix("ledger")),
	}
}

// activeClient resolves the stored provider config into a live client.
func activeClient(ctx context.Context, store *db.DB, factory clientFactory) (ai.Client, error) {
	cfg, err := store.GetProvider(ctx)
	if err != nil {
		if db.IsNoRows(err) {
			return nil, ErrNoProvider
		}
		return nil, err
	}
	return factory(cfg)
}
