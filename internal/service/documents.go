package service

import (
	"context"

	"yukid/internal/ai"
	"yukid/internal/db"
	"yukid/internal/types"

	"github.com/charmbracelet/log"
)

// ----- interface ---------------------------------------------------------------------------

type DocumentService interface {
	// ParseText extracts transactions from plain document text, like a
	// statement export or a pasted table.
	ParseText(ctx context.Context, text string, categories []string) ([]types.ExtractedTransaction, error)

	// DetectExpense scans a chat message for a mentioned transaction.
	DetectExpense(ctx context.Context, message string) (types.ExpenseDetection, error)
}

type documentSvc struct {
	store     *db.DB
	log       *log.Logger
	newClient clientFactory
}

func newDocumentSvc(store *db.DB, logger *log.Logger, factory clientFactory) DocumentService {
	return &documentSvc{store: store, log: logger, newClient: factory}
}

// ----- methods -----------------------------------------------------------------------------

func (s *documentSvc) ParseText(ctx context.Context, text string, categories []string) ([]types.ExtractedTransaction, error) {
	client, err := activeClient(ctx, s.store, s.newClient)
	if err != nil {
		return nil, wrapErr("DocumentService.ParseText", err)
	}

	raw, err := client.Complete(ctx, ai.DocumentUserPrompt(text), ai.DocumentExtractionPrompt(categories))
	if err != nil {
		return nil, wrapErr("DocumentService.ParseText", err)
	}

	txns := ai.DecodeTransactions(raw)
	s.log.Info("parsed document text", "chars", len(text), "transactions", len(txns))
	return txns, nil
}

func (s *documentSvc) DetectExpense(ctx context.Context, message string) (types.ExpenseDetection, error) {
	client, err := activeClient(ctx, s.store, s.newClient)
	if err != nil {
		return types.ExpenseDetection{}, wrapErr("DocumentService.DetectExpense", err)
	}

	raw, err := client.Complete(ctx, ai.ExpenseUserPrompt(message), ai.ExpenseDetectionPrompt)
	if err != nil {
		return types.ExpenseDetection{}, wrapErr("DocumentService.DetectExpense", err)
	}

	return ai.DecodeExpense(raw), nil
}
