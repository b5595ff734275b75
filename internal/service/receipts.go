package service

import (
	"context"
	"time"

	"yukid/internal/ai"
	"yukid/internal/db"
	"yukid/internal/types"

	"github.com/charmbracelet/log"
)

// ----- interface ---------------------------------------------------------------------------

type ReceiptService interface {
	// ParseText extracts line items from receipt text that has already been
	// pulled out of a document.
	ParseText(ctx context.Context, text string, categories []string) (types.ParsedReceipt, error)

	// ParseImage extracts line items from a receipt photo or scan via a
	// vision call.
	ParseImage(ctx context.Context, data []byte, filename string, categories []string) (types.ParsedReceipt, error)

	// Save persists a parsed receipt as a ledger entry plus purchased items.
	// Returns the new ledger entry id.
	Save(ctx context.Context, receipt types.ParsedReceipt, categoryID string) (string, error)
}

type receiptSvc struct {
	store     *db.DB
	log       *log.Logger
	newClient clientFactory
}

func newReceiptSvc(store *db.DB, logger *log.Logger, factory clientFactory) ReceiptService {
	return &receiptSvc{store: store, log: logger, newClient: factory}
}

// ----- methods -----------------------------------------------------------------------------

func (s *receiptSvc) ParseText(ctx context.Context, text string, categories []string) (types.ParsedReceipt, error) {
	client, err := activeClient(ctx, s.store, s.newClient)
	if err != nil {
		return types.ParsedReceipt{}, wrapErr("ReceiptService.ParseText", err)
	}

	raw, err := client.Complete(ctx, ai.ReceiptTextUserPrompt(text), ai.ReceiptTextPrompt(categories))
	if err != nil {
		return types.ParsedReceipt{}, wrapErr("ReceiptService.ParseText", err)
	}

	receipt := ai.DecodeReceipt(raw, time.Now())
	s.log.Info("parsed receipt text", "merchant", receipt.Merchant, "items", len(receipt.Items))
	return receipt, nil
}

func (s *receiptSvc) ParseImage(ctx context.Context, data []byte, filename string, categories []string) (types.ParsedReceipt, error) {
	client, err := activeClient(ctx, s.store, s.newClient)
	if err != nil {
		return types.ParsedReceipt{}, wrapErr("ReceiptService.ParseImage", err)
	}

	raw, err := client.CompleteWithVision(ctx,
		ai.ReceiptUserPrompt, data, mediaTypeFor(filename), ai.ReceiptVisionPrompt(categories))
	if err != nil {
		return types.ParsedReceipt{}, wrapErr("ReceiptService.ParseImage", visionErr(err))
	}

	receipt := ai.DecodeReceipt(raw, time.Now())
	s.log.Info("parsed receipt image", "file", filename, "merchant", receipt.Merchant, "items", len(receipt.Items))
	return receipt, nil
}

func (s *receiptSvc) Save(ctx context.Context, receipt types.ParsedReceipt, categoryID string) (string, error) {
	if receipt.Total.IsZero() && len(receipt.Items) == 0 {
		return "", wrapErr("ReceiptService.Save", ErrValidation)
	}
	if categoryID == "" {
		categoryID = "other"
	}

	entry := types.LedgerEntry{
		Date:        receipt.Date,
		Description: receipt.Merchant,
		Amount:      receipt.Total.Neg(),
		Currency:    "USD",
		CategoryID:  categoryID,
		Merchant:    &receipt.Merchant,
		Source:      "image",
	}

	ledgerID, err := s.store.InsertLedgerEntry(ctx, entry)
	if err != nil {
		return "", wrapErr("ReceiptService.Save", err)
	}

	receiptID, err := s.store.InsertReceipt(ctx, ledgerID, receipt)
	if err != nil {
		return "", wrapErr("ReceiptService.Save", err)
	}

	items := make([]types.PurchasedItem, len(receipt.Items))
	for i, it := range receipt.Items {
		qty := 1.0
		if it.Quantity != nil {
			qty = *it.Quantity
		}
		items[i] = types.PurchasedItem{
			ReceiptID:  &receiptID,
			Name:       it.Name,
			Quantity:   qty,
			Unit:       it.Unit,
			UnitPrice:  it.UnitPrice,
			TotalPrice: it.TotalPrice,
			Category:   it.Category,
			Brand:      it.Brand,
		}
	}

	if err := s.store.InsertPurchasedItems(ctx, ledgerID, receipt.Date, items); err != nil {
		return "", wrapErr("ReceiptService.Save", err)
	}

	s.log.Info("saved receipt", "ledger_id", ledgerID, "items", len(items))
	return ledgerID, nil
}
