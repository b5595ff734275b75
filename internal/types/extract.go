package types

import "github.com/shopspring/decimal"

// ExtractedTransaction is one transaction pulled out of a statement or
// document by the LLM. Negative amounts are expenses, positive income.
// It has no identity until a caller persists it as a ledger entry.
type ExtractedTransaction struct {
	Date        string          `json:"date"`
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount"`
	Currency    string          `json:"currency"`
	Category    string          `json:"category"`
	Merchant    *string         `json:"merchant,omitempty"`
}

// ParsedReceiptItem is one line item from a receipt. Names are lowercase
// kebab-case per the extraction prompt.
type ParsedReceiptItem struct {
	Name       string           `json:"name"`
	Quantity   *float64         `json:"quantity,omitempty"`
	Unit       *string          `json:"unit,omitempty"`
	UnitPrice  *decimal.Decimal `json:"unit_price,omitempty"`
	TotalPrice decimal.Decimal  `json:"total_price"`
	Category   *string          `json:"category,omitempty"`
	Brand      *string          `json:"brand,omitempty"`
}

// ParsedReceipt is the item-level result of receipt extraction.
type ParsedReceipt struct {
	Merchant string              `json:"merchant"`
	Date     string              `json:"date"`
	Items    []ParsedReceiptItem `json:"items"`
	Tax      *decimal.Decimal    `json:"tax,omitempty"`
	Total    decimal.Decimal     `json:"total"`
	Category string              `json:"category"`
}

// ExpenseDetection is the result of scanning a chat message for a
// mentioned transaction.
type ExpenseDetection struct {
	IsTransaction bool             `json:"is_transaction"`
	Date          *string          `json:"date,omitempty"`
	Description   *string          `json:"description,omitempty"`
	Amount        *decimal.Decimal `json:"amount,omitempty"`
	Category      *string          `json:"category,omitempty"`
	Merchant      *string          `json:"merchant,omitempty"`
	Confidence    *string          `json:"confidence,omitempty"`
}

// LedgerEntry is a persisted transaction row.
type LedgerEntry struct {
	ID          string          `json:"id"`
	DocumentID  *string         `json:"document_id,omitempty"`
	AccountID   *string         `json:"account_id,omitempty"`
	Date        string          `json:"date"`
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount"`
	Currency    string          `json:"currency"`
	CategoryID  string          `json:"category_id"`
	Merchant    *string         `json:"merchant,omitempty"`
	Notes       *string         `json:"notes,omitempty"`
	Source      string          `json:"source"`
	CreatedAt   string          `json:"created_at"`
}

// PurchasedItem is a persisted receipt line item linked to a ledger entry.
type PurchasedItem struct {
	ID          string           `json:"id"`
	ReceiptID   *string          `json:"receipt_id,omitempty"`
	LedgerID    string           `json:"ledger_id"`
	Name        string           `json:"name"`
	Quantity    float64          `json:"quantity"`
	Unit        *string          `json:"unit,omitempty"`
	UnitPrice   *decimal.Decimal `json:"unit_price,omitempty"`
	TotalPrice  decimal.Decimal  `json:"total_price"`
	Category    *string          `json:"category,omitempty"`
	Brand       *string          `json:"brand,omitempty"`
	PurchasedAt string           `json:"purchased_at"`
	CreatedAt   string           `json:"created_at"`
}
