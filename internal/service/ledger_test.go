package service

import (
	"context"
	"errors"
	"testing"

	"yukid/internal/db"
	"yukid/internal/types"

	"github.com/shopspring/decimal"
)

func seedLedger(t *testing.T, store *db.DB, date, desc string, amount float64) string {
	t.Helper()
	id, err := store.InsertLedgerEntry(context.Background(), types.LedgerEntry{
		Date:        date,
		Description: desc,
		Amount:      decimal.NewFromFloat(amount),
		CategoryID:  "other",
		Source:      "manual",
	})
	if err != nil {
		t.Fatalf("InsertLedgerEntry: %v", err)
	}
	return id
}

func TestLedgerListNewestFirst(t *testing.T) {
	store := db.SetupTestDB(t)
	svc := newLedgerSvc(store, testLogger())
	ctx := context.Background()

	seedLedger(t, store, "2025-06-01", "older", -10)
	seedLedger(t, store, "2025-06-03", "newest", -30)
	seedLedger(t, store, "2025-06-02", "middle", -20)

	entries, err := svc.List(ctx, 0)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(entries) != 3 {
		t.Fatalf("got %d entries", len(entries))
	}
	want := []string{"newest", "middle", "older"}
	for i, w := range want {
		if entries[i].Description != w {
			t.Errorf("entries[%d] = %q, want %q", i, entries[i].Description, w)
		}
	}

	limited, err := svc.List(ctx, 2)
	if err != nil {
		t.Fatalf("List limited: %v", err)
	}
	if len(limited) != 2 {
		t.Errorf("got %d entries with limit 2", len(limited))
	}
}

func TestLedgerDeleteCascades(t *testing.T) {
	store := db.SetupTestDB(t)
	svc := newLedgerSvc(store, testLogger())
	ctx := context.Background()

	id := seedLedger(t, store, "2025-06-01", "groceries", -20)
	items := []types.PurchasedItem{{Name: "bread", TotalPrice: decimal.NewFromFloat(3.50)}}
	if err := store.InsertPurchasedItems(ctx, id, "2025-06-01", items); err != nil {
		t.Fatalf("InsertPurchasedItems: %v", err)
	}

	if err := svc.Delete(ctx, id); err != nil {
		t.Fatalf("Delete: %v", err)
	}

	result, err := store.Select(ctx, `SELECT id FROM ledger`)
	if err != nil {
		t.Fatalf("Select ledger: %v", err)
	}
	if result.RowCount != 0 {
		t.Error("ledger entry survived delete")
	}
	result, err = store.Select(ctx, `SELECT id FROM purchased_items`)
	if err != nil {
		t.Fatalf("Select items: %v", err)
	}
	if result.RowCount != 0 {
		t.Error("purchased items survived delete")
	}
}

func TestLedgerDeleteMissing(t *testing.T) {
	store := db.SetupTestDB(t)
	svc := newLedgerSvc(store, testLogger())

	if err := svc.Delete(context.Background(), "no-such-id"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
	if err := svc.Delete(context.Background(), ""); !errors.Is(err, ErrValidation) {
		t.Fatalf("err = %v, want ErrValidation", err)
	}
}
