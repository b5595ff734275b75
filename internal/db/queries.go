package db

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"yukid/internal/types"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// providerKey is the settings row holding the model provider config as JSON.
const providerKey = "provider"

// ErrNoRows reports a lookup that matched nothing.
var ErrNoRows = sql.ErrNoRows

func now() string {
	return time.Now().UTC().Format(time.RFC3339)
}

// GetSetting returns the value for key, or ErrNoRows.
func (s *DB) GetSetting(ctx context.Context, key string) (string, error) {
	var value string
	err := s.conn.QueryRowContext(ctx, `SELECT value FROM settings WHERE key = ?`, key).Scan(&value)
	if err != nil {
		return "", err
	}
	return value, nil
}

// SetSetting upserts a settings row.
func (s *DB) SetSetting(ctx context.Context, key, value string) error {
	_, err := s.conn.ExecContext(ctx,
		`INSERT INTO settings (key, value) VALUES (?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value`,
		key, value)
	return err
}

// GetProvider loads the configured model provider. ErrNoRows when none is set.
func (s *DB) GetProvider(ctx context.Context) (types.Provider, error) {
	raw, err := s.GetSetting(ctx, providerKey)
	if err != nil {
		return types.Provider{}, err
	}

	var p types.Provider
	if err := json.Unmarshal([]byte(raw), &p); err != nil {
		return types.Provider{}, fmt.Errorf("decode provider setting: %w", err)
	}
	return p, nil
}

// SetProvider stores the model provider config.
func (s *DB) SetProvider(ctx context.Context, p types.Provider) error {
	raw, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("encode provider setting: %w", err)
	}
	return s.SetSetting(ctx, providerKey, string(raw))
}

// CategoryNames returns display names of all categories, ordered by name.
func (s *DB) CategoryNames(ctx context.Context) ([]string, error) {
	rows, err := s.conn.QueryContext(ctx, `SELECT name FROM categories ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

// Categories returns all categories ordered by name.
func (s *DB) Categories(ctx context.Context) ([]types.Category, error) {
	rows, err := s.conn.QueryContext(ctx,
		`SELECT id, name, icon, color, is_default, created_at FROM categories ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var cats []types.Category
	for rows.Next() {
		var c types.Category
		var isDefault int
		if err := rows.Scan(&c.ID, &c.Name, &c.Icon, &c.Color, &isDefault, &c.CreatedAt); err != nil {
			return nil, err
		}
		c.IsDefault = isDefault == 1
		cats = append(cats, c)
	}
	return cats, rows.Err()
}

// CreateCategory inserts a user-defined category and returns its id.
func (s *DB) CreateCategory(ctx context.Context, name, color string) (string, error) {
	id := uuid.NewString()
	_, err := s.conn.ExecContext(ctx,
		`INSERT INTO categories (id, name, icon, color, is_default, created_at)
		 VALUES (?, ?, NULL, ?, 0, ?)`,
		id, name, color, now())
	if err != nil {
		return "", err
	}
	return id, nil
}

// CreateSession inserts a fresh conversation session and returns its id.
func (s *DB) CreateSession(ctx context.Context) (string, error) {
	id := uuid.NewString()
	ts := now()
	_, err := s.conn.ExecContext(ctx,
		`INSERT INTO conversation_sessions (id, created_at, updated_at) VALUES (?, ?, ?)`,
		id, ts, ts)
	if err != nil {
		return "", err
	}
	return id, nil
}

// InsertMessage appends one turn to a session and bumps the session's
// updated_at so the row reflects when the conversation was last active.
func (s *DB) InsertMessage(ctx context.Context, sessionID, role, content string) error {
	ts := now()
	_, err := s.conn.ExecContext(ctx,
		`INSERT INTO conversation_messages (id, session_id, role, content, created_at)
		 VALUES (?, ?, ?, ?, ?)`,
		uuid.NewString(), sessionID, role, content, ts)
	if err != nil {
		return err
	}

	_, err = s.conn.ExecContext(ctx,
		`UPDATE conversation_sessions SET updated_at = ? WHERE id = ?`, ts, sessionID)
	return err
}

// RecentMessages returns up to limit messages for a session, newest first.
func (s *DB) RecentMessages(ctx context.Context, sessionID string, limit int) ([]types.Message, error) {
	rows, err := s.conn.QueryContext(ctx,
		`SELECT role, content FROM conversation_messages
		 WHERE session_id = ?
		 ORDER BY created_at DESC, rowid DESC
		 LIMIT ?`,
		sessionID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var msgs []types.Message
	for rows.Next() {
		var m types.Message
		if err := rows.Scan(&m.Role, &m.Content); err != nil {
			return nil, err
		}
		msgs = append(msgs, m)
	}
	return msgs, rows.Err()
}

// InsertChatTurn archives one answered question for audit.
func (s *DB) InsertChatTurn(ctx context.Context, question, sqlQuery, response string, cardCount int) error {
	_, err := s.conn.ExecContext(ctx,
		`INSERT INTO chat_history (id, question, sql_query, response, card_count, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		uuid.NewString(), question, sqlQuery, response, cardCount, now())
	return err
}

// InsertLedgerEntry records one transaction and returns the new row id.
func (s *DB) InsertLedgerEntry(ctx context.Context, e types.LedgerEntry) (string, error) {
	id := uuid.NewString()
	accountID := "default"
	if e.AccountID != nil {
		accountID = *e.AccountID
	}
	currency := e.Currency
	if currency == "" {
		currency = "USD"
	}

	_, err := s.conn.ExecContext(ctx,
		`INSERT INTO ledger (id, document_id, account_id, date, description, amount,
		                     currency, category_id, merchant, notes, source, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		id, nullable(e.DocumentID), accountID, e.Date, e.Description,
		e.Amount.InexactFloat64(), currency, e.CategoryID,
		nullable(e.Merchant), nullable(e.Notes), e.Source, now())
	if err != nil {
		return "", err
	}
	return id, nil
}

// InsertReceipt archives a parsed receipt against its ledger entry and
// returns the new receipt id. Items are stored as the raw JSON the
// extraction produced.
func (s *DB) InsertReceipt(ctx context.Context, ledgerID string, r types.ParsedReceipt) (string, error) {
	items, err := json.Marshal(r.Items)
	if err != nil {
		return "", fmt.Errorf("encode receipt items: %w", err)
	}

	id := uuid.NewString()
	_, err = s.conn.ExecContext(ctx,
		`INSERT INTO receipts (id, document_id, ledger_id, merchant, items, tax, total)
		 VALUES (?, NULL, ?, ?, ?, ?, ?)`,
		id, ledgerID, r.Merchant, string(items), nullableDecimal(r.Tax), r.Total.InexactFloat64())
	if err != nil {
		return "", err
	}
	return id, nil
}

// InsertPurchasedItems records granular receipt line items against a ledger
// entry. The whole batch shares one purchase date.
func (s *DB) InsertPurchasedItems(ctx context.Context, ledgerID, purchasedAt string, items []types.PurchasedItem) error {
	for _, item := range items {
		qty := item.Quantity
		if qty == 0 {
			qty = 1
		}
		_, err := s.conn.ExecContext(ctx,
			`INSERT INTO purchased_items (id, receipt_id, ledger_id, name, quantity, unit,
			                              unit_price, total_price, category, brand,
			                              purchased_at, created_at)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			uuid.NewString(), nullable(item.ReceiptID), ledgerID, item.Name, qty,
			nullable(item.Unit), nullableDecimal(item.UnitPrice), item.TotalPrice.InexactFloat64(),
			nullable(item.Category), nullable(item.Brand), purchasedAt, now())
		if err != nil {
			return err
		}
	}
	return nil
}

// ListLedgerEntries returns up to limit entries, newest date first.
func (s *DB) ListLedgerEntries(ctx context.Context, limit int) ([]types.LedgerEntry, error) {
	rows, err := s.conn.QueryContext(ctx,
		`SELECT id, document_id, account_id, date, description, amount,
		        currency, category_id, merchant, notes, source, created_at
		 FROM ledger
		 ORDER BY date DESC, created_at DESC
		 LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []types.LedgerEntry
	for rows.Next() {
		var e types.LedgerEntry
		var amount float64
		if err := rows.Scan(&e.ID, &e.DocumentID, &e.AccountID, &e.Date, &e.Description,
			&amount, &e.Currency, &e.CategoryID, &e.Merchant, &e.Notes,
			&e.Source, &e.CreatedAt); err != nil {
			return nil, err
		}
		e.Amount = decimal.NewFromFloat(amount)
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// DeleteLedgerEntry removes one entry; its purchased items cascade.
// ErrNoRows when the id does not exist.
func (s *DB) DeleteLedgerEntry(ctx context.Context, id string) error {
	res, err := s.conn.ExecContext(ctx, `DELETE FROM ledger WHERE id = ?`, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

func nullable(s *string) any {
	if s == nil {
		return nil
	}
	return *s
}

func nullableDecimal(d *decimal.Decimal) any {
	if d == nil {
		return nil
	}
	return d.InexactFloat64()
}

// Select runs an arbitrary read query and renders every cell as a display
// value. Callers gate what reaches this; it does not validate SQL itself.
func (s *DB) Select(ctx context.Context, query string) (types.QueryResult, error) {
	rows, err := s.conn.QueryContext(ctx, query)
	if err != nil {
		return types.QueryResult{}, err
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return types.QueryResult{}, err
	}

	result := types.QueryResult{Columns: cols, Rows: [][]any{}}
	for rows.Next() {
		raw := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range raw {
			ptrs[i] = &raw[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return types.QueryResult{}, err
		}

		row := make([]any, len(cols))
		for i, v := range raw {
			row[i] = displayValue(v)
		}
		result.Rows = append(result.Rows, row)
	}
	if err := rows.Err(); err != nil {
		return types.QueryResult{}, err
	}

	result.RowCount = len(result.Rows)
	return result, nil
}

// displayValue maps a scanned cell to what the formatter prompt sees. Blobs
// are summarized rather than dumped into the prompt.
func displayValue(v any) any {
	switch x := v.(type) {
	case nil:
		return nil
	case []byte:
		return fmt.Sprintf("<blob %d bytes>", len(x))
	default:
		return x
	}
}

// IsNoRows reports whether err means a lookup found nothing.
func IsNoRows(err error) bool {
	return errors.Is(err, sql.ErrNoRows)
}
