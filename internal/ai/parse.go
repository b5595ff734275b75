package ai

import (
	"encoding/json"
	"strings"
	"time"

	"yukid/internal/types"
)

// Model output is not guaranteed to be pure JSON: it arrives wrapped in
// markdown fences, prefixed with prose, or occasionally not as JSON at all.
// Decoding runs an ordered chain of candidate substrings and the first one
// that unmarshals wins. Total failure is an expected condition and every
// Decode* helper falls back to a neutral default instead of returning an
// error.

// QueryAnalysis is the analyzer's verdict on a user question. Transient,
// never persisted.
type QueryAnalysis struct {
	NeedsData bool   `json:"needs_data"`
	SQLQuery  string `json:"sql_query"`
	QueryType string `json:"query_type"`
}

// stripFences removes a leading ```json / ``` fence and a trailing ```.
func stripFences(raw string) string {
	s := strings.TrimSpace(raw)
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}

// bracketSlice returns the substring from the first open bracket to the
// last close bracket, or "" when no such span exists.
func bracketSlice(raw string, open, shut byte) string {
	start := strings.IndexByte(raw, open)
	end := strings.LastIndexByte(raw, shut)
	if start < 0 || end <= start {
		return ""
	}
	return raw[start : end+1]
}

// candidates lists the substrings that may hold the JSON value, in the
// order they are attempted: raw text, fence-stripped text, then the
// outermost object and array spans.
func candidates(raw string) []string {
	out := []string{raw}
	if stripped := stripFences(raw); stripped != raw {
		out = append(out, stripped)
	}
	if obj := bracketSlice(raw, '{', '}'); obj != "" {
		out = append(out, obj)
	}
	if arr := bracketSlice(raw, '[', ']'); arr != "" {
		out = append(out, arr)
	}
	return out
}

// decodeFirst unmarshals the first candidate that parses as T.
func decodeFirst[T any](raw string, out *T) bool {
	for _, c := range candidates(raw) {
		var v T
		if err := json.Unmarshal([]byte(c), &v); err == nil {
			*out = v
			return true
		}
	}
	return false
}

// DecodeAnalysis parses the analyzer's output, defaulting to a
// conversational verdict when nothing in the text parses.
func DecodeAnalysis(raw string) QueryAnalysis {
	var analysis QueryAnalysis
	if decodeFirst(raw, &analysis) {
		return analysis
	}
	return QueryAnalysis{NeedsData: false, QueryType: "general"}
}

// DecodeCards parses a card response. Unparseable output becomes a single
// non-error text card carrying the raw text verbatim, so the user always
// sees what the model said.
func DecodeCards(raw string) types.ResponseData {
	var data types.ResponseData
	if decodeFirst(raw, &data) && len(data.Cards) > 0 {
		return data
	}
	return types.ResponseData{Cards: []types.ResponseCard{types.NewTextCard(raw, false)}}
}

// DecodeTransactions parses an extracted transaction list, defaulting to an
// empty list.
func DecodeTransactions(raw string) []types.ExtractedTransaction {
	var txns []types.ExtractedTransaction
	if decodeFirst(raw, &txns) {
		return txns
	}
	return nil
}

// DecodeReceipt parses a receipt extraction, defaulting to an empty receipt
// dated now.
func DecodeReceipt(raw string, now time.Time) types.ParsedReceipt {
	var receipt types.ParsedReceipt
	if decodeFirst(raw, &receipt) {
		return receipt
	}
	return types.ParsedReceipt{
		Merchant: "Unknown",
		Date:     now.UTC().Format("2006-01-02"),
		Items:    []types.ParsedReceiptItem{},
		Category: "Other",
	}
}

// DecodeExpense parses an expense detection, defaulting to "no transaction".
func DecodeExpense(raw string) types.ExpenseDetection {
	var detection types.ExpenseDetection
	if decodeFirst(raw, &detection) {
		return detection
	}
	return types.ExpenseDetection{IsTransaction: false}
}
