package service

import (
	"context"
	"fmt"
	"strings"

	"yukid/internal/ai"
	"yukid/internal/db"
	"yukid/internal/pdf"
	"yukid/internal/types"

	"github.com/charmbracelet/log"
)

// ----- interface ---------------------------------------------------------------------------

type StatementService interface {
	// Parse extracts transactions from a bank statement, chunking multi-page
	// PDFs into page windows. Image statements go through a single vision
	// call.
	Parse(ctx context.Context, data []byte, filename string, categories []string) ([]types.ExtractedTransaction, error)
}

type statementSvc struct {
	store     *db.DB
	log       *log.Logger
	newClient clientFactory
}

func newStatementSvc(store *db.DB, logger *log.Logger, factory clientFactory) StatementService {
	return &statementSvc{store: store, log: logger, newClient: factory}
}

const (
	// wholeDocumentLimit is the page count at or below which a PDF is sent
	// in one vision call.
	wholeDocumentLimit = 3

	// chunkPageSize is the window width for larger PDFs.
	chunkPageSize = 2
)

// Stubbed in tests; PDFs in unit tests would otherwise need real page trees.
var (
	pageCount    = pdf.PageCount
	extractPages = pdf.ExtractPages
)

// ----- methods -----------------------------------------------------------------------------

func (s *statementSvc) Parse(ctx context.Context, data []byte, filename string, categories []string) ([]types.ExtractedTransaction, error) {
	client, err := activeClient(ctx, s.store, s.newClient)
	if err != nil {
		return nil, wrapErr("StatementService.Parse", err)
	}

	if !strings.HasSuffix(strings.ToLower(filename), ".pdf") {
		txns, err := s.parseWhole(ctx, client, data, mediaTypeFor(filename), categories)
		return txns, wrapErr("StatementService.Parse", err)
	}

	pages, err := pageCount(data)
	if err != nil {
		return nil, wrapErr("StatementService.Parse", err)
	}
	s.log.Info("parsing pdf statement", "pages", pages, "file", filename)

	if pages <= wholeDocumentLimit {
		txns, err := s.parseWhole(ctx, client, data, "application/pdf", categories)
		return txns, wrapErr("StatementService.Parse", err)
	}

	var all []types.ExtractedTransaction
	for _, w := range windows(pages, chunkPageSize) {
		chunk, err := extractPages(data, w.start, w.end)
		if err != nil {
			return nil, wrapErr("StatementService.Parse", fmt.Errorf("pages %d-%d: %w", w.start, w.end, err))
		}

		txns := s.parseChunk(ctx, client, chunk, w.start, w.end, categories)
		s.log.Info("parsed chunk", "pages", fmt.Sprintf("%d-%d", w.start, w.end), "transactions", len(txns))
		all = append(all, txns...)
	}

	s.log.Info("statement parsed", "transactions", len(all))
	return all, nil
}

// parseChunk runs one vision call for a page window. A failed call or
// unparseable output yields an empty list so the remaining windows still run.
func (s *statementSvc) parseChunk(ctx context.Context, client ai.Client, chunk []byte, start, end int, categories []string) []types.ExtractedTransaction {
	raw, err := client.CompleteWithVision(ctx,
		ai.StatementChunkUserPrompt(start, end),
		chunk, "application/pdf",
		ai.StatementChunkPrompt(start, end, categories))
	if err != nil {
		s.log.Error("chunk vision call failed", "pages", fmt.Sprintf("%d-%d", start, end), "err", err)
		return nil
	}
	return ai.DecodeTransactions(raw)
}

func (s *statementSvc) parseWhole(ctx context.Context, client ai.Client, data []byte, mediaType string, categories []string) ([]types.ExtractedTransaction, error) {
	raw, err := client.CompleteWithVision(ctx,
		ai.StatementUserPrompt,
		data, mediaType,
		ai.StatementPrompt(categories))
	if err != nil {
		return nil, visionErr(err)
	}
	return ai.DecodeTransactions(raw), nil
}

// ----- internal helpers --------------------------------------------------------------------

type pageWindow struct {
	start, end int
}

// windows slices a page count into consecutive non-overlapping ranges,
// 1-indexed inclusive. 7 pages at size 2 gives [1-2][3-4][5-6][7-7].
func windows(pages, size int) []pageWindow {
	var out []pageWindow
	for start := 1; start <= pages; start += size {
		end := start + size - 1
		if end > pages {
			end = pages
		}
		out = append(out, pageWindow{start: start, end: end})
	}
	return out
}

func mediaTypeFor(filename string) string {
	lower := strings.ToLower(filename)
	switch {
	case strings.HasSuffix(lower, ".pdf"):
		return "application/pdf"
	case strings.HasSuffix(lower, ".png"):
		return "image/png"
	case strings.HasSuffix(lower, ".webp"):
		return "image/webp"
	default:
		return "image/jpeg"
	}
}
