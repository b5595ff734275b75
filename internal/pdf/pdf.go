// Package pdf wraps the small slice of pdfcpu the statement pipeline needs:
// counting pages and carving page ranges out of an in-memory document.
package pdf

import (
	"bytes"
	"fmt"

	"github.com/pdfcpu/pdfcpu/pkg/api"
)

// PageCount reports the number of pages in a PDF held in memory.
func PageCount(data []byte) (int, error) {
	n, err := api.PageCount(bytes.NewReader(data), nil)
	if err != nil {
		return 0, fmt.Errorf("count pages: %w", err)
	}
	return n, nil
}

// ExtractPages returns a new PDF containing only pages from through to,
// inclusive and 1-indexed.
func ExtractPages(data []byte, from, to int) ([]byte, error) {
	if from < 1 || to < from {
		return nil, fmt.Errorf("extract pages: invalid range %d-%d", from, to)
	}

	var buf bytes.Buffer
	sel := []string{fmt.Sprintf("%d-%d", from, to)}
	if err := api.Trim(bytes.NewReader(data), &buf, sel, nil); err != nil {
		return nil, fmt.Errorf("extract pages %d-%d: %w", from, to, err)
	}
	return buf.Bytes(), nil
}
