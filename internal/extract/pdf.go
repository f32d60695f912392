// Package extract pulls page-level text out of staged document files.
package extract

import (
	"context"
	"strconv"
	"strings"

	"github.com/ledongthuc/pdf"

	"github.com/cloo-solutions/documind/internal/domain"
)

// PDFExtractor reads PDF files page by page.
type PDFExtractor struct{}

func NewPDFExtractor() *PDFExtractor {
	return &PDFExtractor{}
}

// Extract returns one Page per PDF page carrying the page number and the
// original filename as metadata. Pages that fail to extract are skipped;
// a document with no extractable text at all is an extraction failure.
func (e *PDFExtractor) Extract(ctx context.Context, path, source string) ([]domain.Page, error) {
	f, reader, err := pdf.Open(path)
	if err != nil {
		return nil, domain.NewDomainErrorWithCause(domain.ErrCodeExtractionFailure, "failed to open PDF", err)
	}
	defer f.Close()

	totalPages := reader.NumPage()
	pages := make([]domain.Page, 0, totalPages)

	for i := 1; i <= totalPages; i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}

		text, err := page.GetPlainText(nil)
		if err != nil {
			// Skip pages that fail to extract
			continue
		}
		if strings.TrimSpace(text) == "" {
			continue
		}

		pages = append(pages, domain.Page{
			Text: text,
			Metadata: map[string]string{
				domain.MetaPageNumber: strconv.Itoa(i),
				domain.MetaSource:     source,
			},
		})
	}

	if len(pages) == 0 {
		return nil, domain.NewDomainError(domain.ErrCodeExtractionFailure, "no extractable text in document")
	}

	return pages, nil
}
