// Package textproc cleans and splits extracted document text before it is
// embedded.
package textproc

import (
	"strings"
	"unicode"

	"github.com/cloo-solutions/documind/internal/domain"
)

// Normalize cleans raw extracted text: runs of spaces and tabs collapse to
// a single space, line breaks are preserved (paragraph boundaries matter
// for chunking), control characters other than newline and carriage return
// are stripped, and the result is trimmed. It never fails; empty input
// yields empty output.
func Normalize(raw string) string {
	if raw == "" {
		return ""
	}

	raw = strings.ReplaceAll(raw, "\r\n", "\n")

	var b strings.Builder
	b.Grow(len(raw))

	pendingSpace := false
	for _, r := range raw {
		switch {
		case r == ' ' || r == '\t':
			pendingSpace = true
		case r == '\n' || r == '\r':
			b.WriteRune(r)
			pendingSpace = false
		case unicode.IsControl(r):
			// drop
		default:
			if pendingSpace {
				b.WriteByte(' ')
				pendingSpace = false
			}
			b.WriteRune(r)
		}
	}

	return strings.TrimSpace(b.String())
}

// NormalizePages normalizes each page's text in place, dropping pages that
// are blank after cleaning.
func NormalizePages(pages []domain.Page) []domain.Page {
	out := make([]domain.Page, 0, len(pages))
	for _, p := range pages {
		clean := Normalize(p.Text)
		if clean == "" {
			continue
		}
		p.Text = clean
		out = append(out, p)
	}
	return out
}
