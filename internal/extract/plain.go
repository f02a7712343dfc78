package extract

import (
	"bytes"
	"context"
	"strings"
	"unicode/utf8"
)

var pdfMagic = []byte("%PDF-")

// PlainText handles text and markdown résumés: validates the payload is
// text, strips stray control bytes, and returns it as-is.
type PlainText struct{}

// NewPlainText creates the passthrough extractor.
func NewPlainText() *PlainText {
	return &PlainText{}
}

// Extract returns the cleaned UTF-8 text of the document. Binary
// payloads (including PDFs) fail with ErrUnsupportedFormat.
func (p *PlainText) Extract(ctx context.Context, data []byte, contentType string) (string, error) {
	if bytes.HasPrefix(data, pdfMagic) {
		return "", ErrUnsupportedFormat
	}
	if !utf8.Valid(data) {
		return "", ErrUnsupportedFormat
	}

	var b strings.Builder
	b.Grow(len(data))
	for _, r := range string(data) {
		if r == '\n' || r == '\t' || r >= ' ' {
			b.WriteRune(r)
		}
	}
	text := strings.TrimSpace(b.String())
	if text == "" {
		return "", ErrNoText
	}
	return text, nil
}

var _ Extractor = (*PlainText)(nil)
