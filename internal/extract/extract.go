// Package extract turns uploaded résumé documents into plain text.
// Extraction failures are typed and surfaced to the caller; diagnostic
// text is never silently fed into the interview prompt.
package extract

import (
	"context"
	"errors"
)

var (
	// ErrUnsupportedFormat is returned when the extractor cannot handle
	// the document's content type.
	ErrUnsupportedFormat = errors.New("unsupported document format")
	// ErrNoText is returned when extraction succeeds mechanically but
	// yields no usable text.
	ErrNoText = errors.New("no text extracted from document")
)

// Extractor converts raw document bytes into plain text.
type Extractor interface {
	Extract(ctx context.Context, data []byte, contentType string) (string, error)
}
