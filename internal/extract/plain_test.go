package extract

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPlainTextPassesThroughText(t *testing.T) {
	p := NewPlainText()

	got, err := p.Extract(context.Background(), []byte("5 years Go\nDistributed systems\n"), "text/plain")
	require.NoError(t, err)
	assert.Equal(t, "5 years Go\nDistributed systems", got)
}

func TestPlainTextStripsControlBytes(t *testing.T) {
	p := NewPlainText()

	got, err := p.Extract(context.Background(), []byte("hello\x00world\tok"), "text/plain")
	require.NoError(t, err)
	assert.Equal(t, "helloworld\tok", got)
}

func TestPlainTextRejectsPDF(t *testing.T) {
	p := NewPlainText()

	_, err := p.Extract(context.Background(), []byte("%PDF-1.7 ..."), "application/pdf")
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestPlainTextRejectsBinary(t *testing.T) {
	p := NewPlainText()

	_, err := p.Extract(context.Background(), []byte{0xff, 0xfe, 0x00, 0x01}, "application/octet-stream")
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestPlainTextRejectsEmpty(t *testing.T) {
	p := NewPlainText()

	_, err := p.Extract(context.Background(), []byte("   \n  "), "text/plain")
	assert.ErrorIs(t, err, ErrNoText)
}
