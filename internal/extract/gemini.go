package extract

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"

	"google.golang.org/genai"
)

const (
	defaultExtractModel = "gemini-2.5-flash"

	extractInstruction = "Extract the plain text content of this document. " +
		"Return only the text, preserving section order, with no commentary."
)

// Gemini extracts text from PDF résumés by handing the raw bytes to the
// Gemini API and asking for a plain-text rendering. Text payloads are
// passed through without a model call.
type Gemini struct {
	client *genai.Client
	model  string
	plain  *PlainText
}

// NewGemini creates the Gemini-backed extractor.
func NewGemini(ctx context.Context, apiKey, model string) (*Gemini, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, errors.New("gemini api key is required")
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}
	if model = strings.TrimSpace(model); model == "" {
		model = defaultExtractModel
	}
	return &Gemini{client: client, model: model, plain: NewPlainText()}, nil
}

// Extract returns the document's plain text.
func (g *Gemini) Extract(ctx context.Context, data []byte, contentType string) (string, error) {
	if !bytes.HasPrefix(data, pdfMagic) && contentType != "application/pdf" {
		return g.plain.Extract(ctx, data, contentType)
	}

	contents := []*genai.Content{
		genai.NewContentFromBytes(data, "application/pdf", genai.RoleUser),
		genai.NewContentFromText(extractInstruction, genai.RoleUser),
	}

	result, err := g.client.Models.GenerateContent(ctx, g.model, contents, nil)
	if err != nil {
		return "", fmt.Errorf("extract text from document: %w", err)
	}
	text := strings.TrimSpace(result.Text())
	if text == "" {
		return "", ErrNoText
	}
	return text, nil
}

var _ Extractor = (*Gemini)(nil)
