// Package ocrqa answers questions about images locally: the page is run
// through OCR and the recognized text is handed to a text QA capability.
package ocrqa

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/custodia-labs/askdoc/internal/core/domain"
	"github.com/custodia-labs/askdoc/internal/core/ports/driven"
	"github.com/custodia-labs/askdoc/internal/logger"
)

// Ensure DocumentQA implements the interface.
var _ driven.DocumentQA = (*DocumentQA)(nil)

// Pinger is implemented by OCR engines that can check their binary.
type Pinger interface {
	Available() error
}

// DocumentQA chains an OCR engine and a text QA capability.
type DocumentQA struct {
	ocr    driven.OCREngine
	textQA driven.TextQA
}

// New creates a document QA adapter. Both arguments are required.
func New(ocr driven.OCREngine, textQA driven.TextQA) (*DocumentQA, error) {
	if ocr == nil {
		return nil, fmt.Errorf("ocrqa: OCR engine is required")
	}
	if textQA == nil {
		return nil, fmt.Errorf("ocrqa: %w", domain.ErrTextQAUnavailable)
	}
	return &DocumentQA{ocr: ocr, textQA: textQA}, nil
}

// Answer recognizes the image text and answers over it.
// A page with no recognizable text yields no candidates.
func (q *DocumentQA) Answer(ctx context.Context, imagePath, question string) ([]domain.Candidate, error) {
	text, err := q.ocr.Recognize(ctx, imagePath)
	if err != nil {
		return nil, fmt.Errorf("ocr: %w", err)
	}
	if strings.TrimSpace(text) == "" {
		logger.Debug("OCR found no text in %s", imagePath)
		return nil, nil
	}

	c, err := q.textQA.Answer(ctx, question, text)
	if err != nil {
		if errors.Is(err, domain.ErrNoAnswer) {
			return nil, nil
		}
		return nil, err
	}
	return []domain.Candidate{c}, nil
}

// ModelName names both stages.
func (q *DocumentQA) ModelName() string {
	return "ocr+" + q.textQA.ModelName()
}

// Ping checks the OCR binary when possible, then the text QA service.
func (q *DocumentQA) Ping(ctx context.Context) error {
	if p, ok := q.ocr.(Pinger); ok {
		if err := p.Available(); err != nil {
			return fmt.Errorf("ocrqa: OCR engine unavailable: %w", err)
		}
	}
	return q.textQA.Ping(ctx)
}

// Close is a no-op. The text QA capability is shared and closed by its owner.
func (q *DocumentQA) Close() error {
	return nil
}
