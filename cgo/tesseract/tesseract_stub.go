//go:build !cgo || !tesseract

package tesseract

import (
	"context"

	"github.com/custodia-labs/askdoc/internal/core/domain"
	"github.com/custodia-labs/askdoc/internal/core/ports/driven"
)

// Ensure Engine implements the interface.
var _ driven.OCREngine = (*Engine)(nil)

// Available reports whether this build links libtesseract.
const Available = false

// Engine is a stub for builds without libtesseract.
type Engine struct {
	language string
}

// New creates a stub engine.
func New(language string) *Engine {
	if language == "" {
		language = domain.DefaultOCRLanguage
	}
	return &Engine{language: language}
}

// Recognize always fails in this build.
func (e *Engine) Recognize(_ context.Context, _ string) (string, error) {
	return "", domain.ErrNotImplemented
}
