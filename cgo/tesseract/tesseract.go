//go:build cgo && tesseract

package tesseract

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/otiai10/gosseract/v2"

	"github.com/custodia-labs/askdoc/internal/core/domain"
	"github.com/custodia-labs/askdoc/internal/core/ports/driven"
)

// Ensure Engine implements the interface.
var _ driven.OCREngine = (*Engine)(nil)

// Available reports whether this build links libtesseract.
const Available = true

// Engine runs OCR through a gosseract client per call.
type Engine struct {
	mu            sync.Mutex
	languages     []string
	clientFactory func() *gosseract.Client
}

// New creates an engine for the given "+"-separated language list.
func New(language string) *Engine {
	if language == "" {
		language = domain.DefaultOCRLanguage
	}
	return &Engine{
		languages:     strings.Split(language, "+"),
		clientFactory: gosseract.NewClient,
	}
}

// Recognize returns the plain text found in the image.
func (e *Engine) Recognize(ctx context.Context, imagePath string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	// libtesseract clients are not safe for concurrent use.
	e.mu.Lock()
	defer e.mu.Unlock()

	c := e.clientFactory()
	defer c.Close()

	if err := c.SetLanguage(e.languages...); err != nil {
		return "", fmt.Errorf("set languages: %w", err)
	}
	if err := c.SetImage(imagePath); err != nil {
		return "", fmt.Errorf("set image: %w", err)
	}
	text, err := c.Text()
	if err != nil {
		return "", fmt.Errorf("recognize text: %w", err)
	}
	return strings.TrimSpace(text), nil
}
