// Package tesseract recognizes text by shelling out to the tesseract binary.
package tesseract

import (
	"context"
	"fmt"
	"strings"

	"github.com/custodia-labs/askdoc/internal/adapters/driven/runner"
	"github.com/custodia-labs/askdoc/internal/core/domain"
	"github.com/custodia-labs/askdoc/internal/core/ports/driven"
)

// Ensure Engine implements the interface.
var _ driven.OCREngine = (*Engine)(nil)

// DefaultBinary is looked up on PATH.
const DefaultBinary = "tesseract"

// Config holds tesseract settings.
type Config struct {
	Binary   string
	Language string
	Runner   runner.Runner
}

// Engine runs tesseract once per image.
type Engine struct {
	binary   string
	language string
	runner   runner.Runner
}

// New creates an engine, filling in defaults.
func New(cfg Config) *Engine {
	if cfg.Binary == "" {
		cfg.Binary = DefaultBinary
	}
	if cfg.Language == "" {
		cfg.Language = domain.DefaultOCRLanguage
	}
	if cfg.Runner == nil {
		cfg.Runner = runner.Exec{}
	}
	return &Engine{binary: cfg.Binary, language: cfg.Language, runner: cfg.Runner}
}

// Available reports whether the binary can be found.
func (e *Engine) Available() error {
	_, err := runner.LookPath(e.binary)
	return err
}

// Recognize returns the text tesseract prints for imagePath.
func (e *Engine) Recognize(ctx context.Context, imagePath string) (string, error) {
	// tesseract <img> stdout -l <lang>
	out, errb, err := e.runner.Run(ctx, e.binary, imagePath, "stdout", "-l", e.language)
	if err != nil {
		msg := strings.TrimSpace(runner.Truncate(string(errb), 512))
		if msg != "" {
			return "", fmt.Errorf("tesseract: %w: %s", err, msg)
		}
		return "", fmt.Errorf("tesseract: %w", err)
	}
	return strings.TrimSpace(string(out)), nil
}
