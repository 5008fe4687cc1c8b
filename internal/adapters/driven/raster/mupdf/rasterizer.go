// Package mupdf rasterizes PDF pages in-process with MuPDF through go-fitz.
package mupdf

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gen2brain/go-fitz"

	"github.com/custodia-labs/askdoc/internal/core/domain"
	"github.com/custodia-labs/askdoc/internal/core/ports/driven"
	"github.com/custodia-labs/askdoc/internal/logger"
)

// Ensure Rasterizer implements the interface.
var _ driven.Rasterizer = (*Rasterizer)(nil)

// Rasterizer renders each page to PNG at a fixed DPI.
type Rasterizer struct {
	dpi float64
}

// New creates a rasterizer. dpi <= 0 selects the default.
func New(dpi int) *Rasterizer {
	if dpi <= 0 {
		dpi = domain.DefaultDPI
	}
	return &Rasterizer{dpi: float64(dpi)}
}

// Rasterize writes page_0.png ... page_{N-1}.png into outDir.
func (r *Rasterizer) Rasterize(ctx context.Context, pdfPath, outDir string) ([]string, error) {
	doc, err := fitz.New(pdfPath)
	if err != nil {
		return nil, fmt.Errorf("open pdf: %w", err)
	}
	defer doc.Close()

	count := doc.NumPage()
	if count == 0 {
		return nil, fmt.Errorf("pdf has no pages")
	}

	pages := make([]string, 0, count)
	for n := 0; n < count; n++ {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		data, err := doc.ImagePNG(n, r.dpi)
		if err != nil {
			return nil, fmt.Errorf("render page %d: %w", n, err)
		}

		path := filepath.Join(outDir, fmt.Sprintf("page_%d.png", n))
		if err := os.WriteFile(path, data, 0600); err != nil {
			return nil, fmt.Errorf("write page %d: %w", n, err)
		}
		pages = append(pages, path)
	}

	logger.Debug("MuPDF rendered %d pages at %.0f dpi", count, r.dpi)
	return pages, nil
}
