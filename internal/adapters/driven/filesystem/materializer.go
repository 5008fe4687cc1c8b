package filesystem

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/pdfcpu/pdfcpu/pkg/api"

	"github.com/custodia-labs/askdoc/internal/core/domain"
	"github.com/custodia-labs/askdoc/internal/core/ports/driven"
	"github.com/custodia-labs/askdoc/internal/logger"
)

// Ensure Materializer implements the interface.
var _ driven.Materializer = (*Materializer)(nil)

// PageCounter returns the number of pages in a PDF file.
type PageCounter func(path string) (int, error)

// Materializer copies uploads into scratch areas and rasterizes PDFs.
type Materializer struct {
	rasterizer driven.Rasterizer
	countPages PageCounter
}

// NewMaterializer creates a materializer.
// rasterizer may be nil, in which case PDF uploads fail.
func NewMaterializer(rasterizer driven.Rasterizer) *Materializer {
	return &Materializer{
		rasterizer: rasterizer,
		countPages: api.PageCountFile,
	}
}

// WithPageCounter replaces the pdfcpu page counter.
func (m *Materializer) WithPageCounter(fn PageCounter) *Materializer {
	m.countPages = fn
	return m
}

// MaterializeImage copies the upload under its base name.
func (m *Materializer) MaterializeImage(
	ctx context.Context, upload domain.Upload, area *domain.ScratchArea,
) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	dst, err := copyInto(upload, area)
	if err != nil {
		return "", fmt.Errorf("%w: %w", domain.ErrMaterialize, err)
	}
	return dst, nil
}

// MaterializePDF copies the upload and renders every page as page_<i>.png.
func (m *Materializer) MaterializePDF(
	ctx context.Context, upload domain.Upload, area *domain.ScratchArea,
) ([]string, error) {
	if m.rasterizer == nil {
		return nil, fmt.Errorf("%w: no PDF rasterizer configured", domain.ErrMaterialize)
	}

	pdfPath, err := copyInto(upload, area)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrMaterialize, err)
	}

	expected := -1
	if m.countPages != nil {
		n, err := m.countPages(pdfPath)
		if err != nil {
			logger.Warn("Could not read page count of %s: %v", upload.Name, err)
		} else {
			expected = n
		}
	}

	pages, err := m.rasterizer.Rasterize(ctx, pdfPath, area.Path)
	if err != nil {
		return nil, fmt.Errorf("%w: rasterize: %w", domain.ErrMaterialize, err)
	}
	if len(pages) == 0 {
		return nil, fmt.Errorf("%w: no pages rendered", domain.ErrMaterialize)
	}
	if expected >= 0 && len(pages) != expected {
		return nil, fmt.Errorf("%w: %w: pdf has %d pages, rendered %d",
			domain.ErrMaterialize, domain.ErrPageCountMismatch, expected, len(pages))
	}

	logger.Debug("Materialized %s into %d pages", upload.Name, len(pages))
	return pages, nil
}

// copyInto copies the upload byte-for-byte to <area>/<base name>.
func copyInto(upload domain.Upload, area *domain.ScratchArea) (string, error) {
	if area == nil {
		return "", fmt.Errorf("%w: nil scratch area", domain.ErrInvalidInput)
	}

	src, err := os.Open(upload.Path)
	if err != nil {
		return "", fmt.Errorf("open upload: %w", err)
	}
	defer src.Close()

	dstPath := filepath.Join(area.Path, upload.BaseName())
	dst, err := os.OpenFile(dstPath, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0600)
	if err != nil {
		return "", fmt.Errorf("create copy: %w", err)
	}

	if _, err := io.Copy(dst, src); err != nil {
		dst.Close()
		return "", fmt.Errorf("copy upload: %w", err)
	}
	if err := dst.Close(); err != nil {
		return "", fmt.Errorf("close copy: %w", err)
	}
	return dstPath, nil
}
