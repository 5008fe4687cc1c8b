package driven

import (
	"context"

	"github.com/custodia-labs/askdoc/internal/core/domain"
)

// ContentLoader reads a text file from disk.
type ContentLoader interface {
	// Load returns the decoded file content.
	// Returns an error wrapping domain.ErrNotFound if the path does not exist.
	Load(path string) (string, error)
}

// ScratchSpace hands out per-request directories.
type ScratchSpace interface {
	// Acquire creates a fresh, uniquely named directory.
	Acquire(ctx context.Context) (*domain.ScratchArea, error)

	// Release removes the directory and everything in it.
	Release(area *domain.ScratchArea) error
}

// Materializer copies uploads into a scratch area.
type Materializer interface {
	// MaterializeImage copies the upload byte-for-byte under its base name
	// and returns the new path.
	MaterializeImage(ctx context.Context, upload domain.Upload, area *domain.ScratchArea) (string, error)

	// MaterializePDF copies the upload and renders every page to
	// page_<i>.png in the same area. Paths are returned in page order.
	MaterializePDF(ctx context.Context, upload domain.Upload, area *domain.ScratchArea) ([]string, error)
}

// Rasterizer renders PDF pages to PNG files.
type Rasterizer interface {
	// Rasterize writes one PNG per page into outDir and returns the paths
	// in page order.
	Rasterize(ctx context.Context, pdfPath, outDir string) ([]string, error)
}

// OCREngine recognises text in an image.
type OCREngine interface {
	// Recognize returns the text found in the image.
	Recognize(ctx context.Context, imagePath string) (string, error)
}
