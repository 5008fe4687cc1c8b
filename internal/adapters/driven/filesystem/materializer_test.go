package filesystem

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/askdoc/internal/core/domain"
)

// fakeRasterizer writes n empty PNG files.
type fakeRasterizer struct {
	pages int
	err   error
	calls int
}

func (f *fakeRasterizer) Rasterize(_ context.Context, _ string, outDir string) ([]string, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	paths := make([]string, f.pages)
	for i := range paths {
		paths[i] = filepath.Join(outDir, fmt.Sprintf("page_%d.png", i))
		if err := os.WriteFile(paths[i], []byte("png"), 0600); err != nil {
			return nil, err
		}
	}
	return paths, nil
}

func setupUpload(t *testing.T, name string, data []byte) (domain.Upload, *domain.ScratchArea) {
	t.Helper()
	src := filepath.Join(t.TempDir(), "gradio-tmp-upload")
	require.NoError(t, os.WriteFile(src, data, 0600))
	area := &domain.ScratchArea{ID: "test", Path: t.TempDir()}
	return domain.Upload{Name: name, Path: src}, area
}

func TestMaterializeImage_ByteIdenticalCopy(t *testing.T) {
	data := []byte{0x89, 'P', 'N', 'G', 0x0D, 0x0A, 0x1A, 0x0A, 0x00, 0xFF, 0x10}
	upload, area := setupUpload(t, "scan.png", data)

	path, err := NewMaterializer(nil).MaterializeImage(context.Background(), upload, area)

	require.NoError(t, err)
	assert.Equal(t, filepath.Join(area.Path, "scan.png"), path)
	copied, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, data, copied)
}

func TestMaterializeImage_UsesBaseName(t *testing.T) {
	upload, area := setupUpload(t, `C:\Users\me\Desktop\photo.jpg`, []byte("jpg"))

	path, err := NewMaterializer(nil).MaterializeImage(context.Background(), upload, area)

	require.NoError(t, err)
	assert.Equal(t, "photo.jpg", filepath.Base(path))
	assert.Equal(t, area.Path, filepath.Dir(path))
}

func TestMaterializeImage_MissingUpload(t *testing.T) {
	area := &domain.ScratchArea{Path: t.TempDir()}

	_, err := NewMaterializer(nil).MaterializeImage(
		context.Background(), domain.Upload{Name: "x.png", Path: "/definitely/not/here"}, area)

	assert.True(t, errors.Is(err, domain.ErrMaterialize))
}

func TestMaterializePDF_Pages(t *testing.T) {
	upload, area := setupUpload(t, "report.pdf", []byte("%PDF-1.4"))
	raster := &fakeRasterizer{pages: 3}
	m := NewMaterializer(raster).WithPageCounter(func(string) (int, error) { return 3, nil })

	pages, err := m.MaterializePDF(context.Background(), upload, area)

	require.NoError(t, err)
	require.Len(t, pages, 3)
	for i, p := range pages {
		assert.Equal(t, fmt.Sprintf("page_%d.png", i), filepath.Base(p))
	}
	_, err = os.Stat(filepath.Join(area.Path, "report.pdf"))
	assert.NoError(t, err)
}

func TestMaterializePDF_PageCountMismatch(t *testing.T) {
	upload, area := setupUpload(t, "report.pdf", []byte("%PDF-1.4"))
	m := NewMaterializer(&fakeRasterizer{pages: 2}).WithPageCounter(func(string) (int, error) { return 5, nil })

	_, err := m.MaterializePDF(context.Background(), upload, area)

	assert.True(t, errors.Is(err, domain.ErrMaterialize))
	assert.True(t, errors.Is(err, domain.ErrPageCountMismatch))
}

func TestMaterializePDF_PageCountUnavailable(t *testing.T) {
	upload, area := setupUpload(t, "report.pdf", []byte("%PDF-1.4"))
	m := NewMaterializer(&fakeRasterizer{pages: 2}).
		WithPageCounter(func(string) (int, error) { return 0, errors.New("xref broken") })

	pages, err := m.MaterializePDF(context.Background(), upload, area)

	require.NoError(t, err)
	assert.Len(t, pages, 2)
}

func TestMaterializePDF_RasterizeError(t *testing.T) {
	upload, area := setupUpload(t, "report.pdf", []byte("%PDF-1.4"))
	m := NewMaterializer(&fakeRasterizer{err: errors.New("exit status 1")}).WithPageCounter(nil)

	_, err := m.MaterializePDF(context.Background(), upload, area)

	assert.True(t, errors.Is(err, domain.ErrMaterialize))
	assert.Contains(t, err.Error(), "exit status 1")
}

func TestMaterializePDF_NoPages(t *testing.T) {
	upload, area := setupUpload(t, "empty.pdf", []byte("%PDF-1.4"))
	m := NewMaterializer(&fakeRasterizer{pages: 0}).WithPageCounter(nil)

	_, err := m.MaterializePDF(context.Background(), upload, area)

	assert.True(t, errors.Is(err, domain.ErrMaterialize))
}

func TestMaterializePDF_NoRasterizer(t *testing.T) {
	upload, area := setupUpload(t, "report.pdf", []byte("%PDF-1.4"))

	_, err := NewMaterializer(nil).MaterializePDF(context.Background(), upload, area)

	assert.True(t, errors.Is(err, domain.ErrMaterialize))
}

func TestMaterializePDF_RealPageCounterOnGarbage(t *testing.T) {
	// pdfcpu cannot parse the file; the count is skipped and rasterization proceeds.
	upload, area := setupUpload(t, "junk.pdf", []byte("not a pdf"))
	raster := &fakeRasterizer{pages: 1}

	pages, err := NewMaterializer(raster).MaterializePDF(context.Background(), upload, area)

	require.NoError(t, err)
	assert.Len(t, pages, 1)
	assert.Equal(t, 1, raster.calls)
}

func TestMaterializePDF_PdfcpuPageCount(t *testing.T) {
	data, err := os.ReadFile(filepath.Join("testdata", "two-pages.pdf"))
	require.NoError(t, err)
	upload, area := setupUpload(t, "two-pages.pdf", data)

	_, err = NewMaterializer(&fakeRasterizer{pages: 3}).MaterializePDF(context.Background(), upload, area)
	assert.True(t, errors.Is(err, domain.ErrPageCountMismatch))

	area2 := &domain.ScratchArea{ID: "second", Path: t.TempDir()}
	pages, err := NewMaterializer(&fakeRasterizer{pages: 2}).MaterializePDF(context.Background(), upload, area2)
	require.NoError(t, err)
	assert.Len(t, pages, 2)
}
