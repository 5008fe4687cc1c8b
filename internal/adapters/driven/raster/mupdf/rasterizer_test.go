package mupdf

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var pngMagic = []byte{0x89, 'P', 'N', 'G'}

func TestRasterize_TwoPages(t *testing.T) {
	out := t.TempDir()

	pages, err := New(72).Rasterize(context.Background(), filepath.Join("testdata", "two-pages.pdf"), out)

	require.NoError(t, err)
	require.Len(t, pages, 2)
	for i, p := range pages {
		assert.Equal(t, filepath.Join(out, fmt.Sprintf("page_%d.png", i)), p)
		data, err := os.ReadFile(p)
		require.NoError(t, err)
		assert.True(t, bytes.HasPrefix(data, pngMagic))
	}
}

func TestRasterize_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := New(72).Rasterize(ctx, filepath.Join("testdata", "two-pages.pdf"), t.TempDir())

	assert.ErrorIs(t, err, context.Canceled)
}

func TestRasterize_MissingFile(t *testing.T) {
	_, err := New(0).Rasterize(context.Background(), filepath.Join(t.TempDir(), "missing.pdf"), t.TempDir())
	assert.Error(t, err)
}

func TestNew_DefaultDPI(t *testing.T) {
	assert.InDelta(t, 200.0, New(0).dpi, 1e-9)
}
