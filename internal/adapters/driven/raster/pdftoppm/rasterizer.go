// Package pdftoppm rasterizes PDF pages with poppler's pdftoppm binary.
package pdftoppm

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/custodia-labs/askdoc/internal/adapters/driven/runner"
	"github.com/custodia-labs/askdoc/internal/core/domain"
	"github.com/custodia-labs/askdoc/internal/core/ports/driven"
)

// Ensure Rasterizer implements the interface.
var _ driven.Rasterizer = (*Rasterizer)(nil)

const (
	// DefaultBinary is looked up on PATH.
	DefaultBinary = "pdftoppm"

	// rawPrefix names pdftoppm output before it is renamed to page_<i>.png.
	rawPrefix = "raw"
)

// Config holds pdftoppm settings.
type Config struct {
	Binary string
	DPI    int
	Runner runner.Runner
}

// Rasterizer renders pages by shelling out to pdftoppm.
type Rasterizer struct {
	binary string
	dpi    int
	runner runner.Runner
}

// New creates a rasterizer, filling in defaults.
func New(cfg Config) *Rasterizer {
	if cfg.Binary == "" {
		cfg.Binary = DefaultBinary
	}
	if cfg.DPI <= 0 {
		cfg.DPI = domain.DefaultDPI
	}
	if cfg.Runner == nil {
		cfg.Runner = runner.Exec{}
	}
	return &Rasterizer{binary: cfg.Binary, dpi: cfg.DPI, runner: cfg.Runner}
}

// Available reports whether the binary can be found.
func (r *Rasterizer) Available() error {
	_, err := runner.LookPath(r.binary)
	return err
}

// Rasterize writes page_0.png ... page_{N-1}.png into outDir.
func (r *Rasterizer) Rasterize(ctx context.Context, pdfPath, outDir string) ([]string, error) {
	prefix := filepath.Join(outDir, rawPrefix)

	// pdftoppm -r <dpi> -png <in.pdf> <out/raw>
	_, errb, err := r.runner.Run(ctx, r.binary, "-r", strconv.Itoa(r.dpi), "-png", pdfPath, prefix)
	if err != nil {
		msg := strings.TrimSpace(runner.Truncate(string(errb), 512))
		if msg != "" {
			return nil, fmt.Errorf("pdftoppm: %w: %s", err, msg)
		}
		return nil, fmt.Errorf("pdftoppm: %w", err)
	}

	// Output is raw-1.png, raw-2.png, ... zero-padded to the width of the page count.
	matches, err := filepath.Glob(prefix + "-*.png")
	if err != nil {
		return nil, err
	}
	if len(matches) == 0 {
		return nil, fmt.Errorf("pdftoppm produced no images")
	}

	numbered := make([]rawPage, 0, len(matches))
	for _, m := range matches {
		n, ok := pageNumber(m, prefix)
		if !ok {
			continue
		}
		numbered = append(numbered, rawPage{path: m, number: n})
	}
	sort.Slice(numbered, func(i, j int) bool { return numbered[i].number < numbered[j].number })

	pages := make([]string, len(numbered))
	for i, p := range numbered {
		dst := filepath.Join(outDir, fmt.Sprintf("page_%d.png", i))
		if err := os.Rename(p.path, dst); err != nil {
			return nil, fmt.Errorf("rename page %d: %w", i, err)
		}
		pages[i] = dst
	}
	return pages, nil
}

type rawPage struct {
	path   string
	number int
}

// pageNumber extracts N from "<prefix>-N.png".
func pageNumber(path, prefix string) (int, bool) {
	s := strings.TrimSuffix(strings.TrimPrefix(path, prefix+"-"), ".png")
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, false
	}
	return n, true
}
