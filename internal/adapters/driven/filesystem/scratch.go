package filesystem

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/custodia-labs/askdoc/internal/core/domain"
	"github.com/custodia-labs/askdoc/internal/core/ports/driven"
	"github.com/custodia-labs/askdoc/internal/logger"
)

// Ensure ScratchSpace implements the interface.
var _ driven.ScratchSpace = (*ScratchSpace)(nil)

// ScratchPrefix starts the name of every scratch directory.
const ScratchPrefix = "askdoc-"

// ScratchSpace creates scratch directories below a root directory.
type ScratchSpace struct {
	root string
}

// NewScratchSpace creates a scratch space rooted at root.
// An empty root means the OS temp directory.
func NewScratchSpace(root string) *ScratchSpace {
	if root == "" {
		root = os.TempDir()
	}
	return &ScratchSpace{root: root}
}

// Root returns the parent directory of all scratch areas.
func (s *ScratchSpace) Root() string {
	return s.root
}

// Acquire creates a fresh directory named askdoc-<uuid>.
func (s *ScratchSpace) Acquire(ctx context.Context) (*domain.ScratchArea, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := os.MkdirAll(s.root, 0700); err != nil {
		return nil, fmt.Errorf("create scratch root: %w", err)
	}

	id := uuid.NewString()
	path := filepath.Join(s.root, ScratchPrefix+id)
	if err := os.Mkdir(path, 0700); err != nil {
		return nil, fmt.Errorf("create scratch area: %w", err)
	}

	logger.Debug("Acquired scratch area %s", path)
	return &domain.ScratchArea{ID: id, Path: path}, nil
}

// Release removes the area and its contents.
// It refuses to remove anything outside the root.
func (s *ScratchSpace) Release(area *domain.ScratchArea) error {
	if area == nil || area.Path == "" {
		return nil
	}

	rel, err := filepath.Rel(s.root, area.Path)
	if err != nil || strings.HasPrefix(rel, "..") || !strings.HasPrefix(filepath.Base(area.Path), ScratchPrefix) {
		return fmt.Errorf("%w: %s is not a scratch area", domain.ErrInvalidInput, area.Path)
	}

	if err := os.RemoveAll(area.Path); err != nil {
		return fmt.Errorf("remove scratch area: %w", err)
	}
	logger.Debug("Released scratch area %s", area.Path)
	return nil
}
