package filesystem

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"

	"github.com/custodia-labs/askdoc/internal/core/domain"
	"github.com/custodia-labs/askdoc/internal/core/ports/driven"
	"github.com/custodia-labs/askdoc/internal/logger"
)

// Ensure TextLoader implements the interface.
var _ driven.ContentLoader = (*TextLoader)(nil)

// TextLoader reads text files, decoding UTF-8 first and ISO-8859-1 otherwise.
// ISO-8859-1 maps every byte to a rune, so the fallback cannot fail.
type TextLoader struct{}

// NewTextLoader creates a new text loader.
func NewTextLoader() *TextLoader {
	return &TextLoader{}
}

// Load returns the decoded content of path.
func (l *TextLoader) Load(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", fmt.Errorf("load %s: %w", path, domain.ErrNotFound)
		}
		return "", fmt.Errorf("load %s: %w", path, err)
	}

	if utf8.Valid(data) {
		return string(data), nil
	}

	logger.Debug("%s is not valid UTF-8, decoding as latin1", path)
	decoded, err := charmap.ISO8859_1.NewDecoder().Bytes(data)
	if err != nil {
		return "", fmt.Errorf("decode %s: %w", path, err)
	}
	return string(decoded), nil
}
