//go:build !cgo || !tesseract

package tesseract

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/custodia-labs/askdoc/internal/core/domain"
)

func TestStub_Recognize(t *testing.T) {
	assert.False(t, Available)

	text, err := New("").Recognize(context.Background(), "/tmp/page_0.png")

	assert.Empty(t, text)
	assert.ErrorIs(t, err, domain.ErrNotImplemented)
}

func TestStub_DefaultLanguage(t *testing.T) {
	assert.Equal(t, "eng", New("").language)
	assert.Equal(t, "deu", New("deu").language)
}
