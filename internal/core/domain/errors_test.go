package domain

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestErrors_Existence tests that all error variables exist and are not nil
func TestErrors_Existence(t *testing.T) {
	tests := []struct {
		name string
		err  error
	}{
		{"ErrNotFound", ErrNotFound},
		{"ErrInvalidInput", ErrInvalidInput},
		{"ErrUnsupportedType", ErrUnsupportedType},
		{"ErrMaterialize", ErrMaterialize},
		{"ErrNoAnswer", ErrNoAnswer},
		{"ErrPageCountMismatch", ErrPageCountMismatch},
		{"ErrTextQAUnavailable", ErrTextQAUnavailable},
		{"ErrDocumentQAUnavailable", ErrDocumentQAUnavailable},
		{"ErrRateLimited", ErrRateLimited},
		{"ErrModelLoading", ErrModelLoading},
		{"ErrNotImplemented", ErrNotImplemented},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.NotNil(t, tt.err)
			assert.NotEmpty(t, tt.err.Error())
		})
	}
}

func TestErrors_Distinct(t *testing.T) {
	assert.False(t, errors.Is(ErrNotFound, ErrInvalidInput))
	assert.False(t, errors.Is(ErrMaterialize, ErrNoAnswer))
}

func TestErrors_Wrapped(t *testing.T) {
	wrapped := fmt.Errorf("load /tmp/x.txt: %w", ErrNotFound)
	assert.True(t, errors.Is(wrapped, ErrNotFound))
	assert.Contains(t, wrapped.Error(), "not found")
}

func TestPageError(t *testing.T) {
	err := fmt.Errorf("pdf: %w", &PageError{Page: 3, Err: ErrRateLimited})

	assert.Equal(t, "pdf: page 3: rate limited", err.Error())
	assert.True(t, errors.Is(err, ErrRateLimited))

	var pe *PageError
	if assert.True(t, errors.As(err, &pe)) {
		assert.Equal(t, 3, pe.Page)
	}
}
