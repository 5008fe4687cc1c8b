package domain

import (
	"errors"
	"fmt"
)

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested file does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrUnsupportedType indicates an upload with an extension outside the accepted set.
	ErrUnsupportedType = errors.New("unsupported type")

	// ErrMaterialize indicates an upload could not be copied or rasterized
	// into its scratch area.
	ErrMaterialize = errors.New("materialize failed")

	// ErrNoAnswer indicates a capability returned no candidate answers.
	ErrNoAnswer = errors.New("no answer")

	// ErrPageCountMismatch indicates the rasterizer produced a different
	// number of images than the PDF has pages.
	ErrPageCountMismatch = errors.New("page count mismatch")

	// ErrTextQAUnavailable indicates the text QA capability is not configured.
	ErrTextQAUnavailable = errors.New("text QA service unavailable")

	// ErrDocumentQAUnavailable indicates the document QA capability is not configured.
	ErrDocumentQAUnavailable = errors.New("document QA service unavailable")

	// ErrRateLimited indicates the inference API rate limit was exceeded.
	ErrRateLimited = errors.New("rate limited")

	// ErrModelLoading indicates the hosted model is still warming up.
	ErrModelLoading = errors.New("model loading")

	// ErrNotImplemented indicates a build without the required native library.
	ErrNotImplemented = errors.New("not implemented")
)

// PageError records which PDF page failed. Page is zero-based.
type PageError struct {
	Page int
	Err  error
}

func (e *PageError) Error() string {
	return fmt.Sprintf("page %d: %v", e.Page, e.Err)
}

func (e *PageError) Unwrap() error {
	return e.Err
}
