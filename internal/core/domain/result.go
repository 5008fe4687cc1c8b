package domain

import (
	"errors"
	"fmt"
)

// FailureKind classifies why a request produced no answer.
type FailureKind string

// Available failure kinds.
const (
	// FailureMissingInput means the question or content was empty.
	FailureMissingInput FailureKind = "missing_input"

	// FailureUnsupportedType means the upload extension is not accepted.
	FailureUnsupportedType FailureKind = "unsupported_type"

	// FailureNotFound means an uploaded text file was not on disk.
	FailureNotFound FailureKind = "not_found"

	// FailureMaterialize means an upload could not be copied or rasterized.
	FailureMaterialize FailureKind = "materialize"

	// FailureExtraction means a QA capability failed.
	FailureExtraction FailureKind = "extraction"

	// FailureCancelled means the caller gave up before an answer was ready.
	FailureCancelled FailureKind = "cancelled"
)

// String returns the string representation.
func (k FailureKind) String() string {
	return string(k)
}

// User-facing messages.
const (
	MsgNeedContentAndQuestion = "Please provide both content and a question."
	MsgNeedQuestion           = "Please provide a question."
	MsgUnsupportedType        = "Unsupported file type. Please upload a .txt, ,.pdf, .png, or .jpeg file."
	MsgFileNotFound           = "The file does not exist."
	MsgCancelled              = "The request was cancelled."

	msgVisionFmt     = "An error occurred during vision processing: %v"
	msgProcessingFmt = "An error occurred during processing: %v"
	msgTextFmt       = "An error occurred during text processing: %v"
)

// Failure is a request outcome without an answer.
type Failure struct {
	// Kind classifies the failure.
	Kind FailureKind

	// Message is the text shown to the user.
	Message string

	// Err is the underlying error, if any.
	Err error
}

// Error implements error.
func (f *Failure) Error() string {
	return f.Message
}

// Unwrap returns the underlying error.
func (f *Failure) Unwrap() error {
	return f.Err
}

// Result is the outcome of a request: exactly one of Answer or Failure is set.
type Result struct {
	Answer  *Answer
	Failure *Failure
}

// OK reports whether the result carries an answer.
func (r Result) OK() bool {
	return r.Answer != nil && r.Failure == nil
}

// String returns the text to display for the result.
func (r Result) String() string {
	switch {
	case r.Failure != nil:
		return r.Failure.Message
	case r.Answer != nil:
		return r.Answer.Text
	default:
		return ""
	}
}

// Answered wraps an answer in a Result.
func Answered(a *Answer) Result {
	return Result{Answer: a}
}

// Failed builds a failure Result.
func Failed(kind FailureKind, message string, err error) Result {
	return Result{Failure: &Failure{Kind: kind, Message: message, Err: err}}
}

// MissingContentAndQuestion is the result for the text path without content or question.
func MissingContentAndQuestion() Result {
	return Failed(FailureMissingInput, MsgNeedContentAndQuestion, ErrInvalidInput)
}

// MissingQuestion is the result for image and PDF paths without a question.
func MissingQuestion() Result {
	return Failed(FailureMissingInput, MsgNeedQuestion, ErrInvalidInput)
}

// UnsupportedType is the result for an upload with an unknown extension.
func UnsupportedType(name string) Result {
	return Failed(FailureUnsupportedType, MsgUnsupportedType, fmt.Errorf("%w: %s", ErrUnsupportedType, name))
}

// FileNotFound is the result for a text upload that is not on disk.
func FileNotFound(err error) Result {
	return Failed(FailureNotFound, MsgFileNotFound, err)
}

// Cancelled is the result for a request whose context ended.
func Cancelled(err error) Result {
	return Failed(FailureCancelled, MsgCancelled, err)
}

// VisionFailure is the result for image and PDF materialization or image extraction errors.
func VisionFailure(kind FailureKind, err error) Result {
	return Failed(kind, fmt.Sprintf(msgVisionFmt, err), err)
}

// ProcessingFailure is the result when a PDF page aborts the batch,
// or when answering fails in a way no other failure covers.
// The message shows the page's own error; the page index stays in Err.
func ProcessingFailure(err error) Result {
	cause := err
	var pe *PageError
	if errors.As(err, &pe) {
		cause = pe.Err
	}
	return Failed(FailureExtraction, fmt.Sprintf(msgProcessingFmt, cause), err)
}

// TextFailure is the result for text extraction errors.
func TextFailure(err error) Result {
	return Failed(FailureExtraction, fmt.Sprintf(msgTextFmt, err), err)
}
