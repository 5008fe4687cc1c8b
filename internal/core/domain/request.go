package domain

import "strings"

// AskRequest is a single question against one source.
// When File is set, Text is ignored.
type AskRequest struct {
	// Text is pasted content.
	Text string

	// File is an optional uploaded file.
	File *Upload

	// Question is the natural-language question.
	Question string
}

// HasFile reports whether the request carries an upload.
func (r AskRequest) HasFile() bool {
	return r.File != nil
}

// HasQuestion reports whether the question is non-empty after trimming.
func (r AskRequest) HasQuestion() bool {
	return strings.TrimSpace(r.Question) != ""
}

// HasText reports whether the inline text is non-empty after trimming.
func (r AskRequest) HasText() bool {
	return strings.TrimSpace(r.Text) != ""
}
