package domain

import (
	"fmt"
	"strings"
)

// PageSeparator joins per-page answers of a multi-page document.
const PageSeparator = " \n"

// Candidate is one ranked answer returned by a QA capability.
type Candidate struct {
	// Answer is the extracted span.
	Answer string `json:"answer"`

	// Score is the model confidence in [0, 1].
	Score float64 `json:"score"`

	// Start and End are character offsets into the context, when known.
	Start int `json:"start"`
	End   int `json:"end"`
}

// PageAnswer is the outcome for a single PDF page.
type PageAnswer struct {
	// Page is the zero-based page index.
	Page int

	// Text is the top answer for the page. Empty when Err is set.
	Text string

	// Score is the confidence of the top answer.
	Score float64

	// Err is the extraction error for this page, if any.
	Err error
}

// Failed reports whether extraction failed for this page.
func (p PageAnswer) Failed() bool {
	return p.Err != nil
}

// Answer is the final answer for a request.
type Answer struct {
	// Text is the answer shown to the user.
	Text string

	// Score is the confidence of a single-source answer.
	// Nil for multi-page answers, where per-page scores are discarded.
	Score *float64

	// Pages holds per-page outcomes for PDF sources.
	Pages []PageAnswer
}

// NewScoredAnswer builds a single-source answer from a candidate.
func NewScoredAnswer(c Candidate) *Answer {
	score := c.Score
	return &Answer{Text: c.Answer, Score: &score}
}

// NewPagedAnswer joins per-page answers in page order.
// Failed pages contribute a "[page N: err]" segment so the result keeps
// one segment per page.
func NewPagedAnswer(pages []PageAnswer) *Answer {
	parts := make([]string, len(pages))
	for i, p := range pages {
		if p.Failed() {
			parts[i] = fmt.Sprintf("[page %d: %v]", p.Page, p.Err)
			continue
		}
		parts[i] = p.Text
	}
	return &Answer{Text: strings.Join(parts, PageSeparator), Pages: pages}
}

// FailedPages returns the number of pages whose extraction failed.
func (a *Answer) FailedPages() int {
	n := 0
	for _, p := range a.Pages {
		if p.Failed() {
			n++
		}
	}
	return n
}

// SpanCandidate builds a candidate for a generated answer by locating it in
// the context. An answer copied verbatim scores 1 and carries its offsets;
// anything else scores 0 with offsets -1.
func SpanCandidate(context, answer string) Candidate {
	answer = strings.TrimSpace(answer)
	if answer == "" {
		return Candidate{Start: -1, End: -1}
	}
	i := strings.Index(context, answer)
	if i < 0 {
		return Candidate{Answer: answer, Start: -1, End: -1}
	}
	return Candidate{Answer: answer, Score: 1, Start: i, End: i + len(answer)}
}
