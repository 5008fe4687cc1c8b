package services

import (
	"context"

	"github.com/custodia-labs/askdoc/internal/core/domain"
	"github.com/custodia-labs/askdoc/internal/core/ports/driven"
	"github.com/custodia-labs/askdoc/internal/logger"
)

// Extractors turn loaded content into answers using the QA capabilities.
// Both capabilities are shared across requests; the gate bounds how many
// inference calls run at once.
type Extractors struct {
	textQA     driven.TextQA
	documentQA driven.DocumentQA
	policy     domain.PDFFailurePolicy
	gate       chan struct{}
}

// NewExtractors creates extractors over the given capabilities.
// documentQA may be nil. maxConcurrent <= 0 means no limit.
func NewExtractors(
	textQA driven.TextQA,
	documentQA driven.DocumentQA,
	policy domain.PDFFailurePolicy,
	maxConcurrent int,
) *Extractors {
	if !policy.IsValid() {
		policy = domain.PDFFailureAbort
	}
	e := &Extractors{
		textQA:     textQA,
		documentQA: documentQA,
		policy:     policy,
	}
	if maxConcurrent > 0 {
		e.gate = make(chan struct{}, maxConcurrent)
	}
	return e
}

// Policy returns the multi-page failure policy in effect.
func (e *Extractors) Policy() domain.PDFFailurePolicy {
	return e.policy
}

// HasDocumentQA reports whether image and PDF sources can be answered.
func (e *Extractors) HasDocumentQA() bool {
	return e.documentQA != nil
}

// Text answers the question over the full content string.
func (e *Extractors) Text(ctx context.Context, question, content string) (domain.Candidate, error) {
	if e.textQA == nil {
		return domain.Candidate{}, domain.ErrTextQAUnavailable
	}
	release, err := e.acquire(ctx)
	if err != nil {
		return domain.Candidate{}, err
	}
	defer release()

	logger.Debug("Text QA: model=%s context_len=%d", e.textQA.ModelName(), len(content))
	c, err := e.textQA.Answer(ctx, question, content)
	if err != nil {
		return domain.Candidate{}, err
	}
	logger.Debug("Text QA answer: %q (score %.4f)", c.Answer, c.Score)
	return c, nil
}

// Image answers the question about one image and returns the top-ranked candidate.
func (e *Extractors) Image(ctx context.Context, imagePath, question string) (domain.Candidate, error) {
	if e.documentQA == nil {
		return domain.Candidate{}, domain.ErrDocumentQAUnavailable
	}
	release, err := e.acquire(ctx)
	if err != nil {
		return domain.Candidate{}, err
	}
	defer release()

	candidates, err := e.documentQA.Answer(ctx, imagePath, question)
	if err != nil {
		return domain.Candidate{}, err
	}
	if len(candidates) == 0 {
		return domain.Candidate{}, domain.ErrNoAnswer
	}
	logger.Debug("Document QA answer for %s: %q (score %.4f)", imagePath, candidates[0].Answer, candidates[0].Score)
	return candidates[0], nil
}

// Pages answers the question once per page, in page order.
//
// Under the abort policy the first failing page ends the loop and its error
// is returned. Under the partial policy every page is attempted and failures
// are recorded on the page. Cancellation always stops the loop.
func (e *Extractors) Pages(ctx context.Context, pagePaths []string, question string) (*domain.Answer, error) {
	pages := make([]domain.PageAnswer, 0, len(pagePaths))
	for i, path := range pagePaths {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		c, err := e.Image(ctx, path, question)
		if err != nil {
			if ctx.Err() != nil || e.policy == domain.PDFFailureAbort {
				return nil, &domain.PageError{Page: i, Err: err}
			}
			logger.Warn("Page %d failed, continuing: %v", i, err)
			pages = append(pages, domain.PageAnswer{Page: i, Err: err})
			continue
		}
		pages = append(pages, domain.PageAnswer{Page: i, Text: c.Answer, Score: c.Score})
	}
	return domain.NewPagedAnswer(pages), nil
}

func (e *Extractors) acquire(ctx context.Context) (func(), error) {
	if e.gate == nil {
		return func() {}, nil
	}
	select {
	case e.gate <- struct{}{}:
		return func() { <-e.gate }, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}
