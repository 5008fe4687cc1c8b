package metrics

import (
	"context"
	"time"

	"github.com/custodia-labs/askdoc/internal/core/domain"
	"github.com/custodia-labs/askdoc/internal/core/ports/driven"
	"github.com/custodia-labs/askdoc/internal/core/ports/driving"
)

// Ensure decorators implement their interfaces.
var (
	_ driven.TextQA      = (*TextQA)(nil)
	_ driven.DocumentQA  = (*DocumentQA)(nil)
	_ driving.AskService = (*AskService)(nil)
)

// TextQA records call counts and latency around a text QA capability.
type TextQA struct {
	driven.TextQA
}

// WrapTextQA returns inner with metrics. A nil inner stays nil.
func WrapTextQA(inner driven.TextQA) driven.TextQA {
	if inner == nil {
		return nil
	}
	return &TextQA{TextQA: inner}
}

// Answer delegates and observes the call.
func (m *TextQA) Answer(ctx context.Context, question, content string) (domain.Candidate, error) {
	start := time.Now()
	c, err := m.TextQA.Answer(ctx, question, content)
	observe(CapabilityText, m.ModelName(), start, err)
	return c, err
}

// DocumentQA records call counts and latency around a document QA capability.
type DocumentQA struct {
	driven.DocumentQA
}

// WrapDocumentQA returns inner with metrics. A nil inner stays nil.
func WrapDocumentQA(inner driven.DocumentQA) driven.DocumentQA {
	if inner == nil {
		return nil
	}
	return &DocumentQA{DocumentQA: inner}
}

// Answer delegates and observes the call.
func (m *DocumentQA) Answer(ctx context.Context, imagePath, question string) ([]domain.Candidate, error) {
	start := time.Now()
	cs, err := m.DocumentQA.Answer(ctx, imagePath, question)
	observe(CapabilityDocument, m.ModelName(), start, err)
	return cs, err
}

func observe(capability, model string, start time.Time, err error) {
	InferenceDuration.WithLabelValues(capability, model).Observe(time.Since(start).Seconds())
	InferenceCallsTotal.WithLabelValues(capability, model, outcome(err)).Inc()
}

// AskService counts dispatcher outcomes.
type AskService struct {
	inner driving.AskService
}

// WrapAskService returns inner with outcome counting.
func WrapAskService(inner driving.AskService) *AskService {
	return &AskService{inner: inner}
}

// Ask delegates and counts the result.
func (m *AskService) Ask(ctx context.Context, req domain.AskRequest) domain.Result {
	res := m.inner.Ask(ctx, req)

	label := "ok"
	if res.Failure != nil {
		label = string(res.Failure.Kind)
	}
	AskTotal.WithLabelValues(sourceLabel(req), label).Inc()
	return res
}

// sourceLabel names the input kind; unsupported uploads are "unsupported".
func sourceLabel(req domain.AskRequest) string {
	if !req.HasFile() {
		return string(domain.SourceInlineText)
	}
	kind, err := domain.ClassifyUpload(*req.File)
	if err != nil {
		return "unsupported"
	}
	return string(kind)
}
