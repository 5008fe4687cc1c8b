package huggingface

import (
	"context"
	"fmt"

	"github.com/custodia-labs/askdoc/internal/core/domain"
	"github.com/custodia-labs/askdoc/internal/core/ports/driven"
)

// Ensure TextQA implements the interface.
var _ driven.TextQA = (*TextQA)(nil)

// TextQA runs an extractive question-answering model.
type TextQA struct {
	c *client
}

type textRequest struct {
	Inputs textInputs `json:"inputs"`
}

type textInputs struct {
	Question string `json:"question"`
	Context  string `json:"context"`
}

// NewTextQA creates a text QA adapter.
func NewTextQA(cfg Config) *TextQA {
	return &TextQA{c: newClient(cfg, domain.DefaultTextQAModels()[domain.AIProviderHuggingFace])}
}

// Answer returns the highest scoring span.
func (q *TextQA) Answer(ctx context.Context, question, content string) (domain.Candidate, error) {
	body, err := q.c.infer(ctx, textRequest{Inputs: textInputs{Question: question, Context: content}})
	if err != nil {
		return domain.Candidate{}, fmt.Errorf("text qa: %w", err)
	}
	cs, err := decodeCandidates(body)
	if err != nil {
		return domain.Candidate{}, fmt.Errorf("text qa: %w", err)
	}
	if len(cs) == 0 {
		return domain.Candidate{}, domain.ErrNoAnswer
	}
	return cs[0], nil
}

// ModelName returns the hosted model id.
func (q *TextQA) ModelName() string {
	return q.c.model
}

// Ping checks the model endpoint.
func (q *TextQA) Ping(ctx context.Context) error {
	return q.c.ping(ctx)
}

// Close releases resources.
func (q *TextQA) Close() error {
	return nil
}
