package huggingface

import (
	"context"
	"encoding/base64"
	"fmt"
	"os"

	"github.com/custodia-labs/askdoc/internal/core/domain"
	"github.com/custodia-labs/askdoc/internal/core/ports/driven"
)

// Ensure DocumentQA implements the interface.
var _ driven.DocumentQA = (*DocumentQA)(nil)

// DocumentQA runs a layout-aware document QA model over a page image.
type DocumentQA struct {
	c *client
}

type documentRequest struct {
	Inputs documentInputs `json:"inputs"`
}

type documentInputs struct {
	Image    string `json:"image"`
	Question string `json:"question"`
}

// NewDocumentQA creates a document QA adapter.
func NewDocumentQA(cfg Config) *DocumentQA {
	return &DocumentQA{c: newClient(cfg, domain.DefaultDocumentQAModel)}
}

// Answer sends the image base64-encoded and returns ranked candidates.
func (q *DocumentQA) Answer(ctx context.Context, imagePath, question string) ([]domain.Candidate, error) {
	data, err := os.ReadFile(imagePath)
	if err != nil {
		return nil, fmt.Errorf("read image: %w", err)
	}

	req := documentRequest{Inputs: documentInputs{
		Image:    base64.StdEncoding.EncodeToString(data),
		Question: question,
	}}
	body, err := q.c.infer(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("document qa: %w", err)
	}
	cs, err := decodeCandidates(body)
	if err != nil {
		return nil, fmt.Errorf("document qa: %w", err)
	}
	return cs, nil
}

// ModelName returns the hosted model id.
func (q *DocumentQA) ModelName() string {
	return q.c.model
}

// Ping checks the model endpoint.
func (q *DocumentQA) Ping(ctx context.Context) error {
	return q.c.ping(ctx)
}

// Close releases resources.
func (q *DocumentQA) Close() error {
	return nil
}
