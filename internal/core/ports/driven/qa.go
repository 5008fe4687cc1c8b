package driven

import (
	"context"

	"github.com/custodia-labs/askdoc/internal/core/domain"
)

// TextQA answers a question using a plain-text context.
// The context is passed whole. Any input length limit is the model's own.
//
// Implementations include:
//   - Hugging Face Inference API (extractive QA models such as roberta-base-squad2)
//   - OpenAI-compatible chat completions
//   - Ollama (local models)
type TextQA interface {
	// Answer returns the best answer span for the question.
	Answer(ctx context.Context, question, context string) (domain.Candidate, error)

	// ModelName returns the name of the model being used.
	ModelName() string

	// Ping validates the service is reachable.
	Ping(ctx context.Context) error

	// Close releases resources.
	Close() error
}

// DocumentQA answers a question about a single raster image.
type DocumentQA interface {
	// Answer returns candidate answers ranked best first.
	// An empty slice means the model found nothing.
	Answer(ctx context.Context, imagePath, question string) ([]domain.Candidate, error)

	// ModelName returns the name of the model being used.
	ModelName() string

	// Ping validates the service is reachable.
	Ping(ctx context.Context) error

	// Close releases resources.
	Close() error
}
