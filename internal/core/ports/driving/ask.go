package driving

import (
	"context"

	"github.com/custodia-labs/askdoc/internal/core/domain"
)

// AskService answers one question against one source.
type AskService interface {
	// Ask resolves the request to an answer or a failure.
	// It never returns an error: every outcome is carried by the Result.
	Ask(ctx context.Context, req domain.AskRequest) domain.Result
}
