package ask

import (
	"context"

	"github.com/custodia-labs/askdoc/internal/core/domain"
)

type mockAskService struct {
	result domain.Result
	last   domain.AskRequest
	calls  int
}

func (m *mockAskService) Ask(_ context.Context, req domain.AskRequest) domain.Result {
	m.calls++
	m.last = req
	return m.result
}
