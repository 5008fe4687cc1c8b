package web

import (
	"context"
	"os"

	"github.com/custodia-labs/askdoc/internal/core/domain"
)

// mockAskService records the request and a copy of any uploaded bytes.
type mockAskService struct {
	result   domain.Result
	last     domain.AskRequest
	uploaded []byte
	calls    int
}

func (m *mockAskService) Ask(_ context.Context, req domain.AskRequest) domain.Result {
	m.calls++
	m.last = req
	if req.File != nil {
		m.uploaded, _ = os.ReadFile(req.File.Path)
	}
	return m.result
}
