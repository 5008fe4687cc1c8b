package tui

import (
	"context"

	"github.com/custodia-labs/askdoc/internal/core/domain"
)

// mockAskService is a mock implementation of driving.AskService.
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

// mockSettingsService is a mock implementation of driving.SettingsService.
type mockSettingsService struct {
	settings *domain.AppSettings
	err      error
}

func (m *mockSettingsService) Get() (*domain.AppSettings, error) {
	if m.settings == nil && m.err == nil {
		s := domain.DefaultAppSettings()
		return &s, nil
	}
	return m.settings, m.err
}

func (m *mockSettingsService) Save(_ *domain.AppSettings) error { return m.err }

func (m *mockSettingsService) Set(_, _ string) error { return m.err }

func (m *mockSettingsService) Keys() []string { return nil }

func (m *mockSettingsService) SetTextQAProvider(_ domain.AIProvider, _, _ string) error {
	return m.err
}

func (m *mockSettingsService) SetDocumentQAProvider(_ domain.AIProvider, _, _ string) error {
	return m.err
}

func (m *mockSettingsService) Validate() error { return m.err }

func (m *mockSettingsService) GetDefaults() domain.AppSettings { return domain.DefaultAppSettings() }

func (m *mockSettingsService) ValidateTextQAConfig() error { return m.err }

func (m *mockSettingsService) ValidateDocumentQAConfig() error { return m.err }
