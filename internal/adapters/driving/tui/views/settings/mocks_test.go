package settings

import (
	"github.com/custodia-labs/askdoc/internal/core/domain"
)

// mockSettingsService records writes made by the view.
type mockSettingsService struct {
	settings    *domain.AppSettings
	err         error
	validateErr error

	setKey, setValue string
	textProvider     domain.AIProvider
	docProvider      domain.AIProvider
	apiKey           string
}

func (m *mockSettingsService) Get() (*domain.AppSettings, error) {
	return m.settings, m.err
}

func (m *mockSettingsService) Save(s *domain.AppSettings) error {
	m.settings = s
	return m.err
}

func (m *mockSettingsService) Set(key, value string) error {
	m.setKey, m.setValue = key, value
	return m.err
}

func (m *mockSettingsService) Keys() []string {
	return nil
}

func (m *mockSettingsService) SetTextQAProvider(p domain.AIProvider, _, apiKey string) error {
	m.textProvider, m.apiKey = p, apiKey
	return m.err
}

func (m *mockSettingsService) SetDocumentQAProvider(p domain.AIProvider, _, apiKey string) error {
	m.docProvider, m.apiKey = p, apiKey
	return m.err
}

func (m *mockSettingsService) Validate() error {
	return m.validateErr
}

func (m *mockSettingsService) GetDefaults() domain.AppSettings {
	return domain.DefaultAppSettings()
}

func (m *mockSettingsService) ValidateTextQAConfig() error {
	return nil
}

func (m *mockSettingsService) ValidateDocumentQAConfig() error {
	return nil
}
