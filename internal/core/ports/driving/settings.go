package driving

import "github.com/custodia-labs/askdoc/internal/core/domain"

// SettingsService manages application settings.
type SettingsService interface {
	// Get retrieves current application settings.
	Get() (*domain.AppSettings, error)

	// Save persists application settings.
	Save(settings *domain.AppSettings) error

	// Set updates a single setting by its dotted key, e.g. "pdf.failure_policy".
	Set(key, value string) error

	// Keys returns every settable key in display order.
	Keys() []string

	// SetTextQAProvider configures the text QA provider.
	SetTextQAProvider(provider domain.AIProvider, model, apiKey string) error

	// SetDocumentQAProvider configures the document QA provider.
	SetDocumentQAProvider(provider domain.AIProvider, model, apiKey string) error

	// Validate checks that current settings are usable.
	Validate() error

	// GetDefaults returns default settings.
	GetDefaults() domain.AppSettings

	// ValidateTextQAConfig validates the text QA configuration by pinging the provider.
	ValidateTextQAConfig() error

	// ValidateDocumentQAConfig validates the document QA configuration by pinging the provider.
	ValidateDocumentQAConfig() error
}
