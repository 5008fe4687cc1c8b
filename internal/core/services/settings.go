package services

import (
	"fmt"
	"slices"
	"strconv"

	"github.com/custodia-labs/askdoc/internal/core/domain"
	"github.com/custodia-labs/askdoc/internal/core/ports/driven"
	"github.com/custodia-labs/askdoc/internal/core/ports/driving"
)

// Ensure SettingsService implements the interface.
var _ driving.SettingsService = (*SettingsService)(nil)

// Config keys for settings storage.
//
//nolint:gosec // G101: These are config key names, not actual credentials.
const (
	keyTextProvider     = "text_qa.provider"
	keyTextModel        = "text_qa.model"
	keyTextBaseURL      = "text_qa.base_url"
	keyTextAPIKey       = "text_qa.api_key"
	keyDocProvider      = "document_qa.provider"
	keyDocModel         = "document_qa.model"
	keyDocBaseURL       = "document_qa.base_url"
	keyDocAPIKey        = "document_qa.api_key"
	keyOCREngine        = "ocr.engine"
	keyOCRBinary        = "ocr.binary"
	keyOCRLanguage      = "ocr.language"
	keyRasterEngine     = "rasterizer.engine"
	keyRasterBinary     = "rasterizer.binary"
	keyRasterDPI        = "rasterizer.dpi"
	keyPDFPolicy        = "pdf.failure_policy"
	keyServerAddr       = "server.addr"
	keyServerMaxUpload  = "server.max_upload_mb"
	keyServerScratchDir = "server.scratch_dir"
	keyInferenceRPS     = "inference.requests_per_second"
	keyInferenceBurst   = "inference.burst"
	keyInferenceMaxConc = "inference.max_concurrent"
)

var settingKeys = []string{
	keyTextProvider, keyTextModel, keyTextBaseURL, keyTextAPIKey,
	keyDocProvider, keyDocModel, keyDocBaseURL, keyDocAPIKey,
	keyOCREngine, keyOCRBinary, keyOCRLanguage,
	keyRasterEngine, keyRasterBinary, keyRasterDPI,
	keyPDFPolicy,
	keyServerAddr, keyServerMaxUpload, keyServerScratchDir,
	keyInferenceRPS, keyInferenceBurst, keyInferenceMaxConc,
}

const defaultOllamaURL = "http://localhost:11434"

// SettingsService manages application settings.
type SettingsService struct {
	configStore driven.ConfigStore
	aiValidator driven.AIConfigValidator
}

// NewSettingsService creates a new settings service.
func NewSettingsService(configStore driven.ConfigStore, aiValidator driven.AIConfigValidator) *SettingsService {
	return &SettingsService{
		configStore: configStore,
		aiValidator: aiValidator,
	}
}

// Get retrieves current application settings.
func (s *SettingsService) Get() (*domain.AppSettings, error) {
	defaults := domain.DefaultAppSettings()

	settings := &domain.AppSettings{
		TextQA: domain.CapabilitySettings{
			Provider: s.getProvider(keyTextProvider, defaults.TextQA.Provider),
			Model:    s.getString(keyTextModel, defaults.TextQA.Model),
			BaseURL:  s.getString(keyTextBaseURL, defaults.TextQA.BaseURL),
			APIKey:   s.configStore.GetString(keyTextAPIKey),
		},
		DocumentQA: domain.CapabilitySettings{
			Provider: s.getProvider(keyDocProvider, defaults.DocumentQA.Provider),
			Model:    s.getString(keyDocModel, defaults.DocumentQA.Model),
			BaseURL:  s.getString(keyDocBaseURL, defaults.DocumentQA.BaseURL),
			APIKey:   s.configStore.GetString(keyDocAPIKey),
		},
		OCR: domain.OCRSettings{
			Engine:   s.getOCREngine(defaults.OCR.Engine),
			Binary:   s.getString(keyOCRBinary, defaults.OCR.Binary),
			Language: s.getString(keyOCRLanguage, defaults.OCR.Language),
		},
		Rasterizer: domain.RasterizerSettings{
			Engine: s.getRasterEngine(defaults.Rasterizer.Engine),
			Binary: s.getString(keyRasterBinary, defaults.Rasterizer.Binary),
			DPI:    s.getInt(keyRasterDPI, defaults.Rasterizer.DPI),
		},
		PDF: domain.PDFSettings{
			FailurePolicy: s.getPolicy(defaults.PDF.FailurePolicy),
		},
		Server: domain.ServerSettings{
			Addr:        s.getString(keyServerAddr, defaults.Server.Addr),
			MaxUploadMB: s.getInt(keyServerMaxUpload, defaults.Server.MaxUploadMB),
			ScratchDir:  s.configStore.GetString(keyServerScratchDir),
		},
		Inference: domain.InferenceSettings{
			RequestsPerSecond: s.getFloat(keyInferenceRPS, defaults.Inference.RequestsPerSecond),
			Burst:             s.getInt(keyInferenceBurst, defaults.Inference.Burst),
			MaxConcurrent:     s.getInt(keyInferenceMaxConc, defaults.Inference.MaxConcurrent),
		},
	}

	return settings, nil
}

// Save persists application settings.
func (s *SettingsService) Save(settings *domain.AppSettings) error {
	values := []struct {
		key   string
		value any
		skip  bool
	}{
		{keyTextProvider, settings.TextQA.Provider.String(), false},
		{keyTextModel, settings.TextQA.Model, false},
		{keyTextBaseURL, settings.TextQA.BaseURL, false},
		{keyTextAPIKey, settings.TextQA.APIKey, settings.TextQA.APIKey == ""},
		{keyDocProvider, settings.DocumentQA.Provider.String(), false},
		{keyDocModel, settings.DocumentQA.Model, false},
		{keyDocBaseURL, settings.DocumentQA.BaseURL, false},
		{keyDocAPIKey, settings.DocumentQA.APIKey, settings.DocumentQA.APIKey == ""},
		{keyOCREngine, string(settings.OCR.Engine), false},
		{keyOCRBinary, settings.OCR.Binary, false},
		{keyOCRLanguage, settings.OCR.Language, false},
		{keyRasterEngine, string(settings.Rasterizer.Engine), false},
		{keyRasterBinary, settings.Rasterizer.Binary, false},
		{keyRasterDPI, settings.Rasterizer.DPI, false},
		{keyPDFPolicy, string(settings.PDF.FailurePolicy), false},
		{keyServerAddr, settings.Server.Addr, false},
		{keyServerMaxUpload, settings.Server.MaxUploadMB, false},
		{keyServerScratchDir, settings.Server.ScratchDir, settings.Server.ScratchDir == ""},
		{keyInferenceRPS, settings.Inference.RequestsPerSecond, false},
		{keyInferenceBurst, settings.Inference.Burst, false},
		{keyInferenceMaxConc, settings.Inference.MaxConcurrent, false},
	}

	for _, v := range values {
		if v.skip {
			continue
		}
		if err := s.configStore.Set(v.key, v.value); err != nil {
			return fmt.Errorf("save %s: %w", v.key, err)
		}
	}
	return nil
}

// Keys returns every settable key in display order.
func (s *SettingsService) Keys() []string {
	return slices.Clone(settingKeys)
}

// Set updates a single setting by its dotted key.
// The value is parsed and validated according to the key.
func (s *SettingsService) Set(key, value string) error {
	var parsed any
	switch key {
	case keyTextProvider:
		p := domain.AIProvider(value)
		if !slices.Contains(domain.AllTextQAProviders(), p) {
			return fmt.Errorf("%w: provider %s does not support text QA", domain.ErrInvalidInput, value)
		}
		parsed = value
	case keyDocProvider:
		p := domain.AIProvider(value)
		if !slices.Contains(domain.AllDocumentQAProviders(), p) {
			return fmt.Errorf("%w: provider %s does not support document QA", domain.ErrInvalidInput, value)
		}
		parsed = value
	case keyOCREngine:
		if !domain.OCREngine(value).IsValid() {
			return fmt.Errorf("%w: unknown OCR engine %s", domain.ErrInvalidInput, value)
		}
		parsed = value
	case keyRasterEngine:
		if !domain.RasterEngine(value).IsValid() {
			return fmt.Errorf("%w: unknown rasterizer %s", domain.ErrInvalidInput, value)
		}
		parsed = value
	case keyPDFPolicy:
		if !domain.PDFFailurePolicy(value).IsValid() {
			return fmt.Errorf("%w: unknown failure policy %s", domain.ErrInvalidInput, value)
		}
		parsed = value
	case keyRasterDPI, keyServerMaxUpload, keyInferenceBurst, keyInferenceMaxConc:
		n, err := strconv.Atoi(value)
		if err != nil || n < 0 {
			return fmt.Errorf("%w: %s must be a non-negative integer", domain.ErrInvalidInput, key)
		}
		parsed = n
	case keyInferenceRPS:
		f, err := strconv.ParseFloat(value, 64)
		if err != nil || f < 0 {
			return fmt.Errorf("%w: %s must be a non-negative number", domain.ErrInvalidInput, key)
		}
		parsed = f
	default:
		if !slices.Contains(settingKeys, key) {
			return fmt.Errorf("%w: unknown setting %s", domain.ErrInvalidInput, key)
		}
		parsed = value
	}

	if err := s.configStore.Set(key, parsed); err != nil {
		return fmt.Errorf("save %s: %w", key, err)
	}
	return nil
}

// SetTextQAProvider configures the text QA provider.
func (s *SettingsService) SetTextQAProvider(provider domain.AIProvider, model, apiKey string) error {
	if !slices.Contains(domain.AllTextQAProviders(), provider) {
		return fmt.Errorf("provider %s does not support text QA", provider)
	}
	if provider.RequiresAPIKey() && apiKey == "" {
		return fmt.Errorf("API key required for %s", provider)
	}

	settings, err := s.Get()
	if err != nil {
		return err
	}

	settings.TextQA = s.capabilityFor(provider, model, apiKey, domain.DefaultTextQAModels()[provider])
	return s.Save(settings)
}

// SetDocumentQAProvider configures the document QA provider.
func (s *SettingsService) SetDocumentQAProvider(provider domain.AIProvider, model, apiKey string) error {
	if !slices.Contains(domain.AllDocumentQAProviders(), provider) {
		return fmt.Errorf("provider %s does not support document QA", provider)
	}

	settings, err := s.Get()
	if err != nil {
		return err
	}

	defaultModel := domain.DefaultDocumentQAModel
	if provider == domain.AIProviderOCR {
		defaultModel = ""
	}
	settings.DocumentQA = s.capabilityFor(provider, model, apiKey, defaultModel)
	return s.Save(settings)
}

func (s *SettingsService) capabilityFor(provider domain.AIProvider, model, apiKey, defaultModel string) domain.CapabilitySettings {
	c := domain.CapabilitySettings{
		Provider: provider,
		Model:    model,
		APIKey:   apiKey,
	}
	if c.Model == "" {
		c.Model = defaultModel
	}

	// Set base URL based on provider type
	switch provider {
	case domain.AIProviderHuggingFace:
		c.BaseURL = domain.DefaultHuggingFaceURL
	case domain.AIProviderOllama:
		c.BaseURL = defaultOllamaURL
	default:
		c.BaseURL = ""
	}
	return c
}

// Validate checks that current settings are usable.
func (s *SettingsService) Validate() error {
	settings, err := s.Get()
	if err != nil {
		return err
	}

	if !slices.Contains(domain.AllTextQAProviders(), settings.TextQA.Provider) {
		return fmt.Errorf("text QA provider %q is not supported", settings.TextQA.Provider)
	}
	if !settings.TextQA.IsConfigured() {
		return fmt.Errorf("text QA provider %q requires an API key", settings.TextQA.Provider.Description())
	}
	if !slices.Contains(domain.AllDocumentQAProviders(), settings.DocumentQA.Provider) {
		return fmt.Errorf("document QA provider %q is not supported", settings.DocumentQA.Provider)
	}
	if settings.Rasterizer.DPI <= 0 {
		return fmt.Errorf("rasterizer dpi must be positive, got %d", settings.Rasterizer.DPI)
	}
	if settings.Server.MaxUploadMB <= 0 {
		return fmt.Errorf("server max_upload_mb must be positive, got %d", settings.Server.MaxUploadMB)
	}
	return nil
}

// GetDefaults returns default settings.
func (s *SettingsService) GetDefaults() domain.AppSettings {
	return domain.DefaultAppSettings()
}

// ValidateTextQAConfig validates the current text QA configuration by pinging the provider.
func (s *SettingsService) ValidateTextQAConfig() error {
	if s.aiValidator == nil {
		return nil
	}
	settings, err := s.Get()
	if err != nil {
		return err
	}
	return s.aiValidator.ValidateTextQA(&settings.TextQA)
}

// ValidateDocumentQAConfig validates the current document QA configuration by pinging the provider.
func (s *SettingsService) ValidateDocumentQAConfig() error {
	if s.aiValidator == nil {
		return nil
	}
	settings, err := s.Get()
	if err != nil {
		return err
	}
	return s.aiValidator.ValidateDocumentQA(&settings.DocumentQA)
}

// Helper methods for reading config with defaults.

func (s *SettingsService) getString(key, defaultVal string) string {
	val := s.configStore.GetString(key)
	if val == "" {
		return defaultVal
	}
	return val
}

func (s *SettingsService) getInt(key string, defaultVal int) int {
	val := s.configStore.GetInt(key)
	if val == 0 {
		return defaultVal
	}
	return val
}

func (s *SettingsService) getFloat(key string, defaultVal float64) float64 {
	val, ok := s.configStore.Get(key)
	if !ok {
		return defaultVal
	}
	switch v := val.(type) {
	case float64:
		return v
	case int64:
		return float64(v)
	case int:
		return float64(v)
	default:
		return defaultVal
	}
}

func (s *SettingsService) getProvider(key string, defaultVal domain.AIProvider) domain.AIProvider {
	val := s.configStore.GetString(key)
	if val == "" {
		return defaultVal
	}
	provider := domain.AIProvider(val)
	if !provider.IsValid() {
		return defaultVal
	}
	return provider
}

func (s *SettingsService) getOCREngine(defaultVal domain.OCREngine) domain.OCREngine {
	engine := domain.OCREngine(s.configStore.GetString(keyOCREngine))
	if !engine.IsValid() {
		return defaultVal
	}
	return engine
}

func (s *SettingsService) getRasterEngine(defaultVal domain.RasterEngine) domain.RasterEngine {
	engine := domain.RasterEngine(s.configStore.GetString(keyRasterEngine))
	if !engine.IsValid() {
		return defaultVal
	}
	return engine
}

func (s *SettingsService) getPolicy(defaultVal domain.PDFFailurePolicy) domain.PDFFailurePolicy {
	policy := domain.PDFFailurePolicy(s.configStore.GetString(keyPDFPolicy))
	if !policy.IsValid() {
		return defaultVal
	}
	return policy
}
