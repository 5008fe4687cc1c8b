package ai

import (
	"github.com/custodia-labs/askdoc/internal/core/domain"
	"github.com/custodia-labs/askdoc/internal/core/ports/driven"
)

// Ensure ConfigValidator implements the interface.
var _ driven.AIConfigValidator = (*ConfigValidator)(nil)

// ConfigValidator validates QA provider configurations.
type ConfigValidator struct{}

// NewConfigValidator creates a new QA config validator.
func NewConfigValidator() *ConfigValidator {
	return &ConfigValidator{}
}

// ValidateTextQA validates a text QA configuration by pinging the provider.
func (v *ConfigValidator) ValidateTextQA(config *domain.CapabilitySettings) error {
	return ValidateTextQAConfig(config)
}

// ValidateDocumentQA validates a document QA configuration by pinging the provider.
func (v *ConfigValidator) ValidateDocumentQA(config *domain.CapabilitySettings) error {
	return ValidateDocumentQAConfig(config)
}
