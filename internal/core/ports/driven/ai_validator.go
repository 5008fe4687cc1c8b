package driven

import "github.com/custodia-labs/askdoc/internal/core/domain"

// AIConfigValidator checks a capability configuration by building the
// provider and pinging it. An unconfigured capability is valid.
type AIConfigValidator interface {
	ValidateTextQA(config *domain.CapabilitySettings) error
	ValidateDocumentQA(config *domain.CapabilitySettings) error
}
