package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAIProvider_IsValid(t *testing.T) {
	tests := []struct {
		provider AIProvider
		expected bool
	}{
		{AIProviderHuggingFace, true},
		{AIProviderOpenAI, true},
		{AIProviderOllama, true},
		{AIProviderOCR, true},
		{AIProvider("anthropic"), false},
		{AIProvider(""), false},
	}

	for _, tt := range tests {
		t.Run(string(tt.provider), func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.provider.IsValid())
		})
	}
}

func TestAIProvider_Traits(t *testing.T) {
	assert.True(t, AIProviderOpenAI.RequiresAPIKey())
	assert.False(t, AIProviderHuggingFace.RequiresAPIKey())
	assert.True(t, AIProviderOllama.IsLocal())
	assert.True(t, AIProviderOCR.IsLocal())
	assert.False(t, AIProviderHuggingFace.IsLocal())
	assert.Equal(t, unknownDescription, AIProvider("x").Description())
	assert.NotEqual(t, unknownDescription, AIProviderHuggingFace.Description())
}

func TestCapabilitySettings_IsConfigured(t *testing.T) {
	assert.True(t, CapabilitySettings{Provider: AIProviderHuggingFace}.IsConfigured())
	assert.False(t, CapabilitySettings{Provider: AIProviderOpenAI}.IsConfigured())
	assert.True(t, CapabilitySettings{Provider: AIProviderOpenAI, APIKey: "sk"}.IsConfigured())
	assert.False(t, CapabilitySettings{}.IsConfigured())
}

func TestDefaultAppSettings(t *testing.T) {
	s := DefaultAppSettings()

	assert.Equal(t, AIProviderHuggingFace, s.TextQA.Provider)
	assert.Equal(t, "deepset/roberta-base-squad2", s.TextQA.Model)
	assert.Equal(t, "impira/layoutlm-document-qa", s.DocumentQA.Model)
	assert.Equal(t, PDFFailureAbort, s.PDF.FailurePolicy)
	assert.Equal(t, "127.0.0.1:7860", s.Server.Addr)
	assert.Equal(t, 200, s.Rasterizer.DPI)
	assert.Equal(t, 1, s.Inference.MaxConcurrent)
	assert.True(t, s.OCR.Engine.IsValid())
	assert.True(t, s.Rasterizer.Engine.IsValid())
}

func TestPDFFailurePolicy(t *testing.T) {
	assert.True(t, PDFFailureAbort.IsValid())
	assert.True(t, PDFFailurePartial.IsValid())
	assert.False(t, PDFFailurePolicy("retry").IsValid())
	assert.Equal(t, unknownDescription, PDFFailurePolicy("retry").Description())
}

func TestProviderLists(t *testing.T) {
	for _, p := range AllTextQAProviders() {
		assert.NotEmpty(t, DefaultTextQAModels()[p], p)
	}
	assert.Contains(t, AllDocumentQAProviders(), AIProviderOCR)
	assert.NotContains(t, AllTextQAProviders(), AIProviderOCR)
}
