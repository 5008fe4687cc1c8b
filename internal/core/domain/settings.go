package domain

const unknownDescription = "Unknown"

// AIProvider identifies a service that answers questions.
type AIProvider string

// Available AI providers.
const (
	// AIProviderHuggingFace is the Hugging Face Inference API.
	AIProviderHuggingFace AIProvider = "huggingface"

	// AIProviderOpenAI is OpenAI cloud API (or any compatible endpoint).
	AIProviderOpenAI AIProvider = "openai"

	// AIProviderOllama is local Ollama instance.
	AIProviderOllama AIProvider = "ollama"

	// AIProviderOCR is local OCR followed by the text QA capability.
	// Only valid for document QA.
	AIProviderOCR AIProvider = "ocr"
)

// IsValid returns true if the AI provider is recognised.
func (p AIProvider) IsValid() bool {
	switch p {
	case AIProviderHuggingFace, AIProviderOpenAI, AIProviderOllama, AIProviderOCR:
		return true
	default:
		return false
	}
}

// RequiresAPIKey returns true if this provider needs an API key.
func (p AIProvider) RequiresAPIKey() bool {
	return p == AIProviderOpenAI
}

// IsLocal returns true if this provider runs locally.
func (p AIProvider) IsLocal() bool {
	return p == AIProviderOllama || p == AIProviderOCR
}

// String returns the string representation.
func (p AIProvider) String() string {
	return string(p)
}

// Description returns a human-readable description of the provider.
func (p AIProvider) Description() string {
	switch p {
	case AIProviderHuggingFace:
		return "Hugging Face Inference API"
	case AIProviderOpenAI:
		return "OpenAI (cloud)"
	case AIProviderOllama:
		return "Ollama (local)"
	case AIProviderOCR:
		return "Local OCR + text QA"
	default:
		return unknownDescription
	}
}

// AllTextQAProviders returns providers that can answer over plain text.
func AllTextQAProviders() []AIProvider {
	return []AIProvider{AIProviderHuggingFace, AIProviderOpenAI, AIProviderOllama}
}

// AllDocumentQAProviders returns providers that can answer over an image.
func AllDocumentQAProviders() []AIProvider {
	return []AIProvider{AIProviderHuggingFace, AIProviderOCR}
}

// DefaultTextQAModels returns default models for each text QA provider.
func DefaultTextQAModels() map[AIProvider]string {
	return map[AIProvider]string{
		AIProviderHuggingFace: "deepset/roberta-base-squad2",
		AIProviderOpenAI:      "gpt-4o-mini",
		AIProviderOllama:      "llama3.2",
	}
}

// DefaultDocumentQAModel is the hosted document QA model.
const DefaultDocumentQAModel = "impira/layoutlm-document-qa"

// DefaultHuggingFaceURL is the Inference API base URL.
const DefaultHuggingFaceURL = "https://api-inference.huggingface.co"

// CapabilitySettings configures one QA capability.
type CapabilitySettings struct {
	// Provider is the service provider.
	Provider AIProvider

	// Model is the model name.
	Model string

	// BaseURL is the API endpoint.
	BaseURL string

	// APIKey is the API key or token.
	APIKey string
}

// IsConfigured returns true if the provider is set up.
func (c CapabilitySettings) IsConfigured() bool {
	if !c.Provider.IsValid() {
		return false
	}
	if c.Provider.RequiresAPIKey() && c.APIKey == "" {
		return false
	}
	return true
}

// OCREngine selects the OCR implementation.
type OCREngine string

// Available OCR engines.
const (
	// OCREngineTesseract runs the tesseract binary.
	OCREngineTesseract OCREngine = "tesseract"

	// OCREngineGosseract links libtesseract through cgo.
	OCREngineGosseract OCREngine = "gosseract"
)

// IsValid returns true if the engine is recognised.
func (e OCREngine) IsValid() bool {
	return e == OCREngineTesseract || e == OCREngineGosseract
}

// OCRSettings configures text recognition for the local document QA path.
type OCRSettings struct {
	Engine   OCREngine
	Binary   string
	Language string
}

// RasterEngine selects the PDF rasterizer.
type RasterEngine string

// Available rasterizers.
const (
	// RasterEnginePdftoppm runs poppler's pdftoppm.
	RasterEnginePdftoppm RasterEngine = "pdftoppm"

	// RasterEngineMuPDF renders pages in-process with MuPDF.
	RasterEngineMuPDF RasterEngine = "mupdf"
)

// IsValid returns true if the engine is recognised.
func (e RasterEngine) IsValid() bool {
	return e == RasterEnginePdftoppm || e == RasterEngineMuPDF
}

// RasterizerSettings configures PDF page rendering.
type RasterizerSettings struct {
	Engine RasterEngine
	Binary string
	DPI    int
}

// PDFFailurePolicy decides what happens when one page cannot be answered.
type PDFFailurePolicy string

// Available policies.
const (
	// PDFFailureAbort stops at the first failing page and reports the error.
	PDFFailureAbort PDFFailurePolicy = "abort"

	// PDFFailurePartial keeps going and marks failing pages inline.
	PDFFailurePartial PDFFailurePolicy = "partial"
)

// IsValid returns true if the policy is recognised.
func (p PDFFailurePolicy) IsValid() bool {
	return p == PDFFailureAbort || p == PDFFailurePartial
}

// Description returns a human-readable description of the policy.
func (p PDFFailurePolicy) Description() string {
	switch p {
	case PDFFailureAbort:
		return "Abort on first failing page"
	case PDFFailurePartial:
		return "Answer every page, mark failures inline"
	default:
		return unknownDescription
	}
}

// PDFSettings configures multi-page answering.
type PDFSettings struct {
	FailurePolicy PDFFailurePolicy
}

// ServerSettings configures the local web UI.
type ServerSettings struct {
	// Addr is the listen address.
	Addr string

	// MaxUploadMB caps the size of one upload.
	MaxUploadMB int

	// ScratchDir is the parent of per-request scratch areas. Empty means the OS temp dir.
	ScratchDir string
}

// InferenceSettings limits calls into the QA capabilities.
type InferenceSettings struct {
	// RequestsPerSecond is the hosted API rate limit. Zero disables limiting.
	RequestsPerSecond float64

	// Burst is the token bucket size.
	Burst int

	// MaxConcurrent caps in-flight inference calls across requests.
	MaxConcurrent int
}

// AppSettings holds all application settings.
type AppSettings struct {
	TextQA     CapabilitySettings
	DocumentQA CapabilitySettings
	OCR        OCRSettings
	Rasterizer RasterizerSettings
	PDF        PDFSettings
	Server     ServerSettings
	Inference  InferenceSettings
}

// Defaults.
const (
	DefaultAddr          = "127.0.0.1:7860"
	DefaultMaxUploadMB   = 32
	DefaultDPI           = 200
	DefaultOCRLanguage   = "eng"
	DefaultRequestsPerS  = 2.0
	DefaultBurst         = 4
	DefaultMaxConcurrent = 1
)

// DefaultAppSettings returns settings that reproduce the hosted demo:
// extractive text QA and LayoutLM document QA on the Hugging Face Inference API.
func DefaultAppSettings() AppSettings {
	return AppSettings{
		TextQA: CapabilitySettings{
			Provider: AIProviderHuggingFace,
			Model:    DefaultTextQAModels()[AIProviderHuggingFace],
			BaseURL:  DefaultHuggingFaceURL,
		},
		DocumentQA: CapabilitySettings{
			Provider: AIProviderHuggingFace,
			Model:    DefaultDocumentQAModel,
			BaseURL:  DefaultHuggingFaceURL,
		},
		OCR: OCRSettings{
			Engine:   OCREngineTesseract,
			Binary:   "tesseract",
			Language: DefaultOCRLanguage,
		},
		Rasterizer: RasterizerSettings{
			Engine: RasterEnginePdftoppm,
			Binary: "pdftoppm",
			DPI:    DefaultDPI,
		},
		PDF: PDFSettings{FailurePolicy: PDFFailureAbort},
		Server: ServerSettings{
			Addr:        DefaultAddr,
			MaxUploadMB: DefaultMaxUploadMB,
		},
		Inference: InferenceSettings{
			RequestsPerSecond: DefaultRequestsPerS,
			Burst:             DefaultBurst,
			MaxConcurrent:     DefaultMaxConcurrent,
		},
	}
}
