// Package ai provides factory functions for creating QA, OCR and rasterizer adapters.
package ai

import (
	"context"
	"fmt"
	"time"

	cgotesseract "github.com/custodia-labs/askdoc/cgo/tesseract"
	"github.com/custodia-labs/askdoc/internal/adapters/driven/ocr/tesseract"
	"github.com/custodia-labs/askdoc/internal/adapters/driven/qa/huggingface"
	"github.com/custodia-labs/askdoc/internal/adapters/driven/qa/ocrqa"
	"github.com/custodia-labs/askdoc/internal/adapters/driven/qa/ollama"
	"github.com/custodia-labs/askdoc/internal/adapters/driven/qa/openai"
	"github.com/custodia-labs/askdoc/internal/adapters/driven/raster/mupdf"
	"github.com/custodia-labs/askdoc/internal/adapters/driven/raster/pdftoppm"
	"github.com/custodia-labs/askdoc/internal/core/domain"
	"github.com/custodia-labs/askdoc/internal/core/ports/driven"
)

// pingTimeout is the maximum time to wait for service connectivity validation.
const pingTimeout = 5 * time.Second

// InitResult contains the result of capability initialisation.
type InitResult struct {
	TextQA      driven.TextQA
	DocumentQA  driven.DocumentQA
	Rasterizer  driven.Rasterizer
	PromptStore driven.PromptStore // User-customisable prompt templates.
	Warnings    []string           // Non-fatal issues; the affected capability is still usable.
}

// Close releases all resources held by InitResult.
func (r *InitResult) Close() {
	if r.DocumentQA != nil {
		r.DocumentQA.Close()
	}
	if r.TextQA != nil {
		r.TextQA.Close()
	}
}

// Factory builds adapters from application settings.
// Hugging Face adapters created by one factory share a rate limiter.
type Factory struct {
	settings domain.AppSettings
	prompts  driven.PromptStore
	limiter  *huggingface.RateLimiter
}

// NewFactory creates a factory. prompts may be nil.
func NewFactory(settings domain.AppSettings, prompts driven.PromptStore) *Factory {
	return &Factory{
		settings: settings,
		prompts:  prompts,
		limiter: huggingface.NewRateLimiter(huggingface.RateLimitConfig{
			RequestsPerSecond: settings.Inference.RequestsPerSecond,
			BurstSize:         settings.Inference.Burst,
		}),
	}
}

// Initialise creates every capability and pings the remote ones.
// Ping failures become warnings: a model that is loading or a server that
// starts later must not keep the UI from starting.
func (f *Factory) Initialise(ctx context.Context) (*InitResult, error) {
	result := &InitResult{PromptStore: f.prompts}

	textQA, err := f.CreateTextQA()
	if err != nil {
		return nil, fmt.Errorf("%w: %w. Run 'askdoc settings set text_qa.provider ...' to fix",
			domain.ErrTextQAUnavailable, err)
	}
	result.TextQA = textQA
	if err := ping(ctx, textQA); err != nil {
		result.Warnings = append(result.Warnings, fmt.Sprintf("text QA (%s) unreachable: %v", textQA.ModelName(), err))
	}

	documentQA, err := f.CreateDocumentQA(textQA)
	if err != nil {
		result.Warnings = append(result.Warnings, fmt.Sprintf("document QA disabled: %v", err))
	} else {
		result.DocumentQA = documentQA
		if err := ping(ctx, documentQA); err != nil {
			result.Warnings = append(result.Warnings,
				fmt.Sprintf("document QA (%s) unreachable: %v", documentQA.ModelName(), err))
		}
	}

	rasterizer, warning := f.CreateRasterizer()
	result.Rasterizer = rasterizer
	if warning != "" {
		result.Warnings = append(result.Warnings, warning)
	}

	return result, nil
}

type pinger interface {
	Ping(ctx context.Context) error
}

func ping(ctx context.Context, p pinger) error {
	ctx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	return p.Ping(ctx)
}

// CreateTextQA creates the text QA adapter for the configured provider.
func (f *Factory) CreateTextQA() (driven.TextQA, error) {
	return f.createTextQA(&f.settings.TextQA)
}

func (f *Factory) createTextQA(settings *domain.CapabilitySettings) (driven.TextQA, error) {
	if !settings.IsConfigured() {
		return nil, fmt.Errorf("provider %q is not configured", settings.Provider)
	}

	switch settings.Provider {
	case domain.AIProviderHuggingFace:
		return huggingface.NewTextQA(f.huggingFaceConfig(settings)), nil

	case domain.AIProviderOpenAI:
		svc, err := openai.NewTextQA(openai.Config{
			APIKey:  settings.APIKey,
			BaseURL: settings.BaseURL,
			Model:   settings.Model,
		})
		if err != nil {
			return nil, err
		}
		f.attachPrompts(svc)
		return svc, nil

	case domain.AIProviderOllama:
		svc := ollama.NewTextQA(ollama.Config{
			BaseURL: settings.BaseURL,
			Model:   settings.Model,
		})
		f.attachPrompts(svc)
		return svc, nil

	default:
		return nil, fmt.Errorf("unsupported text QA provider: %s", settings.Provider)
	}
}

// CreateDocumentQA creates the document QA adapter for the configured provider.
// textQA backs the local OCR provider.
func (f *Factory) CreateDocumentQA(textQA driven.TextQA) (driven.DocumentQA, error) {
	settings := &f.settings.DocumentQA
	if !settings.IsConfigured() {
		return nil, fmt.Errorf("provider %q is not configured", settings.Provider)
	}

	switch settings.Provider {
	case domain.AIProviderHuggingFace:
		return huggingface.NewDocumentQA(f.huggingFaceConfig(settings)), nil

	case domain.AIProviderOCR:
		engine, err := f.CreateOCREngine()
		if err != nil {
			return nil, err
		}
		return ocrqa.New(engine, textQA)

	default:
		return nil, fmt.Errorf("unsupported document QA provider: %s", settings.Provider)
	}
}

// CreateOCREngine creates the configured OCR engine.
func (f *Factory) CreateOCREngine() (driven.OCREngine, error) {
	ocr := f.settings.OCR
	switch ocr.Engine {
	case domain.OCREngineTesseract, "":
		return tesseract.New(tesseract.Config{Binary: ocr.Binary, Language: ocr.Language}), nil

	case domain.OCREngineGosseract:
		if !cgotesseract.Available {
			return nil, fmt.Errorf("ocr engine gosseract: %w (rebuild with -tags tesseract)", domain.ErrNotImplemented)
		}
		return cgotesseract.New(ocr.Language), nil

	default:
		return nil, fmt.Errorf("unsupported ocr engine: %s", ocr.Engine)
	}
}

// CreateRasterizer creates the configured PDF rasterizer.
// pdftoppm missing from PATH falls back to MuPDF with a warning.
func (f *Factory) CreateRasterizer() (driven.Rasterizer, string) {
	r := f.settings.Rasterizer
	switch r.Engine {
	case domain.RasterEngineMuPDF:
		return mupdf.New(r.DPI), ""

	default:
		p := pdftoppm.New(pdftoppm.Config{Binary: r.Binary, DPI: r.DPI})
		if err := p.Available(); err != nil {
			return mupdf.New(r.DPI), fmt.Sprintf("pdftoppm not found (%v), rendering PDFs with MuPDF", err)
		}
		return p, ""
	}
}

func (f *Factory) huggingFaceConfig(settings *domain.CapabilitySettings) huggingface.Config {
	return huggingface.Config{
		APIKey:  settings.APIKey,
		BaseURL: settings.BaseURL,
		Model:   settings.Model,
		Limiter: f.limiter,
	}
}

func (f *Factory) attachPrompts(svc driven.PromptStoreAware) {
	if f.prompts != nil {
		svc.SetPromptStore(f.prompts)
	}
}

// ValidateTextQAConfig creates a text QA adapter and pings it.
// This is intended for use by 'settings set' to validate credentials on configuration.
func ValidateTextQAConfig(settings *domain.CapabilitySettings) error {
	if settings == nil || !settings.IsConfigured() {
		return nil
	}

	svc, err := NewFactory(domain.DefaultAppSettings(), nil).createTextQA(settings)
	if err != nil {
		return err
	}
	defer svc.Close()

	return ping(context.Background(), svc)
}

// ValidateDocumentQAConfig pings a hosted document QA model.
// The local OCR provider has nothing remote to check and is always accepted.
func ValidateDocumentQAConfig(settings *domain.CapabilitySettings) error {
	if settings == nil || !settings.IsConfigured() {
		return nil
	}

	switch settings.Provider {
	case domain.AIProviderHuggingFace:
		svc := huggingface.NewDocumentQA(huggingface.Config{
			APIKey:  settings.APIKey,
			BaseURL: settings.BaseURL,
			Model:   settings.Model,
		})
		defer svc.Close()
		return ping(context.Background(), svc)

	case domain.AIProviderOCR:
		return nil

	default:
		return fmt.Errorf("unsupported document QA provider: %s", settings.Provider)
	}
}
