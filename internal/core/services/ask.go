package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/custodia-labs/askdoc/internal/core/domain"
	"github.com/custodia-labs/askdoc/internal/core/ports/driven"
	"github.com/custodia-labs/askdoc/internal/core/ports/driving"
	"github.com/custodia-labs/askdoc/internal/logger"
)

// Ensure AskService implements the interface.
var _ driving.AskService = (*AskService)(nil)

// AskService routes a request to the loader and extractor matching its source.
type AskService struct {
	loader       driven.ContentLoader
	scratch      driven.ScratchSpace
	materializer driven.Materializer
	extractors   *Extractors
}

// NewAskService creates a new ask service.
func NewAskService(
	loader driven.ContentLoader,
	scratch driven.ScratchSpace,
	materializer driven.Materializer,
	extractors *Extractors,
) *AskService {
	return &AskService{
		loader:       loader,
		scratch:      scratch,
		materializer: materializer,
		extractors:   extractors,
	}
}

// Ask resolves the request to an answer or a failure.
func (s *AskService) Ask(ctx context.Context, req domain.AskRequest) (result domain.Result) {
	logger.Section("Ask")
	defer func() {
		if r := recover(); r != nil {
			logger.Error("ask panicked: %v", r)
			result = domain.ProcessingFailure(fmt.Errorf("internal error: %v", r))
		}
	}()

	if !req.HasFile() {
		logger.Debug("Source: %s (%d bytes)", domain.SourceInlineText, len(req.Text))
		if !req.HasText() || !req.HasQuestion() {
			return domain.MissingContentAndQuestion()
		}
		return s.answerText(ctx, req.Question, req.Text)
	}

	upload := *req.File
	kind, err := domain.ClassifyUpload(upload)
	if err != nil {
		logger.Debug("Rejecting upload %q: %v", upload.Name, err)
		return domain.UnsupportedType(upload.Name)
	}
	logger.Debug("Source: %s (%s)", kind, upload.Name)

	switch kind {
	case domain.SourceTextFile:
		return s.askTextFile(ctx, upload, req.Question)
	case domain.SourceImageFile:
		return s.askImage(ctx, upload, req.Question)
	case domain.SourcePDFPages:
		return s.askPDF(ctx, upload, req.Question)
	default:
		return domain.UnsupportedType(upload.Name)
	}
}

func (s *AskService) askTextFile(ctx context.Context, upload domain.Upload, question string) domain.Result {
	content, err := s.loader.Load(upload.Path)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			logger.Warn("Text upload missing: %v", err)
			return domain.FileNotFound(err)
		}
		return domain.TextFailure(err)
	}
	if strings.TrimSpace(content) == "" || strings.TrimSpace(question) == "" {
		return domain.MissingContentAndQuestion()
	}
	return s.answerText(ctx, question, content)
}

func (s *AskService) answerText(ctx context.Context, question, content string) domain.Result {
	c, err := s.extractors.Text(ctx, question, content)
	if err != nil {
		if ctx.Err() != nil {
			return domain.Cancelled(err)
		}
		logger.Error("text extraction failed: %v", err)
		return domain.TextFailure(err)
	}
	return domain.Answered(domain.NewScoredAnswer(c))
}

func (s *AskService) askImage(ctx context.Context, upload domain.Upload, question string) domain.Result {
	if strings.TrimSpace(question) == "" {
		return domain.MissingQuestion()
	}
	if !s.extractors.HasDocumentQA() {
		return domain.VisionFailure(domain.FailureExtraction, domain.ErrDocumentQAUnavailable)
	}

	area, err := s.scratch.Acquire(ctx)
	if err != nil {
		if ctx.Err() != nil {
			return domain.Cancelled(err)
		}
		logger.Error("acquire scratch area: %v", err)
		return domain.VisionFailure(domain.FailureMaterialize, err)
	}
	defer s.release(area)

	imagePath, err := s.materializer.MaterializeImage(ctx, upload, area)
	if err != nil {
		if ctx.Err() != nil {
			return domain.Cancelled(err)
		}
		logger.Error("materialize image %q: %v", upload.Name, err)
		return domain.VisionFailure(domain.FailureMaterialize, err)
	}

	c, err := s.extractors.Image(ctx, imagePath, question)
	if err != nil {
		if ctx.Err() != nil {
			return domain.Cancelled(err)
		}
		return domain.VisionFailure(domain.FailureExtraction, err)
	}
	return domain.Answered(domain.NewScoredAnswer(c))
}

func (s *AskService) askPDF(ctx context.Context, upload domain.Upload, question string) domain.Result {
	if strings.TrimSpace(question) == "" {
		return domain.MissingQuestion()
	}
	if !s.extractors.HasDocumentQA() {
		return domain.VisionFailure(domain.FailureExtraction, domain.ErrDocumentQAUnavailable)
	}

	area, err := s.scratch.Acquire(ctx)
	if err != nil {
		if ctx.Err() != nil {
			return domain.Cancelled(err)
		}
		logger.Error("acquire scratch area: %v", err)
		return domain.VisionFailure(domain.FailureMaterialize, err)
	}
	defer s.release(area)

	pages, err := s.materializer.MaterializePDF(ctx, upload, area)
	if err != nil {
		if ctx.Err() != nil {
			return domain.Cancelled(err)
		}
		logger.Error("materialize pdf %q: %v", upload.Name, err)
		return domain.VisionFailure(domain.FailureMaterialize, err)
	}
	logger.Debug("Rasterized %d pages (policy %s)", len(pages), s.extractors.Policy())

	answer, err := s.extractors.Pages(ctx, pages, question)
	if err != nil {
		if ctx.Err() != nil {
			return domain.Cancelled(err)
		}
		return domain.ProcessingFailure(err)
	}
	return domain.Answered(answer)
}

func (s *AskService) release(area *domain.ScratchArea) {
	if err := s.scratch.Release(area); err != nil {
		logger.Warn("release scratch area %s: %v", area.Path, err)
	}
}
