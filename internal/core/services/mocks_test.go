package services

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/custodia-labs/askdoc/internal/core/domain"
)

// --- Mock implementations ---

// mockTextQA implements driven.TextQA for testing.
type mockTextQA struct {
	mu        sync.Mutex
	answer    domain.Candidate
	err       error
	calls     int
	questions []string
	contexts  []string
	block     chan struct{}
}

func (m *mockTextQA) Answer(ctx context.Context, question, content string) (domain.Candidate, error) {
	m.mu.Lock()
	m.calls++
	m.questions = append(m.questions, question)
	m.contexts = append(m.contexts, content)
	block := m.block
	m.mu.Unlock()

	if block != nil {
		select {
		case <-block:
		case <-ctx.Done():
			return domain.Candidate{}, ctx.Err()
		}
	}
	return m.answer, m.err
}

func (m *mockTextQA) ModelName() string { return "mock-text" }
func (m *mockTextQA) Ping(_ context.Context) error { return nil }
func (m *mockTextQA) Close() error { return nil }

func (m *mockTextQA) callCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

// mockDocumentQA implements driven.DocumentQA for testing.
// Answers are keyed by image base name; pages listed in errs fail.
type mockDocumentQA struct {
	mu          sync.Mutex
	answers     map[string][]domain.Candidate
	errs        map[string]error
	calls       []string
	cancel      context.CancelFunc
	cancelAfter int
}

func (m *mockDocumentQA) Answer(_ context.Context, imagePath, _ string) ([]domain.Candidate, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, imagePath)
	if m.cancel != nil && len(m.calls) == m.cancelAfter {
		m.cancel()
	}

	name := filepath.Base(imagePath)
	if err, ok := m.errs[name]; ok {
		return nil, err
	}
	if c, ok := m.answers[name]; ok {
		return c, nil
	}
	return []domain.Candidate{{Answer: "answer for " + name, Score: 0.5}}, nil
}

func (m *mockDocumentQA) ModelName() string { return "mock-doc" }
func (m *mockDocumentQA) Ping(_ context.Context) error { return nil }
func (m *mockDocumentQA) Close() error { return nil }

func (m *mockDocumentQA) callCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.calls)
}

// mockLoader implements driven.ContentLoader for testing.
type mockLoader struct {
	content string
	err     error
	paths   []string
}

func (m *mockLoader) Load(path string) (string, error) {
	m.paths = append(m.paths, path)
	return m.content, m.err
}

// mockScratch implements driven.ScratchSpace on top of a test temp dir.
// onAcquire runs after an area is handed out.
type mockScratch struct {
	root       string
	acquireErr error
	acquired   int
	released   []string
	onAcquire  func()
}

func (m *mockScratch) Acquire(ctx context.Context) (*domain.ScratchArea, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if m.acquireErr != nil {
		return nil, m.acquireErr
	}
	m.acquired++
	if m.onAcquire != nil {
		defer m.onAcquire()
	}
	id := fmt.Sprintf("area-%d", m.acquired)
	path := filepath.Join(m.root, id)
	if err := os.MkdirAll(path, 0o700); err != nil {
		return nil, err
	}
	return &domain.ScratchArea{ID: id, Path: path}, nil
}

func (m *mockScratch) Release(area *domain.ScratchArea) error {
	m.released = append(m.released, area.ID)
	return os.RemoveAll(area.Path)
}

// mockMaterializer implements driven.Materializer for testing.
type mockMaterializer struct {
	pages    int
	imageErr error
	pdfErr   error
	images   int
	pdfs     int
}

func (m *mockMaterializer) MaterializeImage(
	ctx context.Context, upload domain.Upload, area *domain.ScratchArea,
) (string, error) {
	m.images++
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if m.imageErr != nil {
		return "", m.imageErr
	}
	return filepath.Join(area.Path, upload.BaseName()), nil
}

func (m *mockMaterializer) MaterializePDF(
	ctx context.Context, _ domain.Upload, area *domain.ScratchArea,
) ([]string, error) {
	m.pdfs++
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if m.pdfErr != nil {
		return nil, m.pdfErr
	}
	paths := make([]string, m.pages)
	for i := range paths {
		paths[i] = filepath.Join(area.Path, fmt.Sprintf("page_%d.png", i))
	}
	return paths, nil
}

// mockValidator implements driven.AIConfigValidator for testing.
type mockValidator struct {
	textErr error
	docErr  error
	text    *domain.CapabilitySettings
	doc     *domain.CapabilitySettings
}

func (m *mockValidator) ValidateTextQA(cfg *domain.CapabilitySettings) error {
	m.text = cfg
	return m.textErr
}

func (m *mockValidator) ValidateDocumentQA(cfg *domain.CapabilitySettings) error {
	m.doc = cfg
	return m.docErr
}

var errBoom = errors.New("boom")
