package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/askdoc/internal/adapters/driven/ai"
	"github.com/custodia-labs/askdoc/internal/adapters/driven/config/env"
	"github.com/custodia-labs/askdoc/internal/adapters/driving/cli"
	"github.com/custodia-labs/askdoc/internal/core/domain"
	"github.com/custodia-labs/askdoc/internal/logger"
)

type stubTextQA struct {
	calls int
}

func (s *stubTextQA) Answer(_ context.Context, _, _ string) (domain.Candidate, error) {
	s.calls++
	return domain.Candidate{Answer: "Paris", Score: 0.9}, nil
}

func (s *stubTextQA) ModelName() string { return "stub" }

func (s *stubTextQA) Ping(context.Context) error { return nil }

func (s *stubTextQA) Close() error { return nil }

func clearEnv(t *testing.T) {
	t.Helper()
	for _, name := range []string{env.HFToken, env.OpenAIAPIKey, env.Addr} {
		t.Setenv(name, "")
	}
}

func TestBootstrap_EphemeralSettingsOnly(t *testing.T) {
	clearEnv(t)

	svc, err := bootstrap(context.Background(), cli.Options{Ephemeral: true, SettingsOnly: true})

	require.NoError(t, err)
	assert.Nil(t, svc.Ask)
	require.NotNil(t, svc.Settings)
	assert.Equal(t, domain.DefaultAppSettings(), svc.Config)
}

func TestBootstrap_EnvOverridesAreNotPersisted(t *testing.T) {
	dir := t.TempDir()
	t.Setenv(env.Addr, "0.0.0.0:9999")

	svc, err := bootstrap(context.Background(), cli.Options{ConfigDir: dir, SettingsOnly: true})

	require.NoError(t, err)
	assert.Equal(t, "0.0.0.0:9999", svc.Config.Server.Addr)

	stored, err := svc.Settings.Get()
	require.NoError(t, err)
	assert.Equal(t, domain.DefaultAddr, stored.Server.Addr)
}

func TestBootstrap_ReadsConfigDir(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	toml := "[pdf]\nfailure_policy = \"partial\"\n\n[rasterizer]\ndpi = 150\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.toml"), []byte(toml), 0o600))

	svc, err := bootstrap(context.Background(), cli.Options{ConfigDir: dir, SettingsOnly: true})

	require.NoError(t, err)
	assert.Equal(t, domain.PDFFailurePartial, svc.Config.PDF.FailurePolicy)
	assert.Equal(t, 150, svc.Config.Rasterizer.DPI)
}

func TestNewAskService_InlineText(t *testing.T) {
	textQA := &stubTextQA{}
	ask := newAskService(domain.DefaultAppSettings(), &ai.InitResult{TextQA: textQA})

	res := ask.Ask(context.Background(), domain.AskRequest{
		Text:     "Paris is the capital of France.",
		Question: "What is the capital of France?",
	})

	require.True(t, res.OK())
	assert.Equal(t, "Paris", res.String())
	assert.Equal(t, 1, textQA.calls)
}

func TestNewAskService_ImageWithoutDocumentQA(t *testing.T) {
	ask := newAskService(domain.DefaultAppSettings(), &ai.InitResult{TextQA: &stubTextQA{}})

	res := ask.Ask(context.Background(), domain.AskRequest{
		File:     &domain.Upload{Name: "scan.png", Path: filepath.Join(t.TempDir(), "scan.png")},
		Question: "What is the total?",
	})

	assert.False(t, res.OK())
}

func TestNewAskService_LogsScratchRoot(t *testing.T) {
	var buf bytes.Buffer
	logger.SetOutput(&buf)
	logger.SetVerbose(true)
	defer func() {
		logger.SetVerbose(false)
		logger.SetOutput(os.Stderr)
	}()

	settings := domain.DefaultAppSettings()
	settings.Server.ScratchDir = t.TempDir()

	newAskService(settings, &ai.InitResult{TextQA: &stubTextQA{}})

	assert.Contains(t, buf.String(), "Scratch root: "+settings.Server.ScratchDir)
}
