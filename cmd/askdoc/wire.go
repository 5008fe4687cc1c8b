package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/custodia-labs/askdoc/internal/adapters/driven/ai"
	"github.com/custodia-labs/askdoc/internal/adapters/driven/config/env"
	"github.com/custodia-labs/askdoc/internal/adapters/driven/config/file"
	"github.com/custodia-labs/askdoc/internal/adapters/driven/filesystem"
	"github.com/custodia-labs/askdoc/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/askdoc/internal/adapters/driving/cli"
	"github.com/custodia-labs/askdoc/internal/core/domain"
	"github.com/custodia-labs/askdoc/internal/core/ports/driven"
	"github.com/custodia-labs/askdoc/internal/core/services"
	"github.com/custodia-labs/askdoc/internal/logger"
	"github.com/custodia-labs/askdoc/internal/metrics"
)

// promptDirName holds the editable chat prompts inside the config directory.
const promptDirName = "prompts"

// bootstrap builds every adapter and service for one command run.
func bootstrap(ctx context.Context, opts cli.Options) (*cli.Services, error) {
	logger.Section("Bootstrap")

	configStore, configDir, err := openConfigStore(opts)
	if err != nil {
		return nil, err
	}

	settingsService := services.NewSettingsService(configStore, ai.NewConfigValidator())
	settings, err := settingsService.Get()
	if err != nil {
		return nil, fmt.Errorf("load settings: %w", err)
	}
	for _, name := range env.Apply(settings, os.LookupEnv) {
		logger.Debug("Applied %s from the environment", name)
	}

	svc := &cli.Services{
		Settings: settingsService,
		Config:   *settings,
	}
	if opts.SettingsOnly {
		return svc, nil
	}

	var prompts driven.PromptStore
	if configDir != "" {
		store, err := file.NewPromptStore(filepath.Join(configDir, promptDirName))
		if err != nil {
			return nil, fmt.Errorf("open prompt store: %w", err)
		}
		prompts = store
	}

	capabilities, err := ai.NewFactory(*settings, prompts).Initialise(ctx)
	if err != nil {
		return nil, err
	}
	for _, w := range capabilities.Warnings {
		logger.Warn("%s", w)
	}

	svc.Ask = newAskService(*settings, capabilities)
	svc.Close = capabilities.Close
	return svc, nil
}

// openConfigStore returns the TOML store, or an in-memory one for --ephemeral.
// The directory is empty for the in-memory store.
func openConfigStore(opts cli.Options) (driven.ConfigStore, string, error) {
	if opts.Ephemeral {
		logger.Debug("Using in-memory settings")
		return memory.NewConfigStore(), "", nil
	}

	dir := opts.ConfigDir
	if dir == "" {
		var err error
		if dir, err = file.DefaultDir(); err != nil {
			return nil, "", fmt.Errorf("locate config directory: %w", err)
		}
	}

	store, err := file.NewConfigStore(dir)
	if err != nil {
		return nil, "", fmt.Errorf("open config store: %w", err)
	}
	logger.Debug("Settings file: %s", store.Path())
	return store, dir, nil
}

// newAskService assembles the dispatcher over metered capabilities.
func newAskService(settings domain.AppSettings, capabilities *ai.InitResult) *metrics.AskService {
	extractors := services.NewExtractors(
		metrics.WrapTextQA(capabilities.TextQA),
		metrics.WrapDocumentQA(capabilities.DocumentQA),
		settings.PDF.FailurePolicy,
		settings.Inference.MaxConcurrent,
	)

	scratch := filesystem.NewScratchSpace(settings.Server.ScratchDir)
	logger.Debug("Scratch root: %s", scratch.Root())

	ask := services.NewAskService(
		filesystem.NewTextLoader(),
		scratch,
		filesystem.NewMaterializer(capabilities.Rasterizer),
		extractors,
	)
	return metrics.WrapAskService(ask)
}
