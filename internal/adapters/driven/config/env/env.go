// Package env loads .env files and applies environment overrides on top of
// the persisted settings. Overrides are never written back to config.toml.
package env

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/joho/godotenv"

	"github.com/custodia-labs/askdoc/internal/core/domain"
)

// Environment variables read by Apply.
const (
	HFToken      = "HF_TOKEN"
	OpenAIAPIKey = "OPENAI_API_KEY"
	Addr         = "ASKDOC_ADDR"
)

// DefaultFile is the dotenv file loaded from the working directory.
const DefaultFile = ".env"

// LookupFunc has the signature of os.LookupEnv.
type LookupFunc func(key string) (string, bool)

// Load reads the given dotenv files into the process environment.
// Files that do not exist are skipped. Variables already set win.
func Load(files ...string) error {
	if len(files) == 0 {
		files = []string{DefaultFile}
	}

	var existing []string
	for _, f := range files {
		_, err := os.Stat(f)
		switch {
		case err == nil:
			existing = append(existing, f)
		case errors.Is(err, fs.ErrNotExist):
		default:
			return fmt.Errorf("stat %s: %w", f, err)
		}
	}
	if len(existing) == 0 {
		return nil
	}

	if err := godotenv.Load(existing...); err != nil {
		return fmt.Errorf("load env files: %w", err)
	}
	return nil
}

// Apply overrides settings from the environment and returns the names of
// the variables that took effect.
// HF_TOKEN applies to capabilities on Hugging Face, OPENAI_API_KEY to those
// on OpenAI.
func Apply(settings *domain.AppSettings, lookup LookupFunc) []string {
	if settings == nil {
		return nil
	}
	if lookup == nil {
		lookup = os.LookupEnv
	}

	var applied []string
	keys := map[domain.AIProvider]string{
		domain.AIProviderHuggingFace: HFToken,
		domain.AIProviderOpenAI:      OpenAIAPIKey,
	}
	for _, capability := range []*domain.CapabilitySettings{&settings.TextQA, &settings.DocumentQA} {
		name, ok := keys[capability.Provider]
		if !ok {
			continue
		}
		if value, set := lookup(name); set && value != "" {
			capability.APIKey = value
			applied = appendOnce(applied, name)
		}
	}

	if addr, set := lookup(Addr); set && addr != "" {
		settings.Server.Addr = addr
		applied = append(applied, Addr)
	}

	return applied
}

func appendOnce(names []string, name string) []string {
	for _, n := range names {
		if n == name {
			return names
		}
	}
	return append(names, name)
}
