// Package cli implements the askdoc command line.
//
// Commands are registered on rootCmd in their init functions. The services
// they call are built by a bootstrap function once the global flags are
// parsed, so --config-dir and --ephemeral reach the wiring in main.
package cli

import (
	"context"
	"errors"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/askdoc/internal/core/domain"
	"github.com/custodia-labs/askdoc/internal/core/ports/driving"
	"github.com/custodia-labs/askdoc/internal/logger"
)

// version is set by main from build flags.
var version = "dev"

// Errors returned by commands.
var (
	// ErrNoAskService is returned when a command needs the ask service and none was wired.
	ErrNoAskService = errors.New("ask service not configured")

	// ErrNoSettingsService is returned when a command needs settings and none were wired.
	ErrNoSettingsService = errors.New("settings service not configured")

	// ErrNotAnswered is returned by ask when the result is a failure.
	// The failure has already been printed.
	ErrNotAnswered = errors.New("question not answered")
)

// Options carries the global flags to the bootstrap function.
type Options struct {
	ConfigDir string
	Ephemeral bool

	// SettingsOnly is set for commands that only read or write settings.
	// The QA capabilities need not be built or pinged.
	SettingsOnly bool
}

// Services are the driving ports the commands call into.
type Services struct {
	Ask      driving.AskService
	Settings driving.SettingsService

	// Config is the effective configuration, environment overrides included.
	Config domain.AppSettings

	// Close releases adapters. Optional.
	Close func()
}

// BootstrapFunc builds the services once flags are parsed.
type BootstrapFunc func(ctx context.Context, opts Options) (*Services, error)

// Global flags.
var (
	verbose   bool
	configDir string
	ephemeral bool
)

var (
	askService      driving.AskService
	settingsService driving.SettingsService
	appConfig       = domain.DefaultAppSettings()
	bootstrap       BootstrapFunc
	closeServices   func()
)

// Command annotations read by setup.
const (
	annotationNoServices   = "askdoc/no-services"
	annotationSettingsOnly = "askdoc/settings-only"
)

var rootCmd = &cobra.Command{
	Use:   "askdoc",
	Short: "Ask questions about text, images and PDFs",
	Long: `askdoc answers a question against pasted text or an uploaded
.txt, .png, .jpeg/.jpg or .pdf file.

Text goes to an extractive text QA model. Images go to a document QA model.
PDFs are rasterized page by page and every page is answered.

Run without a subcommand to start the web UI.`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: setup,
	RunE:              runServe,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Print debug output to stderr")
	rootCmd.PersistentFlags().StringVar(&configDir, "config-dir", "", "Configuration directory (default ~/.askdoc)")
	rootCmd.PersistentFlags().BoolVar(&ephemeral, "ephemeral", false, "Keep settings in memory only")
}

// SetVersion sets the version reported by the version command and /healthz.
func SetVersion(v string) {
	if v != "" {
		version = v
	}
}

// SetBootstrap registers the function that builds the services.
func SetBootstrap(fn BootstrapFunc) {
	bootstrap = fn
}

// SetServices injects services directly. Used by main and tests.
func SetServices(svc *Services) {
	if svc == nil {
		askService = nil
		settingsService = nil
		appConfig = domain.DefaultAppSettings()
		closeServices = nil
		return
	}
	askService = svc.Ask
	settingsService = svc.Settings
	appConfig = svc.Config
	closeServices = svc.Close
}

// Execute runs the root command and releases the services afterwards.
func Execute(ctx context.Context) error {
	defer release()
	return rootCmd.ExecuteContext(ctx)
}

func setup(cmd *cobra.Command, _ []string) error {
	logger.SetVerbose(verbose)
	if bootstrap == nil || cmd.Annotations[annotationNoServices] != "" {
		return nil
	}

	svc, err := bootstrap(cmd.Context(), Options{
		ConfigDir:    configDir,
		Ephemeral:    ephemeral,
		SettingsOnly: hasAnnotation(cmd, annotationSettingsOnly),
	})
	if err != nil {
		return err
	}
	SetServices(svc)
	return nil
}

// hasAnnotation reports whether cmd or one of its parents carries key.
func hasAnnotation(cmd *cobra.Command, key string) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations[key] != "" {
			return true
		}
	}
	return false
}

func release() {
	if closeServices != nil {
		closeServices()
		closeServices = nil
	}
}
