package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/custodia-labs/askdoc/internal/core/domain"
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Manage application settings",
	Long: `View and configure the QA providers, OCR, PDF rendering and the web UI.

Use subcommands to change a single key or to pick a provider interactively.`,
	Annotations: map[string]string{annotationSettingsOnly: "true"},
	RunE:        runSettingsShow,
}

var settingsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current settings",
	RunE:  runSettingsShow,
}

var settingsKeysCmd = &cobra.Command{
	Use:   "keys",
	Short: "List settable keys",
	RunE:  runSettingsKeys,
}

var settingsSetCmd = &cobra.Command{
	Use:   "set <key> [value]",
	Short: "Set a single setting",
	Long: `Set a single setting by its dotted key.

API keys are read from the terminal without echo when the value is omitted.

Examples:
  askdoc settings set pdf.failure_policy partial
  askdoc settings set rasterizer.dpi 150
  askdoc settings set text_qa.api_key`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runSettingsSet,
}

var settingsTextQACmd = &cobra.Command{
	Use:   "text-qa",
	Short: "Configure the text QA provider",
	Long:  `Choose the provider that answers questions over plain text.`,
	RunE:  runSettingsTextQA,
}

var settingsDocumentQACmd = &cobra.Command{
	Use:   "document-qa",
	Short: "Configure the document QA provider",
	Long:  `Choose the provider that answers questions over images and PDF pages.`,
	RunE:  runSettingsDocumentQA,
}

func init() {
	settingsCmd.AddCommand(settingsShowCmd)
	settingsCmd.AddCommand(settingsKeysCmd)
	settingsCmd.AddCommand(settingsSetCmd)
	settingsCmd.AddCommand(settingsTextQACmd)
	settingsCmd.AddCommand(settingsDocumentQACmd)
	rootCmd.AddCommand(settingsCmd)
}

func runSettingsShow(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return ErrNoSettingsService
	}

	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	cmd.Println("Current Settings")
	cmd.Println("================")
	cmd.Println()

	printCapability(cmd, "Text QA", settings.TextQA)
	printCapability(cmd, "Document QA", settings.DocumentQA)

	cmd.Println("[OCR]")
	cmd.Printf("  Engine: %s\n", settings.OCR.Engine)
	cmd.Printf("  Binary: %s\n", settings.OCR.Binary)
	cmd.Printf("  Language: %s\n", settings.OCR.Language)
	cmd.Println()

	cmd.Println("[Rasterizer]")
	cmd.Printf("  Engine: %s\n", settings.Rasterizer.Engine)
	cmd.Printf("  Binary: %s\n", settings.Rasterizer.Binary)
	cmd.Printf("  DPI: %d\n", settings.Rasterizer.DPI)
	cmd.Println()

	cmd.Println("[PDF]")
	cmd.Printf("  Failure policy: %s\n", settings.PDF.FailurePolicy.Description())
	cmd.Println()

	cmd.Println("[Web]")
	cmd.Printf("  Address: %s\n", settings.Server.Addr)
	cmd.Printf("  Max upload: %d MB\n", settings.Server.MaxUploadMB)
	if settings.Server.ScratchDir != "" {
		cmd.Printf("  Scratch dir: %s\n", settings.Server.ScratchDir)
	}
	cmd.Println()

	cmd.Println("[Inference]")
	cmd.Printf("  Requests per second: %g\n", settings.Inference.RequestsPerSecond)
	cmd.Printf("  Burst: %d\n", settings.Inference.Burst)
	cmd.Printf("  Max concurrent: %d\n", settings.Inference.MaxConcurrent)
	cmd.Println()

	if err := settingsService.Validate(); err != nil {
		cmd.Printf("Warning: %v\n", err)
		cmd.Println("Run 'askdoc settings text-qa' or 'askdoc settings set' to fix configuration issues.")
	} else {
		cmd.Println("Configuration is valid.")
	}

	return nil
}

func printCapability(cmd *cobra.Command, title string, c domain.CapabilitySettings) {
	cmd.Printf("[%s]\n", title)
	cmd.Printf("  Provider: %s\n", c.Provider.Description())
	if c.Model != "" {
		cmd.Printf("  Model: %s\n", c.Model)
	}
	if c.BaseURL != "" {
		cmd.Printf("  Base URL: %s\n", c.BaseURL)
	}
	switch {
	case c.APIKey != "":
		cmd.Printf("  API Key: %s\n", maskAPIKey(c.APIKey))
	case c.Provider.RequiresAPIKey():
		cmd.Printf("  API Key: (not set)\n")
	}
	status := "configured"
	if !c.IsConfigured() {
		status = "not configured"
	}
	cmd.Printf("  Status: %s\n", status)
	cmd.Println()
}

func runSettingsKeys(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return ErrNoSettingsService
	}
	for _, key := range settingsService.Keys() {
		cmd.Println(key)
	}
	return nil
}

func runSettingsSet(cmd *cobra.Command, args []string) error {
	if settingsService == nil {
		return ErrNoSettingsService
	}

	key := args[0]
	var value string
	switch {
	case len(args) == 2:
		value = args[1]
	case strings.HasSuffix(key, ".api_key"):
		cmd.Printf("Enter value for %s: ", key)
		value = readPassword(cmd.InOrStdin())
		cmd.Println()
	default:
		return fmt.Errorf("a value is required for %s", key)
	}

	if err := settingsService.Set(key, value); err != nil {
		return fmt.Errorf("failed to set %s: %w", key, err)
	}

	if strings.HasSuffix(key, ".api_key") {
		value = maskAPIKey(value)
	}
	cmd.Printf("%s = %s\n", key, value)
	return nil
}

func runSettingsTextQA(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return ErrNoSettingsService
	}
	reader := bufio.NewReader(cmd.InOrStdin())
	return configureTextQAProvider(cmd, reader)
}

func runSettingsDocumentQA(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return ErrNoSettingsService
	}
	reader := bufio.NewReader(cmd.InOrStdin())
	return configureDocumentQAProvider(cmd, reader)
}

func configureTextQAProvider(cmd *cobra.Command, reader *bufio.Reader) error {
	provider := chooseProvider(cmd, reader, "Select Text QA Provider", domain.AllTextQAProviders())

	defaultModel := domain.DefaultTextQAModels()[provider]
	cmd.Printf("Enter model name [%s]: ", defaultModel)
	model := readLine(reader)
	if model == "" {
		model = defaultModel
	}

	apiKey, err := promptAPIKey(cmd, reader, provider)
	if err != nil {
		return err
	}

	if err := settingsService.SetTextQAProvider(provider, model, apiKey); err != nil {
		return fmt.Errorf("failed to configure text QA provider: %w", err)
	}

	// Validate the configuration by pinging the service
	cmd.Print("Validating configuration... ")
	if err := settingsService.ValidateTextQAConfig(); err != nil {
		cmd.Printf("FAILED: %v\n", err)
		return fmt.Errorf("text QA configuration validation failed: %w", err)
	}
	cmd.Println("OK")

	cmd.Printf("Text QA provider configured: %s (%s)\n\n", provider.Description(), model)
	return nil
}

func configureDocumentQAProvider(cmd *cobra.Command, reader *bufio.Reader) error {
	provider := chooseProvider(cmd, reader, "Select Document QA Provider", domain.AllDocumentQAProviders())

	var model string
	if provider != domain.AIProviderOCR {
		cmd.Printf("Enter model name [%s]: ", domain.DefaultDocumentQAModel)
		model = readLine(reader)
		if model == "" {
			model = domain.DefaultDocumentQAModel
		}
	}

	apiKey, err := promptAPIKey(cmd, reader, provider)
	if err != nil {
		return err
	}

	if err := settingsService.SetDocumentQAProvider(provider, model, apiKey); err != nil {
		return fmt.Errorf("failed to configure document QA provider: %w", err)
	}

	cmd.Print("Validating configuration... ")
	if err := settingsService.ValidateDocumentQAConfig(); err != nil {
		cmd.Printf("FAILED: %v\n", err)
		return fmt.Errorf("document QA configuration validation failed: %w", err)
	}
	cmd.Println("OK")

	if model == "" {
		cmd.Printf("Document QA provider configured: %s\n\n", provider.Description())
	} else {
		cmd.Printf("Document QA provider configured: %s (%s)\n\n", provider.Description(), model)
	}
	return nil
}

func chooseProvider(
	cmd *cobra.Command, reader *bufio.Reader, title string, providers []domain.AIProvider,
) domain.AIProvider {
	cmd.Println(title)
	for i, p := range providers {
		cmd.Printf("  %d. %s\n", i+1, p.Description())
	}
	cmd.Print("\nEnter choice [1]: ")
	idx := parseChoice(readLine(reader), len(providers), 1)
	return providers[idx-1]
}

// promptAPIKey asks for a key. Hugging Face tokens are optional.
func promptAPIKey(cmd *cobra.Command, reader *bufio.Reader, provider domain.AIProvider) (string, error) {
	switch {
	case provider.RequiresAPIKey():
		cmd.Print("Enter API key: ")
		apiKey := readPasswordFrom(reader)
		cmd.Println()
		if apiKey == "" {
			return "", errors.New("API key is required for this provider")
		}
		return apiKey, nil
	case provider == domain.AIProviderHuggingFace:
		cmd.Print("Enter access token (optional): ")
		apiKey := readPasswordFrom(reader)
		cmd.Println()
		return apiKey, nil
	default:
		return "", nil
	}
}

// Helper functions.

//nolint:errcheck // CLI helper, error ignored for UX
func readLine(reader *bufio.Reader) string {
	input, _ := reader.ReadString('\n')
	return strings.TrimSpace(input)
}

func parseChoice(input string, maxVal, defaultVal int) int {
	if input == "" {
		return defaultVal
	}
	val, err := strconv.Atoi(input)
	if err != nil || val < 1 || val > maxVal {
		return defaultVal
	}
	return val
}

func readPassword(in io.Reader) string {
	return readPasswordFrom(bufio.NewReader(in))
}

// readPasswordFrom reads without echo when stdin is a terminal and falls
// back to a plain line otherwise.
func readPasswordFrom(reader *bufio.Reader) string {
	if term.IsTerminal(int(os.Stdin.Fd())) {
		password, err := term.ReadPassword(int(os.Stdin.Fd()))
		if err == nil {
			return strings.TrimSpace(string(password))
		}
	}
	return readLine(reader)
}

func maskAPIKey(key string) string {
	if len(key) <= 8 {
		return "****"
	}
	return key[:4] + "..." + key[len(key)-4:]
}
