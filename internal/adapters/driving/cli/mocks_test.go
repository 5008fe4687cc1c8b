package cli

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/custodia-labs/askdoc/internal/core/domain"
)

// mockAskService records the last request.
type mockAskService struct {
	result domain.Result
	last   domain.AskRequest
	calls  int
}

func (m *mockAskService) Ask(_ context.Context, req domain.AskRequest) domain.Result {
	m.calls++
	m.last = req
	return m.result
}

// mockSettingsService records writes and serves fixed settings.
type mockSettingsService struct {
	settings    *domain.AppSettings
	err         error
	validateErr error
	pingErr     error

	setKey, setValue string
	textProvider     domain.AIProvider
	docProvider      domain.AIProvider
	model, apiKey    string
}

func (m *mockSettingsService) Get() (*domain.AppSettings, error) {
	if m.err != nil {
		return nil, m.err
	}
	if m.settings == nil {
		s := domain.DefaultAppSettings()
		return &s, nil
	}
	return m.settings, nil
}

func (m *mockSettingsService) Save(_ *domain.AppSettings) error { return m.err }

func (m *mockSettingsService) Set(key, value string) error {
	m.setKey, m.setValue = key, value
	return m.err
}

func (m *mockSettingsService) Keys() []string {
	return []string{"text_qa.provider", "pdf.failure_policy"}
}

func (m *mockSettingsService) SetTextQAProvider(p domain.AIProvider, model, apiKey string) error {
	m.textProvider, m.model, m.apiKey = p, model, apiKey
	return m.err
}

func (m *mockSettingsService) SetDocumentQAProvider(p domain.AIProvider, model, apiKey string) error {
	m.docProvider, m.model, m.apiKey = p, model, apiKey
	return m.err
}

func (m *mockSettingsService) Validate() error { return m.validateErr }

func (m *mockSettingsService) GetDefaults() domain.AppSettings { return domain.DefaultAppSettings() }

func (m *mockSettingsService) ValidateTextQAConfig() error { return m.pingErr }

func (m *mockSettingsService) ValidateDocumentQAConfig() error { return m.pingErr }

// execute runs rootCmd with fresh flags and captured output.
func execute(t *testing.T, stdin string, args ...string) (stdout, stderr string, err error) {
	t.Helper()
	resetFlags(rootCmd)
	color.NoColor = true
	if args == nil {
		args = []string{}
	}

	out := new(bytes.Buffer)
	errOut := new(bytes.Buffer)
	rootCmd.SetOut(out)
	rootCmd.SetErr(errOut)
	rootCmd.SetIn(strings.NewReader(stdin))
	rootCmd.SetArgs(args)
	defer func() {
		rootCmd.SetArgs(nil)
		rootCmd.SetIn(nil)
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
	}()

	err = rootCmd.Execute()
	return out.String(), errOut.String(), err
}

// withServices installs services for one test.
func withServices(t *testing.T, svc *Services) {
	t.Helper()
	SetServices(svc)
	t.Cleanup(func() {
		SetServices(nil)
		SetBootstrap(nil)
	})
}

func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		if sv, ok := f.Value.(pflag.SliceValue); ok {
			_ = sv.Replace(nil)
		} else {
			_ = f.Value.Set(f.DefValue)
		}
		f.Changed = false
	}
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
	for _, c := range cmd.Commands() {
		resetFlags(c)
	}
}
