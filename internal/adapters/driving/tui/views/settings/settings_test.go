package settings

import (
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/askdoc/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/askdoc/internal/core/domain"
)

func key(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func loadedView(t *testing.T, svc *mockSettingsService) *View {
	t.Helper()
	s := domain.DefaultAppSettings()
	svc.settings = &s

	v := NewView(nil, svc)
	v.SetDimensions(100, 30)
	v.Update(v.Init()())
	require.NotNil(t, v.settings)
	return v
}

func TestNewView(t *testing.T) {
	v := NewView(nil, nil)

	require.NotNil(t, v)
	assert.NotNil(t, v.styles)
	assert.Equal(t, SectionOverview, v.Section())
	assert.Contains(t, v.View(), "Loading settings...")
}

func TestView_Init_NoService(t *testing.T) {
	v := NewView(nil, nil)

	msg := v.Init()()
	v.Update(msg)

	assert.ErrorIs(t, v.Err(), ErrNoSettingsService)
	assert.Contains(t, v.View(), "settings service not available")
}

func TestView_Init_LoadError(t *testing.T) {
	svc := &mockSettingsService{err: errors.New("corrupt config")}
	v := NewView(nil, svc)

	v.Update(v.Init()())

	assert.EqualError(t, v.Err(), "corrupt config")
}

func TestView_Overview(t *testing.T) {
	v := loadedView(t, &mockSettingsService{})

	out := v.View()

	assert.Contains(t, out, "Text QA: Hugging Face Inference API (deepset/roberta-base-squad2)")
	assert.Contains(t, out, "Document QA: Hugging Face Inference API (impira/layoutlm-document-qa)")
	assert.Contains(t, out, "PDF failure policy: Abort on first failing page")
	assert.Contains(t, out, "Rasterizer: pdftoppm at 200 dpi")
	assert.Contains(t, out, "Configuration is valid")
}

func TestView_Overview_ValidationWarning(t *testing.T) {
	v := loadedView(t, &mockSettingsService{validateErr: errors.New("missing key")})

	assert.Contains(t, v.View(), "Warning: missing key")
}

func TestView_TogglePolicy(t *testing.T) {
	svc := &mockSettingsService{}
	v := loadedView(t, svc)

	_, cmd := v.Update(key("p"))
	require.NotNil(t, cmd)

	msg := cmd()
	assert.Equal(t, messages.SettingSaved{Key: "pdf.failure_policy", Value: "partial"}, msg)
	assert.Equal(t, "pdf.failure_policy", svc.setKey)
	assert.Equal(t, "partial", svc.setValue)

	_, reload := v.Update(msg)
	assert.NotNil(t, reload)
	assert.Contains(t, v.View(), "Saved pdf.failure_policy = partial")
}

func TestView_PolicySection(t *testing.T) {
	svc := &mockSettingsService{}
	v := loadedView(t, svc)

	v.Update(key("j"))
	v.Update(key("j"))
	v.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.Equal(t, SectionPDFPolicy, v.Section())
	assert.Equal(t, 0, v.Selected())
	assert.Contains(t, v.View(), "Select PDF Failure Policy")

	v.Update(key("j"))
	_, cmd := v.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)
	cmd()

	assert.Equal(t, "partial", svc.setValue)
}

func TestView_TextQAProvider_RequiresAPIKey(t *testing.T) {
	svc := &mockSettingsService{}
	v := loadedView(t, svc)

	v.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.Equal(t, SectionTextQA, v.Section())
	assert.Equal(t, 0, v.Selected())

	v.Update(key("j"))
	assert.Contains(t, v.View(), "API Key:")

	v.Update(tea.KeyMsg{Type: tea.KeyTab})
	for _, r := range "sk-test" {
		v.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
	_, cmd := v.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)

	msg := cmd()
	assert.Equal(t, domain.AIProviderOpenAI, svc.textProvider)
	assert.Equal(t, "sk-test", svc.apiKey)

	v.Update(msg)
	assert.Equal(t, SectionOverview, v.Section())
}

func TestView_DocumentQAProvider(t *testing.T) {
	svc := &mockSettingsService{}
	v := loadedView(t, svc)

	v.Update(key("j"))
	v.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.Equal(t, SectionDocumentQA, v.Section())

	v.Update(key("j"))
	_, cmd := v.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)
	cmd()

	assert.Equal(t, domain.AIProviderOCR, svc.docProvider)
}

func TestView_SaveError(t *testing.T) {
	v := loadedView(t, &mockSettingsService{})

	v.Update(messages.SettingSaved{Key: "pdf.failure_policy", Err: errors.New("read-only")})

	assert.EqualError(t, v.Err(), "read-only")
}

func TestView_Esc(t *testing.T) {
	v := loadedView(t, &mockSettingsService{})

	v.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.Equal(t, SectionTextQA, v.Section())

	_, cmd := v.Update(tea.KeyMsg{Type: tea.KeyEsc})
	assert.Nil(t, cmd)
	assert.Equal(t, SectionOverview, v.Section())

	_, cmd = v.Update(tea.KeyMsg{Type: tea.KeyEsc})
	require.NotNil(t, cmd)
	assert.Equal(t, messages.ViewChanged{View: messages.ViewMenu}, cmd())
}

func TestView_Reload(t *testing.T) {
	v := loadedView(t, &mockSettingsService{})

	_, cmd := v.Update(key("r"))

	require.NotNil(t, cmd)
	assert.IsType(t, messages.SettingsLoaded{}, cmd())
}

func TestView_Reset(t *testing.T) {
	v := loadedView(t, &mockSettingsService{})
	v.Update(tea.KeyMsg{Type: tea.KeyEnter})
	v.err = errors.New("x")

	v.Reset()

	assert.Equal(t, SectionOverview, v.Section())
	assert.NoError(t, v.Err())
}
