// Package settings provides the settings view for the TUI.
package settings

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/askdoc/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/askdoc/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/askdoc/internal/core/domain"
	"github.com/custodia-labs/askdoc/internal/core/ports/driving"
)

// ErrNoSettingsService indicates that no settings service was provided.
var ErrNoSettingsService = errors.New("settings service not available")

// Section tracks which settings section is active.
type Section int

const (
	SectionOverview Section = iota
	SectionTextQA
	SectionDocumentQA
	SectionPDFPolicy
)

// Setting keys written through SettingsService.Set.
const (
	keyPDFPolicy = "pdf.failure_policy"
	keyTextQA    = "text_qa.provider"
	keyDocQA     = "document_qa.provider"
)

const overviewItems = 3

var policies = []domain.PDFFailurePolicy{domain.PDFFailureAbort, domain.PDFFailurePartial}

// View is the settings configuration view.
type View struct {
	styles          *styles.Styles
	settingsService driving.SettingsService

	settings *domain.AppSettings
	err      error
	notice   string

	section  Section
	selected int

	// apiKeyFocused moves keystrokes from the provider list to apiKeyInput.
	apiKeyFocused bool
	apiKeyInput   textinput.Model

	width  int
	height int
	ready  bool
}

// NewView creates a new settings view.
func NewView(s *styles.Styles, settingsService driving.SettingsService) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}

	apiKeyInput := textinput.New()
	apiKeyInput.Placeholder = "Enter API key"
	apiKeyInput.EchoMode = textinput.EchoPassword
	apiKeyInput.CharLimit = 256

	return &View{
		styles:          s,
		settingsService: settingsService,
		section:         SectionOverview,
		apiKeyInput:     apiKeyInput,
	}
}

// Init initialises the view and loads settings.
func (v *View) Init() tea.Cmd {
	return v.loadSettings()
}

func (v *View) loadSettings() tea.Cmd {
	svc := v.settingsService
	return func() tea.Msg {
		if svc == nil {
			return messages.SettingsLoaded{Err: ErrNoSettingsService}
		}
		settings, err := svc.Get()
		return messages.SettingsLoaded{Settings: settings, Err: err}
	}
}

// Update handles messages for the settings view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		return v, nil

	case messages.SettingsLoaded:
		if msg.Err != nil {
			v.err = msg.Err
		} else {
			v.settings = msg.Settings
			v.err = nil
		}
		return v, nil

	case messages.SettingSaved:
		if msg.Err != nil {
			v.err = msg.Err
			return v, nil
		}
		v.err = nil
		v.notice = fmt.Sprintf("Saved %s = %s", msg.Key, msg.Value)
		v.leaveSection()
		return v, v.loadSettings()

	case tea.KeyMsg:
		return v.handleKeyMsg(msg)
	}

	return v, nil
}

func (v *View) handleKeyMsg(msg tea.KeyMsg) (*View, tea.Cmd) {
	if msg.Type == tea.KeyEsc {
		if v.section == SectionOverview {
			return v, func() tea.Msg {
				return messages.ViewChanged{View: messages.ViewMenu}
			}
		}
		v.leaveSection()
		return v, nil
	}

	if v.apiKeyFocused {
		return v.handleAPIKeyKeys(msg)
	}

	switch v.section {
	case SectionOverview:
		return v.handleOverviewKeys(msg)
	case SectionTextQA:
		return v.handleProviderKeys(msg, domain.AllTextQAProviders(), keyTextQA)
	case SectionDocumentQA:
		return v.handleProviderKeys(msg, domain.AllDocumentQAProviders(), keyDocQA)
	case SectionPDFPolicy:
		return v.handlePolicyKeys(msg)
	}
	return v, nil
}

func (v *View) handleOverviewKeys(msg tea.KeyMsg) (*View, tea.Cmd) {
	switch msg.String() {
	case "up", "k":
		v.moveSelection(-1, overviewItems)
	case "down", "j":
		v.moveSelection(1, overviewItems)
	case "r":
		v.notice = ""
		return v, v.loadSettings()
	case "p":
		if v.settings == nil {
			return v, nil
		}
		next := domain.PDFFailurePartial
		if v.settings.PDF.FailurePolicy == domain.PDFFailurePartial {
			next = domain.PDFFailureAbort
		}
		return v, v.set(keyPDFPolicy, string(next))
	case "enter":
		v.enterSection()
	}
	return v, nil
}

func (v *View) handleProviderKeys(msg tea.KeyMsg, providers []domain.AIProvider, key string) (*View, tea.Cmd) {
	switch msg.String() {
	case "up", "k":
		v.moveSelection(-1, len(providers))
	case "down", "j":
		v.moveSelection(1, len(providers))
	case "tab":
		if providers[v.selected].RequiresAPIKey() {
			v.apiKeyFocused = true
			v.apiKeyInput.Focus()
		}
	case "enter":
		return v, v.saveProvider(key, providers[v.selected])
	}
	return v, nil
}

func (v *View) handleAPIKeyKeys(msg tea.KeyMsg) (*View, tea.Cmd) {
	//nolint:exhaustive // only tab and enter leave the input
	switch msg.Type {
	case tea.KeyTab:
		v.apiKeyFocused = false
		v.apiKeyInput.Blur()
		return v, nil
	case tea.KeyEnter:
		if v.section == SectionTextQA {
			return v, v.saveProvider(keyTextQA, domain.AllTextQAProviders()[v.selected])
		}
		return v, v.saveProvider(keyDocQA, domain.AllDocumentQAProviders()[v.selected])
	}

	var cmd tea.Cmd
	v.apiKeyInput, cmd = v.apiKeyInput.Update(msg)
	return v, cmd
}

func (v *View) handlePolicyKeys(msg tea.KeyMsg) (*View, tea.Cmd) {
	switch msg.String() {
	case "up", "k":
		v.moveSelection(-1, len(policies))
	case "down", "j":
		v.moveSelection(1, len(policies))
	case "enter":
		return v, v.set(keyPDFPolicy, string(policies[v.selected]))
	}
	return v, nil
}

func (v *View) moveSelection(delta, count int) {
	next := v.selected + delta
	if next >= 0 && next < count {
		v.selected = next
	}
}

func (v *View) enterSection() {
	if v.settings == nil {
		return
	}
	switch v.selected {
	case 0:
		v.section = SectionTextQA
		v.selected = indexOf(domain.AllTextQAProviders(), v.settings.TextQA.Provider)
	case 1:
		v.section = SectionDocumentQA
		v.selected = indexOf(domain.AllDocumentQAProviders(), v.settings.DocumentQA.Provider)
	case 2:
		v.section = SectionPDFPolicy
		v.selected = indexOf(policies, v.settings.PDF.FailurePolicy)
	}
}

func (v *View) leaveSection() {
	v.section = SectionOverview
	v.selected = 0
	v.apiKeyFocused = false
	v.apiKeyInput.SetValue("")
	v.apiKeyInput.Blur()
}

func indexOf[T comparable](items []T, item T) int {
	for i, it := range items {
		if it == item {
			return i
		}
	}
	return 0
}

// set writes one key through the settings service.
func (v *View) set(key, value string) tea.Cmd {
	svc := v.settingsService
	return func() tea.Msg {
		if svc == nil {
			return messages.SettingSaved{Key: key, Value: value, Err: ErrNoSettingsService}
		}
		return messages.SettingSaved{Key: key, Value: value, Err: svc.Set(key, value)}
	}
}

// saveProvider switches a capability to provider with its default model.
func (v *View) saveProvider(key string, provider domain.AIProvider) tea.Cmd {
	svc := v.settingsService
	apiKey := v.apiKeyInput.Value()
	return func() tea.Msg {
		if svc == nil {
			return messages.SettingSaved{Key: key, Value: provider.String(), Err: ErrNoSettingsService}
		}
		var err error
		if key == keyTextQA {
			err = svc.SetTextQAProvider(provider, "", apiKey)
		} else {
			err = svc.SetDocumentQAProvider(provider, "", apiKey)
		}
		return messages.SettingSaved{Key: key, Value: provider.String(), Err: err}
	}
}

// View renders the settings view.
func (v *View) View() string {
	var b strings.Builder

	b.WriteString(v.styles.Title.Render("Settings"))
	b.WriteString("\n\n")

	if v.err != nil {
		b.WriteString(v.styles.Error.Render(fmt.Sprintf("Error: %s", v.err.Error())))
		b.WriteString("\n\n")
	}

	if v.settings == nil {
		b.WriteString(v.styles.Muted.Render("Loading settings..."))
		return b.String()
	}

	switch v.section {
	case SectionOverview:
		b.WriteString(v.renderOverview())
	case SectionTextQA:
		b.WriteString(v.renderProviders("Select Text QA Provider", domain.AllTextQAProviders(), v.settings.TextQA.Provider))
	case SectionDocumentQA:
		b.WriteString(v.renderProviders("Select Document QA Provider", domain.AllDocumentQAProviders(), v.settings.DocumentQA.Provider))
	case SectionPDFPolicy:
		b.WriteString(v.renderPolicies())
	}

	b.WriteString("\n")
	b.WriteString(v.renderHelp())

	return b.String()
}

func capabilityLine(c domain.CapabilitySettings) string {
	if c.Provider == "" {
		return "Not Set"
	}
	if c.Model == "" {
		return c.Provider.Description()
	}
	return fmt.Sprintf("%s (%s)", c.Provider.Description(), c.Model)
}

func (v *View) renderOverview() string {
	var b strings.Builder

	items := []struct {
		label  string
		value  string
		status string
	}{
		{"Text QA", capabilityLine(v.settings.TextQA), v.configuredStatus(v.settings.TextQA)},
		{"Document QA", capabilityLine(v.settings.DocumentQA), v.configuredStatus(v.settings.DocumentQA)},
		{"PDF failure policy", v.settings.PDF.FailurePolicy.Description(), ""},
	}

	for i, item := range items {
		line := fmt.Sprintf("%s: %s", item.label, item.value)
		if item.status != "" {
			line += " " + item.status
		}
		b.WriteString(v.renderOption(i == v.selected, line))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(v.styles.Muted.Render(fmt.Sprintf("OCR: %s (%s)", v.settings.OCR.Engine, v.settings.OCR.Language)))
	b.WriteString("\n")
	b.WriteString(v.styles.Muted.Render(fmt.Sprintf("Rasterizer: %s at %d dpi", v.settings.Rasterizer.Engine, v.settings.Rasterizer.DPI)))
	b.WriteString("\n")
	b.WriteString(v.styles.Muted.Render(fmt.Sprintf("Web UI: http://%s (max upload %d MB)", v.settings.Server.Addr, v.settings.Server.MaxUploadMB)))
	b.WriteString("\n\n")

	switch {
	case v.notice != "":
		b.WriteString(v.styles.Success.Render(v.notice))
	case v.settingsService != nil:
		if err := v.settingsService.Validate(); err != nil {
			b.WriteString(v.styles.Warning.Render(fmt.Sprintf("Warning: %s", err.Error())))
		} else {
			b.WriteString(v.styles.Success.Render("Configuration is valid"))
		}
	}
	b.WriteString("\n")

	return b.String()
}

func (v *View) configuredStatus(c domain.CapabilitySettings) string {
	if c.IsConfigured() {
		return v.styles.Success.Render("[configured]")
	}
	return v.styles.Warning.Render("[needs API key]")
}

func (v *View) renderOption(selected bool, line string) string {
	if selected {
		return v.styles.Selected.Render("> " + line)
	}
	return v.styles.Normal.Render("  " + line)
}

func (v *View) renderProviders(title string, providers []domain.AIProvider, current domain.AIProvider) string {
	var b strings.Builder

	b.WriteString(v.styles.Subtitle.Render(title))
	b.WriteString("\n\n")

	for i, provider := range providers {
		line := provider.Description()
		if provider == current {
			line += " (current)"
		}
		b.WriteString(v.renderOption(i == v.selected && !v.apiKeyFocused, line))
		b.WriteString("\n")
	}

	if providers[v.selected].RequiresAPIKey() {
		b.WriteString("\n")
		b.WriteString(v.styles.Normal.Render("API Key:"))
		b.WriteString("\n")
		b.WriteString(v.apiKeyInput.View())
		b.WriteString("\n")
	}

	return b.String()
}

func (v *View) renderPolicies() string {
	var b strings.Builder

	b.WriteString(v.styles.Subtitle.Render("Select PDF Failure Policy"))
	b.WriteString("\n\n")

	for i, p := range policies {
		line := p.Description()
		if p == v.settings.PDF.FailurePolicy {
			line += " (current)"
		}
		b.WriteString(v.renderOption(i == v.selected, line))
		b.WriteString("\n")
	}
	return b.String()
}

func (v *View) renderHelp() string {
	switch v.section {
	case SectionOverview:
		return v.styles.Help.Render("[j/k] navigate  [enter] edit  [p] toggle pdf policy  [r] reload  [esc] back")
	case SectionTextQA, SectionDocumentQA:
		if v.apiKeyFocused {
			return v.styles.Help.Render("[tab] back to list  [enter] save  [esc] back")
		}
		return v.styles.Help.Render("[j/k] navigate  [tab] API key  [enter] select  [esc] back")
	default:
		return v.styles.Help.Render("[j/k] navigate  [enter] select  [esc] back")
	}
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.ready = true
}

// Reset returns the view to the overview.
func (v *View) Reset() {
	v.leaveSection()
	v.err = nil
	v.notice = ""
}

// Section returns the active section.
func (v *View) Section() Section {
	return v.section
}

// Selected returns the selected index within the active section.
func (v *View) Selected() int {
	return v.selected
}

// Err returns the last error, if any.
func (v *View) Err() error {
	return v.err
}
