// Package ask provides the question form and answer view for the TUI.
//
// It mirrors the web form: pasted text and a file path are mutually
// exclusive, so typing in one hides the other until it is cleared.
package ask

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/askdoc/internal/adapters/driving/tui/components/input"
	"github.com/custodia-labs/askdoc/internal/adapters/driving/tui/components/status"
	"github.com/custodia-labs/askdoc/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/askdoc/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/askdoc/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/askdoc/internal/core/domain"
	"github.com/custodia-labs/askdoc/internal/core/ports/driving"
)

// Field identifies one input of the form.
type Field int

const (
	FieldText Field = iota
	FieldFile
	FieldQuestion
)

const description = "This App answers a question based on text content or uploaded file (txt, png, jpeg, pdf)."

// View is the ask form with an answer box and status bar.
type View struct {
	styles    *styles.Styles
	keymap    *keymap.KeyMap
	fields    [3]*input.Field
	statusbar *status.Bar

	askService driving.AskService
	ctx        context.Context

	focus  Field
	asking bool
	result *domain.Result
	err    error

	width  int
	height int
	ready  bool
}

// NewView creates a new ask view.
func NewView(s *styles.Styles, km *keymap.KeyMap, askService driving.AskService) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.DefaultKeyMap()
	}

	v := &View{
		styles: s,
		keymap: km,
		fields: [3]*input.Field{
			input.NewField(s, "Text Input", "Enter text content here...", 0),
			input.NewField(s, "File Upload", "Path to a .txt, .png, .jpeg or .pdf file", 4096),
			input.NewField(s, "Question", "Enter your question here...", 1024),
		},
		statusbar:  status.NewBar(s, km),
		askService: askService,
		ctx:        context.Background(),
		width:      80,
		height:     24,
	}
	v.statusbar.SetHints(status.HintsAsk)
	v.setFocus(FieldText)
	return v
}

// WithContext sets the context used for Ask calls.
func (v *View) WithContext(ctx context.Context) *View {
	v.ctx = ctx
	return v
}

// Init initialises the view.
func (v *View) Init() tea.Cmd {
	return v.fields[v.focus].Init()
}

// Update handles messages for the ask view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		return v, nil

	case tea.KeyMsg:
		return v.handleKeyMsg(msg)

	case messages.AskCompleted:
		v.handleAskCompleted(msg)
		return v, nil

	case messages.ErrorOccurred:
		v.asking = false
		v.err = msg.Err
		v.statusbar.SetState(status.StateError)
		v.statusbar.SetMessage(msg.Err.Error())
		return v, nil
	}

	var cmd tea.Cmd
	v.fields[v.focus], cmd = v.fields[v.focus].Update(msg)
	return v, cmd
}

func (v *View) handleKeyMsg(msg tea.KeyMsg) (*View, tea.Cmd) {
	if msg.Type == tea.KeyEsc {
		return v, func() tea.Msg {
			return messages.ViewChanged{View: messages.ViewMenu}
		}
	}
	if v.asking {
		return v, nil
	}

	switch {
	case keymap.Matches(msg.String(), v.keymap.NextField):
		return v, v.move(1)
	case keymap.Matches(msg.String(), v.keymap.PrevField):
		return v, v.move(-1)
	case keymap.Matches(msg.String(), v.keymap.Clear):
		v.Reset()
		return v, nil
	case keymap.Matches(msg.String(), v.keymap.Submit):
		return v, v.submit()
	}

	var cmd tea.Cmd
	v.fields[v.focus], cmd = v.fields[v.focus].Update(msg)
	return v, cmd
}

// Visible returns the inputs currently shown, in tab order.
func (v *View) Visible() []Field {
	switch {
	case strings.TrimSpace(v.fields[FieldText].Value()) != "":
		return []Field{FieldText, FieldQuestion}
	case strings.TrimSpace(v.fields[FieldFile].Value()) != "":
		return []Field{FieldFile, FieldQuestion}
	default:
		return []Field{FieldText, FieldFile, FieldQuestion}
	}
}

func (v *View) move(delta int) tea.Cmd {
	visible := v.Visible()
	idx := 0
	for i, f := range visible {
		if f == v.focus {
			idx = i
			break
		}
	}
	next := (idx + delta + len(visible)) % len(visible)
	return v.setFocus(visible[next])
}

func (v *View) setFocus(f Field) tea.Cmd {
	for _, field := range v.fields {
		field.Blur()
	}
	v.focus = f
	return v.fields[f].Focus()
}

// Request builds the ask request from the visible inputs.
func (v *View) Request() domain.AskRequest {
	req := domain.AskRequest{
		Text:     v.fields[FieldText].Value(),
		Question: v.fields[FieldQuestion].Value(),
	}
	if req.HasText() {
		return req
	}
	if path := strings.TrimSpace(v.fields[FieldFile].Value()); path != "" {
		req.File = &domain.Upload{Name: filepath.Base(path), Path: path}
	}
	return req
}

func (v *View) submit() tea.Cmd {
	req := v.Request()
	v.asking = true
	v.result = nil
	v.err = nil
	v.statusbar.SetState(status.StateAsking)
	v.statusbar.SetMessage("")

	ask := v.askService
	ctx := v.ctx
	return func() tea.Msg {
		if ask == nil {
			return messages.ErrorOccurred{Err: ErrNoAskService}
		}
		return messages.AskCompleted{Request: req, Result: ask.Ask(ctx, req)}
	}
}

func (v *View) handleAskCompleted(msg messages.AskCompleted) {
	v.asking = false
	res := msg.Result
	v.result = &res

	if !res.OK() {
		v.statusbar.SetState(status.StateError)
		if res.Failure != nil {
			v.statusbar.SetMessage(res.Failure.Kind.String())
		}
		return
	}
	v.statusbar.SetState(status.StateAnswered)
	v.statusbar.SetMessage(summary(res.Answer))
}

// summary describes an answer for the status bar.
func summary(a *domain.Answer) string {
	switch {
	case a.Score != nil:
		return fmt.Sprintf("score %.2f", *a.Score)
	case len(a.Pages) > 0:
		if failed := a.FailedPages(); failed > 0 {
			return fmt.Sprintf("%d pages, %d failed", len(a.Pages), failed)
		}
		return fmt.Sprintf("%d pages", len(a.Pages))
	default:
		return ""
	}
}

// View renders the ask view.
func (v *View) View() string {
	if !v.ready {
		return "Initialising..."
	}

	sections := make([]string, 0, 12)
	sections = append(sections,
		v.styles.Title.Render("QnA System"),
		v.styles.Muted.Render(description),
		"",
	)

	for _, f := range v.Visible() {
		sections = append(sections, v.fields[f].View())
	}

	sections = append(sections, "", v.styles.Label.Render("Answer"), v.renderAnswer(), "", v.statusbar.View())

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (v *View) renderAnswer() string {
	box := v.styles.Answer.Width(max(v.width-4, 20))
	switch {
	case v.asking:
		return box.Render(v.styles.Muted.Render("Thinking..."))
	case v.err != nil:
		return box.Render(v.styles.Error.Render(v.err.Error()))
	case v.result == nil:
		return box.Render(v.styles.Muted.Render("The answer will appear here..."))
	case !v.result.OK():
		return box.Render(v.styles.Error.Render(v.result.String()))
	default:
		return box.Render(v.styles.Normal.Render(v.result.String()))
	}
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.ready = true

	for _, f := range v.fields {
		f.SetWidth(width)
	}
	v.statusbar.SetWidth(width)
}

// Reset clears every input and the last answer.
func (v *View) Reset() {
	for _, f := range v.fields {
		f.Reset()
	}
	v.result = nil
	v.err = nil
	v.asking = false
	v.statusbar.Clear()
	v.setFocus(FieldText)
}

// SetValue sets the value of one input.
func (v *View) SetValue(f Field, value string) {
	v.fields[f].SetValue(value)
}

// Value returns the value of one input.
func (v *View) Value(f Field) string {
	return v.fields[f].Value()
}

// Focus returns the focused input.
func (v *View) Focus() Field {
	return v.focus
}

// Asking reports whether a question is in flight.
func (v *View) Asking() bool {
	return v.asking
}

// Result returns the last result, if any.
func (v *View) Result() *domain.Result {
	return v.result
}

// Err returns the current error, if any.
func (v *View) Err() error {
	return v.err
}

// Ready returns whether the view is ready to render.
func (v *View) Ready() bool {
	return v.ready
}
