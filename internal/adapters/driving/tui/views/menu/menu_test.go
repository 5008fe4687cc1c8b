package menu

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/askdoc/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/askdoc/internal/adapters/driving/tui/styles"
)

func TestNewView(t *testing.T) {
	view := NewView(styles.DefaultStyles(), true)

	require.NotNil(t, view)
	require.Len(t, view.Items(), 4)
	assert.Equal(t, messages.ViewAsk, view.Items()[0].View)
	assert.Equal(t, messages.ViewSettings, view.Items()[1].View)
	assert.True(t, view.Items()[3].Quit)
	assert.Equal(t, 0, view.Selected())
}

func TestNewView_WithoutSettings(t *testing.T) {
	view := NewView(nil, false)

	require.NotNil(t, view.styles)
	require.Len(t, view.Items(), 3)
	for _, item := range view.Items() {
		assert.NotEqual(t, messages.ViewSettings, item.View)
	}
}

func TestView_Init(t *testing.T) {
	assert.Nil(t, NewView(nil, true).Init())
}

func TestView_Update_WindowSize(t *testing.T) {
	view := NewView(nil, true)

	updated, cmd := view.Update(tea.WindowSizeMsg{Width: 100, Height: 50})

	assert.Equal(t, view, updated)
	assert.Nil(t, cmd)
	assert.True(t, view.ready)
	assert.Equal(t, 100, view.width)
}

func TestView_Update_Navigate(t *testing.T) {
	view := NewView(nil, true)

	view.Update(tea.KeyMsg{Type: tea.KeyDown})
	assert.Equal(t, 1, view.Selected())

	view.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'j'}})
	view.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'j'}})
	view.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'j'}})
	assert.Equal(t, 3, view.Selected(), "stops at the last item")

	view.Update(tea.KeyMsg{Type: tea.KeyUp})
	assert.Equal(t, 2, view.Selected())

	view.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'k'}})
	view.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'k'}})
	view.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'k'}})
	assert.Equal(t, 0, view.Selected(), "stops at the first item")
}

func TestView_Update_EnterChangesView(t *testing.T) {
	view := NewView(nil, true)

	_, cmd := view.Update(tea.KeyMsg{Type: tea.KeyEnter})

	require.NotNil(t, cmd)
	assert.Equal(t, messages.ViewChanged{View: messages.ViewAsk}, cmd())
}

func TestView_Update_EnterOnQuit(t *testing.T) {
	view := NewView(nil, false)
	view.selected = len(view.Items()) - 1

	_, cmd := view.Update(tea.KeyMsg{Type: tea.KeyEnter})

	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
}

func TestView_Update_Q(t *testing.T) {
	view := NewView(nil, true)

	_, cmd := view.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})

	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
}

func TestView_View(t *testing.T) {
	view := NewView(nil, true)
	assert.Equal(t, "Initialising...", view.View())

	view.SetDimensions(80, 24)
	out := view.View()

	assert.Contains(t, out, "QnA System")
	assert.Contains(t, out, "1. Ask a question")
	assert.Contains(t, out, "Settings")
	assert.Contains(t, out, "> ")
}

func TestView_Update_HomeEnd(t *testing.T) {
	view := NewView(nil, true)

	view.Update(tea.KeyMsg{Type: tea.KeyEnd})
	assert.Equal(t, 3, view.Selected())

	view.Update(tea.KeyMsg{Type: tea.KeyHome})
	assert.Equal(t, 0, view.Selected())
}

func TestView_Update_NumberJumps(t *testing.T) {
	tests := []struct {
		name string
		key  rune
		want tea.Msg
	}{
		{"ask", '1', messages.ViewChanged{View: messages.ViewAsk}},
		{"settings", '2', messages.ViewChanged{View: messages.ViewSettings}},
		{"quit", '4', tea.Quit()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			view := NewView(nil, true)

			_, cmd := view.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{tt.key}})

			require.NotNil(t, cmd)
			assert.Equal(t, tt.want, cmd())
			assert.Equal(t, int(tt.key-'1'), view.Selected())
		})
	}
}

func TestView_Update_NumberOutOfRange(t *testing.T) {
	view := NewView(nil, false)

	_, cmd := view.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'9'}})

	assert.Nil(t, cmd)
	assert.Equal(t, 0, view.Selected())
}
