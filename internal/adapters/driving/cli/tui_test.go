package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTUICmd_Use(t *testing.T) {
	assert.Equal(t, "tui", tuiCmd.Use)
}

func TestTUI_RequiresTerminal(t *testing.T) {
	withServices(t, &Services{Ask: &mockAskService{}})
	original := isTerminal
	isTerminal = func() bool { return false }
	defer func() { isTerminal = original }()

	_, _, err := execute(t, "", "tui")

	assert.ErrorIs(t, err, ErrNotATerminal)
}

func TestTUI_MissingAskService(t *testing.T) {
	withServices(t, nil)
	original := isTerminal
	isTerminal = func() bool { return true }
	defer func() { isTerminal = original }()

	_, _, err := execute(t, "", "tui")

	assert.ErrorContains(t, err, "failed to create TUI")
}
