package tui

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPorts(t *testing.T) {
	ask := &mockAskService{}
	settings := &mockSettingsService{}

	ports := NewPorts(ask, settings)

	require.NotNil(t, ports)
	assert.Equal(t, ask, ports.Ask)
	assert.Equal(t, settings, ports.Settings)
}

func TestPorts_Validate(t *testing.T) {
	tests := []struct {
		name    string
		ports   *Ports
		wantErr error
	}{
		{"ask and settings", &Ports{Ask: &mockAskService{}, Settings: &mockSettingsService{}}, nil},
		{"ask only", &Ports{Ask: &mockAskService{}}, nil},
		{"missing ask", &Ports{Settings: &mockSettingsService{}}, ErrMissingAskService},
		{"nil ports", nil, ErrInvalidPorts},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.ports.Validate()
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}
