// Package tui provides an interactive terminal user interface for askdoc.
// It implements a driving adapter following hexagonal architecture principles.
package tui

import (
	"github.com/custodia-labs/askdoc/internal/core/ports/driving"
)

// Ports aggregates the driving ports used by the TUI.
type Ports struct {
	// Ask answers questions. Required.
	Ask driving.AskService

	// Settings manages application settings. Optional; without it the
	// settings view is hidden.
	Settings driving.SettingsService
}

// NewPorts creates a new Ports aggregate with the given services.
func NewPorts(ask driving.AskService, settings driving.SettingsService) *Ports {
	return &Ports{
		Ask:      ask,
		Settings: settings,
	}
}

// Validate ensures the required ports are set.
func (p *Ports) Validate() error {
	if p == nil {
		return ErrInvalidPorts
	}
	if p.Ask == nil {
		return ErrMissingAskService
	}
	return nil
}
