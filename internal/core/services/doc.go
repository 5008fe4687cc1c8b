// Package services holds the ask dispatcher, the per-format extractors and
// the settings service. They depend only on the ports in internal/core/ports.
package services
