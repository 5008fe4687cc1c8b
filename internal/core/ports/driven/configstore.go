package driven

// ConfigStore holds flat, dot-keyed settings such as "pdf.failure_policy".
// Typed getters return the zero value for missing keys and type mismatches.
type ConfigStore interface {
	// Get returns the raw value and whether the key is set.
	Get(key string) (any, bool)

	GetString(key string) string

	// GetInt accepts any integer representation the backend decodes.
	GetInt(key string) int

	// Set stores value. Persistent stores write through immediately.
	Set(key string, value any) error

	// Path identifies the backing file, or ":memory:".
	Path() string
}
