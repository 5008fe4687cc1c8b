package domain

// ScratchArea is a directory owned by exactly one request.
// It is created when the request starts and removed when it ends.
type ScratchArea struct {
	// ID is a unique identifier for the area.
	ID string

	// Path is the absolute directory path.
	Path string
}
