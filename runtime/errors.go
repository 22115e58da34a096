package runtime

import "errors"

var (
	// ErrInvalidTransition is returned when a method is called from a state
	// that does not permit it, e.g. Start while already Running, or
	// Configure while Running.
	ErrInvalidTransition = errors.New("runtime: invalid state transition")

	// ErrUnknownStream is returned for a stream index outside the
	// configured range.
	ErrUnknownStream = errors.New("runtime: unknown stream index")
)
