package stream

import "errors"

var (
	// ErrAlreadyRunning is returned by Start on a pipeline whose producer and
	// consumer goroutines are already active.
	ErrAlreadyRunning = errors.New("stream: pipeline already running")

	// ErrNotRunning reports a pipeline that is not running. No Pipeline
	// method returns it: MapMonitor and UnmapMonitor work in any state.
	ErrNotRunning = errors.New("stream: pipeline not running")
)
