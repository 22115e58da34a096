package device

import "errors"

var (
	// ErrConfigRejected is returned (or wrapped) when a device's Set call
	// leaves it in AwaitingConfiguration: the request was malformed and the
	// device's previous, still-valid configuration is retained.
	ErrConfigRejected = errors.New("device: configuration rejected")

	// ErrDeviceNotFound is returned by Manager.Select when no registered
	// device of the requested kind matches the pattern.
	ErrDeviceNotFound = errors.New("device: no matching device found")

	// ErrBadPattern is returned by Manager.Select when the selection
	// pattern is not a valid regular expression.
	ErrBadPattern = errors.New("device: malformed selection pattern")

	// ErrDeviceBusy is returned by Manager.Select when the first matching
	// device is already open and exclusive.
	ErrDeviceBusy = errors.New("device: device already open")

	// ErrAgain is the sentinel a Camera.GetFrame implementation returns to
	// mean "no frame ready yet"; producers treat it as non-fatal and retry.
	ErrAgain = errors.New("device: no frame available yet")

	// ErrClosed is returned by operations invoked on a Device after Close.
	ErrClosed = errors.New("device: device is closed")
)
