package device

import "github.com/scopeacq/acquire/proptype"

// CameraMetadata reports device-chosen ranges and capabilities discovered
// after a successful Set, consumed by package reconcile when it builds the
// caller-facing PropertyMetadata.
type CameraMetadata struct {
	WidthRange  [2]int
	HeightRange [2]int
	// SupportedTriggerSources lists the trigger sources this camera accepts
	// on its input trigger line.
	SupportedTriggerSources []proptype.TriggerSource
}

// Camera is the capability set every camera driver implements. Get/GetMeta/
// GetShape are always safe to call; Start/Stop/ExecuteTrigger/GetFrame
// require the device to be in the state the operation expects (see State).
type Camera interface {
	// Set applies requested properties, returning the device's new state.
	// A return of AwaitingConfiguration means validation failed and the
	// properties were not applied.
	Set(p proptype.CameraProperties) (State, error)
	// Get reports the camera's current effective properties, including any
	// device-chosen quantization (e.g. rounded exposure).
	Get() (proptype.CameraProperties, error)
	GetMeta() (CameraMetadata, error)
	GetShape() (proptype.ImageShape, error)
	Start() (State, error)
	Stop() (State, error)
	ExecuteTrigger() error
	// GetFrame writes one frame's raw pixel payload into buf and reports
	// its FrameInfo. It returns ErrAgain when no frame is ready yet; any
	// other non-nil error is fatal to the current acquisition.
	GetFrame(buf []byte) (n int, info proptype.FrameInfo, err error)
}

// StorageMetadata reports a sink's capability flags, used by reconcile to
// populate PropertyMetadata.
type StorageMetadata struct {
	SupportsChunking   bool
	SupportsSharding   bool
	SupportsMultiscale bool
	SupportsS3         bool
}

// Storage is the capability set every storage sink implements.
type Storage interface {
	Set(p proptype.StorageProperties) (State, error)
	Get() (proptype.StorageProperties, error)
	GetMeta() (StorageMetadata, error)
	Start() (State, error)
	Stop() (State, error)
	// Append writes one frame (header+payload) to the sink, returning the
	// number of bytes consumed and the device's state after the call. Any
	// state other than Running terminates the owning stream.
	Append(frame []byte) (n int, state State, err error)
	// ReserveImageShape is called during Configure, not Start, so the sink
	// can pre-allocate chunked/sharded storage before the first frame.
	ReserveImageShape(shape proptype.ImageShape) error
	Close() error
}
