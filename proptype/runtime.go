package proptype

import "fmt"

// MaxStreams is the system-wide cap on concurrent streams. The spec
// requires at least 2; this runtime ships with headroom for small
// multi-camera rigs.
const MaxStreams = 8

// RuntimeProperties is the top-level, fixed-capacity configuration record
// the controller accepts from and reports back to callers.
type RuntimeProperties struct {
	Streams []VideoStreamProperties
}

// NewRuntimeProperties returns a RuntimeProperties with n zeroed streams.
func NewRuntimeProperties(n int) (RuntimeProperties, error) {
	if n < 0 || n > MaxStreams {
		return RuntimeProperties{}, fmt.Errorf("proptype: stream count %d out of range [0,%d]", n, MaxStreams)
	}
	return RuntimeProperties{Streams: make([]VideoStreamProperties, n)}, nil
}

// Validate checks the fixed-capacity invariant.
func (p RuntimeProperties) Validate() error {
	if len(p.Streams) > MaxStreams {
		return fmt.Errorf("proptype: %d streams exceeds cap of %d", len(p.Streams), MaxStreams)
	}
	return nil
}

// Clone deep-copies every stream's properties.
func (p RuntimeProperties) Clone() RuntimeProperties {
	out := RuntimeProperties{Streams: make([]VideoStreamProperties, len(p.Streams))}
	for i, s := range p.Streams {
		out.Streams[i] = s.Clone()
	}
	return out
}
