package stream

import (
	"github.com/scopeacq/acquire/ring"
)

// EnableMonitor activates the ring's non-gating monitor reader. Must be
// called before the first MapMonitor; safe to call whether or not the
// pipeline is currently running.
func (p *Pipeline) EnableMonitor() {
	p.ring.ActivateMonitor()
}

// DisableMonitor deactivates the monitor reader. Its cursor is left in
// place but ignored until EnableMonitor is called again.
func (p *Pipeline) DisableMonitor() {
	p.ring.DeactivateMonitor()
}

// MapMonitor returns the currently readable slice for the monitor tap. The
// caller (driving its own goroutine, independent of the producer/consumer
// pair) walks it with ring.NextRecord and must follow with exactly one
// UnmapMonitor call covering the bytes it consumed, mirroring MapRead/
// UnmapRead's contract. An empty slice means nothing is available yet.
func (p *Pipeline) MapMonitor() ([]byte, error) {
	return p.ring.MapRead(ring.MonitorReader)
}

// UnmapMonitor advances the monitor cursor by n bytes, which must be a
// multiple of 8.
func (p *Pipeline) UnmapMonitor(n int) error {
	return p.ring.UnmapRead(ring.MonitorReader, n)
}
