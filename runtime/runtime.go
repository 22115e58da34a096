package runtime

import (
	"errors"
	"fmt"
	"strconv"
	"sync"

	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/scopeacq/acquire/acqlog"
	"github.com/scopeacq/acquire/acqmetrics"
	"github.com/scopeacq/acquire/device"
	"github.com/scopeacq/acquire/proptype"
	"github.com/scopeacq/acquire/reconcile"
	"github.com/scopeacq/acquire/ring"
	"github.com/scopeacq/acquire/stream"
)

// minQueueDepth is the minimum number of aligned frames the ring is sized to
// hold, so a momentarily slow consumer does not immediately start dropping.
const minQueueDepth = 4

// slot holds one stream's live state across Configure/Start/Stop cycles. A
// slot with a nil pipeline is an inactive stream (both device identifiers
// were None at Configure time).
type slot struct {
	requested proptype.VideoStreamProperties
	resolved  reconcile.Resolved
	ring      *ring.Ring
	pipeline  *stream.Pipeline
}

func (s *slot) active() bool { return s.pipeline != nil }

// Runtime is the acquisition controller: it owns the device manager and one
// pipeline per stream, and drives the global state machine described in
// package doc.go.
type Runtime struct {
	logger *acqlog.Logger

	mu    sync.Mutex
	state State
	mgr   *device.Manager
	slots []*slot
}

// New builds a Runtime in the Uninit state. logger must not be nil.
func New(logger *acqlog.Logger) *Runtime {
	return &Runtime{logger: logger, state: Uninit}
}

// State reports the controller's current global state.
func (rt *Runtime) State() State {
	rt.mu.Lock()
	defer rt.mu.Unlock()
	return rt.state
}

// Init builds the device manager (enumerating every driver registered via
// device.RegisterDriver) and allocates streamCount stream slots, moving
// Uninit -> Idle.
func (rt *Runtime) Init(streamCount int) error {
	rt.mu.Lock()
	defer rt.mu.Unlock()
	if rt.state != Uninit {
		return fmt.Errorf("runtime: Init: %w", ErrInvalidTransition)
	}
	if _, err := proptype.NewRuntimeProperties(streamCount); err != nil {
		return fmt.Errorf("runtime: Init: %w", err)
	}

	mgr, err := device.NewManager()
	if err != nil {
		return fmt.Errorf("runtime: Init: build device manager: %w", err)
	}

	slots := make([]*slot, streamCount)
	for i := range slots {
		slots[i] = &slot{}
	}

	rt.mgr = mgr
	rt.slots = slots
	rt.state = Idle
	rt.logger.Info("runtime initialized", zap.Int("streams", streamCount))
	return nil
}

// Configure reconciles and applies p's requested properties against the
// device manager, replacing any previously configured devices, and mutates
// *p in place with the applied values on success. Valid from Idle,
// Configured, or Armed; an error from Running. On any per-stream failure,
// every stream already reconfigured in this call is released, *p is left
// untouched, and the controller's state, including every previously
// configured device, is left unchanged.
//
// A stream whose resolved camera (or storage) identifier is unchanged from
// the previous Configure keeps that device open and merely re-applies its
// properties: Configure never destroys a device whose identifier a caller
// did not ask to change, even though every stream gets a fresh ring and
// pipeline.
func (rt *Runtime) Configure(p *proptype.RuntimeProperties) error {
	rt.mu.Lock()
	defer rt.mu.Unlock()

	requested := *p
	if rt.state == Uninit || rt.state == Running {
		return fmt.Errorf("runtime: Configure: %w", ErrInvalidTransition)
	}
	if err := requested.Validate(); err != nil {
		return err
	}
	if len(requested.Streams) != len(rt.slots) {
		return fmt.Errorf("runtime: Configure: requested %d streams, runtime was initialized with %d", len(requested.Streams), len(rt.slots))
	}

	applied, err := proptype.NewRuntimeProperties(len(requested.Streams))
	if err != nil {
		return err
	}

	oldSlots := rt.slots
	newSlots := make([]*slot, len(requested.Streams))
	for i, want := range requested.Streams {
		var previous reconcile.Resolved
		if oldSlots[i].active() {
			previous = oldSlots[i].resolved
		}

		s := &slot{requested: want}
		resolved, err := reconcile.Configure(rt.mgr, want, previous)
		switch {
		case errors.Is(err, reconcile.ErrStreamInactive):
			applied.Streams[i] = want
			newSlots[i] = s
			continue
		case err != nil:
			rt.rollback(newSlots[:i])
			return fmt.Errorf("runtime: Configure stream %d: %w", i, err)
		}

		frameBytes, err := proptype.BytesOfImage(resolved.Metadata.Shape)
		if err != nil {
			_ = releaseStale(rt.mgr, resolved)
			rt.rollback(newSlots[:i])
			return fmt.Errorf("runtime: Configure stream %d: %w", i, err)
		}
		recordSize := int(proptype.AlignUp(uint64(proptype.HeaderSize+frameBytes), 8))
		r, err := ring.New(ringCapacityFor(recordSize))
		if err != nil {
			_ = releaseStale(rt.mgr, resolved)
			rt.rollback(newSlots[:i])
			return fmt.Errorf("runtime: Configure stream %d: allocate ring: %w", i, err)
		}

		s.resolved = resolved
		s.ring = r
		s.pipeline = stream.New(i, r, resolved.Camera.Camera, resolved.Storage.Storage, resolved.Metadata.Shape, want.MaxFrameCount, rt.logger)
		newSlots[i] = s
		applied.Streams[i] = resolved.Applied
		acqmetrics.StreamState.WithLabelValues(strconv.Itoa(i)).Set(float64(Configured))
	}

	// Every stream reconciled successfully: only now release what the
	// previous configuration held that the new one did not reuse, and close
	// the superseded rings. Doing this after the loop, rather than up front,
	// keeps a failed Configure from touching devices the (unchanged) old
	// configuration still depends on.
	for i, old := range oldSlots {
		if !old.active() {
			continue
		}
		stale := old.resolved
		if newSlots[i].active() {
			stale.CameraReused = newSlots[i].resolved.CameraReused
			stale.StorageReused = newSlots[i].resolved.StorageReused
		}
		if err := releaseStale(rt.mgr, stale); err != nil {
			rt.logger.Warn("runtime: Configure: releasing superseded devices", zap.Int("stream", i), zap.Error(err))
		}
		if err := old.ring.Close(); err != nil {
			rt.logger.Warn("runtime: Configure: closing superseded ring", zap.Int("stream", i), zap.Error(err))
		}
	}

	rt.slots = newSlots
	rt.state = Configured
	*p = applied
	return nil
}

// releaseStale releases resolved's device instances except any marked
// reused: those are the same live instance the new configuration now relies
// on (or still relies on, for a rolled-back attempt), and must not be
// closed. See reconcile.Resolved.CameraReused/StorageReused.
func releaseStale(mgr *device.Manager, resolved reconcile.Resolved) error {
	if resolved.CameraReused {
		resolved.Camera = device.Instance{}
	}
	if resolved.StorageReused {
		resolved.Storage = device.Instance{}
	}
	return reconcile.Release(mgr, resolved)
}

// Start transitions every active stream's devices Armed->Running and spawns
// their producer/consumer goroutines. Valid from Configured or Armed.
func (rt *Runtime) Start() error {
	rt.mu.Lock()
	defer rt.mu.Unlock()
	if rt.state != Configured && rt.state != Armed {
		return fmt.Errorf("runtime: Start: %w", ErrInvalidTransition)
	}

	for i, s := range rt.slots {
		if !s.active() {
			continue
		}
		if _, err := s.resolved.Storage.Storage.Start(); err != nil {
			rt.stopStartedLocked(rt.slots[:i])
			return fmt.Errorf("runtime: Start stream %d: start storage: %w", i, err)
		}
		if _, err := s.resolved.Camera.Camera.Start(); err != nil {
			_, _ = s.resolved.Storage.Storage.Stop()
			rt.stopStartedLocked(rt.slots[:i])
			return fmt.Errorf("runtime: Start stream %d: start camera: %w", i, err)
		}
		if err := s.pipeline.Start(); err != nil {
			_, _ = s.resolved.Camera.Camera.Stop()
			_, _ = s.resolved.Storage.Storage.Stop()
			rt.stopStartedLocked(rt.slots[:i])
			return fmt.Errorf("runtime: Start stream %d: %w", i, err)
		}
		acqmetrics.StreamState.WithLabelValues(strconv.Itoa(i)).Set(float64(Running))
	}

	rt.state = Running
	return nil
}

// Stop gracefully drains every active stream's ring and stops its devices,
// transitioning Running -> Armed. A no-op when not Running.
func (rt *Runtime) Stop() error {
	rt.mu.Lock()
	defer rt.mu.Unlock()
	if rt.state != Running {
		return nil
	}

	var errs error
	for i, s := range rt.slots {
		if !s.active() {
			continue
		}
		if err := s.pipeline.Stop(); err != nil {
			errs = multierr.Append(errs, fmt.Errorf("stream %d: %w", i, err))
		}
		if _, err := s.resolved.Camera.Camera.Stop(); err != nil {
			errs = multierr.Append(errs, fmt.Errorf("stream %d: stop camera: %w", i, err))
		}
		if _, err := s.resolved.Storage.Storage.Stop(); err != nil {
			errs = multierr.Append(errs, fmt.Errorf("stream %d: stop storage: %w", i, err))
		}
		acqmetrics.StreamState.WithLabelValues(strconv.Itoa(i)).Set(float64(Armed))
	}

	rt.state = Armed
	return errs
}

// Abort forcibly cancels every active stream, discarding buffered frames,
// then stops devices the same as Stop. Transitions Running -> Armed.
func (rt *Runtime) Abort() error {
	rt.mu.Lock()
	defer rt.mu.Unlock()
	if rt.state != Running {
		return nil
	}

	var errs error
	for i, s := range rt.slots {
		if !s.active() {
			continue
		}
		if err := s.pipeline.Abort(); err != nil {
			errs = multierr.Append(errs, fmt.Errorf("stream %d: %w", i, err))
		}
		if _, err := s.resolved.Camera.Camera.Stop(); err != nil {
			errs = multierr.Append(errs, fmt.Errorf("stream %d: stop camera: %w", i, err))
		}
		if _, err := s.resolved.Storage.Storage.Stop(); err != nil {
			errs = multierr.Append(errs, fmt.Errorf("stream %d: stop storage: %w", i, err))
		}
		acqmetrics.StreamState.WithLabelValues(strconv.Itoa(i)).Set(float64(Armed))
	}

	rt.state = Armed
	return errs
}

// Shutdown aborts if running, releases every device, and returns the
// controller to Uninit. Individual stream teardown failures are aggregated
// with multierr rather than short-circuiting the rest of the teardown.
func (rt *Runtime) Shutdown() error {
	rt.mu.Lock()
	defer rt.mu.Unlock()

	var errs error
	if rt.state == Running {
		for i, s := range rt.slots {
			if !s.active() {
				continue
			}
			if err := s.pipeline.Abort(); err != nil {
				errs = multierr.Append(errs, fmt.Errorf("stream %d: %w", i, err))
			}
			_, _ = s.resolved.Camera.Camera.Stop()
			_, _ = s.resolved.Storage.Storage.Stop()
		}
	}

	errs = multierr.Append(errs, rt.teardownDevicesLocked())

	rt.mgr = nil
	rt.slots = nil
	rt.state = Uninit
	rt.logger.Info("runtime shut down")
	return errs
}

// GetConfiguration reports the RuntimeProperties last applied by Configure,
// one VideoStreamProperties per slot (zero value for an inactive stream).
// Valid in any state other than Uninit.
func (rt *Runtime) GetConfiguration() (proptype.RuntimeProperties, error) {
	rt.mu.Lock()
	defer rt.mu.Unlock()
	if rt.state == Uninit {
		return proptype.RuntimeProperties{}, fmt.Errorf("runtime: GetConfiguration: %w", ErrInvalidTransition)
	}
	out, err := proptype.NewRuntimeProperties(len(rt.slots))
	if err != nil {
		return proptype.RuntimeProperties{}, err
	}
	for i, s := range rt.slots {
		if s.active() {
			out.Streams[i] = s.resolved.Applied
		} else {
			out.Streams[i] = s.requested
		}
	}
	return out, nil
}

// GetConfigurationMetadata reports what each active stream's devices
// actually resolved to: device identifiers, capability metadata, and the
// negotiated image shape. An inactive slot reports the zero
// reconcile.PropertyMetadata.
func (rt *Runtime) GetConfigurationMetadata() ([]reconcile.PropertyMetadata, error) {
	rt.mu.Lock()
	defer rt.mu.Unlock()
	if rt.state == Uninit {
		return nil, fmt.Errorf("runtime: GetConfigurationMetadata: %w", ErrInvalidTransition)
	}
	out := make([]reconcile.PropertyMetadata, len(rt.slots))
	for i, s := range rt.slots {
		if s.active() {
			out[i] = s.resolved.Metadata
		}
	}
	return out, nil
}

// ExecuteTrigger issues a software trigger to streamID's camera, for
// cameras configured with a software input trigger. Valid only while the
// stream is active.
func (rt *Runtime) ExecuteTrigger(streamID int) error {
	rt.mu.Lock()
	s, err := rt.slotLocked(streamID)
	rt.mu.Unlock()
	if err != nil {
		return err
	}
	return s.resolved.Camera.Camera.ExecuteTrigger()
}

// LastStreamError reports the error, if any, that most recently terminated
// streamID's pipeline (e.g. a non-Running Append result).
func (rt *Runtime) LastStreamError(streamID int) error {
	rt.mu.Lock()
	defer rt.mu.Unlock()
	if streamID < 0 || streamID >= len(rt.slots) {
		return ErrUnknownStream
	}
	s := rt.slots[streamID]
	if !s.active() {
		return nil
	}
	return s.pipeline.LastError()
}

// MapMonitor/UnmapMonitor expose streamID's monitor tap to the caller's own
// goroutine.
func (rt *Runtime) MapMonitor(streamID int) ([]byte, error) {
	rt.mu.Lock()
	s, err := rt.slotLocked(streamID)
	rt.mu.Unlock()
	if err != nil {
		return nil, err
	}
	return s.pipeline.MapMonitor()
}

func (rt *Runtime) UnmapMonitor(streamID int, n int) error {
	rt.mu.Lock()
	s, err := rt.slotLocked(streamID)
	rt.mu.Unlock()
	if err != nil {
		return err
	}
	return s.pipeline.UnmapMonitor(n)
}

func (rt *Runtime) slotLocked(streamID int) (*slot, error) {
	if streamID < 0 || streamID >= len(rt.slots) {
		return nil, ErrUnknownStream
	}
	s := rt.slots[streamID]
	if !s.active() {
		return nil, fmt.Errorf("runtime: stream %d is not active", streamID)
	}
	return s, nil
}

// teardownDevicesLocked releases every currently resolved stream's devices
// and closes its ring. Called with rt.mu held.
func (rt *Runtime) teardownDevicesLocked() error {
	var errs error
	for i, s := range rt.slots {
		if s == nil || !s.active() {
			continue
		}
		if err := reconcile.Release(rt.mgr, s.resolved); err != nil {
			errs = multierr.Append(errs, fmt.Errorf("stream %d: %w", i, err))
		}
		if err := s.ring.Close(); err != nil {
			errs = multierr.Append(errs, fmt.Errorf("stream %d: close ring: %w", i, err))
		}
	}
	return errs
}

// rollback releases every slot in partial that had already been opened
// during a Configure call that subsequently failed. It uses releaseStale
// rather than a plain reconcile.Release because a partial slot may have
// reused a device instance that still belongs to the untouched, still-
// current configuration (rt.slots, which Configure never swapped in).
func (rt *Runtime) rollback(partial []*slot) {
	for _, s := range partial {
		if s == nil || !s.active() {
			continue
		}
		_ = releaseStale(rt.mgr, s.resolved)
		_ = s.ring.Close()
	}
}

// stopStartedLocked stops devices and joins pipelines for every slot in
// started, used to unwind a partially successful Start call.
func (rt *Runtime) stopStartedLocked(started []*slot) {
	for _, s := range started {
		if !s.active() {
			continue
		}
		_ = s.pipeline.Stop()
		_, _ = s.resolved.Camera.Camera.Stop()
		_, _ = s.resolved.Storage.Storage.Stop()
	}
}

// ringCapacityFor returns the smallest power of two at least
// minQueueDepth*recordSize, the ring capacity a stream's pipeline is given.
func ringCapacityFor(recordSize int) uint64 {
	need := uint64(recordSize) * minQueueDepth
	capacity := uint64(1)
	for capacity < need {
		capacity <<= 1
	}
	return capacity
}
