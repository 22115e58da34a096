package stream

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/scopeacq/acquire/acqlog"
	"github.com/scopeacq/acquire/device"
	"github.com/scopeacq/acquire/proptype"
	"github.com/scopeacq/acquire/ring"
)

// pollInterval is how long the producer waits between GetFrame retries after
// device.ErrAgain, and the upper bound the consumer blocks for when the ring
// is momentarily empty.
const pollInterval = 2 * time.Millisecond

// stopGraceTimeout bounds how long Stop waits for the producer to reach its
// target frame count (or otherwise notice the polite stop request) before
// escalating to a forced cancellation, matching SPEC_FULL.md §5's "escalates
// from a polite stop to forced teardown if exceeded".
const stopGraceTimeout = 5 * time.Second

// Pipeline drives one stream's producer and consumer goroutines across a
// shared ring.Ring, from a configured camera to a configured storage sink.
// A single Pipeline is reused across repeated Start/Stop cycles (Armed ->
// Running -> Armed), never recreated per run.
type Pipeline struct {
	streamID int
	ring     *ring.Ring
	camera   device.Camera
	storage  device.Storage
	logger   *acqlog.Logger
	shape    proptype.ImageShape

	maxFrameCount uint64

	mu      sync.Mutex // guards the fields below across Start/Stop/Abort
	running bool
	cancel  context.CancelFunc
	wg      sync.WaitGroup

	stopRequested atomic.Bool
	producerDone  chan struct{}

	frameID   atomic.Uint64
	committed atomic.Uint64

	errMu   sync.Mutex
	lastErr error
}

// New builds a Pipeline bound to a ring, camera and storage sink already
// configured for shape. maxFrameCount is the frame_count property; zero
// means "run until stopped".
func New(streamID int, r *ring.Ring, cam device.Camera, st device.Storage, shape proptype.ImageShape, maxFrameCount uint64, logger *acqlog.Logger) *Pipeline {
	return &Pipeline{
		streamID:      streamID,
		ring:          r,
		camera:        cam,
		storage:       st,
		shape:         shape,
		maxFrameCount: maxFrameCount,
		logger:        logger.With(),
	}
}

// Start spawns the producer and consumer goroutines. It is an error to call
// Start while already running.
func (p *Pipeline) Start() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.running {
		return ErrAlreadyRunning
	}

	ctx, cancel := context.WithCancel(context.Background())
	p.cancel = cancel
	p.running = true
	p.stopRequested.Store(false)
	p.setErr(nil)
	p.producerDone = make(chan struct{})
	// frame_id restarts at zero for each acquisition (SPEC_FULL.md §5), and
	// committed must restart at zero too or a bounded-count run that already
	// reached maxFrameCount would make the next Start's producer terminate
	// immediately without committing a single frame.
	p.frameID.Store(0)
	p.committed.Store(0)
	// Rewind the consumer and monitor cursors to the writer's position (this
	// also clears the drop counter), so no reader sees records from an
	// earlier run.
	p.ring.Reset()

	p.wg.Add(2)
	go p.runProducer(ctx)
	go p.runConsumer(ctx)
	return nil
}

// Stop lets a bounded run (maxFrameCount > 0) reach its target count and
// asks the producer of an unbounded run to stop requesting new frames; it
// then waits for the ring to drain through the consumer and joins both
// goroutines. If they have not finished within stopGraceTimeout, Stop
// escalates to a forced cancellation so it can never hang forever.
func (p *Pipeline) Stop() error {
	p.mu.Lock()
	if !p.running {
		p.mu.Unlock()
		return nil
	}
	cancel := p.cancel
	p.mu.Unlock()

	if p.maxFrameCount == 0 {
		p.stopRequested.Store(true)
	}

	done := make(chan struct{})
	go func() {
		p.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(stopGraceTimeout):
		cancel()
		<-done
	}

	p.mu.Lock()
	p.running = false
	p.mu.Unlock()
	return p.LastError()
}

// Abort cancels both goroutines immediately, joins them, and resets the ring
// to empty, discarding any buffered-but-unconsumed frames. Frames already
// handed to the storage sink's Append are not undone.
func (p *Pipeline) Abort() error {
	p.mu.Lock()
	if !p.running {
		p.mu.Unlock()
		return nil
	}
	cancel := p.cancel
	p.mu.Unlock()

	cancel()
	p.wg.Wait()
	p.ring.Reset()

	p.mu.Lock()
	p.running = false
	p.mu.Unlock()
	return p.LastError()
}

// LastError returns the error, if any, that caused the producer or consumer
// to terminate early (distinct from a clean Stop/Abort).
func (p *Pipeline) LastError() error {
	p.errMu.Lock()
	defer p.errMu.Unlock()
	return p.lastErr
}

func (p *Pipeline) setErr(err error) {
	p.errMu.Lock()
	defer p.errMu.Unlock()
	if err != nil && p.lastErr == nil {
		p.lastErr = err
	}
	if err == nil {
		p.lastErr = nil
	}
}

func (p *Pipeline) fail(err error) {
	p.setErr(fmt.Errorf("stream %d: %w", p.streamID, err))
}

// FramesCommitted reports how many frames the producer has written to the
// ring so far in the current run.
func (p *Pipeline) FramesCommitted() uint64 { return p.committed.Load() }
