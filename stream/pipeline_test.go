package stream

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/scopeacq/acquire/acqlog"
	"github.com/scopeacq/acquire/device"
	"github.com/scopeacq/acquire/proptype"
	"github.com/scopeacq/acquire/ring"
)

// fakeCamera yields frames of a fixed shape as fast as asked, up to a
// configurable limit, then returns device.ErrAgain forever.
type fakeCamera struct {
	shape   proptype.ImageShape
	emitted atomic.Uint64
	limit   uint64
}

func (c *fakeCamera) Set(proptype.CameraProperties) (device.State, error) { return device.Armed, nil }
func (c *fakeCamera) Get() (proptype.CameraProperties, error)             { return proptype.CameraProperties{}, nil }
func (c *fakeCamera) GetMeta() (device.CameraMetadata, error)             { return device.CameraMetadata{}, nil }
func (c *fakeCamera) GetShape() (proptype.ImageShape, error)              { return c.shape, nil }
func (c *fakeCamera) Start() (device.State, error)                       { return device.Running, nil }
func (c *fakeCamera) Stop() (device.State, error)                        { return device.Armed, nil }
func (c *fakeCamera) ExecuteTrigger() error                              { return nil }

func (c *fakeCamera) GetFrame(buf []byte) (int, proptype.FrameInfo, error) {
	if c.limit > 0 && c.emitted.Load() >= c.limit {
		return 0, proptype.FrameInfo{}, device.ErrAgain
	}
	n, _ := proptype.BytesOfImage(c.shape)
	for i := range buf[:n] {
		buf[i] = byte(i)
	}
	c.emitted.Add(1)
	return n, proptype.FrameInfo{Shape: c.shape, TimestampHWUs: c.emitted.Load()}, nil
}

// fakeStorage records every payload handed to Append.
type fakeStorage struct {
	mu      sync.Mutex
	appends [][]byte
	reject  bool
}

func (s *fakeStorage) Set(proptype.StorageProperties) (device.State, error) { return device.Armed, nil }
func (s *fakeStorage) Get() (proptype.StorageProperties, error)             { return proptype.StorageProperties{}, nil }
func (s *fakeStorage) GetMeta() (device.StorageMetadata, error)             { return device.StorageMetadata{}, nil }
func (s *fakeStorage) Start() (device.State, error)                        { return device.Running, nil }
func (s *fakeStorage) Stop() (device.State, error)                         { return device.Armed, nil }
func (s *fakeStorage) ReserveImageShape(proptype.ImageShape) error         { return nil }
func (s *fakeStorage) Close() error                                        { return nil }

func (s *fakeStorage) Append(frame []byte) (int, device.State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.reject {
		return 0, device.AwaitingConfiguration, nil
	}
	cp := make([]byte, len(frame))
	copy(cp, frame)
	s.appends = append(s.appends, cp)
	return len(frame), device.Running, nil
}

func (s *fakeStorage) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.appends)
}

func testLogger(t *testing.T) *acqlog.Logger {
	t.Helper()
	l, err := acqlog.New(false, nil)
	if err != nil {
		t.Fatalf("acqlog.New: %v", err)
	}
	return l
}

func TestPipelineRunsToFrameCount(t *testing.T) {
	shape := proptype.NewImageShape(8, 8, proptype.U8)
	frameBytes, _ := proptype.BytesOfImage(shape)
	recSize := int(proptype.AlignUp(uint64(proptype.HeaderSize+frameBytes), 8))
	r, err := ring.New(uint64(nextPow2(recSize * 4)))
	if err != nil {
		t.Fatalf("ring.New: %v", err)
	}
	defer r.Close()

	cam := &fakeCamera{shape: shape}
	st := &fakeStorage{}
	p := New(1, r, cam, st, shape, 5, testLogger(t))

	if err := p.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}

	deadline := time.After(2 * time.Second)
	for st.count() < 5 {
		select {
		case <-deadline:
			t.Fatalf("timed out waiting for 5 appends, got %d", st.count())
		case <-time.After(time.Millisecond):
		}
	}

	if err := p.Stop(); err != nil {
		t.Fatalf("Stop: %v", err)
	}
	if got := st.count(); got != 5 {
		t.Fatalf("append count = %d, want 5", got)
	}
}

func TestPipelineStopIsIdempotent(t *testing.T) {
	shape := proptype.NewImageShape(4, 4, proptype.U8)
	frameBytes, _ := proptype.BytesOfImage(shape)
	recSize := int(proptype.AlignUp(uint64(proptype.HeaderSize+frameBytes), 8))
	r, err := ring.New(uint64(nextPow2(recSize * 4)))
	if err != nil {
		t.Fatalf("ring.New: %v", err)
	}
	defer r.Close()

	cam := &fakeCamera{shape: shape, limit: 2}
	st := &fakeStorage{}
	p := New(2, r, cam, st, shape, 0, testLogger(t))

	if err := p.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}
	time.Sleep(20 * time.Millisecond)
	if err := p.Stop(); err != nil {
		t.Fatalf("Stop: %v", err)
	}
	if err := p.Stop(); err != nil {
		t.Fatalf("second Stop: %v", err)
	}
}

func TestPipelineAbortDiscardsBufferedFrames(t *testing.T) {
	shape := proptype.NewImageShape(4, 4, proptype.U8)
	frameBytes, _ := proptype.BytesOfImage(shape)
	recSize := int(proptype.AlignUp(uint64(proptype.HeaderSize+frameBytes), 8))
	r, err := ring.New(uint64(nextPow2(recSize * 8)))
	if err != nil {
		t.Fatalf("ring.New: %v", err)
	}
	defer r.Close()

	cam := &fakeCamera{shape: shape}
	st := &fakeStorage{}
	p := New(3, r, cam, st, shape, 0, testLogger(t))

	if err := p.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}
	time.Sleep(10 * time.Millisecond)
	if err := p.Abort(); err != nil {
		t.Fatalf("Abort: %v", err)
	}
	if r.Capacity() == 0 {
		t.Fatal("ring should still be usable after Abort")
	}
	if slice, err := r.MapRead(ring.ConsumerReader); err != nil || len(slice) != 0 {
		t.Fatalf("ring holds %d unread bytes after Abort (err %v), want none", len(slice), err)
	}
}

func TestPipelineTerminatesOnStorageRejection(t *testing.T) {
	shape := proptype.NewImageShape(4, 4, proptype.U8)
	frameBytes, _ := proptype.BytesOfImage(shape)
	recSize := int(proptype.AlignUp(uint64(proptype.HeaderSize+frameBytes), 8))
	r, err := ring.New(uint64(nextPow2(recSize * 4)))
	if err != nil {
		t.Fatalf("ring.New: %v", err)
	}
	defer r.Close()

	cam := &fakeCamera{shape: shape}
	st := &fakeStorage{reject: true}
	p := New(4, r, cam, st, shape, 0, testLogger(t))

	if err := p.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}

	deadline := time.After(2 * time.Second)
	for p.LastError() == nil {
		select {
		case <-deadline:
			t.Fatal("timed out waiting for pipeline to fail on storage rejection")
		case <-time.After(time.Millisecond):
		}
	}
	_ = p.Abort()
}

func nextPow2(n int) int {
	p := 1
	for p < n {
		p *= 2
	}
	return p
}
