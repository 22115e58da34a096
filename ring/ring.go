package ring

import (
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/scopeacq/acquire/proptype"
)

var (
	// ErrWouldDrop is returned by MapWrite when the gating reader has not
	// drained enough space to reserve the requested record. The caller
	// (package stream) treats this as "drop the frame", never as a fatal
	// error.
	ErrWouldDrop = errors.New("ring: insufficient space, would drop")

	// ErrUnalignedUnmap is returned by UnmapRead when n is not a multiple
	// of 8.
	ErrUnalignedUnmap = errors.New("ring: unmap length must be a multiple of 8")

	// ErrTooLarge is returned by MapWrite when n exceeds what the ring can
	// ever hold, even empty.
	ErrTooLarge = errors.New("ring: record exceeds ring capacity")

	// ErrNoPendingWrite is returned by CommitWrite without a prior,
	// uncommitted MapWrite.
	ErrNoPendingWrite = errors.New("ring: commit without a pending map")
)

// ReaderID names one of the ring's up-to-two readers.
type ReaderID int

const (
	// ConsumerReader is the gating reader: the writer will not overwrite
	// bytes this reader has not yet unmapped.
	ConsumerReader ReaderID = 0
	// MonitorReader is the non-gating reader used for live inspection.
	MonitorReader ReaderID = 1
)

type readerState struct {
	pos    atomic.Uint64
	active bool
}

// Ring is a single-producer, multi-reader bounded ring of 8-byte-aligned,
// variable-size records.
type Ring struct {
	data     []byte
	capacity uint64
	unmap    func()

	writePos atomic.Uint64
	readers  [2]*readerState

	dropCount atomic.Uint64

	writeMu sync.Mutex
	pending *pendingWrite
}

type pendingWrite struct {
	padBefore      uint64 // bytes of tail padding written before this record
	recordPhysical uint64 // offset of this record's length prefix
	payloadStart   uint64 // offset of the payload (record prefix + this)
	reserved       int    // bytes offered to the caller by MapWrite
}

// New allocates a ring with the given capacity, which must already be a
// power-of-two multiple of the maximum aligned frame size the caller
// intends to write (package stream / runtime choose this at Configure
// time). On Linux the backing region is obtained via mmap to mirror the
// memory-mapped buffer model the teacher codebase uses for camera buffers;
// elsewhere it is a plain heap allocation (see alloc_linux.go /
// alloc_other.go).
func New(capacity uint64) (*Ring, error) {
	if capacity == 0 || capacity&(capacity-1) != 0 {
		return nil, fmt.Errorf("ring: capacity %d must be a power of two", capacity)
	}
	data, unmap, err := allocRegion(capacity)
	if err != nil {
		return nil, fmt.Errorf("ring: allocate region: %w", err)
	}
	r := &Ring{data: data, capacity: capacity, unmap: unmap}
	r.readers[ConsumerReader] = &readerState{active: true}
	r.readers[MonitorReader] = &readerState{active: false}
	return r, nil
}

// Close releases the ring's backing memory. The ring must be stopped and
// drained first; Close does not itself validate that.
func (r *Ring) Close() error {
	if r.unmap != nil {
		r.unmap()
	}
	return nil
}

// Capacity returns the ring's total byte capacity.
func (r *Ring) Capacity() uint64 { return r.capacity }

// DropCount returns the number of frames the writer has discarded for lack
// of space since the ring was created or last Reset.
func (r *Ring) DropCount() uint64 { return r.dropCount.Load() }

// ActivateMonitor resets the monitor reader's cursor to the writer's
// current position and marks it active. Until this is called, the monitor
// holds no resources and is not considered when computing available space
// (it never gates the writer in any case).
func (r *Ring) ActivateMonitor() {
	r.readers[MonitorReader].pos.Store(r.writePos.Load())
	r.readers[MonitorReader].active = true
}

// DeactivateMonitor marks the monitor inactive. Its cursor is left in place
// but ignored.
func (r *Ring) DeactivateMonitor() {
	r.readers[MonitorReader].active = false
}

// Reset rewinds every reader to the current write position and clears the
// drop counter. Callers must only call this when the ring is empty and
// stopped (no producer or consumer goroutine running), matching the
// "rewind only when empty and stopped" invariant.
func (r *Ring) Reset() {
	pos := r.writePos.Load()
	r.readers[ConsumerReader].pos.Store(pos)
	r.readers[MonitorReader].pos.Store(pos)
	r.dropCount.Store(0)
}

// gatingPos returns the consumer's logical read position, the only cursor
// the writer must respect.
func (r *Ring) gatingPos() uint64 {
	return r.readers[ConsumerReader].pos.Load()
}

// MapWrite reserves space for up to n bytes of record payload and returns a
// slice the caller may fill directly, along with the number of bytes
// actually usable (always n on success; a record that could never fit, even
// in an empty ring, fails with ErrTooLarge instead). The caller must follow with exactly one CommitWrite call before the next
// MapWrite.
func (r *Ring) MapWrite(n int) (buf []byte, nUsable int, err error) {
	r.writeMu.Lock()
	defer r.writeMu.Unlock()

	if r.pending != nil {
		return nil, 0, fmt.Errorf("ring: MapWrite called with an uncommitted write pending")
	}

	aligned := proptype.AlignUp(uint64(n), 8)
	fullRecord := recordPrefixSize + aligned
	if fullRecord > r.capacity {
		return nil, 0, ErrTooLarge
	}

	physical := r.writePos.Load() % r.capacity
	tail := r.capacity - physical

	var padBefore uint64
	var recordPhysical uint64
	if tail < fullRecord {
		padBefore = tail
		recordPhysical = 0
	} else {
		recordPhysical = physical
	}

	needed := padBefore + fullRecord
	free := r.capacity - (r.writePos.Load() - r.gatingPos())
	if needed > free {
		r.dropCount.Add(1)
		return nil, 0, ErrWouldDrop
	}

	payloadStart := recordPhysical + recordPrefixSize
	r.pending = &pendingWrite{
		padBefore:      padBefore,
		recordPhysical: recordPhysical,
		payloadStart:   payloadStart,
		reserved:       n,
	}
	return r.data[payloadStart : payloadStart+uint64(n)], n, nil
}

// CommitWrite publishes the record reserved by the prior MapWrite.
// nbytesWritten may be less than what MapWrite offered; the committed
// record's size is always 8-byte aligned. meta is currently unused by the
// ring itself (frame metadata lives in the caller's encoded header) and is
// accepted for interface symmetry with the language-neutral spec.
func (r *Ring) CommitWrite(nbytesWritten int, meta any) error {
	r.writeMu.Lock()
	defer r.writeMu.Unlock()

	p := r.pending
	if p == nil {
		return ErrNoPendingWrite
	}
	r.pending = nil

	if nbytesWritten < 0 || nbytesWritten > p.reserved {
		return fmt.Errorf("ring: committed %d bytes exceeds reservation of %d", nbytesWritten, p.reserved)
	}

	if p.padBefore > 0 {
		tailOffset := (r.writePos.Load() % r.capacity)
		putRecordPrefix(r.data[tailOffset:], p.padBefore, true)
	}

	aligned := proptype.AlignUp(uint64(nbytesWritten), 8)
	total := recordPrefixSize + aligned
	putRecordPrefix(r.data[p.recordPhysical:], total, false)
	// zero the alignment pad between the payload and the next record so a
	// reader never sees stale bytes.
	for i := uint64(nbytesWritten); i < aligned; i++ {
		r.data[p.payloadStart+i] = 0
	}

	r.writePos.Add(p.padBefore + total)
	return nil
}

// MapRead returns the contiguous, currently readable slice for readerID,
// from its cursor up to either the writer's position or the physical end
// of the backing buffer, whichever comes first. An empty slice means
// "nothing to read right now".
func (r *Ring) MapRead(readerID ReaderID) ([]byte, error) {
	rs, err := r.readerFor(readerID)
	if err != nil {
		return nil, err
	}

	writePos := r.writePos.Load()
	pos := rs.pos.Load()
	if readerID == MonitorReader && writePos-pos > r.capacity {
		// The monitor fell behind far enough that its cursor now points
		// at data the writer has already overwritten. Rebase to the
		// writer's current position: the monitor is non-gating and never
		// forces a drop, but it also never blocks reading stale bytes.
		pos = writePos
		rs.pos.Store(pos)
	}

	readable := writePos - pos
	if readable == 0 {
		return nil, nil
	}
	physical := pos % r.capacity
	tail := r.capacity - physical
	n := readable
	if n > tail {
		n = tail
	}
	return r.data[physical : physical+n], nil
}

// UnmapRead advances readerID's cursor by n bytes, which must be a multiple
// of 8.
func (r *Ring) UnmapRead(readerID ReaderID, n int) error {
	if n < 0 || n%8 != 0 {
		return ErrUnalignedUnmap
	}
	rs, err := r.readerFor(readerID)
	if err != nil {
		return err
	}
	rs.pos.Add(uint64(n))
	return nil
}

func (r *Ring) readerFor(readerID ReaderID) (*readerState, error) {
	if readerID != ConsumerReader && readerID != MonitorReader {
		return nil, fmt.Errorf("ring: unknown reader id %d", readerID)
	}
	return r.readers[readerID], nil
}

// NextRecord parses one record prefix at the start of slice, returning the
// record's payload (excluding the ring's own length prefix and its
// alignment pad), whether it was a padding record, and the total physical
// bytes it occupies (always a multiple of 8, suitable for summing into an
// UnmapRead call). It returns ok=false if slice is too short to contain a
// full prefix, meaning the caller should stop walking and unmap what it has
// consumed so far.
func NextRecord(slice []byte) (payload []byte, isPad bool, totalLen uint64, ok bool) {
	if len(slice) < recordPrefixSize {
		return nil, false, 0, false
	}
	total, pad := readRecordPrefix(slice)
	if uint64(len(slice)) < total {
		return nil, false, 0, false
	}
	if pad {
		return nil, true, total, true
	}
	return slice[recordPrefixSize:total], false, total, true
}
