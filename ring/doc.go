// Package ring implements the bounded, single-writer, multi-reader frame
// ring every acquisition pipeline stage shares: the producer writes
// variable-size records (a frame header plus its pixel payload), and up to
// two readers — the storage consumer, which gates the writer, and an
// optional, non-gating monitor tap — drain it independently.
//
// Every record starts at an 8-byte aligned offset and every amount a reader
// unmaps is a multiple of 8, so a reader can always resume parsing at a
// record boundary without re-deriving alignment from scratch. When a record
// would not fit before the physical end of the backing buffer, the ring
// writes a padding record to consume the remainder and starts the real
// record at offset zero — the "padding record crossing end-of-buffer"
// behavior SPEC_FULL.md §4.3 calls for.
//
// The writer never blocks: if the gating reader has not drained enough
// space, MapWrite reports ErrWouldDrop and the caller (package stream)
// counts and logs the drop instead of waiting. The non-gating monitor
// reader never causes a drop; if it falls behind, its cursor is silently
// rebased to the writer's current position the next time it is mapped (see
// Ring.MapRead and DESIGN.md's resolution of Open Question (a)).
package ring
