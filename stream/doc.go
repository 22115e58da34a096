// Package stream implements the per-stream acquisition pipeline: a
// producer goroutine that pulls frames from a camera into a ring.Ring, a
// consumer goroutine that drains the ring into a storage sink, and an
// optional monitor tap the host drives from its own goroutine to inspect
// live frames without interfering with storage.
//
// Pipeline owns exactly one producer and one consumer goroutine for its
// lifetime between Start and Stop/Abort; both are joined before either call
// returns, and the camera is never asked for another frame after Stop/Abort
// until the next Start.
package stream
