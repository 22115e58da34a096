// Package rawstore registers the built-in "raw" storage device: it appends
// every frame (the stream package's wire format, FrameHeader followed by
// its pixel payload, already 8-byte aligned) verbatim to a single file at
// the configured URI. The on-disk contract is exactly a concatenation of
// these records (the ring's own length prefix is not written), so an
// offline reader walks the file by each header's BytesOfFrame.
package rawstore
