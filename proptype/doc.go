// Package proptype defines the semantic configuration and frame-format types
// shared by every layer of the acquisition runtime: device identifiers,
// sample types, image shapes, storage dimensions, and the per-stream and
// per-runtime property records that flow through configure/start/stop.
//
// # Ownership
//
// The original C core distinguishes owned (heap-allocated, NUL-terminated)
// strings from borrowed views over caller memory, because it manages memory
// manually. In Go, String plays that role: it records whether a value was
// copied into the property record (Owned) or came in at an API boundary
// (Borrowed) and must be copied before it can be retained. Every
// property record that is persisted by the runtime stores only Owned
// strings; Borrowed is accepted solely at API boundaries and copied on
// ingestion via CopyString.
//
// # Frame header layout
//
// FrameHeader is fixed-size and always immediately followed by its pixel
// payload in the frame ring (see package ring). BytesOfFrame is the 8-byte
// aligned total size of header+payload; AlignUp computes that padding.
package proptype
