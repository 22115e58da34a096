// Package runtime implements the acquisition controller: the top-level
// state machine (Uninit -> Idle -> Configured -> Armed -> Running -> Armed
// -> (Configured|Idle) -> Uninit) that owns the device.Manager and one
// stream.Pipeline per configured stream, and the synchronous entry points
// (Init/Configure/Start/Stop/Abort/Shutdown) the host calls to drive it.
package runtime
