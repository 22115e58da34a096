// Package device defines the hardware-abstraction-layer contract every
// camera and storage implementation plugs into: the Camera and Storage
// capability interfaces, the shared device state machine, the Driver
// interface a plugin exposes, and the Manager that enumerates every
// registered driver's devices into one flat, selectable table.
//
// # Registering a driver
//
// Concrete drivers are built-in and self-register from an init() func:
//
//	func init() {
//	    device.RegisterDriver(&myDriver{})
//	}
//
// The Manager built by device.NewManager walks every registered Driver,
// enumerates its devices, and builds a single table that Select queries
// against. This mirrors the original's dynamic-library loading contract
// (one exported factory per plugin) using Go's static-registry idiom
// instead, per SPEC_FULL.md §4.2 and §9.
//
// # State machine
//
// Every opened Device, whether Camera or Storage, moves through the same
// states: AwaitingConfiguration, Armed, Running, and Closed. A failed Set
// call sends the device back to AwaitingConfiguration from any state —
// "validation failed; properties must be fixed before retrying".
package device
