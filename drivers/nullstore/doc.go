// Package nullstore registers the built-in "trash" storage device: it
// accepts any configuration, discards every appended frame, and touches no
// filesystem state. It is package reconcile's default storage selection
// when a stream specifies a camera but no storage, and the standard choice
// for benchmarks that want to measure acquisition without disk I/O in the
// loop.
package nullstore
