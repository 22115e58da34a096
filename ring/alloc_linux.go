//go:build linux

package ring

import (
	"fmt"

	"golang.org/x/sys/unix"
)

// allocRegion maps an anonymous, private region for the ring's backing
// store. mmap-backed regions are page aligned, which trivially satisfies
// the ring's 8-byte record alignment invariant and mirrors the
// memory-mapped buffer model the camera-facing code in this ecosystem
// uses for DMA'd frame buffers.
func allocRegion(capacity uint64) ([]byte, func(), error) {
	data, err := unix.Mmap(-1, 0, int(capacity), unix.PROT_READ|unix.PROT_WRITE, unix.MAP_ANON|unix.MAP_PRIVATE)
	if err != nil {
		return nil, nil, fmt.Errorf("mmap: %w", err)
	}
	unmap := func() {
		_ = unix.Munmap(data)
	}
	return data, unmap, nil
}
