package tiffstore

import (
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"

	"github.com/scopeacq/acquire/proptype"
)

func encodeTestFrame(t *testing.T, shape proptype.ImageShape, streamID uint32, frameID uint64) []byte {
	t.Helper()
	n, err := proptype.BytesOfImage(shape)
	if err != nil {
		t.Fatalf("BytesOfImage: %v", err)
	}
	buf := make([]byte, proptype.HeaderSize+n)
	if err := proptype.EncodeHeader(buf, proptype.FrameHeader{
		BytesOfFrame: uint64(len(buf)),
		Shape:        shape,
		StreamID:     streamID,
		FrameID:      frameID,
	}); err != nil {
		t.Fatalf("EncodeHeader: %v", err)
	}
	for i := proptype.HeaderSize; i < len(buf); i++ {
		buf[i] = byte(i)
	}
	return buf
}

func TestStoreWritesValidBigTIFFHeader(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out.tif")

	s := newStore()
	if _, err := s.Set(proptype.StorageProperties{URI: proptype.NewOwnedString(path)}); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if _, err := s.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}

	shape := proptype.NewImageShape(4, 4, proptype.U8)
	for i := uint64(0); i < 3; i++ {
		frame := encodeTestFrame(t, shape, 0, i)
		if _, _, err := s.Append(frame); err != nil {
			t.Fatalf("Append frame %d: %v", i, err)
		}
	}
	if err := s.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if len(data) < 16 {
		t.Fatalf("file too short: %d bytes", len(data))
	}
	if data[0] != 'I' || data[1] != 'I' {
		t.Fatalf("byte order = %q, want II", data[0:2])
	}
	if magic := binary.LittleEndian.Uint16(data[2:4]); magic != 43 {
		t.Fatalf("magic = %d, want 43", magic)
	}
	firstIFD := binary.LittleEndian.Uint64(data[8:16])
	if firstIFD == 0 || int(firstIFD) >= len(data) {
		t.Fatalf("first IFD offset = %d, out of range", firstIFD)
	}

	// Walk the IFD chain and count frames.
	count := 0
	offset := firstIFD
	for offset != 0 {
		entryCount := binary.LittleEndian.Uint64(data[offset : offset+8])
		if entryCount != 11 {
			t.Fatalf("frame %d: entry count = %d, want 11", count, entryCount)
		}
		nextPos := offset + 8 + entryCount*20
		offset = binary.LittleEndian.Uint64(data[nextPos : nextPos+8])
		count++
	}
	if count != 3 {
		t.Fatalf("IFD chain length = %d, want 3", count)
	}
}

