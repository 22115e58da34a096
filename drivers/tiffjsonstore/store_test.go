package tiffjsonstore

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/scopeacq/acquire/proptype"
)

func encodeTestFrame(t *testing.T, shape proptype.ImageShape) []byte {
	t.Helper()
	n, err := proptype.BytesOfImage(shape)
	if err != nil {
		t.Fatalf("BytesOfImage: %v", err)
	}
	buf := make([]byte, proptype.HeaderSize+n)
	if err := proptype.EncodeHeader(buf, proptype.FrameHeader{
		BytesOfFrame: uint64(len(buf)),
		Shape:        shape,
	}); err != nil {
		t.Fatalf("EncodeHeader: %v", err)
	}
	return buf
}

func TestStoreWritesDataAndMetadataFiles(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "run1")

	s := newStore()
	props := proptype.StorageProperties{
		URI:                  proptype.NewOwnedString(target),
		ExternalMetadataJSON: proptype.NewOwnedString(`{"objective":"40x"}`),
	}
	if _, err := s.Set(props); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if _, err := s.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}

	shape := proptype.NewImageShape(2, 2, proptype.U8)
	if _, _, err := s.Append(encodeTestFrame(t, shape)); err != nil {
		t.Fatalf("Append: %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	meta, err := os.ReadFile(filepath.Join(target, metadataFileName))
	if err != nil {
		t.Fatalf("ReadFile metadata.json: %v", err)
	}
	if string(meta) != `{"objective":"40x"}` {
		t.Fatalf("metadata.json = %q", meta)
	}
	if _, err := os.Stat(filepath.Join(target, dataFileName)); err != nil {
		t.Fatalf("Stat data.tif: %v", err)
	}
}

func TestStoreSkipsMetadataFileWhenEmpty(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "run2")

	s := newStore()
	if _, err := s.Set(proptype.StorageProperties{URI: proptype.NewOwnedString(target)}); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if _, err := s.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	if _, err := os.Stat(filepath.Join(target, metadataFileName)); !os.IsNotExist(err) {
		t.Fatalf("metadata.json should not exist, stat err = %v", err)
	}
}
