package rawstore

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/scopeacq/acquire/device"
	"github.com/scopeacq/acquire/proptype"
)

func TestStoreAppendsVerbatimToFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out.raw")

	s := newStore()
	if _, err := s.Set(proptype.StorageProperties{URI: proptype.NewOwnedString(path)}); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if _, err := s.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}

	frame1 := []byte{1, 2, 3, 4}
	frame2 := []byte{5, 6, 7, 8}
	if _, _, err := s.Append(frame1); err != nil {
		t.Fatalf("Append: %v", err)
	}
	if _, _, err := s.Append(frame2); err != nil {
		t.Fatalf("Append: %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	want := append(append([]byte{}, frame1...), frame2...)
	if string(got) != string(want) {
		t.Fatalf("file contents = %v, want %v", got, want)
	}
}

func TestStoreRejectsEmptyURI(t *testing.T) {
	s := newStore()
	state, err := s.Set(proptype.StorageProperties{})
	if err != nil {
		t.Fatalf("Set: %v", err)
	}
	if state != device.AwaitingConfiguration {
		t.Fatalf("state = %v, want AwaitingConfiguration", state)
	}
}

func TestDriverDescribesRaw(t *testing.T) {
	d := driver{}
	id, err := d.Describe(0)
	if err != nil {
		t.Fatalf("Describe: %v", err)
	}
	if id.Name != "raw" || id.Kind != proptype.KindStorage {
		t.Fatalf("Describe(0) = %+v", id)
	}
}
