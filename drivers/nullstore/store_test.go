package nullstore

import (
	"testing"

	"github.com/scopeacq/acquire/device"
	"github.com/scopeacq/acquire/proptype"
)

func TestStoreDiscardsAppends(t *testing.T) {
	s := newStore()
	if _, err := s.Set(proptype.StorageProperties{URI: proptype.NewOwnedString("file:///dev/null")}); err != nil {
		t.Fatalf("Set: %v", err)
	}
	props, _ := s.Get()
	if props.URI.String() != "/dev/null" {
		t.Fatalf("URI = %q, want stripped form", props.URI.String())
	}
	if _, err := s.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}
	n, state, err := s.Append(make([]byte, 128))
	if err != nil {
		t.Fatalf("Append: %v", err)
	}
	if n != 128 || state != device.Running {
		t.Fatalf("Append = (%d, %v), want (128, Running)", n, state)
	}
	if s.bytesTotal != 128 || s.frameCount != 1 {
		t.Fatalf("counters = (%d, %d), want (128, 1)", s.bytesTotal, s.frameCount)
	}
}

func TestStoreRejectsAppendBeforeStart(t *testing.T) {
	s := newStore()
	if _, err := s.Set(proptype.StorageProperties{}); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if _, _, err := s.Append(make([]byte, 8)); err == nil {
		t.Fatal("Append before Start should fail")
	}
}

func TestDriverDescribesTrash(t *testing.T) {
	d := driver{}
	id, err := d.Describe(0)
	if err != nil {
		t.Fatalf("Describe: %v", err)
	}
	if id.Name != "trash" || id.Kind != proptype.KindStorage {
		t.Fatalf("Describe(0) = %+v", id)
	}
}
