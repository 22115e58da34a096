package device

import (
	"testing"

	"github.com/scopeacq/acquire/proptype"
)

type stubDriver struct {
	name  string
	names []string
	kind  proptype.Kind
}

func (d *stubDriver) Name() string { return d.name }
func (d *stubDriver) DeviceCount() int { return len(d.names) }
func (d *stubDriver) Describe(i int) (proptype.Identifier, error) {
	return proptype.Identifier{Kind: d.kind, Name: d.names[i]}, nil
}
func (d *stubDriver) Open(i int) (Instance, error) {
	return Instance{Identifier: proptype.Identifier{Kind: d.kind, Name: d.names[i]}}, nil
}
func (d *stubDriver) Close(Instance) error { return nil }
func (d *stubDriver) Shutdown() error      { return nil }

func newTestManager(t *testing.T, drivers ...Driver) *Manager {
	t.Helper()
	saved := registeredDrivers()
	registryMu.Lock()
	registry = nil
	registryMu.Unlock()
	t.Cleanup(func() {
		registryMu.Lock()
		registry = saved
		registryMu.Unlock()
	})
	for _, d := range drivers {
		RegisterDriver(d)
	}
	m, err := NewManager()
	if err != nil {
		t.Fatalf("NewManager: %v", err)
	}
	return m
}

func TestSelectEmptyPatternPicksFirstOfKind(t *testing.T) {
	m := newTestManager(t, &stubDriver{name: "sim", names: []string{"simulated: uniform random", "simulated: radial sin"}, kind: proptype.KindCamera})
	id, err := m.Select(proptype.KindCamera, "")
	if err != nil {
		t.Fatalf("Select: %v", err)
	}
	if id.Name != "simulated: uniform random" {
		t.Fatalf("got %q want first device", id.Name)
	}
}

func TestSelectRegexMatch(t *testing.T) {
	m := newTestManager(t, &stubDriver{name: "sim", names: []string{"simulated: uniform random", "simulated: radial sin"}, kind: proptype.KindCamera})
	id, err := m.Select(proptype.KindCamera, "radial.*sin")
	if err != nil {
		t.Fatalf("Select: %v", err)
	}
	if id.Name != "simulated: radial sin" {
		t.Fatalf("got %q", id.Name)
	}
}

func TestSelectNoMatch(t *testing.T) {
	m := newTestManager(t, &stubDriver{name: "sim", names: []string{"simulated: empty"}, kind: proptype.KindCamera})
	if _, err := m.Select(proptype.KindCamera, "nope"); err != ErrDeviceNotFound {
		t.Fatalf("got %v want ErrDeviceNotFound", err)
	}
}

func TestSelectBadPattern(t *testing.T) {
	m := newTestManager(t, &stubDriver{name: "sim", names: []string{"simulated: empty"}, kind: proptype.KindCamera})
	if _, err := m.Select(proptype.KindCamera, "("); err == nil {
		t.Fatal("expected malformed-pattern error")
	}
}

func TestOpenMarksExclusiveAndReleaseClears(t *testing.T) {
	m := newTestManager(t, &stubDriver{name: "sim", names: []string{"simulated: empty"}, kind: proptype.KindCamera})
	id, err := m.Select(proptype.KindCamera, "")
	if err != nil {
		t.Fatalf("Select: %v", err)
	}
	inst, err := m.Open(id)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if _, err := m.Select(proptype.KindCamera, ""); err != ErrDeviceBusy {
		t.Fatalf("got %v want ErrDeviceBusy", err)
	}
	if err := m.Release(inst); err != nil {
		t.Fatalf("Release: %v", err)
	}
	if _, err := m.Select(proptype.KindCamera, ""); err != nil {
		t.Fatalf("Select after release: %v", err)
	}
}

func TestTieBreakIsDriverLoadOrderThenEnumerationOrder(t *testing.T) {
	m := newTestManager(t,
		&stubDriver{name: "a", names: []string{"a: one"}, kind: proptype.KindStorage},
		&stubDriver{name: "b", names: []string{"b: one", "b: two"}, kind: proptype.KindStorage},
	)
	id, err := m.Select(proptype.KindStorage, "")
	if err != nil {
		t.Fatalf("Select: %v", err)
	}
	if id.Name != "a: one" {
		t.Fatalf("got %q want first-loaded driver's first device", id.Name)
	}
}
