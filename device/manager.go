package device

import (
	"fmt"
	"regexp"
	"sync"

	"github.com/scopeacq/acquire/proptype"
)

// entry is one enumerable device in the manager's flat table.
type entry struct {
	driver Driver
	index  int
	id     proptype.Identifier
}

// Manager enumerates every registered driver's devices into a single flat,
// read-only-after-init table and resolves selection patterns against it.
// The table is rebuilt only while the caller holds the exclusive
// configuration lock (see runtime.Runtime), matching the concurrency
// model in SPEC_FULL.md §5.
type Manager struct {
	mu      sync.RWMutex
	drivers []Driver
	entries []entry
	open    map[proptype.Identifier]Driver
}

// NewManager builds a Manager by enumerating every driver registered via
// RegisterDriver, in registration order.
func NewManager() (*Manager, error) {
	m := &Manager{open: make(map[proptype.Identifier]Driver)}
	if err := m.Rebuild(); err != nil {
		return nil, err
	}
	return m, nil
}

// Rebuild re-enumerates every registered driver's devices. Callers must
// hold their own exclusive lock around configuration; Rebuild itself only
// protects the table against concurrent reads from Select.
func (m *Manager) Rebuild() error {
	drivers := registeredDrivers()
	var entries []entry
	for _, drv := range drivers {
		n := drv.DeviceCount()
		for i := 0; i < n; i++ {
			id, err := drv.Describe(i)
			if err != nil {
				return fmt.Errorf("device: describe %s[%d]: %w", drv.Name(), i, err)
			}
			entries = append(entries, entry{driver: drv, index: i, id: id})
		}
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.drivers = drivers
	m.entries = entries
	return nil
}

// MatchesPattern reports whether name matches pattern using the same rule
// Select applies: an empty pattern matches anything; otherwise pattern is
// compiled as a case-sensitive regular expression and matched against name.
func MatchesPattern(pattern, name string) (bool, error) {
	if pattern == "" {
		return true, nil
	}
	re, err := regexp.Compile(pattern)
	if err != nil {
		return false, fmt.Errorf("%w: %v", ErrBadPattern, err)
	}
	return re.MatchString(name), nil
}

// Select returns the identifier of the first device of the given kind whose
// name matches pattern. An empty pattern means "first device of this
// kind". Matching is a case-sensitive regular expression against the
// device's bare name. Ties are broken by driver-load order, then
// intra-driver enumeration order — simply the table's iteration order,
// since Rebuild appends in that order.
func (m *Manager) Select(kind proptype.Kind, pattern string) (proptype.Identifier, error) {
	var re *regexp.Regexp
	if pattern != "" {
		compiled, err := regexp.Compile(pattern)
		if err != nil {
			return proptype.Identifier{}, fmt.Errorf("%w: %v", ErrBadPattern, err)
		}
		re = compiled
	}

	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, e := range m.entries {
		if e.id.Kind != kind {
			continue
		}
		if re == nil || re.MatchString(e.id.Name) {
			if _, busy := m.open[e.id]; busy {
				return proptype.Identifier{}, ErrDeviceBusy
			}
			return e.id, nil
		}
	}
	return proptype.Identifier{}, ErrDeviceNotFound
}

// Open resolves id's enumeration entry and opens it, marking it exclusively
// held until Release is called with the same identifier.
func (m *Manager) Open(id proptype.Identifier) (Instance, error) {
	m.mu.Lock()
	if _, busy := m.open[id]; busy {
		m.mu.Unlock()
		return Instance{}, ErrDeviceBusy
	}
	var found *entry
	for i := range m.entries {
		if m.entries[i].id == id {
			found = &m.entries[i]
			break
		}
	}
	if found == nil {
		m.mu.Unlock()
		return Instance{}, ErrDeviceNotFound
	}
	drv := found.driver
	idx := found.index
	m.open[id] = drv
	m.mu.Unlock()

	inst, err := drv.Open(idx)
	if err != nil {
		m.mu.Lock()
		delete(m.open, id)
		m.mu.Unlock()
		return Instance{}, fmt.Errorf("device: open %s: %w", id.QualifiedName(), err)
	}
	if inst.ID == "" {
		inst.ID = newInstanceID()
	}
	inst.Identifier = id
	return inst, nil
}

// Release closes inst through its owning driver and frees its exclusivity
// claim. It is a no-op (other than clearing the claim) if inst.Identifier
// was never opened through this Manager.
func (m *Manager) Release(inst Instance) error {
	m.mu.Lock()
	drv, ok := m.open[inst.Identifier]
	delete(m.open, inst.Identifier)
	m.mu.Unlock()
	if !ok {
		return nil
	}
	return drv.Close(inst)
}

// Kinds lists every distinct device kind currently enumerated, for
// diagnostics.
func (m *Manager) Kinds() []proptype.Kind {
	m.mu.RLock()
	defer m.mu.RUnlock()
	seen := map[proptype.Kind]bool{}
	var out []proptype.Kind
	for _, e := range m.entries {
		if !seen[e.id.Kind] {
			seen[e.id.Kind] = true
			out = append(out, e.id.Kind)
		}
	}
	return out
}
