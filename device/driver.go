package device

import (
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/scopeacq/acquire/proptype"
)

// Driver is what a device plugin exposes: a set of devices it can open by
// index, identified up front by Describe without opening them. This is the
// Go-native rendering of the original's single dynamic-library entry point
// (device_count/describe/open/close/shutdown); see SPEC_FULL.md §4.2 and §9
// for why this repo uses a static, compiled-in registry instead of runtime
// library loading.
type Driver interface {
	// Name identifies the driver itself (distinct from any one device's
	// name), used only in diagnostics; tie-breaks follow registration order.
	Name() string
	DeviceCount() int
	Describe(index int) (proptype.Identifier, error)
	Open(index int) (Instance, error)
	// Close releases a previously opened Instance. The runtime never
	// dereferences anything obtained from Instance after Close returns.
	Close(Instance) error
	Shutdown() error
}

// Instance is an opened device: exactly one of Camera or Storage is
// non-nil, matching the Identifier's Kind.
type Instance struct {
	ID         string
	Identifier proptype.Identifier
	Camera     Camera
	Storage    Storage
}

var (
	registryMu sync.Mutex
	registry   []Driver
)

// RegisterDriver adds d to the global static registry. Built-in drivers
// call this from their package init(), in load order; ties during
// selection are broken by that order, then by intra-driver enumeration
// order, exactly as the original driver-loading contract requires.
func RegisterDriver(d Driver) {
	registryMu.Lock()
	defer registryMu.Unlock()
	registry = append(registry, d)
}

// registeredDrivers returns a snapshot of the global registry in load
// order. Used by NewManager to build the initial device table.
func registeredDrivers() []Driver {
	registryMu.Lock()
	defer registryMu.Unlock()
	out := make([]Driver, len(registry))
	copy(out, registry)
	return out
}

// newInstanceID returns a correlation id used in log fields and metrics
// labels for one opened device instance.
func newInstanceID() string {
	return uuid.NewString()
}

func (i Instance) String() string {
	return fmt.Sprintf("%s(%s)", i.Identifier.QualifiedName(), i.ID)
}
