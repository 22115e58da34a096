package tiffjsonstore

import (
	"fmt"

	"github.com/scopeacq/acquire/device"
	"github.com/scopeacq/acquire/proptype"

	// Importing tiffstore makes Go initialize it, and so register "tiff",
	// before this package registers "tiff-json"; the unanchored pattern
	// "tiff" then selects the tiff sink, the first match in load order.
	_ "github.com/scopeacq/acquire/drivers/tiffstore"
)

const deviceName = "tiff-json"

type driver struct{}

func (driver) Name() string     { return "tiffjsonstore" }
func (driver) DeviceCount() int { return 1 }

func (driver) Describe(index int) (proptype.Identifier, error) {
	if index != 0 {
		return proptype.Identifier{}, fmt.Errorf("tiffjsonstore: index %d out of range", index)
	}
	return proptype.Identifier{Kind: proptype.KindStorage, Name: deviceName}, nil
}

func (driver) Open(index int) (device.Instance, error) {
	if index != 0 {
		return device.Instance{}, fmt.Errorf("tiffjsonstore: index %d out of range", index)
	}
	return device.Instance{Storage: newStore()}, nil
}

func (driver) Close(inst device.Instance) error {
	if inst.Storage != nil {
		return inst.Storage.Close()
	}
	return nil
}
func (driver) Shutdown() error { return nil }

func init() {
	device.RegisterDriver(driver{})
}
