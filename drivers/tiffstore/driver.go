package tiffstore

import (
	"fmt"

	"github.com/scopeacq/acquire/device"
	"github.com/scopeacq/acquire/proptype"
)

const deviceName = "tiff"

type driver struct{}

func (driver) Name() string     { return "tiffstore" }
func (driver) DeviceCount() int { return 1 }

func (driver) Describe(index int) (proptype.Identifier, error) {
	if index != 0 {
		return proptype.Identifier{}, fmt.Errorf("tiffstore: index %d out of range", index)
	}
	return proptype.Identifier{Kind: proptype.KindStorage, Name: deviceName}, nil
}

func (driver) Open(index int) (device.Instance, error) {
	if index != 0 {
		return device.Instance{}, fmt.Errorf("tiffstore: index %d out of range", index)
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
