package nullstore

import (
	"fmt"

	"github.com/scopeacq/acquire/device"
	"github.com/scopeacq/acquire/proptype"
)

const deviceName = "trash"

type driver struct{}

func (driver) Name() string     { return "nullstore" }
func (driver) DeviceCount() int { return 1 }

func (driver) Describe(index int) (proptype.Identifier, error) {
	if index != 0 {
		return proptype.Identifier{}, fmt.Errorf("nullstore: index %d out of range", index)
	}
	return proptype.Identifier{Kind: proptype.KindStorage, Name: deviceName}, nil
}

func (driver) Open(index int) (device.Instance, error) {
	if index != 0 {
		return device.Instance{}, fmt.Errorf("nullstore: index %d out of range", index)
	}
	return device.Instance{Storage: newStore()}, nil
}

func (driver) Close(device.Instance) error { return nil }
func (driver) Shutdown() error             { return nil }

func init() {
	device.RegisterDriver(driver{})
}
