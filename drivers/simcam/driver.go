package simcam

import (
	"fmt"

	"github.com/scopeacq/acquire/device"
	"github.com/scopeacq/acquire/proptype"
)

// pattern selects which built-in generator a camera instance fills frames
// with.
type pattern int

const (
	patternUniformRandom pattern = iota
	patternRadialSin
	patternEmpty
)

var deviceNames = [...]string{
	patternUniformRandom: "simulated: uniform random",
	patternRadialSin:     "simulated: radial sin",
	patternEmpty:         "simulated: empty",
}

type driver struct{}

func (driver) Name() string    { return "simcam" }
func (driver) DeviceCount() int { return len(deviceNames) }

func (driver) Describe(index int) (proptype.Identifier, error) {
	if index < 0 || index >= len(deviceNames) {
		return proptype.Identifier{}, fmt.Errorf("simcam: index %d out of range", index)
	}
	return proptype.Identifier{Kind: proptype.KindCamera, Name: deviceNames[index]}, nil
}

func (driver) Open(index int) (device.Instance, error) {
	if index < 0 || index >= len(deviceNames) {
		return device.Instance{}, fmt.Errorf("simcam: index %d out of range", index)
	}
	return device.Instance{Camera: newCamera(pattern(index))}, nil
}

func (driver) Close(device.Instance) error { return nil }
func (driver) Shutdown() error             { return nil }

func init() {
	device.RegisterDriver(driver{})
}
