package simcam

import (
	"math"
	"math/rand"
	"time"

	"github.com/scopeacq/acquire/device"
	"github.com/scopeacq/acquire/proptype"
)

// camera is the shared implementation behind all three simulated devices;
// only the fill method differs per pattern.
type camera struct {
	pattern pattern

	state proptype.CameraProperties
	shape proptype.ImageShape
	devState device.State

	rng       *rand.Rand
	frameID   uint64
	startedAt time.Time
}

func newCamera(p pattern) *camera {
	return &camera{
		pattern:  p,
		devState: device.AwaitingConfiguration,
		rng:      rand.New(rand.NewSource(1)),
	}
}

func (c *camera) Set(p proptype.CameraProperties) (device.State, error) {
	if p.Width <= 0 || p.Height <= 0 {
		c.devState = device.AwaitingConfiguration
		return c.devState, nil
	}
	switch p.SampleType {
	case proptype.U8, proptype.U16, proptype.I8, proptype.I16, proptype.F32, proptype.U10, proptype.U12, proptype.U14:
	default:
		c.devState = device.AwaitingConfiguration
		return c.devState, nil
	}
	c.state = p
	c.shape = proptype.NewImageShape(p.Width, p.Height, p.SampleType)
	c.devState = device.Armed
	return c.devState, nil
}

func (c *camera) Get() (proptype.CameraProperties, error) {
	return c.state, nil
}

func (c *camera) GetMeta() (device.CameraMetadata, error) {
	return device.CameraMetadata{
		WidthRange:  [2]int{1, 8192},
		HeightRange: [2]int{1, 8192},
		SupportedTriggerSources: []proptype.TriggerSource{
			proptype.TriggerSourceSoftware,
		},
	}, nil
}

func (c *camera) GetShape() (proptype.ImageShape, error) {
	return c.shape, nil
}

func (c *camera) Start() (device.State, error) {
	if !c.devState.CanStart() {
		return c.devState, device.ErrConfigRejected
	}
	c.devState = device.Running
	c.frameID = 0
	c.startedAt = time.Now()
	return c.devState, nil
}

func (c *camera) Stop() (device.State, error) {
	c.devState = device.Armed
	return c.devState, nil
}

func (c *camera) ExecuteTrigger() error {
	// The simulated cameras free-run; a software trigger is accepted but
	// has no effect on frame production.
	return nil
}

func (c *camera) GetFrame(buf []byte) (int, proptype.FrameInfo, error) {
	if c.devState != device.Running {
		return 0, proptype.FrameInfo{}, device.ErrAgain
	}
	n, err := proptype.BytesOfImage(c.shape)
	if err != nil {
		return 0, proptype.FrameInfo{}, err
	}
	if len(buf) < n {
		return 0, proptype.FrameInfo{}, device.ErrAgain
	}
	c.fill(buf[:n])
	info := proptype.FrameInfo{
		Shape:         c.shape,
		TimestampHWUs: uint64(time.Since(c.startedAt).Microseconds()),
	}
	c.frameID++
	return n, info, nil
}

// fill writes one frame's worth of synthetic pixel data into buf, sized
// exactly to bytes_of_image(shape), using the generator selected at Open.
func (c *camera) fill(buf []byte) {
	switch c.pattern {
	case patternEmpty:
		for i := range buf {
			buf[i] = 0
		}
	case patternRadialSin:
		c.fillRadialSin(buf)
	default:
		c.rng.Read(buf)
	}
}

// fillRadialSin writes a deterministic radial sine-wave test pattern, one
// sample per pixel, phase-advanced each frame so repeated calls produce a
// slowly rotating ring pattern useful for spotting dropped or reordered
// frames downstream.
func (c *camera) fillRadialSin(buf []byte) {
	width, height := c.shape.Width, c.shape.Height
	bpp, err := proptype.BytesOfType(c.shape.Type)
	if err != nil || width == 0 || height == 0 {
		return
	}
	cx, cy := float64(width)/2, float64(height)/2
	maxRadius := math.Hypot(cx, cy)
	phase := float64(c.frameID) * 0.1

	for y := 0; y < height; y++ {
		rowOff := y * c.shape.Strides.Row * bpp
		for x := 0; x < width; x++ {
			dx, dy := float64(x)-cx, float64(y)-cy
			r := math.Hypot(dx, dy) / maxRadius
			v := 0.5 + 0.5*math.Sin(r*16*math.Pi+phase)
			off := rowOff + x*bpp
			if off+bpp > len(buf) {
				return
			}
			writeSample(buf[off:off+bpp], c.shape.Type, v)
		}
	}
}

// writeSample encodes the unit-range value v into one sample of type t,
// scaling to the type's full range.
func writeSample(dst []byte, t proptype.SampleType, v float64) {
	switch t {
	case proptype.U8:
		dst[0] = byte(v * 255)
	case proptype.I8:
		dst[0] = byte(int8(v*254 - 127))
	case proptype.U16, proptype.U10, proptype.U12, proptype.U14:
		max := sampleMax(t)
		u := uint16(v * float64(max))
		dst[0] = byte(u)
		dst[1] = byte(u >> 8)
	case proptype.I16:
		u := uint16(int16(v*65534 - 32767))
		dst[0] = byte(u)
		dst[1] = byte(u >> 8)
	case proptype.F32:
		bits := math.Float32bits(float32(v))
		dst[0] = byte(bits)
		dst[1] = byte(bits >> 8)
		dst[2] = byte(bits >> 16)
		dst[3] = byte(bits >> 24)
	}
}

// sampleMax returns the full-scale value for the packed integer types,
// which carry their measurement in the low bits of a 16-bit word.
func sampleMax(t proptype.SampleType) uint16 {
	switch t {
	case proptype.U10:
		return 1023
	case proptype.U12:
		return 4095
	case proptype.U14:
		return 16383
	default:
		return 65535
	}
}
