package proptype

import "fmt"

// Strides records row/plane strides in samples, not bytes, matching the
// core's convention so BytesOfImage is the single place byte width is
// multiplied in.
type Strides struct {
	Pixel int // samples per pixel (usually 1, >1 for interleaved channels)
	Row   int // samples per row
	Plane int // samples per plane; must equal Channels*Height*Row
}

// ImageShape describes one frame's geometry and sample encoding.
type ImageShape struct {
	Width    int
	Height   int
	Planes   int
	Channels int
	Strides  Strides
	Type     SampleType
}

// NewImageShape builds a shape with canonical, tightly packed strides for a
// single-channel, single-plane image of the given dimensions and type. It is
// the shape constructor the built-in simulated cameras use; the reconciler
// takes whatever shape the camera's GetShape reports.
func NewImageShape(width, height int, sampleType SampleType) ImageShape {
	return ImageShape{
		Width:    width,
		Height:   height,
		Planes:   1,
		Channels: 1,
		Strides: Strides{
			Pixel: 1,
			Row:   width,
			Plane: height * width,
		},
		Type: sampleType,
	}
}

// Validate checks the strides.planes = channels*height*row_stride invariant.
func (s ImageShape) Validate() error {
	want := s.Channels * s.Height * s.Strides.Row
	if s.Strides.Plane != want {
		return fmt.Errorf("proptype: shape invariant violated: strides.planes=%d want channels*height*row_stride=%d", s.Strides.Plane, want)
	}
	return nil
}

// BytesOfImage returns strides.planes * bytes_of_type(shape.Type), failing
// loudly if Type is not one of the enumerated sample types.
func BytesOfImage(s ImageShape) (int, error) {
	width, err := BytesOfType(s.Type)
	if err != nil {
		return 0, err
	}
	return s.Strides.Plane * width, nil
}

// AlignUp rounds n up to the next multiple of align. align must be a power
// of two; the ring and frame header packing both call this with align=8.
func AlignUp(n, align uint64) uint64 {
	if align == 0 {
		return n
	}
	return (n + align - 1) &^ (align - 1)
}
