package proptype

import "fmt"

// SampleType enumerates the pixel sample encodings the core understands.
// The packed integer types (U10/U12/U14) store two bytes per sample with
// the measurement carried in the low bits of a 16-bit word.
type SampleType int

const (
	U8 SampleType = iota
	U16
	I8
	I16
	F32
	U10
	U12
	U14
	sampleTypeCount
)

func (t SampleType) String() string {
	switch t {
	case U8:
		return "u8"
	case U16:
		return "u16"
	case I8:
		return "i8"
	case I16:
		return "i16"
	case F32:
		return "f32"
	case U10:
		return "u10"
	case U12:
		return "u12"
	case U14:
		return "u14"
	default:
		return "unknown"
	}
}

// BytesOfType returns the per-sample byte width, or an error for any value
// outside the enumeration. It never silently returns zero for an unknown
// type: the core's data model treats that as a loud failure.
func BytesOfType(t SampleType) (int, error) {
	switch t {
	case U8, I8:
		return 1, nil
	case U16, I16, U10, U12, U14:
		return 2, nil
	case F32:
		return 4, nil
	default:
		return 0, fmt.Errorf("proptype: unknown sample type %d", int(t))
	}
}

// IsPacked reports whether t is one of the sub-byte-measurement packed
// integer types that occupy two bytes per sample.
func IsPacked(t SampleType) bool {
	switch t {
	case U10, U12, U14:
		return true
	default:
		return false
	}
}
