package proptype

import (
	"encoding/binary"
	"fmt"
)

// HeaderSize is the fixed, 8-byte-aligned size of an encoded FrameHeader.
// bytes_of_frame = AlignUp(HeaderSize + bytes_of_image(shape), 8); the
// payload is written immediately after the header in the ring.
const HeaderSize = 72

// FrameHeader is the fixed record that precedes every frame's pixel payload
// in the frame ring and on disk for the raw sink. Every field here is
// written by the producer (package stream) and read back by consumers,
// monitors, and disk serializers; it must never change shape without a
// version bump, since the raw sink's on-disk contract is exactly
// "concatenation of these headers and their payloads".
type FrameHeader struct {
	// BytesOfFrame is the total aligned size (header+payload), a multiple
	// of 8. It lets a reader skip a record without decoding its shape.
	BytesOfFrame uint64
	Shape        ImageShape
	StreamID     uint32
	// FrameID is monotonically increasing from zero per acquisition; gaps
	// correspond exactly to producer-side drops.
	FrameID uint64
	// TimestampHWUs is the acquisition-clock timestamp in microseconds,
	// typically the camera's own free-running counter.
	TimestampHWUs uint64
	// TimestampSystemUs is the host system-clock timestamp in microseconds.
	TimestampSystemUs uint64
}

// FrameInfo is what a camera driver reports alongside a captured frame's raw
// bytes: the shape it was captured at and the driver's hardware timestamp.
type FrameInfo struct {
	Shape         ImageShape
	TimestampHWUs uint64
}

// EncodeHeader writes h into the first HeaderSize bytes of buf.
func EncodeHeader(buf []byte, h FrameHeader) error {
	if len(buf) < HeaderSize {
		return fmt.Errorf("proptype: header buffer too small: %d < %d", len(buf), HeaderSize)
	}
	bo := binary.LittleEndian
	bo.PutUint64(buf[0:8], h.BytesOfFrame)
	bo.PutUint32(buf[8:12], uint32(h.Shape.Width))
	bo.PutUint32(buf[12:16], uint32(h.Shape.Height))
	bo.PutUint32(buf[16:20], uint32(h.Shape.Planes))
	bo.PutUint32(buf[20:24], uint32(h.Shape.Channels))
	bo.PutUint32(buf[24:28], uint32(h.Shape.Strides.Pixel))
	bo.PutUint32(buf[28:32], uint32(h.Shape.Strides.Row))
	bo.PutUint32(buf[32:36], uint32(h.Shape.Strides.Plane))
	bo.PutUint32(buf[36:40], uint32(h.Shape.Type))
	bo.PutUint32(buf[40:44], h.StreamID)
	bo.PutUint64(buf[44:52], h.FrameID)
	bo.PutUint64(buf[52:60], h.TimestampHWUs)
	bo.PutUint64(buf[60:68], h.TimestampSystemUs)
	for i := 68; i < HeaderSize; i++ {
		buf[i] = 0
	}
	return nil
}

// DecodeHeader reads a FrameHeader from the first HeaderSize bytes of buf.
func DecodeHeader(buf []byte) (FrameHeader, error) {
	if len(buf) < HeaderSize {
		return FrameHeader{}, fmt.Errorf("proptype: header buffer too small: %d < %d", len(buf), HeaderSize)
	}
	bo := binary.LittleEndian
	h := FrameHeader{
		BytesOfFrame: bo.Uint64(buf[0:8]),
		Shape: ImageShape{
			Width:    int(bo.Uint32(buf[8:12])),
			Height:   int(bo.Uint32(buf[12:16])),
			Planes:   int(bo.Uint32(buf[16:20])),
			Channels: int(bo.Uint32(buf[20:24])),
			Strides: Strides{
				Pixel: int(bo.Uint32(buf[24:28])),
				Row:   int(bo.Uint32(buf[28:32])),
				Plane: int(bo.Uint32(buf[32:36])),
			},
			Type: SampleType(bo.Uint32(buf[36:40])),
		},
		StreamID:          bo.Uint32(buf[40:44]),
		FrameID:           bo.Uint64(buf[44:52]),
		TimestampHWUs:     bo.Uint64(buf[52:60]),
		TimestampSystemUs: bo.Uint64(buf[60:68]),
	}
	return h, nil
}
