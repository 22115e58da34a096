package tiffcodec

import (
	"encoding/binary"
	"fmt"
	"io"
	"os"

	"github.com/scopeacq/acquire/proptype"
)

// BigTIFF tag type codes (a subset of the TIFF 6.0 / BigTIFF registry).
const (
	typeASCII = 2
	typeShort = 3
	typeLong  = 4
	typeLong8 = 16 // BigTIFF's 64-bit unsigned integer type
)

const (
	tagImageWidth                = 256
	tagImageLength               = 257
	tagBitsPerSample             = 258
	tagCompression               = 259
	tagPhotometricInterpretation = 262
	tagImageDescription          = 270
	tagStripOffsets              = 273
	tagSamplesPerPixel           = 277
	tagRowsPerStrip              = 278
	tagStripByteCounts           = 279
	tagSampleFormat              = 339
)

const (
	compressionNone   = 1
	photometricMinIs0 = 1

	SampleFormatUint  = 1
	SampleFormatInt   = 2
	SampleFormatFloat = 3
)

// ifdEntry is one BigTIFF directory entry: 20 bytes (tag, type, count,
// value-or-offset), every field little-endian as this writer always emits
// the "II" byte order.
type ifdEntry struct {
	tag   uint16
	typ   uint16
	count uint64
	value uint64 // inline value for <=8-byte payloads, else an offset
}

// Writer appends one IFD (plus its out-of-line data: pixel payload and
// ImageDescription string) per call to WriteFrame, chaining each new IFD
// onto the previous one's next-IFD pointer. It never holds the whole file
// in memory: every offset is resolved against the file's current length,
// and back-references (the header's first-IFD pointer, and each IFD's
// next-IFD pointer) are patched with WriteAt after the fact.
type Writer struct {
	f            *os.File
	nextPatchPos int64 // where to WriteAt the offset of the *next* IFD we write
	frameCount   int
}

// NewWriter writes the 16-byte BigTIFF header and returns a writer
// positioned to append the first IFD.
func NewWriter(f *os.File) (*Writer, error) {
	var hdr [16]byte
	hdr[0], hdr[1] = 'I', 'I' // little-endian byte order
	binary.LittleEndian.PutUint16(hdr[2:4], 43)
	binary.LittleEndian.PutUint16(hdr[4:6], 8) // bytesize of offsets
	binary.LittleEndian.PutUint16(hdr[6:8], 0) // constant, always 0
	// hdr[8:16] (first IFD offset) is patched in after the first WriteFrame.
	if _, err := f.Write(hdr[:]); err != nil {
		return nil, fmt.Errorf("tiffcodec: write header: %w", err)
	}
	return &Writer{f: f, nextPatchPos: 8}, nil
}

// FrameTags describes one frame's image geometry and sample encoding, as
// plain TIFF-tag values resolved from the caller's own shape model.
type FrameTags struct {
	Width, Height   uint32
	BitsPerSample   uint16
	SamplesPerPixel uint16
	SampleFormat    uint16
}

func (w *Writer) end() (int64, error) {
	return w.f.Seek(0, io.SeekEnd)
}

// FrameCount returns the number of frames written so far.
func (w *Writer) FrameCount() int { return w.frameCount }

// WriteFrame appends payload and description as this frame's out-of-line
// data, then appends an IFD describing them, and finally patches the
// previous IFD (or the file header, for the first frame) to point at it.
// description may be empty, in which case the ImageDescription tag is
// omitted.
func (w *Writer) WriteFrame(t FrameTags, payload []byte, description string) error {
	dataOffset, err := w.end()
	if err != nil {
		return fmt.Errorf("tiffcodec: seek end: %w", err)
	}
	if _, err := w.f.Write(payload); err != nil {
		return fmt.Errorf("tiffcodec: write payload: %w", err)
	}

	entries := []ifdEntry{
		{tagImageWidth, typeLong, 1, uint64(t.Width)},
		{tagImageLength, typeLong, 1, uint64(t.Height)},
		{tagBitsPerSample, typeShort, 1, uint64(t.BitsPerSample)},
		{tagCompression, typeShort, 1, compressionNone},
		{tagPhotometricInterpretation, typeShort, 1, photometricMinIs0},
	}

	if description != "" {
		descBytes := append([]byte(description), 0)
		descOffset, err := w.end()
		if err != nil {
			return err
		}
		if _, err := w.f.Write(descBytes); err != nil {
			return fmt.Errorf("tiffcodec: write description: %w", err)
		}
		entries = append(entries, ifdEntry{tagImageDescription, typeASCII, uint64(len(descBytes)), uint64(descOffset)})
	}

	entries = append(entries,
		ifdEntry{tagStripOffsets, typeLong8, 1, uint64(dataOffset)},
		ifdEntry{tagSamplesPerPixel, typeShort, 1, uint64(t.SamplesPerPixel)},
		ifdEntry{tagRowsPerStrip, typeLong, 1, uint64(t.Height)},
		ifdEntry{tagStripByteCounts, typeLong8, 1, uint64(len(payload))},
		ifdEntry{tagSampleFormat, typeShort, 1, uint64(t.SampleFormat)},
	)

	ifdOffset, err := w.end()
	if err != nil {
		return err
	}
	if err := w.writeIFD(entries); err != nil {
		return err
	}

	if err := w.patchOffset(w.nextPatchPos, uint64(ifdOffset)); err != nil {
		return err
	}
	// The next-IFD pointer we just wrote as 0 is the last 8 bytes of this
	// IFD; remember its position so the following frame can chain onto it.
	w.nextPatchPos = ifdOffset + 8 + int64(len(entries))*20
	w.frameCount++
	return nil
}

// writeIFD appends entries (already required to be in ascending tag order
// per the TIFF spec) followed by an 8-byte next-IFD pointer, written as 0
// and left for the following frame (or end-of-chain) to patch.
func (w *Writer) writeIFD(entries []ifdEntry) error {
	var countBuf [8]byte
	binary.LittleEndian.PutUint64(countBuf[:], uint64(len(entries)))
	if _, err := w.f.Write(countBuf[:]); err != nil {
		return fmt.Errorf("tiffcodec: write entry count: %w", err)
	}
	for _, e := range entries {
		var buf [20]byte
		binary.LittleEndian.PutUint16(buf[0:2], e.tag)
		binary.LittleEndian.PutUint16(buf[2:4], e.typ)
		binary.LittleEndian.PutUint64(buf[4:12], e.count)
		binary.LittleEndian.PutUint64(buf[12:20], e.value)
		if _, err := w.f.Write(buf[:]); err != nil {
			return fmt.Errorf("tiffcodec: write ifd entry: %w", err)
		}
	}
	var nextBuf [8]byte // 0: patched by the next frame, or left as end-of-chain
	if _, err := w.f.Write(nextBuf[:]); err != nil {
		return fmt.Errorf("tiffcodec: write next-ifd pointer: %w", err)
	}
	return nil
}

func (w *Writer) patchOffset(pos int64, v uint64) error {
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], v)
	if _, err := w.f.WriteAt(buf[:], pos); err != nil {
		return fmt.Errorf("tiffcodec: patch offset at %d: %w", pos, err)
	}
	return nil
}

// SampleEncodingFor maps a proptype sample type to the TIFF
// BitsPerSample/SampleFormat pair that best describes it; the packed
// U10/U12/U14 types are stored in a 16-bit container, so they are reported
// as 16-bit unsigned.
func SampleEncodingFor(t proptype.SampleType) (bits uint16, format uint16, err error) {
	switch t {
	case proptype.U8:
		return 8, SampleFormatUint, nil
	case proptype.I8:
		return 8, SampleFormatInt, nil
	case proptype.U16, proptype.U10, proptype.U12, proptype.U14:
		return 16, SampleFormatUint, nil
	case proptype.I16:
		return 16, SampleFormatInt, nil
	case proptype.F32:
		return 32, SampleFormatFloat, nil
	default:
		return 0, 0, fmt.Errorf("tiffcodec: unsupported sample type %v", t)
	}
}
