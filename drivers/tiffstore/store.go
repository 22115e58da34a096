package tiffstore

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/scopeacq/acquire/device"
	"github.com/scopeacq/acquire/drivers/tiffcodec"
	"github.com/scopeacq/acquire/proptype"
)

// frameDescription is marshaled into each IFD's ImageDescription tag.
type frameDescription struct {
	StreamID          uint32 `json:"stream_id"`
	FrameID           uint64 `json:"frame_id"`
	TimestampHWUs     uint64 `json:"timestamp_hw_us"`
	TimestampSystemUs uint64 `json:"timestamp_system_us"`
}

type store struct {
	props proptype.StorageProperties
	state device.State
	shape proptype.ImageShape

	file   *os.File
	writer *tiffcodec.Writer
}

func newStore() *store {
	return &store{state: device.AwaitingConfiguration}
}

func (s *store) Set(p proptype.StorageProperties) (device.State, error) {
	proptype.CopyStorageProperties(&s.props, p)
	stripped, _ := proptype.NormalizeURI(s.props.URI.String())
	s.props.URI = proptype.NewOwnedString(stripped)
	if stripped == "" {
		s.state = device.AwaitingConfiguration
		return s.state, nil
	}
	s.state = device.Armed
	return s.state, nil
}

func (s *store) Get() (proptype.StorageProperties, error) {
	return s.props, nil
}

func (s *store) GetMeta() (device.StorageMetadata, error) {
	return device.StorageMetadata{}, nil
}

func (s *store) Start() (device.State, error) {
	if !s.state.CanStart() {
		return s.state, device.ErrConfigRejected
	}
	f, err := os.OpenFile(s.props.URI.String(), os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return s.state, fmt.Errorf("tiffstore: open %s: %w", s.props.URI.String(), err)
	}
	w, err := tiffcodec.NewWriter(f)
	if err != nil {
		_ = f.Close()
		return s.state, err
	}
	s.file = f
	s.writer = w
	s.state = device.Running
	return s.state, nil
}

func (s *store) Stop() (device.State, error) {
	s.closeFile()
	s.state = device.Armed
	return s.state, nil
}

func (s *store) Append(frame []byte) (int, device.State, error) {
	if s.state != device.Running {
		return 0, s.state, fmt.Errorf("tiffstore: append while %s", s.state)
	}
	h, err := proptype.DecodeHeader(frame)
	if err != nil {
		return 0, s.state, fmt.Errorf("tiffstore: decode header: %w", err)
	}
	payload := frame[proptype.HeaderSize:]

	bits, format, err := tiffcodec.SampleEncodingFor(h.Shape.Type)
	if err != nil {
		return 0, s.state, err
	}
	tags := tiffcodec.FrameTags{
		Width:           uint32(h.Shape.Width),
		Height:          uint32(h.Shape.Height),
		BitsPerSample:   bits,
		SamplesPerPixel: uint16(h.Shape.Channels),
		SampleFormat:    format,
	}
	desc, err := json.Marshal(frameDescription{
		StreamID:          h.StreamID,
		FrameID:           h.FrameID,
		TimestampHWUs:     h.TimestampHWUs,
		TimestampSystemUs: h.TimestampSystemUs,
	})
	if err != nil {
		return 0, s.state, fmt.Errorf("tiffstore: marshal description: %w", err)
	}
	if err := s.writer.WriteFrame(tags, payload, string(desc)); err != nil {
		return 0, s.state, err
	}
	return len(frame), s.state, nil
}

func (s *store) ReserveImageShape(shape proptype.ImageShape) error {
	s.shape = shape
	return nil
}

func (s *store) closeFile() {
	if s.file != nil {
		_ = s.file.Close()
		s.file = nil
		s.writer = nil
	}
}

func (s *store) Close() error {
	s.closeFile()
	s.state = device.Closed
	return nil
}
