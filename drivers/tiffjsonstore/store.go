package tiffjsonstore

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/scopeacq/acquire/device"
	"github.com/scopeacq/acquire/drivers/tiffcodec"
	"github.com/scopeacq/acquire/proptype"
)

const (
	dataFileName     = "data.tif"
	metadataFileName = "metadata.json"
)

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
	dir := s.props.URI.String()
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return s.state, fmt.Errorf("tiffjsonstore: mkdir %s: %w", dir, err)
	}

	if meta := s.props.ExternalMetadataJSON.String(); meta != "" {
		if err := os.WriteFile(filepath.Join(dir, metadataFileName), []byte(meta), 0o644); err != nil {
			return s.state, fmt.Errorf("tiffjsonstore: write metadata.json: %w", err)
		}
	}

	f, err := os.OpenFile(filepath.Join(dir, dataFileName), os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return s.state, fmt.Errorf("tiffjsonstore: open data.tif: %w", err)
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
		return 0, s.state, fmt.Errorf("tiffjsonstore: append while %s", s.state)
	}
	h, err := proptype.DecodeHeader(frame)
	if err != nil {
		return 0, s.state, fmt.Errorf("tiffjsonstore: decode header: %w", err)
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
	// No per-frame description: this sink's metadata lives entirely in the
	// side-by-side metadata.json written at Start.
	if err := s.writer.WriteFrame(tags, payload, ""); err != nil {
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
