package rawstore

import (
	"fmt"
	"os"

	"github.com/scopeacq/acquire/device"
	"github.com/scopeacq/acquire/proptype"
)

type store struct {
	props proptype.StorageProperties
	state device.State
	shape proptype.ImageShape
	file  *os.File
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
	f, err := os.OpenFile(s.props.URI.String(), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return s.state, fmt.Errorf("rawstore: open %s: %w", s.props.URI.String(), err)
	}
	s.file = f
	s.state = device.Running
	return s.state, nil
}

func (s *store) Stop() (device.State, error) {
	if s.file != nil {
		_ = s.file.Close()
		s.file = nil
	}
	s.state = device.Armed
	return s.state, nil
}

func (s *store) Append(frame []byte) (int, device.State, error) {
	if s.state != device.Running {
		return 0, s.state, fmt.Errorf("rawstore: append while %s", s.state)
	}
	n, err := s.file.Write(frame)
	if err != nil {
		return n, s.state, fmt.Errorf("rawstore: write: %w", err)
	}
	return n, s.state, nil
}

func (s *store) ReserveImageShape(shape proptype.ImageShape) error {
	// The raw sink needs no pre-allocation; it only remembers the shape,
	// which GetMeta does not report.
	s.shape = shape
	return nil
}

func (s *store) Close() error {
	if s.file != nil {
		err := s.file.Close()
		s.file = nil
		s.state = device.Closed
		return err
	}
	s.state = device.Closed
	return nil
}
