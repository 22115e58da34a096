package nullstore

import (
	"fmt"

	"github.com/scopeacq/acquire/device"
	"github.com/scopeacq/acquire/proptype"
)

type store struct {
	props      proptype.StorageProperties
	state      device.State
	bytesTotal uint64
	frameCount uint64
}

func newStore() *store {
	return &store{state: device.AwaitingConfiguration}
}

func (s *store) Set(p proptype.StorageProperties) (device.State, error) {
	proptype.CopyStorageProperties(&s.props, p)
	stripped, _ := proptype.NormalizeURI(s.props.URI.String())
	s.props.URI = proptype.NewOwnedString(stripped)
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
	s.state = device.Running
	return s.state, nil
}

func (s *store) Stop() (device.State, error) {
	s.state = device.Armed
	return s.state, nil
}

func (s *store) Append(frame []byte) (int, device.State, error) {
	if s.state != device.Running {
		return 0, s.state, fmt.Errorf("nullstore: append while %s", s.state)
	}
	s.bytesTotal += uint64(len(frame))
	s.frameCount++
	return len(frame), s.state, nil
}

func (s *store) ReserveImageShape(proptype.ImageShape) error {
	// The shape carries no storage-layout implication for a sink that
	// keeps nothing.
	return nil
}

func (s *store) Close() error {
	s.state = device.Closed
	return nil
}
