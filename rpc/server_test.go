package rpc

import (
	"context"
	"sync"
	"testing"

	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/scopeacq/acquire/acqconfig"
	"github.com/scopeacq/acquire/acqlog"
	"github.com/scopeacq/acquire/device"
	"github.com/scopeacq/acquire/proptype"
	"github.com/scopeacq/acquire/runtime"
)

type stubCamera struct {
	mu    sync.Mutex
	state device.State
	shape proptype.ImageShape
	props proptype.CameraProperties
}

func (c *stubCamera) Set(p proptype.CameraProperties) (device.State, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if p.Width <= 0 || p.Height <= 0 {
		c.state = device.AwaitingConfiguration
		return c.state, nil
	}
	c.props = p
	c.shape = proptype.NewImageShape(p.Width, p.Height, p.SampleType)
	c.state = device.Armed
	return c.state, nil
}

func (c *stubCamera) Get() (proptype.CameraProperties, error) { return c.props, nil }
func (c *stubCamera) GetMeta() (device.CameraMetadata, error) {
	return device.CameraMetadata{WidthRange: [2]int{1, 64}, HeightRange: [2]int{1, 64}}, nil
}
func (c *stubCamera) GetShape() (proptype.ImageShape, error) { return c.shape, nil }
func (c *stubCamera) Start() (device.State, error)           { c.state = device.Running; return c.state, nil }
func (c *stubCamera) Stop() (device.State, error)            { c.state = device.Armed; return c.state, nil }
func (c *stubCamera) ExecuteTrigger() error                  { return nil }
func (c *stubCamera) GetFrame(buf []byte) (int, proptype.FrameInfo, error) {
	return 0, proptype.FrameInfo{}, device.ErrAgain
}

type stubStorage struct {
	state device.State
}

func (s *stubStorage) Set(proptype.StorageProperties) (device.State, error) {
	s.state = device.Armed
	return s.state, nil
}
func (s *stubStorage) Get() (proptype.StorageProperties, error)  { return proptype.StorageProperties{}, nil }
func (s *stubStorage) GetMeta() (device.StorageMetadata, error)  { return device.StorageMetadata{}, nil }
func (s *stubStorage) Start() (device.State, error)              { s.state = device.Running; return s.state, nil }
func (s *stubStorage) Stop() (device.State, error)                { s.state = device.Armed; return s.state, nil }
func (s *stubStorage) Append(frame []byte) (int, device.State, error) {
	return len(frame), device.Running, nil
}
func (s *stubStorage) ReserveImageShape(proptype.ImageShape) error { return nil }
func (s *stubStorage) Close() error                                { return nil }

type stubDriver struct {
	name string
	id   proptype.Identifier
	open func() device.Instance
}

func (d *stubDriver) Name() string                             { return d.name }
func (d *stubDriver) DeviceCount() int                          { return 1 }
func (d *stubDriver) Describe(int) (proptype.Identifier, error) { return d.id, nil }
func (d *stubDriver) Open(int) (device.Instance, error)         { return d.open(), nil }
func (d *stubDriver) Close(device.Instance) error                { return nil }
func (d *stubDriver) Shutdown() error                            { return nil }

var registerStubDriversOnce sync.Once

func registerStubDrivers() {
	registerStubDriversOnce.Do(func() {
		device.RegisterDriver(&stubDriver{
			name: "rpc-stub-camera",
			id:   proptype.Identifier{Kind: proptype.KindCamera, Name: "simulated: uniform random"},
			open: func() device.Instance {
				return device.Instance{Camera: &stubCamera{state: device.AwaitingConfiguration}}
			},
		})
		device.RegisterDriver(&stubDriver{
			name: "rpc-stub-storage",
			id:   proptype.Identifier{Kind: proptype.KindStorage, Name: "trash"},
			open: func() device.Instance {
				return device.Instance{Storage: &stubStorage{state: device.AwaitingConfiguration}}
			},
		})
	})
}

func newTestServer(t *testing.T) *Server {
	t.Helper()
	registerStubDrivers()
	logger, err := acqlog.New(false, nil)
	if err != nil {
		t.Fatalf("acqlog.New: %v", err)
	}
	rt := runtime.New(logger)
	if err := rt.Init(1); err != nil {
		t.Fatalf("Init: %v", err)
	}
	return NewServer(rt, logger)
}

func TestServerConfigureStartStopRoundTrip(t *testing.T) {
	s := newTestServer(t)
	ctx := context.Background()

	cfg := acqconfig.AcquisitionConfig{Streams: []acqconfig.StreamConfig{{
		Camera:  acqconfig.CameraConfig{Pattern: "simulated: uniform random", SampleType: "u8", Width: 8, Height: 8},
		Storage: acqconfig.StorageConfig{Pattern: "trash"},
	}}}
	req, err := toStruct(cfg)
	if err != nil {
		t.Fatalf("toStruct: %v", err)
	}

	applied, err := s.Configure(ctx, req)
	if err != nil {
		t.Fatalf("Configure: %v", err)
	}
	var appliedCfg acqconfig.AcquisitionConfig
	if err := fromStruct(applied, &appliedCfg); err != nil {
		t.Fatalf("fromStruct: %v", err)
	}
	if len(appliedCfg.Streams) != 1 || appliedCfg.Streams[0].Camera.Width != 8 {
		t.Fatalf("applied = %+v", appliedCfg)
	}

	if _, err := s.Start(ctx, &emptypb.Empty{}); err != nil {
		t.Fatalf("Start: %v", err)
	}

	meta, err := s.GetConfigurationMetadata(ctx, &emptypb.Empty{})
	if err != nil {
		t.Fatalf("GetConfigurationMetadata: %v", err)
	}
	var mr metadataResponse
	if err := fromStruct(meta, &mr); err != nil {
		t.Fatalf("fromStruct metadata: %v", err)
	}
	if len(mr.Streams) != 1 || mr.Streams[0].Shape.Width != 8 {
		t.Fatalf("metadata = %+v", mr)
	}

	if _, err := s.Stop(ctx, &emptypb.Empty{}); err != nil {
		t.Fatalf("Stop: %v", err)
	}
	if _, err := s.Shutdown(ctx, &emptypb.Empty{}); err != nil {
		t.Fatalf("Shutdown: %v", err)
	}
}

func TestServerExecuteTriggerRejectsUnknownStream(t *testing.T) {
	s := newTestServer(t)
	req, _ := structpb.NewStruct(map[string]any{"stream_id": float64(5)})
	if _, err := s.ExecuteTrigger(context.Background(), req); err == nil {
		t.Fatal("expected an error for an out-of-range stream id")
	}
}
