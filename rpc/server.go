package rpc

import (
	"context"
	"fmt"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/scopeacq/acquire/acqconfig"
	"github.com/scopeacq/acquire/acqlog"
	"github.com/scopeacq/acquire/runtime"
)

// Server implements AcquisitionServer over a *runtime.Runtime, the same
// control surface cmd/acqctl drives locally, wrapped for remote operators.
type Server struct {
	rt     *runtime.Runtime
	logger *acqlog.Logger
}

// NewServer builds an RPC server bound to an already-Init'd runtime.
func NewServer(rt *runtime.Runtime, logger *acqlog.Logger) *Server {
	return &Server{rt: rt, logger: logger}
}

func (s *Server) Configure(_ context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	var cfg acqconfig.AcquisitionConfig
	if err := fromStruct(req, &cfg); err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}
	requested, err := cfg.ToRuntimeProperties()
	if err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}
	if err := s.rt.Configure(&requested); err != nil {
		return nil, status.Error(codes.FailedPrecondition, err.Error())
	}
	out, err := toStruct(acqconfig.FromRuntimeProperties(requested))
	if err != nil {
		return nil, status.Error(codes.Internal, err.Error())
	}
	return out, nil
}

func (s *Server) Start(context.Context, *emptypb.Empty) (*emptypb.Empty, error) {
	if err := s.rt.Start(); err != nil {
		return nil, status.Error(codes.FailedPrecondition, err.Error())
	}
	return &emptypb.Empty{}, nil
}

func (s *Server) Stop(context.Context, *emptypb.Empty) (*emptypb.Empty, error) {
	if err := s.rt.Stop(); err != nil {
		return nil, status.Error(codes.Internal, err.Error())
	}
	return &emptypb.Empty{}, nil
}

func (s *Server) Abort(context.Context, *emptypb.Empty) (*emptypb.Empty, error) {
	if err := s.rt.Abort(); err != nil {
		return nil, status.Error(codes.Internal, err.Error())
	}
	return &emptypb.Empty{}, nil
}

func (s *Server) Shutdown(context.Context, *emptypb.Empty) (*emptypb.Empty, error) {
	if err := s.rt.Shutdown(); err != nil {
		return nil, status.Error(codes.Internal, err.Error())
	}
	return &emptypb.Empty{}, nil
}

func (s *Server) GetConfiguration(context.Context, *emptypb.Empty) (*structpb.Struct, error) {
	props, err := s.rt.GetConfiguration()
	if err != nil {
		return nil, status.Error(codes.FailedPrecondition, err.Error())
	}
	out, err := toStruct(acqconfig.FromRuntimeProperties(props))
	if err != nil {
		return nil, status.Error(codes.Internal, err.Error())
	}
	return out, nil
}

func (s *Server) GetConfigurationMetadata(context.Context, *emptypb.Empty) (*structpb.Struct, error) {
	entries, err := s.rt.GetConfigurationMetadata()
	if err != nil {
		return nil, status.Error(codes.FailedPrecondition, err.Error())
	}
	out, err := toStruct(toMetadataResponse(entries))
	if err != nil {
		return nil, status.Error(codes.Internal, err.Error())
	}
	return out, nil
}

func (s *Server) ExecuteTrigger(_ context.Context, req *structpb.Struct) (*emptypb.Empty, error) {
	var body struct {
		StreamID int `json:"stream_id"`
	}
	if err := fromStruct(req, &body); err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}
	if err := s.rt.ExecuteTrigger(body.StreamID); err != nil {
		return nil, status.Error(codes.FailedPrecondition, fmt.Sprintf("execute trigger: %v", err))
	}
	return &emptypb.Empty{}, nil
}
