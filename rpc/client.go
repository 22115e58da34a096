package rpc

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
)

// AcquisitionClient is the hand-written equivalent of a generated pb.go
// client stub, used by cmd/acqctl's --remote mode.
type AcquisitionClient interface {
	Configure(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error)
	Start(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (*emptypb.Empty, error)
	Stop(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (*emptypb.Empty, error)
	Abort(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (*emptypb.Empty, error)
	Shutdown(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (*emptypb.Empty, error)
	GetConfiguration(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (*structpb.Struct, error)
	GetConfigurationMetadata(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (*structpb.Struct, error)
	ExecuteTrigger(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*emptypb.Empty, error)
}

type acquisitionClient struct {
	cc grpc.ClientConnInterface
}

// NewAcquisitionClient wraps an established *grpc.ClientConn.
func NewAcquisitionClient(cc grpc.ClientConnInterface) AcquisitionClient {
	return &acquisitionClient{cc: cc}
}

func (c *acquisitionClient) Configure(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, "/"+serviceName+"/Configure", in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *acquisitionClient) Start(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (*emptypb.Empty, error) {
	out := new(emptypb.Empty)
	if err := c.cc.Invoke(ctx, "/"+serviceName+"/Start", in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *acquisitionClient) Stop(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (*emptypb.Empty, error) {
	out := new(emptypb.Empty)
	if err := c.cc.Invoke(ctx, "/"+serviceName+"/Stop", in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *acquisitionClient) Abort(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (*emptypb.Empty, error) {
	out := new(emptypb.Empty)
	if err := c.cc.Invoke(ctx, "/"+serviceName+"/Abort", in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *acquisitionClient) Shutdown(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (*emptypb.Empty, error) {
	out := new(emptypb.Empty)
	if err := c.cc.Invoke(ctx, "/"+serviceName+"/Shutdown", in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *acquisitionClient) GetConfiguration(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, "/"+serviceName+"/GetConfiguration", in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *acquisitionClient) GetConfigurationMetadata(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, "/"+serviceName+"/GetConfigurationMetadata", in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *acquisitionClient) ExecuteTrigger(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*emptypb.Empty, error) {
	out := new(emptypb.Empty)
	if err := c.cc.Invoke(ctx, "/"+serviceName+"/ExecuteTrigger", in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}
