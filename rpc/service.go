package rpc

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
)

// serviceName is the fully qualified gRPC service name used on the wire and
// in reflection, matching the "<package>.<Service>" convention a .proto
// file would declare.
const serviceName = "acquire.rpc.Acquisition"

// AcquisitionServer is the service interface cmd/acqd implements: every
// request/response that carries a body uses structpb.Struct holding an
// acqconfig-shaped JSON document; the rest use emptypb.Empty.
type AcquisitionServer interface {
	// Configure applies a full acqconfig.AcquisitionConfig JSON document
	// and returns the applied configuration (device-resolved values may
	// differ from the request, e.g. a quantized exposure).
	Configure(context.Context, *structpb.Struct) (*structpb.Struct, error)
	Start(context.Context, *emptypb.Empty) (*emptypb.Empty, error)
	Stop(context.Context, *emptypb.Empty) (*emptypb.Empty, error)
	Abort(context.Context, *emptypb.Empty) (*emptypb.Empty, error)
	Shutdown(context.Context, *emptypb.Empty) (*emptypb.Empty, error)
	GetConfiguration(context.Context, *emptypb.Empty) (*structpb.Struct, error)
	GetConfigurationMetadata(context.Context, *emptypb.Empty) (*structpb.Struct, error)
	// ExecuteTrigger issues a software trigger to one stream's camera. The
	// request is {"stream_id": <int>}.
	ExecuteTrigger(context.Context, *structpb.Struct) (*emptypb.Empty, error)
}

func _Acquisition_Configure_Handler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(structpb.Struct)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(AcquisitionServer).Configure(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/" + serviceName + "/Configure"}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(AcquisitionServer).Configure(ctx, req.(*structpb.Struct))
	}
	return interceptor(ctx, in, info, handler)
}

func _Acquisition_Start_Handler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(emptypb.Empty)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(AcquisitionServer).Start(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/" + serviceName + "/Start"}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(AcquisitionServer).Start(ctx, req.(*emptypb.Empty))
	}
	return interceptor(ctx, in, info, handler)
}

func _Acquisition_Stop_Handler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(emptypb.Empty)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(AcquisitionServer).Stop(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/" + serviceName + "/Stop"}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(AcquisitionServer).Stop(ctx, req.(*emptypb.Empty))
	}
	return interceptor(ctx, in, info, handler)
}

func _Acquisition_Abort_Handler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(emptypb.Empty)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(AcquisitionServer).Abort(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/" + serviceName + "/Abort"}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(AcquisitionServer).Abort(ctx, req.(*emptypb.Empty))
	}
	return interceptor(ctx, in, info, handler)
}

func _Acquisition_Shutdown_Handler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(emptypb.Empty)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(AcquisitionServer).Shutdown(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/" + serviceName + "/Shutdown"}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(AcquisitionServer).Shutdown(ctx, req.(*emptypb.Empty))
	}
	return interceptor(ctx, in, info, handler)
}

func _Acquisition_GetConfiguration_Handler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(emptypb.Empty)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(AcquisitionServer).GetConfiguration(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/" + serviceName + "/GetConfiguration"}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(AcquisitionServer).GetConfiguration(ctx, req.(*emptypb.Empty))
	}
	return interceptor(ctx, in, info, handler)
}

func _Acquisition_GetConfigurationMetadata_Handler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(emptypb.Empty)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(AcquisitionServer).GetConfigurationMetadata(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/" + serviceName + "/GetConfigurationMetadata"}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(AcquisitionServer).GetConfigurationMetadata(ctx, req.(*emptypb.Empty))
	}
	return interceptor(ctx, in, info, handler)
}

func _Acquisition_ExecuteTrigger_Handler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(structpb.Struct)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(AcquisitionServer).ExecuteTrigger(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/" + serviceName + "/ExecuteTrigger"}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(AcquisitionServer).ExecuteTrigger(ctx, req.(*structpb.Struct))
	}
	return interceptor(ctx, in, info, handler)
}

// acquisitionServiceDesc is the hand-written equivalent of the
// *_grpc.pb.go ServiceDesc a .proto file would generate.
var acquisitionServiceDesc = grpc.ServiceDesc{
	ServiceName: serviceName,
	HandlerType: (*AcquisitionServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "Configure", Handler: _Acquisition_Configure_Handler},
		{MethodName: "Start", Handler: _Acquisition_Start_Handler},
		{MethodName: "Stop", Handler: _Acquisition_Stop_Handler},
		{MethodName: "Abort", Handler: _Acquisition_Abort_Handler},
		{MethodName: "Shutdown", Handler: _Acquisition_Shutdown_Handler},
		{MethodName: "GetConfiguration", Handler: _Acquisition_GetConfiguration_Handler},
		{MethodName: "GetConfigurationMetadata", Handler: _Acquisition_GetConfigurationMetadata_Handler},
		{MethodName: "ExecuteTrigger", Handler: _Acquisition_ExecuteTrigger_Handler},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "rpc/service.go",
}

// RegisterAcquisitionServer registers srv against s, the way a generated
// pb.go's RegisterXServer function would.
func RegisterAcquisitionServer(s grpc.ServiceRegistrar, srv AcquisitionServer) {
	s.RegisterService(&acquisitionServiceDesc, srv)
}
