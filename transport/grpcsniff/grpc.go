package grpcsniff

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

// SnifferServer is the server API for the Sniffer gRPC service.
//
// Messages are protobuf well-known wrapper types so the package needs no
// protoc/codegen toolchain.
type SnifferServer interface {
	Validate(context.Context, *wrapperspb.BytesValue) (*wrapperspb.BoolValue, error)
	DetectEOL(context.Context, *wrapperspb.BytesValue) (*wrapperspb.StringValue, error)
}

// UnimplementedSnifferServer can be embedded to have forward compatible implementations.
type UnimplementedSnifferServer struct{}

func (UnimplementedSnifferServer) Validate(context.Context, *wrapperspb.BytesValue) (*wrapperspb.BoolValue, error) {
	return nil, status.Error(codes.Unimplemented, "method Validate not implemented")
}
func (UnimplementedSnifferServer) DetectEOL(context.Context, *wrapperspb.BytesValue) (*wrapperspb.StringValue, error) {
	return nil, status.Error(codes.Unimplemented, "method DetectEOL not implemented")
}

// RegisterSnifferServer registers the Sniffer service on a gRPC server.
func RegisterSnifferServer(s grpc.ServiceRegistrar, srv SnifferServer) {
	s.RegisterService(&Sniffer_ServiceDesc, srv)
}

// SnifferClient is the client API for the Sniffer gRPC service.
type SnifferClient interface {
	Validate(ctx context.Context, in *wrapperspb.BytesValue, opts ...grpc.CallOption) (*wrapperspb.BoolValue, error)
	DetectEOL(ctx context.Context, in *wrapperspb.BytesValue, opts ...grpc.CallOption) (*wrapperspb.StringValue, error)
}

const (
	serviceName     = "xdao.charsniff.v1.Sniffer"
	methodValidate  = "/" + serviceName + "/Validate"
	methodDetectEOL = "/" + serviceName + "/DetectEOL"
)

type snifferClient struct{ cc grpc.ClientConnInterface }

func NewSnifferClient(cc grpc.ClientConnInterface) SnifferClient { return &snifferClient{cc: cc} }

func (c *snifferClient) Validate(ctx context.Context, in *wrapperspb.BytesValue, opts ...grpc.CallOption) (*wrapperspb.BoolValue, error) {
	out := new(wrapperspb.BoolValue)
	if err := c.cc.Invoke(ctx, methodValidate, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *snifferClient) DetectEOL(ctx context.Context, in *wrapperspb.BytesValue, opts ...grpc.CallOption) (*wrapperspb.StringValue, error) {
	out := new(wrapperspb.StringValue)
	if err := c.cc.Invoke(ctx, methodDetectEOL, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func _Sniffer_Validate_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(wrapperspb.BytesValue)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(SnifferServer).Validate(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: methodValidate}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(SnifferServer).Validate(ctx, req.(*wrapperspb.BytesValue))
	}
	return interceptor(ctx, in, info, handler)
}

func _Sniffer_DetectEOL_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(wrapperspb.BytesValue)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(SnifferServer).DetectEOL(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: methodDetectEOL}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(SnifferServer).DetectEOL(ctx, req.(*wrapperspb.BytesValue))
	}
	return interceptor(ctx, in, info, handler)
}

// Sniffer_ServiceDesc is the grpc.ServiceDesc for the Sniffer service.
var Sniffer_ServiceDesc = grpc.ServiceDesc{
	ServiceName: serviceName,
	HandlerType: (*SnifferServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "Validate", Handler: _Sniffer_Validate_Handler},
		{MethodName: "DetectEOL", Handler: _Sniffer_DetectEOL_Handler},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "sniffer.proto",
}
