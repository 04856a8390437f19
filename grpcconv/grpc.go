package grpcconv

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

// ConverterServer is the server API for the Converter gRPC service.
//
// Requests and replies are protobuf well-known wrapper types, so the service
// needs no protoc/codegen step.
//
// Proto definition: converter.proto.
type ConverterServer interface {
	ToXML(context.Context, *wrapperspb.BytesValue) (*wrapperspb.BytesValue, error)
	FromXML(context.Context, *wrapperspb.BytesValue) (*wrapperspb.BytesValue, error)
}

// UnimplementedConverterServer can be embedded to have forward compatible implementations.
type UnimplementedConverterServer struct{}

func (UnimplementedConverterServer) ToXML(context.Context, *wrapperspb.BytesValue) (*wrapperspb.BytesValue, error) {
	return nil, status.Error(codes.Unimplemented, "method ToXML not implemented")
}
func (UnimplementedConverterServer) FromXML(context.Context, *wrapperspb.BytesValue) (*wrapperspb.BytesValue, error) {
	return nil, status.Error(codes.Unimplemented, "method FromXML not implemented")
}

// RegisterConverterServer registers the Converter service on a gRPC server.
func RegisterConverterServer(s grpc.ServiceRegistrar, srv ConverterServer) {
	s.RegisterService(&Converter_ServiceDesc, srv)
}

const (
	serviceName   = "xdao.qblxml.grpcconv.v1.Converter"
	methodToXML   = "/" + serviceName + "/ToXML"
	methodFromXML = "/" + serviceName + "/FromXML"
)

// ConverterClient is the client API for the Converter gRPC service.
type ConverterClient interface {
	ToXML(ctx context.Context, in *wrapperspb.BytesValue, opts ...grpc.CallOption) (*wrapperspb.BytesValue, error)
	FromXML(ctx context.Context, in *wrapperspb.BytesValue, opts ...grpc.CallOption) (*wrapperspb.BytesValue, error)
}

type converterClient struct{ cc grpc.ClientConnInterface }

func NewConverterClient(cc grpc.ClientConnInterface) ConverterClient {
	return &converterClient{cc: cc}
}

func (c *converterClient) ToXML(ctx context.Context, in *wrapperspb.BytesValue, opts ...grpc.CallOption) (*wrapperspb.BytesValue, error) {
	out := new(wrapperspb.BytesValue)
	if err := c.cc.Invoke(ctx, methodToXML, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *converterClient) FromXML(ctx context.Context, in *wrapperspb.BytesValue, opts ...grpc.CallOption) (*wrapperspb.BytesValue, error) {
	out := new(wrapperspb.BytesValue)
	if err := c.cc.Invoke(ctx, methodFromXML, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func _Converter_ToXML_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(wrapperspb.BytesValue)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(ConverterServer).ToXML(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: methodToXML}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(ConverterServer).ToXML(ctx, req.(*wrapperspb.BytesValue))
	}
	return interceptor(ctx, in, info, handler)
}

func _Converter_FromXML_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(wrapperspb.BytesValue)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(ConverterServer).FromXML(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: methodFromXML}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(ConverterServer).FromXML(ctx, req.(*wrapperspb.BytesValue))
	}
	return interceptor(ctx, in, info, handler)
}

// Converter_ServiceDesc is the grpc.ServiceDesc for the Converter service.
var Converter_ServiceDesc = grpc.ServiceDesc{
	ServiceName: serviceName,
	HandlerType: (*ConverterServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "ToXML", Handler: _Converter_ToXML_Handler},
		{MethodName: "FromXML", Handler: _Converter_FromXML_Handler},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "converter.proto",
}
