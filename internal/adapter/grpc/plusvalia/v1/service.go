// Package plusvaliav1 describes the plusvalia.v1.PlusvaliaService gRPC service.
//
// Messages are the well-known google.protobuf.Struct and google.protobuf.Empty
// types, so clients need no generated stubs: any gRPC client can call the
// service with a JSON-shaped Struct.
package plusvaliav1

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
)

const (
	ServiceName = "plusvalia.v1.PlusvaliaService"

	PlusvaliaService_Calculate_FullMethodName          = "/plusvalia.v1.PlusvaliaService/Calculate"
	PlusvaliaService_ListMunicipalities_FullMethodName = "/plusvalia.v1.PlusvaliaService/ListMunicipalities"
	PlusvaliaService_GetMunicipality_FullMethodName    = "/plusvalia.v1.PlusvaliaService/GetMunicipality"
)

// PlusvaliaServiceServer is the server API for PlusvaliaService
type PlusvaliaServiceServer interface {
	Calculate(context.Context, *structpb.Struct) (*structpb.Struct, error)
	ListMunicipalities(context.Context, *emptypb.Empty) (*structpb.Struct, error)
	GetMunicipality(context.Context, *structpb.Struct) (*structpb.Struct, error)
}

// UnimplementedPlusvaliaServiceServer can be embedded to have forward compatible implementations
type UnimplementedPlusvaliaServiceServer struct{}

func (UnimplementedPlusvaliaServiceServer) Calculate(context.Context, *structpb.Struct) (*structpb.Struct, error) {
	return nil, status.Errorf(codes.Unimplemented, "method Calculate not implemented")
}

func (UnimplementedPlusvaliaServiceServer) ListMunicipalities(context.Context, *emptypb.Empty) (*structpb.Struct, error) {
	return nil, status.Errorf(codes.Unimplemented, "method ListMunicipalities not implemented")
}

func (UnimplementedPlusvaliaServiceServer) GetMunicipality(context.Context, *structpb.Struct) (*structpb.Struct, error) {
	return nil, status.Errorf(codes.Unimplemented, "method GetMunicipality not implemented")
}

// RegisterPlusvaliaServiceServer registers srv on s
func RegisterPlusvaliaServiceServer(s grpc.ServiceRegistrar, srv PlusvaliaServiceServer) {
	s.RegisterService(&PlusvaliaService_ServiceDesc, srv)
}

func _PlusvaliaService_Calculate_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(structpb.Struct)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(PlusvaliaServiceServer).Calculate(ctx, in)
	}
	info := &grpc.UnaryServerInfo{
		Server:     srv,
		FullMethod: PlusvaliaService_Calculate_FullMethodName,
	}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(PlusvaliaServiceServer).Calculate(ctx, req.(*structpb.Struct))
	}
	return interceptor(ctx, in, info, handler)
}

func _PlusvaliaService_ListMunicipalities_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(emptypb.Empty)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(PlusvaliaServiceServer).ListMunicipalities(ctx, in)
	}
	info := &grpc.UnaryServerInfo{
		Server:     srv,
		FullMethod: PlusvaliaService_ListMunicipalities_FullMethodName,
	}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(PlusvaliaServiceServer).ListMunicipalities(ctx, req.(*emptypb.Empty))
	}
	return interceptor(ctx, in, info, handler)
}

func _PlusvaliaService_GetMunicipality_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(structpb.Struct)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(PlusvaliaServiceServer).GetMunicipality(ctx, in)
	}
	info := &grpc.UnaryServerInfo{
		Server:     srv,
		FullMethod: PlusvaliaService_GetMunicipality_FullMethodName,
	}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(PlusvaliaServiceServer).GetMunicipality(ctx, req.(*structpb.Struct))
	}
	return interceptor(ctx, in, info, handler)
}

// PlusvaliaService_ServiceDesc is the grpc.ServiceDesc for PlusvaliaService
var PlusvaliaService_ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*PlusvaliaServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{
			MethodName: "Calculate",
			Handler:    _PlusvaliaService_Calculate_Handler,
		},
		{
			MethodName: "ListMunicipalities",
			Handler:    _PlusvaliaService_ListMunicipalities_Handler,
		},
		{
			MethodName: "GetMunicipality",
			Handler:    _PlusvaliaService_GetMunicipality_Handler,
		},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: FileName,
}

// PlusvaliaServiceClient is the client API for PlusvaliaService
type PlusvaliaServiceClient interface {
	Calculate(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error)
	ListMunicipalities(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (*structpb.Struct, error)
	GetMunicipality(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error)
}

type plusvaliaServiceClient struct {
	cc grpc.ClientConnInterface
}

// NewPlusvaliaServiceClient creates a client on top of cc
func NewPlusvaliaServiceClient(cc grpc.ClientConnInterface) PlusvaliaServiceClient {
	return &plusvaliaServiceClient{cc}
}

func (c *plusvaliaServiceClient) Calculate(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, PlusvaliaService_Calculate_FullMethodName, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *plusvaliaServiceClient) ListMunicipalities(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, PlusvaliaService_ListMunicipalities_FullMethodName, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *plusvaliaServiceClient) GetMunicipality(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, PlusvaliaService_GetMunicipality_FullMethodName, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}
