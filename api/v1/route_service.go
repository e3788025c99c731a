// Package v1 defines the trek.v1.RouteService gRPC API and its HTTP gateway.
//
// Messages are protobuf well-known types: requests and metadata travel as
// google.protobuf.Struct and rendered documents (GeoJSON, KML) as
// google.api.HttpBody so the gateway can serve them with their own content
// type.
package v1

import (
	"context"

	"google.golang.org/genproto/googleapis/api/httpbody"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
)

// ServiceName is the fully qualified gRPC service name
const ServiceName = "trek.v1.RouteService"

const (
	RouteService_GetRoute_FullMethodName     = "/trek.v1.RouteService/GetRoute"
	RouteService_GetRouteKML_FullMethodName  = "/trek.v1.RouteService/GetRouteKML"
	RouteService_GetMeta_FullMethodName      = "/trek.v1.RouteService/GetMeta"
	RouteService_ListDays_FullMethodName     = "/trek.v1.RouteService/ListDays"
	RouteService_UpdateWindow_FullMethodName = "/trek.v1.RouteService/UpdateWindow"
	RouteService_GetPosition_FullMethodName  = "/trek.v1.RouteService/GetPosition"
)

// RouteServiceServer is the server API for RouteService
type RouteServiceServer interface {
	// GetRoute returns the day segments as a GeoJSON FeatureCollection
	GetRoute(context.Context, *emptypb.Empty) (*httpbody.HttpBody, error)
	// GetRouteKML returns the day segments as a styled KML document
	GetRouteKML(context.Context, *emptypb.Empty) (*httpbody.HttpBody, error)
	// GetMeta returns the route statistics for the current window
	GetMeta(context.Context, *emptypb.Empty) (*structpb.Struct, error)
	// ListDays returns per-day summaries
	ListDays(context.Context, *emptypb.Empty) (*structpb.Struct, error)
	// UpdateWindow replaces the time window and returns the new statistics
	UpdateWindow(context.Context, *structpb.Struct) (*structpb.Struct, error)
	// GetPosition returns where the tracker is at a given instant
	GetPosition(context.Context, *structpb.Struct) (*structpb.Struct, error)
}

// UnimplementedRouteServiceServer can be embedded for forward compatibility
type UnimplementedRouteServiceServer struct{}

func (UnimplementedRouteServiceServer) GetRoute(context.Context, *emptypb.Empty) (*httpbody.HttpBody, error) {
	return nil, status.Errorf(codes.Unimplemented, "method GetRoute not implemented")
}
func (UnimplementedRouteServiceServer) GetRouteKML(context.Context, *emptypb.Empty) (*httpbody.HttpBody, error) {
	return nil, status.Errorf(codes.Unimplemented, "method GetRouteKML not implemented")
}
func (UnimplementedRouteServiceServer) GetMeta(context.Context, *emptypb.Empty) (*structpb.Struct, error) {
	return nil, status.Errorf(codes.Unimplemented, "method GetMeta not implemented")
}
func (UnimplementedRouteServiceServer) ListDays(context.Context, *emptypb.Empty) (*structpb.Struct, error) {
	return nil, status.Errorf(codes.Unimplemented, "method ListDays not implemented")
}
func (UnimplementedRouteServiceServer) UpdateWindow(context.Context, *structpb.Struct) (*structpb.Struct, error) {
	return nil, status.Errorf(codes.Unimplemented, "method UpdateWindow not implemented")
}
func (UnimplementedRouteServiceServer) GetPosition(context.Context, *structpb.Struct) (*structpb.Struct, error) {
	return nil, status.Errorf(codes.Unimplemented, "method GetPosition not implemented")
}

// RegisterRouteServiceServer registers srv with s
func RegisterRouteServiceServer(s grpc.ServiceRegistrar, srv RouteServiceServer) {
	s.RegisterService(&RouteService_ServiceDesc, srv)
}

func _RouteService_GetRoute_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(emptypb.Empty)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(RouteServiceServer).GetRoute(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: RouteService_GetRoute_FullMethodName}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(RouteServiceServer).GetRoute(ctx, req.(*emptypb.Empty))
	}
	return interceptor(ctx, in, info, handler)
}

func _RouteService_GetRouteKML_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(emptypb.Empty)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(RouteServiceServer).GetRouteKML(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: RouteService_GetRouteKML_FullMethodName}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(RouteServiceServer).GetRouteKML(ctx, req.(*emptypb.Empty))
	}
	return interceptor(ctx, in, info, handler)
}

func _RouteService_GetMeta_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(emptypb.Empty)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(RouteServiceServer).GetMeta(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: RouteService_GetMeta_FullMethodName}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(RouteServiceServer).GetMeta(ctx, req.(*emptypb.Empty))
	}
	return interceptor(ctx, in, info, handler)
}

func _RouteService_ListDays_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(emptypb.Empty)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(RouteServiceServer).ListDays(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: RouteService_ListDays_FullMethodName}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(RouteServiceServer).ListDays(ctx, req.(*emptypb.Empty))
	}
	return interceptor(ctx, in, info, handler)
}

func _RouteService_UpdateWindow_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(structpb.Struct)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(RouteServiceServer).UpdateWindow(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: RouteService_UpdateWindow_FullMethodName}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(RouteServiceServer).UpdateWindow(ctx, req.(*structpb.Struct))
	}
	return interceptor(ctx, in, info, handler)
}

func _RouteService_GetPosition_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(structpb.Struct)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(RouteServiceServer).GetPosition(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: RouteService_GetPosition_FullMethodName}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(RouteServiceServer).GetPosition(ctx, req.(*structpb.Struct))
	}
	return interceptor(ctx, in, info, handler)
}

// RouteService_ServiceDesc is the grpc.ServiceDesc for RouteService
var RouteService_ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*RouteServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "GetRoute", Handler: _RouteService_GetRoute_Handler},
		{MethodName: "GetRouteKML", Handler: _RouteService_GetRouteKML_Handler},
		{MethodName: "GetMeta", Handler: _RouteService_GetMeta_Handler},
		{MethodName: "ListDays", Handler: _RouteService_ListDays_Handler},
		{MethodName: "UpdateWindow", Handler: _RouteService_UpdateWindow_Handler},
		{MethodName: "GetPosition", Handler: _RouteService_GetPosition_Handler},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "trek/v1/route.proto",
}

// RouteServiceClient is the client API for RouteService
type RouteServiceClient interface {
	GetRoute(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (*httpbody.HttpBody, error)
	GetRouteKML(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (*httpbody.HttpBody, error)
	GetMeta(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (*structpb.Struct, error)
	ListDays(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (*structpb.Struct, error)
	UpdateWindow(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error)
	GetPosition(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error)
}

type routeServiceClient struct {
	cc grpc.ClientConnInterface
}

// NewRouteServiceClient creates a client on cc
func NewRouteServiceClient(cc grpc.ClientConnInterface) RouteServiceClient {
	return &routeServiceClient{cc}
}

func (c *routeServiceClient) GetRoute(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (*httpbody.HttpBody, error) {
	out := new(httpbody.HttpBody)
	if err := c.cc.Invoke(ctx, RouteService_GetRoute_FullMethodName, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *routeServiceClient) GetRouteKML(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (*httpbody.HttpBody, error) {
	out := new(httpbody.HttpBody)
	if err := c.cc.Invoke(ctx, RouteService_GetRouteKML_FullMethodName, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *routeServiceClient) GetMeta(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, RouteService_GetMeta_FullMethodName, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *routeServiceClient) ListDays(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, RouteService_ListDays_FullMethodName, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *routeServiceClient) UpdateWindow(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, RouteService_UpdateWindow_FullMethodName, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *routeServiceClient) GetPosition(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, RouteService_GetPosition_FullMethodName, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}
