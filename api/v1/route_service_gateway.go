package v1

import (
	"context"
	"io"
	"net/http"
	"strconv"

	"github.com/grpc-ecosystem/grpc-gateway/v2/runtime"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
)

// HTTP paths served by the gateway
const (
	PathRoute    = "/api/route"
	PathRouteKML = "/api/route.kml"
	PathMeta     = "/api/meta"
	PathDays     = "/api/days"
	PathConfig   = "/api/config"
	PathPosition = "/api/position"
)

type localCall func(ctx context.Context, req *http.Request) (proto.Message, error)

// RegisterRouteServiceHandlerServer registers the HTTP bindings of
// RouteService on mux, calling server directly without a network hop.
func RegisterRouteServiceHandlerServer(ctx context.Context, mux *runtime.ServeMux, server RouteServiceServer) error {
	bindings := []struct {
		method, path, rpc string
		call              localCall
	}{
		{http.MethodGet, PathRoute, RouteService_GetRoute_FullMethodName,
			func(ctx context.Context, _ *http.Request) (proto.Message, error) {
				return server.GetRoute(ctx, &emptypb.Empty{})
			}},
		{http.MethodGet, PathRouteKML, RouteService_GetRouteKML_FullMethodName,
			func(ctx context.Context, _ *http.Request) (proto.Message, error) {
				return server.GetRouteKML(ctx, &emptypb.Empty{})
			}},
		{http.MethodGet, PathMeta, RouteService_GetMeta_FullMethodName,
			func(ctx context.Context, _ *http.Request) (proto.Message, error) {
				return server.GetMeta(ctx, &emptypb.Empty{})
			}},
		{http.MethodGet, PathDays, RouteService_ListDays_FullMethodName,
			func(ctx context.Context, _ *http.Request) (proto.Message, error) {
				return server.ListDays(ctx, &emptypb.Empty{})
			}},
		{http.MethodPost, PathConfig, RouteService_UpdateWindow_FullMethodName,
			func(ctx context.Context, req *http.Request) (proto.Message, error) {
				in, err := decodeBody(mux, req)
				if err != nil {
					return nil, err
				}
				return server.UpdateWindow(ctx, in)
			}},
		{http.MethodGet, PathPosition, RouteService_GetPosition_FullMethodName,
			func(ctx context.Context, req *http.Request) (proto.Message, error) {
				in, err := positionQuery(req)
				if err != nil {
					return nil, err
				}
				return server.GetPosition(ctx, in)
			}},
	}

	for _, b := range bindings {
		if err := mux.HandlePath(b.method, b.path, localHandler(mux, b.path, b.rpc, b.call)); err != nil {
			return err
		}
	}
	return nil
}

func localHandler(mux *runtime.ServeMux, pattern, rpc string, call localCall) runtime.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request, _ map[string]string) {
		ctx, cancel := context.WithCancel(req.Context())
		defer cancel()

		var stream runtime.ServerTransportStream
		ctx = grpc.NewContextWithServerTransportStream(ctx, &stream)
		_, outboundMarshaler := runtime.MarshalerForRequest(mux, req)

		annotatedContext, err := runtime.AnnotateIncomingContext(ctx, mux, req, rpc, runtime.WithHTTPPathPattern(pattern))
		if err != nil {
			runtime.HTTPError(ctx, mux, outboundMarshaler, w, req, err)
			return
		}

		resp, err := call(annotatedContext, req)
		md := runtime.ServerMetadata{HeaderMD: stream.Header(), TrailerMD: stream.Trailer()}
		annotatedContext = runtime.NewServerMetadataContext(annotatedContext, md)
		if err != nil {
			runtime.HTTPError(annotatedContext, mux, outboundMarshaler, w, req, err)
			return
		}

		runtime.ForwardResponseMessage(annotatedContext, mux, outboundMarshaler, w, req, resp, mux.GetForwardResponseOptions()...)
	}
}

func decodeBody(mux *runtime.ServeMux, req *http.Request) (*structpb.Struct, error) {
	inboundMarshaler, _ := runtime.MarshalerForRequest(mux, req)
	in := &structpb.Struct{}
	if err := inboundMarshaler.NewDecoder(req.Body).Decode(in); err != nil && err != io.EOF {
		return nil, status.Errorf(codes.InvalidArgument, "%v", err)
	}
	return in, nil
}

// positionQuery builds a GetPosition request from ?at=&lat=&lon=
func positionQuery(req *http.Request) (*structpb.Struct, error) {
	query := req.URL.Query()
	fields := map[string]any{}

	if at := query.Get("at"); at != "" {
		fields["at"] = at
	}
	for _, key := range []string{"lat", "lon"} {
		raw := query.Get(key)
		if raw == "" {
			continue
		}
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return nil, status.Errorf(codes.InvalidArgument, "invalid %s %q", key, raw)
		}
		fields[key] = v
	}

	in, err := structpb.NewStruct(fields)
	if err != nil {
		return nil, status.Errorf(codes.InvalidArgument, "%v", err)
	}
	return in, nil
}
