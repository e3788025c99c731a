package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"google.golang.org/genproto/googleapis/api/httpbody"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"

	api "github.com/dpup/trek.ersn.net/server/api/v1"
	"github.com/dpup/trek.ersn.net/server/internal/cache"
	"github.com/dpup/trek.ersn.net/server/internal/config"
	"github.com/dpup/trek.ersn.net/server/internal/lib/geo"
	"github.com/dpup/trek.ersn.net/server/internal/lib/kmltrack"
	"github.com/dpup/trek.ersn.net/server/internal/lib/route"
)

const (
	ContentTypeGeoJSON = "application/geo+json"
	ContentTypeKML     = "application/vnd.google-earth.kml+xml"

	// RevisionHeader carries the state revision a response was built from
	RevisionHeader = "x-route-revision"
)

// RouteService implements the gRPC RouteService. It owns the loaded track
// and everything derived from it; a window update or reload replaces the
// derived state atomically.
type RouteService struct {
	api.UnimplementedRouteServiceServer
	loader    *route.Loader
	assembler *route.Assembler
	cache     *cache.TrackCache
	config    *config.RouteConfig
	logger    *zap.Logger
	now       func() time.Time

	mu       sync.RWMutex
	state    route.State
	revision string
	loadErr  error
	loadedAt time.Time
}

// NewRouteService creates a RouteService with an empty track and the
// configured window. Call Reload to read the track files.
func NewRouteService(cfg *config.RouteConfig, trackCache *cache.TrackCache, logger *zap.Logger) (*RouteService, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	window, err := cfg.Window()
	if err != nil {
		return nil, err
	}

	s := &RouteService{
		loader:    route.NewLoader(trackCache, logger),
		assembler: route.NewAssembler(geo.NewGeodesicCalculator(), route.WithPalette(cfg.Palette)),
		cache:     trackCache,
		config:    cfg,
		logger:    logger,
		now:       time.Now,
		revision:  uuid.NewString(),
	}
	if err := s.assembler.Recompute(&s.state, window); err != nil {
		return nil, err
	}
	return s, nil
}

// Reload reads the track files again. When no files are found the service
// serves empty results. When a file is malformed the previous track is kept.
func (s *RouteService) Reload(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	track, loadErr := s.loader.LoadDir(s.config.DataDir, s.config.Pattern)

	s.mu.Lock()
	defer s.mu.Unlock()

	s.loadErr = loadErr
	s.loadedAt = s.now()

	var notFound *route.NotFoundError
	switch {
	case loadErr == nil:
	case errors.As(loadErr, &notFound):
		track = route.Track{}
	default:
		s.logger.Error("failed to reload track, keeping previous data", zap.Error(loadErr))
		return loadErr
	}

	next := route.State{Track: track}
	if err := s.assembler.Recompute(&next, s.state.Window); err != nil {
		s.loadErr = err
		return fmt.Errorf("failed to assemble route: %w", err)
	}

	s.state = next
	s.revision = uuid.NewString()

	if notFound != nil {
		s.logger.Warn("no track data found", zap.Error(loadErr))
		return loadErr
	}

	s.logger.Info("route reloaded",
		zap.String("revision", s.revision),
		zap.Int("files", len(track.Files)),
		zap.Int("points", len(track.Points)),
		zap.Int("days", next.Collection.Len()),
		zap.Float64("total_distance_km", next.Statistics.TotalDistanceKm))
	return nil
}

// snapshot returns the current state. Slices in the state are never
// modified after publication, so the copy is safe to read without the lock.
func (s *RouteService) snapshot(ctx context.Context) (route.State, error) {
	s.mu.RLock()
	state, revision, loadErr := s.state, s.revision, s.loadErr
	s.mu.RUnlock()

	// A malformed file only fails requests while there is nothing to serve
	var formatErr *kmltrack.FormatError
	if state.Track.Empty() && errors.As(loadErr, &formatErr) {
		return state, status.Errorf(codes.FailedPrecondition, "track data is malformed: %v", loadErr)
	}

	// Only set inside a gRPC call; direct calls have nowhere to send it
	_ = grpc.SetHeader(ctx, metadata.Pairs(RevisionHeader, revision))
	return state, nil
}

// GetRoute returns the day segments as GeoJSON
func (s *RouteService) GetRoute(ctx context.Context, _ *emptypb.Empty) (*httpbody.HttpBody, error) {
	state, err := s.snapshot(ctx)
	if err != nil {
		return nil, err
	}

	data, err := json.Marshal(state.Collection.FeatureCollection())
	if err != nil {
		return nil, status.Errorf(codes.Internal, "failed to encode route: %v", err)
	}
	return &httpbody.HttpBody{ContentType: ContentTypeGeoJSON, Data: data}, nil
}

// GetRouteKML returns the day segments as KML
func (s *RouteService) GetRouteKML(ctx context.Context, _ *emptypb.Empty) (*httpbody.HttpBody, error) {
	state, err := s.snapshot(ctx)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := state.Collection.WriteKML(&buf, "Route "+state.Window.String()); err != nil {
		return nil, status.Errorf(codes.Internal, "failed to encode route: %v", err)
	}
	return &httpbody.HttpBody{ContentType: ContentTypeKML, Data: buf.Bytes()}, nil
}

// GetMeta returns the route statistics
func (s *RouteService) GetMeta(ctx context.Context, _ *emptypb.Empty) (*structpb.Struct, error) {
	state, err := s.snapshot(ctx)
	if err != nil {
		return nil, err
	}
	return toStruct(state.Statistics)
}

// ListDays returns per-day summaries
func (s *RouteService) ListDays(ctx context.Context, _ *emptypb.Empty) (*structpb.Struct, error) {
	state, err := s.snapshot(ctx)
	if err != nil {
		return nil, err
	}

	summaries := state.Collection.Summaries(s.assembler.Calculator(), state.Window)
	return toStruct(map[string]any{"days": summaries})
}

// UpdateWindow replaces the time window and recomputes the route for it.
// Both start_time and end_time are required; an invalid value leaves the
// current window in place.
func (s *RouteService) UpdateWindow(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	fields := req.GetFields()
	start, end := fields["start_time"].GetStringValue(), fields["end_time"].GetStringValue()
	if start == "" || end == "" {
		return nil, status.Error(codes.InvalidArgument, "start_time and end_time are required")
	}

	window, err := route.ParseWindow(start, end)
	if err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}

	s.mu.Lock()
	next := route.State{Track: s.state.Track}
	if err := s.assembler.Recompute(&next, window); err != nil {
		s.mu.Unlock()
		return nil, status.Errorf(codes.Internal, "failed to assemble route: %v", err)
	}
	s.state = next
	s.revision = uuid.NewString()
	revision := s.revision
	s.mu.Unlock()

	s.logger.Info("time window updated",
		zap.String("window", window.String()),
		zap.String("revision", revision),
		zap.Int("days", next.Statistics.Days))

	_ = grpc.SetHeader(ctx, metadata.Pairs(RevisionHeader, revision))
	return toStruct(next.Statistics)
}

// GetPosition reports where a traveler keeping constant pace would be. The
// instant defaults to now. With lat and lon the response also carries the
// distance from that point to the tracker and to the nearest day segment.
func (s *RouteService) GetPosition(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	fields := req.GetFields()

	at := s.now()
	if raw := fields["at"].GetStringValue(); raw != "" {
		parsed, err := route.ParseTimestamp(raw)
		if err != nil {
			return nil, status.Errorf(codes.InvalidArgument, "invalid at %q: %v", raw, err)
		}
		at = parsed
	}

	lat, hasLat := fields["lat"]
	lon, hasLon := fields["lon"]
	if hasLat != hasLon {
		return nil, status.Error(codes.InvalidArgument, "lat and lon must be given together")
	}

	state, err := s.snapshot(ctx)
	if err != nil {
		return nil, err
	}

	result := map[string]any{"at": route.FormatTimestamp(at)}
	if state.Track.Empty() {
		result["progress"] = 0.0
		result["distance_km"] = 0.0
		result["day"] = 1
		return toStruct(result)
	}

	pos, err := route.PositionAt(state.Track, state.Window, at, s.assembler.Calculator())
	if err != nil {
		return nil, status.Errorf(codes.Internal, "failed to locate tracker: %v", err)
	}

	result["lat"] = pos.Point.Latitude
	result["lon"] = pos.Point.Longitude
	result["progress"] = pos.Progress
	result["distance_km"] = pos.DistanceKm
	result["day"] = pos.Day

	if hasLat {
		from, err := geo.NewPoint(lat.GetNumberValue(), lon.GetNumberValue())
		if err != nil {
			return nil, status.Error(codes.InvalidArgument, err.Error())
		}
		result["distance_to_km"] = s.assembler.Calculator().Distance(from, pos.Point)
		if nearest, ok := state.Collection.NearestDay(from, s.assembler.Calculator()); ok {
			result["nearest_day"] = nearest.Day
			result["distance_to_route_km"] = nearest.DistanceKm
		}
	}

	return toStruct(result)
}

// HealthStatus describes the loaded data for health checks
type HealthStatus struct {
	Status   string            `json:"status"`
	Revision string            `json:"revision"`
	Files    []string          `json:"files"`
	Points   int               `json:"points"`
	Days     int               `json:"days"`
	Window   string            `json:"window"`
	LoadedAt string            `json:"loaded_at,omitempty"`
	Error    string            `json:"error,omitempty"`
	Cache    *cache.CacheStats `json:"cache,omitempty"`
}

// Health reports "ok" when a track is loaded, "empty" when there is none and
// "degraded" when the last load failed.
func (s *RouteService) Health() HealthStatus {
	s.mu.RLock()
	defer s.mu.RUnlock()

	h := HealthStatus{
		Status:   "ok",
		Revision: s.revision,
		Files:    append([]string{}, s.state.Track.Files...),
		Points:   len(s.state.Track.Points),
		Days:     s.state.Collection.Len(),
		Window:   s.state.Window.String(),
	}
	if !s.loadedAt.IsZero() {
		h.LoadedAt = route.FormatTimestamp(s.loadedAt)
	}

	var notFound *route.NotFoundError
	switch {
	case s.loadErr == nil && h.Points > 0:
	case s.loadErr == nil, errors.As(s.loadErr, &notFound):
		h.Status = "empty"
	default:
		h.Status = "degraded"
	}
	if s.loadErr != nil {
		h.Error = s.loadErr.Error()
	}

	if s.cache != nil {
		stats := s.cache.Stats()
		h.Cache = &stats
	}
	return h
}

// toStruct converts a JSON-marshalable value into a protobuf Struct
func toStruct(v any) (*structpb.Struct, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, status.Errorf(codes.Internal, "failed to encode response: %v", err)
	}
	st := &structpb.Struct{}
	if err := protojson.Unmarshal(data, st); err != nil {
		return nil, status.Errorf(codes.Internal, "failed to encode response: %v", err)
	}
	return st, nil
}
