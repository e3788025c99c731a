package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/NYTimes/gziphandler"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/grpc-ecosystem/grpc-gateway/v2/runtime"
	"go.uber.org/zap"

	api "github.com/dpup/trek.ersn.net/server/api/v1"
	"github.com/dpup/trek.ersn.net/server/internal/config"
	"github.com/dpup/trek.ersn.net/server/internal/logging"
	"github.com/dpup/trek.ersn.net/server/internal/services"
)

// newHTTPHandler serves the JSON API through the gateway, plus health, the
// homepage and optional static files.
func newHTTPHandler(ctx context.Context, cfg config.ServerConfig, svc *services.RouteService, logger *zap.Logger) (http.Handler, error) {
	gateway := runtime.NewServeMux()
	if err := api.RegisterRouteServiceHandlerServer(ctx, gateway, svc); err != nil {
		return nil, fmt.Errorf("failed to register route gateway: %w", err)
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(logging.RequestLogger(logger))
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: cfg.CorsOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		ExposedHeaders: []string{"Grpc-Metadata-" + services.RevisionHeader},
		MaxAge:         300,
	}))

	r.Handle("/api/*", gateway)
	r.Get("/health", healthHandler(svc, logger))
	r.Get("/", homepageHandler(logger))

	if cfg.StaticDir != "" {
		r.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.Dir(cfg.StaticDir))))
	}

	if cfg.Gzip {
		return gziphandler.GzipHandler(r), nil
	}
	return r, nil
}

func healthHandler(svc *services.RouteService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(svc.Health()); err != nil {
			logger.Error("failed to write health response", zap.Error(err))
		}
	}
}

// homepageHandler serves a simple HTML homepage at the server root
func homepageHandler(logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		if _, err := fmt.Fprint(w, homepageHTML); err != nil {
			logger.Error("failed to write homepage HTML", zap.Error(err))
		}
	}
}

const homepageHTML = `<!DOCTYPE html>
<html>
<head>
    <meta charset="utf-8">
    <title>trek.ersn.net</title>
    <style>
        body {
            font-family: 'Courier New', Consolas, monospace;
            background: #000;
            color: #0f0;
            padding: 20px;
            line-height: 1.4;
        }
        a { color: #0ff; text-decoration: none; }
        a:hover { text-decoration: underline; }
        pre { margin: 0; }
        .header { color: #ff0; }
    </style>
</head>
<body>
<pre>
<span class="header">trek.ersn.net</span>

Splits a recorded route into equal-length day segments over a travel window.

<span class="header">API Endpoints:</span>

  <a href="/api/route">GET  /api/route</a>        - Day segments as GeoJSON
  <a href="/api/route.kml">GET  /api/route.kml</a>    - Day segments as KML
  <a href="/api/meta">GET  /api/meta</a>         - Distance, daily distance and speed
  <a href="/api/days">GET  /api/days</a>         - Per-day summaries with encoded polylines
  POST /api/config       - Change the window: {"start_time": "...", "end_time": "..."}
  <a href="/api/position">GET  /api/position</a>     - Tracker position (?at=&amp;lat=&amp;lon=)
  <a href="/health">GET  /health</a>           - Loaded files and revision

<span class="header">Example Usage:</span>
  curl <a href="/api/meta">/api/meta</a>
  curl -X POST -d '{"start_time":"2024-08-10T00:00:00Z","end_time":"2024-08-20T00:00:00Z"}' /api/config
</pre>
</body>
</html>`
