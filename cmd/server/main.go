package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	grpclogging "github.com/grpc-ecosystem/go-grpc-middleware/v2/interceptors/logging"
	"github.com/grpc-ecosystem/go-grpc-middleware/v2/interceptors/recovery"
	"github.com/spf13/cobra"
	"go.uber.org/multierr"
	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	api "github.com/dpup/trek.ersn.net/server/api/v1"
	"github.com/dpup/trek.ersn.net/server/internal/cache"
	"github.com/dpup/trek.ersn.net/server/internal/config"
	"github.com/dpup/trek.ersn.net/server/internal/logging"
	"github.com/dpup/trek.ersn.net/server/internal/services"
)

func main() {
	var configPath, dataDir string
	var port int

	cmd := &cobra.Command{
		Use:           "server",
		Short:         "Serve a multi-day route split into equal daily segments",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			overrides := map[string]any{}
			if cmd.Flags().Changed("data-dir") {
				overrides["route.data_dir"] = dataDir
			}
			if cmd.Flags().Changed("port") {
				overrides["server.port"] = port
			}

			cfg, err := config.Load(configPath, overrides)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return run(ctx, cfg)
		},
	}
	cmd.Flags().StringVarP(&configPath, "config", "c", os.Getenv("TREK_CONFIG"), "path to a YAML config file")
	cmd.Flags().StringVar(&dataDir, "data-dir", "", "directory holding the track files")
	cmd.Flags().IntVarP(&port, "port", "p", 0, "HTTP port")

	if err := cmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "server: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config) (err error) {
	logger, err := logging.New(cfg.Logging)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	trackCache := cache.NewTrackCache()
	routeService, err := services.NewRouteService(&cfg.Route, trackCache, logger)
	if err != nil {
		return err
	}

	// Missing or malformed data is not fatal; the service reports it and the
	// watcher picks up fixes.
	if err := routeService.Reload(ctx); err != nil {
		logger.Warn("initial track load failed", zap.Error(err))
	}

	watcher := services.NewDataWatcher(routeService, &cfg.Route, logger)
	if cfg.Route.Watch || cfg.Route.RescanInterval > 0 {
		if err := watcher.Start(ctx); err != nil {
			logger.Warn("failed to watch track data", zap.String("dir", cfg.Route.DataDir), zap.Error(err))
		}
	}

	grpcServer := newGRPCServer(logger)
	api.RegisterRouteServiceServer(grpcServer, routeService)

	handler, err := newHTTPHandler(ctx, cfg.Server, routeService, logger)
	if err != nil {
		return err
	}
	httpServer := &http.Server{
		Addr:              net.JoinHostPort("", strconv.Itoa(cfg.Server.Port)),
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serveErrs := make(chan error, 2)
	go func() {
		logger.Info("HTTP server listening", zap.String("addr", httpServer.Addr))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErrs <- fmt.Errorf("http server: %w", err)
		}
	}()

	if cfg.Server.GRPCPort > 0 {
		lis, err := net.Listen("tcp", net.JoinHostPort("", strconv.Itoa(cfg.Server.GRPCPort)))
		if err != nil {
			return multierr.Append(fmt.Errorf("grpc listen: %w", err), httpServer.Close())
		}
		go func() {
			logger.Info("gRPC server listening", zap.String("addr", lis.Addr().String()))
			if err := grpcServer.Serve(lis); err != nil {
				serveErrs <- fmt.Errorf("grpc server: %w", err)
			}
		}()
	}

	select {
	case <-ctx.Done():
		logger.Info("shutting down")
	case err = <-serveErrs:
		logger.Error("server failed, shutting down", zap.Error(err))
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	err = multierr.Append(err, httpServer.Shutdown(shutdownCtx))
	grpcServer.GracefulStop()
	err = multierr.Append(err, watcher.Stop())
	return err
}

func newGRPCServer(logger *zap.Logger) *grpc.Server {
	interceptorLogger := logging.InterceptorLogger(logger.Named("grpc"))
	recoverPanic := recovery.WithRecoveryHandler(func(p any) error {
		logger.Error("recovered from panic", zap.Any("panic", p), zap.Stack("stack"))
		return status.Errorf(codes.Internal, "internal error")
	})

	return grpc.NewServer(
		grpc.ChainUnaryInterceptor(
			grpclogging.UnaryServerInterceptor(interceptorLogger, grpclogging.WithLogOnEvents(grpclogging.FinishCall)),
			recovery.UnaryServerInterceptor(recoverPanic),
		),
	)
}
