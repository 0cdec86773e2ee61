package main

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"os/signal"
	"syscall"
	"time"

	grpc_logging "github.com/grpc-ecosystem/go-grpc-middleware/v2/interceptors/logging"
	grpc_recovery "github.com/grpc-ecosystem/go-grpc-middleware/v2/interceptors/recovery"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	"google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"

	"github.com/KirkDiggler/rpg-progression/internal/config"
	"github.com/KirkDiggler/rpg-progression/internal/errors"
	"github.com/KirkDiggler/rpg-progression/internal/orchestrators/character"
	"github.com/KirkDiggler/rpg-progression/internal/services/ticker"
)

// healthService is the name reported by the health endpoint for the progression engine
const healthService = "progression.v1.CharacterService"

var (
	grpcPort      int
	embeddedRedis bool
)

var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "Start the progression server",
	Long: `Start the gRPC host process: it serves health and reflection and runs the regeneration
loop over characters with an open session.`,
	RunE: runServer,
}

func init() {
	serverCmd.Flags().IntVar(&grpcPort, "port", 0, "gRPC server port (overrides config)")
	serverCmd.Flags().BoolVar(&embeddedRedis, "embedded-redis", false, "run an in-process redis instead of dialing one")
}

func runServer(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if grpcPort != 0 {
		cfg.Server.Port = grpcPort
	}
	if embeddedRedis {
		cfg.Store.Kind = config.StoreRedis
		cfg.Store.EmbeddedRedis = true
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a, err := newApp(ctx, cfg, appOptions{})
	if err != nil {
		return err
	}
	defer a.Close()

	loop, err := ticker.New(&ticker.Config{
		Sessions: a.orchestrator,
		Interval: cfg.Regen.Interval,
	})
	if err != nil {
		return err
	}

	lis, err := net.Listen("tcp", fmt.Sprintf(":%d", cfg.Server.Port))
	if err != nil {
		return errors.WrapWithCodef(err, errors.CodeUnavailable, "failed to listen on port %d", cfg.Server.Port)
	}

	logger := grpc_logging.LoggerFunc(logFunc)
	srv := grpc.NewServer(
		grpc.ChainUnaryInterceptor(
			grpc_logging.UnaryServerInterceptor(logger),
			grpc_recovery.UnaryServerInterceptor(),
			errorInterceptor,
		),
		grpc.ChainStreamInterceptor(
			grpc_logging.StreamServerInterceptor(logger),
			grpc_recovery.StreamServerInterceptor(),
		),
	)

	healthServer := health.NewServer()
	grpc_health_v1.RegisterHealthServer(srv, healthServer)
	healthServer.SetServingStatus("", grpc_health_v1.HealthCheckResponse_SERVING)
	healthServer.SetServingStatus(healthService, grpc_health_v1.HealthCheckResponse_SERVING)
	reflection.Register(srv)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		slog.InfoContext(gctx, "gRPC server starting",
			"port", cfg.Server.Port,
			"store", cfg.Store.Kind)
		if err := srv.Serve(lis); err != nil {
			return errors.WrapWithCode(err, errors.CodeUnavailable, "failed to serve")
		}
		return nil
	})
	g.Go(func() error {
		return loop.Run(gctx)
	})
	g.Go(func() error {
		<-gctx.Done()
		healthServer.Shutdown()
		shutdown(srv, cfg.Server.ShutdownTimeout)
		closeSessions(a)
		return nil
	})

	return g.Wait()
}

// shutdown stops the server gracefully, forcing it after timeout
func shutdown(srv *grpc.Server, timeout time.Duration) {
	slog.Info("shutting down gRPC server")

	stopped := make(chan struct{})
	go func() {
		srv.GracefulStop()
		close(stopped)
	}()

	select {
	case <-time.After(timeout):
		slog.Warn("graceful shutdown timeout exceeded, forcing stop")
		srv.Stop()
	case <-stopped:
		slog.Info("server stopped gracefully")
	}
}

// closeSessions flushes regeneration remainders of every open session before exit
func closeSessions(a *app) {
	ctx := context.Background()
	for _, id := range a.orchestrator.ActiveSessions() {
		if _, err := a.orchestrator.CloseSession(ctx, &character.CloseSessionInput{CharacterID: id}); err != nil {
			slog.Warn("failed to close session on shutdown",
				"character_id", id,
				"error", err)
		}
	}
}

// errorInterceptor converts internal errors into gRPC statuses carrying their code and metadata
func errorInterceptor(
	ctx context.Context,
	req any,
	_ *grpc.UnaryServerInfo,
	handler grpc.UnaryHandler,
) (any, error) {
	resp, err := handler(ctx, req)
	if err != nil {
		return nil, errors.ToGRPCError(err)
	}
	return resp, nil
}

func logFunc(ctx context.Context, level grpc_logging.Level, msg string, fields ...any) {
	slog.Log(ctx, slog.Level(level), msg, fields...)
}
