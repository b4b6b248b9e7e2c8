package main

import (
	"context"
	"drinkspeed/ai"
	"drinkspeed/api"
	"drinkspeed/repositories"
	"drinkspeed/runtime"
	"drinkspeed/runtime/workers"
	"drinkspeed/services"
	"drinkspeed/store"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Netflix/go-env"
	"github.com/dgraph-io/badger/v4"
	"github.com/joho/godotenv"
	"github.com/mama165/sdk-go/logs"
	"golang.org/x/sync/errgroup"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Fatal error: %v\n", err)
		os.Exit(1)
	}
}

// run wires every component and returns once the servers and workers have stopped.
// Deferred cleanup (BadgerDB) always runs before main exits.
func run() error {
	// 1. Configuration & Logger
	_ = godotenv.Load()
	var config Config
	if _, err := env.UnmarshalFromEnviron(&config); err != nil {
		return fmt.Errorf("config error: %w", err)
	}
	log := logs.GetLoggerFromString(config.LogLevel)
	charReplacement, err := config.CharacterRune()
	if err != nil {
		return err
	}
	tiers, err := config.Tiers()
	if err != nil {
		return err
	}

	// 2. Database (BadgerDB), in memory when no path is configured
	db, err := openBadger(config.BadgerFilepath)
	if err != nil {
		return fmt.Errorf("database opening failed: %w", err)
	}
	defer func() {
		log.Info("Closing BadgerDB...")
		_ = db.Close()
	}()

	// 3. Store, rebuilt from disk
	repository := repositories.NewBadgerRepository(db, log)
	sessionStore := store.New(log,
		store.WithRepository(repository),
		store.WithTiers(tiers),
		store.WithRejectAfterFinish(config.RejectAfterFinish),
	)

	// 4. Context & Signals
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err = sessionStore.Restore(ctx); err != nil {
		return fmt.Errorf("restore failed: %w", err)
	}

	// 5. Supervision & Orchestration
	sup := workers.NewSupervisor(log, config.RestartInterval)
	generator := ai.NewGeminiClient(log, config.GeminiAPIURL, config.GeminiAPIKey, &http.Client{Timeout: config.EnrichmentTimeout})
	orchestrator, err := runtime.NewOrchestrator(log, sup, runtime.NewRegistry(), sessionStore, generator, runtime.Config{
		NumWorkers:           config.NumberOfWorkers,
		BufferSize:           config.BufferSize,
		SinkTimeout:          config.SinkTimeout,
		EnrichmentWorkers:    config.EnrichmentWorkers,
		EnrichmentBufferSize: config.EnrichmentBufferSize,
		EnrichmentTimeout:    config.EnrichmentTimeout,
		ReactionGameEnabled:  config.ReactionGameEnabled,
		ReactionGameInterval: config.ReactionGameInterval,
		MetricInterval:       config.MetricInterval,
		LowCapacityThreshold: config.LowCapacityThreshold,
		CharReplacement:      charReplacement,
	})
	if err != nil {
		return fmt.Errorf("orchestrator setup failed: %w", err)
	}

	// 6. HTTP API and gRPC health servers
	address := fmt.Sprintf("%s:%d", config.Host, config.Port)
	httpServer := &http.Server{
		Addr: address,
		Handler: api.NewRouter(log, services.NewSessionService(orchestrator), api.Config{
			ConnectionBufferSize: config.ConnectionBufferSize,
		}),
		ReadHeaderTimeout: 5 * time.Second,
	}
	healthAddress := fmt.Sprintf("%s:%d", config.Host, config.HealthPort)
	listener, err := net.Listen("tcp", healthAddress)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", healthAddress, err)
	}
	grpcServer := grpc.NewServer()
	healthServer := health.NewServer()
	healthServer.SetServingStatus("", healthpb.HealthCheckResponse_NOT_SERVING)
	healthpb.RegisterHealthServer(grpcServer, healthServer)

	// 7. Run until a signal or the first failure
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return orchestrator.Start(gctx)
	})
	g.Go(func() error {
		log.Info("Starting HTTP server", "address", address, "at", time.Now().UTC())
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("HTTP server error: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		log.Info("Starting gRPC health server", "address", healthAddress)
		if err := grpcServer.Serve(listener); err != nil && !errors.Is(err, grpc.ErrServerStopped) {
			return fmt.Errorf("gRPC health server error: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		return reportHealth(gctx, log, healthServer, sup)
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info("Shutting down gracefully...")
		healthServer.Shutdown()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		err := httpServer.Shutdown(shutdownCtx)
		grpcServer.GracefulStop()
		orchestrator.Stop()
		return err
	})

	if err = g.Wait(); err != nil {
		return err
	}
	log.Info("Program stopped cleanly")
	return nil
}

func openBadger(path string) (*badger.DB, error) {
	if path == "" {
		return badger.Open(badger.DefaultOptions("").WithInMemory(true).WithLoggingLevel(badger.ERROR))
	}
	return badger.Open(badger.DefaultOptions(path).WithLoggingLevel(badger.INFO))
}

// reportHealth mirrors the supervisor state on the gRPC health service.
func reportHealth(ctx context.Context, log *slog.Logger, healthServer *health.Server, sup *workers.Supervisor) error {
	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()
	serving := false
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if running := sup.Running(); running != serving {
				serving = running
				status := healthpb.HealthCheckResponse_NOT_SERVING
				if serving {
					status = healthpb.HealthCheckResponse_SERVING
				}
				healthServer.SetServingStatus("", status)
				log.Debug("Health status changed", "status", status.String())
			}
		}
	}
}
