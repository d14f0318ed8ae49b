package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"bestbuddies/internal/api"
	"bestbuddies/internal/audit"
	"bestbuddies/internal/auth"
	"bestbuddies/internal/booking"
	"bestbuddies/internal/config"
	"bestbuddies/internal/customer"
	"bestbuddies/internal/kvstore"
	"bestbuddies/internal/manager"
	"bestbuddies/internal/metrics"
)

func main() {
	_ = godotenv.Load()

	output := zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}
	logger := zerolog.New(output).With().Timestamp().Logger()

	cfg, err := config.Load(os.Getenv("GROOMER_CONFIG_PATH"))
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to load config")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := openStore(ctx, cfg)
	if err != nil {
		logger.Fatal().Err(err).Str("backend", cfg.Store.Backend).Msg("failed to open store")
	}
	defer store.Close()

	if err := kvstore.Seed(ctx, store, time.Now()); err != nil {
		logger.Fatal().Err(err).Msg("failed to seed store")
	}

	var trail *audit.Trail
	if cfg.Audit.Enabled {
		trail, err = audit.Open(cfg.Audit.Path)
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to open audit trail")
		}
		defer trail.Close()
	}

	metrics.Register()

	var recorder booking.Recorder
	if trail != nil {
		recorder = trail
	}

	authSvc := auth.NewService(store, auth.PlaintextVerifier{}, recorder, logger, auth.Options{
		LoginRate:  rate.Limit(cfg.Auth.LoginPerMinute / 60),
		LoginBurst: cfg.Auth.LoginBurst,
	})
	committer := booking.NewCommitter(store, recorder, logger)
	managerSvc := manager.NewService(store, recorder, logger)
	customerSvc := customer.NewService(store, logger)

	server := api.NewHTTPServer(store, authSvc, committer, managerSvc, customerSvc, trail, logger)

	if cfg.Monitoring.PrometheusEnabled {
		go startMetricsServer(ctx, cfg.Monitoring.PrometheusPort, &logger)
	}

	httpServer := &http.Server{
		Addr:              cfg.Listen.Addr,
		Handler:           server.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = httpServer.Shutdown(shutdownCtx)
	}()

	logger.Info().Str("addr", cfg.Listen.Addr).Str("store", cfg.Store.Backend).Msg("groomerd started")
	if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Fatal().Err(err).Msg("http server error")
	}
	logger.Info().Msg("groomerd stopped")
}

func openStore(ctx context.Context, cfg *config.Config) (kvstore.Store, error) {
	switch cfg.Store.Backend {
	case "bolt":
		return kvstore.OpenBolt(cfg.Store.Path)
	case "redis":
		return kvstore.OpenRedis(ctx, kvstore.RedisOptions{
			Address:  cfg.Store.Redis.Address,
			Password: cfg.Store.Redis.Password,
			DB:       cfg.Store.Redis.DB,
		})
	case "memory":
		return kvstore.NewMemory(), nil
	default:
		return nil, fmt.Errorf("unknown store backend %q", cfg.Store.Backend)
	}
}

func startMetricsServer(ctx context.Context, port int, logger *zerolog.Logger) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", port),
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	logger.Info().Int("port", port).Msg("metrics server started")
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error().Err(err).Msg("metrics server error")
	}
}
