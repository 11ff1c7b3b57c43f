package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"fasilitas/internal/api"
	"fasilitas/internal/config"
	"fasilitas/internal/database"
	"fasilitas/internal/domain"
	"fasilitas/internal/events"
	"fasilitas/internal/export"
	"fasilitas/internal/logging"
	"fasilitas/internal/metrics"
	"fasilitas/internal/repository"
	"fasilitas/internal/service"
	"fasilitas/internal/worker"
)

func main() {
	if err := run(); err != nil {
		log.Fatalf("Fatal error: %v", err)
	}
}

func run() error {
	cfg, logger, closer, err := loadConfigAndLogger()
	if err != nil {
		return err
	}
	if closer != nil {
		defer (func() { _ = closer.Close() })()
	}

	db, err := database.NewDB(cfg.Database.Path, logger)
	if err != nil {
		logger.Error().Err(err).Str("db_path", cfg.Database.Path).Msg("init database")
		return err
	}
	defer db.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	bus := events.NewEventBus()
	subscribeEventLog(bus, logger)
	catalogService := service.NewCatalogService(db, bus, logger)
	directoryService := service.NewDirectoryService(db, logger)

	if err := bootstrapData(ctx, cfg, catalogService, directoryService, logger); err != nil {
		return err
	}

	redisClient := initRedis(cfg, logger)
	if redisClient != nil {
		defer redisClient.Close()
	}
	locker := buildLocker(cfg, redisClient, logger)

	exporter := export.NewExporter(db, cfg.Exports.Path, logger)
	exportWorker := worker.NewExportWorker(
		exporter,
		worker.RetryPolicy{MaxRetries: cfg.Booking.ExportRetryAttempts},
		cfg.Booking.ExportQueueSize,
		logger,
	)
	go exportWorker.Start(ctx)

	availabilityService := service.NewAvailabilityService(db, logger)
	bookingService := service.NewBookingService(
		db,
		availabilityService,
		locker,
		bus,
		exportWorker,
		logger,
		time.Duration(cfg.Booking.LockTTLSeconds)*time.Second,
	)

	backupService := database.NewBackupService(cfg.Database.Path, cfg.Backup, logger)
	go backupService.Start(ctx)

	startMetrics(ctx, cfg, logger)

	httpServer := api.NewHTTPServer(
		cfg.API,
		catalogService,
		bookingService,
		availabilityService,
		directoryService,
		exportWorker,
		logger,
	)
	return serve(ctx, cfg, httpServer, logger)
}

func loadConfigAndLogger() (*config.Config, *zerolog.Logger, io.Closer, error) {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "configs/config.yaml"
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("load config: %w", err)
	}

	baseLogger, closer, err := logging.New(cfg.Logging, cfg.App)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("init logger: %w", err)
	}
	logger := baseLogger.With().Str("component", "server").Logger()

	return cfg, &logger, closer, nil
}

// bootstrapData seeds the catalog, imports the accounts file when configured,
// and guarantees the admin account exists.
func bootstrapData(
	ctx context.Context,
	cfg *config.Config,
	catalog *service.CatalogService,
	directory *service.DirectoryService,
	logger *zerolog.Logger,
) error {
	if len(cfg.Catalog) > 0 {
		if err := catalog.Seed(ctx, cfg.Catalog); err != nil {
			return err
		}
	}

	if cfg.Accounts.CSVPath != "" {
		if _, err := directory.ImportCSV(ctx, cfg.Accounts.CSVPath); err != nil {
			logger.Warn().Err(err).Str("path", cfg.Accounts.CSVPath).Msg("accounts import failed, continuing")
		}
	}

	return directory.EnsureAdmin(ctx, cfg.Accounts.AdminUsername, cfg.Accounts.AdminPassword, cfg.Accounts.AdminName)
}

func subscribeEventLog(bus *events.EventBus, logger *zerolog.Logger) {
	handler := func(event *events.Event) error {
		logger.Debug().
			Str("event", event.Type).
			RawJSON("payload", event.Payload).
			Msg("domain event")
		return nil
	}
	bus.Subscribe(events.EventReservationCreated, handler)
	bus.Subscribe(events.EventReservationCancelled, handler)
	bus.Subscribe(events.EventResourceDeleted, handler)
}

func initRedis(cfg *config.Config, logger *zerolog.Logger) *redis.Client {
	if !cfg.Redis.Enabled || cfg.Redis.Address == "" {
		return nil
	}

	client := repository.NewRedisClient(cfg.Redis)
	if _, err := client.Ping(context.Background()).Result(); err != nil {
		logger.Warn().Err(err).Msg("redis connection failed, continuing without redis")
		_ = client.Close()
		return nil
	}

	logger.Info().Str("addr", cfg.Redis.Address).Msg("redis connected")
	return client
}

// buildLocker prefers the redis lock so multiple instances can share one
// database, with the in-process lock as both fallback and single-instance
// default.
func buildLocker(cfg *config.Config, redisClient *redis.Client, logger *zerolog.Logger) domain.Locker {
	memory := repository.NewMemoryLocker()
	if redisClient == nil {
		return memory
	}
	retry := time.Duration(cfg.Booking.LockRetryMillis) * time.Millisecond
	return repository.NewFailoverLocker(repository.NewRedisLocker(redisClient, retry), memory, logger)
}

func startMetrics(ctx context.Context, cfg *config.Config, logger *zerolog.Logger) {
	if !cfg.Monitoring.PrometheusEnabled {
		return
	}

	metrics.Register()
	port := cfg.Monitoring.PrometheusPort
	if port == 0 {
		port = 9090
	}
	go func() {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.Handler())

		srv := &http.Server{Addr: fmt.Sprintf(":%d", port), Handler: mux}
		go func() {
			<-ctx.Done()
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
			defer cancel()
			_ = srv.Shutdown(shutdownCtx)
		}()
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error().Err(err).Msg("metrics server error")
		}
	}()
}

func serve(ctx context.Context, cfg *config.Config, httpServer *api.HTTPServer, logger *zerolog.Logger) error {
	go func() {
		if !cfg.API.HTTP.Enabled {
			return
		}
		if err := httpServer.Start(); err != nil {
			logger.Error().Err(err).Msg("http server stopped")
		}
	}()

	logger.Info().Int("http_port", cfg.API.HTTP.Port).Msg("server started")

	<-ctx.Done()
	logger.Info().Msg("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = httpServer.Shutdown(shutdownCtx)

	logger.Info().Msg("server stopped")
	return nil
}
