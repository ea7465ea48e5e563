package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"snowpool/internal/api"
	"snowpool/internal/config"
	"snowpool/internal/database"
	"snowpool/internal/domain"
	"snowpool/internal/events"
	"snowpool/internal/logging"
	"snowpool/internal/metrics"
	"snowpool/internal/models"
	"snowpool/internal/pricing"
	"snowpool/internal/repository"
	"snowpool/internal/scheduler"
	"snowpool/internal/service"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"gopkg.in/yaml.v2"
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

	areas, err := loadPostalAreas(cfg, &logger)
	if err != nil {
		return err
	}

	db := database.NewDB(areas, logging.Component(&logger, "directory"))
	defer db.Close()

	eventBus := events.NewEventBus()
	eventBus.SubscribeAll(logging.EventHandler(logging.Component(&logger, "events")))

	market := service.NewMarketplace(
		db,
		pricing.NewCalculator(cfg.Pricing),
		eventBus,
		cfg.Marketplace.Strict(),
		&logger,
	)

	redisClient := initRedis(cfg, &logger)
	if redisClient != nil {
		defer redisClient.Close()
	}

	limitRepo, memoryLimits := initLimitRepository(redisClient, &logger)
	limiter := api.NewLimiter(cfg.API.RateLimit, limitRepo)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	startMetrics(ctx, cfg, &logger)

	jobs, err := initScheduler(cfg, market, memoryLimits, &logger)
	if err != nil {
		return err
	}
	if jobs != nil {
		jobs.Start()
		defer jobs.Stop()
	}

	var grpcServer *api.GRPCServer
	if cfg.API.GRPC.Enabled {
		grpcServer, err = api.NewGRPCServer(&cfg.API, cfg.Marketplace.CallerHeader, market, limiter, &logger)
		if err != nil {
			logger.Error().Err(err).Msg("create grpc server")
			return err
		}
	}

	httpServer := api.NewHTTPServer(cfg.API, cfg.Marketplace.CallerHeader, market, limiter, &logger)

	return startServers(ctx, grpcServer, httpServer, cfg, &logger)
}

func loadConfigAndLogger() (*config.Config, zerolog.Logger, io.Closer, error) {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "configs/config.yaml"
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, zerolog.Logger{}, nil, fmt.Errorf("load config: %w", err)
	}

	baseLogger, closer, err := logging.New(cfg.Logging, cfg.App)
	if err != nil {
		return nil, zerolog.Logger{}, nil, fmt.Errorf("init logger: %w", err)
	}
	logger := baseLogger.With().Str("component", "api-main").Logger()

	return cfg, logger, closer, nil
}

// loadPostalAreas prefers areas inlined in the config, then the postal areas file. With neither,
// the directory falls back to its built-in seed.
func loadPostalAreas(cfg *config.Config, logger *zerolog.Logger) ([]models.PostalArea, error) {
	if len(cfg.PostalAreas) > 0 {
		return cfg.PostalAreas, nil
	}

	areasPath := os.Getenv("POSTAL_AREAS_PATH")
	if areasPath == "" {
		areasPath = cfg.Marketplace.PostalAreasPath
	}
	if areasPath == "" {
		return nil, nil
	}

	areasData, err := os.ReadFile(areasPath)
	if errors.Is(err, fs.ErrNotExist) {
		logger.Warn().Str("postal_areas_path", areasPath).Msg("postal areas file not found, using built-in areas")
		return nil, nil
	}
	if err != nil {
		logger.Error().Err(err).Str("postal_areas_path", areasPath).Msg("read postal areas")
		return nil, err
	}

	var areasConfig struct {
		PostalAreas []models.PostalArea `yaml:"postal_areas"`
	}
	if err := yaml.Unmarshal(areasData, &areasConfig); err != nil {
		logger.Error().Err(err).Str("postal_areas_path", areasPath).Msg("parse postal areas")
		return nil, err
	}
	if err := config.ValidatePostalAreas(areasConfig.PostalAreas); err != nil {
		return nil, fmt.Errorf("postal areas %s: %w", areasPath, err)
	}

	logger.Info().Int("postal_areas", len(areasConfig.PostalAreas)).Str("postal_areas_path", areasPath).Msg("postal areas loaded")
	return areasConfig.PostalAreas, nil
}

func initRedis(cfg *config.Config, logger *zerolog.Logger) *redis.Client {
	if cfg.Redis.Address == "" {
		return nil
	}

	redisClient := repository.NewRedisClient(cfg.Redis)
	if err := repository.Ping(context.Background(), redisClient); err != nil {
		logger.Warn().Err(err).Msg("redis connection failed, continuing without redis")
		_ = repository.Close(redisClient)
		return nil
	}

	logger.Info().Str("addr", cfg.Redis.Address).Msg("redis connected")
	return redisClient
}

// initLimitRepository returns the shared window store when Redis is available, backed by an
// in-memory store that takes over while Redis is down.
func initLimitRepository(redisClient *redis.Client, logger *zerolog.Logger) (domain.LimitRepository, *repository.MemoryLimitRepository) {
	if redisClient == nil {
		return nil, nil
	}
	memory := repository.NewMemoryLimitRepository()
	failover := repository.NewFailoverLimitRepository(
		repository.NewRedisLimitRepository(redisClient),
		memory,
		logging.Component(logger, "rate-limit"),
	)
	return failover, memory
}

func initScheduler(cfg *config.Config, market *service.Marketplace, memoryLimits *repository.MemoryLimitRepository, logger *zerolog.Logger) (*scheduler.Scheduler, error) {
	if !cfg.Scheduler.Enabled {
		return nil, nil
	}

	s := scheduler.New(logger)
	if err := s.Register(scheduler.DemandRefreshJob(cfg.Scheduler.DemandSchedule, market)); err != nil {
		return nil, err
	}
	if cfg.Exports.Schedule != "" && cfg.Exports.Path != "" {
		job := scheduler.ExportSnapshotJob(cfg.Exports.Schedule, cfg.Exports.Path, market, logger)
		if err := s.Register(job); err != nil {
			return nil, err
		}
	}
	if memoryLimits != nil {
		if err := s.Register(scheduler.PruneJob("@every 5m", memoryLimits)); err != nil {
			return nil, err
		}
	}
	return s, nil
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
	go startMetricsServer(ctx, port, logger)
}

func startServers(
	ctx context.Context,
	grpcServer *api.GRPCServer,
	httpServer *api.HTTPServer,
	cfg *config.Config,
	logger *zerolog.Logger,
) error {
	if grpcServer != nil {
		go func() {
			if err := grpcServer.Serve(); err != nil {
				logger.Error().Err(err).Msg("grpc server stopped")
			}
		}()
	}

	go func() {
		if !cfg.API.HTTP.Enabled {
			return
		}
		if err := httpServer.Start(); err != nil {
			logger.Error().Err(err).Msg("http server stopped")
		}
	}()

	event := logger.Info().Bool("strict_validation", cfg.Marketplace.Strict())
	if grpcServer != nil {
		event = event.Str("grpc_addr", grpcServer.Addr())
	}
	if cfg.API.HTTP.Enabled {
		event = event.Int("http_port", cfg.API.HTTP.Port)
	}
	event.Msg("API server started")

	<-ctx.Done()
	logger.Info().Msg("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(models.ShutdownTimeout)*time.Second)
	defer cancel()

	if grpcServer != nil {
		grpcServer.Shutdown(shutdownCtx)
	}
	_ = httpServer.Shutdown(shutdownCtx)

	logger.Info().Msg("API server stopped")
	return nil
}

func startMetricsServer(ctx context.Context, port int, logger *zerolog.Logger) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	srv := &http.Server{Addr: fmt.Sprintf(":%d", port), Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	go func() {
		<-ctx.Done()
		ctxShutdown, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		_ = srv.Shutdown(ctxShutdown)
	}()
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error().Err(err).Msg("metrics server error")
	}
}
