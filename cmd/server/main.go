package main

import (
	"context"
	"errors"
	"log"
	"net"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/simaogato/plusvalia-backend/internal/adapter/cache"
	grpcadapter "github.com/simaogato/plusvalia-backend/internal/adapter/grpc"
	"github.com/simaogato/plusvalia-backend/internal/adapter/presenter"
	"github.com/simaogato/plusvalia-backend/internal/adapter/repository/memory"
	"github.com/simaogato/plusvalia-backend/internal/adapter/rest"
	"github.com/simaogato/plusvalia-backend/internal/config"
	"github.com/simaogato/plusvalia-backend/internal/domain"
	"github.com/simaogato/plusvalia-backend/internal/logger"
	"github.com/simaogato/plusvalia-backend/internal/telemetry"
	"github.com/simaogato/plusvalia-backend/internal/usecase/calculation"
	"github.com/simaogato/plusvalia-backend/internal/usecase/catalog"
	"github.com/simaogato/plusvalia-backend/internal/usecase/seeder"
)

const serviceName = "plusvalia-backend"

func main() {
	if err := config.LoadEnv(); err != nil {
		log.Fatalf("Failed to load .env: %v", err)
	}
	cfg := config.Load()

	zlog, err := logger.New(cfg.Environment, cfg.LogLevel)
	if err != nil {
		log.Fatalf("Failed to build logger: %v", err)
	}
	defer func() { _ = zlog.Sync() }()

	if err := run(cfg, zlog); err != nil {
		zlog.Fatal("server stopped with error", zap.Error(err))
	}
}

func run(cfg *config.Config, zlog *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer stop()

	// 1. Telemetry
	tel, err := telemetry.Setup(ctx, telemetry.Config{
		ServiceName:       serviceName,
		Environment:       cfg.Environment,
		CollectorEndpoint: cfg.OTELEndpoint,
	}, zlog)
	if err != nil {
		return err
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		if err := tel.Shutdown(shutdownCtx); err != nil {
			zlog.Warn("telemetry shutdown failed", zap.Error(err))
		}
	}()

	// 2. Municipality catalog
	municipalityRepo := memory.NewMunicipalityRepository()
	municipalities, err := loadCatalog(cfg)
	if err != nil {
		return err
	}
	if _, err := seeder.NewMunicipalitySeeder(municipalityRepo, municipalities, zlog).Seed(ctx); err != nil {
		return err
	}

	// 3. Outcome cache
	outcomeCache := cache.NewNoopCache()
	if cfg.RedisAddr != "" {
		client := cache.NewRedisClient(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		defer func() { _ = client.Close() }()
		if err := client.Ping(ctx).Err(); err != nil {
			zlog.Warn("redis unreachable, results will be computed on every request",
				zap.String("addr", cfg.RedisAddr), zap.Error(err))
		}
		outcomeCache = cache.NewRedisCache(client)
	}

	// 4. Services
	calculationService, err := calculation.NewCalculationService(municipalityRepo,
		calculation.WithCache(outcomeCache, cfg.CacheTTL),
		calculation.WithLogger(zlog),
		calculation.WithTracerProvider(tel.TracerProvider),
		calculation.WithMeterProvider(tel.MeterProvider),
	)
	if err != nil {
		return err
	}
	catalogService := catalog.NewCatalogService(municipalityRepo)
	breakdowns := presenter.New()

	// 5. Transports
	grpcServer, healthServer := grpcadapter.NewGRPCServer(
		grpcadapter.NewServer(calculationService, catalogService, breakdowns),
		grpcadapter.Options{
			APIToken:           cfg.APIToken,
			RateLimitPerSecond: cfg.RateLimitPerSecond,
			RateLimitBurst:     cfg.RateLimitBurst,
			Logger:             zlog,
		},
	)

	app := rest.NewApp(
		rest.NewHandler(calculationService, catalogService, breakdowns),
		rest.Options{RequestsPerMinute: cfg.HTTPRequestsPerMinute, AccessLog: os.Stdout},
	)

	lis, err := net.Listen("tcp", cfg.GRPCAddr)
	if err != nil {
		return err
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		zlog.Info("gRPC server listening", zap.String("addr", cfg.GRPCAddr))
		return grpcServer.Serve(lis)
	})

	g.Go(func() error {
		zlog.Info("HTTP server listening", zap.String("addr", cfg.HTTPAddr))
		return app.Listen(cfg.HTTPAddr)
	})

	// Graceful shutdown
	g.Go(func() error {
		<-gctx.Done()
		zlog.Info("shutting down")

		healthServer.Shutdown()
		grpcServer.GracefulStop()
		zlog.Info("gRPC server stopped")

		if err := app.ShutdownWithTimeout(cfg.ShutdownTimeout); err != nil {
			return err
		}
		zlog.Info("HTTP server stopped")
		return nil
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

func loadCatalog(cfg *config.Config) ([]*domain.MunicipalityConfig, error) {
	if cfg.MunicipalitiesFile != "" {
		return seeder.LoadCatalogFile(cfg.MunicipalitiesFile)
	}
	return seeder.DefaultCatalog()
}
