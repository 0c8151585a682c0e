package grpc

import (
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"

	plusvaliav1 "github.com/simaogato/plusvalia-backend/internal/adapter/grpc/plusvalia/v1"
)

// Options configures the gRPC server middleware
type Options struct {
	APIToken           string
	RateLimitPerSecond int
	RateLimitBurst     int
	Logger             *zap.Logger
	// Propagator extracts the caller's trace context; nil uses the otel global
	Propagator propagation.TextMapPropagator
}

// NewGRPCServer builds a grpc.Server with the PlusvaliaService, the health
// service and reflection registered. Interceptors run in the order
// recovery, trace context, logging, rate limit, auth.
func NewGRPCServer(srv *Server, opts Options) (*grpc.Server, *health.Server) {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	propagator := opts.Propagator
	if propagator == nil {
		propagator = otel.GetTextMapPropagator()
	}

	grpcServer := grpc.NewServer(
		grpc.ChainUnaryInterceptor(
			RecoveryInterceptor(logger),
			TraceContextInterceptor(propagator),
			LoggingInterceptor(logger),
			RateLimitInterceptor(newLimiter(opts)),
			AuthInterceptor(opts.APIToken, HealthMethodPrefix),
		),
	)

	plusvaliav1.RegisterPlusvaliaServiceServer(grpcServer, srv)

	healthServer := health.NewServer()
	healthpb.RegisterHealthServer(grpcServer, healthServer)
	healthServer.SetServingStatus(plusvaliav1.ServiceName, healthpb.HealthCheckResponse_SERVING)

	reflection.Register(grpcServer)

	return grpcServer, healthServer
}

// newLimiter builds the call limiter. A non-positive rate disables limiting;
// the burst is at least one so a finite rate always admits calls.
func newLimiter(opts Options) *rate.Limiter {
	if opts.RateLimitPerSecond <= 0 {
		return rate.NewLimiter(rate.Inf, 0)
	}

	burst := opts.RateLimitBurst
	if burst < 1 {
		burst = 1
	}
	return rate.NewLimiter(rate.Limit(opts.RateLimitPerSecond), burst)
}
