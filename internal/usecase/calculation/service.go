package calculation

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/simaogato/plusvalia-backend/internal/domain"
	"github.com/simaogato/plusvalia-backend/internal/usecase/deadline"
	"github.com/simaogato/plusvalia-backend/internal/usecase/engine"
)

const (
	instrumentationName = "github.com/simaogato/plusvalia-backend/internal/usecase/calculation"

	// CalculationsMetric counts answered calculations by outcome kind
	CalculationsMetric = "plusvalia.calculations"

	cacheKeyPrefix = "plusvalia:calc:v1:"
)

// Option configures a CalculationService
type Option func(*CalculationService)

// WithCache enables outcome caching for ttl
func WithCache(cache domain.OutcomeCache, ttl time.Duration) Option {
	return func(s *CalculationService) {
		s.Cache = cache
		s.CacheTTL = ttl
	}
}

// WithLogger sets the service logger
func WithLogger(logger *zap.Logger) Option {
	return func(s *CalculationService) {
		s.logger = logger
	}
}

// WithTracerProvider overrides the global tracer provider
func WithTracerProvider(provider trace.TracerProvider) Option {
	return func(s *CalculationService) {
		s.tracerProvider = provider
	}
}

// WithMeterProvider overrides the global meter provider
func WithMeterProvider(provider metric.MeterProvider) Option {
	return func(s *CalculationService) {
		s.meterProvider = provider
	}
}

// WithClock overrides time.Now for the calculation timestamp
func WithClock(now func() time.Time) Option {
	return func(s *CalculationService) {
		s.now = now
	}
}

// CalculationService answers calculation requests for configured municipalities
type CalculationService struct {
	MunicipalityRepo domain.MunicipalityRepository
	Cache            domain.OutcomeCache
	CacheTTL         time.Duration

	logger         *zap.Logger
	tracerProvider trace.TracerProvider
	meterProvider  metric.MeterProvider
	tracer         trace.Tracer
	calculations   metric.Int64Counter
	now            func() time.Time
}

// NewCalculationService creates a new CalculationService instance
func NewCalculationService(municipalityRepo domain.MunicipalityRepository, opts ...Option) (*CalculationService, error) {
	s := &CalculationService{
		MunicipalityRepo: municipalityRepo,
		logger:           zap.NewNop(),
		tracerProvider:   otel.GetTracerProvider(),
		meterProvider:    otel.GetMeterProvider(),
		now:              time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}

	s.tracer = s.tracerProvider.Tracer(instrumentationName)

	counter, err := s.meterProvider.Meter(instrumentationName).Int64Counter(
		CalculationsMetric,
		metric.WithDescription("Number of answered plusvalía calculations"),
		metric.WithUnit("{calculation}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create calculations counter: %w", err)
	}
	s.calculations = counter

	return s, nil
}

// Calculate prices one transfer for the given municipality
// Logic:
//  1. Resolve the municipality (unknown slug -> domain.ErrMunicipalityNotFound)
//  2. Validate the input (*domain.ValidationError)
//  3. Reuse a cached outcome when available, otherwise run the engine and cache it
//  4. Attach an id, a timestamp and, for computed results, the filing deadline
//
// Cache failures are logged and never fail the request.
func (s *CalculationService) Calculate(ctx context.Context, municipalityID string, in domain.TransferInput) (*domain.Calculation, error) {
	ctx, span := s.tracer.Start(ctx, "calculation.Calculate", trace.WithAttributes(
		attribute.String("municipality.id", municipalityID),
		attribute.String("transfer.kind", string(in.Kind)),
	))
	defer span.End()

	calc, err := s.calculate(ctx, municipalityID, in)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		s.logger.Info("calculation rejected",
			zap.String("municipality_id", municipalityID),
			zap.Error(err),
		)
		return nil, err
	}

	span.SetAttributes(
		attribute.String("outcome.kind", string(calc.Outcome.Kind)),
		attribute.Bool("cache.hit", calc.Cached),
	)
	s.calculations.Add(ctx, 1, metric.WithAttributes(
		attribute.String("outcome.kind", string(calc.Outcome.Kind)),
		attribute.Bool("cache.hit", calc.Cached),
	))

	fields := []zap.Field{
		zap.String("calculation_id", calc.ID.String()),
		zap.String("municipality_id", calc.MunicipalityID),
		zap.String("outcome", string(calc.Outcome.Kind)),
		zap.Bool("cached", calc.Cached),
	}
	if calc.Outcome.Result != nil {
		fields = append(fields,
			zap.String("method", string(calc.Outcome.Result.ChosenMethod)),
			zap.String("quota", calc.Outcome.Result.QuotaFinal.StringFixed(2)),
		)
	}
	s.logger.Info("calculation completed", fields...)

	return calc, nil
}

func (s *CalculationService) calculate(ctx context.Context, municipalityID string, in domain.TransferInput) (*domain.Calculation, error) {
	cfg, err := s.MunicipalityRepo.GetByID(ctx, municipalityID)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve municipality: %w", err)
	}

	if err := in.Validate(); err != nil {
		return nil, err
	}

	key := CacheKey(cfg, in)
	outcome, hit := s.cachedOutcome(ctx, key)
	if !hit {
		computed, err := engine.Calculate(in, cfg)
		if err != nil {
			return nil, err
		}
		outcome = computed
		s.storeOutcome(ctx, key, outcome)
	}

	calc := &domain.Calculation{
		ID:             uuid.New(),
		MunicipalityID: cfg.ID,
		CalculatedAt:   s.now(),
		Outcome:        outcome,
		Cached:         hit,
	}

	if outcome.Kind == domain.OutcomeResult {
		due, err := deadline.Compute(in.Kind, in.TransferDate, cfg.Deadlines)
		if err != nil {
			return nil, fmt.Errorf("failed to compute filing deadline: %w", err)
		}
		calc.Deadline = due
	}

	return calc, nil
}

func (s *CalculationService) cachedOutcome(ctx context.Context, key string) (domain.Outcome, bool) {
	if s.Cache == nil {
		return domain.Outcome{}, false
	}

	outcome, found, err := s.Cache.Get(ctx, key)
	if err != nil {
		s.logger.Warn("outcome cache read failed", zap.String("key", key), zap.Error(err))
		return domain.Outcome{}, false
	}
	if !found || outcome == nil {
		return domain.Outcome{}, false
	}

	return *outcome, true
}

func (s *CalculationService) storeOutcome(ctx context.Context, key string, outcome domain.Outcome) {
	if s.Cache == nil {
		return
	}

	if err := s.Cache.Set(ctx, key, outcome, s.CacheTTL); err != nil {
		s.logger.Warn("outcome cache write failed", zap.String("key", key), zap.Error(err))
	}
}

// CacheKey derives a stable key from the municipality's tax parameters and the
// canonical input. Equal amounts with different scales ("100" and "100.00")
// share a key; any change to the rate, a coefficient or a rebate does not.
func CacheKey(cfg *domain.MunicipalityConfig, in domain.TransferInput) string {
	rebates := make([]string, 0, len(in.ElectedRebates))
	seen := make(map[domain.RebateKind]struct{}, len(in.ElectedRebates))
	for _, kind := range in.ElectedRebates {
		if _, dup := seen[kind]; dup {
			continue
		}
		seen[kind] = struct{}{}
		rebates = append(rebates, string(kind))
	}
	sort.Strings(rebates)

	canonical := strings.Join([]string{
		cfg.ID,
		cfg.LastUpdated,
		cfg.TaxRate.String(),
		coefficientsFingerprint(cfg.Coefficients),
		rebatesFingerprint(cfg),
		string(in.Kind),
		in.AcquisitionPrice.String(),
		in.TransferPrice.String(),
		in.AcquisitionDate.Format(time.DateOnly),
		in.TransferDate.Format(time.DateOnly),
		in.LandCadastralValue.String(),
		in.TotalCadastralValue.String(),
		strings.Join(rebates, ","),
	}, "|")

	return cacheKeyPrefix + strconv.FormatUint(xxhash.Sum64String(canonical), 16)
}

// coefficientsFingerprint lists the schedule in year order, gaps included
func coefficientsFingerprint(schedule domain.CoefficientSchedule) string {
	parts := make([]string, 0, domain.MaxCoefficientYear)
	for year := domain.MinCoefficientYear; year <= domain.MaxCoefficientYear; year++ {
		coefficient, ok := schedule[year]
		if !ok {
			parts = append(parts, "-")
			continue
		}
		parts = append(parts, coefficient.String())
	}
	return strings.Join(parts, ",")
}

func rebatesFingerprint(cfg *domain.MunicipalityConfig) string {
	parts := make([]string, 0, len(domain.RebateKinds))
	for _, kind := range domain.RebateKinds {
		rebate := cfg.Rebate(kind)
		parts = append(parts, fmt.Sprintf("%s:%t:%s", kind, rebate.Applicable, rebate.Percent.String()))
	}
	return strings.Join(parts, ",")
}
