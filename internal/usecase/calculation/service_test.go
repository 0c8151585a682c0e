package calculation

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/simaogato/plusvalia-backend/internal/adapter/repository/memory"
	"github.com/simaogato/plusvalia-backend/internal/domain"
)

// MockOutcomeCache is a mock implementation of OutcomeCache
type MockOutcomeCache struct {
	mock.Mock
}

func (m *MockOutcomeCache) Get(ctx context.Context, key string) (*domain.Outcome, bool, error) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, args.Bool(1), args.Error(2)
	}
	return args.Get(0).(*domain.Outcome), args.Bool(1), args.Error(2)
}

func (m *MockOutcomeCache) Set(ctx context.Context, key string, outcome domain.Outcome, ttl time.Duration) error {
	args := m.Called(ctx, key, outcome, ttl)
	return args.Error(0)
}

var coefficients2025 = []string{
	"0.14", "0.13", "0.15", "0.15", "0.17", "0.17", "0.17", "0.12", "0.11", "0.10",
	"0.09", "0.09", "0.09", "0.09", "0.09", "0.09", "0.08", "0.08", "0.08", "0.08",
}

func talavera() *domain.MunicipalityConfig {
	schedule := make(domain.CoefficientSchedule, len(coefficients2025))
	for i, value := range coefficients2025 {
		schedule[i+1] = decimal.RequireFromString(value)
	}

	return &domain.MunicipalityConfig{
		ID:           "talavera-de-la-reina",
		Name:         "Talavera de la Reina",
		TaxRate:      decimal.NewFromInt(30),
		Coefficients: schedule,
		Rebates: map[domain.RebateKind]domain.Rebate{
			domain.RebateSpouse: {Applicable: true, Percent: decimal.NewFromInt(50)},
		},
		Deadlines:   domain.FilingDeadlines{SaleBusinessDays: 30, InheritanceMonths: 6},
		LastUpdated: "2025",
	}
}

func newRepo(t *testing.T) domain.MunicipalityRepository {
	t.Helper()
	repo := memory.NewMunicipalityRepository()
	require.NoError(t, repo.Upsert(context.Background(), talavera()))
	return repo
}

func sale() domain.TransferInput {
	return domain.TransferInput{
		Kind:               domain.TransferKindSale,
		AcquisitionPrice:   decimal.NewFromInt(100000),
		TransferPrice:      decimal.NewFromInt(200000),
		AcquisitionDate:    time.Date(2019, time.January, 1, 0, 0, 0, 0, time.UTC),
		TransferDate:       time.Date(2024, time.June, 1, 0, 0, 0, 0, time.UTC),
		LandCadastralValue: decimal.NewFromInt(50000),
	}
}

func TestCalculationService_Calculate(t *testing.T) {
	fixed := time.Date(2024, time.June, 2, 10, 0, 0, 0, time.UTC)
	service, err := NewCalculationService(newRepo(t), WithClock(func() time.Time { return fixed }))
	require.NoError(t, err)

	calc, err := service.Calculate(context.Background(), "talavera-de-la-reina", sale())

	require.NoError(t, err)
	assert.NotEqual(t, "00000000-0000-0000-0000-000000000000", calc.ID.String())
	assert.Equal(t, "talavera-de-la-reina", calc.MunicipalityID)
	assert.Equal(t, fixed, calc.CalculatedAt)
	assert.False(t, calc.Cached)

	require.Equal(t, domain.OutcomeResult, calc.Outcome.Kind)
	assert.Equal(t, domain.MethodObjective, calc.Outcome.Result.ChosenMethod)
	assert.Equal(t, "2550.00", calc.Outcome.Result.QuotaFinal.StringFixed(2))

	require.NotNil(t, calc.Deadline)
	assert.Equal(t, domain.DeadlineUnitBusinessDays, calc.Deadline.Unit)
	assert.Equal(t, time.Date(2024, time.July, 12, 0, 0, 0, 0, time.UTC), calc.Deadline.DueDate)
}

func TestCalculationService_NoTaxDueHasNoDeadline(t *testing.T) {
	service, err := NewCalculationService(newRepo(t))
	require.NoError(t, err)

	in := sale()
	in.TransferPrice = decimal.NewFromInt(90000)

	calc, err := service.Calculate(context.Background(), "talavera-de-la-reina", in)

	require.NoError(t, err)
	assert.Equal(t, domain.OutcomeNoTaxDue, calc.Outcome.Kind)
	assert.Equal(t, domain.ReasonNoIncrease, calc.Outcome.Reason)
	assert.Nil(t, calc.Deadline)
}

func TestCalculationService_Errors(t *testing.T) {
	service, err := NewCalculationService(newRepo(t))
	require.NoError(t, err)

	t.Run("Unknown municipality", func(t *testing.T) {
		_, err := service.Calculate(context.Background(), "atlantis", sale())
		assert.ErrorIs(t, err, domain.ErrMunicipalityNotFound)
	})

	t.Run("Invalid input", func(t *testing.T) {
		in := sale()
		in.AcquisitionPrice = decimal.Zero

		_, err := service.Calculate(context.Background(), "talavera-de-la-reina", in)

		var validationErr *domain.ValidationError
		require.ErrorAs(t, err, &validationErr)
		assert.Equal(t, "acquisition_price", validationErr.Field)
	})
}

func TestCalculationService_CacheMissStoresOutcome(t *testing.T) {
	ctx := context.Background()
	cache := new(MockOutcomeCache)
	key := CacheKey(talavera(), sale())
	cache.On("Get", mock.Anything, key).Return(nil, false, nil)
	cache.On("Set", mock.Anything, key, mock.MatchedBy(func(o domain.Outcome) bool {
		return o.Kind == domain.OutcomeResult && o.Result.QuotaFinal.Equal(decimal.NewFromInt(2550))
	}), time.Hour).Return(nil)

	service, err := NewCalculationService(newRepo(t), WithCache(cache, time.Hour))
	require.NoError(t, err)

	calc, err := service.Calculate(ctx, "talavera-de-la-reina", sale())

	require.NoError(t, err)
	assert.False(t, calc.Cached)
	cache.AssertExpectations(t)
}

func TestCalculationService_CacheHitSkipsEngine(t *testing.T) {
	cached := domain.NoTaxDue("served from cache")
	cache := new(MockOutcomeCache)
	cache.On("Get", mock.Anything, mock.Anything).Return(&cached, true, nil)

	service, err := NewCalculationService(newRepo(t), WithCache(cache, time.Hour))
	require.NoError(t, err)

	calc, err := service.Calculate(context.Background(), "talavera-de-la-reina", sale())

	require.NoError(t, err)
	assert.True(t, calc.Cached)
	assert.Equal(t, "served from cache", calc.Outcome.Reason)
	cache.AssertNotCalled(t, "Set", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestCalculationService_CacheFailuresAreNotFatal(t *testing.T) {
	cache := new(MockOutcomeCache)
	cache.On("Get", mock.Anything, mock.Anything).Return(nil, false, errors.New("redis down"))
	cache.On("Set", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(errors.New("redis down"))

	core, logs := observer.New(zapcore.WarnLevel)
	service, err := NewCalculationService(newRepo(t), WithCache(cache, time.Minute), WithLogger(zap.New(core)))
	require.NoError(t, err)

	calc, err := service.Calculate(context.Background(), "talavera-de-la-reina", sale())

	require.NoError(t, err)
	assert.Equal(t, domain.OutcomeResult, calc.Outcome.Kind)
	assert.Equal(t, 1, logs.FilterMessage("outcome cache read failed").Len())
	assert.Equal(t, 1, logs.FilterMessage("outcome cache write failed").Len())
}

func TestCalculationService_Telemetry(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	tracerProvider := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	t.Cleanup(func() { _ = tracerProvider.Shutdown(context.Background()) })

	reader := sdkmetric.NewManualReader()
	meterProvider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))

	service, err := NewCalculationService(newRepo(t),
		WithTracerProvider(tracerProvider),
		WithMeterProvider(meterProvider),
	)
	require.NoError(t, err)

	_, err = service.Calculate(context.Background(), "talavera-de-la-reina", sale())
	require.NoError(t, err)
	_, err = service.Calculate(context.Background(), "atlantis", sale())
	require.Error(t, err)

	spans := recorder.Ended()
	require.Len(t, spans, 2)
	assert.Equal(t, "calculation.Calculate", spans[0].Name())
	assert.Contains(t, spans[0].Attributes(), attribute.String("outcome.kind", "result"))
	assert.Equal(t, codes.Error, spans[1].Status().Code)

	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))
	require.Len(t, rm.ScopeMetrics, 1)
	require.Len(t, rm.ScopeMetrics[0].Metrics, 1)

	m := rm.ScopeMetrics[0].Metrics[0]
	assert.Equal(t, CalculationsMetric, m.Name)
	sum, ok := m.Data.(metricdata.Sum[int64])
	require.True(t, ok)
	require.Len(t, sum.DataPoints, 1)
	assert.Equal(t, int64(1), sum.DataPoints[0].Value)
	kind, _ := sum.DataPoints[0].Attributes.Value("outcome.kind")
	assert.Equal(t, "result", kind.AsString())
}

func TestCalculationService_LogsCompletion(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	service, err := NewCalculationService(newRepo(t), WithLogger(zap.New(core)))
	require.NoError(t, err)

	calc, err := service.Calculate(context.Background(), "talavera-de-la-reina", sale())
	require.NoError(t, err)

	entries := logs.FilterMessage("calculation completed").All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.Equal(t, calc.ID.String(), fields["calculation_id"])
	assert.Equal(t, "objective", fields["method"])
	assert.Equal(t, "2550.00", fields["quota"])
}

func TestCacheKey(t *testing.T) {
	cfg := talavera()
	base := sale()

	t.Run("Scale does not matter", func(t *testing.T) {
		other := sale()
		other.AcquisitionPrice = decimal.RequireFromString("100000.00")
		assert.Equal(t, CacheKey(cfg, base), CacheKey(cfg, other))
	})

	t.Run("Rebate order and duplicates do not matter", func(t *testing.T) {
		a := sale()
		a.ElectedRebates = []domain.RebateKind{domain.RebateSpouse, domain.RebateDescendant}
		b := sale()
		b.ElectedRebates = []domain.RebateKind{domain.RebateDescendant, domain.RebateSpouse, domain.RebateSpouse}
		assert.Equal(t, CacheKey(cfg, a), CacheKey(cfg, b))
	})

	t.Run("Inputs change the key", func(t *testing.T) {
		other := sale()
		other.TransferPrice = decimal.NewFromInt(200001)
		assert.NotEqual(t, CacheKey(cfg, base), CacheKey(cfg, other))
	})

	t.Run("Configuration changes the key", func(t *testing.T) {
		updated := talavera()
		updated.TaxRate = decimal.NewFromInt(25)
		assert.NotEqual(t, CacheKey(cfg, base), CacheKey(updated, base))
	})

	t.Run("Coefficient change changes the key", func(t *testing.T) {
		updated := talavera()
		updated.Coefficients[5] = decimal.RequireFromString("0.10")
		assert.NotEqual(t, CacheKey(cfg, base), CacheKey(updated, base))
	})

	t.Run("Coefficient scale does not matter", func(t *testing.T) {
		updated := talavera()
		updated.Coefficients[5] = decimal.RequireFromString("0.170")
		assert.Equal(t, CacheKey(cfg, base), CacheKey(updated, base))
	})

	t.Run("Rebate change changes the key", func(t *testing.T) {
		tests := []struct {
			name   string
			rebate domain.Rebate
		}{
			{name: "Percent", rebate: domain.Rebate{Applicable: true, Percent: decimal.NewFromInt(95)}},
			{name: "Applicability", rebate: domain.Rebate{Applicable: false, Percent: decimal.NewFromInt(50)}},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				updated := talavera()
				updated.Rebates[domain.RebateSpouse] = tt.rebate
				assert.NotEqual(t, CacheKey(cfg, base), CacheKey(updated, base))
			})
		}
	})

	t.Run("Added rebate changes the key", func(t *testing.T) {
		updated := talavera()
		updated.Rebates[domain.RebateDescendant] = domain.Rebate{Applicable: true, Percent: decimal.NewFromInt(50)}
		assert.NotEqual(t, CacheKey(cfg, base), CacheKey(updated, base))
	})

	t.Run("Prefixed", func(t *testing.T) {
		assert.Contains(t, CacheKey(cfg, base), "plusvalia:calc:v1:")
	})
}

// mapCache is an OutcomeCache shared between services in a test
type mapCache struct {
	mu      sync.Mutex
	entries map[string]domain.Outcome
}

func (c *mapCache) Get(_ context.Context, key string) (*domain.Outcome, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	outcome, ok := c.entries[key]
	if !ok {
		return nil, false, nil
	}
	return &outcome, true, nil
}

func (c *mapCache) Set(_ context.Context, key string, outcome domain.Outcome, _ time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = outcome
	return nil
}

func TestCalculationService_ChangedCoefficientsBypassCache(t *testing.T) {
	shared := &mapCache{entries: make(map[string]domain.Outcome)}

	first, err := NewCalculationService(newRepo(t), WithCache(shared, time.Hour))
	require.NoError(t, err)

	updated := talavera()
	updated.Coefficients[5] = decimal.RequireFromString("0.10")
	repo := memory.NewMunicipalityRepository()
	require.NoError(t, repo.Upsert(context.Background(), updated))
	second, err := NewCalculationService(repo, WithCache(shared, time.Hour))
	require.NoError(t, err)

	before, err := first.Calculate(context.Background(), "talavera-de-la-reina", sale())
	require.NoError(t, err)
	after, err := second.Calculate(context.Background(), "talavera-de-la-reina", sale())
	require.NoError(t, err)

	assert.Equal(t, "2550.00", before.Outcome.Result.QuotaFinal.StringFixed(2))
	assert.False(t, after.Cached)
	assert.Equal(t, "1500.00", after.Outcome.Result.QuotaFinal.StringFixed(2))
}
