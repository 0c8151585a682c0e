package memory

import (
	"context"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/simaogato/plusvalia-backend/internal/domain"
)

func municipality(id string) *domain.MunicipalityConfig {
	return &domain.MunicipalityConfig{
		ID:           id,
		Name:         id,
		TaxRate:      decimal.NewFromInt(30),
		Coefficients: domain.CoefficientSchedule{1: decimal.RequireFromString("0.14")},
		Rebates: map[domain.RebateKind]domain.Rebate{
			domain.RebateSpouse: {Applicable: true, Percent: decimal.NewFromInt(50)},
		},
	}
}

func TestMunicipalityRepository_UpsertAndGet(t *testing.T) {
	ctx := context.Background()
	repo := NewMunicipalityRepository()

	require.NoError(t, repo.Upsert(ctx, municipality("motril")))

	got, err := repo.GetByID(ctx, "motril")
	require.NoError(t, err)
	assert.Equal(t, "motril", got.ID)
	assert.True(t, got.TaxRate.Equal(decimal.NewFromInt(30)))
}

func TestMunicipalityRepository_GetUnknown(t *testing.T) {
	repo := NewMunicipalityRepository()

	_, err := repo.GetByID(context.Background(), "atlantis")

	assert.ErrorIs(t, err, domain.ErrMunicipalityNotFound)
	assert.Contains(t, err.Error(), "atlantis")
}

func TestMunicipalityRepository_ReturnsCopies(t *testing.T) {
	ctx := context.Background()
	repo := NewMunicipalityRepository()
	original := municipality("linares")
	require.NoError(t, repo.Upsert(ctx, original))

	// Mutating the stored input or a returned value must not leak into the repository
	original.Coefficients[1] = decimal.NewFromInt(9)
	got, err := repo.GetByID(ctx, "linares")
	require.NoError(t, err)
	got.Rebates[domain.RebateSpouse] = domain.Rebate{Percent: decimal.NewFromInt(100)}

	again, err := repo.GetByID(ctx, "linares")
	require.NoError(t, err)
	assert.True(t, again.Coefficients[1].Equal(decimal.RequireFromString("0.14")))
	assert.True(t, again.Rebates[domain.RebateSpouse].Percent.Equal(decimal.NewFromInt(50)))
}

func TestMunicipalityRepository_UpsertReplaces(t *testing.T) {
	ctx := context.Background()
	repo := NewMunicipalityRepository()
	require.NoError(t, repo.Upsert(ctx, municipality("alcoy")))

	updated := municipality("alcoy")
	updated.Name = "Alcoy / Alcoi"
	require.NoError(t, repo.Upsert(ctx, updated))

	all, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, "Alcoy / Alcoi", all[0].Name)
}

func TestMunicipalityRepository_UpsertNil(t *testing.T) {
	repo := NewMunicipalityRepository()

	assert.Error(t, repo.Upsert(context.Background(), nil))
}

func TestMunicipalityRepository_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	repo := NewMunicipalityRepository()

	_, err := repo.GetByID(ctx, "motril")
	assert.ErrorIs(t, err, context.Canceled)
	_, err = repo.List(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	assert.ErrorIs(t, repo.Upsert(ctx, municipality("motril")), context.Canceled)
}

func TestMunicipalityRepository_ConcurrentAccess(t *testing.T) {
	ctx := context.Background()
	repo := NewMunicipalityRepository()
	require.NoError(t, repo.Upsert(ctx, municipality("ponferrada")))

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			_, _ = repo.GetByID(ctx, "ponferrada")
		}()
		go func() {
			defer wg.Done()
			_ = repo.Upsert(ctx, municipality("ponferrada"))
		}()
	}
	wg.Wait()

	all, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}
