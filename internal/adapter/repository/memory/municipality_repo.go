package memory

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/simaogato/plusvalia-backend/internal/domain"
)

// municipalityRepository implements domain.MunicipalityRepository
type municipalityRepository struct {
	mu             sync.RWMutex
	municipalities map[string]*domain.MunicipalityConfig
}

// NewMunicipalityRepository creates an empty in-memory municipality repository
func NewMunicipalityRepository() domain.MunicipalityRepository {
	return &municipalityRepository{
		municipalities: make(map[string]*domain.MunicipalityConfig),
	}
}

// GetByID retrieves a municipality by its slug
func (r *municipalityRepository) GetByID(ctx context.Context, id string) (*domain.MunicipalityConfig, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	municipality, ok := r.municipalities[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrMunicipalityNotFound, id)
	}

	return municipality.Clone(), nil
}

// Upsert stores a copy of the municipality, replacing any previous entry
func (r *municipalityRepository) Upsert(ctx context.Context, municipality *domain.MunicipalityConfig) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if municipality == nil {
		return errors.New("municipality cannot be nil")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.municipalities[municipality.ID] = municipality.Clone()
	return nil
}

// List retrieves a copy of every stored municipality
func (r *municipalityRepository) List(ctx context.Context) ([]*domain.MunicipalityConfig, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	municipalities := make([]*domain.MunicipalityConfig, 0, len(r.municipalities))
	for _, municipality := range r.municipalities {
		municipalities = append(municipalities, municipality.Clone())
	}

	return municipalities, nil
}
