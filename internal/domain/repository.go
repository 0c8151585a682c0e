package domain

import (
	"context"
	"time"
)

// MunicipalityRepository defines the interface for municipality configuration lookups
type MunicipalityRepository interface {
	// GetByID retrieves a municipality by its slug
	// Returns ErrMunicipalityNotFound if the slug is unknown
	GetByID(ctx context.Context, id string) (*MunicipalityConfig, error)

	// Upsert stores or replaces a municipality configuration
	Upsert(ctx context.Context, municipality *MunicipalityConfig) error

	// List retrieves every configured municipality, in no particular order
	List(ctx context.Context) ([]*MunicipalityConfig, error)
}

// OutcomeCache defines the interface for caching engine outcomes
// A miss is reported as (nil, false, nil)
type OutcomeCache interface {
	Get(ctx context.Context, key string) (*Outcome, bool, error)
	Set(ctx context.Context, key string, outcome Outcome, ttl time.Duration) error
}
