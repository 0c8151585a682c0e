package catalog

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/simaogato/plusvalia-backend/internal/domain"
)

// CatalogService exposes the configured municipalities
type CatalogService struct {
	MunicipalityRepo domain.MunicipalityRepository

	// collate.Collator is not safe for concurrent use
	mu       sync.Mutex
	collator *collate.Collator
}

// NewCatalogService creates a new CatalogService instance
func NewCatalogService(municipalityRepo domain.MunicipalityRepository) *CatalogService {
	return &CatalogService{
		MunicipalityRepo: municipalityRepo,
		collator:         collate.New(language.Spanish, collate.IgnoreCase),
	}
}

// List returns every municipality sorted by name using Spanish collation
// ("Ávila" sorts before "Bilbao"). An empty region returns all regions.
func (s *CatalogService) List(ctx context.Context, region string) ([]*domain.MunicipalityConfig, error) {
	municipalities, err := s.MunicipalityRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list municipalities: %w", err)
	}

	if region != "" {
		filtered := municipalities[:0]
		for _, m := range municipalities {
			if strings.EqualFold(m.Region, region) {
				filtered = append(filtered, m)
			}
		}
		municipalities = filtered
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	sort.SliceStable(municipalities, func(i, j int) bool {
		if c := s.collator.CompareString(municipalities[i].Name, municipalities[j].Name); c != 0 {
			return c < 0
		}
		return municipalities[i].ID < municipalities[j].ID
	})

	return municipalities, nil
}

// Get returns the municipality identified by its slug
func (s *CatalogService) Get(ctx context.Context, id string) (*domain.MunicipalityConfig, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, &domain.ValidationError{Field: "municipality_id", Message: "cannot be empty"}
	}

	return s.MunicipalityRepo.GetByID(ctx, id)
}
