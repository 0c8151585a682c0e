package seeder

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"os"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/simaogato/plusvalia-backend/internal/domain"
)

//go:embed municipalities.yaml
var defaultCatalog []byte

type catalogFile struct {
	Municipalities []municipalityRecord `yaml:"municipalities"`
}

type municipalityRecord struct {
	ID           string                  `yaml:"id"`
	Name         string                  `yaml:"name"`
	Province     string                  `yaml:"province"`
	Region       string                  `yaml:"region"`
	Population   int                     `yaml:"population"`
	TaxRate      string                  `yaml:"tax_rate"`
	Coefficients map[int]string          `yaml:"coefficients"`
	Rebates      map[string]rebateRecord `yaml:"rebates"`
	Deadlines    struct {
		SaleBusinessDays  int `yaml:"sale_business_days"`
		InheritanceMonths int `yaml:"inheritance_months"`
	} `yaml:"deadlines"`
	TownHall struct {
		URL     string `yaml:"url"`
		Address string `yaml:"address"`
		Phone   string `yaml:"phone"`
	} `yaml:"town_hall"`
	LastUpdated string `yaml:"last_updated"`
}

type rebateRecord struct {
	Applicable  bool   `yaml:"applicable"`
	Percent     string `yaml:"percent"`
	Description string `yaml:"description"`
}

func (r municipalityRecord) toDomain() (*domain.MunicipalityConfig, error) {
	taxRate, err := decimal.NewFromString(r.TaxRate)
	if err != nil {
		return nil, fmt.Errorf("municipality %s: invalid tax rate %q: %w", r.ID, r.TaxRate, err)
	}

	coefficients := make(domain.CoefficientSchedule, len(r.Coefficients))
	for year, raw := range r.Coefficients {
		coefficient, err := decimal.NewFromString(raw)
		if err != nil {
			return nil, fmt.Errorf("municipality %s: invalid coefficient for year %d: %w", r.ID, year, err)
		}
		coefficients[year] = coefficient
	}

	rebates := make(map[domain.RebateKind]domain.Rebate, len(r.Rebates))
	for name, rebate := range r.Rebates {
		kind, err := domain.ParseRebateKind(name)
		if err != nil {
			return nil, fmt.Errorf("municipality %s: %w", r.ID, err)
		}
		percent, err := decimal.NewFromString(rebate.Percent)
		if err != nil {
			return nil, fmt.Errorf("municipality %s: invalid percent for rebate %s: %w", r.ID, name, err)
		}
		rebates[kind] = domain.Rebate{
			Applicable:  rebate.Applicable,
			Percent:     percent,
			Description: rebate.Description,
		}
	}

	return &domain.MunicipalityConfig{
		ID:           r.ID,
		Name:         r.Name,
		Province:     r.Province,
		Region:       r.Region,
		Population:   r.Population,
		TaxRate:      taxRate,
		Coefficients: coefficients,
		Rebates:      rebates,
		Deadlines: domain.FilingDeadlines{
			SaleBusinessDays:  r.Deadlines.SaleBusinessDays,
			InheritanceMonths: r.Deadlines.InheritanceMonths,
		},
		TownHallURL:     r.TownHall.URL,
		TownHallAddress: r.TownHall.Address,
		TownHallPhone:   r.TownHall.Phone,
		LastUpdated:     r.LastUpdated,
	}, nil
}

// ParseCatalog decodes and validates a YAML municipality catalog
func ParseCatalog(data []byte) ([]*domain.MunicipalityConfig, error) {
	var file catalogFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to decode municipality catalog: %w", err)
	}

	if len(file.Municipalities) == 0 {
		return nil, errors.New("municipality catalog is empty")
	}

	seen := make(map[string]struct{}, len(file.Municipalities))
	municipalities := make([]*domain.MunicipalityConfig, 0, len(file.Municipalities))
	for _, record := range file.Municipalities {
		municipality, err := record.toDomain()
		if err != nil {
			return nil, err
		}

		if _, dup := seen[municipality.ID]; dup {
			return nil, fmt.Errorf("duplicate municipality id %q", municipality.ID)
		}
		seen[municipality.ID] = struct{}{}

		if err := municipality.Validate(); err != nil {
			return nil, err
		}

		municipalities = append(municipalities, municipality)
	}

	return municipalities, nil
}

// DefaultCatalog returns the municipalities bundled with the binary
func DefaultCatalog() ([]*domain.MunicipalityConfig, error) {
	return ParseCatalog(defaultCatalog)
}

// LoadCatalogFile reads a catalog from disk
func LoadCatalogFile(path string) ([]*domain.MunicipalityConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read municipality catalog: %w", err)
	}
	return ParseCatalog(data)
}

// MunicipalitySeeder loads the municipality catalog into a repository
type MunicipalitySeeder struct {
	repo    domain.MunicipalityRepository
	catalog []*domain.MunicipalityConfig
	logger  *zap.Logger
}

// NewMunicipalitySeeder creates a seeder for the given catalog
func NewMunicipalitySeeder(repo domain.MunicipalityRepository, catalog []*domain.MunicipalityConfig, logger *zap.Logger) *MunicipalitySeeder {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &MunicipalitySeeder{
		repo:    repo,
		catalog: catalog,
		logger:  logger,
	}
}

// Seed ensures every catalog municipality exists in the repository
// Existing entries are left untouched. Returns the number of municipalities created.
func (s *MunicipalitySeeder) Seed(ctx context.Context) (int, error) {
	created := 0
	for _, municipality := range s.catalog {
		_, err := s.repo.GetByID(ctx, municipality.ID)
		if err == nil {
			continue
		}
		if !errors.Is(err, domain.ErrMunicipalityNotFound) {
			return created, fmt.Errorf("failed to look up municipality %s: %w", municipality.ID, err)
		}

		if err := municipality.Validate(); err != nil {
			return created, err
		}

		if err := s.repo.Upsert(ctx, municipality); err != nil {
			return created, fmt.Errorf("failed to store municipality %s: %w", municipality.ID, err)
		}
		created++

		s.logger.Debug("seeded municipality", zap.String("municipality_id", municipality.ID))
	}

	s.logger.Info("municipality catalog seeded",
		zap.Int("created", created),
		zap.Int("catalog_size", len(s.catalog)),
	)

	return created, nil
}
