package domain

import (
	"fmt"

	"github.com/shopspring/decimal"
)

const (
	// MinCoefficientYear and MaxCoefficientYear bound the statutory coefficient table
	MinCoefficientYear = 1
	MaxCoefficientYear = 20
)

var (
	// MaxTaxRate is the legal cap on the municipal tax rate (percent)
	MaxTaxRate = decimal.NewFromInt(30)

	hundred = decimal.NewFromInt(100)
)

// RebateKind identifies one of the inheritance rebate categories
type RebateKind string

const (
	RebateSpouse            RebateKind = "spouse"
	RebateDescendant        RebateKind = "descendant"
	RebateHabitualResidence RebateKind = "habitual_residence"
)

// RebateKinds lists every rebate category in evaluation order
var RebateKinds = []RebateKind{RebateSpouse, RebateDescendant, RebateHabitualResidence}

// ParseRebateKind converts a string into a RebateKind
func ParseRebateKind(s string) (RebateKind, error) {
	for _, k := range RebateKinds {
		if string(k) == s {
			return k, nil
		}
	}
	return "", fmt.Errorf("unknown rebate %q", s)
}

// Rebate is a percentage reduction of the quota granted by a municipality
type Rebate struct {
	Applicable  bool
	Percent     decimal.Decimal // 0-100
	Description string
}

// FilingDeadlines are the voluntary self-assessment periods
type FilingDeadlines struct {
	SaleBusinessDays  int // días hábiles from the transfer
	InheritanceMonths int // months from the death
}

// CoefficientSchedule maps whole years held (1..20) to the multiplier applied
// to the land cadastral value
type CoefficientSchedule map[int]decimal.Decimal

// Lookup returns the coefficient for years, clamped to the table range
func (c CoefficientSchedule) Lookup(years int) (decimal.Decimal, bool) {
	coefficient, ok := c[ClampYears(years)]
	return coefficient, ok
}

// ClampYears clamps a holding period to the statutory coefficient range
func ClampYears(years int) int {
	if years < MinCoefficientYear {
		return MinCoefficientYear
	}
	if years > MaxCoefficientYear {
		return MaxCoefficientYear
	}
	return years
}

// MunicipalityConfig is the immutable tax configuration of one town hall
type MunicipalityConfig struct {
	ID         string // slug, e.g. "talavera-de-la-reina"
	Name       string
	Province   string
	Region     string
	Population int

	TaxRate      decimal.Decimal // percent, 0-30
	Coefficients CoefficientSchedule
	Rebates      map[RebateKind]Rebate
	Deadlines    FilingDeadlines

	TownHallURL     string
	TownHallAddress string
	TownHallPhone   string
	LastUpdated     string
}

// Rebate returns the rebate definition for kind. Missing kinds are not applicable.
func (m *MunicipalityConfig) Rebate(kind RebateKind) Rebate {
	return m.Rebates[kind]
}

// Validate ensures the configuration adheres to the legal limits
// Returns a *ConfigError describing the first violated rule
func (m *MunicipalityConfig) Validate() error {
	if m.ID == "" {
		return &ConfigError{Municipality: m.ID, Message: "municipality id cannot be empty"}
	}

	if m.Name == "" {
		return &ConfigError{Municipality: m.ID, Message: "municipality name cannot be empty"}
	}

	if m.TaxRate.LessThan(decimal.Zero) || m.TaxRate.GreaterThan(MaxTaxRate) {
		return &ConfigError{Municipality: m.ID, Message: "tax rate must be between 0 and 30"}
	}

	// The coefficient table must cover every year of the statutory range
	for year := MinCoefficientYear; year <= MaxCoefficientYear; year++ {
		coefficient, ok := m.Coefficients[year]
		if !ok {
			return &ConfigError{Municipality: m.ID, Message: fmt.Sprintf("missing coefficient for year %d", year)}
		}
		if coefficient.LessThan(decimal.Zero) {
			return &ConfigError{Municipality: m.ID, Message: fmt.Sprintf("coefficient for year %d must not be negative", year)}
		}
	}

	for kind, rebate := range m.Rebates {
		if rebate.Percent.LessThan(decimal.Zero) || rebate.Percent.GreaterThan(hundred) {
			return &ConfigError{Municipality: m.ID, Message: fmt.Sprintf("rebate %s percent must be between 0 and 100", kind)}
		}
	}

	if m.Deadlines.SaleBusinessDays <= 0 || m.Deadlines.InheritanceMonths <= 0 {
		return &ConfigError{Municipality: m.ID, Message: "filing deadlines must be positive"}
	}

	return nil
}

// Clone returns a deep copy so callers cannot mutate a shared configuration
func (m *MunicipalityConfig) Clone() *MunicipalityConfig {
	c := *m

	c.Coefficients = make(CoefficientSchedule, len(m.Coefficients))
	for year, coefficient := range m.Coefficients {
		c.Coefficients[year] = coefficient
	}

	c.Rebates = make(map[RebateKind]Rebate, len(m.Rebates))
	for kind, rebate := range m.Rebates {
		c.Rebates[kind] = rebate
	}

	return &c
}
