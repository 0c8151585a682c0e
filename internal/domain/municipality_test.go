package domain

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validMunicipality() MunicipalityConfig {
	coefficients := make(CoefficientSchedule)
	for year := MinCoefficientYear; year <= MaxCoefficientYear; year++ {
		coefficients[year] = decimal.RequireFromString("0.10")
	}

	return MunicipalityConfig{
		ID:           "motril",
		Name:         "Motril",
		TaxRate:      decimal.NewFromInt(30),
		Coefficients: coefficients,
		Rebates: map[RebateKind]Rebate{
			RebateSpouse: {Applicable: true, Percent: decimal.NewFromInt(50)},
		},
		Deadlines: FilingDeadlines{SaleBusinessDays: 30, InheritanceMonths: 6},
	}
}

func TestMunicipalityConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(m *MunicipalityConfig)
		wantErr bool
		errMsg  string
	}{
		{
			name:    "Valid configuration should pass",
			mutate:  func(m *MunicipalityConfig) {},
			wantErr: false,
		},
		{
			name:    "Empty ID should fail",
			mutate:  func(m *MunicipalityConfig) { m.ID = "" },
			wantErr: true,
			errMsg:  "municipality id cannot be empty",
		},
		{
			name:    "Empty name should fail",
			mutate:  func(m *MunicipalityConfig) { m.Name = "" },
			wantErr: true,
			errMsg:  "municipality name cannot be empty",
		},
		{
			name:    "Tax rate above legal cap should fail",
			mutate:  func(m *MunicipalityConfig) { m.TaxRate = decimal.RequireFromString("30.01") },
			wantErr: true,
			errMsg:  "tax rate must be between 0 and 30",
		},
		{
			name:    "Negative tax rate should fail",
			mutate:  func(m *MunicipalityConfig) { m.TaxRate = decimal.NewFromInt(-1) },
			wantErr: true,
			errMsg:  "tax rate must be between 0 and 30",
		},
		{
			name:    "Zero tax rate is allowed",
			mutate:  func(m *MunicipalityConfig) { m.TaxRate = decimal.Zero },
			wantErr: false,
		},
		{
			name:    "Missing coefficient year should fail",
			mutate:  func(m *MunicipalityConfig) { delete(m.Coefficients, 13) },
			wantErr: true,
			errMsg:  "missing coefficient for year 13",
		},
		{
			name:    "Negative coefficient should fail",
			mutate:  func(m *MunicipalityConfig) { m.Coefficients[2] = decimal.RequireFromString("-0.01") },
			wantErr: true,
			errMsg:  "coefficient for year 2 must not be negative",
		},
		{
			name: "Rebate above 100 percent should fail",
			mutate: func(m *MunicipalityConfig) {
				m.Rebates[RebateDescendant] = Rebate{Applicable: true, Percent: decimal.NewFromInt(101)}
			},
			wantErr: true,
			errMsg:  "rebate descendant percent must be between 0 and 100",
		},
		{
			name:    "Zero filing deadline should fail",
			mutate:  func(m *MunicipalityConfig) { m.Deadlines.SaleBusinessDays = 0 },
			wantErr: true,
			errMsg:  "filing deadlines must be positive",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := validMunicipality()
			tt.mutate(&m)

			err := m.Validate()
			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errMsg)
				assert.True(t, errors.Is(err, ErrInvalidConfig))
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestCoefficientSchedule_Lookup(t *testing.T) {
	m := validMunicipality()
	m.Coefficients[1] = decimal.RequireFromString("0.14")
	m.Coefficients[20] = decimal.RequireFromString("0.08")

	tests := []struct {
		name     string
		years    int
		expected string
	}{
		{name: "Within range", years: 1, expected: "0.14"},
		{name: "Above range clamps to 20", years: 25, expected: "0.08"},
		{name: "Below range clamps to 1", years: 0, expected: "0.14"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			coefficient, ok := m.Coefficients.Lookup(tt.years)
			require.True(t, ok)
			assert.True(t, coefficient.Equal(decimal.RequireFromString(tt.expected)))
		})
	}
}

func TestMunicipalityConfig_RebateMissingKind(t *testing.T) {
	m := validMunicipality()

	rebate := m.Rebate(RebateHabitualResidence)
	assert.False(t, rebate.Applicable)
	assert.True(t, rebate.Percent.IsZero())
}

func TestParseRebateKind(t *testing.T) {
	kind, err := ParseRebateKind("habitual_residence")
	require.NoError(t, err)
	assert.Equal(t, RebateHabitualResidence, kind)

	_, err = ParseRebateKind("cousin")
	assert.Error(t, err)
}
