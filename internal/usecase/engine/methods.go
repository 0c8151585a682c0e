package engine

import (
	"github.com/shopspring/decimal"

	"github.com/simaogato/plusvalia-backend/internal/domain"
)

// ObjectiveMethod prices the transfer with the statutory formula
// Logic:
//   - Base = land cadastral value × coefficient(years clamped to 1-20)
//   - Quota = Base × rate / 100
//
// The method is not applicable (no error) when the land value is unknown,
// when less than a full year elapsed, or when the schedule has no coefficient.
func ObjectiveMethod(landValue decimal.Decimal, years int, coefficients domain.CoefficientSchedule, taxRate decimal.Decimal) *domain.MethodResult {
	result := &domain.MethodResult{
		Method:             domain.MethodObjective,
		TaxRate:            taxRate,
		LandCadastralValue: landValue,
	}

	if landValue.LessThanOrEqual(decimal.Zero) {
		result.Reason = domain.ReasonNoLandValue
		return result
	}

	if years < domain.MinCoefficientYear {
		result.Reason = domain.ReasonUnderOneYear
		return result
	}

	result.Years = domain.ClampYears(years)
	coefficient, ok := coefficients.Lookup(years)
	if !ok {
		result.Reason = domain.ReasonMissingCoefficient
		return result
	}

	base := landValue.Mul(coefficient)

	result.Applicable = true
	result.Coefficient = coefficient
	result.Base = RoundCents(base)
	result.Quota = RoundCents(applyRate(base, taxRate))

	return result
}

// RealMethod prices the transfer with the actual gain
// Logic:
//   - Increase = transfer price - acquisition price
//   - Increase <= 0: applicable but HasGain=false, quota 0 (no tax is accrued)
//   - Proportion = land / total cadastral value, 1 when either is unknown
//   - Base = Increase × Proportion; Quota = Base × rate / 100
func RealMethod(acquisitionPrice, transferPrice, landValue, totalValue, taxRate decimal.Decimal) *domain.MethodResult {
	result := &domain.MethodResult{
		Method:     domain.MethodReal,
		Applicable: true,
		TaxRate:    taxRate,
	}

	increase := transferPrice.Sub(acquisitionPrice)
	if increase.LessThanOrEqual(decimal.Zero) {
		result.Reason = domain.ReasonNoIncrease
		result.Quota = decimal.Zero
		return result
	}

	proportion := divideOrDefault(landValue, totalValue, decimal.NewFromInt(1))
	base := increase.Mul(proportion)

	result.HasGain = true
	result.Increase = RoundCents(increase)
	result.LandProportion = RoundCents(proportion.Mul(hundred))
	result.Base = RoundCents(base)
	result.Quota = RoundCents(applyRate(base, taxRate))

	return result
}
