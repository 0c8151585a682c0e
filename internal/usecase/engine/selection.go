package engine

import (
	"github.com/shopspring/decimal"

	"github.com/simaogato/plusvalia-backend/internal/domain"
)

// SelectMethod picks the method with the lower quota among the taxable ones.
// Equal quotas resolve to the objective method. Returns false when neither
// method can be used.
func SelectMethod(objective, realResult *domain.MethodResult) (domain.Method, bool) {
	switch {
	case objective.Taxable() && realResult.Taxable():
		if objective.Quota.LessThanOrEqual(realResult.Quota) {
			return domain.MethodObjective, true
		}
		return domain.MethodReal, true
	case objective.Taxable():
		return domain.MethodObjective, true
	case realResult.Taxable():
		return domain.MethodReal, true
	default:
		return "", false
	}
}

// EffectiveRebate returns the rebate percentage for an inheritance: the
// highest percentage among the categories that were elected and that the
// municipality grants. Rebates never stack.
func EffectiveRebate(in *domain.TransferInput, cfg *domain.MunicipalityConfig) decimal.Decimal {
	percent := decimal.Zero
	if in.Kind != domain.TransferKindInheritance {
		return percent
	}

	for _, kind := range domain.RebateKinds {
		if !in.Elected(kind) {
			continue
		}
		rebate := cfg.Rebate(kind)
		if rebate.Applicable {
			percent = decimal.Max(percent, rebate.Percent)
		}
	}

	return percent
}

// ApplyRebate reduces quota by percent. A non-positive percent returns quota untouched.
func ApplyRebate(quota, percent decimal.Decimal) decimal.Decimal {
	if percent.LessThanOrEqual(decimal.Zero) {
		return quota
	}
	discount := applyRate(quota, percent)
	return RoundCents(quota.Sub(discount))
}
