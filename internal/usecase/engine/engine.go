package engine

import (
	"errors"

	"github.com/simaogato/plusvalia-backend/internal/domain"
)

// Calculate computes the plusvalía municipal for one transfer
// Logic:
//  1. Validate the input (returns *domain.ValidationError)
//  2. Less than a full year held -> NoTaxDue
//  3. Compute both methods; no real increase -> NoTaxDue, without comparing methods
//  4. Pick the lower quota (tie -> objective); none usable -> CalculationError
//  5. Inheritance: apply the highest elected rebate
//
// The function is pure: identical inputs always give identical outcomes.
func Calculate(in domain.TransferInput, cfg *domain.MunicipalityConfig) (domain.Outcome, error) {
	if cfg == nil {
		return domain.Outcome{}, errors.New("municipality configuration is required")
	}

	if err := in.Validate(); err != nil {
		return domain.Outcome{}, err
	}

	years := YearsHeld(in.AcquisitionDate, in.TransferDate)
	if years < domain.MinCoefficientYear {
		return domain.NoTaxDue(domain.ReasonUnderOneYear), nil
	}

	objective := ObjectiveMethod(in.LandCadastralValue, years, cfg.Coefficients, cfg.TaxRate)
	realResult := RealMethod(in.AcquisitionPrice, in.TransferPrice, in.LandCadastralValue, in.TotalCadastralValue, cfg.TaxRate)

	if realResult.Applicable && !realResult.HasGain {
		return domain.NoTaxDue(domain.ReasonNoIncrease), nil
	}

	method, ok := SelectMethod(objective, realResult)
	if !ok {
		return domain.CalculationFailed(domain.ReasonNoApplicableMethod), nil
	}

	result := &domain.FinalResult{
		ChosenMethod: method,
		Objective:    objective,
		Real:         realResult,
		YearsHeld:    years,
		Kind:         in.Kind,
	}

	result.QuotaBeforeRebate = result.Chosen().Quota
	result.RebatePercent = EffectiveRebate(&in, cfg)
	result.QuotaFinal = ApplyRebate(result.QuotaBeforeRebate, result.RebatePercent)

	return domain.Computed(result), nil
}
