package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Method identifies a valuation method for the taxable base
type Method string

const (
	MethodObjective Method = "objective" // cadastral land value × coefficient
	MethodReal      Method = "real"      // actual gain × land share
)

// Reasons attached to non-applicable methods and terminal outcomes
const (
	ReasonUnderOneYear       = "less than one full year elapsed"
	ReasonMissingCoefficient = "missing coefficient for the holding period"
	ReasonNoLandValue        = "land cadastral value unknown"
	ReasonNoIncrease         = "no increase in value between acquisition and transfer"
	ReasonNoApplicableMethod = "no applicable method: check the supplied data"
)

// MethodResult is the outcome of one valuation method
type MethodResult struct {
	Method     Method          `json:"method"`
	Applicable bool            `json:"applicable"`
	Reason     string          `json:"reason,omitempty"`
	Base       decimal.Decimal `json:"base"`
	TaxRate    decimal.Decimal `json:"tax_rate"`
	Quota      decimal.Decimal `json:"quota"`

	// Objective method
	LandCadastralValue decimal.Decimal `json:"land_cadastral_value"`
	Coefficient        decimal.Decimal `json:"coefficient"`
	Years              int             `json:"years,omitempty"` // clamped to 1-20

	// Real method
	HasGain        bool            `json:"has_gain"`
	Increase       decimal.Decimal `json:"increase"`
	LandProportion decimal.Decimal `json:"land_proportion"` // percent
}

// Taxable reports whether the method can be chosen by the selection rule
func (r *MethodResult) Taxable() bool {
	if r == nil || !r.Applicable {
		return false
	}
	if r.Method == MethodReal {
		return r.HasGain
	}
	return true
}

// FinalResult is the full breakdown of a computed tax
type FinalResult struct {
	ChosenMethod      Method          `json:"chosen_method"`
	Objective         *MethodResult   `json:"objective,omitempty"` // nil when not computed
	Real              *MethodResult   `json:"real,omitempty"`
	RebatePercent     decimal.Decimal `json:"rebate_percent"`
	QuotaBeforeRebate decimal.Decimal `json:"quota_before_rebate"`
	QuotaFinal        decimal.Decimal `json:"quota_final"`
	YearsHeld         int             `json:"years_held"` // unclamped whole years
	Kind              TransferKind    `json:"kind"`
}

// Chosen returns the result of the method that was selected
func (r *FinalResult) Chosen() *MethodResult {
	if r.ChosenMethod == MethodObjective {
		return r.Objective
	}
	return r.Real
}

// OutcomeKind discriminates the engine response
type OutcomeKind string

const (
	OutcomeResult           OutcomeKind = "result"
	OutcomeNoTaxDue         OutcomeKind = "no_tax_due"
	OutcomeCalculationError OutcomeKind = "calculation_error"
)

// Outcome is the engine response: a computed result, a legal "no tax" or a
// calculation failure. Only Result carries a FinalResult.
type Outcome struct {
	Kind   OutcomeKind  `json:"kind"`
	Reason string       `json:"reason,omitempty"`
	Result *FinalResult `json:"result,omitempty"`
}

// NoTaxDue builds a terminal outcome where the tax is not accrued
func NoTaxDue(reason string) Outcome {
	return Outcome{Kind: OutcomeNoTaxDue, Reason: reason}
}

// CalculationFailed builds an outcome where no method could price the transfer
func CalculationFailed(reason string) Outcome {
	return Outcome{Kind: OutcomeCalculationError, Reason: reason}
}

// Computed wraps a final result
func Computed(result *FinalResult) Outcome {
	return Outcome{Kind: OutcomeResult, Result: result}
}

// DeadlineUnit is the unit a filing period is expressed in
type DeadlineUnit string

const (
	DeadlineUnitBusinessDays DeadlineUnit = "business_days"
	DeadlineUnitMonths       DeadlineUnit = "months"
)

// FilingDeadline is the last day to file the self-assessment
type FilingDeadline struct {
	Kind    TransferKind `json:"kind"`
	Amount  int          `json:"amount"`
	Unit    DeadlineUnit `json:"unit"`
	From    time.Time    `json:"from"`
	DueDate time.Time    `json:"due_date"`
}

// Calculation is one answered request
type Calculation struct {
	ID             uuid.UUID
	MunicipalityID string
	CalculatedAt   time.Time
	Outcome        Outcome
	Deadline       *FilingDeadline // set only for OutcomeResult
	Cached         bool
}
