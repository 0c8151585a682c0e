package dto

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/simaogato/plusvalia-backend/internal/adapter/presenter"
	"github.com/simaogato/plusvalia-backend/internal/domain"
)

// DateLayout is the wire format of calendar dates
const DateLayout = "2006-01-02"

// CalculationRequest is the wire shape of a calculation request.
// Amounts are decimal strings so no precision is lost in transit.
type CalculationRequest struct {
	MunicipalityID      string   `json:"municipality_id"`
	Kind                string   `json:"kind"`
	AcquisitionPrice    string   `json:"acquisition_price"`
	TransferPrice       string   `json:"transfer_price"`
	AcquisitionDate     string   `json:"acquisition_date"`
	TransferDate        string   `json:"transfer_date"`
	LandCadastralValue  string   `json:"land_cadastral_value,omitempty"`
	TotalCadastralValue string   `json:"total_cadastral_value,omitempty"`
	Rebates             []string `json:"rebates,omitempty"`
}

// ToInput parses the request into a domain.TransferInput and normalises
// MunicipalityID in place. Parse failures are returned as *domain.ValidationError.
func (r *CalculationRequest) ToInput() (domain.TransferInput, error) {
	var in domain.TransferInput

	r.MunicipalityID = strings.TrimSpace(r.MunicipalityID)
	if r.MunicipalityID == "" {
		return in, &domain.ValidationError{Field: "municipality_id", Message: "cannot be empty"}
	}

	kind, err := domain.ParseTransferKind(strings.ToLower(strings.TrimSpace(r.Kind)))
	if err != nil {
		return in, err
	}
	in.Kind = kind

	if in.AcquisitionPrice, err = parseAmount("acquisition_price", r.AcquisitionPrice, true); err != nil {
		return in, err
	}
	if in.TransferPrice, err = parseAmount("transfer_price", r.TransferPrice, true); err != nil {
		return in, err
	}
	if in.LandCadastralValue, err = parseAmount("land_cadastral_value", r.LandCadastralValue, false); err != nil {
		return in, err
	}
	if in.TotalCadastralValue, err = parseAmount("total_cadastral_value", r.TotalCadastralValue, false); err != nil {
		return in, err
	}

	if in.AcquisitionDate, err = parseDate("acquisition_date", r.AcquisitionDate); err != nil {
		return in, err
	}
	if in.TransferDate, err = parseDate("transfer_date", r.TransferDate); err != nil {
		return in, err
	}

	for _, raw := range r.Rebates {
		kind, err := domain.ParseRebateKind(strings.TrimSpace(raw))
		if err != nil {
			return in, &domain.ValidationError{Field: "rebates", Message: err.Error()}
		}
		in.ElectedRebates = append(in.ElectedRebates, kind)
	}

	return in, nil
}

func parseAmount(field, raw string, required bool) (decimal.Decimal, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		if required {
			return decimal.Zero, &domain.ValidationError{Field: field, Message: "is required"}
		}
		return decimal.Zero, nil
	}

	amount, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, &domain.ValidationError{Field: field, Message: "must be a decimal number"}
	}
	return amount, nil
}

func parseDate(field, raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, &domain.ValidationError{Field: field, Message: "is required"}
	}

	date, err := time.Parse(DateLayout, raw)
	if err != nil {
		return time.Time{}, &domain.ValidationError{Field: field, Message: "must be a date formatted YYYY-MM-DD"}
	}
	return date, nil
}

// MethodResponse is one valuation method in a response
type MethodResponse struct {
	Method     string `json:"method"`
	Applicable bool   `json:"applicable"`
	Reason     string `json:"reason,omitempty"`
	Base       string `json:"base"`
	TaxRate    string `json:"tax_rate"`
	Quota      string `json:"quota"`

	LandCadastralValue string `json:"land_cadastral_value,omitempty"`
	Coefficient        string `json:"coefficient,omitempty"`
	Years              int    `json:"years,omitempty"`

	HasGain        bool   `json:"has_gain,omitempty"`
	Increase       string `json:"increase,omitempty"`
	LandProportion string `json:"land_proportion,omitempty"`
}

// ResultResponse is a computed tax
type ResultResponse struct {
	ChosenMethod      string          `json:"chosen_method"`
	Objective         *MethodResponse `json:"objective,omitempty"`
	Real              *MethodResponse `json:"real,omitempty"`
	RebatePercent     string          `json:"rebate_percent"`
	QuotaBeforeRebate string          `json:"quota_before_rebate"`
	QuotaFinal        string          `json:"quota_final"`
	YearsHeld         int             `json:"years_held"`
	Kind              string          `json:"kind"`
}

// OutcomeResponse mirrors domain.Outcome
type OutcomeResponse struct {
	Kind   string          `json:"kind"`
	Reason string          `json:"reason,omitempty"`
	Result *ResultResponse `json:"result,omitempty"`
}

// DeadlineResponse is the filing deadline
type DeadlineResponse struct {
	Amount  int    `json:"amount"`
	Unit    string `json:"unit"`
	From    string `json:"from"`
	DueDate string `json:"due_date"`
}

// CalculationResponse is the wire shape of an answered calculation
type CalculationResponse struct {
	ID             string               `json:"id"`
	MunicipalityID string               `json:"municipality_id"`
	CalculatedAt   string               `json:"calculated_at"`
	Cached         bool                 `json:"cached"`
	Outcome        OutcomeResponse      `json:"outcome"`
	Deadline       *DeadlineResponse    `json:"deadline,omitempty"`
	Breakdown      *presenter.Breakdown `json:"breakdown,omitempty"`
}

// NewCalculationResponse converts a calculation for the wire
func NewCalculationResponse(calc *domain.Calculation, breakdown *presenter.Breakdown) *CalculationResponse {
	resp := &CalculationResponse{
		ID:             calc.ID.String(),
		MunicipalityID: calc.MunicipalityID,
		CalculatedAt:   calc.CalculatedAt.UTC().Format(time.RFC3339),
		Cached:         calc.Cached,
		Outcome: OutcomeResponse{
			Kind:   string(calc.Outcome.Kind),
			Reason: calc.Outcome.Reason,
		},
		Breakdown: breakdown,
	}

	if result := calc.Outcome.Result; result != nil {
		resp.Outcome.Result = &ResultResponse{
			ChosenMethod:      string(result.ChosenMethod),
			Objective:         newMethodResponse(result.Objective),
			Real:              newMethodResponse(result.Real),
			RebatePercent:     result.RebatePercent.String(),
			QuotaBeforeRebate: money(result.QuotaBeforeRebate),
			QuotaFinal:        money(result.QuotaFinal),
			YearsHeld:         result.YearsHeld,
			Kind:              string(result.Kind),
		}
	}

	if d := calc.Deadline; d != nil {
		resp.Deadline = &DeadlineResponse{
			Amount:  d.Amount,
			Unit:    string(d.Unit),
			From:    d.From.Format(DateLayout),
			DueDate: d.DueDate.Format(DateLayout),
		}
	}

	return resp
}

func newMethodResponse(r *domain.MethodResult) *MethodResponse {
	if r == nil {
		return nil
	}

	resp := &MethodResponse{
		Method:     string(r.Method),
		Applicable: r.Applicable,
		Reason:     r.Reason,
		Base:       money(r.Base),
		TaxRate:    r.TaxRate.String(),
		Quota:      money(r.Quota),
	}

	switch r.Method {
	case domain.MethodObjective:
		resp.LandCadastralValue = money(r.LandCadastralValue)
		resp.Coefficient = r.Coefficient.String()
		resp.Years = r.Years
	case domain.MethodReal:
		resp.HasGain = r.HasGain
		resp.Increase = money(r.Increase)
		resp.LandProportion = r.LandProportion.StringFixed(2)
	}

	return resp
}

func money(d decimal.Decimal) string {
	return d.StringFixed(2)
}
