package domain

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// TransferKind represents how the property changed hands
type TransferKind string

const (
	TransferKindSale        TransferKind = "sale"
	TransferKindInheritance TransferKind = "inheritance"
)

// ParseTransferKind converts a string into a TransferKind
func ParseTransferKind(s string) (TransferKind, error) {
	switch TransferKind(s) {
	case TransferKindSale, TransferKindInheritance:
		return TransferKind(s), nil
	default:
		return "", &ValidationError{Field: "kind", Message: fmt.Sprintf("must be %q or %q", TransferKindSale, TransferKindInheritance)}
	}
}

// TransferInput holds the primitives of one calculation request
type TransferInput struct {
	Kind             TransferKind
	AcquisitionPrice decimal.Decimal
	TransferPrice    decimal.Decimal
	AcquisitionDate  time.Time
	TransferDate     time.Time

	// Cadastral values are optional: zero means unknown
	LandCadastralValue  decimal.Decimal
	TotalCadastralValue decimal.Decimal

	// ElectedRebates only matter when Kind is inheritance
	ElectedRebates []RebateKind
}

// Validate ensures the input can be handed to the tax engine
// Returns a *ValidationError naming the offending field
func (in *TransferInput) Validate() error {
	if _, err := ParseTransferKind(string(in.Kind)); err != nil {
		return err
	}

	if in.AcquisitionPrice.LessThanOrEqual(decimal.Zero) {
		return &ValidationError{Field: "acquisition_price", Message: "must be positive"}
	}

	if in.TransferPrice.LessThanOrEqual(decimal.Zero) {
		return &ValidationError{Field: "transfer_price", Message: "must be positive"}
	}

	if in.AcquisitionDate.IsZero() {
		return &ValidationError{Field: "acquisition_date", Message: "is required"}
	}

	if in.TransferDate.IsZero() {
		return &ValidationError{Field: "transfer_date", Message: "is required"}
	}

	if !in.TransferDate.After(in.AcquisitionDate) {
		return &ValidationError{Field: "transfer_date", Message: "must be after the acquisition date"}
	}

	if in.LandCadastralValue.LessThan(decimal.Zero) {
		return &ValidationError{Field: "land_cadastral_value", Message: "must not be negative"}
	}

	if in.TotalCadastralValue.LessThan(decimal.Zero) {
		return &ValidationError{Field: "total_cadastral_value", Message: "must not be negative"}
	}

	for _, kind := range in.ElectedRebates {
		if _, err := ParseRebateKind(string(kind)); err != nil {
			return &ValidationError{Field: "rebates", Message: err.Error()}
		}
	}

	return nil
}

// Elected reports whether the taxpayer ticked the given rebate
func (in *TransferInput) Elected(kind RebateKind) bool {
	for _, k := range in.ElectedRebates {
		if k == kind {
			return true
		}
	}
	return false
}
