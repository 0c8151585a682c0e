package engine

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/simaogato/plusvalia-backend/internal/domain"
)

var maxCoefficients2025 = map[int]string{
	1: "0.14", 2: "0.13", 3: "0.15", 4: "0.15", 5: "0.17",
	6: "0.17", 7: "0.17", 8: "0.12", 9: "0.11", 10: "0.10",
	11: "0.09", 12: "0.09", 13: "0.09", 14: "0.09", 15: "0.09",
	16: "0.09", 17: "0.08", 18: "0.08", 19: "0.08", 20: "0.08",
}

func testMunicipality() *domain.MunicipalityConfig {
	coefficients := make(domain.CoefficientSchedule, len(maxCoefficients2025))
	for year, value := range maxCoefficients2025 {
		coefficients[year] = decimal.RequireFromString(value)
	}

	return &domain.MunicipalityConfig{
		ID:           "talavera-de-la-reina",
		Name:         "Talavera de la Reina",
		TaxRate:      decimal.NewFromInt(30),
		Coefficients: coefficients,
		Rebates: map[domain.RebateKind]domain.Rebate{
			domain.RebateSpouse:            {Applicable: true, Percent: decimal.NewFromInt(50)},
			domain.RebateDescendant:        {Applicable: true, Percent: decimal.NewFromInt(50)},
			domain.RebateHabitualResidence: {Applicable: true, Percent: decimal.NewFromInt(50)},
		},
		Deadlines: domain.FilingDeadlines{SaleBusinessDays: 30, InheritanceMonths: 6},
	}
}

func date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

// saleInput is a five-year sale (2019-01-01 -> 2024-06-01)
func saleInput(acquisition, transfer, land, total string) domain.TransferInput {
	in := domain.TransferInput{
		Kind:             domain.TransferKindSale,
		AcquisitionPrice: dec(acquisition),
		TransferPrice:    dec(transfer),
		AcquisitionDate:  date(2019, time.January, 1),
		TransferDate:     date(2024, time.June, 1),
	}
	if land != "" {
		in.LandCadastralValue = dec(land)
	}
	if total != "" {
		in.TotalCadastralValue = dec(total)
	}
	return in
}
