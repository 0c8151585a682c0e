package engine

import "github.com/shopspring/decimal"

// CentPlaces is the precision every monetary output is rounded to
const CentPlaces = 2

var hundred = decimal.NewFromInt(100)

// RoundCents rounds to two decimals, half away from zero (never banker's rounding)
func RoundCents(amount decimal.Decimal) decimal.Decimal {
	return amount.Round(CentPlaces)
}

// applyRate returns amount × rate / 100 without rounding
func applyRate(amount, ratePercent decimal.Decimal) decimal.Decimal {
	return amount.Mul(ratePercent).Div(hundred)
}

// divideOrDefault returns numerator / denominator, or fallback when either side is not positive
func divideOrDefault(numerator, denominator, fallback decimal.Decimal) decimal.Decimal {
	if numerator.LessThanOrEqual(decimal.Zero) || denominator.LessThanOrEqual(decimal.Zero) {
		return fallback
	}
	return numerator.Div(denominator)
}
