package domain

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// All stored monetary amounts are integer kobo (1/100 naira). Naira values
// exist only at the presentation boundary; the conversions below are the only
// place the x100 factor appears.

// hundred is the kobo-per-naira factor; it doubles as the percent divisor.
var hundred = decimal.NewFromInt(100)

// NairaToKobo converts a naira amount to integer kobo, rounding half up.
func NairaToKobo(naira decimal.Decimal) int64 {
	return naira.Mul(hundred).Round(0).IntPart()
}

// ParseNairaToKobo converts a naira-denominated decimal string to kobo.
func ParseNairaToKobo(s string) (int64, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, fmt.Errorf("%w: invalid naira amount %q", ErrValidation, s)
	}
	return NairaToKobo(d), nil
}

// KoboToNaira converts kobo back to naira for presentation.
func KoboToNaira(kobo int64) decimal.Decimal {
	return decimal.NewFromInt(kobo).Div(hundred)
}

// PercentOf computes round(amount * rate / 100) in kobo. Used to derive
// interest from a principal and a percentage rate.
func PercentOf(amountKobo int64, rate float64) int64 {
	return decimal.NewFromInt(amountKobo).
		Mul(decimal.NewFromFloat(rate)).
		Div(hundred).
		Round(0).
		IntPart()
}

// WeightTimesPrice computes round(weightKg * pricePerKgKobo) in kobo for
// produce purchases.
func WeightTimesPrice(weightKg float64, pricePerKgKobo int64) int64 {
	return decimal.NewFromFloat(weightKg).
		Mul(decimal.NewFromInt(pricePerKgKobo)).
		Round(0).
		IntPart()
}
