// Package money converts decimal order totals into the provider's minor-unit
// integer representation.
package money

import (
	"errors"
	"strings"

	"github.com/shopspring/decimal"
)

var ErrUnsupportedCurrency = errors.New("currency is not supported")

// subunits maps each supported ISO currency to its minor-unit multiplier.
var subunits = map[string]int64{
	"EUR": 100,
	"GBP": 100,
	"JPY": 1,
	"SGD": 100,
	"THB": 100,
	"USD": 100,
}

func IsSupported(currency string) bool {
	_, ok := subunits[strings.ToUpper(currency)]
	return ok
}

// ToSubunit converts amount into currency's minor unit, rounding half-up
// exactly once. Amounts never pass through a float.
func ToSubunit(amount decimal.Decimal, currency string) (int64, error) {
	multiplier, ok := subunits[strings.ToUpper(currency)]
	if !ok {
		return 0, ErrUnsupportedCurrency
	}
	return amount.Mul(decimal.NewFromInt(multiplier)).Round(0).IntPart(), nil
}

// FromSubunit converts a provider minor-unit amount back to a decimal for
// display in order notes.
func FromSubunit(amount int64, currency string) (decimal.Decimal, error) {
	multiplier, ok := subunits[strings.ToUpper(currency)]
	if !ok {
		return decimal.Zero, ErrUnsupportedCurrency
	}
	return decimal.NewFromInt(amount).Div(decimal.NewFromInt(multiplier)), nil
}
