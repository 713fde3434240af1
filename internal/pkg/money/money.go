// Package money converts between major-unit decimal amounts and the integer
// minor units payment providers charge in.
package money

import (
	"errors"
	"strings"

	"github.com/shopspring/decimal"
)

// zeroDecimal lists ISO currencies that have no minor unit
var zeroDecimal = map[string]bool{
	"bif": true, "clp": true, "djf": true, "gnf": true, "jpy": true,
	"kmf": true, "krw": true, "mga": true, "pyg": true, "rwf": true,
	"ugx": true, "vnd": true, "vuv": true, "xaf": true, "xof": true,
	"xpf": true,
}

// Exponent returns the number of minor-unit digits for a currency
func Exponent(currency string) int32 {
	if zeroDecimal[strings.ToLower(currency)] {
		return 0
	}
	return 2
}

var (
	ErrTooPrecise = errors.New("amount has more decimal places than the currency allows")
	ErrOutOfRange = errors.New("amount is out of range")
)

// MaxMinor is the largest amount a single checkout may charge, in minor units
const MaxMinor int64 = 99_999_999

// ToMinor converts a major-unit amount to minor units without rounding.
// 25.50 usd -> 2550; 25.555 usd fails with ErrTooPrecise.
func ToMinor(amount decimal.Decimal, currency string) (int64, error) {
	shifted := amount.Shift(Exponent(currency))
	if !shifted.Equal(shifted.Truncate(0)) {
		return 0, ErrTooPrecise
	}

	minor := shifted.BigInt()
	if !minor.IsInt64() {
		return 0, ErrOutOfRange
	}
	return minor.Int64(), nil
}

// FromMinor converts minor units back to a major-unit amount.
// 2550 usd -> 25.5.
func FromMinor(minor int64, currency string) decimal.Decimal {
	return decimal.New(minor, -Exponent(currency))
}
