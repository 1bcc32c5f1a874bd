// Package money formats and combines decimal currency amounts.
package money

import (
	"strings"

	"github.com/shopspring/decimal"
)

// DefaultCurrency is the storefront's single selling currency.
const DefaultCurrency = "USD"

// LineTotal returns price * quantity rounded to cents.
func LineTotal(price decimal.Decimal, quantity int) decimal.Decimal {
	return price.Mul(decimal.NewFromInt(int64(quantity))).Round(2)
}

// Sum adds amounts; an empty input is zero.
func Sum(amounts ...decimal.Decimal) decimal.Decimal {
	return decimal.Sum(decimal.Zero, amounts...)
}

// ToCents converts an amount to integer minor units, rounding half away from zero.
func ToCents(d decimal.Decimal) int64 {
	return d.Mul(decimal.NewFromInt(100)).Round(0).IntPart()
}

// FromCents is the inverse of ToCents.
func FromCents(cents int64) decimal.Decimal {
	return decimal.New(cents, -2)
}

// Format renders an amount with its currency symbol, e.g. "$79.99".
func Format(d decimal.Decimal, currency string) string {
	currency = strings.ToUpper(strings.TrimSpace(currency))
	if currency == "" {
		currency = DefaultCurrency
	}
	s := d.StringFixed(2)
	sign := ""
	if d.IsNegative() {
		sign = "-"
		s = strings.TrimPrefix(s, "-")
	}
	if sym, ok := symbols[currency]; ok {
		return sign + sym + s
	}
	return sign + s + " " + currency
}

var symbols = map[string]string{
	"USD": "$",
	"EUR": "€",
	"GBP": "£",
	"INR": "₹",
	"JPY": "¥",
	"TRY": "₺",
}
