// Package view holds the JSON shapes returned by the API.
package view

import (
	"github.com/shopspring/decimal"

	"glamup.com/app/internal/shared/money"
)

// Money renders as {"amount":"79.99","currency":"USD","display":"$79.99"}.
type Money struct {
	Amount   string `json:"amount"`
	Currency string `json:"currency"`
	Display  string `json:"display"`
}

func MoneyOf(d decimal.Decimal, currency string) Money {
	if currency == "" {
		currency = money.DefaultCurrency
	}
	return Money{Amount: d.StringFixed(2), Currency: currency, Display: money.Format(d, currency)}
}

const timeLayout = "2006-01-02T15:04:05Z07:00"
