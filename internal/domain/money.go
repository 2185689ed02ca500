package domain

import "github.com/shopspring/decimal"

// MoneyScale is the number of fractional digits stored for amounts and incomes.
const MoneyScale = 2

// IsWholeCents reports whether v survives storage at MoneyScale unchanged.
func IsWholeCents(v float64) bool {
	d := decimal.NewFromFloat(v)
	return d.Equal(d.Round(MoneyScale))
}
