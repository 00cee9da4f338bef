package utils

import "github.com/shopspring/decimal"

// Money renders an amount as a fixed 2-decimal string for API output.
func Money(d decimal.Decimal) string {
	return d.Round(2).StringFixed(2)
}
