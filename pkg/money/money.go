package money

import (
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// Prices are displayed the way the storefront renders them server-side:
// Russian digit grouping, comma decimal separator, trailing ruble sign.
var printer = message.NewPrinter(language.Russian)

// Format renders an amount in rubles, dropping insignificant kopecks.
func Format(amount decimal.Decimal) string {
	value, _ := amount.Round(2).Float64()
	return printer.Sprintf("%v ₽", number.Decimal(value, number.MaxFractionDigits(2)))
}

// Parse reads an amount from a page data attribute.
func Parse(raw string) (decimal.Decimal, error) {
	return decimal.NewFromString(strings.TrimSpace(raw))
}

// Zero is a convenience for an empty amount.
func Zero() decimal.Decimal {
	return decimal.Zero
}
