// Package display - Locale formatting helpers.
// The storefront renders amounts the Spanish way: dot-grouped thousands,
// comma decimals, exactly two places, currency symbol prefixed. The shape
// is a fixed contract ("€1.234,50"), so it is produced directly instead of
// going through a CLDR formatter whose es-ES pattern puts the symbol after
// the amount.
package display

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Currency formats an amount as "€1.234,50".
func Currency(d decimal.Decimal) string {
	return "€" + groupedFixed2(d)
}

// CurrencyPtr formats a nullable amount; nil renders as "€0,00".
func CurrencyPtr(d *decimal.Decimal) string {
	if d == nil {
		return Currency(decimal.Zero)
	}
	return Currency(*d)
}

// CurrencyFloat formats a float amount as "€1.234,50".
func CurrencyFloat(f float64) string {
	return Currency(decimal.NewFromFloat(f))
}

// Percent formats a 0-100 percentage as an integer with a "%" suffix.
func Percent(d decimal.Decimal) string {
	return d.Round(0).String() + "%"
}

// PercentPtr formats a nullable percentage; nil renders as "0%".
func PercentPtr(d *decimal.Decimal) string {
	if d == nil {
		return "0%"
	}
	return Percent(*d)
}

// PercentFloat formats a float percentage as an integer with a "%" suffix.
func PercentFloat(f float64) string {
	return Percent(decimal.NewFromFloat(f))
}

// Number formats a plain quantity with two decimals, comma-separated
// ("1.234,50"), for non-monetary figures such as cubic meters.
func Number(d decimal.Decimal) string {
	return groupedFixed2(d)
}

// groupedFixed2 renders with exactly 2 decimals, '.' thousands grouping
// and ',' as the decimal separator.
func groupedFixed2(d decimal.Decimal) string {
	s := d.StringFixed(2)

	negative := strings.HasPrefix(s, "-")
	if negative {
		s = s[1:]
	}

	intPart, fracPart, _ := strings.Cut(s, ".")

	var b strings.Builder
	if negative {
		b.WriteByte('-')
	}
	for i, r := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte('.')
		}
		b.WriteRune(r)
	}
	b.WriteByte(',')
	b.WriteString(fracPart)
	return b.String()
}
