// Package format renders numbers for reports.
package format

import (
	"fmt"
	"math"
	"strings"
)

// DefaultCurrencySymbol prefixes currency amounts when none is configured.
const DefaultCurrencySymbol = "R$"

// Currency returns a currency string with a symbol and thousands separators (e.g., "-R$1,234.56").
func Currency(amount float64, symbol string) string {
	if symbol == "" {
		symbol = DefaultCurrencySymbol
	}
	formatted := formatPositiveCurrency(math.Abs(amount))
	if amount < 0 && formatted != "0.00" {
		return "-" + symbol + formatted
	}
	return symbol + formatted
}

// NumericCurrency returns a currency string without a currency symbol but with separators (e.g., "-1,234.56").
func NumericCurrency(amount float64) string {
	formatted := formatPositiveCurrency(math.Abs(amount))
	if amount < 0 && formatted != "0.00" {
		return "-" + formatted
	}
	return formatted
}

// Percent renders a percentage with one decimal (e.g., "12.3%").
func Percent(value float64) string {
	return fmt.Sprintf("%.1f%%", value)
}

// Years renders a payback period, or "n/a" when it was never reached.
func Years(years float64, reached bool) string {
	if !reached {
		return "n/a"
	}
	return fmt.Sprintf("%.1f years", years)
}

func formatPositiveCurrency(value float64) string {
	formatted := fmt.Sprintf("%.2f", value)
	parts := strings.SplitN(formatted, ".", 2)
	intPart := parts[0]
	decPart := "00"
	if len(parts) == 2 {
		decPart = parts[1]
	}

	if len(intPart) > 3 {
		var builder strings.Builder
		for i, digit := range intPart {
			if i > 0 && (len(intPart)-i)%3 == 0 {
				builder.WriteByte(',')
			}
			builder.WriteRune(digit)
		}
		intPart = builder.String()
	}

	return intPart + "." + decPart
}
