// Package format renders amounts and ratios for display.
package format

import (
	"fmt"
	"math"
	"strings"

	"github.com/iwvelando/finance-analysis/pkg/constants"
	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var printer = message.NewPrinter(language.English)

// ParseCurrency parses an ISO 4217 code such as "GTQ" or "usd".
func ParseCurrency(code string) (currency.Unit, error) {
	unit, err := currency.ParseISO(strings.TrimSpace(code))
	if err != nil {
		return currency.Unit{}, fmt.Errorf("unknown currency code %q: %w", code, err)
	}
	return unit, nil
}

// Symbol returns the narrow symbol of the ISO 4217 code (e.g. "Q" for GTQ).
// Unknown codes fall back to the default currency.
func Symbol(code string) string {
	unit, err := ParseCurrency(code)
	if err != nil {
		unit = currency.MustParseISO(constants.DefaultCurrency)
	}
	return fmt.Sprint(currency.NarrowSymbol(unit))
}

// Currency returns amount with the currency's symbol and thousands
// separators (e.g., "-Q1,234.56").
func Currency(amount float64, code string) string {
	formatted := NumericCurrency(math.Abs(amount))
	if amount < 0 {
		return "-" + Symbol(code) + formatted
	}
	return Symbol(code) + formatted
}

// NumericCurrency returns a currency string without a currency symbol but with separators (e.g., "-1,234.56").
func NumericCurrency(amount float64) string {
	return printer.Sprintf("%.2f", amount)
}

// Percent renders a value already expressed in percent (e.g., "12.35%").
func Percent(value float64) string {
	return printer.Sprintf("%.2f%%", value)
}

// Ratio renders a plain ratio with two decimals.
func Ratio(value float64) string {
	return printer.Sprintf("%.2f", value)
}
