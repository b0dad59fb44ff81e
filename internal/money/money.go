package money

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// Parse parses a decimal amount string into minor units (cents).
// Comma thousand separators are accepted: "1,000,000.50" -> 100000050.
func Parse(s string) (int64, error) {
	clean := strings.ReplaceAll(strings.TrimSpace(s), ",", "")
	if clean == "" {
		return 0, fmt.Errorf("empty amount")
	}

	d, err := decimal.NewFromString(clean)
	if err != nil {
		return 0, fmt.Errorf("parsing amount %q: %w", s, err)
	}

	return d.Mul(hundred).Round(0).IntPart(), nil
}

// Format renders minor units as a fixed two-decimal string.
func Format(cents int64) string {
	return decimal.New(cents, -2).StringFixed(2)
}

// Percent returns pct percent of amount, truncated to whole minor units.
func Percent(amount int64, pct int64) int64 {
	return decimal.NewFromInt(amount).
		Mul(decimal.NewFromInt(pct)).
		Div(hundred).
		Floor().
		IntPart()
}
