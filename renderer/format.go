package renderer

import (
	"math"
	"strconv"
	"strings"

	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

var (
	hundred  = decimal.NewFromInt(100)
	minInt64 = decimal.NewFromInt(math.MinInt64)
	maxInt64 = decimal.NewFromInt(math.MaxInt64)
)

// isFinite returns false for values decimal cannot represent.
func isFinite(v float64) bool { return !math.IsNaN(v) && !math.IsInf(v, 0) }

// formatMoney formats v in currency, rounded to the currency's minor unit.
// Unknown currencies are rounded to 2 digits and suffixed with their code, so
// are amounts too large for go-money.
func formatMoney(v float64, currency string) string {
	if !isFinite(v) {
		return strconv.FormatFloat(v, 'f', -1, 64)
	}
	cur := money.GetCurrency(currency)
	if cur == nil {
		return strings.TrimSpace(decimal.NewFromFloat(v).StringFixed(2) + " " + currency)
	}
	fraction := int32(cur.Fraction)
	minor := decimal.NewFromFloat(v).Round(fraction).Shift(fraction)
	if minor.LessThan(minInt64) || minor.GreaterThan(maxInt64) {
		return decimal.NewFromFloat(v).StringFixed(fraction) + " " + currency
	}
	return cur.Formatter().Format(minor.IntPart())
}

// formatPercent formats a fraction as a percentage with 2 digits.
func formatPercent(f float64) string {
	if !isFinite(f) {
		return strconv.FormatFloat(f, 'f', -1, 64)
	}
	return decimal.NewFromFloat(f).Mul(hundred).StringFixed(2) + "%"
}

// formatNumber formats v with all its significant digits.
func formatNumber(v float64) string {
	if !isFinite(v) {
		return strconv.FormatFloat(v, 'f', -1, 64)
	}
	return decimal.NewFromFloat(v).String()
}

// bar returns a horizontal bar of v relative to top, at most width runes.
func bar(v, top float64, width int) string {
	if !isFinite(v) || !isFinite(top) || v <= 0 || top <= 0 {
		return ""
	}
	n := int(math.Round(v / top * float64(width)))
	return strings.Repeat("█", min(n, width))
}
