// Package money converts between user-typed decimal amounts and the integer
// cents stored in the database.
//
// Amounts are parsed through shopspring/decimal so no value ever passes
// through a float. Both the Brazilian ("1.234,56") and the English
// ("1,234.56") conventions are accepted: when both separators appear the
// right-most one is the decimal separator. A lone dot followed by exactly
// three digits groups thousands ("1.000"); any other lone separator is
// decimal.
package money

import (
	"errors"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

// ErrInvalidAmount is returned for anything that is not a positive amount
// with at most two fractional digits.
var ErrInvalidAmount = errors.New("invalid amount")

// MaxCents mirrors a NUMERIC(12,2) column: ten integer digits.
const MaxCents int64 = 999_999_999_999

var (
	plainAmount   = regexp.MustCompile(`^\d+(\.\d{1,2})?$`)
	groupedDots   = regexp.MustCompile(`^\d{1,3}(\.\d{3})+$`)
	groupedCommas = regexp.MustCompile(`^\d{1,3}(,\d{3})+$`)
	hundred       = decimal.NewFromInt(100)
)

// Parse converts s to cents.
func Parse(s string) (int64, error) {
	normalized, ok := normalize(strings.TrimSpace(s))
	if !ok || !plainAmount.MatchString(normalized) {
		return 0, ErrInvalidAmount
	}

	d, err := decimal.NewFromString(normalized)
	if err != nil {
		return 0, ErrInvalidAmount
	}

	cents := d.Mul(hundred)
	if !cents.IsPositive() || cents.GreaterThan(decimal.NewFromInt(MaxCents)) {
		return 0, ErrInvalidAmount
	}
	return cents.IntPart(), nil
}

// normalize rewrites s into dot-decimal form without thousands separators.
func normalize(s string) (string, bool) {
	if s == "" {
		return "", false
	}

	lastComma := strings.LastIndex(s, ",")
	lastDot := strings.LastIndex(s, ".")

	switch {
	case lastComma >= 0 && lastDot >= 0:
		decimalSep, groupSep, grouped := ",", ".", groupedDots
		if lastDot > lastComma {
			decimalSep, groupSep, grouped = ".", ",", groupedCommas
		}
		idx := strings.LastIndex(s, decimalSep)
		intPart, fracPart := s[:idx], s[idx+1:]
		if !grouped.MatchString(intPart) {
			return "", false
		}
		return strings.ReplaceAll(intPart, groupSep, "") + "." + fracPart, true

	case lastComma >= 0:
		if strings.Count(s, ",") == 1 {
			return strings.Replace(s, ",", ".", 1), true
		}
		if groupedCommas.MatchString(s) {
			return strings.ReplaceAll(s, ",", ""), true
		}
		return "", false

	case lastDot >= 0:
		// "1.000" groups thousands, like "1.500.000"; "50.5" is decimal.
		if groupedDots.MatchString(s) {
			return strings.ReplaceAll(s, ".", ""), true
		}
		if strings.Count(s, ".") == 1 {
			return s, true
		}
		return "", false
	}

	return s, true
}

// ToDecimal returns cents as a two-place decimal.
func ToDecimal(cents int64) decimal.Decimal {
	return decimal.New(cents, -2)
}

// Format renders cents with a dot separator and two decimals, e.g. "1234.56".
func Format(cents int64) string {
	return ToDecimal(cents).StringFixed(2)
}

// FormatComma renders cents with a comma separator, e.g. "1234,56".
func FormatComma(cents int64) string {
	return strings.Replace(Format(cents), ".", ",", 1)
}

// FormatCurrency prefixes the formatted amount with a currency symbol. A
// negative amount keeps its sign in front of the symbol, e.g. "-R$50.00".
func FormatCurrency(symbol string, cents int64) string {
	if cents < 0 {
		return "-" + symbol + Format(-cents)
	}
	return symbol + Format(cents)
}
