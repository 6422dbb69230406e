package parser

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/Houeta/price-tracker/internal/models"
	"github.com/shopspring/decimal"
)

var (
	reRangeSeparator = regexp.MustCompile(`\s+(?:-|–|to)\s+`)
	reNumeric        = regexp.MustCompile(`^\d[\d.,]*$`)
)

// reDashRange matches "$10.99-$20.99": a dash between two parts that both hold digits.
var reDashRange = regexp.MustCompile(`^([^-–]*\d[^-–]*?)\s*[-–]\s*\D*\d`)

// currencySymbols are checked in order; multi-rune symbols come first.
var currencySymbols = []struct {
	symbol string
	code   string
}{
	{"US$", "USD"},
	{"CA$", "CAD"},
	{"C$", "CAD"},
	{"A$", "AUD"},
	{"R$", "BRL"},
	{"$", "USD"},
	{"€", "EUR"},
	{"£", "GBP"},
	{"¥", "JPY"},
	{"₹", "INR"},
}

var currencyCodes = []string{"USD", "EUR", "GBP", "JPY", "INR", "CAD", "AUD", "BRL", "MXN", "SEK", "PLN", "TRY", "AED"}

// ParsePrice normalizes a displayed price such as "$1,234.56" or "1.234,56 €"
// into a decimal amount and an ISO currency code (empty when unknown).
// A price range yields its lower bound.
func ParsePrice(text string) (decimal.Decimal, string, error) {
	raw := strings.TrimSpace(strings.ReplaceAll(text, "\u00a0", " "))
	if parts := reRangeSeparator.Split(raw, 2); len(parts) > 1 {
		raw = parts[0]
	} else if m := reDashRange.FindStringSubmatch(raw); m != nil {
		raw = m[1]
	}

	currency := ""
	upper := strings.ToUpper(raw)
	for _, code := range currencyCodes {
		if strings.Contains(upper, code) {
			currency = code
			upper = strings.ReplaceAll(upper, code, "")
			break
		}
	}
	for _, cs := range currencySymbols {
		if strings.Contains(upper, cs.symbol) {
			if currency == "" {
				currency = cs.code
			}
			upper = strings.ReplaceAll(upper, cs.symbol, "")
			break
		}
	}

	number := strings.Join(strings.Fields(upper), "")
	number = strings.TrimRight(number, ".,")
	if !reNumeric.MatchString(number) {
		return decimal.Zero, "", fmt.Errorf("%w: price %q is not numeric", models.ErrParse, text)
	}

	price, err := decimal.NewFromString(normalizeSeparators(number))
	if err != nil {
		return decimal.Zero, "", fmt.Errorf("%w: price %q: %w", models.ErrParse, text, err)
	}

	return price, currency, nil
}

// normalizeSeparators removes thousands separators and turns the decimal separator into '.'.
// A lone separator followed by exactly three digits is read as grouping, for '.' and ',' alike.
func normalizeSeparators(s string) string {
	lastDot := strings.LastIndex(s, ".")
	lastComma := strings.LastIndex(s, ",")

	switch {
	case lastDot >= 0 && lastComma >= 0:
		if lastComma > lastDot {
			return strings.Replace(strings.ReplaceAll(s, ".", ""), ",", ".", 1)
		}
		return strings.ReplaceAll(s, ",", "")
	case lastComma >= 0:
		if strings.Count(s, ",") == 1 && len(s)-lastComma-1 != 3 {
			return strings.Replace(s, ",", ".", 1)
		}
		return strings.ReplaceAll(s, ",", "")
	case lastDot >= 0:
		if strings.Count(s, ".") == 1 && len(s)-lastDot-1 != 3 {
			return s
		}
		return strings.ReplaceAll(s, ".", "")
	default:
		return s
	}
}
