package validation

import (
	"errors"
	"strings"
	"unicode"

	"github.com/raushankrgupta/catalog-crawler/models"
	"github.com/shopspring/decimal"
)

var errNoDigits = errors.New("no numeric amount")

// ParseAmount reads a displayed price such as "$1,299.00", "£ 16.00" or
// "Rs. 1,200" as a decimal amount. Currency symbols, whitespace and thousands
// separators are dropped, as is a currency code written in letters.
func ParseAmount(s string) (decimal.Decimal, error) {
	cleaned := strings.Map(func(r rune) rune {
		if unicode.Is(unicode.Sc, r) || unicode.IsSpace(r) || r == ',' {
			return -1
		}
		return r
	}, s)

	trimmed := strings.TrimLeftFunc(cleaned, unicode.IsLetter)
	if trimmed != cleaned {
		// "Rs." style prefixes
		trimmed = strings.TrimPrefix(trimmed, ".")
	}
	trimmed = strings.TrimRightFunc(trimmed, unicode.IsLetter)

	if trimmed == "" {
		return decimal.Zero, &models.ParseError{Value: s, Err: errNoDigits}
	}
	d, err := decimal.NewFromString(trimmed)
	if err != nil {
		return decimal.Zero, &models.ParseError{Value: s, Err: err}
	}
	return d, nil
}

func parseAmounts(values []string) ([]decimal.Decimal, error) {
	out := make([]decimal.Decimal, 0, len(values))
	for _, v := range values {
		d, err := ParseAmount(v)
		if err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, nil
}
