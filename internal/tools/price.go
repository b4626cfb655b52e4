package tools

import (
	"errors"
	"strings"
	"unicode"

	"github.com/shopspring/decimal"

	"ndisfraud/internal/domain"
	"ndisfraud/internal/reference"
)

// PriceTolerance is the absolute difference below which two prices match.
var PriceTolerance = decimal.New(1, -2)

var errBlankPrice = errors.New("blank price")

// ResolveLocation maps a free-form location type to a pricing tier.
// Matching ignores case and surrounding whitespace; anything unrecognised is standard.
func ResolveLocation(locationType string) domain.LocationType {
	norm := strings.ToLower(strings.TrimSpace(locationType))
	norm = strings.NewReplacer(" ", "_", "-", "_").Replace(norm)
	switch norm {
	case string(domain.LocationRemote):
		return domain.LocationRemote
	case string(domain.LocationVeryRemote):
		return domain.LocationVeryRemote
	default:
		return domain.LocationStandard
	}
}

// PriceColumn returns the schedule column holding prices for loc.
func PriceColumn(cols reference.Columns, loc domain.LocationType) string {
	switch loc {
	case domain.LocationRemote:
		return cols.Remote
	case domain.LocationVeryRemote:
		return cols.VeryRemote
	default:
		return cols.Standard
	}
}

// ParsePrice parses a schedule or invoice price. Thousands separators,
// whitespace and a leading dollar sign are ignored.
func ParsePrice(raw string) (decimal.Decimal, error) {
	if isBlankPrice(raw) {
		return decimal.Zero, errBlankPrice
	}
	cleaned := strings.Map(func(r rune) rune {
		if r == ',' || unicode.IsSpace(r) {
			return -1
		}
		return r
	}, raw)
	cleaned = strings.TrimPrefix(cleaned, "$")
	d, err := decimal.NewFromString(cleaned)
	if err != nil {
		return decimal.Zero, domain.ErrInvalidPrice
	}
	return d, nil
}

// PriceMatches reports whether supplied is strictly within PriceTolerance of expected.
func PriceMatches(supplied, expected decimal.Decimal) bool {
	return supplied.Sub(expected).Abs().LessThan(PriceTolerance)
}

// isBlankPrice reports an absent price cell. Quotable items have no fixed price.
func isBlankPrice(raw string) bool {
	s := strings.TrimSpace(raw)
	return s == "" || strings.EqualFold(s, "nan") || strings.EqualFold(s, "n/a")
}
