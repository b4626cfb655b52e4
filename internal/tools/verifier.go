package tools

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"ndisfraud/internal/reference"
)

// Verifier answers item, pricing and staleness questions against the
// active and inactive schedules. It holds the tables by reference and never
// mutates them, so one Verifier may serve concurrent requests.
type Verifier struct {
	active   *reference.Table
	inactive *reference.Table
}

// NewVerifier creates a Verifier over loaded schedules.
func NewVerifier(schedules *reference.Schedules) *Verifier {
	return &Verifier{active: schedules.Active, inactive: schedules.Inactive}
}

// ItemExists reports whether itemCode is in the active schedule.
func (v *Verifier) ItemExists(itemCode string) Outcome {
	code := strings.TrimSpace(itemCode)
	if v.active.Exists(code) {
		return Outcome{
			ItemCode: code,
			Status:   StatusFound,
			Message:  fmt.Sprintf("Item code %s is valid according to NDIS.", code),
		}
	}
	return Outcome{
		ItemCode: code,
		Status:   StatusNotFound,
		Message:  fmt.Sprintf("Item code %s is NOT found in the NDIS database and may be fraudulent.", code),
	}
}

// ItemPricing checks price against the active schedule for the location
// tier, then independently flags items that also appear in the inactive
// schedule. Data problems are reported in the Outcome, never as errors.
func (v *Verifier) ItemPricing(itemCode string, price decimal.Decimal, locationType string) Outcome {
	code := strings.TrimSpace(itemCode)
	rec, ok := v.active.Lookup(code)
	if !ok {
		return Outcome{
			ItemCode: code,
			Status:   StatusNotFound,
			Message:  fmt.Sprintf("Item code %s not found in the active NDIS database; cannot validate pricing.", code),
		}
	}

	loc := ResolveLocation(locationType)
	column := PriceColumn(v.active.Columns(), loc)
	out := Outcome{ItemCode: code, Location: string(loc), PriceColumn: column}

	cell, ok := rec.Value(column)
	if !ok {
		out.Status = StatusParseError
		out.Message = fmt.Sprintf("Item code %s: the active NDIS database has no %q price column; cannot validate %s pricing.", code, column, loc)
		return out
	}

	expected, err := ParsePrice(cell)
	if errors.Is(err, errBlankPrice) {
		out.Status = StatusQuotable
		out.Message = fmt.Sprintf("Item code %s is a quotable item with no fixed %s price; the charged amount must be checked against the participant's quote.", code, loc)
		return out
	}
	if err != nil {
		out.Status = StatusParseError
		out.Message = fmt.Sprintf("Item code %s has an unreadable %s price %q in the active NDIS database; cannot validate pricing.", code, loc, strings.TrimSpace(cell))
		return out
	}
	out.ExpectedPrice = expected.StringFixed(2)

	var b strings.Builder
	if PriceMatches(price, expected) {
		out.Status = StatusMatch
		fmt.Fprintf(&b, "Price $%s for item %s matches the expected %s price of $%s.",
			price.StringFixed(2), code, loc, out.ExpectedPrice)
	} else {
		out.Status = StatusMismatch
		fmt.Fprintf(&b, "Price MISMATCH for item %s: invoice charges $%s but the expected %s price is $%s (difference $%s).",
			code, price.StringFixed(2), loc, out.ExpectedPrice, price.Sub(expected).Abs().StringFixed(2))
	}

	if v.inactive.Exists(code) {
		out.Outdated = true
		fmt.Fprintf(&b, " WARNING: item %s also appears in the inactive NDIS database; the invoice may be using outdated pricing.", code)
	} else {
		fmt.Fprintf(&b, " Item %s uses current pricing (not in the inactive NDIS database).", code)
	}
	out.Message = b.String()
	return out
}

// OldPricingCheck classifies itemCode by membership in the two schedules.
// The four cases are mutually exclusive and exhaustive.
func (v *Verifier) OldPricingCheck(itemCode string) Outcome {
	code := strings.TrimSpace(itemCode)
	inActive := v.active.Exists(code)
	inInactive := v.inactive.Exists(code)

	out := Outcome{ItemCode: code}
	switch {
	case inActive && inInactive:
		out.Status = StatusSuperseded
		out.Outdated = true
		out.Message = fmt.Sprintf("Item code %s appears in both the active and inactive NDIS databases: its pricing has been superseded. Stop using the old price and bill at the current rate.", code)
	case inInactive:
		out.Status = StatusDiscontinued
		out.Outdated = true
		out.Message = fmt.Sprintf("CRITICAL: item code %s exists only in the inactive NDIS database and is no longer a valid support item.", code)
	case inActive:
		out.Status = StatusCurrent
		out.Message = fmt.Sprintf("Item code %s is current: it appears only in the active NDIS database.", code)
	default:
		out.Status = StatusAbsent
		out.Message = fmt.Sprintf("Item code %s was not found in either the active or inactive NDIS database.", code)
	}
	return out
}
