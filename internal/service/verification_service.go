package service

import (
	"github.com/shopspring/decimal"

	"ndisfraud/internal/tools"
)

// VerificationService answers direct item and pricing queries.
type VerificationService interface {
	ItemExists(itemCode string) tools.Outcome
	ItemPricing(itemCode string, price decimal.Decimal, locationType string) tools.Outcome
	OldPricingCheck(itemCode string) tools.Outcome
}

var _ VerificationService = (*tools.Verifier)(nil)
