package mocks

import (
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"

	"ndisfraud/internal/tools"
)

// MockVerificationService is a mock implementation of service.VerificationService.
type MockVerificationService struct {
	mock.Mock
}

func (m *MockVerificationService) ItemExists(itemCode string) tools.Outcome {
	args := m.Called(itemCode)
	return args.Get(0).(tools.Outcome)
}

func (m *MockVerificationService) ItemPricing(itemCode string, price decimal.Decimal, locationType string) tools.Outcome {
	args := m.Called(itemCode, price, locationType)
	return args.Get(0).(tools.Outcome)
}

func (m *MockVerificationService) OldPricingCheck(itemCode string) tools.Outcome {
	args := m.Called(itemCode)
	return args.Get(0).(tools.Outcome)
}
