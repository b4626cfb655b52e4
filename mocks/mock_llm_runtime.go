package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"ndisfraud/internal/port"
)

// MockLLMRuntime is a mock implementation of port.LLMRuntime.
type MockLLMRuntime struct {
	mock.Mock
}

func (m *MockLLMRuntime) Invoke(ctx context.Context, input port.InvokeInput) (*port.InvokeOutput, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*port.InvokeOutput), args.Error(1)
}
