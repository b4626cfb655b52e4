package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"ndisfraud/internal/agent"
	"ndisfraud/internal/domain"
)

// MockAgent is a mock implementation of agent.Agent.
type MockAgent struct {
	mock.Mock
}

func (m *MockAgent) Kind() domain.AgentKind {
	args := m.Called()
	return args.Get(0).(domain.AgentKind)
}

func (m *MockAgent) Process(ctx context.Context, content string) (*agent.Result, error) {
	args := m.Called(ctx, content)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*agent.Result), args.Error(1)
}
