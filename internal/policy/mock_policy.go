package policy

import (
	"context"

	"github.com/stretchr/testify/mock"
)

// MockPolicy is a mock implementation of ContentPolicy using testify/mock.
type MockPolicy struct {
	mock.Mock
}

func (m *MockPolicy) Check(ctx context.Context, query string) (bool, error) {
	args := m.Called(ctx, query)
	return args.Bool(0), args.Error(1)
}
