package cache

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"talent-search/internal/search"
)

// MockCache is a mock implementation of Cache using testify/mock.
type MockCache struct {
	mock.Mock
}

func (m *MockCache) GetResults(ctx context.Context, key string) ([]search.Result, error) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]search.Result), args.Error(1)
}

func (m *MockCache) SetResults(ctx context.Context, key string, results []search.Result, ttl time.Duration) error {
	args := m.Called(ctx, key, results, ttl)
	return args.Error(0)
}

func (m *MockCache) Flush(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockCache) Close() error {
	args := m.Called()
	return args.Error(0)
}
