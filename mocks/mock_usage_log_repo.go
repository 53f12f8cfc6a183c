package mocks

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"drawbook/internal/domain"
)

// MockUsageLogRepo is a mock implementation of port.UsageLogRepository.
type MockUsageLogRepo struct {
	mock.Mock
}

func (m *MockUsageLogRepo) ListByUser(ctx context.Context, userID uuid.UUID, offset, limit int) ([]domain.UsageLogEntry, int, error) {
	args := m.Called(ctx, userID, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]domain.UsageLogEntry), args.Int(1), args.Error(2)
}

func (m *MockUsageLogRepo) ListByUserBetween(ctx context.Context, userID uuid.UUID, from, to time.Time) ([]domain.UsageLogEntry, error) {
	args := m.Called(ctx, userID, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.UsageLogEntry), args.Error(1)
}

func (m *MockUsageLogRepo) TotalPagesByUser(ctx context.Context, userID uuid.UUID) (int, error) {
	args := m.Called(ctx, userID)
	return args.Int(0), args.Error(1)
}
