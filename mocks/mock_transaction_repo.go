package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"drawbook/internal/domain"
)

// MockTransactionRepo is a mock implementation of port.TransactionRepository.
type MockTransactionRepo struct {
	mock.Mock
}

func (m *MockTransactionRepo) Create(ctx context.Context, tx *domain.Transaction) error {
	args := m.Called(ctx, tx)
	return args.Error(0)
}

func (m *MockTransactionRepo) GetByOutTradeNo(ctx context.Context, outTradeNo string) (*domain.Transaction, error) {
	args := m.Called(ctx, outTradeNo)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Transaction), args.Error(1)
}

func (m *MockTransactionRepo) ListByUser(ctx context.Context, userID uuid.UUID, offset, limit int) ([]domain.Transaction, int, error) {
	args := m.Called(ctx, userID, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]domain.Transaction), args.Int(1), args.Error(2)
}

func (m *MockTransactionRepo) SettleSucceeded(ctx context.Context, outTradeNo string) (*domain.Transaction, int, bool, error) {
	args := m.Called(ctx, outTradeNo)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Bool(2), args.Error(3)
	}
	return args.Get(0).(*domain.Transaction), args.Int(1), args.Bool(2), args.Error(3)
}

func (m *MockTransactionRepo) MarkFailed(ctx context.Context, outTradeNo string) error {
	args := m.Called(ctx, outTradeNo)
	return args.Error(0)
}
