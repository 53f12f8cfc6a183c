package mocks

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"drawbook/internal/domain"
)

// MockExampleFileRepo is a mock implementation of port.ExampleFileRepository.
type MockExampleFileRepo struct {
	mock.Mock
}

func (m *MockExampleFileRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.ExampleFile, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ExampleFile), args.Error(1)
}

func (m *MockExampleFileRepo) List(ctx context.Context) ([]domain.ExampleFile, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ExampleFile), args.Error(1)
}

func (m *MockExampleFileRepo) UpdateOCRResult(ctx context.Context, id uuid.UUID, result json.RawMessage) error {
	args := m.Called(ctx, id, result)
	return args.Error(0)
}
