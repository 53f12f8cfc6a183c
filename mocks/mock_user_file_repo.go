package mocks

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"drawbook/internal/domain"
)

// MockUserFileRepo is a mock implementation of port.UserFileRepository.
type MockUserFileRepo struct {
	mock.Mock
}

func (m *MockUserFileRepo) Create(ctx context.Context, file *domain.UserFile) error {
	args := m.Called(ctx, file)
	return args.Error(0)
}

func (m *MockUserFileRepo) GetByID(ctx context.Context, userID, fileID uuid.UUID) (*domain.UserFile, error) {
	args := m.Called(ctx, userID, fileID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.UserFile), args.Error(1)
}

func (m *MockUserFileRepo) ListByUser(ctx context.Context, userID uuid.UUID, offset, limit int) ([]domain.UserFile, int, error) {
	args := m.Called(ctx, userID, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]domain.UserFile), args.Int(1), args.Error(2)
}

func (m *MockUserFileRepo) UpdateOCRResult(ctx context.Context, userID, fileID uuid.UUID, result json.RawMessage) error {
	args := m.Called(ctx, userID, fileID, result)
	return args.Error(0)
}

func (m *MockUserFileRepo) Delete(ctx context.Context, userID, fileID uuid.UUID) error {
	args := m.Called(ctx, userID, fileID)
	return args.Error(0)
}
