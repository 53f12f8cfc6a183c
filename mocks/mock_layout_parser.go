package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"drawbook/internal/layout"
)

// MockLayoutParser is a mock implementation of port.LayoutParser.
type MockLayoutParser struct {
	mock.Mock
}

func (m *MockLayoutParser) Parse(ctx context.Context, fileBytes []byte, isPDF bool) (*layout.ParseResult, error) {
	args := m.Called(ctx, fileBytes, isPDF)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*layout.ParseResult), args.Error(1)
}
