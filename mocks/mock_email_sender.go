package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
)

// MockEmailSender is a mock implementation of port.EmailSender.
type MockEmailSender struct {
	mock.Mock
}

func (m *MockEmailSender) SendTopUpReceipt(ctx context.Context, toEmail string, pages int, amount float64, outTradeNo string) error {
	args := m.Called(ctx, toEmail, pages, amount, outTradeNo)
	return args.Error(0)
}
