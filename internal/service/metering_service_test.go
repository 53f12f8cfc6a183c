package service_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"drawbook/internal/domain"
	"drawbook/internal/service"
	"drawbook/mocks"
)

func TestMeteringService_MaybeCharge(t *testing.T) {
	userID := uuid.New()

	t.Run("charges and reports new balance", func(t *testing.T) {
		userRepo := new(mocks.MockUserRepo)
		userRepo.On("ChargeUsage", mock.Anything, userID, 3, "doc.pdf").Return(7, nil)

		result := service.NewMeteringService(userRepo).
			MaybeCharge(context.Background(), userID, 3, "doc.pdf", true)

		assert.True(t, result.Charged)
		assert.Equal(t, 3, result.Pages)
		assert.Equal(t, 7, result.NewBalance)
	})

	t.Run("skips when not chargeable", func(t *testing.T) {
		userRepo := new(mocks.MockUserRepo)

		result := service.NewMeteringService(userRepo).
			MaybeCharge(context.Background(), userID, 3, "doc.pdf", false)

		assert.False(t, result.Charged)
		userRepo.AssertNotCalled(t, "ChargeUsage", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("charges at least one page", func(t *testing.T) {
		userRepo := new(mocks.MockUserRepo)
		userRepo.On("ChargeUsage", mock.Anything, userID, 1, "scan.png").Return(4, nil)

		result := service.NewMeteringService(userRepo).
			MaybeCharge(context.Background(), userID, 0, "scan.png", true)

		assert.True(t, result.Charged)
		assert.Equal(t, 1, result.Pages)
	})

	t.Run("failure is reported as uncharged", func(t *testing.T) {
		userRepo := new(mocks.MockUserRepo)
		userRepo.On("ChargeUsage", mock.Anything, userID, 2, "doc.pdf").
			Return(0, domain.ErrInsufficientBalance)

		result := service.NewMeteringService(userRepo).
			MaybeCharge(context.Background(), userID, 2, "doc.pdf", true)

		assert.False(t, result.Charged)
		assert.Zero(t, result.NewBalance)
	})
}
