package service_test

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"drawbook/internal/domain"
	"drawbook/internal/service"
	"drawbook/mocks"
)

func TestUsageService_Summary(t *testing.T) {
	userRepo := new(mocks.MockUserRepo)
	usageRepo := new(mocks.MockUsageLogRepo)
	svc := service.NewUsageService(userRepo, usageRepo)
	userID := uuid.New()

	userRepo.On("GetByID", mock.Anything, userID).
		Return(&domain.User{ID: userID, BalancePages: 7}, nil)
	usageRepo.On("TotalPagesByUser", mock.Anything, userID).Return(42, nil)
	usageRepo.On("ListByUser", mock.Anything, userID, 0, 1).
		Return([]domain.UsageLogEntry{{}}, 13, nil)

	summary, err := svc.Summary(context.Background(), userID)
	require.NoError(t, err)

	assert.Equal(t, 7, summary.BalancePages)
	assert.Equal(t, 42, summary.TotalPagesUsed)
	assert.Equal(t, 13, summary.TotalParseCount)
}

func TestUsageService_ExportXLSX(t *testing.T) {
	userRepo := new(mocks.MockUserRepo)
	usageRepo := new(mocks.MockUsageLogRepo)
	svc := service.NewUsageService(userRepo, usageRepo)
	userID := uuid.New()

	from := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
	usageRepo.On("ListByUserBetween", mock.Anything, userID, from, to).
		Return([]domain.UsageLogEntry{
			{PagesProcessed: 2, FileName: "report.pdf", CreatedAt: from.Add(6 * time.Hour)},
		}, nil)

	var buf bytes.Buffer
	require.NoError(t, svc.ExportXLSX(context.Background(), &buf, userID, from, to))

	f, err := excelize.OpenReader(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("Usage")
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "report.pdf", rows[1][1])
}
