package service

import (
	"context"
	"io"
	"time"

	"github.com/google/uuid"

	"drawbook/internal/domain"
	"drawbook/internal/port"
	"drawbook/internal/report"
)

// UsageSummary is the balance and lifetime usage shown on the dashboard.
type UsageSummary struct {
	BalancePages    int `json:"balance_pages"`
	TotalPagesUsed  int `json:"total_pages_used"`
	TotalParseCount int `json:"total_parse_count"`
}

// UsageService exposes usage history and reporting.
type UsageService interface {
	Summary(ctx context.Context, userID uuid.UUID) (*UsageSummary, error)
	List(ctx context.Context, userID uuid.UUID, offset, limit int) ([]domain.UsageLogEntry, int, error)
	// ExportXLSX writes the user's usage between from and to as an Excel
	// workbook.
	ExportXLSX(ctx context.Context, w io.Writer, userID uuid.UUID, from, to time.Time) error
}

type usageService struct {
	userRepo  port.UserRepository
	usageRepo port.UsageLogRepository
}

// NewUsageService creates a new UsageService implementation.
func NewUsageService(userRepo port.UserRepository, usageRepo port.UsageLogRepository) UsageService {
	return &usageService{
		userRepo:  userRepo,
		usageRepo: usageRepo,
	}
}

func (s *usageService) Summary(ctx context.Context, userID uuid.UUID) (*UsageSummary, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	totalPages, err := s.usageRepo.TotalPagesByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	_, count, err := s.usageRepo.ListByUser(ctx, userID, 0, 1)
	if err != nil {
		return nil, err
	}
	return &UsageSummary{
		BalancePages:    user.BalancePages,
		TotalPagesUsed:  totalPages,
		TotalParseCount: count,
	}, nil
}

func (s *usageService) List(ctx context.Context, userID uuid.UUID, offset, limit int) ([]domain.UsageLogEntry, int, error) {
	return s.usageRepo.ListByUser(ctx, userID, offset, limit)
}

func (s *usageService) ExportXLSX(ctx context.Context, w io.Writer, userID uuid.UUID, from, to time.Time) error {
	entries, err := s.usageRepo.ListByUserBetween(ctx, userID, from, to)
	if err != nil {
		return err
	}
	return report.WriteUsageXLSX(w, entries)
}
