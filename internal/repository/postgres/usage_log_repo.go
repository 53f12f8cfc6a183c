package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"drawbook/internal/domain"
	"drawbook/internal/port"
)

type usageLogRepo struct {
	db *sqlx.DB
}

// NewUsageLogRepo creates a new PostgreSQL-backed UsageLogRepository.
func NewUsageLogRepo(db *sqlx.DB) port.UsageLogRepository {
	return &usageLogRepo{db: db}
}

func (r *usageLogRepo) ListByUser(ctx context.Context, userID uuid.UUID, offset, limit int) ([]domain.UsageLogEntry, int, error) {
	var total int
	err := r.db.GetContext(ctx, &total,
		"SELECT COUNT(*) FROM usage_logs WHERE user_id = $1", userID)
	if err != nil {
		return nil, 0, fmt.Errorf("usageLogRepo.ListByUser count: %w", err)
	}

	var entries []domain.UsageLogEntry
	err = r.db.SelectContext(ctx, &entries,
		"SELECT * FROM usage_logs WHERE user_id = $1 ORDER BY created_at DESC LIMIT $2 OFFSET $3",
		userID, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("usageLogRepo.ListByUser: %w", err)
	}
	return entries, total, nil
}

func (r *usageLogRepo) ListByUserBetween(ctx context.Context, userID uuid.UUID, from, to time.Time) ([]domain.UsageLogEntry, error) {
	var entries []domain.UsageLogEntry
	err := r.db.SelectContext(ctx, &entries,
		`SELECT * FROM usage_logs
		WHERE user_id = $1 AND created_at >= $2 AND created_at < $3
		ORDER BY created_at`,
		userID, from, to)
	if err != nil {
		return nil, fmt.Errorf("usageLogRepo.ListByUserBetween: %w", err)
	}
	return entries, nil
}

func (r *usageLogRepo) TotalPagesByUser(ctx context.Context, userID uuid.UUID) (int, error) {
	var total int
	err := r.db.GetContext(ctx, &total,
		"SELECT COALESCE(SUM(pages_processed), 0) FROM usage_logs WHERE user_id = $1", userID)
	if err != nil {
		return 0, fmt.Errorf("usageLogRepo.TotalPagesByUser: %w", err)
	}
	return total, nil
}
