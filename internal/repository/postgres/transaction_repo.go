package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"drawbook/internal/domain"
	"drawbook/internal/port"
)

type transactionRepo struct {
	db *sqlx.DB
}

// NewTransactionRepo creates a new PostgreSQL-backed TransactionRepository.
func NewTransactionRepo(db *sqlx.DB) port.TransactionRepository {
	return &transactionRepo{db: db}
}

func (r *transactionRepo) Create(ctx context.Context, tx *domain.Transaction) error {
	tx.ID = uuid.New()
	now := time.Now().UTC()
	tx.CreatedAt = now
	tx.UpdatedAt = now
	if tx.Status == "" {
		tx.Status = domain.TransactionPending
	}

	query := `INSERT INTO transactions (id, user_id, out_trade_no, amount, pages, status, description, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	_, err := r.db.ExecContext(ctx, query,
		tx.ID, tx.UserID, tx.OutTradeNo, tx.Amount, tx.Pages, tx.Status,
		tx.Description, tx.CreatedAt, tx.UpdatedAt)
	if err != nil {
		return fmt.Errorf("transactionRepo.Create: %w", err)
	}
	return nil
}

func (r *transactionRepo) GetByOutTradeNo(ctx context.Context, outTradeNo string) (*domain.Transaction, error) {
	var tx domain.Transaction
	err := r.db.GetContext(ctx, &tx,
		"SELECT * FROM transactions WHERE out_trade_no = $1", outTradeNo)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrOrderNotFound
		}
		return nil, fmt.Errorf("transactionRepo.GetByOutTradeNo: %w", err)
	}
	return &tx, nil
}

func (r *transactionRepo) ListByUser(ctx context.Context, userID uuid.UUID, offset, limit int) ([]domain.Transaction, int, error) {
	var total int
	err := r.db.GetContext(ctx, &total,
		"SELECT COUNT(*) FROM transactions WHERE user_id = $1", userID)
	if err != nil {
		return nil, 0, fmt.Errorf("transactionRepo.ListByUser count: %w", err)
	}

	var txs []domain.Transaction
	err = r.db.SelectContext(ctx, &txs,
		"SELECT * FROM transactions WHERE user_id = $1 ORDER BY created_at DESC LIMIT $2 OFFSET $3",
		userID, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("transactionRepo.ListByUser: %w", err)
	}
	return txs, total, nil
}

// SettleSucceeded flips a pending order to success and credits its pages to
// the owner's balance in one transaction. The status guard makes the update a
// no-op when the order was already credited, so duplicate payment
// notifications cannot credit twice; any failure before commit rolls the
// status back to pending and the gateway's retry settles it.
func (r *transactionRepo) SettleSucceeded(ctx context.Context, outTradeNo string) (*domain.Transaction, int, bool, error) {
	dbtx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, 0, false, fmt.Errorf("transactionRepo.SettleSucceeded begin: %w", err)
	}
	defer dbtx.Rollback()

	var tx domain.Transaction
	err = dbtx.GetContext(ctx, &tx, `
		UPDATE transactions
		SET status = 'success', updated_at = NOW()
		WHERE out_trade_no = $1 AND status <> 'success'
		RETURNING *`,
		outTradeNo)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			existing, getErr := r.GetByOutTradeNo(ctx, outTradeNo)
			if getErr != nil {
				return nil, 0, false, getErr
			}
			return existing, 0, false, nil
		}
		return nil, 0, false, fmt.Errorf("transactionRepo.SettleSucceeded: %w", err)
	}

	var newBalance int
	err = dbtx.GetContext(ctx, &newBalance, `
		UPDATE users
		SET balance_pages = balance_pages + $2, updated_at = NOW()
		WHERE id = $1
		RETURNING balance_pages`,
		tx.UserID, tx.Pages)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, 0, false, domain.ErrNotFound
		}
		return nil, 0, false, fmt.Errorf("transactionRepo.SettleSucceeded credit: %w", err)
	}

	if err := dbtx.Commit(); err != nil {
		return nil, 0, false, fmt.Errorf("transactionRepo.SettleSucceeded commit: %w", err)
	}
	return &tx, newBalance, true, nil
}

func (r *transactionRepo) MarkFailed(ctx context.Context, outTradeNo string) error {
	result, err := r.db.ExecContext(ctx, `
		UPDATE transactions
		SET status = 'failed', updated_at = NOW()
		WHERE out_trade_no = $1 AND status = 'pending'`,
		outTradeNo)
	if err != nil {
		return fmt.Errorf("transactionRepo.MarkFailed: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrOrderNotFound
	}
	return nil
}
