package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"drawbook/internal/domain"
	"drawbook/internal/port"
)

type userRepo struct {
	db *sqlx.DB
}

// NewUserRepo creates a new PostgreSQL-backed UserRepository.
func NewUserRepo(db *sqlx.DB) port.UserRepository {
	return &userRepo{db: db}
}

func (r *userRepo) Create(ctx context.Context, user *domain.User) error {
	user.ID = uuid.New()
	now := time.Now().UTC()
	user.CreatedAt = now
	user.UpdatedAt = now

	query := `INSERT INTO users (id, email, password_hash, balance_pages, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`

	_, err := r.db.ExecContext(ctx, query,
		user.ID, user.Email, user.PasswordHash, user.BalancePages, user.IsActive,
		user.CreatedAt, user.UpdatedAt)
	if err != nil {
		if strings.Contains(err.Error(), "duplicate key") {
			return domain.ErrDuplicateEmail
		}
		return fmt.Errorf("userRepo.Create: %w", err)
	}
	return nil
}

func (r *userRepo) GetByID(ctx context.Context, userID uuid.UUID) (*domain.User, error) {
	var user domain.User
	err := r.db.GetContext(ctx, &user, "SELECT * FROM users WHERE id = $1", userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("userRepo.GetByID: %w", err)
	}
	return &user, nil
}

func (r *userRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	var user domain.User
	err := r.db.GetContext(ctx, &user, "SELECT * FROM users WHERE email = $1", email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("userRepo.GetByEmail: %w", err)
	}
	return &user, nil
}

func (r *userRepo) Update(ctx context.Context, user *domain.User) error {
	user.UpdatedAt = time.Now().UTC()
	query := `UPDATE users SET email = $1, is_active = $2, updated_at = $3 WHERE id = $4`
	result, err := r.db.ExecContext(ctx, query,
		user.Email, user.IsActive, user.UpdatedAt, user.ID)
	if err != nil {
		if strings.Contains(err.Error(), "duplicate key") {
			return domain.ErrDuplicateEmail
		}
		return fmt.Errorf("userRepo.Update: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// ChargeUsage decrements the balance and inserts the usage log entry in a
// single transaction. The conditional UPDATE guards against concurrent
// decrements from the same user; it either does both or neither.
func (r *userRepo) ChargeUsage(ctx context.Context, userID uuid.UUID, pages int, fileName string) (int, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("userRepo.ChargeUsage begin: %w", err)
	}
	defer tx.Rollback()

	var newBalance int
	err = tx.GetContext(ctx, &newBalance, `
		UPDATE users
		SET balance_pages = balance_pages - $2, updated_at = NOW()
		WHERE id = $1 AND balance_pages >= $2
		RETURNING balance_pages`,
		userID, pages)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			// Distinguish a missing user from an exhausted balance.
			var exists bool
			if lookupErr := r.db.GetContext(ctx, &exists,
				"SELECT EXISTS (SELECT 1 FROM users WHERE id = $1)", userID); lookupErr == nil && !exists {
				return 0, domain.ErrNotFound
			}
			return 0, domain.ErrInsufficientBalance
		}
		return 0, fmt.Errorf("userRepo.ChargeUsage decrement: %w", err)
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO usage_logs (id, user_id, pages_processed, file_name, created_at)
		VALUES ($1, $2, $3, $4, NOW())`,
		uuid.New(), userID, pages, fileName)
	if err != nil {
		return 0, fmt.Errorf("userRepo.ChargeUsage log insert: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("userRepo.ChargeUsage commit: %w", err)
	}
	return newBalance, nil
}
