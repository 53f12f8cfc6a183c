package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"drawbook/internal/domain"
	"drawbook/internal/port"
)

type userFileRepo struct {
	db *sqlx.DB
}

// NewUserFileRepo creates a new PostgreSQL-backed UserFileRepository.
func NewUserFileRepo(db *sqlx.DB) port.UserFileRepository {
	return &userFileRepo{db: db}
}

func (r *userFileRepo) Create(ctx context.Context, file *domain.UserFile) error {
	file.ID = uuid.New()
	file.CreatedAt = time.Now().UTC()

	query := `INSERT INTO user_files (id, user_id, filename, file_path, file_url, file_size, file_type, ocr_result, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	_, err := r.db.ExecContext(ctx, query,
		file.ID, file.UserID, file.Filename, file.FilePath, file.FileURL,
		file.FileSize, file.FileType, file.OCRResult, file.CreatedAt)
	if err != nil {
		return fmt.Errorf("userFileRepo.Create: %w", err)
	}
	return nil
}

func (r *userFileRepo) GetByID(ctx context.Context, userID, fileID uuid.UUID) (*domain.UserFile, error) {
	var file domain.UserFile
	err := r.db.GetContext(ctx, &file,
		"SELECT * FROM user_files WHERE id = $1 AND user_id = $2", fileID, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("userFileRepo.GetByID: %w", err)
	}
	return &file, nil
}

func (r *userFileRepo) ListByUser(ctx context.Context, userID uuid.UUID, offset, limit int) ([]domain.UserFile, int, error) {
	var total int
	err := r.db.GetContext(ctx, &total,
		"SELECT COUNT(*) FROM user_files WHERE user_id = $1", userID)
	if err != nil {
		return nil, 0, fmt.Errorf("userFileRepo.ListByUser count: %w", err)
	}

	var files []domain.UserFile
	err = r.db.SelectContext(ctx, &files,
		"SELECT * FROM user_files WHERE user_id = $1 ORDER BY created_at DESC LIMIT $2 OFFSET $3",
		userID, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("userFileRepo.ListByUser: %w", err)
	}
	return files, total, nil
}

func (r *userFileRepo) UpdateOCRResult(ctx context.Context, userID, fileID uuid.UUID, result json.RawMessage) error {
	res, err := r.db.ExecContext(ctx,
		"UPDATE user_files SET ocr_result = $1 WHERE id = $2 AND user_id = $3",
		result, fileID, userID)
	if err != nil {
		return fmt.Errorf("userFileRepo.UpdateOCRResult: %w", err)
	}
	rows, _ := res.RowsAffected()
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *userFileRepo) Delete(ctx context.Context, userID, fileID uuid.UUID) error {
	result, err := r.db.ExecContext(ctx,
		"DELETE FROM user_files WHERE id = $1 AND user_id = $2", fileID, userID)
	if err != nil {
		return fmt.Errorf("userFileRepo.Delete: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}
