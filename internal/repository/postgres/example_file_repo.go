package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"drawbook/internal/domain"
	"drawbook/internal/port"
)

type exampleFileRepo struct {
	db *sqlx.DB
}

// NewExampleFileRepo creates a new PostgreSQL-backed ExampleFileRepository.
func NewExampleFileRepo(db *sqlx.DB) port.ExampleFileRepository {
	return &exampleFileRepo{db: db}
}

func (r *exampleFileRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.ExampleFile, error) {
	var file domain.ExampleFile
	err := r.db.GetContext(ctx, &file, "SELECT * FROM example_files WHERE id = $1", id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("exampleFileRepo.GetByID: %w", err)
	}
	return &file, nil
}

func (r *exampleFileRepo) List(ctx context.Context) ([]domain.ExampleFile, error) {
	var files []domain.ExampleFile
	err := r.db.SelectContext(ctx, &files,
		"SELECT * FROM example_files ORDER BY category, name")
	if err != nil {
		return nil, fmt.Errorf("exampleFileRepo.List: %w", err)
	}
	return files, nil
}

func (r *exampleFileRepo) UpdateOCRResult(ctx context.Context, id uuid.UUID, result json.RawMessage) error {
	res, err := r.db.ExecContext(ctx,
		"UPDATE example_files SET ocr_result = $1 WHERE id = $2", result, id)
	if err != nil {
		return fmt.Errorf("exampleFileRepo.UpdateOCRResult: %w", err)
	}
	rows, _ := res.RowsAffected()
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}
