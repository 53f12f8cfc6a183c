package port

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"drawbook/internal/domain"
)

// UserRepository defines the contract for user persistence.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, userID uuid.UUID) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	Update(ctx context.Context, user *domain.User) error
	// ChargeUsage decrements the user's page balance and writes the usage
	// log entry in one transaction. It fails without side effects when the
	// balance is insufficient, and returns the new balance on success.
	ChargeUsage(ctx context.Context, userID uuid.UUID, pages int, fileName string) (int, error)
}

// UserFileRepository defines the contract for uploaded-file persistence.
type UserFileRepository interface {
	Create(ctx context.Context, file *domain.UserFile) error
	GetByID(ctx context.Context, userID, fileID uuid.UUID) (*domain.UserFile, error)
	ListByUser(ctx context.Context, userID uuid.UUID, offset, limit int) ([]domain.UserFile, int, error)
	// UpdateOCRResult writes the parse cache. Last writer wins.
	UpdateOCRResult(ctx context.Context, userID, fileID uuid.UUID, result json.RawMessage) error
	Delete(ctx context.Context, userID, fileID uuid.UUID) error
}

// ExampleFileRepository defines the contract for the shared example library.
type ExampleFileRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.ExampleFile, error)
	List(ctx context.Context) ([]domain.ExampleFile, error)
	UpdateOCRResult(ctx context.Context, id uuid.UUID, result json.RawMessage) error
}

// UsageLogRepository defines read access to usage history. Entries are only
// written through UserRepository.ChargeUsage.
type UsageLogRepository interface {
	ListByUser(ctx context.Context, userID uuid.UUID, offset, limit int) ([]domain.UsageLogEntry, int, error)
	ListByUserBetween(ctx context.Context, userID uuid.UUID, from, to time.Time) ([]domain.UsageLogEntry, error)
	TotalPagesByUser(ctx context.Context, userID uuid.UUID) (int, error)
}

// TransactionRepository defines the contract for top-up order persistence.
type TransactionRepository interface {
	Create(ctx context.Context, tx *domain.Transaction) error
	GetByOutTradeNo(ctx context.Context, outTradeNo string) (*domain.Transaction, error)
	ListByUser(ctx context.Context, userID uuid.UUID, offset, limit int) ([]domain.Transaction, int, error)
	// SettleSucceeded flips a pending order to success and credits its pages
	// to the owner's balance in one transaction, returning the new balance.
	// It reports credited=false when the order was already successful, making
	// notification handling idempotent; a failed settle leaves the order
	// pending so a retried notification can still credit it.
	SettleSucceeded(ctx context.Context, outTradeNo string) (*domain.Transaction, int, bool, error)
	MarkFailed(ctx context.Context, outTradeNo string) error
}
