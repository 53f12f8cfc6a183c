package domain

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// User represents an authenticated account with a prepaid page balance.
type User struct {
	ID           uuid.UUID `db:"id" json:"id"`
	Email        string    `db:"email" json:"email"`
	PasswordHash string    `db:"password_hash" json:"-"`
	BalancePages int       `db:"balance_pages" json:"balance_pages"`
	IsActive     bool      `db:"is_active" json:"is_active"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time `db:"updated_at" json:"updated_at"`
}

// UserFile stores metadata about an uploaded file. OCRResult, once written,
// is the permanently authoritative parse cache for the file.
type UserFile struct {
	ID        uuid.UUID       `db:"id" json:"id"`
	UserID    uuid.UUID       `db:"user_id" json:"user_id"`
	Filename  string          `db:"filename" json:"filename"`
	FilePath  string          `db:"file_path" json:"file_path"`
	FileURL   string          `db:"file_url" json:"file_url"`
	FileSize  int64           `db:"file_size" json:"file_size"`
	FileType  FileType        `db:"file_type" json:"file_type"`
	OCRResult json.RawMessage `db:"ocr_result" json:"ocr_result,omitempty"`
	CreatedAt time.Time       `db:"created_at" json:"created_at"`
}

// ExampleFile is a curated sample document shared by all users. Parsing an
// example is never charged; its cache is populated by whoever parses it first.
type ExampleFile struct {
	ID        uuid.UUID       `db:"id" json:"id"`
	Name      string          `db:"name" json:"name"`
	Category  string          `db:"category" json:"category"`
	URL       string          `db:"url" json:"url"`
	Type      string          `db:"type" json:"type"`
	OCRResult json.RawMessage `db:"ocr_result" json:"ocr_result,omitempty"`
	CreatedAt time.Time       `db:"created_at" json:"created_at"`
}

// UsageLogEntry records one chargeable parse event. It is written only inside
// the balance-decrement transaction and never mutated afterwards.
type UsageLogEntry struct {
	ID             uuid.UUID `db:"id" json:"id"`
	UserID         uuid.UUID `db:"user_id" json:"user_id"`
	PagesProcessed int       `db:"pages_processed" json:"pages_processed"`
	FileName       string    `db:"file_name" json:"file_name"`
	CreatedAt      time.Time `db:"created_at" json:"created_at"`
}

// Transaction represents a balance top-up order. OutTradeNo is the external
// payment identifier; a transaction is credited at most once.
type Transaction struct {
	ID          uuid.UUID         `db:"id" json:"id"`
	UserID      uuid.UUID         `db:"user_id" json:"user_id"`
	OutTradeNo  string            `db:"out_trade_no" json:"out_trade_no"`
	Amount      float64           `db:"amount" json:"amount"`
	Pages       int               `db:"pages" json:"pages"`
	Status      TransactionStatus `db:"status" json:"status"`
	Description string            `db:"description" json:"description"`
	CreatedAt   time.Time         `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time         `db:"updated_at" json:"updated_at"`
}
