package service

import (
	"context"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"fmt"
	"log"
	"math/rand"
	"net/url"
	"time"

	"github.com/google/uuid"

	"drawbook/internal/config"
	"drawbook/internal/domain"
	"drawbook/internal/port"
)

// CreateOrderInput is the DTO for top-up order requests.
type CreateOrderInput struct {
	Pages int `json:"pages" binding:"required,min=1"`
}

// Order is a created top-up order plus the QR code URL the user pays at.
type Order struct {
	OutTradeNo string  `json:"out_trade_no"`
	Amount     float64 `json:"amount"`
	Pages      int     `json:"pages"`
	QRCodeURL  string  `json:"qr_code_url"`
}

// NotificationInput is the payment gateway callback payload.
type NotificationInput struct {
	OutTradeNo string `json:"out_trade_no" binding:"required"`
	Status     string `json:"status" binding:"required"`
	Checksum   string `json:"checksum" binding:"required"`
}

// PaymentService creates top-up orders and settles gateway notifications.
type PaymentService interface {
	CreateOrder(ctx context.Context, userID uuid.UUID, input CreateOrderInput) (*Order, error)
	// HandleNotification verifies and settles a gateway callback. Duplicate
	// notifications for an already credited order are acknowledged without
	// crediting again.
	HandleNotification(ctx context.Context, input NotificationInput) error
	ListOrders(ctx context.Context, userID uuid.UUID, offset, limit int) ([]domain.Transaction, int, error)
}

type paymentService struct {
	txRepo   port.TransactionRepository
	userRepo port.UserRepository
	email    port.EmailSender
	cfg      config.PayConfig
}

// NewPaymentService creates a new PaymentService implementation.
func NewPaymentService(
	txRepo port.TransactionRepository,
	userRepo port.UserRepository,
	email port.EmailSender,
	cfg config.PayConfig,
) PaymentService {
	return &paymentService{
		txRepo:   txRepo,
		userRepo: userRepo,
		email:    email,
		cfg:      cfg,
	}
}

func (s *paymentService) CreateOrder(ctx context.Context, userID uuid.UUID, input CreateOrderInput) (*Order, error) {
	if _, err := s.userRepo.GetByID(ctx, userID); err != nil {
		return nil, err
	}

	outTradeNo := fmt.Sprintf("ORDER_%d_%06d", time.Now().UnixMilli(), rand.Intn(1000000))
	amount := float64(input.Pages) * s.cfg.PricePerPage

	tx := &domain.Transaction{
		UserID:      userID,
		OutTradeNo:  outTradeNo,
		Amount:      amount,
		Pages:       input.Pages,
		Status:      domain.TransactionPending,
		Description: fmt.Sprintf("%d pages top-up", input.Pages),
	}
	if err := s.txRepo.Create(ctx, tx); err != nil {
		return nil, err
	}

	return &Order{
		OutTradeNo: outTradeNo,
		Amount:     amount,
		Pages:      input.Pages,
		QRCodeURL:  s.qrCodeURL(outTradeNo, amount),
	}, nil
}

func (s *paymentService) qrCodeURL(outTradeNo string, amount float64) string {
	q := url.Values{}
	q.Set("out_trade_no", outTradeNo)
	q.Set("amount", fmt.Sprintf("%.2f", amount))
	return s.cfg.QRBaseURL + "?" + q.Encode()
}

// checksum mirrors the gateway's signing scheme: sha256 over the order id,
// the shared seed and the reported status.
func (s *paymentService) checksum(outTradeNo, status string) string {
	sum := sha256.Sum256([]byte(outTradeNo + s.cfg.NotifySeed + status))
	return hex.EncodeToString(sum[:])
}

func (s *paymentService) HandleNotification(ctx context.Context, input NotificationInput) error {
	expected := s.checksum(input.OutTradeNo, input.Status)
	if subtle.ConstantTimeCompare([]byte(expected), []byte(input.Checksum)) != 1 {
		return domain.ErrInvalidNotification
	}

	if input.Status != "success" {
		if err := s.txRepo.MarkFailed(ctx, input.OutTradeNo); err != nil {
			return err
		}
		return nil
	}

	tx, newBalance, credited, err := s.txRepo.SettleSucceeded(ctx, input.OutTradeNo)
	if err != nil {
		return fmt.Errorf("paymentService.HandleNotification settle: %w", err)
	}
	if !credited {
		log.Printf("paymentService.HandleNotification: duplicate notification for %s, already settled", input.OutTradeNo)
		return nil
	}
	log.Printf("paymentService.HandleNotification: credited %d pages to user %s (balance %d)", tx.Pages, tx.UserID, newBalance)

	s.sendReceipt(ctx, tx)
	return nil
}

// sendReceipt is best-effort; the credit already happened.
func (s *paymentService) sendReceipt(ctx context.Context, tx *domain.Transaction) {
	user, err := s.userRepo.GetByID(ctx, tx.UserID)
	if err != nil {
		log.Printf("paymentService.sendReceipt: user lookup failed for %s: %v", tx.UserID, err)
		return
	}
	if err := s.email.SendTopUpReceipt(ctx, user.Email, tx.Pages, tx.Amount, tx.OutTradeNo); err != nil {
		log.Printf("paymentService.sendReceipt: send failed for %s: %v", user.Email, err)
	}
}

func (s *paymentService) ListOrders(ctx context.Context, userID uuid.UUID, offset, limit int) ([]domain.Transaction, int, error) {
	return s.txRepo.ListByUser(ctx, userID, offset, limit)
}
