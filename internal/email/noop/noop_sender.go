package noop

import (
	"context"
	"log"

	"drawbook/internal/port"
)

type noopSender struct{}

// NewNoopSender creates a no-op EmailSender that logs receipts to stdout.
func NewNoopSender() port.EmailSender {
	return &noopSender{}
}

func (s *noopSender) SendTopUpReceipt(_ context.Context, toEmail string, pages int, amount float64, outTradeNo string) error {
	log.Printf("[NOOP EMAIL] Top-up receipt for %s: order %s, %d pages, %.2f", toEmail, outTradeNo, pages, amount)
	return nil
}
