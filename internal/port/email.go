package port

import "context"

// EmailSender defines the contract for sending emails.
type EmailSender interface {
	SendTopUpReceipt(ctx context.Context, toEmail string, pages int, amount float64, outTradeNo string) error
}
