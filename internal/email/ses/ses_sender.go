package ses

import (
	"context"
	"fmt"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/aws/aws-sdk-go-v2/service/sesv2/types"

	"drawbook/internal/port"
)

type sesSender struct {
	client      *sesv2.Client
	fromAddress string
	fromName    string
}

// NewSESSender creates a new SES-backed EmailSender.
func NewSESSender(region, fromAddress, fromName string) (port.EmailSender, error) {
	cfg, err := awsconfig.LoadDefaultConfig(context.Background(), awsconfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("loading AWS config for SES: %w", err)
	}
	client := sesv2.NewFromConfig(cfg)
	return &sesSender{
		client:      client,
		fromAddress: fromAddress,
		fromName:    fromName,
	}, nil
}

func (s *sesSender) SendTopUpReceipt(ctx context.Context, toEmail string, pages int, amount float64, outTradeNo string) error {
	subject := "Your page balance top-up receipt"
	htmlBody := buildReceiptHTML(pages, amount, outTradeNo)
	textBody := fmt.Sprintf(
		"Thanks for your purchase.\n\nOrder: %s\nPages added: %d\nAmount: %.2f\n\nThe pages are already available on your account.",
		outTradeNo, pages, amount)

	from := fmt.Sprintf("%s <%s>", s.fromName, s.fromAddress)

	_, err := s.client.SendEmail(ctx, &sesv2.SendEmailInput{
		FromEmailAddress: &from,
		Destination: &types.Destination{
			ToAddresses: []string{toEmail},
		},
		Content: &types.EmailContent{
			Simple: &types.Message{
				Subject: &types.Content{Data: &subject},
				Body: &types.Body{
					Html: &types.Content{Data: &htmlBody},
					Text: &types.Content{Data: &textBody},
				},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("SES SendEmail: %w", err)
	}
	return nil
}

func buildReceiptHTML(pages int, amount float64, outTradeNo string) string {
	return fmt.Sprintf(`<html><body style="font-family: sans-serif; color: #333;">
<h2>Top-up receipt</h2>
<p>Thanks for your purchase. The pages are already available on your account.</p>
<table cellpadding="6" style="border-collapse: collapse;">
<tr><td><strong>Order</strong></td><td>%s</td></tr>
<tr><td><strong>Pages added</strong></td><td>%d</td></tr>
<tr><td><strong>Amount</strong></td><td>%.2f</td></tr>
</table>
</body></html>`, outTradeNo, pages, amount)
}
