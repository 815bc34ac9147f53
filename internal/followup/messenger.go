package followup

import (
	"context"

	"leadflow_backend/internal/email"
	"leadflow_backend/internal/sms"
	"leadflow_backend/internal/whatsapp"
)

// ProviderMessenger fans dispatches out to the configured delivery
// providers. Unconfigured providers (nil clients) report an error per
// send, which the dispatcher records as a failed communication.
type ProviderMessenger struct {
	email    email.Sender
	sms      *sms.Client
	whatsapp *whatsapp.Client
}

func NewProviderMessenger(emailSender email.Sender, smsClient *sms.Client, whatsappClient *whatsapp.Client) *ProviderMessenger {
	return &ProviderMessenger{
		email:    emailSender,
		sms:      smsClient,
		whatsapp: whatsappClient,
	}
}

func (m *ProviderMessenger) SendEmail(ctx context.Context, to, subject, html, text string) (string, error) {
	return m.email.Send(ctx, to, subject, html, text)
}

func (m *ProviderMessenger) SendSMS(ctx context.Context, to, body string) (string, error) {
	return m.sms.SendMessage(ctx, to, body)
}

func (m *ProviderMessenger) SendWhatsApp(ctx context.Context, to, body string) (string, error) {
	return m.whatsapp.SendMessage(ctx, to, body)
}

// Compile-time check that ProviderMessenger implements Messenger
var _ Messenger = (*ProviderMessenger)(nil)
