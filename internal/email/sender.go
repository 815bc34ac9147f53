// Package email delivers outbound lead email over SMTP.
package email

import (
	"context"
	"fmt"
	"net"
	"time"

	"leadflow_backend/platform/config"
	"leadflow_backend/platform/logger"

	"github.com/google/uuid"
	gomail "github.com/wneessen/go-mail"
)

// Sender delivers a single email and returns the provider message id.
type Sender interface {
	Send(ctx context.Context, to, subject, html, text string) (string, error)
}

// NewSender returns the SMTP sender, or a log-only sender when email
// delivery is disabled so development environments never send real mail.
func NewSender(cfg config.EmailConfig, log *logger.Logger) Sender {
	if !cfg.GetEmailEnabled() {
		log.Warn("email delivery disabled, using log-only sender")
		return &logSender{log: log}
	}

	return &SMTPSender{
		host:      cfg.GetSMTPHost(),
		port:      cfg.GetSMTPPort(),
		username:  cfg.GetSMTPUsername(),
		password:  cfg.GetSMTPPassword(),
		fromName:  cfg.GetEmailFromName(),
		fromEmail: cfg.GetEmailFromAddress(),
	}
}

// SMTPSender delivers mail through a direct SMTP connection via go-mail.
type SMTPSender struct {
	host      string
	port      int
	username  string
	password  string
	fromName  string
	fromEmail string
}

func (s *SMTPSender) Send(ctx context.Context, to, subject, html, text string) (string, error) {
	msg := gomail.NewMsg()
	if err := msg.FromFormat(s.fromName, s.fromEmail); err != nil {
		return "", fmt.Errorf("smtp from: %w", err)
	}
	if err := msg.To(to); err != nil {
		return "", fmt.Errorf("smtp to: %w", err)
	}
	msg.Subject(subject)
	msg.SetBodyString(gomail.TypeTextPlain, text)
	msg.AddAlternativeString(gomail.TypeTextHTML, html)

	messageID := fmt.Sprintf("%s@%s", uuid.NewString(), s.host)
	msg.SetMessageIDWithValue(messageID)

	client, err := gomail.NewClient(s.host,
		gomail.WithPort(s.port),
		gomail.WithSMTPAuth(gomail.SMTPAuthPlain),
		gomail.WithUsername(s.username),
		gomail.WithPassword(s.password),
		gomail.WithTLSPortPolicy(gomail.TLSOpportunistic),
		gomail.WithTimeout(15*time.Second),
		gomail.WithDialContextFunc(func(dctx context.Context, _ string, addr string) (net.Conn, error) {
			return (&net.Dialer{}).DialContext(dctx, "tcp4", addr)
		}),
	)
	if err != nil {
		return "", fmt.Errorf("smtp client: %w", err)
	}

	if err := client.DialAndSendWithContext(ctx, msg); err != nil {
		return "", fmt.Errorf("smtp send: %w", err)
	}

	return messageID, nil
}

// logSender writes the message to the log instead of delivering it.
type logSender struct {
	log *logger.Logger
}

func (s *logSender) Send(_ context.Context, to, subject, _, text string) (string, error) {
	s.log.Info("email (log-only)", "to", to, "subject", subject, "text", text)
	return "log-" + uuid.NewString(), nil
}
