package services

import (
	"context"
	"fmt"
	"log"

	"preppulse/internal/config"

	"github.com/resend/resend-go/v2"
)

// Mailer delivers plain-text email.
type Mailer interface {
	Send(ctx context.Context, to, subject, body string) error
}

type resendMailer struct {
	client *resend.Client
	from   string
}

// NewMailer returns a Resend-backed mailer, or a LogMailer when no API key is
// configured.
func NewMailer(cfg config.MailConfig) Mailer {
	if cfg.ResendAPIKey == "" {
		log.Printf("WARN: RESEND_API_KEY not set, emails will only be logged")
		return NewLogMailer()
	}
	return &resendMailer{client: resend.NewClient(cfg.ResendAPIKey), from: cfg.From}
}

func (m *resendMailer) Send(ctx context.Context, to, subject, body string) error {
	sent, err := m.client.Emails.SendWithContext(ctx, &resend.SendEmailRequest{
		From:    m.from,
		To:      []string{to},
		Subject: subject,
		Text:    body,
	})
	if err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	log.Printf("DEBUG: email sent (ID: %s) to %s", sent.Id, to)
	return nil
}

// LogMailer writes messages to the log instead of sending them.
type LogMailer struct{}

func NewLogMailer() *LogMailer {
	return &LogMailer{}
}

func (m *LogMailer) Send(ctx context.Context, to, subject, body string) error {
	log.Printf("[LogMailer] to=%s subject=%q\n%s", to, subject, body)
	return nil
}
