package email

import (
	"context"
	"encoding/base64"
	"fmt"
	"log/slog"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
)

// =============================================================================
// SendGrid Sender Implementation
// =============================================================================

// SendGridConfig holds configuration for the SendGrid API sender.
type SendGridConfig struct {
	APIKey   string
	From     string
	FromName string
}

// SendGridSender sends messages via the SendGrid API. Selected with
// MAIL_PROVIDER=sendgrid; the Message contract is identical to SMTP.
type SendGridSender struct {
	client   *sendgrid.Client
	from     string
	fromName string
	logger   *slog.Logger
}

// NewSendGridSender creates a new SendGrid sender. Returns nil when no API
// key is configured so callers can treat mail as unconfigured.
func NewSendGridSender(cfg SendGridConfig, logger *slog.Logger) *SendGridSender {
	if cfg.APIKey == "" {
		return nil
	}
	if cfg.From == "" {
		cfg.From = DefaultFromEmail
	}
	if cfg.FromName == "" {
		cfg.FromName = DefaultFromName
	}

	return &SendGridSender{
		client:   sendgrid.NewSendClient(cfg.APIKey),
		from:     cfg.From,
		fromName: cfg.FromName,
		logger:   logger,
	}
}

// Send delivers a message via the SendGrid API.
func (s *SendGridSender) Send(ctx context.Context, msg Message) error {
	from := mail.NewEmail(s.fromName, s.from)
	to := mail.NewEmail("", msg.To)

	htmlBody := msg.HTMLBody
	if htmlBody == "" {
		htmlBody = msg.TextBody
	}
	m := mail.NewSingleEmail(from, msg.Subject, to, msg.TextBody, htmlBody)

	if msg.ReplyTo != "" {
		m.SetReplyTo(mail.NewEmail("", msg.ReplyTo))
	}

	for _, att := range msg.Attachments {
		a := mail.NewAttachment()
		a.SetContent(base64.StdEncoding.EncodeToString(att.Content))
		a.SetType(att.ContentType)
		a.SetFilename(att.Filename)
		a.SetDisposition("attachment")
		m.AddAttachment(a)
	}

	response, err := s.client.SendWithContext(ctx, m)
	if err != nil {
		s.logger.Error("sendgrid send failed", "to", msg.To, "error", err)
		return fmt.Errorf("sendgrid send failed: %w", err)
	}

	if response.StatusCode >= 400 {
		s.logger.Error("sendgrid returned error status",
			"to", msg.To,
			"status", response.StatusCode,
			"body", response.Body,
		)
		return fmt.Errorf("sendgrid returned status %d", response.StatusCode)
	}

	s.logger.Info("email sent",
		"to", msg.To,
		"subject", msg.Subject,
		"attachments", len(msg.Attachments),
	)
	return nil
}

var _ Sender = (*SendGridSender)(nil)
