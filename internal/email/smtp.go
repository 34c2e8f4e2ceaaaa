package email

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"io"
	"log/slog"
	"mime/quotedprintable"
	"net/smtp"
)

// =============================================================================
// SMTP Sender Implementation
// =============================================================================

// SMTPConfig holds SMTP server configuration.
type SMTPConfig struct {
	Host     string // SMTP server hostname (e.g., "localhost" for Mailhog)
	Port     int    // SMTP server port (e.g., 1025 for Mailhog)
	Username string // SMTP authentication username (empty for Mailhog)
	Password string // SMTP authentication password (empty for Mailhog)
	From     string // Sender email address
	FromName string // Sender display name
}

// SMTPSender sends messages via SMTP.
//
// This implementation works with:
// - Mailhog (development): No authentication required
// - Gmail SMTP (production): app-password authentication
// - Any standard SMTP server
type SMTPSender struct {
	config SMTPConfig
	logger *slog.Logger
}

// NewSMTPSender creates a new SMTP-based sender.
func NewSMTPSender(config SMTPConfig, logger *slog.Logger) *SMTPSender {
	if config.From == "" {
		config.From = DefaultFromEmail
	}
	if config.FromName == "" {
		config.FromName = DefaultFromName
	}

	return &SMTPSender{
		config: config,
		logger: logger,
	}
}

// Send delivers a message via SMTP. The call blocks until the relay accepts
// or rejects the message; timeouts are the transport's.
func (s *SMTPSender) Send(_ context.Context, msg Message) error {
	raw := s.buildMessage(msg)

	addr := fmt.Sprintf("%s:%d", s.config.Host, s.config.Port)

	// Auth only when credentials are provided (not needed for Mailhog)
	var auth smtp.Auth
	if s.config.Username != "" && s.config.Password != "" {
		auth = smtp.PlainAuth("", s.config.Username, s.config.Password, s.config.Host)
	}

	if err := smtp.SendMail(addr, auth, s.config.From, []string{msg.To}, raw); err != nil {
		s.logger.Error("failed to send email",
			"to", msg.To,
			"subject", msg.Subject,
			"error", err,
		)
		return fmt.Errorf("failed to send email: %w", err)
	}

	s.logger.Info("email sent",
		"to", msg.To,
		"subject", msg.Subject,
		"attachments", len(msg.Attachments),
	)

	return nil
}

const (
	altBoundary   = "===============LMK_ALT_BOUNDARY==============="
	mixedBoundary = "===============LMK_MIXED_BOUNDARY==============="
)

// buildMessage constructs the raw RFC 2045 message. Messages without
// attachments are multipart/alternative (text + HTML); messages with
// attachments nest that inside multipart/mixed with one base64 part per
// attachment.
func (s *SMTPSender) buildMessage(msg Message) []byte {
	var buf bytes.Buffer

	fromHeader := fmt.Sprintf("%s <%s>", s.config.FromName, s.config.From)

	buf.WriteString(fmt.Sprintf("From: %s\r\n", fromHeader))
	buf.WriteString(fmt.Sprintf("To: %s\r\n", msg.To))
	if msg.ReplyTo != "" {
		buf.WriteString(fmt.Sprintf("Reply-To: %s\r\n", msg.ReplyTo))
	}
	buf.WriteString(fmt.Sprintf("Subject: %s\r\n", msg.Subject))
	buf.WriteString("MIME-Version: 1.0\r\n")

	if len(msg.Attachments) == 0 {
		buf.WriteString(fmt.Sprintf("Content-Type: multipart/alternative; boundary=%q\r\n", altBoundary))
		buf.WriteString("\r\n")
		writeAlternativeParts(&buf, msg)
		buf.WriteString(fmt.Sprintf("--%s--\r\n", altBoundary))
		return buf.Bytes()
	}

	buf.WriteString(fmt.Sprintf("Content-Type: multipart/mixed; boundary=%q\r\n", mixedBoundary))
	buf.WriteString("\r\n")

	// Body as a nested multipart/alternative part
	buf.WriteString(fmt.Sprintf("--%s\r\n", mixedBoundary))
	buf.WriteString(fmt.Sprintf("Content-Type: multipart/alternative; boundary=%q\r\n", altBoundary))
	buf.WriteString("\r\n")
	writeAlternativeParts(&buf, msg)
	buf.WriteString(fmt.Sprintf("--%s--\r\n", altBoundary))

	// One base64 part per attachment
	for _, att := range msg.Attachments {
		buf.WriteString(fmt.Sprintf("--%s\r\n", mixedBoundary))
		buf.WriteString(fmt.Sprintf("Content-Type: %s; name=%q\r\n", att.ContentType, att.Filename))
		buf.WriteString("Content-Transfer-Encoding: base64\r\n")
		buf.WriteString(fmt.Sprintf("Content-Disposition: attachment; filename=%q\r\n", att.Filename))
		buf.WriteString("\r\n")
		writeBase64Wrapped(&buf, att.Content)
		buf.WriteString("\r\n")
	}

	buf.WriteString(fmt.Sprintf("--%s--\r\n", mixedBoundary))
	return buf.Bytes()
}

func writeAlternativeParts(buf *bytes.Buffer, msg Message) {
	buf.WriteString(fmt.Sprintf("--%s\r\n", altBoundary))
	buf.WriteString("Content-Type: text/plain; charset=utf-8\r\n")
	buf.WriteString("Content-Transfer-Encoding: quoted-printable\r\n")
	buf.WriteString("\r\n")
	writeQuotedPrintable(buf, msg.TextBody)
	buf.WriteString("\r\n")

	buf.WriteString(fmt.Sprintf("--%s\r\n", altBoundary))
	buf.WriteString("Content-Type: text/html; charset=utf-8\r\n")
	buf.WriteString("Content-Transfer-Encoding: quoted-printable\r\n")
	buf.WriteString("\r\n")
	writeQuotedPrintable(buf, msg.HTMLBody)
	buf.WriteString("\r\n")
}

// writeQuotedPrintable encodes a body part, soft wrapping long lines so
// relays that enforce the 76 character limit do not mangle the HTML.
// Writes to a bytes.Buffer cannot fail.
func writeQuotedPrintable(buf *bytes.Buffer, body string) {
	qp := quotedprintable.NewWriter(buf)
	io.WriteString(qp, body)
	qp.Close()
}

// writeBase64Wrapped writes base64 content in 76-character lines per RFC 2045.
func writeBase64Wrapped(buf *bytes.Buffer, content []byte) {
	encoded := base64.StdEncoding.EncodeToString(content)
	const lineLen = 76
	for len(encoded) > lineLen {
		buf.WriteString(encoded[:lineLen])
		buf.WriteString("\r\n")
		encoded = encoded[lineLen:]
	}
	buf.WriteString(encoded)
}

// =============================================================================
// Compile-time interface check
// =============================================================================

var _ Sender = (*SMTPSender)(nil)
