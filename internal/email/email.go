// Package email provides transactional email sending for the LMK Tree
// Services website.
//
// The quote pipeline builds fully-formed messages and hands them to a
// Sender. Two implementations exist:
// - SMTPSender: SMTP protocol (Mailhog in development, Gmail SMTP in production)
// - SendGridSender: SendGrid API (MAIL_PROVIDER=sendgrid)
package email

import (
	"context"
)

// Sender delivers a single fully-formed message synchronously. Any returned
// error is a transport-level failure; callers treat it as fatal to that send
// and do not distinguish subtypes beyond logging.
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

// Attachment is a file attached to a message.
type Attachment struct {
	Filename    string
	ContentType string
	Content     []byte
}

// Message represents a single outbound email.
type Message struct {
	To          string       // Recipient email address
	ReplyTo     string       // Optional Reply-To override
	Subject     string       // Subject line
	HTMLBody    string       // HTML content
	TextBody    string       // Plain text fallback content
	Attachments []Attachment // Optional attachments (lead notifications only)
}

// =============================================================================
// Common Constants
// =============================================================================

const (
	// DefaultFromEmail is the default sender address for transactional emails.
	DefaultFromEmail = "quotes@lmktreeservices.com.au"

	// DefaultFromName is the default sender display name.
	DefaultFromName = "LMK Tree Services"
)
