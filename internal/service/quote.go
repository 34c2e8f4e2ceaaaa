// Package service contains business logic for the LMK Tree Services website.
//
// This file implements the quote request pipeline behind POST /api/consultation:
// validation, display-value derivation, attachment decoding, and the two
// outbound emails (lead notification, then customer confirmation).
package service

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/lmktreeservices/website/internal/domain"
	"github.com/lmktreeservices/website/internal/email"
	"github.com/lmktreeservices/website/internal/metrics"
)

// =============================================================================
// Configuration
// =============================================================================

// QuoteConfig holds the addressing used by the quote pipeline.
type QuoteConfig struct {
	FromEmail         string // Sender address on both emails
	FromName          string // Sender display name
	NotificationEmail string // Business inbox that receives lead notifications
}

// =============================================================================
// Service
// =============================================================================

// QuoteService turns a submitted quote request into a lead notification for
// the business and a confirmation for the customer. Sends are sequential:
// the confirmation only goes out after the lead notification succeeded.
type QuoteService struct {
	sender    email.Sender // nil when no mail transport is configured
	config    QuoteConfig
	templates *template.Template
	logger    *slog.Logger
}

// NewQuoteService creates the quote pipeline. Pass a nil sender when mail
// credentials are absent; submissions then fail with EUNAVAILABLE instead of
// attempting a send.
func NewQuoteService(sender email.Sender, config QuoteConfig, templatesDir string, logger *slog.Logger) (*QuoteService, error) {
	templates, err := template.ParseGlob(filepath.Join(templatesDir, "email", "*.html"))
	if err != nil {
		return nil, fmt.Errorf("failed to parse email templates: %w", err)
	}

	return &QuoteService{
		sender:    sender,
		config:    config,
		templates: templates,
		logger:    logger,
	}, nil
}

// quoteEmailData is the data passed to both email templates.
type quoteEmailData struct {
	Name      string
	FirstName string
	Email     string
	Phone     string
	Service   string
	Suburb    string
	Message   string
	Previews  []template.URL // inline preview thumbnails (data URIs)
	Photos    int
	Year      int
}

// Submit runs the full pipeline for one quote request.
//
// Failures map onto domain codes: EUNAVAILABLE when no sender is configured,
// EINVALID when a required field is missing, EINTERNAL for everything else
// (bad attachment payloads, template failures, send failures).
func (s *QuoteService) Submit(ctx context.Context, req domain.QuoteRequest) error {
	const op = "QuoteService.Submit"

	if s.sender == nil {
		metrics.QuoteRequestsTotal.WithLabelValues("unconfigured").Inc()
		return domain.Unavailable(op, "email service not configured")
	}

	if req.MissingRequired() {
		metrics.QuoteRequestsTotal.WithLabelValues("invalid").Inc()
		return domain.Invalid(op, "missing required fields")
	}

	serviceLabel := domain.ServiceLabel(req.Service)
	suburb, message := domain.ExtractSuburb(req.Message)
	phone := domain.FormatPhone(req.Phone)
	firstName := domain.FirstName(req.Name)

	attachments, err := domain.DecodeAttachments(req.Images, req.ImageNames)
	if err != nil {
		metrics.QuoteRequestsTotal.WithLabelValues("failed").Inc()
		return domain.Internal(err, op, "failed to decode attached photos")
	}

	data := quoteEmailData{
		Name:      req.Name,
		FirstName: firstName,
		Email:     req.Email,
		Phone:     phone,
		Service:   serviceLabel,
		Suburb:    suburb,
		Message:   message,
		Previews:  PreviewImages(req.Images),
		Photos:    len(attachments),
		Year:      time.Now().Year(),
	}

	lead, err := s.buildLeadNotification(data, req, attachments)
	if err != nil {
		metrics.QuoteRequestsTotal.WithLabelValues("failed").Inc()
		return domain.Internal(err, op, "failed to build lead notification")
	}

	confirmation, err := s.buildCustomerConfirmation(data, req)
	if err != nil {
		metrics.QuoteRequestsTotal.WithLabelValues("failed").Inc()
		return domain.Internal(err, op, "failed to build customer confirmation")
	}

	// Lead notification first. If it fails the customer confirmation is
	// skipped so we never confirm a lead the business did not receive.
	if err := s.sender.Send(ctx, lead); err != nil {
		metrics.QuoteEmailsSentTotal.WithLabelValues("lead", "error").Inc()
		metrics.QuoteRequestsTotal.WithLabelValues("failed").Inc()
		return domain.Internal(err, op, "failed to send lead notification")
	}
	metrics.QuoteEmailsSentTotal.WithLabelValues("lead", "success").Inc()
	metrics.QuoteAttachmentsTotal.Add(float64(len(attachments)))

	if err := s.sender.Send(ctx, confirmation); err != nil {
		metrics.QuoteEmailsSentTotal.WithLabelValues("confirmation", "error").Inc()
		metrics.QuoteRequestsTotal.WithLabelValues("failed").Inc()
		return domain.Internal(err, op, "failed to send customer confirmation")
	}
	metrics.QuoteEmailsSentTotal.WithLabelValues("confirmation", "success").Inc()
	metrics.QuoteRequestsTotal.WithLabelValues("accepted").Inc()

	s.logger.Info("quote request processed",
		"service", serviceLabel,
		"suburb", suburb,
		"photos", len(attachments),
	)

	return nil
}

// buildLeadNotification assembles the email to the business inbox. Reply-To
// is the customer so Kyle can answer directly from his mail client.
func (s *QuoteService) buildLeadNotification(data quoteEmailData, req domain.QuoteRequest, attachments []domain.Attachment) (email.Message, error) {
	html, err := s.render("lead_notification.html", data)
	if err != nil {
		return email.Message{}, err
	}

	text := fmt.Sprintf(
		"New quote request\n\nName: %s\nEmail: %s\nPhone: %s\nService: %s\nSuburb: %s\n\n%s\n\nPhotos attached: %d\n",
		data.Name, data.Email, data.Phone, data.Service, data.Suburb, data.Message, data.Photos,
	)

	emailAttachments := make([]email.Attachment, 0, len(attachments))
	for _, a := range attachments {
		emailAttachments = append(emailAttachments, email.Attachment{
			Filename:    a.Filename,
			ContentType: a.ContentType,
			Content:     a.Content,
		})
	}

	return email.Message{
		To:          s.config.NotificationEmail,
		ReplyTo:     req.Email,
		Subject:     fmt.Sprintf("New Quote Request: %s - %s (%s)", data.Service, data.Name, data.Suburb),
		HTMLBody:    html,
		TextBody:    text,
		Attachments: emailAttachments,
	}, nil
}

// buildCustomerConfirmation assembles the acknowledgement sent back to the
// customer. It carries no attachments.
func (s *QuoteService) buildCustomerConfirmation(data quoteEmailData, req domain.QuoteRequest) (email.Message, error) {
	html, err := s.render("customer_confirmation.html", data)
	if err != nil {
		return email.Message{}, err
	}

	text := fmt.Sprintf(
		"Thanks %s!\n\nWe've received your quote request for %s and will be in touch within 24 hours.\n\nLMK Tree Services\n",
		data.FirstName, data.Service,
	)

	return email.Message{
		To:       req.Email,
		Subject:  fmt.Sprintf("Thanks %s! Your quote request has been received", data.FirstName),
		HTMLBody: html,
		TextBody: text,
	}, nil
}

func (s *QuoteService) render(name string, data quoteEmailData) (string, error) {
	var buf bytes.Buffer
	if err := s.templates.ExecuteTemplate(&buf, name, data); err != nil {
		return "", fmt.Errorf("failed to render %s: %w", name, err)
	}
	return buf.String(), nil
}
