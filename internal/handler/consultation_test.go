package handler

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/lmktreeservices/website/internal/email"
	"github.com/lmktreeservices/website/internal/service"
)

type fakeSender struct {
	sent int
	fail bool
}

func (s *fakeSender) Send(_ context.Context, _ email.Message) error {
	if s.fail {
		return context.DeadlineExceeded
	}
	s.sent++
	return nil
}

func newConsultationHandler(t *testing.T, sender email.Sender) *ConsultationHandler {
	t.Helper()

	dir := t.TempDir()
	emailDir := filepath.Join(dir, "email")
	if err := os.MkdirAll(emailDir, 0o755); err != nil {
		t.Fatal(err)
	}
	for _, name := range []string{"lead_notification.html", "customer_confirmation.html"} {
		if err := os.WriteFile(filepath.Join(emailDir, name), []byte(`<p>{{.Name}}</p>`), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	quotes, err := service.NewQuoteService(sender, service.QuoteConfig{
		FromEmail:         "quotes@lmktreeservices.com.au",
		FromName:          "LMK Tree Services",
		NotificationEmail: "kyle@lmktreeservices.com.au",
	}, dir, logger)
	if err != nil {
		t.Fatal(err)
	}

	return NewConsultationHandler(quotes, logger)
}

func postConsultation(h *ConsultationHandler, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/api/consultation", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.Submit(rec, req)
	return rec
}

const validBody = `{
	"name": "Sarah Mitchell",
	"email": "sarah@example.com",
	"phone": "0412345678",
	"service": "tree-removal",
	"message": "Suburb: Berwick\nTwo large gums near the fence"
}`

func TestSubmitSuccess(t *testing.T) {
	sender := &fakeSender{}
	h := newConsultationHandler(t, sender)

	rec := postConsultation(h, validBody)

	if rec.Code != http.StatusOK {
		t.Errorf("expected status 200, got %d", rec.Code)
	}
	if got := strings.TrimSpace(rec.Body.String()); got != `{"message":"Quote request sent successfully"}` {
		t.Errorf("unexpected body: %s", got)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("expected JSON content type, got %q", ct)
	}
	if sender.sent != 2 {
		t.Errorf("expected 2 emails sent, got %d", sender.sent)
	}
}

func TestSubmitMissingFields(t *testing.T) {
	sender := &fakeSender{}
	h := newConsultationHandler(t, sender)

	rec := postConsultation(h, `{"name": "Sarah", "email": "", "phone": "0412345678", "message": "help"}`)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected status 400, got %d", rec.Code)
	}
	if got := strings.TrimSpace(rec.Body.String()); got != `{"error":"Missing required fields"}` {
		t.Errorf("unexpected body: %s", got)
	}
	if sender.sent != 0 {
		t.Errorf("expected no emails, got %d", sender.sent)
	}
}

func TestSubmitMailNotConfigured(t *testing.T) {
	h := newConsultationHandler(t, nil)

	rec := postConsultation(h, validBody)

	if rec.Code != http.StatusInternalServerError {
		t.Errorf("expected status 500, got %d", rec.Code)
	}
	if got := strings.TrimSpace(rec.Body.String()); got != `{"error":"Email service not configured"}` {
		t.Errorf("unexpected body: %s", got)
	}
}

func TestSubmitSendFailure(t *testing.T) {
	h := newConsultationHandler(t, &fakeSender{fail: true})

	rec := postConsultation(h, validBody)

	if rec.Code != http.StatusInternalServerError {
		t.Errorf("expected status 500, got %d", rec.Code)
	}
	if got := strings.TrimSpace(rec.Body.String()); got != `{"error":"Failed to process quote request"}` {
		t.Errorf("unexpected body: %s", got)
	}
}

func TestSubmitMalformedJSON(t *testing.T) {
	h := newConsultationHandler(t, &fakeSender{})

	rec := postConsultation(h, `{"name": `)

	if rec.Code != http.StatusInternalServerError {
		t.Errorf("expected status 500, got %d", rec.Code)
	}
	if got := strings.TrimSpace(rec.Body.String()); got != `{"error":"Failed to process quote request"}` {
		t.Errorf("unexpected body: %s", got)
	}
}
