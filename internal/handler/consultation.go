// Package handler contains HTTP handlers for the LMK Tree Services website.
//
// This file implements the consultation form endpoint. Its response contract
// is fixed: the client-side form matches on these exact JSON bodies, so they
// must not change shape or wording.
package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/lmktreeservices/website/internal/domain"
	"github.com/lmktreeservices/website/internal/service"
)

// Fixed response bodies for POST /api/consultation.
const (
	msgQuoteSent         = "Quote request sent successfully"
	errMissingFields     = "Missing required fields"
	errMailNotConfigured = "Email service not configured"
	errProcessingFailed  = "Failed to process quote request"
)

// ConsultationHandler serves the quote request API.
type ConsultationHandler struct {
	quotes *service.QuoteService
	logger *slog.Logger
}

// NewConsultationHandler creates a new consultation handler.
func NewConsultationHandler(quotes *service.QuoteService, logger *slog.Logger) *ConsultationHandler {
	return &ConsultationHandler{
		quotes: quotes,
		logger: logger,
	}
}

// Submit handles POST /api/consultation.
//
// Outcomes map onto four fixed responses:
//   - 200 {"message": "Quote request sent successfully"}
//   - 400 {"error": "Missing required fields"}
//   - 500 {"error": "Email service not configured"}
//   - 500 {"error": "Failed to process quote request"}
//
// A body that fails to parse gets the generic 500, not a 400: the form never
// produces malformed JSON, so a parse failure is treated as a processing
// fault rather than caller error.
func (h *ConsultationHandler) Submit(w http.ResponseWriter, r *http.Request) {
	var req domain.QuoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Error("failed to parse quote request", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": errProcessingFailed})
		return
	}

	if err := h.quotes.Submit(r.Context(), req); err != nil {
		switch domain.ErrorCode(err) {
		case domain.EINVALID:
			h.logger.Info("quote request rejected", "error", err)
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": errMissingFields})
		case domain.EUNAVAILABLE:
			h.logger.Error("quote request received but mail is not configured")
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": errMailNotConfigured})
		default:
			h.logger.Error("failed to process quote request", "error", err)
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": errProcessingFailed})
		}
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": msgQuoteSent})
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
