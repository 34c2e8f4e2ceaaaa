// Package domain contains core business types for the LMK Tree Services
// website.
//
// This file defines the quote request submitted from the consultation form
// and the pure derivations the submission pipeline applies to it: service
// label lookup, suburb extraction, phone formatting and attachment decoding.
package domain

import (
	"encoding/base64"
	"fmt"
	"regexp"
	"strings"
)

// =============================================================================
// Quote Request
// =============================================================================

// QuoteRequest is the JSON body posted to /api/consultation.
//
// Images are data URIs (data:<media-type>;base64,<payload>) produced by the
// browser at submit time. ImageNames is index-aligned with Images and may be
// shorter; missing entries get a generated fallback name.
type QuoteRequest struct {
	Name       string   `json:"name"`
	Email      string   `json:"email"`
	Phone      string   `json:"phone"`
	Service    string   `json:"service"`
	Message    string   `json:"message"`
	Images     []string `json:"images"`
	ImageNames []string `json:"imageNames"`
}

// MissingRequired reports whether any required field is empty. The client
// validates before submitting, but the server re-checks since the client
// cannot be trusted.
func (r *QuoteRequest) MissingRequired() bool {
	return r.Name == "" || r.Email == "" || r.Phone == "" || r.Message == ""
}

// =============================================================================
// Service Categories
// =============================================================================

// ServiceLabels maps service category slugs from the consultation form to
// their display names.
var ServiceLabels = map[string]string{
	"tree-removal":   "Tree Removal",
	"tree-lopping":   "Tree Lopping & Pruning",
	"tree-health":    "Tree Health Assessment",
	"emergency":      "Emergency Services",
	"waste-removal":  "Green Waste Removal",
	"land-clearing":  "Land Clearing",
	"stump-grinding": "Stump Grinding",
	"mulching":       "Mulching",
	"other":          "Other Service",
}

// GeneralEnquiryLabel is used when no service category was selected.
const GeneralEnquiryLabel = "General Enquiry"

// ServiceLabel resolves a service slug to its display name. Unrecognized
// slugs pass through as-is; an empty slug becomes the general enquiry label.
func ServiceLabel(service string) string {
	if label, ok := ServiceLabels[service]; ok {
		return label
	}
	if service != "" {
		return service
	}
	return GeneralEnquiryLabel
}

// =============================================================================
// Suburb Extraction
// =============================================================================

// SuburbNotSpecified is reported when the message carries no suburb line.
const SuburbNotSpecified = "Not specified"

var (
	suburbPattern     = regexp.MustCompile(`(?i)Suburb:\s*([^\n]+)`)
	suburbLinePattern = regexp.MustCompile(`(?i)Suburb:\s*[^\n]+\n*`)
)

// ExtractSuburb scans the free-text message for a conventional
// "Suburb: <value>" line placed there by the consultation form. It returns
// the trimmed suburb and the message with that line stripped. Without a
// suburb line it returns SuburbNotSpecified and the trimmed message.
func ExtractSuburb(message string) (suburb, clean string) {
	m := suburbPattern.FindStringSubmatch(message)
	if m == nil {
		return SuburbNotSpecified, strings.TrimSpace(message)
	}
	suburb = strings.TrimSpace(m[1])

	// Strip the first suburb line only, plus the blank lines it leaves behind.
	clean = message
	if loc := suburbLinePattern.FindStringIndex(message); loc != nil {
		clean = message[:loc[0]] + message[loc[1]:]
	}
	return suburb, strings.TrimSpace(clean)
}

// =============================================================================
// Phone Formatting
// =============================================================================

var nonDigitPattern = regexp.MustCompile(`\D`)

// FormatPhone re-renders a domestic-format mobile/landline number
// ("0412345678") as "0412 345 678". Anything that does not reduce to exactly
// ten digits with a leading zero passes through unchanged, including
// international numbers like "+61 429 187 791".
func FormatPhone(p string) string {
	cleaned := nonDigitPattern.ReplaceAllString(p, "")
	if len(cleaned) == 10 && strings.HasPrefix(cleaned, "0") {
		return fmt.Sprintf("%s %s %s", cleaned[:4], cleaned[4:7], cleaned[7:])
	}
	return p
}

// FirstName returns the text before the first space in a full name, or the
// whole name when it has no space.
func FirstName(name string) string {
	if i := strings.IndexByte(name, ' '); i >= 0 {
		return name[:i]
	}
	return name
}

// =============================================================================
// Attachments
// =============================================================================

// Attachment is a decoded photo ready to attach to the lead notification.
type Attachment struct {
	Filename    string
	ContentType string
	Content     []byte
}

// DecodeAttachments turns submitted data URIs back into raw bytes, pairing
// each with its original filename or a generated "tree-photo-<n>.jpg"
// fallback. The 5-image cap is enforced client-side at capture time and is
// deliberately not re-applied here.
func DecodeAttachments(images, imageNames []string) ([]Attachment, error) {
	if len(images) == 0 {
		return nil, nil
	}

	attachments := make([]Attachment, 0, len(images))
	for i, img := range images {
		contentType, content, err := decodeDataURI(img)
		if err != nil {
			return nil, fmt.Errorf("image %d: %w", i+1, err)
		}

		filename := fmt.Sprintf("tree-photo-%d.jpg", i+1)
		if i < len(imageNames) && imageNames[i] != "" {
			filename = imageNames[i]
		}

		attachments = append(attachments, Attachment{
			Filename:    filename,
			ContentType: contentType,
			Content:     content,
		})
	}
	return attachments, nil
}

// decodeDataURI splits a data URI on its first comma and base64-decodes the
// payload. The media type is read from the header, defaulting to image/jpeg.
func decodeDataURI(uri string) (string, []byte, error) {
	header, payload, ok := strings.Cut(uri, ",")
	if !ok {
		return "", nil, fmt.Errorf("malformed data URI")
	}

	contentType := "image/jpeg"
	meta := strings.TrimPrefix(header, "data:")
	if mt, _, _ := strings.Cut(meta, ";"); mt != "" {
		contentType = mt
	}

	content, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return "", nil, fmt.Errorf("decode image payload: %w", err)
	}
	return contentType, content, nil
}
