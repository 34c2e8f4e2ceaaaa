package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"
)

// PageHandler serves the public marketing pages.
type PageHandler struct {
	renderer *Renderer
	logger   *slog.Logger
}

// NewPageHandler creates a new page handler.
func NewPageHandler(renderer *Renderer, logger *slog.Logger) *PageHandler {
	return &PageHandler{
		renderer: renderer,
		logger:   logger,
	}
}

// servicePage is one entry in the services section of the home page.
type servicePage struct {
	Slug        string
	Name        string
	Description string
}

// services drives both the services grid and the consultation form dropdown.
// Slugs must match the keys the quote pipeline resolves to display names.
var services = []servicePage{
	{Slug: "tree-removal", Name: "Tree Removal", Description: "Safe removal of trees of any size, including confined-space and over-structure work."},
	{Slug: "tree-lopping", Name: "Tree Lopping & Pruning", Description: "Crown reduction, deadwooding and formative pruning to keep trees healthy and safe."},
	{Slug: "tree-health", Name: "Tree Health Assessment", Description: "On-site assessment of tree condition, structural defects and disease."},
	{Slug: "emergency", Name: "Emergency Services", Description: "Storm damage and hazardous tree response across the south east."},
	{Slug: "waste-removal", Name: "Green Waste Removal", Description: "Full green waste haul-away with every job, or as a standalone service."},
	{Slug: "land-clearing", Name: "Land Clearing", Description: "Block and easement clearing for builds, fencing and fire safety."},
	{Slug: "stump-grinding", Name: "Stump Grinding", Description: "Stumps ground below grade so you can replant, pave or lay turf."},
	{Slug: "mulching", Name: "Mulching", Description: "On-site chipping with mulch left for your garden or taken away."},
}

// pageData is the view model shared by every public page.
type pageData struct {
	Title       string
	Description string
	Path        string
	Suburb      string
	Services    []servicePage
}

// Home handles GET /.
func (h *PageHandler) Home(w http.ResponseWriter, r *http.Request) {
	// "/" matches every unregistered path; anything else is a 404
	if r.URL.Path != "/" {
		NotFoundResponse(w, r, h.logger)
		return
	}

	h.renderer.RenderHTTP(w, "public/home", pageData{
		Title:       "LMK Tree Services | Tree Removal & Arborist Services Melbourne South East",
		Description: "Qualified arborists for tree removal, pruning and stump grinding across Melbourne's south east. Free quotes within 24 hours.",
		Path:        "/",
		Services:    services,
	})
}

// TreeRemovalBerwick handles GET /tree-removal/berwick.
func (h *PageHandler) TreeRemovalBerwick(w http.ResponseWriter, r *http.Request) {
	h.renderer.RenderHTTP(w, "public/tree-removal-berwick", pageData{
		Title:       "Tree Removal Berwick | LMK Tree Services",
		Description: "Local tree removal in Berwick by qualified arborists. Fully insured, free quotes within 24 hours.",
		Path:        "/tree-removal/berwick",
		Suburb:      "Berwick",
		Services:    services,
	})
}

// TreeRemovalBeaconsfield handles GET /tree-removal/beaconsfield.
func (h *PageHandler) TreeRemovalBeaconsfield(w http.ResponseWriter, r *http.Request) {
	h.renderer.RenderHTTP(w, "public/tree-removal-beaconsfield", pageData{
		Title:       "Tree Removal Beaconsfield | LMK Tree Services",
		Description: "Local tree removal in Beaconsfield by qualified arborists. Fully insured, free quotes within 24 hours.",
		Path:        "/tree-removal/beaconsfield",
		Suburb:      "Beaconsfield",
		Services:    services,
	})
}

// Health handles GET /health.
func (h *PageHandler) Health(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]string{
		"status": "ok",
		"time":   time.Now().UTC().Format(time.RFC3339),
	})
}
