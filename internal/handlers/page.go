package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/Sagar-1103/blush-build/internal/middleware"
	"github.com/Sagar-1103/blush-build/internal/services"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog/log"
)

// PageHandler handles page CRUD and the public slug route
type PageHandler struct {
	pageService *services.PageService
	validate    *validator.Validate
}

// NewPageHandler creates a new page handler
func NewPageHandler(pageService *services.PageService) *PageHandler {
	return &PageHandler{
		pageService: pageService,
		validate:    validator.New(),
	}
}

// decodeForm reads and validates a page form body; responds and reports
// false on failure.
func (h *PageHandler) decodeForm(w http.ResponseWriter, r *http.Request) (*services.PageForm, bool) {
	var form services.PageForm
	if err := json.NewDecoder(r.Body).Decode(&form); err != nil {
		respondError(w, "Invalid request body", http.StatusBadRequest)
		return nil, false
	}
	if err := h.validate.Struct(&form); err != nil {
		respondError(w, err.Error(), http.StatusBadRequest)
		return nil, false
	}
	return &form, true
}

// Create handles POST /api/v1/pages
func (h *PageHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	form, ok := h.decodeForm(w, r)
	if !ok {
		return
	}

	result, err := h.pageService.Publish(r.Context(), userID, form)
	if err != nil {
		log.Error().Err(err).Str("user_id", userID).Msg("Failed to publish page")
		respondServiceError(w, err)
		return
	}

	log.Info().
		Str("user_id", userID).
		Str("page_id", result.ID).
		Str("slug", result.Slug).
		Msg("Page published")

	respondJSON(w, http.StatusOK, result)
}

// Update handles PUT /api/v1/pages/{page_id}
func (h *PageHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	pageID := chi.URLParam(r, "page_id")

	form, ok := h.decodeForm(w, r)
	if !ok {
		return
	}

	if err := h.pageService.Update(r.Context(), userID, pageID, form); err != nil {
		log.Error().Err(err).Str("user_id", userID).Str("page_id", pageID).Msg("Failed to update page")
		respondServiceError(w, err)
		return
	}

	log.Info().Str("user_id", userID).Str("page_id", pageID).Msg("Page updated")
	respondJSON(w, http.StatusOK, map[string]any{"success": true})
}

// Delete handles DELETE /api/v1/pages/{page_id}
func (h *PageHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	pageID := chi.URLParam(r, "page_id")

	if err := h.pageService.Delete(r.Context(), userID, pageID); err != nil {
		log.Error().Err(err).Str("user_id", userID).Str("page_id", pageID).Msg("Failed to delete page")
		respondServiceError(w, err)
		return
	}

	log.Info().Str("user_id", userID).Str("page_id", pageID).Msg("Page deleted")
	respondJSON(w, http.StatusOK, map[string]any{"success": true})
}

// List handles GET /api/v1/pages
func (h *PageHandler) List(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	summaries, err := h.pageService.ListForOwner(r.Context(), userID)
	if err != nil {
		log.Error().Err(err).Str("user_id", userID).Msg("Failed to list pages")
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{"pages": summaries})
}

// GetByID handles GET /api/v1/pages/{page_id}
func (h *PageHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	pageID := chi.URLParam(r, "page_id")

	page, err := h.pageService.GetByID(r.Context(), pageID)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, page)
}

// GetBySlug handles GET /api/v1/p/{slug}, the public page route. Loading a
// page records a view as a side effect, off the request path.
func (h *PageHandler) GetBySlug(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")

	page, err := h.pageService.GetBySlug(r.Context(), slug)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	go h.pageService.RecordView(page.ID)

	respondJSON(w, http.StatusOK, page)
}
