package handlers

import (
	"net/http"

	"github.com/Sagar-1103/blush-build/internal/middleware"
	"github.com/Sagar-1103/blush-build/internal/services"

	"github.com/rs/zerolog/log"
)

// maxUploadBytes caps a single image upload.
const maxUploadBytes = 10 << 20

// UploadHandler handles direct image uploads to object storage
type UploadHandler struct {
	storage *services.StorageService
}

// NewUploadHandler creates a new upload handler
func NewUploadHandler(storage *services.StorageService) *UploadHandler {
	return &UploadHandler{storage: storage}
}

// Upload handles POST /api/v1/uploads: one multipart file in, one durable
// public URL out.
func (h *UploadHandler) Upload(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	file, header, err := r.FormFile("file")
	if err != nil {
		respondError(w, "No file uploaded", http.StatusBadRequest)
		return
	}
	defer file.Close()

	contentType := header.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	url, err := h.storage.Upload(r.Context(), contentType, file)
	if err != nil {
		log.Error().
			Err(err).
			Str("user_id", userID).
			Str("filename", header.Filename).
			Msg("Failed to upload file")
		respondServiceError(w, err)
		return
	}

	log.Info().
		Str("user_id", userID).
		Str("filename", header.Filename).
		Str("url", url).
		Msg("File uploaded")

	respondJSON(w, http.StatusOK, map[string]string{"url": url})
}
