package handler

import (
	"errors"
	"mime/multipart"
	"net/http"
	"time"

	mediadomain "farmbooking-go/internal/domain/media"
	propertydomain "farmbooking-go/internal/domain/property"
	"farmbooking-go/internal/transport/httpserver/middleware"
	"github.com/go-chi/chi/v5"
)

// multipartMemory caps how much of an upload is held in memory before the
// multipart parser spills to temp files.
const multipartMemory = 32 << 20

type mediaResponse struct {
	ID         string `json:"id"`
	PropertyID string `json:"farmhouse_id"`
	Kind       string `json:"kind"`
	URL        string `json:"url"`
	MimeType   string `json:"mime_type"`
	SizeBytes  int64  `json:"size_bytes"`
	CreatedAt  string `json:"created_at"`
}

func toMediaResponse(a mediadomain.MediaAsset) mediaResponse {
	return mediaResponse{
		ID:         a.ID,
		PropertyID: a.PropertyID,
		Kind:       a.Kind,
		URL:        a.URL(),
		MimeType:   a.MimeType,
		SizeBytes:  a.SizeBytes,
		CreatedAt:  a.CreatedAt.UTC().Format(time.RFC3339),
	}
}

func (h *Handlers) ListMedia(w http.ResponseWriter, r *http.Request) {
	propertyID := chi.URLParam(r, "id")

	caller, ok := middleware.CallerFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid_token", "invalid token")
		return
	}

	assets, err := h.Media.List(r.Context(), caller, propertyID)
	if err != nil {
		switch {
		case errors.Is(err, propertydomain.ErrPropertyNotFound):
			h.log.BusinessError("media.list: farmhouse not found", err, "property_id", propertyID)
			writeError(w, http.StatusNotFound, "not_found", "farmhouse not found")
		case errors.Is(err, mediadomain.ErrForbidden):
			h.log.BusinessError("media.list: forbidden", err, "property_id", propertyID, "caller_id", caller.ID)
			writeError(w, http.StatusForbidden, "forbidden", "forbidden")
		default:
			h.log.InternalError("media.list: list failed", err, "property_id", propertyID)
			writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		}
		return
	}

	result := make([]mediaResponse, 0, len(assets))
	for _, asset := range assets {
		result = append(result, toMediaResponse(asset))
	}
	writeJSON(w, http.StatusOK, result)
}

// UploadMedia accepts one or more multipart parts under the "files" form key.
func (h *Handlers) UploadMedia(w http.ResponseWriter, r *http.Request) {
	propertyID := chi.URLParam(r, "id")

	caller, ok := middleware.CallerFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid_token", "invalid token")
		return
	}

	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		writeError(w, http.StatusBadRequest, "validation_error", "multipart form expected")
		return
	}
	defer func() {
		_ = r.MultipartForm.RemoveAll()
	}()

	headers := r.MultipartForm.File["files"]
	if len(headers) == 0 {
		writeError(w, http.StatusBadRequest, "validation_error", "no files provided")
		return
	}

	uploads := make([]mediadomain.Upload, 0, len(headers))
	var opened []multipart.File
	defer func() {
		for _, f := range opened {
			_ = f.Close()
		}
	}()
	for _, header := range headers {
		f, err := header.Open()
		if err != nil {
			writeError(w, http.StatusBadRequest, "validation_error", "malformed multipart body")
			return
		}
		opened = append(opened, f)
		uploads = append(uploads, mediadomain.Upload{
			Filename:    header.Filename,
			ContentType: header.Header.Get("Content-Type"),
			Reader:      f,
		})
	}

	assets, err := h.Media.Upload(r.Context(), caller, propertyID, uploads)
	if err != nil {
		switch {
		case errors.Is(err, propertydomain.ErrPropertyNotFound):
			h.log.BusinessError("media.upload: farmhouse not found", err, "property_id", propertyID)
			writeError(w, http.StatusNotFound, "not_found", "farmhouse not found")
		case errors.Is(err, mediadomain.ErrForbidden):
			h.log.BusinessError("media.upload: forbidden", err, "property_id", propertyID, "caller_id", caller.ID)
			writeError(w, http.StatusForbidden, "forbidden", "forbidden")
		case errors.Is(err, mediadomain.ErrUnsupportedType):
			h.log.BusinessError("media.upload: unsupported content type", err, "property_id", propertyID)
			writeError(w, http.StatusBadRequest, "validation_error", "unsupported content type")
		case errors.Is(err, mediadomain.ErrUploadTooLarge):
			h.log.BusinessError("media.upload: upload too large", err, "property_id", propertyID)
			writeError(w, http.StatusRequestEntityTooLarge, "payload_too_large", "upload exceeds size limit")
		default:
			h.log.InternalError("media.upload: upload failed", err, "property_id", propertyID)
			writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		}
		return
	}

	result := make([]mediaResponse, 0, len(assets))
	for _, asset := range assets {
		result = append(result, toMediaResponse(asset))
	}
	writeJSON(w, http.StatusCreated, result)
}

func (h *Handlers) DeleteMedia(w http.ResponseWriter, r *http.Request) {
	propertyID := chi.URLParam(r, "id")
	mediaID := chi.URLParam(r, "media_id")

	caller, ok := middleware.CallerFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid_token", "invalid token")
		return
	}

	if err := h.Media.Delete(r.Context(), caller, propertyID, mediaID); err != nil {
		switch {
		case errors.Is(err, mediadomain.ErrMediaNotFound):
			h.log.BusinessError("media.delete: media not found", err, "media_id", mediaID)
			writeError(w, http.StatusNotFound, "not_found", "media not found")
		case errors.Is(err, propertydomain.ErrPropertyNotFound):
			h.log.BusinessError("media.delete: farmhouse not found", err, "property_id", propertyID)
			writeError(w, http.StatusNotFound, "not_found", "farmhouse not found")
		case errors.Is(err, mediadomain.ErrForbidden):
			h.log.BusinessError("media.delete: forbidden", err, "media_id", mediaID, "caller_id", caller.ID)
			writeError(w, http.StatusForbidden, "forbidden", "forbidden")
		default:
			h.log.InternalError("media.delete: delete failed", err, "media_id", mediaID)
			writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		}
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
