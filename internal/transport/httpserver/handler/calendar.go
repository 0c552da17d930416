package handler

import (
	"errors"
	"net/http"
	"time"

	calendardomain "farmbooking-go/internal/domain/calendar"
	propertydomain "farmbooking-go/internal/domain/property"
	"farmbooking-go/internal/transport/httpserver/middleware"
	"github.com/go-chi/chi/v5"
)

type dayChangeRequest struct {
	Day      string  `json:"day"`
	IsBooked bool    `json:"is_booked"`
	Note     *string `json:"note"`
}

type dayStatusResponse struct {
	Day         string  `json:"day"`
	IsBooked    bool    `json:"is_booked"`
	Note        *string `json:"note"`
	AdminBooked bool    `json:"admin_booked"`
}

func (h *Handlers) GetDayStatuses(w http.ResponseWriter, r *http.Request) {
	propertyID := chi.URLParam(r, "id")

	start, err := parseDateRequired(r.URL.Query().Get("start"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "validation_error", "start must be YYYY-MM-DD")
		return
	}
	end, err := parseDateRequired(r.URL.Query().Get("end"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "validation_error", "end must be YYYY-MM-DD")
		return
	}

	caller, ok := middleware.CallerFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid_token", "invalid token")
		return
	}

	records, err := h.Calendar.GetStatus(r.Context(), caller, propertyID, start, end)
	if err != nil {
		switch {
		case errors.Is(err, propertydomain.ErrPropertyNotFound):
			h.log.BusinessError("calendar.get: farmhouse not found", err, "property_id", propertyID)
			writeError(w, http.StatusNotFound, "not_found", "farmhouse not found")
		case errors.Is(err, calendardomain.ErrForbidden):
			h.log.BusinessError("calendar.get: forbidden", err, "property_id", propertyID, "caller_id", caller.ID)
			writeError(w, http.StatusForbidden, "forbidden", "forbidden")
		default:
			h.log.InternalError("calendar.get: read failed", err, "property_id", propertyID)
			writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		}
		return
	}

	result := make([]dayStatusResponse, 0, len(records))
	for _, rec := range records {
		result = append(result, dayStatusResponse{
			Day:         rec.Day.Format(dateLayout),
			IsBooked:    rec.IsBooked,
			Note:        rec.Note,
			AdminBooked: rec.AdminLocked,
		})
	}
	writeJSON(w, http.StatusOK, result)
}

func (h *Handlers) UpsertDayStatuses(w http.ResponseWriter, r *http.Request) {
	propertyID := chi.URLParam(r, "id")

	var reqs []dayChangeRequest
	if err := decodeJSON(r, &reqs); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}

	changes := make([]calendardomain.DayChange, 0, len(reqs))
	for _, req := range reqs {
		day, err := time.Parse(dateLayout, req.Day)
		if err != nil {
			writeError(w, http.StatusBadRequest, "validation_error", "day must be YYYY-MM-DD")
			return
		}
		changes = append(changes, calendardomain.DayChange{
			Day:      day,
			IsBooked: req.IsBooked,
			Note:     req.Note,
		})
	}

	caller, ok := middleware.CallerFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid_token", "invalid token")
		return
	}

	if err := h.Calendar.UpsertStatus(r.Context(), caller, propertyID, changes); err != nil {
		switch {
		case errors.Is(err, propertydomain.ErrPropertyNotFound):
			h.log.BusinessError("calendar.upsert: farmhouse not found", err, "property_id", propertyID)
			writeError(w, http.StatusNotFound, "not_found", "farmhouse not found")
		case errors.Is(err, calendardomain.ErrForbidden):
			h.log.BusinessError("calendar.upsert: forbidden", err, "property_id", propertyID, "caller_id", caller.ID)
			writeError(w, http.StatusForbidden, "forbidden", "forbidden")
		case errors.Is(err, calendardomain.ErrPastDate):
			h.log.BusinessError("calendar.upsert: past date in batch", err, "property_id", propertyID)
			writeError(w, http.StatusBadRequest, "validation_error", "cannot modify past dates")
		case errors.Is(err, calendardomain.ErrDayLocked):
			h.log.BusinessError("calendar.upsert: day locked by admin", err, "property_id", propertyID, "caller_id", caller.ID)
			writeError(w, http.StatusForbidden, "day_locked", "this date is locked by admin")
		default:
			h.log.InternalError("calendar.upsert: write failed", err, "property_id", propertyID)
			writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		}
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
