package handler

import (
	"errors"
	"net/http"

	identitydomain "farmbooking-go/internal/domain/identity"
	propertydomain "farmbooking-go/internal/domain/property"
	"farmbooking-go/internal/transport/httpserver/middleware"
)

type farmhouseResponse struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	OwnerID  string  `json:"owner_id"`
	Size     *int    `json:"size"`
	Location *string `json:"location"`
}

type createFarmhouseRequest struct {
	Name    string `json:"name"`
	OwnerID string `json:"owner_id"`
}

func toFarmhouseResponse(p *propertydomain.Property) farmhouseResponse {
	return farmhouseResponse{
		ID:       p.ID,
		Name:     p.Name,
		OwnerID:  p.OwnerID,
		Size:     p.Size,
		Location: p.Location,
	}
}

func toFarmhouseResponses(props []propertydomain.Property) []farmhouseResponse {
	result := make([]farmhouseResponse, 0, len(props))
	for i := range props {
		result = append(result, toFarmhouseResponse(&props[i]))
	}
	return result
}

func (h *Handlers) MyFarmhouses(w http.ResponseWriter, r *http.Request) {
	caller, ok := middleware.CallerFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid_token", "invalid token")
		return
	}

	props, err := h.Properties.ListForCaller(r.Context(), caller)
	if err != nil {
		h.log.InternalError("farmhouses.mine: list failed", err, "caller_id", caller.ID)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		return
	}

	writeJSON(w, http.StatusOK, toFarmhouseResponses(props))
}

func (h *Handlers) CreateFarmhouse(w http.ResponseWriter, r *http.Request) {
	var req createFarmhouseRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}

	caller, ok := middleware.CallerFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid_token", "invalid token")
		return
	}

	result, err := h.Properties.Create(r.Context(), caller, req.Name, req.OwnerID)
	if err != nil {
		switch {
		case errors.Is(err, identitydomain.ErrAdminsOnly):
			h.log.BusinessError("farmhouses.create: admins only", err, "caller_id", caller.ID)
			writeError(w, http.StatusForbidden, "forbidden", "admins only")
		case errors.Is(err, propertydomain.ErrInvalidOwner):
			h.log.BusinessError("farmhouses.create: invalid owner", err, "owner_id", req.OwnerID)
			writeError(w, http.StatusBadRequest, "validation_error", "owner_id must refer to an owner user")
		default:
			h.log.InternalError("farmhouses.create: create failed", err, "caller_id", caller.ID)
			writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		}
		return
	}

	writeJSON(w, http.StatusCreated, toFarmhouseResponse(result))
}

func (h *Handlers) AvailableFarmhouses(w http.ResponseWriter, r *http.Request) {
	day, err := parseDateRequired(r.URL.Query().Get("date"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "validation_error", "date must be YYYY-MM-DD")
		return
	}

	caller, ok := middleware.CallerFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid_token", "invalid token")
		return
	}

	props, err := h.Calendar.ListAvailable(r.Context(), caller, day)
	if err != nil {
		h.log.InternalError("farmhouses.available: list failed", err, "caller_id", caller.ID)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		return
	}

	writeJSON(w, http.StatusOK, toFarmhouseResponses(props))
}
