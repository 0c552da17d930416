package handler

import (
	"errors"
	"net/http"

	identitydomain "farmbooking-go/internal/domain/identity"
	"farmbooking-go/internal/transport/httpserver/middleware"
	"github.com/go-chi/chi/v5"
)

type onboardOwnerRequest struct {
	Username      string `json:"username"`
	Password      string `json:"password"`
	Email         string `json:"email"`
	Phone         string `json:"phone"`
	FarmhouseName string `json:"farmhouse_name"`
	Size          int    `json:"size"`
	Location      string `json:"location"`
}

type contactUpdateRequest struct {
	Email *string `json:"email"`
	Phone *string `json:"phone"`
}

type resetPasswordRequest struct {
	NewPassword string `json:"new_password"`
}

type setActiveRequest struct {
	Active bool `json:"active"`
}

type propertyBriefResponse struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Size     *int    `json:"size"`
	Location *string `json:"location"`
}

type ownerRowResponse struct {
	ID         string                  `json:"id"`
	Username   string                  `json:"username"`
	Email      *string                 `json:"email"`
	Phone      *string                 `json:"phone"`
	IsActive   bool                    `json:"is_active"`
	Farmhouses []propertyBriefResponse `json:"farmhouses"`
}

type pagedOwnersResponse struct {
	Items    []ownerRowResponse `json:"items"`
	Total    int64              `json:"total"`
	Page     int                `json:"page"`
	PageSize int                `json:"page_size"`
	Pages    int                `json:"pages"`
}

func (h *Handlers) ListOwners(w http.ResponseWriter, r *http.Request) {
	caller, ok := middleware.CallerFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid_token", "invalid token")
		return
	}

	page := parseIntParam(r.URL.Query().Get("page"), 1)
	pageSize := parseIntParam(r.URL.Query().Get("page_size"), 25)

	result, err := h.Identity.ListOwners(r.Context(), caller, page, pageSize)
	if err != nil {
		if errors.Is(err, identitydomain.ErrAdminsOnly) {
			h.log.BusinessError("admin.owners.list: admins only", err, "caller_id", caller.ID)
			writeError(w, http.StatusForbidden, "forbidden", "admins only")
			return
		}
		h.log.InternalError("admin.owners.list: list failed", err, "caller_id", caller.ID)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		return
	}

	items := make([]ownerRowResponse, 0, len(result.Items))
	for _, row := range result.Items {
		briefs := make([]propertyBriefResponse, 0, len(row.Properties))
		for _, p := range row.Properties {
			briefs = append(briefs, propertyBriefResponse{
				ID:       p.ID,
				Name:     p.Name,
				Size:     p.Size,
				Location: p.Location,
			})
		}
		items = append(items, ownerRowResponse{
			ID:         row.ID,
			Username:   row.Username,
			Email:      row.Email,
			Phone:      row.Phone,
			IsActive:   row.IsActive,
			Farmhouses: briefs,
		})
	}

	writeJSON(w, http.StatusOK, pagedOwnersResponse{
		Items:    items,
		Total:    result.Total,
		Page:     result.Page,
		PageSize: result.PageSize,
		Pages:    result.Pages,
	})
}

func (h *Handlers) OnboardOwner(w http.ResponseWriter, r *http.Request) {
	var req onboardOwnerRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}

	caller, ok := middleware.CallerFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid_token", "invalid token")
		return
	}

	result, err := h.Identity.OnboardOwner(r.Context(), caller, identitydomain.OnboardOwnerInput{
		Username:     req.Username,
		Password:     req.Password,
		Email:        req.Email,
		Phone:        req.Phone,
		PropertyName: req.FarmhouseName,
		Size:         req.Size,
		Location:     req.Location,
	})
	if err != nil {
		switch {
		case errors.Is(err, identitydomain.ErrAdminsOnly):
			h.log.BusinessError("admin.owners.create: admins only", err, "caller_id", caller.ID)
			writeError(w, http.StatusForbidden, "forbidden", "admins only")
		case errors.Is(err, identitydomain.ErrUserExists):
			h.log.BusinessError("admin.owners.create: user exists", err, "username", req.Username)
			writeError(w, http.StatusConflict, "conflict", "user already exists")
		case errors.Is(err, identitydomain.ErrInvalidPhone):
			h.log.BusinessError("admin.owners.create: invalid phone", err, "username", req.Username)
			writeError(w, http.StatusBadRequest, "validation_error", "enter a valid phone number (7-15 digits)")
		case errors.Is(err, identitydomain.ErrInvalidSize):
			h.log.BusinessError("admin.owners.create: invalid size", err, "username", req.Username)
			writeError(w, http.StatusBadRequest, "validation_error", "size must be a positive integer")
		default:
			h.log.InternalError("admin.owners.create: onboarding failed", err, "username", req.Username)
			writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		}
		return
	}

	writeJSON(w, http.StatusCreated, farmhouseResponse{
		ID:       result.ID,
		Name:     result.Name,
		OwnerID:  result.OwnerID,
		Size:     result.Size,
		Location: result.Location,
	})
}

func (h *Handlers) UpdateOwnerContact(w http.ResponseWriter, r *http.Request) {
	var req contactUpdateRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}

	caller, ok := middleware.CallerFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid_token", "invalid token")
		return
	}

	ownerID := chi.URLParam(r, "owner_id")
	err := h.Identity.UpdateContact(r.Context(), caller, ownerID, identitydomain.ContactUpdateInput{
		Email: req.Email,
		Phone: req.Phone,
	})
	if err != nil {
		switch {
		case errors.Is(err, identitydomain.ErrAdminsOnly):
			h.log.BusinessError("admin.owners.contact: admins only", err, "caller_id", caller.ID)
			writeError(w, http.StatusForbidden, "forbidden", "admins only")
		case errors.Is(err, identitydomain.ErrOwnerNotFound):
			h.log.BusinessError("admin.owners.contact: owner not found", err, "owner_id", ownerID)
			writeError(w, http.StatusNotFound, "not_found", "owner not found")
		case errors.Is(err, identitydomain.ErrNothingToUpdate):
			h.log.BusinessError("admin.owners.contact: nothing to update", err, "owner_id", ownerID)
			writeError(w, http.StatusBadRequest, "validation_error", "provide email and/or phone to update")
		case errors.Is(err, identitydomain.ErrEmailInUse):
			h.log.BusinessError("admin.owners.contact: email in use", err, "owner_id", ownerID)
			writeError(w, http.StatusConflict, "conflict", "email already in use")
		case errors.Is(err, identitydomain.ErrInvalidPhone):
			h.log.BusinessError("admin.owners.contact: invalid phone", err, "owner_id", ownerID)
			writeError(w, http.StatusBadRequest, "validation_error", "enter a valid phone number (7-15 digits)")
		default:
			h.log.InternalError("admin.owners.contact: update failed", err, "owner_id", ownerID)
			writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		}
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handlers) ResetOwnerPassword(w http.ResponseWriter, r *http.Request) {
	var req resetPasswordRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}

	caller, ok := middleware.CallerFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid_token", "invalid token")
		return
	}

	ownerID := chi.URLParam(r, "owner_id")
	if err := h.Identity.ResetPassword(r.Context(), caller, ownerID, req.NewPassword); err != nil {
		switch {
		case errors.Is(err, identitydomain.ErrAdminsOnly):
			h.log.BusinessError("admin.owners.reset_password: admins only", err, "caller_id", caller.ID)
			writeError(w, http.StatusForbidden, "forbidden", "admins only")
		case errors.Is(err, identitydomain.ErrOwnerNotFound):
			h.log.BusinessError("admin.owners.reset_password: owner not found", err, "owner_id", ownerID)
			writeError(w, http.StatusNotFound, "not_found", "owner not found")
		default:
			h.log.InternalError("admin.owners.reset_password: reset failed", err, "owner_id", ownerID)
			writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		}
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handlers) SetOwnerActive(w http.ResponseWriter, r *http.Request) {
	var req setActiveRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}

	caller, ok := middleware.CallerFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid_token", "invalid token")
		return
	}

	ownerID := chi.URLParam(r, "owner_id")
	if err := h.Identity.SetActive(r.Context(), caller, ownerID, req.Active); err != nil {
		switch {
		case errors.Is(err, identitydomain.ErrAdminsOnly):
			h.log.BusinessError("admin.owners.set_active: admins only", err, "caller_id", caller.ID)
			writeError(w, http.StatusForbidden, "forbidden", "admins only")
		case errors.Is(err, identitydomain.ErrOwnerNotFound):
			h.log.BusinessError("admin.owners.set_active: owner not found", err, "owner_id", ownerID)
			writeError(w, http.StatusNotFound, "not_found", "owner not found")
		default:
			h.log.InternalError("admin.owners.set_active: update failed", err, "owner_id", ownerID)
			writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		}
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
