package handler

import (
	"errors"
	"net/http"
	"strings"

	identitydomain "farmbooking-go/internal/domain/identity"
	"farmbooking-go/internal/transport/httpserver/middleware"
)

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	Role        string `json:"role"`
	Email       string `json:"email"`
	Username    string `json:"username"`
}

type meResponse struct {
	ID       string  `json:"id"`
	Username string  `json:"username"`
	Email    *string `json:"email"`
	Role     string  `json:"role"`
}

// Login accepts JSON or an OAuth2-style password form and trades valid
// credentials for an access token.
func (h *Handlers) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	contentType := r.Header.Get("Content-Type")
	if strings.HasPrefix(contentType, "application/json") {
		if err := decodeJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
			return
		}
	} else {
		if err := r.ParseForm(); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_request", "invalid form body")
			return
		}
		req.Username = r.PostFormValue("username")
		req.Password = r.PostFormValue("password")
	}

	ident, err := h.Identity.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, identitydomain.ErrAccountDisabled):
			h.log.BusinessError("auth.login: account disabled", err, "login", req.Username)
			writeError(w, http.StatusForbidden, "account_disabled", "account disabled")
		case errors.Is(err, identitydomain.ErrInvalidCredentials):
			h.log.BusinessError("auth.login: invalid credentials", err, "login", req.Username)
			writeError(w, http.StatusUnauthorized, "invalid_credentials", "invalid credentials")
		default:
			h.log.InternalError("auth.login: login failed", err, "login", req.Username)
			writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		}
		return
	}

	token, err := h.tokens.GenerateToken(ident.ID, string(ident.Role))
	if err != nil {
		h.log.InternalError("auth.login: token generation failed", err, "identity_id", ident.ID)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		return
	}

	email := ident.Username
	if ident.Email != nil {
		email = *ident.Email
	}
	writeJSON(w, http.StatusOK, tokenResponse{
		AccessToken: token,
		TokenType:   "bearer",
		Role:        string(ident.Role),
		Email:       email,
		Username:    ident.Username,
	})
}

func (h *Handlers) Me(w http.ResponseWriter, r *http.Request) {
	ident, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid_token", "invalid token")
		return
	}

	writeJSON(w, http.StatusOK, meResponse{
		ID:       ident.ID,
		Username: ident.Username,
		Email:    ident.Email,
		Role:     string(ident.Role),
	})
}
