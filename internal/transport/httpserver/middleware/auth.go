package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	identitydomain "farmbooking-go/internal/domain/identity"
	"farmbooking-go/pkg/logger"
)

// TokenVerifier validates a bearer token and returns the identity id and
// role claim.
type TokenVerifier interface {
	ValidateToken(token string) (string, string, error)
}

// IdentityResolver loads the identity named by a token subject.
type IdentityResolver interface {
	GetByID(ctx context.Context, id string) (*identitydomain.Identity, error)
}

type Auth struct {
	tokens     TokenVerifier
	identities IdentityResolver
	log        logger.Logger
}

func NewAuth(tokens TokenVerifier, identities IdentityResolver, log logger.Logger) *Auth {
	return &Auth{tokens: tokens, identities: identities, log: log}
}

// Middleware resolves the bearer token to an identity, enforces the active
// rule (admins are always active, disabled owners are refused everywhere)
// and injects the identity into the request context.
func (a *Auth) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, ok := bearerToken(r.Header.Get("Authorization"))
		if !ok {
			writeError(w, http.StatusUnauthorized, "invalid_token", "missing token")
			return
		}

		id, _, err := a.tokens.ValidateToken(token)
		if err != nil {
			writeError(w, http.StatusUnauthorized, "invalid_token", "invalid token")
			return
		}

		ident, err := a.identities.GetByID(r.Context(), id)
		if err != nil {
			a.log.Warn("auth: token subject not found", "identity_id", id, "err", err)
			writeError(w, http.StatusUnauthorized, "invalid_token", "user not found")
			return
		}

		if !ident.Active() {
			writeError(w, http.StatusForbidden, "account_disabled", "account disabled")
			return
		}

		next.ServeHTTP(w, r.WithContext(WithIdentity(r.Context(), ident)))
	})
}

type contextKey int

const identityKey contextKey = iota

func WithIdentity(ctx context.Context, ident *identitydomain.Identity) context.Context {
	return context.WithValue(ctx, identityKey, ident)
}

func IdentityFromContext(ctx context.Context) (*identitydomain.Identity, bool) {
	ident, ok := ctx.Value(identityKey).(*identitydomain.Identity)
	if !ok || ident == nil {
		return nil, false
	}
	return ident, true
}

func CallerFromContext(ctx context.Context) (identitydomain.Caller, bool) {
	ident, ok := IdentityFromContext(ctx)
	if !ok {
		return identitydomain.Caller{}, false
	}
	return identitydomain.Caller{ID: ident.ID, Role: ident.Role}, true
}

func bearerToken(value string) (string, bool) {
	parts := strings.Fields(value)
	if len(parts) != 2 {
		return "", false
	}
	if !strings.EqualFold(parts[0], "Bearer") {
		return "", false
	}
	return parts[1], true
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]interface{}{
		"error": map[string]string{
			"code":    code,
			"message": message,
		},
	})
}
