package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"pony-express/internal/model"
	"pony-express/internal/service"
	"pony-express/pkg/apierror"
)

type accountResolver interface {
	ResolveAccount(ctx context.Context, token string) (model.Account, error)
}

type contextKey string

const accountContextKey contextKey = "current_account"

type AuthMiddleware struct {
	resolver accountResolver
}

func NewAuthMiddleware(resolver accountResolver) *AuthMiddleware {
	return &AuthMiddleware{resolver: resolver}
}

// RequireAuth is the gate in front of every protected route: extract the
// token, resolve it to an account, and stash the account in the request
// context. It fails before any handler logic runs, so ownership and
// membership checks never see an unauthenticated request.
func (m *AuthMiddleware) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, ok := extractToken(r)
		if !ok {
			writeAPIError(w, apierror.TokenNotProvided())
			return
		}

		account, err := m.resolver.ResolveAccount(r.Context(), token)
		if err != nil {
			writeAPIError(w, err)
			return
		}

		ctx := context.WithValue(r.Context(), accountContextKey, account)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// extractToken prefers the cookie carrier over the Authorization header.
// Swapping this order would change which error a request with a bad cookie
// and a good bearer token reports, so it is fixed.
func extractToken(r *http.Request) (string, bool) {
	if cookie, err := r.Cookie(service.TokenCookieName); err == nil && cookie.Value != "" {
		return cookie.Value, true
	}

	header := strings.TrimSpace(r.Header.Get("Authorization"))
	if strings.HasPrefix(strings.ToLower(header), "bearer ") {
		if token := strings.TrimSpace(header[len("bearer "):]); token != "" {
			return token, true
		}
	}

	return "", false
}

// AccountFromContext returns the account the gate resolved for this request.
func AccountFromContext(ctx context.Context) (model.Account, bool) {
	account, ok := ctx.Value(accountContextKey).(model.Account)
	return account, ok
}

func writeAPIError(w http.ResponseWriter, err error) {
	var apiErr *apierror.APIError
	if !errors.As(err, &apiErr) {
		apiErr = apierror.New(http.StatusInternalServerError, "internal_server_error", "Unexpected server error")
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(apiErr.Status)
	_ = json.NewEncoder(w).Encode(apiErr)
}
