package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"pony-express/internal/model"
	"pony-express/internal/service"
	"pony-express/pkg/apierror"
)

type fakeResolver struct {
	account   model.Account
	err       error
	lastToken string
}

func (f *fakeResolver) ResolveAccount(_ context.Context, token string) (model.Account, error) {
	f.lastToken = token
	if f.err != nil {
		return model.Account{}, f.err
	}
	return f.account, nil
}

func runGate(t *testing.T, resolver *fakeResolver, mutate func(*http.Request)) (*httptest.ResponseRecorder, model.Account, bool) {
	t.Helper()

	var seen model.Account
	var seenOK bool
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen, seenOK = AccountFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	})

	r := httptest.NewRequest(http.MethodGet, "/accounts/me", nil)
	if mutate != nil {
		mutate(r)
	}
	w := httptest.NewRecorder()
	NewAuthMiddleware(resolver).RequireAuth(next).ServeHTTP(w, r)
	return w, seen, seenOK
}

func decodeErrorBody(t *testing.T, w *httptest.ResponseRecorder) map[string]string {
	t.Helper()
	var body map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func TestRequireAuthMissingToken(t *testing.T) {
	w, _, _ := runGate(t, &fakeResolver{}, nil)

	require.Equal(t, http.StatusForbidden, w.Code)
	require.Equal(t, map[string]string{
		"error":   "authentication_required",
		"message": "Not authenticated",
	}, decodeErrorBody(t, w))
}

func TestRequireAuthBearerToken(t *testing.T) {
	resolver := &fakeResolver{account: model.Account{ID: 7, Username: "juniper"}}
	w, seen, ok := runGate(t, resolver, func(r *http.Request) {
		r.Header.Set("Authorization", "Bearer token-abc")
	})

	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "token-abc", resolver.lastToken)
	require.True(t, ok)
	require.Equal(t, int64(7), seen.ID)
}

func TestRequireAuthCookieToken(t *testing.T) {
	resolver := &fakeResolver{account: model.Account{ID: 7}}
	w, _, _ := runGate(t, resolver, func(r *http.Request) {
		r.AddCookie(&http.Cookie{Name: service.TokenCookieName, Value: "token-cookie"})
	})

	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "token-cookie", resolver.lastToken)
}

func TestRequireAuthPrefersCookieOverBearer(t *testing.T) {
	resolver := &fakeResolver{account: model.Account{ID: 7}}
	_, _, _ = runGate(t, resolver, func(r *http.Request) {
		r.AddCookie(&http.Cookie{Name: service.TokenCookieName, Value: "token-cookie"})
		r.Header.Set("Authorization", "Bearer token-header")
	})

	require.Equal(t, "token-cookie", resolver.lastToken)
}

func TestRequireAuthResolverError(t *testing.T) {
	resolver := &fakeResolver{err: apierror.ExpiredAccessToken()}
	w, _, _ := runGate(t, resolver, func(r *http.Request) {
		r.Header.Set("Authorization", "Bearer token-abc")
	})

	require.Equal(t, http.StatusForbidden, w.Code)
	require.Equal(t, map[string]string{
		"error":   "expired_access_token",
		"message": "Authentication failed: expired access token",
	}, decodeErrorBody(t, w))
}

func TestRequireAuthEmptyBearer(t *testing.T) {
	w, _, _ := runGate(t, &fakeResolver{}, func(r *http.Request) {
		r.Header.Set("Authorization", "Bearer ")
	})

	require.Equal(t, http.StatusForbidden, w.Code)
	require.Equal(t, "authentication_required", decodeErrorBody(t, w)["error"])
}
