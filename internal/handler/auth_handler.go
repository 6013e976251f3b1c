package handler

import (
	"net/http"

	"pony-express/internal/model"
	"pony-express/internal/service"
	"pony-express/pkg/apierror"
)

type AuthHandler struct {
	auth         *service.AuthService
	accounts     *service.AccountService
	secureCookie bool
}

func NewAuthHandler(auth *service.AuthService, accounts *service.AccountService, secureCookie bool) *AuthHandler {
	return &AuthHandler{auth: auth, accounts: accounts, secureCookie: secureCookie}
}

// Register creates an account from a urlencoded form and returns its public
// identity. Duplicate username or email yields 422 naming the field.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		writeError(w, apierror.New(http.StatusBadRequest, "invalid_request", "Malformed form body"))
		return
	}

	account, err := h.accounts.Register(r.Context(),
		r.PostFormValue("username"),
		r.PostFormValue("email"),
		r.PostFormValue("password"))
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, account.Response())
}

// Token is the token-exchange flow: credentials in, bearer token out.
func (h *AuthHandler) Token(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		writeError(w, apierror.New(http.StatusBadRequest, "invalid_request", "Malformed form body"))
		return
	}

	token, err := h.auth.Login(r.Context(), r.PostFormValue("username"), r.PostFormValue("password"))
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, model.TokenResponse{AccessToken: token, TokenType: "bearer"})
}

// WebLogin is the cookie flow: same credential check as Token, but the token
// travels back as a cookie and the body stays empty.
func (h *AuthHandler) WebLogin(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		writeError(w, apierror.New(http.StatusBadRequest, "invalid_request", "Malformed form body"))
		return
	}

	token, err := h.auth.Login(r.Context(), r.PostFormValue("username"), r.PostFormValue("password"))
	if err != nil {
		writeError(w, err)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     service.TokenCookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: h.secureCookie,
	})
	noContent(w)
}

// WebLogout clears the cookie carrier. The route is gated, so reaching this
// handler implies the caller presented a valid token; a bearer token itself
// remains valid until expiry.
func (h *AuthHandler) WebLogout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     service.TokenCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: h.secureCookie,
	})
	noContent(w)
}
