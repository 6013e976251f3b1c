package handler

import (
	"encoding/json"
	"net/http"

	"pony-express/internal/middleware"
	"pony-express/internal/model"
	"pony-express/internal/service"
	"pony-express/pkg/apierror"
)

type AccountHandler struct {
	accounts *service.AccountService
}

func NewAccountHandler(accounts *service.AccountService) *AccountHandler {
	return &AccountHandler{accounts: accounts}
}

func (h *AccountHandler) List(w http.ResponseWriter, r *http.Request) {
	accounts, err := h.accounts.List(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	public := make([]model.PublicAccount, 0, len(accounts))
	for _, a := range accounts {
		public = append(public, a.Public())
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"metadata": model.Metadata{Count: len(public)},
		"accounts": public,
	})
}

func (h *AccountHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "account_id", "account")
	if err != nil {
		writeError(w, err)
		return
	}

	account, err := h.accounts.GetByID(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, account.Public())
}

// Me returns the authenticated account's own data, email included.
func (h *AccountHandler) Me(w http.ResponseWriter, r *http.Request) {
	account, ok := middleware.AccountFromContext(r.Context())
	if !ok {
		writeError(w, apierror.TokenNotProvided())
		return
	}

	writeJSON(w, http.StatusOK, account.Response())
}

func (h *AccountHandler) UpdateMe(w http.ResponseWriter, r *http.Request) {
	account, ok := middleware.AccountFromContext(r.Context())
	if !ok {
		writeError(w, apierror.TokenNotProvided())
		return
	}

	defer r.Body.Close()
	var payload model.UpdateAccountRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, apierror.New(http.StatusBadRequest, "invalid_request", "Malformed JSON body"))
		return
	}

	updated, err := h.accounts.UpdateDetails(r.Context(), account, payload.Username, payload.Email)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, updated.Response())
}

func (h *AccountHandler) UpdatePassword(w http.ResponseWriter, r *http.Request) {
	account, ok := middleware.AccountFromContext(r.Context())
	if !ok {
		writeError(w, apierror.TokenNotProvided())
		return
	}

	if err := r.ParseForm(); err != nil {
		writeError(w, apierror.New(http.StatusBadRequest, "invalid_request", "Malformed form body"))
		return
	}

	err := h.accounts.UpdatePassword(r.Context(), account,
		r.PostFormValue("old_password"),
		r.PostFormValue("new_password"))
	if err != nil {
		writeError(w, err)
		return
	}

	noContent(w)
}

func (h *AccountHandler) DeleteMe(w http.ResponseWriter, r *http.Request) {
	account, ok := middleware.AccountFromContext(r.Context())
	if !ok {
		writeError(w, apierror.TokenNotProvided())
		return
	}

	if err := h.accounts.Delete(r.Context(), account); err != nil {
		writeError(w, err)
		return
	}

	noContent(w)
}
