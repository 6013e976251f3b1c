package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"pony-express/pkg/apierror"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError is the single place an error becomes an HTTP response. Every
// handler and the auth gate report failures through the apierror kinds; an
// error that is not one of those is a server bug and maps to a generic 500.
func writeError(w http.ResponseWriter, err error) {
	var apiErr *apierror.APIError
	if !errors.As(err, &apiErr) {
		slog.Error("unhandled error in writeError", "error", err.Error())
		apiErr = apierror.New(http.StatusInternalServerError, "internal_server_error", "Unexpected server error")
	}

	writeJSON(w, apiErr.Status, apiErr)
}

func noContent(w http.ResponseWriter) {
	w.WriteHeader(http.StatusNoContent)
}

// idParam parses a numeric URL parameter. An unparsable value reads the same
// as an id that is not on record.
func idParam(r *http.Request, name string, entity string) (int64, error) {
	raw := chi.URLParam(r, name)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, apierror.New(http.StatusNotFound, "entity_not_found",
			fmt.Sprintf("Unable to find %s with id=%s", entity, raw))
	}
	return id, nil
}
