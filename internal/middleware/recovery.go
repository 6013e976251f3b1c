package middleware

import (
	"fmt"
	"log/slog"
	"net/http"
	"runtime/debug"

	"pony-express/pkg/apierror"
)

func Recovery(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if recovered := recover(); recovered != nil {
				slog.Error("panic recovered", "error", fmt.Sprintf("%v", recovered), "stack", string(debug.Stack()))
				writeAPIError(w, apierror.New(http.StatusInternalServerError, "internal_server_error", "Unexpected server error"))
			}
		}()

		next.ServeHTTP(w, r)
	})
}
