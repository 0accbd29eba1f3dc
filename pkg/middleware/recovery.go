package middleware

import (
	"log/slog"
	"net/http"
	"runtime/debug"

	"github.com/okoshku/catalog-service/pkg/httputil"
	"github.com/okoshku/catalog-service/pkg/logger"
)

// Recovery turns panics into the standard 500 error body instead of letting
// them tear down the connection. It prefers the request-scoped logger when
// one is already in context.
func Recovery(l *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rec := recover(); rec != nil {
					ctxLogger := logger.FromContext(r.Context())
					if ctxLogger == slog.Default() {
						ctxLogger = l
					}
					ctxLogger.ErrorContext(r.Context(), "panic recovered",
						slog.Any("panic", rec),
						slog.String("stack", string(debug.Stack())),
						slog.String("method", r.Method),
						slog.String("path", r.URL.Path),
					)

					httputil.WriteJSON(w, http.StatusInternalServerError, httputil.ErrorBody{
						Code:      "INTERNAL_ERROR",
						Message:   "an internal error occurred",
						RequestID: logger.CorrelationIDFromContext(r.Context()),
					})
				}
			}()

			next.ServeHTTP(w, r)
		})
	}
}
