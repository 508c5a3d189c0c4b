package middlewares

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/Mrudul2k/yeet-magic-scanner/internal/model"
	"github.com/Mrudul2k/yeet-magic-scanner/internal/utils/logger"
)

// Logging tags every request with a generated ID, puts a scoped logger
// into the request context and logs the request once handled.
func Logging(log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		logFunc := func(w http.ResponseWriter, r *http.Request) {
			requestID := uuid.NewString()
			reqLog := log.With(slog.String("request_id", requestID))

			ctx := context.WithValue(
				r.Context(), model.KeyContextRequestID, requestID)
			ctx = logger.WithContext(ctx, reqLog)

			start := time.Now()
			next.ServeHTTP(w, r.WithContext(ctx))

			reqLog.LogAttrs(ctx,
				slog.LevelInfo,
				"request handled",
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
				slog.Duration("duration", time.Since(start)),
			)
		}
		return http.HandlerFunc(logFunc)
	}
}
