package httpx

import (
	"context"
	"log/slog"
	"net/http"
	"runtime/debug"
	"time"

	"github.com/google/uuid"
)

type contextKey int

const loggerContextKey contextKey = iota

// requestLogger returns the logger the Logging middleware scoped to this
// request, or nil outside the middleware.
func requestLogger(ctx context.Context) *slog.Logger {
	l, _ := ctx.Value(loggerContextKey).(*slog.Logger)
	return l
}

// Logging returns a middleware that logs HTTP requests and responses. A
// correlation id is assigned when the request arrives, echoed in the
// X-Request-Id header, and carried by the request-scoped logger so handler
// lines and the completion line share it.
func Logging(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			requestID := uuid.NewString()
			reqLogger := logger.With(slog.String("request_id", requestID))

			w.Header().Set("X-Request-Id", requestID)
			const defaultHTTPStatus = 200
			ww := &respWriter{ResponseWriter: w, status: defaultHTTPStatus}
			r = r.WithContext(context.WithValue(r.Context(), loggerContextKey, reqLogger))

			next.ServeHTTP(ww, r)
			reqLogger.Info("http",
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
				slog.Int("status", ww.status),
				slog.Duration("duration", time.Since(start)),
			)
		})
	}
}

type respWriter struct {
	http.ResponseWriter
	status int
}

func (w *respWriter) WriteHeader(status int) {
	w.status = status
	w.ResponseWriter.WriteHeader(status)
}

// Recover returns a middleware that recovers from panics and logs them.
func Recover(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if err := recover(); err != nil {
					logger.Error("panic",
						slog.Any("error", err),
						slog.String("path", r.URL.Path),
						slog.String("method", r.Method),
						slog.String("stack", string(debug.Stack())))
					http.Error(w, "Internal Server Error", http.StatusInternalServerError)
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}
