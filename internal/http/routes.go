package httpx

import (
	"log/slog"
	"net/http"
)

// RouterServices holds the services needed by the HTTP router.
type RouterServices struct {
	Verify VerificationServiceInterface
	Logger *slog.Logger // Logger for handlers (optional)
}

// NewRouter creates and configures the HTTP router.
func NewRouter(services RouterServices) http.Handler {
	mux := http.NewServeMux()

	verifyHandlers := &VerifyHandlers{Svc: services.Verify, Logger: services.Logger}

	mux.Handle("GET /verify", http.HandlerFunc(verifyHandlers.Verify))
	mux.Handle("GET /callback", http.HandlerFunc(verifyHandlers.Callback))
	mux.Handle("POST /cleanup-user", http.HandlerFunc(verifyHandlers.CleanupUser))

	mux.Handle("GET /healthz", http.HandlerFunc(statusHandler))
	mux.Handle("HEAD /healthz", http.HandlerFunc(statusHandler))
	mux.Handle("GET /{$}", http.HandlerFunc(statusHandler))

	return mux
}
