package httpx

// Package httpx provides the HTTP surface of the verification service.

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/membershield/membershield/internal/service"
)

// VerificationServiceInterface defines the service operations the handlers use.
type VerificationServiceInterface interface {
	BeginVerification(groupID string) (string, error)
	CompleteVerification(ctx context.Context, code, groupID string) (*service.VerificationResult, error)
	CleanupUser(ctx context.Context, userID string) error
}

// VerifyHandlers provides HTTP handlers for the verification flow.
type VerifyHandlers struct {
	Svc    VerificationServiceInterface
	Logger *slog.Logger
}

// logger prefers the request-scoped logger so handler lines carry the
// request id assigned by the logging middleware.
func (h *VerifyHandlers) logger(ctx context.Context) *slog.Logger {
	if l := requestLogger(ctx); l != nil {
		return l
	}
	if h != nil && h.Logger != nil {
		return h.Logger
	}
	return slog.Default()
}

// Verify redirects the user to the provider consent screen.
// GET /verify?group=<id>.
func (h *VerifyHandlers) Verify(w http.ResponseWriter, r *http.Request) {
	groupID := r.URL.Query().Get("group")
	if groupID == "" {
		// Visible error, no redirect: without a group there is nothing to
		// route the callback to.
		writePlainError(w, http.StatusOK, "Missing group parameter. Use the verification link for your group.")
		return
	}

	authURL, err := h.Svc.BeginVerification(groupID)
	if err != nil {
		writePlainError(w, http.StatusOK, "Unable to start verification. Please try again.")
		return
	}

	http.Redirect(w, r, authURL, http.StatusFound)
}

// Callback completes the verification flow after the provider redirect.
// GET /callback?code=<code>&state=<group>.
func (h *VerifyHandlers) Callback(w http.ResponseWriter, r *http.Request) {
	code := r.URL.Query().Get("code")
	groupID := r.URL.Query().Get("state")

	result, err := h.Svc.CompleteVerification(r.Context(), code, groupID)
	if err != nil {
		h.writeCallbackError(w, r, err)
		return
	}

	writeSuccessPage(w, h.logger(r.Context()), result.DisplayName)
}

// writeCallbackError maps pipeline errors to user-facing responses. Bodies
// are intentionally generic; the cause goes to the operational log only.
func (h *VerifyHandlers) writeCallbackError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, service.ErrMissingCode):
		writePlainError(w, http.StatusBadRequest, "No authorization code provided.")
	case errors.Is(err, service.ErrDuplicateCode):
		h.logger(r.Context()).WarnContext(r.Context(), "duplicate authorization code", "error", err)
		writePlainError(w, http.StatusTooManyRequests, "This verification is already being processed. Please wait a moment.")
	default:
		h.logger(r.Context()).ErrorContext(r.Context(), "verification failed", "error", err)
		writePlainError(w, http.StatusInternalServerError, "Verification failed. Please try again.")
	}
}

// cleanupRequest is the provider deauthorization notification payload.
type cleanupRequest struct {
	UserID string `json:"user_id"`
}

// CleanupUser handles provider-initiated deauthorization notifications.
// POST /cleanup-user.
func (h *VerifyHandlers) CleanupUser(w http.ResponseWriter, r *http.Request) {
	var req cleanupRequest
	if !DecodeNotification(w, r, &req) {
		return
	}
	if req.UserID == "" {
		WriteError(w, ErrorParams{
			Code:    http.StatusBadRequest,
			ErrCode: "missing_user_id",
			Err:     errors.New("user_id is required"),
		})
		return
	}

	if err := h.Svc.CleanupUser(r.Context(), req.UserID); err != nil {
		h.logger(r.Context()).ErrorContext(r.Context(), "cleanup user failed", "user_id", req.UserID, "error", err)
		WriteError(w, ErrorParams{
			Code:    http.StatusInternalServerError,
			ErrCode: "cleanup_failed",
			Err:     errors.New("cleanup failed"),
		})
		return
	}

	// Always acknowledge with no content so the notifier does not retry;
	// a record that was already gone is still a success.
	w.WriteHeader(http.StatusNoContent)
}
