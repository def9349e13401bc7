package httpx

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/membershield/membershield/internal/service"
)

// stubVerificationService is a configurable test double for the handlers.
type stubVerificationService struct {
	beginFunc    func(groupID string) (string, error)
	completeFunc func(ctx context.Context, code, groupID string) (*service.VerificationResult, error)
	cleanupFunc  func(ctx context.Context, userID string) error
}

func (s *stubVerificationService) BeginVerification(groupID string) (string, error) {
	if s.beginFunc != nil {
		return s.beginFunc(groupID)
	}
	return "https://idp.example/authorize?state=" + groupID, nil
}

func (s *stubVerificationService) CompleteVerification(ctx context.Context, code, groupID string) (*service.VerificationResult, error) {
	if s.completeFunc != nil {
		return s.completeFunc(ctx, code, groupID)
	}
	return &service.VerificationResult{DisplayName: "alice"}, nil
}

func (s *stubVerificationService) CleanupUser(ctx context.Context, userID string) error {
	if s.cleanupFunc != nil {
		return s.cleanupFunc(ctx, userID)
	}
	return nil
}

func newTestRouter(svc VerificationServiceInterface) http.Handler {
	return NewRouter(RouterServices{Verify: svc})
}

func TestVerify_RedirectsWithState(t *testing.T) {
	router := newTestRouter(&stubVerificationService{})

	req := httptest.NewRequest(http.MethodGet, "/verify?group=G1", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "https://idp.example/authorize?state=G1", rec.Header().Get("Location"))
}

func TestVerify_MissingGroupNeverRedirects(t *testing.T) {
	router := newTestRouter(&stubVerificationService{})

	req := httptest.NewRequest(http.MethodGet, "/verify", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, rec.Header().Get("Location"))
	assert.Contains(t, rec.Body.String(), "Missing group parameter")
}

func TestCallback_Success(t *testing.T) {
	router := newTestRouter(&stubVerificationService{})

	req := httptest.NewRequest(http.MethodGet, "/callback?code=ABC&state=G1", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "alice")
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/html")
}

func TestCallback_ErrorMapping(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantBody   string
	}{
		{
			name:       "missing code",
			err:        service.ErrMissingCode,
			wantStatus: http.StatusBadRequest,
			wantBody:   "No authorization code provided.",
		},
		{
			name:       "duplicate code",
			err:        service.ErrDuplicateCode,
			wantStatus: http.StatusTooManyRequests,
			wantBody:   "already being processed",
		},
		{
			name:       "exchange failure",
			err:        service.ErrExchangeFailed,
			wantStatus: http.StatusInternalServerError,
			wantBody:   "Verification failed. Please try again.",
		},
		{
			name:       "store failure",
			err:        service.ErrStoreUnavailable,
			wantStatus: http.StatusInternalServerError,
			wantBody:   "Verification failed. Please try again.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &stubVerificationService{
				completeFunc: func(context.Context, string, string) (*service.VerificationResult, error) {
					return nil, tt.err
				},
			}
			router := newTestRouter(svc)

			req := httptest.NewRequest(http.MethodGet, "/callback?code=x&state=G1", nil)
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Contains(t, rec.Body.String(), tt.wantBody)
		})
	}
}

func TestCallback_DoesNotLeakInternalDetail(t *testing.T) {
	svc := &stubVerificationService{
		completeFunc: func(context.Context, string, string) (*service.VerificationResult, error) {
			return nil, errors.Join(service.ErrExchangeFailed, errors.New(`{"error":"invalid_client","secret":"hunter2"}`))
		},
	}
	router := newTestRouter(svc)

	req := httptest.NewRequest(http.MethodGet, "/callback?code=x&state=G1", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotContains(t, rec.Body.String(), "hunter2")
	assert.NotContains(t, rec.Body.String(), "invalid_client")
}

func TestCleanupUser_Success(t *testing.T) {
	var deleted string
	svc := &stubVerificationService{
		cleanupFunc: func(_ context.Context, userID string) error {
			deleted = userID
			return nil
		},
	}
	router := newTestRouter(svc)

	req := httptest.NewRequest(http.MethodPost, "/cleanup-user", strings.NewReader(`{"user_id":"U1"}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "U1", deleted)
	assert.Empty(t, rec.Body.String())
}

func TestCleanupUser_PayloadWithExtraFields(t *testing.T) {
	var deleted string
	svc := &stubVerificationService{
		cleanupFunc: func(_ context.Context, userID string) error {
			deleted = userID
			return nil
		},
	}
	router := newTestRouter(svc)

	// Deauthorization notifications carry more than the user id; the extra
	// fields must not turn an acknowledgement into a retry loop.
	body := `{"user_id":"U1","reason":"deauthorized","signed_at":"2026-08-28T10:00:00Z"}`
	req := httptest.NewRequest(http.MethodPost, "/cleanup-user", strings.NewReader(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "U1", deleted)
}

func TestCleanupUser_MissingUserID(t *testing.T) {
	router := newTestRouter(&stubVerificationService{})

	req := httptest.NewRequest(http.MethodPost, "/cleanup-user", strings.NewReader(`{}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCleanupUser_MalformedBody(t *testing.T) {
	router := newTestRouter(&stubVerificationService{})

	req := httptest.NewRequest(http.MethodPost, "/cleanup-user", strings.NewReader(`not json`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCleanupUser_StoreFailure(t *testing.T) {
	svc := &stubVerificationService{
		cleanupFunc: func(context.Context, string) error {
			return service.ErrStoreUnavailable
		},
	}
	router := newTestRouter(svc)

	req := httptest.NewRequest(http.MethodPost, "/cleanup-user", strings.NewReader(`{"user_id":"U1"}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestStatusEndpoints(t *testing.T) {
	router := newTestRouter(&stubVerificationService{})

	for _, path := range []string{"/", "/healthz"} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code, path)
		assert.Contains(t, rec.Body.String(), `"status":"ok"`)
	}
}
