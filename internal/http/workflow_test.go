package httpx

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/membershield/membershield/internal/adapters/discord"
	"github.com/membershield/membershield/internal/adapters/replay"
	"github.com/membershield/membershield/internal/domain/account"
	verifymocks "github.com/membershield/membershield/internal/mocks/verify"
	"github.com/membershield/membershield/internal/service"
)

// stubProvider simulates the Discord OAuth and REST endpoints for the full
// verify → callback → cleanup workflow.
func stubProvider(t *testing.T) *httptest.Server {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("POST /oauth2/token", func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		if r.FormValue("code") != "ABC" {
			http.Error(w, `{"error":"invalid_grant"}`, http.StatusBadRequest)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"access_token":  "T1",
			"refresh_token": "R1",
			"token_type":    "Bearer",
		})
	})
	mux.HandleFunc("GET /users/@me", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer T1" {
			http.Error(w, `{"message":"401: Unauthorized"}`, http.StatusUnauthorized)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{"id": "U1", "username": "alice"})
	})
	mux.HandleFunc("PUT /guilds/guild-1/members/U1/roles/role-1", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestVerificationWorkflow_EndToEnd(t *testing.T) {
	provider := stubProvider(t)

	client, err := discord.NewClient(discord.ClientConfig{
		ClientID:     "client-1",
		ClientSecret: "secret-1",
		RedirectURL:  "http://localhost:8080/callback",
		Scopes:       []string{"identify", "guilds.join"},
		AuthURL:      provider.URL + "/oauth2/authorize",
		TokenURL:     provider.URL + "/oauth2/token",
		APIBase:      provider.URL,
		BotToken:     "bot-1",
	})
	require.NoError(t, err)

	accounts := verifymocks.NewMemoryAccountStore()
	svc := service.NewVerificationService(service.VerificationServiceOptions{
		AuthURLs:  client,
		Exchanger: client,
		Profiles:  client,
		Accounts:  accounts,
		Guard:     replay.NewMemoryGuard(time.Minute),
		Entitlements: service.NewEntitlementService(service.EntitlementServiceOptions{
			Groups: verifymocks.StaticGroupConfigs{Configs: map[string]account.GroupConfig{
				"G1": {GroupID: "G1", GuildID: "guild-1", RoleID: "role-1"},
			}},
			Client: client,
		}),
	})
	router := NewRouter(RouterServices{Verify: svc})

	// Step 1: the verify redirect carries the group as state.
	req := httptest.NewRequest(http.MethodGet, "/verify?group=G1", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusFound, rec.Code)
	location := rec.Header().Get("Location")
	assert.Contains(t, location, "state=G1")
	assert.Contains(t, location, "client_id=client-1")

	// Step 2: the callback exchanges the code and persists the link.
	req = httptest.NewRequest(http.MethodGet, "/callback?code=ABC&state=G1", nil)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "alice")

	acc, err := accounts.Get(context.Background(), "U1")
	require.NoError(t, err)
	require.NotNil(t, acc)
	assert.Equal(t, "alice", acc.Username)
	assert.Equal(t, []string{"G1"}, acc.GroupIDs)
	assert.Equal(t, "T1", acc.AccessToken)

	// Step 3: replaying the same code is rejected while it is held.
	req = httptest.NewRequest(http.MethodGet, "/callback?code=ABC&state=G1", nil)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusTooManyRequests, rec.Code)

	// Step 4: the revocation notification removes the record.
	req = httptest.NewRequest(http.MethodPost, "/cleanup-user", strings.NewReader(`{"user_id":"U1"}`))
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusNoContent, rec.Code)
	acc, err = accounts.Get(context.Background(), "U1")
	require.NoError(t, err)
	assert.Nil(t, acc)
}

func TestVerificationWorkflow_ProviderRejectsCode(t *testing.T) {
	provider := stubProvider(t)

	client, err := discord.NewClient(discord.ClientConfig{
		ClientID:     "client-1",
		ClientSecret: "secret-1",
		RedirectURL:  "http://localhost:8080/callback",
		AuthURL:      provider.URL + "/oauth2/authorize",
		TokenURL:     provider.URL + "/oauth2/token",
		APIBase:      provider.URL,
	})
	require.NoError(t, err)

	accounts := verifymocks.NewMemoryAccountStore()
	svc := service.NewVerificationService(service.VerificationServiceOptions{
		AuthURLs:  client,
		Exchanger: client,
		Profiles:  client,
		Accounts:  accounts,
		Guard:     replay.NewMemoryGuard(time.Minute),
		Entitlements: service.NewEntitlementService(service.EntitlementServiceOptions{
			Groups: verifymocks.StaticGroupConfigs{},
			Client: client,
		}),
	})
	router := NewRouter(RouterServices{Verify: svc})

	req := httptest.NewRequest(http.MethodGet, "/callback?code=WRONG&state=G1", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "Verification failed")
	assert.Zero(t, accounts.Len(), "nothing is persisted when the exchange fails")
}
