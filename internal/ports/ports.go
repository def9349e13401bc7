package ports

// Package ports defines interfaces (hexagonal ports) for the verification
// pipeline. Implementations live in internal/adapters and internal/data;
// orchestration in internal/service.

import (
	"context"

	"github.com/membershield/membershield/internal/domain/account"
)

// AuthURLBuilder builds the provider authorization URL for a verification
// attempt. The state value round-trips through the provider unmodified.
type AuthURLBuilder interface {
	AuthCodeURL(state string) string
}

// TokenExchanger redeems a provider-issued authorization code for tokens.
type TokenExchanger interface {
	Exchange(ctx context.Context, code string) (account.TokenPair, error)
}

// ProfileFetcher retrieves the remote account identity behind an access token.
type ProfileFetcher interface {
	Fetch(ctx context.Context, accessToken string) (account.Profile, error)
}

// EntitlementClient performs the privileged provider call that grants an
// entitlement (a guild role) to a remote account. Authenticated with the
// service's own credential, not the user's token.
type EntitlementClient interface {
	GrantRole(ctx context.Context, guildID, userID, roleID string) error
}

// UpsertParams groups the fields written by AccountRepository.Upsert.
type UpsertParams struct {
	UserID       string
	AccessToken  string
	RefreshToken string
	Username     string
	GroupID      string
}

// AccountRepository persists linked accounts keyed by remote account id.
type AccountRepository interface {
	// Upsert creates the record if absent, otherwise refreshes tokens and
	// username and adds GroupID to the group set. The group set is always
	// the union under concurrent upserts, never overwritten wholesale.
	Upsert(ctx context.Context, params UpsertParams) (*account.Account, error)

	// Get retrieves an account by remote account id; nil when absent.
	Get(ctx context.Context, userID string) (*account.Account, error)

	// Delete removes the record entirely. Absence is not an error.
	Delete(ctx context.Context, userID string) error
}

// GroupConfigRepository reads per-group entitlement configuration.
// Configuration is owned by an external administrative surface; the
// verification pipeline only reads it.
type GroupConfigRepository interface {
	// Get retrieves the configuration for a group; nil when absent.
	Get(ctx context.Context, groupID string) (*account.GroupConfig, error)
}

// ReplayGuard tracks authorization codes that are currently being processed
// so a code is redeemed at most once per hold window.
type ReplayGuard interface {
	// Acquire marks the code in flight. It returns false when the code is
	// already being (or was recently) processed.
	Acquire(ctx context.Context, code string) (bool, error)

	// Release schedules eviction of the code a fixed delay after the
	// pipeline finishes, independent of outcome.
	Release(ctx context.Context, code string)
}
