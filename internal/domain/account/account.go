package account

// Package account contains the core domain types for linked Discord accounts
// and per-group entitlement configuration.

import (
	"slices"
	"time"
)

// Account is a persisted link between the service and a remote Discord account.
// UserID is the natural key; at most one record exists per remote account.
type Account struct {
	UserID       string    `json:"user_id"`
	AccessToken  string    `json:"-"`
	RefreshToken string    `json:"-"`
	Username     string    `json:"username"`
	GroupIDs     []string  `json:"group_ids"`
	VerifiedAt   time.Time `json:"verified_at"`
}

// HasGroup reports whether the account has verified into the given group.
func (a Account) HasGroup(groupID string) bool {
	return slices.Contains(a.GroupIDs, groupID)
}

// GroupConfig is the administrative configuration for a single group.
// RoleID is optional; when empty no entitlement is granted for the group.
type GroupConfig struct {
	GroupID string `json:"group_id"`
	GuildID string `json:"guild_id"`
	RoleID  string `json:"role_id"`
}

// Entitled reports whether the group has an entitlement target configured.
func (g GroupConfig) Entitled() bool {
	return g.GuildID != "" && g.RoleID != ""
}

// TokenPair is the credential pair returned by the provider's token endpoint.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
}

// Profile is the public identity of a remote Discord account.
type Profile struct {
	UserID      string
	Username    string
	DisplayName string
}

// Name returns the preferred human-readable name for the profile.
func (p Profile) Name() string {
	if p.DisplayName != "" {
		return p.DisplayName
	}
	return p.Username
}
