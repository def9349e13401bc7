package config

import (
	"strings"
	"time"
)

// Default Discord endpoints. Overridable for tests and API version pinning.
const (
	defaultAuthURL  = "https://discord.com/oauth2/authorize"
	defaultTokenURL = "https://discord.com/api/oauth2/token" //nolint:gosec // endpoint URL, not a credential
	defaultAPIBase  = "https://discord.com/api"
)

// DiscordConfig contains Discord OAuth and bot configuration.
type DiscordConfig struct {
	// ClientID and ClientSecret identify this application to Discord.
	ClientID     string `env:"CLIENT_ID"`
	ClientSecret string `env:"CLIENT_SECRET"`

	// RedirectURL is the registered OAuth callback URL.
	RedirectURL string `env:"REDIRECT_URL" envDefault:"http://localhost:8080/callback"`

	// Scope is the space-separated OAuth scope set requested on /verify.
	Scope string `env:"SCOPE" envDefault:"identify guilds.join"`

	// BotToken authenticates privileged management-API calls (role grants).
	// Distinct from any user token.
	BotToken string `env:"BOT_TOKEN"`

	// AuthURL, TokenURL and APIBase point at the provider. Overridden in
	// tests to target a stub server.
	AuthURL  string `env:"AUTH_URL"  envDefault:"https://discord.com/oauth2/authorize"`
	TokenURL string `env:"TOKEN_URL" envDefault:"https://discord.com/api/oauth2/token"`
	APIBase  string `env:"API_BASE"  envDefault:"https://discord.com/api"`

	// OutboundProxy is an optional proxy URL for all provider calls.
	OutboundProxy string `env:"OUTBOUND_PROXY"`

	// Timeout bounds every outbound provider call.
	Timeout time.Duration `env:"TIMEOUT" envDefault:"15s"`
}

// Scopes returns the configured scope set split into fields.
func (d DiscordConfig) Scopes() []string {
	return strings.Fields(d.Scope)
}

// Sanitize applies guardrails to Discord configuration values.
func (d *DiscordConfig) Sanitize() {
	if d.AuthURL == "" {
		d.AuthURL = defaultAuthURL
	}
	if d.TokenURL == "" {
		d.TokenURL = defaultTokenURL
	}
	d.APIBase = strings.TrimSuffix(d.APIBase, "/")
	if d.APIBase == "" {
		d.APIBase = defaultAPIBase
	}
	if d.Timeout <= 0 {
		d.Timeout = 15 * time.Second
	}
}

// ReplayConfig controls the authorization-code replay guard.
type ReplayConfig struct {
	// HoldFor is how long a code stays in the in-flight set after its
	// pipeline finishes. Provider codes are single-use upstream, so the
	// window only needs to cover redirect retries and back-button replays.
	HoldFor time.Duration `env:"HOLD_FOR" envDefault:"60s"`

	// UseRedis selects the Redis-backed guard for multi-instance
	// deployments. The default in-memory guard is per-process.
	UseRedis bool `env:"USE_REDIS" envDefault:"false"`
}

// Sanitize applies guardrails to replay guard configuration values.
func (r *ReplayConfig) Sanitize() {
	if r.HoldFor <= 0 {
		r.HoldFor = 60 * time.Second
	}
}
