package discord

// Package discord implements the provider-facing ports (token exchange,
// profile fetch, role grant) against the Discord OAuth2 and REST APIs.

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/membershield/membershield/internal/domain/account"
	"golang.org/x/oauth2"
)

const maxErrorBodyBytes = 2048

// Client talks to Discord's OAuth token endpoint and REST API.
type Client struct {
	config     *oauth2.Config
	apiBase    string
	botToken   string
	httpClient *http.Client
}

// ClientConfig holds configuration for the Discord client.
type ClientConfig struct {
	ClientID     string
	ClientSecret string
	RedirectURL  string
	Scopes       []string
	AuthURL      string
	TokenURL     string
	APIBase      string
	BotToken     string
	HTTPClient   *http.Client // Optional, defaults to a 15s-timeout client
}

// NewClient creates a new Discord client.
func NewClient(cfg ClientConfig) (*Client, error) {
	if cfg.ClientID == "" {
		return nil, errors.New("client ID is required")
	}
	if cfg.ClientSecret == "" {
		return nil, errors.New("client secret is required")
	}
	if cfg.RedirectURL == "" {
		return nil, errors.New("redirect URL is required")
	}
	if cfg.AuthURL == "" || cfg.TokenURL == "" {
		return nil, errors.New("auth and token URLs are required")
	}
	if cfg.APIBase == "" {
		return nil, errors.New("API base URL is required")
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 15 * time.Second}
	}

	return &Client{
		config: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.RedirectURL,
			Scopes:       cfg.Scopes,
			Endpoint: oauth2.Endpoint{
				AuthURL:   cfg.AuthURL,
				TokenURL:  cfg.TokenURL,
				AuthStyle: oauth2.AuthStyleInParams,
			},
		},
		apiBase:    strings.TrimSuffix(cfg.APIBase, "/"),
		botToken:   cfg.BotToken,
		httpClient: httpClient,
	}, nil
}

// AuthCodeURL builds the provider authorization URL carrying the given state.
// Discord echoes the state back unmodified on the callback redirect.
func (c *Client) AuthCodeURL(state string) string {
	return c.config.AuthCodeURL(state)
}

// Exchange redeems an authorization code for an access/refresh token pair.
func (c *Client) Exchange(ctx context.Context, code string) (account.TokenPair, error) {
	if code == "" {
		return account.TokenPair{}, errors.New("authorization code is required")
	}

	ctx = context.WithValue(ctx, oauth2.HTTPClient, c.httpClient)
	token, err := c.config.Exchange(ctx, code)
	if err != nil {
		return account.TokenPair{}, fmt.Errorf("exchange code for token: %w", err)
	}

	return account.TokenPair{
		AccessToken:  token.AccessToken,
		RefreshToken: token.RefreshToken,
	}, nil
}

// userResponse is the subset of Discord's /users/@me payload the service uses.
type userResponse struct {
	ID         string `json:"id"`
	Username   string `json:"username"`
	GlobalName string `json:"global_name"`
}

// Fetch retrieves the remote account identity behind an access token.
func (c *Client) Fetch(ctx context.Context, accessToken string) (account.Profile, error) {
	if accessToken == "" {
		return account.Profile{}, errors.New("access token is required")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.apiBase+"/users/@me", nil)
	if err != nil {
		return account.Profile{}, fmt.Errorf("build user request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return account.Profile{}, fmt.Errorf("fetch user: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return account.Profile{}, apiError("fetch user", resp)
	}

	var user userResponse
	if decodeErr := json.NewDecoder(resp.Body).Decode(&user); decodeErr != nil {
		return account.Profile{}, fmt.Errorf("decode user response: %w", decodeErr)
	}
	if user.ID == "" {
		return account.Profile{}, errors.New("user response missing id")
	}

	return account.Profile{
		UserID:      user.ID,
		Username:    user.Username,
		DisplayName: user.GlobalName,
	}, nil
}

// GrantRole assigns a guild role to a member using the service bot token.
func (c *Client) GrantRole(ctx context.Context, guildID, userID, roleID string) error {
	if c.botToken == "" {
		return errors.New("bot token is not configured")
	}
	if guildID == "" || userID == "" || roleID == "" {
		return errors.New("guild, user and role ids are required")
	}

	url := fmt.Sprintf("%s/guilds/%s/members/%s/roles/%s", c.apiBase, guildID, userID, roleID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, url, nil)
	if err != nil {
		return fmt.Errorf("build role grant request: %w", err)
	}
	req.Header.Set("Authorization", "Bot "+c.botToken)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("grant role: %w", err)
	}
	defer resp.Body.Close()

	// Discord returns 204 on success, including when the member already has the role.
	if resp.StatusCode != http.StatusNoContent && resp.StatusCode != http.StatusOK {
		return apiError("grant role", resp)
	}

	return nil
}

// apiError summarizes a non-success provider response. Bodies are truncated
// and surface only in internal errors, never in user-facing responses.
func apiError(op string, resp *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodyBytes))
	msg := strings.TrimSpace(string(body))
	if msg == "" {
		return fmt.Errorf("%s: unexpected status %d", op, resp.StatusCode)
	}
	return fmt.Errorf("%s: unexpected status %d: %s", op, resp.StatusCode, msg)
}
