package bootstrap

import (
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/redis/go-redis/v9"

	"github.com/membershield/membershield/config"
	"github.com/membershield/membershield/internal/adapters/discord"
	"github.com/membershield/membershield/internal/adapters/replay"
	"github.com/membershield/membershield/internal/data"
	"github.com/membershield/membershield/internal/ports"
	"github.com/membershield/membershield/internal/service"
)

// ServiceDeps carries the shared infrastructure services are built from.
type ServiceDeps struct {
	Config      *config.AppConfig
	DB          *sql.DB
	RedisClient redis.UniversalClient // nil unless the Redis guard is enabled
	Logger      *slog.Logger
}

// ServiceContainer holds the constructed application services.
type ServiceContainer struct {
	Verification *service.VerificationService
}

// NewServices wires adapters, repositories, and services.
func NewServices(deps *ServiceDeps) (*ServiceContainer, error) {
	cfg := deps.Config
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}

	httpClient, err := outboundHTTPClient(cfg.Discord)
	if err != nil {
		return nil, err
	}

	discordClient, err := discord.NewClient(discord.ClientConfig{
		ClientID:     cfg.Discord.ClientID,
		ClientSecret: cfg.Discord.ClientSecret,
		RedirectURL:  cfg.Discord.RedirectURL,
		Scopes:       cfg.Discord.Scopes(),
		AuthURL:      cfg.Discord.AuthURL,
		TokenURL:     cfg.Discord.TokenURL,
		APIBase:      cfg.Discord.APIBase,
		BotToken:     cfg.Discord.BotToken,
		HTTPClient:   httpClient,
	})
	if err != nil {
		return nil, fmt.Errorf("create discord client: %w", err)
	}

	var guard ports.ReplayGuard
	if cfg.Replay.UseRedis {
		guard = replay.NewRedisGuard(deps.RedisClient, cfg.Replay.HoldFor)
		logger.Info("replay guard backend", "backend", "redis")
	} else {
		guard = replay.NewMemoryGuard(cfg.Replay.HoldFor)
		logger.Info("replay guard backend", "backend", "memory")
	}

	entitlements := service.NewEntitlementService(service.EntitlementServiceOptions{
		Groups: data.NewGroupConfigRepo(deps.DB),
		Client: discordClient,
		Logger: logger,
	})

	verification := service.NewVerificationService(service.VerificationServiceOptions{
		AuthURLs:     discordClient,
		Exchanger:    discordClient,
		Profiles:     discordClient,
		Accounts:     data.NewAccountRepo(deps.DB),
		Guard:        guard,
		Entitlements: entitlements,
		Logger:       logger,
	})

	return &ServiceContainer{Verification: verification}, nil
}

// outboundHTTPClient builds the client used for all provider calls, honoring
// the optional outbound proxy and the configured timeout.
func outboundHTTPClient(cfg config.DiscordConfig) (*http.Client, error) {
	client := &http.Client{Timeout: cfg.Timeout}
	if cfg.OutboundProxy == "" {
		return client, nil
	}

	proxyURL, err := url.Parse(cfg.OutboundProxy)
	if err != nil {
		return nil, fmt.Errorf("parse outbound proxy: %w", err)
	}
	client.Transport = &http.Transport{Proxy: http.ProxyURL(proxyURL)}
	return client, nil
}
