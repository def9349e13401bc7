package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/membershield/membershield/internal/ports"
)

// GrantStatus tags the outcome of an entitlement grant attempt.
type GrantStatus string

const (
	// GrantGranted means the provider accepted the role grant.
	GrantGranted GrantStatus = "granted"
	// GrantNotConfigured means the group has no entitlement target; a no-op.
	GrantNotConfigured GrantStatus = "not_configured"
	// GrantFailed means the grant was attempted and rejected. Never fatal
	// for the enclosing verification.
	GrantFailed GrantStatus = "failed"
)

// GrantOutcome is the tagged result of EntitlementService.Grant. Failures
// carry their reason so callers and tests can inspect it without log capture.
type GrantOutcome struct {
	Status GrantStatus
	Reason error
}

// Granted reports whether the entitlement was applied.
func (o GrantOutcome) Granted() bool { return o.Status == GrantGranted }

// EntitlementServiceOptions groups dependencies for EntitlementService.
type EntitlementServiceOptions struct {
	Groups ports.GroupConfigRepository
	Client ports.EntitlementClient
	Logger *slog.Logger
}

// EntitlementService grants the configured role for a group to a verified
// account. Grants are best-effort: the account link is the durable side
// effect, and a missed grant is independently retriable by an administrator.
type EntitlementService struct {
	groups ports.GroupConfigRepository
	client ports.EntitlementClient
	logger *slog.Logger
}

// NewEntitlementService constructs a new EntitlementService.
func NewEntitlementService(opts EntitlementServiceOptions) *EntitlementService {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &EntitlementService{
		groups: opts.Groups,
		client: opts.Client,
		logger: logger,
	}
}

// Grant looks up the group configuration and, when an entitlement target is
// configured, asks the provider to assign it. It never returns an error;
// failures come back as a GrantFailed outcome and a log entry.
func (s *EntitlementService) Grant(ctx context.Context, groupID, userID string) GrantOutcome {
	if groupID == "" {
		return GrantOutcome{Status: GrantNotConfigured}
	}

	cfg, err := s.groups.Get(ctx, groupID)
	if err != nil {
		s.logger.ErrorContext(ctx, "entitlement config lookup failed",
			"group_id", groupID, "user_id", userID, "error", err)
		return GrantOutcome{Status: GrantFailed, Reason: fmt.Errorf("lookup group config: %w", err)}
	}
	if cfg == nil || !cfg.Entitled() {
		return GrantOutcome{Status: GrantNotConfigured}
	}

	if grantErr := s.client.GrantRole(ctx, cfg.GuildID, userID, cfg.RoleID); grantErr != nil {
		s.logger.ErrorContext(ctx, "entitlement grant failed",
			"group_id", groupID, "guild_id", cfg.GuildID, "user_id", userID, "error", grantErr)
		return GrantOutcome{Status: GrantFailed, Reason: fmt.Errorf("grant role: %w", grantErr)}
	}

	s.logger.InfoContext(ctx, "entitlement granted",
		"group_id", groupID, "guild_id", cfg.GuildID, "user_id", userID)
	return GrantOutcome{Status: GrantGranted}
}
