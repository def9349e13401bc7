package service

// Package service orchestrates the verification pipeline: redeem the
// authorization code, fetch the profile, persist the account link, then
// best-effort grant the group's entitlement.

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/membershield/membershield/internal/domain/account"
	"github.com/membershield/membershield/internal/ports"
)

// Sentinel errors classifying verification failures. Handlers map these to
// HTTP statuses; internal detail stays in the operational log.
var (
	// ErrMissingCode means the callback arrived without an authorization code.
	ErrMissingCode = errors.New("authorization code is required")
	// ErrDuplicateCode means the code is already being processed.
	ErrDuplicateCode = errors.New("authorization code already in flight")
	// ErrExchangeFailed means the provider rejected the code redemption.
	ErrExchangeFailed = errors.New("token exchange failed")
	// ErrProfileFetchFailed means the provider rejected the profile lookup.
	ErrProfileFetchFailed = errors.New("profile fetch failed")
	// ErrStoreUnavailable means the account store could not complete the write.
	ErrStoreUnavailable = errors.New("account store unavailable")
)

// VerificationServiceOptions groups dependencies for VerificationService.
type VerificationServiceOptions struct {
	AuthURLs     ports.AuthURLBuilder
	Exchanger    ports.TokenExchanger
	Profiles     ports.ProfileFetcher
	Accounts     ports.AccountRepository
	Guard        ports.ReplayGuard
	Entitlements *EntitlementService
	Logger       *slog.Logger
}

// VerificationService owns the callback state machine:
// received → code-checked → exchanging → fetching-profile → persisting →
// granting-entitlement (optional) → responded.
type VerificationService struct {
	authURLs     ports.AuthURLBuilder
	exchanger    ports.TokenExchanger
	profiles     ports.ProfileFetcher
	accounts     ports.AccountRepository
	guard        ports.ReplayGuard
	entitlements *EntitlementService
	logger       *slog.Logger
}

// NewVerificationService constructs a new VerificationService.
func NewVerificationService(opts VerificationServiceOptions) *VerificationService {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &VerificationService{
		authURLs:     opts.AuthURLs,
		exchanger:    opts.Exchanger,
		profiles:     opts.Profiles,
		accounts:     opts.Accounts,
		guard:        opts.Guard,
		entitlements: opts.Entitlements,
		logger:       logger,
	}
}

// BeginVerification builds the provider authorization URL for a group. The
// group id rides along as the OAuth state and comes back on the callback.
func (s *VerificationService) BeginVerification(groupID string) (string, error) {
	if groupID == "" {
		return "", errors.New("group id is required")
	}
	return s.authURLs.AuthCodeURL(groupID), nil
}

// VerificationResult is the outcome of a completed callback pipeline.
type VerificationResult struct {
	Account     *account.Account
	DisplayName string
	Grant       GrantOutcome
}

// CompleteVerification runs the callback pipeline for one authorization code.
// Exchange, fetch, and persist failures are terminal; the entitlement grant
// is best-effort and never fails the verification.
func (s *VerificationService) CompleteVerification(ctx context.Context, code, groupID string) (*VerificationResult, error) {
	if code == "" {
		return nil, ErrMissingCode
	}

	acquired, err := s.guard.Acquire(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("replay guard: %w", err)
	}
	if !acquired {
		return nil, ErrDuplicateCode
	}
	// Eviction is scheduled on every outcome so the guard never leaks codes.
	defer s.guard.Release(ctx, code)

	tokens, err := s.exchanger.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrExchangeFailed, err)
	}

	profile, err := s.profiles.Fetch(ctx, tokens.AccessToken)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrProfileFetchFailed, err)
	}

	acc, err := s.accounts.Upsert(ctx, ports.UpsertParams{
		UserID:       profile.UserID,
		AccessToken:  tokens.AccessToken,
		RefreshToken: tokens.RefreshToken,
		Username:     profile.Username,
		GroupID:      groupID,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrStoreUnavailable, err)
	}

	// The link is durably recorded; a failed grant only gets logged.
	grant := s.entitlements.Grant(ctx, groupID, profile.UserID)

	s.logger.InfoContext(ctx, "verification completed",
		"user_id", profile.UserID,
		"group_id", groupID,
		"grant", string(grant.Status))

	return &VerificationResult{
		Account:     acc,
		DisplayName: profile.Name(),
		Grant:       grant,
	}, nil
}

// CleanupUser handles a provider deauthorization notification by deleting
// the account record. A missing record is not an error.
func (s *VerificationService) CleanupUser(ctx context.Context, userID string) error {
	if userID == "" {
		return errors.New("user id is required")
	}

	if err := s.accounts.Delete(ctx, userID); err != nil {
		return fmt.Errorf("%w: %w", ErrStoreUnavailable, err)
	}

	s.logger.InfoContext(ctx, "account record removed", "user_id", userID)
	return nil
}
