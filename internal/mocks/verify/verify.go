package verify

// Package verify contains simple hand-written test doubles for the
// verification ports. These are lightweight and suitable for unit tests
// without codegen.

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/membershield/membershield/internal/domain/account"
	"github.com/membershield/membershield/internal/ports"
)

// Ensure compile-time conformance to ports.
var (
	_ ports.TokenExchanger        = (*MockProvider)(nil)
	_ ports.ProfileFetcher        = (*MockProvider)(nil)
	_ ports.EntitlementClient     = (*MockProvider)(nil)
	_ ports.AccountRepository     = (*MemoryAccountStore)(nil)
	_ ports.GroupConfigRepository = (*StaticGroupConfigs)(nil)
)

// MockProvider simulates the identity provider for tests. Each call records
// its inputs and returns deterministic values unless an override is set.
type MockProvider struct {
	ExchangeFunc  func(ctx context.Context, code string) (account.TokenPair, error)
	FetchFunc     func(ctx context.Context, accessToken string) (account.Profile, error)
	GrantRoleFunc func(ctx context.Context, guildID, userID, roleID string) error

	Tokens  account.TokenPair
	Profile account.Profile

	mu             sync.Mutex
	ExchangedCodes []string
	FetchedTokens  []string
	GrantedRoles   []string
}

// NewMockProvider creates a MockProvider with sensible defaults.
func NewMockProvider() *MockProvider {
	return &MockProvider{
		Tokens: account.TokenPair{AccessToken: "mock-access", RefreshToken: "mock-refresh"},
		Profile: account.Profile{
			UserID:   "mock-user-1",
			Username: "mockuser",
		},
	}
}

func (m *MockProvider) Exchange(ctx context.Context, code string) (account.TokenPair, error) {
	m.mu.Lock()
	m.ExchangedCodes = append(m.ExchangedCodes, code)
	m.mu.Unlock()

	if m.ExchangeFunc != nil {
		return m.ExchangeFunc(ctx, code)
	}
	return m.Tokens, nil
}

func (m *MockProvider) Fetch(ctx context.Context, accessToken string) (account.Profile, error) {
	m.mu.Lock()
	m.FetchedTokens = append(m.FetchedTokens, accessToken)
	m.mu.Unlock()

	if m.FetchFunc != nil {
		return m.FetchFunc(ctx, accessToken)
	}
	return m.Profile, nil
}

func (m *MockProvider) GrantRole(ctx context.Context, guildID, userID, roleID string) error {
	m.mu.Lock()
	m.GrantedRoles = append(m.GrantedRoles, guildID+"/"+userID+"/"+roleID)
	m.mu.Unlock()

	if m.GrantRoleFunc != nil {
		return m.GrantRoleFunc(ctx, guildID, userID, roleID)
	}
	return nil
}

// ExchangeCount reports how many codes were exchanged.
func (m *MockProvider) ExchangeCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.ExchangedCodes)
}

// MemoryAccountStore is an in-memory AccountRepository with the same union
// semantics as the Postgres repository.
type MemoryAccountStore struct {
	mu       sync.Mutex
	accounts map[string]*account.Account

	// UpsertErr and DeleteErr force failures when set.
	UpsertErr error
	DeleteErr error
}

// NewMemoryAccountStore creates an empty in-memory account store.
func NewMemoryAccountStore() *MemoryAccountStore {
	return &MemoryAccountStore{accounts: make(map[string]*account.Account)}
}

func (s *MemoryAccountStore) Upsert(_ context.Context, params ports.UpsertParams) (*account.Account, error) {
	if s.UpsertErr != nil {
		return nil, s.UpsertErr
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	acc, exists := s.accounts[params.UserID]
	if !exists {
		acc = &account.Account{UserID: params.UserID}
		s.accounts[params.UserID] = acc
	}
	acc.AccessToken = params.AccessToken
	acc.RefreshToken = params.RefreshToken
	acc.Username = params.Username
	acc.VerifiedAt = time.Now()
	if params.GroupID != "" && !slices.Contains(acc.GroupIDs, params.GroupID) {
		acc.GroupIDs = append(acc.GroupIDs, params.GroupID)
	}

	out := *acc
	return &out, nil
}

func (s *MemoryAccountStore) Get(_ context.Context, userID string) (*account.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	acc, exists := s.accounts[userID]
	if !exists {
		return nil, nil
	}
	out := *acc
	return &out, nil
}

func (s *MemoryAccountStore) Delete(_ context.Context, userID string) error {
	if s.DeleteErr != nil {
		return s.DeleteErr
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.accounts, userID)
	return nil
}

// Len reports the number of stored accounts.
func (s *MemoryAccountStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.accounts)
}

// StaticGroupConfigs is a fixed in-memory GroupConfigRepository.
type StaticGroupConfigs struct {
	Configs map[string]account.GroupConfig
	Err     error
}

func (s StaticGroupConfigs) Get(_ context.Context, groupID string) (*account.GroupConfig, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	cfg, exists := s.Configs[groupID]
	if !exists {
		return nil, nil
	}
	return &cfg, nil
}
