package data

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/membershield/membershield/internal/ports"
	"github.com/membershield/membershield/internal/testutil"
)

func TestAccountRepo_UpsertCreatesRecord(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fixed := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	repo := NewAccountRepoWithTimeProvider(db, FixedTimeProvider{Time: fixed})
	ctx := context.Background()

	acc, err := repo.Upsert(ctx, ports.UpsertParams{
		UserID:       "user-1",
		AccessToken:  "access-1",
		RefreshToken: "refresh-1",
		Username:     "alice",
		GroupID:      "g1",
	})

	require.NoError(t, err)
	assert.Equal(t, "user-1", acc.UserID)
	assert.Equal(t, "alice", acc.Username)
	assert.Equal(t, []string{"g1"}, acc.GroupIDs)
	assert.Equal(t, fixed, acc.VerifiedAt.UTC())
}

func TestAccountRepo_UpsertGroupSetIsIdempotent(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repo := NewAccountRepo(db)
	ctx := context.Background()

	params := ports.UpsertParams{UserID: "user-1", AccessToken: "a", Username: "alice", GroupID: "g1"}
	_, err := repo.Upsert(ctx, params)
	require.NoError(t, err)

	acc, err := repo.Upsert(ctx, params)
	require.NoError(t, err)
	assert.Equal(t, []string{"g1"}, acc.GroupIDs, "adding the same group twice is a no-op")
}

func TestAccountRepo_UpsertUnionsGroups(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repo := NewAccountRepo(db)
	ctx := context.Background()

	_, err := repo.Upsert(ctx, ports.UpsertParams{UserID: "user-1", AccessToken: "a1", Username: "alice", GroupID: "g1"})
	require.NoError(t, err)

	acc, err := repo.Upsert(ctx, ports.UpsertParams{UserID: "user-1", AccessToken: "a2", Username: "alice2", GroupID: "g2"})
	require.NoError(t, err)

	assert.ElementsMatch(t, []string{"g1", "g2"}, acc.GroupIDs)
	assert.Equal(t, "a2", acc.AccessToken, "scalar fields are last-writer-wins")
	assert.Equal(t, "alice2", acc.Username)
}

func TestAccountRepo_ConcurrentUpsertsKeepBothGroups(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repo := NewAccountRepo(db)
	ctx := context.Background()

	groups := []string{"g1", "g2", "g3", "g4", "g5", "g6", "g7", "g8"}
	var wg sync.WaitGroup
	for _, g := range groups {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := repo.Upsert(ctx, ports.UpsertParams{UserID: "user-1", AccessToken: "a", GroupID: g})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	acc, err := repo.Get(ctx, "user-1")
	require.NoError(t, err)
	require.NotNil(t, acc)
	assert.ElementsMatch(t, groups, acc.GroupIDs, "no concurrent upsert may lose a group")
}

func TestAccountRepo_GetMissingReturnsNil(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repo := NewAccountRepo(db)

	acc, err := repo.Get(context.Background(), "nobody")
	require.NoError(t, err)
	assert.Nil(t, acc)
}

func TestAccountRepo_DeleteIsIdempotent(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repo := NewAccountRepo(db)
	ctx := context.Background()

	_, err := repo.Upsert(ctx, ports.UpsertParams{UserID: "user-1", AccessToken: "a", GroupID: "g1"})
	require.NoError(t, err)

	require.NoError(t, repo.Delete(ctx, "user-1"))

	acc, err := repo.Get(ctx, "user-1")
	require.NoError(t, err)
	assert.Nil(t, acc)

	// Second delete of an absent record is not an error.
	require.NoError(t, repo.Delete(ctx, "user-1"))
}

func TestGroupConfigRepo_Get(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repo := NewGroupConfigRepo(db)
	ctx := context.Background()

	_, err := db.ExecContext(ctx, `
		INSERT INTO group_configs (group_id, guild_id, role_id)
		VALUES ('g1', 'guild-1', 'role-1'), ('g2', '', '')
	`)
	require.NoError(t, err)

	cfg, err := repo.Get(ctx, "g1")
	require.NoError(t, err)
	require.NotNil(t, cfg)
	assert.Equal(t, "guild-1", cfg.GuildID)
	assert.True(t, cfg.Entitled())

	cfg, err = repo.Get(ctx, "g2")
	require.NoError(t, err)
	require.NotNil(t, cfg)
	assert.False(t, cfg.Entitled(), "empty role id means no entitlement target")

	cfg, err = repo.Get(ctx, "unknown")
	require.NoError(t, err)
	assert.Nil(t, cfg)
}
