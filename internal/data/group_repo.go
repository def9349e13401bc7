package data

import (
	"context"
	"database/sql"
	"errors"

	"github.com/membershield/membershield/internal/domain/account"
	"github.com/membershield/membershield/internal/ports"
)

// GroupConfigRepo reads per-group entitlement configuration. The table is
// maintained by an external administrative surface; the service only reads.
type GroupConfigRepo struct {
	DB *sql.DB
}

var _ ports.GroupConfigRepository = (*GroupConfigRepo)(nil)

// NewGroupConfigRepo creates a new GroupConfigRepo.
func NewGroupConfigRepo(db *sql.DB) *GroupConfigRepo {
	return &GroupConfigRepo{DB: db}
}

// Get retrieves the configuration for a group; nil when absent.
func (r *GroupConfigRepo) Get(ctx context.Context, groupID string) (*account.GroupConfig, error) {
	if groupID == "" {
		return nil, errors.New("group id is required")
	}

	var cfg account.GroupConfig
	err := r.DB.QueryRowContext(ctx, `
		SELECT group_id, guild_id, role_id
		FROM group_configs
		WHERE group_id = $1
	`, groupID).Scan(&cfg.GroupID, &cfg.GuildID, &cfg.RoleID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, mapError("get group config", err)
	}
	return &cfg, nil
}
