package data

// Package data contains Postgres-backed repositories for the verification
// service.

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/membershield/membershield/internal/data/pgxutil"
	"github.com/membershield/membershield/internal/domain/account"
	"github.com/membershield/membershield/internal/ports"
)

// accountRow mirrors the accounts table for pgx row collection.
type accountRow struct {
	UserID       string    `db:"user_id"`
	AccessToken  string    `db:"access_token"`
	RefreshToken string    `db:"refresh_token"`
	Username     string    `db:"username"`
	GroupIDs     []string  `db:"group_ids"`
	VerifiedAt   time.Time `db:"verified_at"`
}

func (r accountRow) toDomain() *account.Account {
	return &account.Account{
		UserID:       r.UserID,
		AccessToken:  r.AccessToken,
		RefreshToken: r.RefreshToken,
		Username:     r.Username,
		GroupIDs:     r.GroupIDs,
		VerifiedAt:   r.VerifiedAt,
	}
}

// AccountRepo provides database operations for linked accounts.
type AccountRepo struct {
	DB           *sql.DB
	timeProvider TimeProvider
}

var _ ports.AccountRepository = (*AccountRepo)(nil)

// NewAccountRepo creates a new AccountRepo with the real time provider.
func NewAccountRepo(db *sql.DB) *AccountRepo {
	return &AccountRepo{DB: db, timeProvider: RealTimeProvider{}}
}

// NewAccountRepoWithTimeProvider creates a new AccountRepo with a custom time provider (useful for tests).
func NewAccountRepoWithTimeProvider(db *sql.DB, tp TimeProvider) *AccountRepo {
	return &AccountRepo{DB: db, timeProvider: tp}
}

// Upsert creates or refreshes the record for a remote account. The group set
// update is a single SQL statement, so concurrent upserts for the same
// account always union their groups instead of overwriting each other.
func (r *AccountRepo) Upsert(ctx context.Context, params ports.UpsertParams) (*account.Account, error) {
	if params.UserID == "" {
		return nil, errors.New("user id is required")
	}

	groups := []string{}
	if params.GroupID != "" {
		groups = append(groups, params.GroupID)
	}

	var out accountRow
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, `
			INSERT INTO accounts (user_id, access_token, refresh_token, username, group_ids, verified_at)
			VALUES ($1, $2, $3, $4, $5, $6)
			ON CONFLICT (user_id) DO UPDATE SET
				access_token  = EXCLUDED.access_token,
				refresh_token = EXCLUDED.refresh_token,
				username      = EXCLUDED.username,
				verified_at   = EXCLUDED.verified_at,
				group_ids     = CASE
					WHEN accounts.group_ids @> EXCLUDED.group_ids THEN accounts.group_ids
					ELSE accounts.group_ids || EXCLUDED.group_ids
				END
			RETURNING user_id, access_token, refresh_token, username, group_ids, verified_at
		`,
			params.UserID,
			params.AccessToken,
			params.RefreshToken,
			params.Username,
			groups,
			r.timeProvider.Now().UTC(),
		)
		if err != nil {
			return err
		}
		defer rows.Close()
		out, err = pgx.CollectOneRow(rows, pgx.RowToStructByName[accountRow])
		return err
	})
	if err != nil {
		return nil, mapError("upsert account", err)
	}
	return out.toDomain(), nil
}

// Get retrieves an account by remote account id; nil when absent.
func (r *AccountRepo) Get(ctx context.Context, userID string) (*account.Account, error) {
	if userID == "" {
		return nil, errors.New("user id is required")
	}

	var out accountRow
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, `
			SELECT user_id, access_token, refresh_token, username, group_ids, verified_at
			FROM accounts
			WHERE user_id = $1
		`, userID)
		if err != nil {
			return err
		}
		defer rows.Close()
		out, err = pgx.CollectOneRow(rows, pgx.RowToStructByName[accountRow])
		return err
	})
	if err != nil {
		mapped := mapError("get account", err)
		if errors.Is(mapped, ErrNotFound) {
			return nil, nil
		}
		return nil, mapped
	}
	return out.toDomain(), nil
}

// Delete removes the record entirely. Absence is not an error.
func (r *AccountRepo) Delete(ctx context.Context, userID string) error {
	if userID == "" {
		return errors.New("user id is required")
	}

	if _, err := r.DB.ExecContext(ctx, `DELETE FROM accounts WHERE user_id = $1`, userID); err != nil {
		return mapError("delete account", err)
	}
	return nil
}
