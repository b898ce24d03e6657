package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/iliyamo/guitar-lab/internal/auth"
	"github.com/iliyamo/guitar-lab/internal/model"
)

// TokenRepo is the MySQL implementation of auth.RefreshTokenStore.
// Rows are insert-then-flip only; nothing here deletes.
type TokenRepo struct{ DB *sql.DB }

func NewTokenRepo(db *sql.DB) *TokenRepo { return &TokenRepo{DB: db} }

// Add inserts a refresh token row and backfills the generated id.
// The unique index on token_hash turns a duplicate secret into
// auth.ErrHashExists.
func (r *TokenRepo) Add(ctx context.Context, t *model.RefreshToken) error {
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO refresh_tokens (user_id, token_hash, created_at, expires_at) VALUES (?,?,?,?)",
		t.UserID, t.TokenHash, t.CreatedAt, t.ExpiresAt)
	if err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "1062") {
			return auth.ErrHashExists
		}
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	t.ID = uint64(id)
	return nil
}

// GetByHash returns the row matching the hash, or (nil, nil) when absent.
func (r *TokenRepo) GetByHash(ctx context.Context, hash string) (*model.RefreshToken, error) {
	var (
		t          model.RefreshToken
		revokedAt  sql.NullTime
		replacedBy sql.NullString
	)
	err := r.DB.QueryRowContext(ctx,
		`SELECT id, user_id, token_hash, created_at, expires_at, revoked_at, replaced_by_hash
		 FROM refresh_tokens WHERE token_hash=? LIMIT 1`,
		hash).Scan(&t.ID, &t.UserID, &t.TokenHash, &t.CreatedAt, &t.ExpiresAt, &revokedAt, &replacedBy)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	if revokedAt.Valid {
		t.RevokedAt = &revokedAt.Time
	}
	if replacedBy.Valid {
		t.ReplacedByHash = &replacedBy.String
	}
	return &t, nil
}

// Revoke flips revoked_at in a single conditional UPDATE. The
// `revoked_at IS NULL` guard makes the check-and-flip atomic: when two
// rotations race on the same row only one write lands, and the loser
// gets auth.ErrTokenRevoked.
func (r *TokenRepo) Revoke(ctx context.Context, id uint64, replacedByHash string) error {
	res, err := r.DB.ExecContext(ctx,
		"UPDATE refresh_tokens SET revoked_at=NOW(), replaced_by_hash=NULLIF(?, '') WHERE id=? AND revoked_at IS NULL",
		replacedByHash, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return auth.ErrTokenRevoked
	}
	return nil
}

// GetValidByUser returns the user's non-revoked, unexpired tokens,
// oldest first so the service can trim from the front.
func (r *TokenRepo) GetValidByUser(ctx context.Context, userID uint64) ([]*model.RefreshToken, error) {
	rows, err := r.DB.QueryContext(ctx,
		`SELECT id, user_id, token_hash, created_at, expires_at, revoked_at, replaced_by_hash
		 FROM refresh_tokens
		 WHERE user_id=? AND revoked_at IS NULL AND expires_at > NOW()
		 ORDER BY created_at`,
		userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*model.RefreshToken
	for rows.Next() {
		var (
			t          model.RefreshToken
			revokedAt  sql.NullTime
			replacedBy sql.NullString
		)
		if err := rows.Scan(&t.ID, &t.UserID, &t.TokenHash, &t.CreatedAt, &t.ExpiresAt, &revokedAt, &replacedBy); err != nil {
			return nil, err
		}
		if revokedAt.Valid {
			t.RevokedAt = &revokedAt.Time
		}
		if replacedBy.Valid {
			t.ReplacedByHash = &replacedBy.String
		}
		out = append(out, &t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
