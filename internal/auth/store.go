package auth

import (
	"context"

	"github.com/iliyamo/guitar-lab/internal/model"
)

// RefreshTokenStore is the persistence contract the token service
// depends on. Implementations must never delete rows; revocation is a
// one-way state flip and the rotation chain doubles as an audit trail.
type RefreshTokenStore interface {
	// Add inserts a new token record. A duplicate token_hash must be
	// reported as ErrHashExists.
	Add(ctx context.Context, t *model.RefreshToken) error

	// GetByHash returns the record whose token_hash equals hash, or
	// (nil, nil) when no such record exists.
	GetByHash(ctx context.Context, hash string) (*model.RefreshToken, error)

	// Revoke flips the record to revoked. replacedByHash is stored as
	// the forward pointer of the rotation chain; pass "" for explicit
	// revocations. When the row is already revoked the store must
	// return ErrTokenRevoked and leave it untouched, and the check and
	// the flip must be a single atomic write so that two concurrent
	// rotations of the same token cannot both succeed.
	Revoke(ctx context.Context, id uint64, replacedByHash string) error

	// GetValidByUser returns the user's non-revoked, unexpired tokens
	// ordered oldest first by created_at.
	GetValidByUser(ctx context.Context, userID uint64) ([]*model.RefreshToken, error)
}

// Identity is the slice of a user account the token core needs for
// minting claims.
type Identity struct {
	ID       uint64
	Username string
	Email    string
}

// UserDirectory resolves and verifies user accounts. VerifyCredentials
// must return ErrUnauthorized for every credential failure without
// distinguishing unknown users from wrong passwords.
type UserDirectory interface {
	VerifyCredentials(ctx context.Context, email, password string) (Identity, error)
	GetByID(ctx context.Context, id uint64) (Identity, error)
}
