package model

import "time"

// User represents an application user record as stored in the
// `users` table. Each field corresponds to a column in the
// database. The json tags are omitted here because these structs
// are primarily used internally by the repository layer; handlers
// may define separate response types with appropriate JSON tags.
// Every user owns exactly one guitarist profile which tracks the
// musical side of the account (skill level, lesson progress).
//
// Fields:
//  ID           – primary key identifier of the user.
//  Username     – display name shown in the UI.
//  Email        – unique email address.
//  PasswordHash – bcrypt hashed password.
//  Role         – name of the role (e.g. GUITARIST or ADMIN).
//  GuitaristID  – foreign key into the guitarists table.
//  IsActive     – whether the account is active.
//  CreatedAt    – timestamp of creation.
//  UpdatedAt    – timestamp of last update.
type User struct {
	ID           uint64    // users.id
	Username     string    // users.username
	Email        string    // users.email
	PasswordHash string    // users.password_hash
	Role         string    // users.role
	GuitaristID  uint64    // users.guitarist_id (references guitarists.id)
	IsActive     bool      // users.is_active
	CreatedAt    time.Time // users.created_at
	UpdatedAt    time.Time // users.updated_at
}

// RefreshToken models an entry in the `refresh_tokens` table. Each
// refresh token belongs to a user and contains metadata for expiry,
// revocation and rotation. The plain token is never stored; only
// its SHA-256 hash. Rows are never deleted so the rotation chain
// stays available as an audit trail.
//
// Fields:
//  ID             – primary key identifier.
//  UserID         – owner of the token.
//  TokenHash      – SHA-256 hex digest of the token value.
//  CreatedAt      – timestamp of creation.
//  ExpiresAt      – expiration timestamp of the token.
//  RevokedAt      – when the token was revoked (null if still active).
//  ReplacedByHash – hash of the token that superseded this one on
//                   rotation (null for explicit revocations).
type RefreshToken struct {
	ID             uint64     // refresh_tokens.id
	UserID         uint64     // refresh_tokens.user_id
	TokenHash      string     // refresh_tokens.token_hash
	CreatedAt      time.Time  // refresh_tokens.created_at
	ExpiresAt      time.Time  // refresh_tokens.expires_at
	RevokedAt      *time.Time // refresh_tokens.revoked_at (nullable)
	ReplacedByHash *string    // refresh_tokens.replaced_by_hash (nullable)
}

// Revoked reports whether the token has been revoked, either by
// rotation, logout or reuse detection.
func (t *RefreshToken) Revoked() bool { return t.RevokedAt != nil }

// Expired reports whether the token is past its expiry at the given instant.
func (t *RefreshToken) Expired(now time.Time) bool { return now.After(t.ExpiresAt) }
