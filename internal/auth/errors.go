// Package auth implements the token core: access-token minting and
// verification, refresh-token rotation with reuse detection, and the
// cookie policy used to deliver tokens to browsers. Persistence is
// consumed through the RefreshTokenStore contract so the service can
// be exercised against MySQL in production and an in-memory fake in
// tests.
package auth

import "errors"

// Sentinel errors returned by the token service and its store. Handlers
// map these onto HTTP status codes; none of them carries information
// about which credential factor failed.
var (
	// ErrUnauthorized is returned for any credential failure at login.
	// Unknown email and wrong password are deliberately indistinguishable.
	ErrUnauthorized = errors.New("invalid credentials")

	// ErrInvalidToken means the refresh secret hash matched no record.
	ErrInvalidToken = errors.New("invalid refresh token")

	// ErrExpiredToken means the record exists but is past its expiry.
	ErrExpiredToken = errors.New("expired refresh token")

	// ErrReusedToken means the record exists but was already revoked.
	// By the time the caller sees this, every other live token of the
	// same user has been revoked.
	ErrReusedToken = errors.New("invalid or reused refresh token")

	// ErrHashExists is returned by a store when inserting a token whose
	// hash is already present. Secrets carry 256 bits of entropy, so a
	// collision is treated as a fatal persistence fault.
	ErrHashExists = errors.New("refresh token hash already exists")

	// ErrTokenRevoked is returned by a store when a conditional revoke
	// finds the row already revoked. During rotation it identifies the
	// loser of a concurrent refresh race.
	ErrTokenRevoked = errors.New("refresh token already revoked")
)
