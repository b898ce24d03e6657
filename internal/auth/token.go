package auth

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// TokenConfig carries every tunable of the token core. All values are
// injected through the constructor so tests can shrink TTLs and the cap
// without touching globals.
type TokenConfig struct {
	Secret         string // HS256 signing key
	Issuer         string // iss claim, e.g. "GuitarLabApi"
	Audience       string // aud claim, e.g. "GuitarLabClient"
	AccessTTLMin   int    // access token lifetime in minutes
	RefreshTTLDays int    // refresh token lifetime in days
	MaxLivePerUser int    // cap on non-revoked, unexpired tokens per user
}

// AccessTTL returns the access lifetime as a duration.
func (c TokenConfig) AccessTTL() time.Duration {
	return time.Duration(c.AccessTTLMin) * time.Minute
}

// RefreshTTL returns the refresh lifetime as a duration.
func (c TokenConfig) RefreshTTL() time.Duration {
	return time.Duration(c.RefreshTTLDays) * 24 * time.Hour
}

// AccessToken is a signed JWT together with its expiry. The token is
// stateless: it is verified by signature and expiry only and never
// looked up server-side.
type AccessToken struct {
	Token string    // the serialized JWT string
	Exp   time.Time // the UTC expiration time
}

// RefreshSecret is the plaintext refresh value handed to the client.
// Only its SHA-256 hash is persisted.
type RefreshSecret struct {
	Plain string    // raw secret returned to the client
	Exp   time.Time // UTC expiration time
}

// AccessClaims is the decoded identity carried by an access token.
type AccessClaims struct {
	UserID   uint64
	Username string
	Email    string
	JTI      string
}

// NewAccessToken builds and signs an HS256 JWT for the given identity.
// Claims: sub (user id), name, email, a unique jti, iat, exp, iss, aud.
func NewAccessToken(cfg TokenConfig, id Identity, now time.Time) (AccessToken, error) {
	exp := now.Add(cfg.AccessTTL())
	claims := jwt.MapClaims{
		"sub":   strconv.FormatUint(id.ID, 10),
		"name":  id.Username,
		"email": id.Email,
		"jti":   uuid.NewString(),
		"iat":   now.Unix(),
		"exp":   exp.Unix(),
		"iss":   cfg.Issuer,
		"aud":   cfg.Audience,
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := t.SignedString([]byte(cfg.Secret))
	if err != nil {
		return AccessToken{}, err
	}
	return AccessToken{Token: signed, Exp: exp}, nil
}

// ParseAccessToken verifies signature, expiry, issuer and audience of a
// serialized access token and returns its claims.
func ParseAccessToken(cfg TokenConfig, raw string) (AccessClaims, error) {
	tok, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return []byte(cfg.Secret), nil
	},
		jwt.WithIssuer(cfg.Issuer),
		jwt.WithAudience(cfg.Audience),
		jwt.WithExpirationRequired(),
	)
	if err != nil || !tok.Valid {
		return AccessClaims{}, ErrInvalidToken
	}
	claims, ok := tok.Claims.(jwt.MapClaims)
	if !ok {
		return AccessClaims{}, ErrInvalidToken
	}
	sub, _ := claims["sub"].(string)
	uid, err := strconv.ParseUint(sub, 10, 64)
	if err != nil {
		return AccessClaims{}, ErrInvalidToken
	}
	out := AccessClaims{UserID: uid}
	out.Username, _ = claims["name"].(string)
	out.Email, _ = claims["email"].(string)
	out.JTI, _ = claims["jti"].(string)
	return out, nil
}

// NewSecret returns a hex-encoded 32-byte (256-bit) secret from the
// platform CSPRNG. Used for both refresh secrets and CSRF values.
func NewSecret() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}

// HashSecret returns the SHA-256 hex digest of a plaintext secret.
// Only this digest is ever persisted, so a leaked token table cannot
// be replayed against the refresh endpoint.
func HashSecret(plain string) string {
	sum := sha256.Sum256([]byte(plain))
	return hex.EncodeToString(sum[:])
}
