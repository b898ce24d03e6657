package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAccessTokenRoundTrip(t *testing.T) {
	cfg := testConfig()
	id := Identity{ID: 7, Username: "jimi", Email: "jimi@example.com"}

	tok, err := NewAccessToken(cfg, id, time.Now().UTC())
	require.NoError(t, err)

	claims, err := ParseAccessToken(cfg, tok.Token)
	require.NoError(t, err)
	assert.Equal(t, id.ID, claims.UserID)
	assert.Equal(t, id.Username, claims.Username)
	assert.Equal(t, id.Email, claims.Email)
	assert.NotEmpty(t, claims.JTI)
}

func TestParseAccessTokenRejectsExpired(t *testing.T) {
	cfg := testConfig()
	id := Identity{ID: 7, Username: "jimi", Email: "jimi@example.com"}

	tok, err := NewAccessToken(cfg, id, time.Now().UTC().Add(-time.Hour))
	require.NoError(t, err)

	_, err = ParseAccessToken(cfg, tok.Token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestParseAccessTokenRejectsWrongKey(t *testing.T) {
	cfg := testConfig()
	id := Identity{ID: 7, Username: "jimi", Email: "jimi@example.com"}

	tok, err := NewAccessToken(cfg, id, time.Now().UTC())
	require.NoError(t, err)

	other := cfg
	other.Secret = "some-other-secret"
	_, err = ParseAccessToken(other, tok.Token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestParseAccessTokenRejectsWrongIssuerOrAudience(t *testing.T) {
	cfg := testConfig()
	id := Identity{ID: 7, Username: "jimi", Email: "jimi@example.com"}

	tok, err := NewAccessToken(cfg, id, time.Now().UTC())
	require.NoError(t, err)

	badIss := cfg
	badIss.Issuer = "SomeOtherApi"
	_, err = ParseAccessToken(badIss, tok.Token)
	assert.ErrorIs(t, err, ErrInvalidToken)

	badAud := cfg
	badAud.Audience = "SomeOtherClient"
	_, err = ParseAccessToken(badAud, tok.Token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestParseAccessTokenRejectsGarbage(t *testing.T) {
	_, err := ParseAccessToken(testConfig(), "definitely.not.a-jwt")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestNewSecretIsUniqueAndHex(t *testing.T) {
	a, err := NewSecret()
	require.NoError(t, err)
	b, err := NewSecret()
	require.NoError(t, err)

	assert.Len(t, a, 64) // 32 bytes hex-encoded
	assert.NotEqual(t, a, b)
}

func TestHashSecretIsStable(t *testing.T) {
	assert.Equal(t, HashSecret("abc"), HashSecret("abc"))
	assert.NotEqual(t, HashSecret("abc"), HashSecret("abd"))
	assert.Len(t, HashSecret("abc"), 64)
}
