package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/guitar-lab/internal/auth"
)

func jwtTestConfig() auth.TokenConfig {
	return auth.TokenConfig{
		Secret:       "test-secret",
		Issuer:       "GuitarLabApi",
		Audience:     "GuitarLabClient",
		AccessTTLMin: 15,
	}
}

func signedToken(t *testing.T, cfg auth.TokenConfig) string {
	t.Helper()
	tok, err := auth.NewAccessToken(cfg,
		auth.Identity{ID: 42, Username: "slash", Email: "slash@example.com"},
		time.Now().UTC())
	require.NoError(t, err)
	return tok.Token
}

func runJWT(cfg auth.TokenConfig, req *http.Request) (*httptest.ResponseRecorder, uint64, bool) {
	rec := httptest.NewRecorder()
	c := echo.New().NewContext(req, rec)

	var uid uint64
	var reached bool
	mw := JWTAuth(cfg, "access_token")
	_ = mw(func(c echo.Context) error {
		reached = true
		uid, _ = UserID(c)
		return c.NoContent(http.StatusOK)
	})(c)
	return rec, uid, reached
}

func TestJWTAuthFromCookie(t *testing.T) {
	cfg := jwtTestConfig()
	req := httptest.NewRequest(http.MethodGet, "/v1/me", nil)
	req.AddCookie(&http.Cookie{Name: "access_token", Value: signedToken(t, cfg)})

	rec, uid, reached := runJWT(cfg, req)
	assert.True(t, reached)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, uint64(42), uid)
}

func TestJWTAuthFromBearerHeader(t *testing.T) {
	cfg := jwtTestConfig()
	req := httptest.NewRequest(http.MethodGet, "/v1/me", nil)
	req.Header.Set("Authorization", "Bearer "+signedToken(t, cfg))

	rec, uid, reached := runJWT(cfg, req)
	assert.True(t, reached)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, uint64(42), uid)
}

func TestJWTAuthRejectsMissingToken(t *testing.T) {
	rec, _, reached := runJWT(jwtTestConfig(), httptest.NewRequest(http.MethodGet, "/v1/me", nil))
	assert.False(t, reached)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestJWTAuthRejectsTamperedToken(t *testing.T) {
	cfg := jwtTestConfig()
	other := cfg
	other.Secret = "not-the-signing-key"

	req := httptest.NewRequest(http.MethodGet, "/v1/me", nil)
	req.AddCookie(&http.Cookie{Name: "access_token", Value: signedToken(t, other)})

	rec, _, reached := runJWT(cfg, req)
	assert.False(t, reached)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
