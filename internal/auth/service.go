package auth

import (
	"context"
	"errors"
	"log"
	"sort"
	"time"

	"github.com/iliyamo/guitar-lab/internal/model"
)

// TokenService issues access+refresh+CSRF triples on login, rotates
// refresh tokens on use, detects reuse of rotated tokens and answers
// it with family revocation, and enforces the per-user cap on live
// refresh tokens.
//
// The security state machine per refresh token:
//
//	Active -> Rotated  (revoked_at set, replaced_by_hash set)
//	Active -> Revoked  (revoked_at set, replaced_by_hash empty)
//
// Both end states are terminal; expiry is checked at lookup time and
// never written back.
type TokenService struct {
	users UserDirectory
	store RefreshTokenStore
	cfg   TokenConfig

	// now is the clock used for every timestamp decision. Tests pin it
	// to step through expiry boundaries deterministically.
	now func() time.Time

	// notifier, when set, receives reuse detections after the family
	// has been revoked. Notification failures never mask the security
	// error returned to the caller.
	notifier SecurityNotifier
}

// SecurityNotifier receives reuse-detection notifications, e.g. to
// publish them to a message broker for alerting.
type SecurityNotifier interface {
	TokenReuseDetected(ctx context.Context, userID uint64, remoteIP string)
}

// NewTokenService wires the service with its collaborators. A zero
// MaxLivePerUser falls back to 5.
func NewTokenService(users UserDirectory, store RefreshTokenStore, cfg TokenConfig) *TokenService {
	if cfg.MaxLivePerUser <= 0 {
		cfg.MaxLivePerUser = 5
	}
	return &TokenService{
		users: users,
		store: store,
		cfg:   cfg,
		now:   func() time.Time { return time.Now().UTC() },
	}
}

// WithClock replaces the service clock. Intended for tests.
func (s *TokenService) WithClock(now func() time.Time) *TokenService {
	s.now = now
	return s
}

// WithNotifier attaches a reuse-detection notifier.
func (s *TokenService) WithNotifier(n SecurityNotifier) *TokenService {
	s.notifier = n
	return s
}

// GenerateTokens verifies credentials and mints a fresh token triple.
// Any credential failure surfaces as ErrUnauthorized without hinting
// at which factor was wrong. The new refresh record is persisted by
// hash only, and the oldest live tokens beyond the per-user cap are
// revoked with their replaced_by pointer aimed at the new token.
func (s *TokenService) GenerateTokens(ctx context.Context, email, password string) (AccessToken, RefreshSecret, string, error) {
	id, err := s.users.VerifyCredentials(ctx, email, password)
	if err != nil {
		return AccessToken{}, RefreshSecret{}, "", ErrUnauthorized
	}

	now := s.now()
	access, err := NewAccessToken(s.cfg, id, now)
	if err != nil {
		return AccessToken{}, RefreshSecret{}, "", err
	}
	refreshPlain, err := NewSecret()
	if err != nil {
		return AccessToken{}, RefreshSecret{}, "", err
	}
	csrf, err := NewSecret()
	if err != nil {
		return AccessToken{}, RefreshSecret{}, "", err
	}

	refresh := RefreshSecret{Plain: refreshPlain, Exp: now.Add(s.cfg.RefreshTTL())}
	newHash := HashSecret(refreshPlain)
	rec := &model.RefreshToken{
		UserID:    id.ID,
		TokenHash: newHash,
		CreatedAt: now,
		ExpiresAt: refresh.Exp,
	}
	if err := s.store.Add(ctx, rec); err != nil {
		return AccessToken{}, RefreshSecret{}, "", err
	}
	if err := s.enforceCap(ctx, id.ID, newHash); err != nil {
		return AccessToken{}, RefreshSecret{}, "", err
	}

	log.Printf("auth: issued token pair user=%d", id.ID)
	return access, refresh, csrf, nil
}

// Refresh rotates a refresh token. The plaintext is hashed and looked
// up; a missing record is ErrInvalidToken, a stale one ErrExpiredToken.
// A record that is found but already revoked is treated as theft: every
// other live token of that user is revoked before ErrReusedToken is
// returned. remoteIP is recorded in the audit log only and never gates
// the decision.
func (s *TokenService) Refresh(ctx context.Context, refreshPlain, remoteIP string) (AccessToken, RefreshSecret, error) {
	rec, err := s.store.GetByHash(ctx, HashSecret(refreshPlain))
	if err != nil {
		return AccessToken{}, RefreshSecret{}, err
	}
	if rec == nil {
		return AccessToken{}, RefreshSecret{}, ErrInvalidToken
	}

	now := s.now()
	if rec.Expired(now) {
		return AccessToken{}, RefreshSecret{}, ErrExpiredToken
	}
	if rec.Revoked() {
		// Found-but-revoked is strictly worse than not-found: the secret
		// was rotated away and is now being replayed.
		if err := s.revokeFamily(ctx, rec.UserID, remoteIP); err != nil {
			return AccessToken{}, RefreshSecret{}, err
		}
		return AccessToken{}, RefreshSecret{}, ErrReusedToken
	}

	id, err := s.users.GetByID(ctx, rec.UserID)
	if err != nil {
		return AccessToken{}, RefreshSecret{}, err
	}
	access, err := NewAccessToken(s.cfg, id, now)
	if err != nil {
		return AccessToken{}, RefreshSecret{}, err
	}
	newPlain, err := NewSecret()
	if err != nil {
		return AccessToken{}, RefreshSecret{}, err
	}
	newRefresh := RefreshSecret{Plain: newPlain, Exp: now.Add(s.cfg.RefreshTTL())}
	newHash := HashSecret(newPlain)

	// The conditional revoke is the race gate: of two concurrent
	// rotations of the same secret only one write lands, and the loser
	// observes the row as revoked. A lost race and a stolen token look
	// identical, so both get the family-revocation response.
	if err := s.store.Revoke(ctx, rec.ID, newHash); err != nil {
		if errors.Is(err, ErrTokenRevoked) {
			if ferr := s.revokeFamily(ctx, rec.UserID, remoteIP); ferr != nil {
				return AccessToken{}, RefreshSecret{}, ferr
			}
			return AccessToken{}, RefreshSecret{}, ErrReusedToken
		}
		return AccessToken{}, RefreshSecret{}, err
	}

	newRec := &model.RefreshToken{
		UserID:    rec.UserID,
		TokenHash: newHash,
		CreatedAt: now,
		ExpiresAt: newRefresh.Exp,
	}
	if err := s.store.Add(ctx, newRec); err != nil {
		return AccessToken{}, RefreshSecret{}, err
	}

	log.Printf("auth: rotated refresh token user=%d ip=%s", rec.UserID, remoteIP)
	return access, newRefresh, nil
}

// RevokeRefreshToken revokes the token matching the given plaintext.
// Unknown and already-revoked tokens are a no-op so repeated logout
// calls stay safe.
func (s *TokenService) RevokeRefreshToken(ctx context.Context, refreshPlain string) error {
	rec, err := s.store.GetByHash(ctx, HashSecret(refreshPlain))
	if err != nil {
		return err
	}
	if rec == nil || rec.Revoked() {
		return nil
	}
	if err := s.store.Revoke(ctx, rec.ID, ""); err != nil {
		if errors.Is(err, ErrTokenRevoked) {
			return nil
		}
		return err
	}
	log.Printf("auth: revoked refresh token user=%d", rec.UserID)
	return nil
}

// enforceCap revokes the user's oldest live tokens until at most
// MaxLivePerUser remain, linking each casualty to the token that
// displaced it.
func (s *TokenService) enforceCap(ctx context.Context, userID uint64, newHash string) error {
	valid, err := s.store.GetValidByUser(ctx, userID)
	if err != nil {
		return err
	}
	excess := len(valid) - s.cfg.MaxLivePerUser
	if excess <= 0 {
		return nil
	}
	sort.Slice(valid, func(a, b int) bool { return valid[a].CreatedAt.Before(valid[b].CreatedAt) })
	for _, t := range valid[:excess] {
		if t.TokenHash == newHash {
			continue
		}
		if err := s.store.Revoke(ctx, t.ID, newHash); err != nil && !errors.Is(err, ErrTokenRevoked) {
			return err
		}
	}
	log.Printf("auth: live token cap reached user=%d revoked=%d", userID, excess)
	return nil
}

// revokeFamily revokes every currently-valid token of the user. Called
// on reuse detection; the audit line is written synchronously before
// the error surfaces.
func (s *TokenService) revokeFamily(ctx context.Context, userID uint64, remoteIP string) error {
	valid, err := s.store.GetValidByUser(ctx, userID)
	if err != nil {
		return err
	}
	for _, t := range valid {
		if err := s.store.Revoke(ctx, t.ID, ""); err != nil && !errors.Is(err, ErrTokenRevoked) {
			return err
		}
	}
	log.Printf("auth: refresh token reuse detected user=%d ip=%s revoked=%d", userID, remoteIP, len(valid))
	if s.notifier != nil {
		s.notifier.TokenReuseDetected(ctx, userID, remoteIP)
	}
	return nil
}
