package auth

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/guitar-lab/internal/model"
)

// memStore is an in-memory RefreshTokenStore with the same semantics as
// the MySQL implementation: unique hashes, conditional revocation.
type memStore struct {
	mu     sync.Mutex
	nextID uint64
	rows   map[uint64]*model.RefreshToken
	now    func() time.Time
}

func newMemStore(now func() time.Time) *memStore {
	return &memStore{rows: map[uint64]*model.RefreshToken{}, now: now}
}

func (s *memStore) Add(_ context.Context, t *model.RefreshToken) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, r := range s.rows {
		if r.TokenHash == t.TokenHash {
			return ErrHashExists
		}
	}
	s.nextID++
	t.ID = s.nextID
	cp := *t
	s.rows[t.ID] = &cp
	return nil
}

func (s *memStore) GetByHash(_ context.Context, hash string) (*model.RefreshToken, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, r := range s.rows {
		if r.TokenHash == hash {
			cp := *r
			return &cp, nil
		}
	}
	return nil, nil
}

func (s *memStore) Revoke(_ context.Context, id uint64, replacedByHash string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.rows[id]
	if !ok || r.RevokedAt != nil {
		return ErrTokenRevoked
	}
	at := s.now()
	r.RevokedAt = &at
	if replacedByHash != "" {
		r.ReplacedByHash = &replacedByHash
	}
	return nil
}

func (s *memStore) GetValidByUser(_ context.Context, userID uint64) ([]*model.RefreshToken, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*model.RefreshToken
	for _, r := range s.rows {
		if r.UserID == userID && r.RevokedAt == nil && !r.Expired(s.now()) {
			cp := *r
			out = append(out, &cp)
		}
	}
	return out, nil
}

// byHash looks a row up bypassing the copy, for assertions on stored state.
func (s *memStore) byHash(hash string) *model.RefreshToken {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, r := range s.rows {
		if r.TokenHash == hash {
			return r
		}
	}
	return nil
}

type fakeDirectory struct {
	id   Identity
	pass string
}

func (d *fakeDirectory) VerifyCredentials(_ context.Context, email, password string) (Identity, error) {
	if email == d.id.Email && password == d.pass {
		return d.id, nil
	}
	return Identity{}, ErrUnauthorized
}

func (d *fakeDirectory) GetByID(_ context.Context, id uint64) (Identity, error) {
	if id == d.id.ID {
		return d.id, nil
	}
	return Identity{}, ErrInvalidToken
}

type recordingNotifier struct {
	mu    sync.Mutex
	users []uint64
}

func (n *recordingNotifier) TokenReuseDetected(_ context.Context, userID uint64, _ string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.users = append(n.users, userID)
}

func testConfig() TokenConfig {
	return TokenConfig{
		Secret:         "test-secret",
		Issuer:         "GuitarLabApi",
		Audience:       "GuitarLabClient",
		AccessTTLMin:   15,
		RefreshTTLDays: 7,
		MaxLivePerUser: 5,
	}
}

// harness bundles a service with a mutable clock.
type harness struct {
	svc   *TokenService
	store *memStore
	now   time.Time
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	h := &harness{now: time.Now().UTC().Truncate(time.Second)}
	clock := func() time.Time { return h.now }
	h.store = newMemStore(clock)
	dir := &fakeDirectory{
		id:   Identity{ID: 42, Username: "slash", Email: "slash@example.com"},
		pass: "sweetchild",
	}
	h.svc = NewTokenService(dir, h.store, testConfig()).WithClock(clock)
	return h
}

func (h *harness) login(t *testing.T) (AccessToken, RefreshSecret, string) {
	t.Helper()
	access, refresh, csrf, err := h.svc.GenerateTokens(context.Background(), "slash@example.com", "sweetchild")
	require.NoError(t, err)
	return access, refresh, csrf
}

func TestGenerateTokensIssuesTriple(t *testing.T) {
	h := newHarness(t)

	access, refresh, csrf, err := h.svc.GenerateTokens(context.Background(), "slash@example.com", "sweetchild")
	require.NoError(t, err)

	claims, err := ParseAccessToken(testConfig(), access.Token)
	require.NoError(t, err)
	assert.Equal(t, uint64(42), claims.UserID)
	assert.Equal(t, "slash", claims.Username)
	assert.Equal(t, "slash@example.com", claims.Email)
	assert.NotEmpty(t, claims.JTI)

	assert.NotEmpty(t, refresh.Plain)
	assert.NotEmpty(t, csrf)
	assert.NotEqual(t, refresh.Plain, csrf)
	assert.Equal(t, h.now.Add(15*time.Minute), access.Exp)
	assert.Equal(t, h.now.Add(7*24*time.Hour), refresh.Exp)

	// Only the hash hits the store.
	assert.Nil(t, h.store.byHash(refresh.Plain))
	require.NotNil(t, h.store.byHash(HashSecret(refresh.Plain)))
}

func TestGenerateTokensBadCredentials(t *testing.T) {
	h := newHarness(t)

	_, _, _, err := h.svc.GenerateTokens(context.Background(), "slash@example.com", "wrong")
	assert.ErrorIs(t, err, ErrUnauthorized)

	_, _, _, err = h.svc.GenerateTokens(context.Background(), "nobody@example.com", "sweetchild")
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestRefreshRotatesToken(t *testing.T) {
	h := newHarness(t)
	_, r1, _ := h.login(t)

	h.now = h.now.Add(time.Minute)
	access, r2, err := h.svc.Refresh(context.Background(), r1.Plain, "10.0.0.1")
	require.NoError(t, err)
	assert.NotEqual(t, r1.Plain, r2.Plain)
	assert.NotEmpty(t, access.Token)

	// The old row is terminally revoked and points at its successor.
	old := h.store.byHash(HashSecret(r1.Plain))
	require.NotNil(t, old)
	assert.True(t, old.Revoked())
	require.NotNil(t, old.ReplacedByHash)
	assert.Equal(t, HashSecret(r2.Plain), *old.ReplacedByHash)

	// The new row is live.
	valid, err := h.store.GetValidByUser(context.Background(), 42)
	require.NoError(t, err)
	require.Len(t, valid, 1)
	assert.Equal(t, HashSecret(r2.Plain), valid[0].TokenHash)
}

func TestRefreshUnknownToken(t *testing.T) {
	h := newHarness(t)
	h.login(t)

	_, _, err := h.svc.Refresh(context.Background(), "not-a-token", "10.0.0.1")
	assert.ErrorIs(t, err, ErrInvalidToken)

	// An unknown plaintext must not nuke the session.
	valid, _ := h.store.GetValidByUser(context.Background(), 42)
	assert.Len(t, valid, 1)
}

func TestRefreshExpiredToken(t *testing.T) {
	h := newHarness(t)
	_, r1, _ := h.login(t)

	// One second past expiry.
	h.now = h.now.Add(7*24*time.Hour + time.Second)
	_, _, err := h.svc.Refresh(context.Background(), r1.Plain, "10.0.0.1")
	assert.ErrorIs(t, err, ErrExpiredToken)

	// Expiry is not theft: the row stays unrevoked.
	rec := h.store.byHash(HashSecret(r1.Plain))
	require.NotNil(t, rec)
	assert.False(t, rec.Revoked())
}

func TestRefreshReuseRevokesFamily(t *testing.T) {
	h := newHarness(t)
	notifier := &recordingNotifier{}
	h.svc.WithNotifier(notifier)
	_, r1, _ := h.login(t)

	h.now = h.now.Add(time.Minute)
	_, r2, err := h.svc.Refresh(context.Background(), r1.Plain, "10.0.0.1")
	require.NoError(t, err)

	// Replaying the rotated-away secret is theft: every live token of
	// the user dies, including the fresh one.
	h.now = h.now.Add(time.Minute)
	_, _, err = h.svc.Refresh(context.Background(), r1.Plain, "203.0.113.7")
	assert.ErrorIs(t, err, ErrReusedToken)

	valid, err := h.store.GetValidByUser(context.Background(), 42)
	require.NoError(t, err)
	assert.Empty(t, valid)

	// And the stolen session cannot continue either.
	h.now = h.now.Add(time.Minute)
	_, _, err = h.svc.Refresh(context.Background(), r2.Plain, "10.0.0.1")
	assert.ErrorIs(t, err, ErrReusedToken)

	assert.Equal(t, []uint64{42, 42}, notifier.users)
}

func TestLiveTokenCap(t *testing.T) {
	h := newHarness(t)

	var last RefreshSecret
	for i := 0; i < 7; i++ {
		h.now = h.now.Add(time.Second)
		_, last, _ = h.login(t)
	}

	valid, err := h.store.GetValidByUser(context.Background(), 42)
	require.NoError(t, err)
	assert.Len(t, valid, 5)

	// The newest token always survives its own cap enforcement.
	require.NotNil(t, h.store.byHash(HashSecret(last.Plain)))
	assert.False(t, h.store.byHash(HashSecret(last.Plain)).Revoked())

	// Evicted rows carry the hash of the token that displaced them.
	for _, r := range h.store.rows {
		if r.Revoked() {
			require.NotNil(t, r.ReplacedByHash)
		}
	}
}

func TestRevokeRefreshTokenIdempotent(t *testing.T) {
	h := newHarness(t)
	_, r1, _ := h.login(t)

	require.NoError(t, h.svc.RevokeRefreshToken(context.Background(), r1.Plain))

	rec := h.store.byHash(HashSecret(r1.Plain))
	require.NotNil(t, rec)
	assert.True(t, rec.Revoked())
	assert.Nil(t, rec.ReplacedByHash)

	// Second revoke and unknown plaintext are both silent no-ops.
	assert.NoError(t, h.svc.RevokeRefreshToken(context.Background(), r1.Plain))
	assert.NoError(t, h.svc.RevokeRefreshToken(context.Background(), "never-issued"))
}

func TestConcurrentRotationSingleWinner(t *testing.T) {
	h := newHarness(t)
	_, r1, _ := h.login(t)
	h.now = h.now.Add(time.Minute)

	// Two clients race to rotate the same secret. The conditional
	// revoke admits exactly one write, so one must win and the other
	// must land in the reuse branch.
	start := make(chan struct{})
	errs := make(chan error, 2)
	var wg sync.WaitGroup
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-start
			_, _, err := h.svc.Refresh(context.Background(), r1.Plain, "10.0.0.1")
			errs <- err
		}()
	}
	close(start)
	wg.Wait()
	close(errs)

	var wins, losses int
	for err := range errs {
		switch {
		case err == nil:
			wins++
		case errors.Is(err, ErrReusedToken):
			losses++
		default:
			t.Fatalf("unexpected refresh error: %v", err)
		}
	}
	assert.Equal(t, 1, wins)
	assert.Equal(t, 1, losses)

	// The contested row is terminally revoked.
	old := h.store.byHash(HashSecret(r1.Plain))
	require.NotNil(t, old)
	assert.True(t, old.Revoked())

	// The loser's family sweep leaves at most the winner's fresh token
	// alive, depending on whether the winner had persisted it yet.
	valid, err := h.store.GetValidByUser(context.Background(), 42)
	require.NoError(t, err)
	assert.LessOrEqual(t, len(valid), 1)

	// A later replay of the burned secret closes the family for good.
	_, _, err = h.svc.Refresh(context.Background(), r1.Plain, "203.0.113.7")
	assert.ErrorIs(t, err, ErrReusedToken)
	valid, err = h.store.GetValidByUser(context.Background(), 42)
	require.NoError(t, err)
	assert.Empty(t, valid)
}

func TestRevokedTokenCannotRefresh(t *testing.T) {
	h := newHarness(t)
	_, r1, _ := h.login(t)

	require.NoError(t, h.svc.RevokeRefreshToken(context.Background(), r1.Plain))

	_, _, err := h.svc.Refresh(context.Background(), r1.Plain, "10.0.0.1")
	assert.ErrorIs(t, err, ErrReusedToken)
}
