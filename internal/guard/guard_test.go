package guard

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/portiva/portiva/internal/identity"
	"github.com/portiva/portiva/internal/shared"
)

type memStore struct {
	mu     sync.Mutex
	tokens map[string]string
}

func newMemStore() *memStore {
	return &memStore{tokens: make(map[string]string)}
}

func (m *memStore) Has(ctx context.Context, sessionID string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.tokens[sessionID]
	return ok, nil
}

func (m *memStore) Get(ctx context.Context, sessionID string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	token, ok := m.tokens[sessionID]
	if !ok {
		return "", shared.ErrNoCredential
	}
	return token, nil
}

func (m *memStore) Set(ctx context.Context, sessionID, token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tokens[sessionID] = token
	return nil
}

func (m *memStore) Clear(ctx context.Context, sessionID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.tokens, sessionID)
	return nil
}

type stubResolver struct {
	calls     int
	principal *identity.Principal
	err       error
	onResolve func()
}

func (s *stubResolver) Resolve(ctx context.Context, token string) (*identity.Principal, error) {
	s.calls++
	if s.onResolve != nil {
		s.onResolve()
	}
	if s.err != nil {
		return nil, s.err
	}
	return s.principal, nil
}

func TestCheckNoTokenDeniesWithoutNetwork(t *testing.T) {
	store := newMemStore()
	resolver := &stubResolver{err: errors.New("must not be called")}
	g := New(store, resolver, nil)

	res, err := g.Check(context.Background(), "sid-1")
	require.NoError(t, err)

	assert.Equal(t, DeniedNoToken, res.Status)
	assert.Equal(t, TargetLogin, res.Redirect())
	assert.Zero(t, resolver.calls, "no network call may happen without a token")
}

func TestCheckResolutionFailureDenies(t *testing.T) {
	store := newMemStore()
	require.NoError(t, store.Set(context.Background(), "sid-1", "tok"))
	resolver := &stubResolver{err: identity.ErrResolveFailed}
	g := New(store, resolver, nil)

	res, err := g.Check(context.Background(), "sid-1")
	require.NoError(t, err)

	assert.Equal(t, DeniedResolutionFailed, res.Status)
	// Behaviorally identical to a missing token.
	assert.Equal(t, TargetLogin, res.Redirect())
}

func TestCheckResolutionFailureNotifiesObserver(t *testing.T) {
	store := newMemStore()
	require.NoError(t, store.Set(context.Background(), "sid-1", "tok"))
	resolver := &stubResolver{err: identity.ErrResolveFailed}
	g := New(store, resolver, nil)

	var failures int
	g.OnResolveFailure(func() { failures++ })

	_, err := g.Check(context.Background(), "sid-1")
	require.NoError(t, err)
	assert.Equal(t, 1, failures)

	// A successful resolve must not notify.
	resolver.err = nil
	resolver.principal = &identity.Principal{ID: 1, Role: identity.RoleSiswa}
	_, err = g.Check(context.Background(), "sid-1")
	require.NoError(t, err)
	assert.Equal(t, 1, failures)

	// Neither may the no-token denial: nothing was resolved.
	require.NoError(t, store.Clear(context.Background(), "sid-1"))
	_, err = g.Check(context.Background(), "sid-1")
	require.NoError(t, err)
	assert.Equal(t, 1, failures)
}

func TestCheckAllowedAttachesPrincipal(t *testing.T) {
	store := newMemStore()
	require.NoError(t, store.Set(context.Background(), "sid-1", "tok"))
	resolver := &stubResolver{principal: &identity.Principal{ID: 1, Role: identity.RoleGuru}}
	g := New(store, resolver, nil)

	res, err := g.Check(context.Background(), "sid-1")
	require.NoError(t, err)

	assert.True(t, res.Allowed())
	assert.Equal(t, TargetNone, res.Redirect())
	require.NotNil(t, res.Principal)
	assert.Equal(t, identity.RoleGuru, res.Principal.Role)
}

func TestCheckIsIdempotent(t *testing.T) {
	store := newMemStore()
	require.NoError(t, store.Set(context.Background(), "sid-1", "tok"))
	resolver := &stubResolver{principal: &identity.Principal{ID: 1, Role: identity.RoleSiswa}}
	g := New(store, resolver, nil)

	first, err := g.Check(context.Background(), "sid-1")
	require.NoError(t, err)
	second, err := g.Check(context.Background(), "sid-1")
	require.NoError(t, err)

	assert.Equal(t, first.Status, second.Status)
	assert.Equal(t, first.Principal, second.Principal)
}

func TestCheckTokenClearedMidFlight(t *testing.T) {
	store := newMemStore()
	require.NoError(t, store.Set(context.Background(), "sid-1", "tok"))
	resolver := &stubResolver{principal: &identity.Principal{ID: 1, Role: identity.RoleSiswa}}
	// Simulate a logout racing the in-flight resolve.
	resolver.onResolve = func() {
		_ = store.Clear(context.Background(), "sid-1")
	}
	g := New(store, resolver, nil)

	res, err := g.Check(context.Background(), "sid-1")
	require.NoError(t, err)

	assert.Equal(t, DeniedNoToken, res.Status)
}

func TestCheckDoesNotClearCredentialOnFailure(t *testing.T) {
	store := newMemStore()
	require.NoError(t, store.Set(context.Background(), "sid-1", "tok"))
	resolver := &stubResolver{err: identity.ErrResolveFailed}
	g := New(store, resolver, nil)

	_, err := g.Check(context.Background(), "sid-1")
	require.NoError(t, err)

	has, err := store.Has(context.Background(), "sid-1")
	require.NoError(t, err)
	assert.True(t, has, "the guard reads identity, it does not terminate sessions")
}
