package audit

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/portiva/portiva/internal/guard"
	"github.com/portiva/portiva/internal/identity"
	"github.com/portiva/portiva/internal/shared"
	_ "github.com/portiva/portiva/testing"
)

type memStore struct {
	mu     sync.Mutex
	tokens map[string]string
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

type roleResolver struct {
	role identity.Role
}

func (r roleResolver) Resolve(ctx context.Context, token string) (*identity.Principal, error) {
	return &identity.Principal{ID: 1, Username: "tester", Role: r.role}, nil
}

func newAuditRouter(t *testing.T, role identity.Role, withToken bool) http.Handler {
	t.Helper()
	store := &memStore{tokens: map[string]string{}}
	if withToken {
		require.NoError(t, store.Set(context.Background(), "sid-1", "tok"))
	}
	svc := NewService(&mockStore{events: []Event{{ID: 1, Kind: KindDecision, Outcome: "allowed"}}}, nil)
	handler := NewHandler(nil, svc, guard.New(store, roleResolver{role: role}, nil))

	router := chi.NewRouter()
	handler.MountRoutes(router)
	return router
}

func getRecent(router http.Handler) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/recent", nil)
	req = req.WithContext(shared.ContextWithSessionID(req.Context(), "sid-1"))
	res := httptest.NewRecorder()
	router.ServeHTTP(res, req)
	return res
}

func TestRecentRequiresSession(t *testing.T) {
	router := newAuditRouter(t, identity.RoleAdmin, false)
	res := getRecent(router)
	assert.Equal(t, http.StatusForbidden, res.Code)
}

func TestRecentRequiresAdmin(t *testing.T) {
	for _, role := range []identity.Role{identity.RoleSiswa, identity.RoleGuru, identity.RoleUnknown} {
		router := newAuditRouter(t, role, true)
		res := getRecent(router)
		assert.Equal(t, http.StatusForbidden, res.Code, "role %q must not read the audit trail", role)
	}
}

func TestRecentReturnsEventsForAdmin(t *testing.T) {
	router := newAuditRouter(t, identity.RoleAdmin, true)
	res := getRecent(router)

	require.Equal(t, http.StatusOK, res.Code)
	assert.Contains(t, res.Body.String(), `"events"`)
	assert.Contains(t, res.Body.String(), `"allowed"`)
}
