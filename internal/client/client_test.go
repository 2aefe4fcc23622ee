// AngelaMos | 2026
// client_test.go

package client

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sivakrishna1252/Bauhaus-Admin/internal/core"
)

type memRepo struct {
	mu       sync.Mutex
	clients  map[string]*Client
	files    map[string][]string
	onDelete func()
}

func newMemRepo() *memRepo {
	return &memRepo{
		clients: map[string]*Client{},
		files:   map[string][]string{},
	}
}

func (m *memRepo) List(_ context.Context) ([]Client, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]Client, 0, len(m.clients))
	for _, c := range m.clients {
		out = append(out, *c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (m *memRepo) GetByID(_ context.Context, id string) (*Client, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	c, ok := m.clients[id]
	if !ok {
		return nil, core.ErrNotFound
	}
	cp := *c
	return &cp, nil
}

func (m *memRepo) GetByUsername(_ context.Context, username string) (*Client, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, c := range m.clients {
		if c.Username == username {
			cp := *c
			return &cp, nil
		}
	}
	return nil, core.ErrNotFound
}

func (m *memRepo) ListPinHashes(_ context.Context, excludeID string) ([]PinHash, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var out []PinHash
	for _, c := range m.clients {
		if c.ID != excludeID {
			out = append(out, PinHash{ID: c.ID, PinHash: c.PinHash})
		}
	}
	return out, nil
}

func (m *memRepo) Create(_ context.Context, client *Client) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, c := range m.clients {
		if c.Username == client.Username {
			return core.ErrDuplicateKey
		}
	}
	client.CreatedAt = time.Now().Add(time.Duration(len(m.clients)) * time.Millisecond)
	cp := *client
	m.clients[client.ID] = &cp
	return nil
}

func (m *memRepo) UpdatePinHash(_ context.Context, id, pinHash string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	c, ok := m.clients[id]
	if !ok {
		return core.ErrNotFound
	}
	c.PinHash = pinHash
	return nil
}

func (m *memRepo) SetBlocked(_ context.Context, id string, blocked bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	c, ok := m.clients[id]
	if !ok {
		return core.ErrNotFound
	}
	c.IsBlocked = blocked
	return nil
}

func (m *memRepo) FileRefs(_ context.Context, id string) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	return append([]string(nil), m.files[id]...), nil
}

func (m *memRepo) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.clients[id]; !ok {
		return core.ErrNotFound
	}
	delete(m.clients, id)
	delete(m.files, id)
	if m.onDelete != nil {
		m.onDelete()
	}
	return nil
}

type fakeFiles struct {
	mu       sync.Mutex
	attempts []string
	fail     map[string]bool
}

func (f *fakeFiles) Delete(ctx context.Context, ref string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return err
	}
	f.attempts = append(f.attempts, ref)
	if f.fail[ref] {
		return errors.New("permission denied")
	}
	return nil
}

func newTestService() (*Service, *memRepo, *fakeFiles) {
	repo := newMemRepo()
	files := &fakeFiles{fail: map[string]bool{}}
	return NewService(repo, NewScanPinIndex(repo), files), repo, files
}

func TestCreate_RejectsDuplicateUsername(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()

	_, err := svc.Create(ctx, CreateClientRequest{Username: "alice", Pin: "1234"})
	require.NoError(t, err)

	_, err = svc.Create(ctx, CreateClientRequest{Username: "alice", Pin: "9876"})
	assert.ErrorIs(t, err, ErrDuplicateUsername)
}

func TestCreate_RejectsPinUsedByAnyClient(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()

	_, err := svc.Create(ctx, CreateClientRequest{Username: "alice", Pin: "1111"})
	require.NoError(t, err)
	_, err = svc.Create(ctx, CreateClientRequest{Username: "bob", Pin: "2222"})
	require.NoError(t, err)

	_, err = svc.Create(ctx, CreateClientRequest{Username: "carol", Pin: "2222"})
	assert.ErrorIs(t, err, ErrDuplicatePin)

	_, err = svc.Create(ctx, CreateClientRequest{Username: "carol", Pin: "1111"})
	assert.ErrorIs(t, err, ErrDuplicatePin)

	c, err := svc.Create(ctx, CreateClientRequest{Username: "carol", Pin: "3333"})
	require.NoError(t, err)
	assert.NotEqual(t, "3333", c.PinHash)
	assert.True(t, strings.HasPrefix(c.PinHash, "$argon2id$"))
}

func TestResetPin(t *testing.T) {
	svc, repo, _ := newTestService()
	ctx := context.Background()

	alice, err := svc.Create(ctx, CreateClientRequest{Username: "alice", Pin: "1111"})
	require.NoError(t, err)
	_, err = svc.Create(ctx, CreateClientRequest{Username: "bob", Pin: "2222"})
	require.NoError(t, err)

	t.Run("own current pin is accepted", func(t *testing.T) {
		require.NoError(t, svc.ResetPin(ctx, alice.ID, "1111"))
	})

	t.Run("other client's pin is rejected", func(t *testing.T) {
		assert.ErrorIs(t, svc.ResetPin(ctx, alice.ID, "2222"), ErrDuplicatePin)
	})

	t.Run("new pin replaces hash", func(t *testing.T) {
		require.NoError(t, svc.ResetPin(ctx, alice.ID, "4444"))

		stored, err := repo.GetByID(ctx, alice.ID)
		require.NoError(t, err)
		ok, err := core.VerifyPassword("4444", stored.PinHash)
		require.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("missing client", func(t *testing.T) {
		assert.ErrorIs(t, svc.ResetPin(ctx, uuid.NewString(), "5555"), core.ErrNotFound)
	})
}

func TestBlockUnblock(t *testing.T) {
	svc, repo, _ := newTestService()
	ctx := context.Background()

	c, err := svc.Create(ctx, CreateClientRequest{Username: "alice", Pin: "1234"})
	require.NoError(t, err)

	require.NoError(t, svc.Block(ctx, c.ID))
	stored, _ := repo.GetByID(ctx, c.ID)
	assert.True(t, stored.IsBlocked)

	require.NoError(t, svc.Unblock(ctx, c.ID))
	stored, _ = repo.GetByID(ctx, c.ID)
	assert.False(t, stored.IsBlocked)

	assert.ErrorIs(t, svc.Block(ctx, uuid.NewString()), core.ErrNotFound)
}

func TestDelete_CascadesAndToleratesFileFailures(t *testing.T) {
	svc, repo, files := newTestService()
	ctx := context.Background()

	c, err := svc.Create(ctx, CreateClientRequest{Username: "alice", Pin: "1234"})
	require.NoError(t, err)

	refs := []string{
		"uploads/projects/1.jpg",
		"uploads/projects/2.jpg",
		"uploads/projects/3.mp4",
		"uploads/projects/4.pdf",
	}
	repo.files[c.ID] = refs
	files.fail["uploads/projects/2.jpg"] = true

	result, err := svc.Delete(ctx, c.ID)
	require.NoError(t, err)

	assert.Equal(t, refs, files.attempts)
	assert.Equal(t, 3, result.FilesRemoved)
	assert.Equal(t, 1, result.FilesFailed)

	_, err = repo.GetByID(ctx, c.ID)
	assert.ErrorIs(t, err, core.ErrNotFound)
}

func TestDelete_RemovesFilesAfterCallerCancels(t *testing.T) {
	svc, repo, files := newTestService()

	c, err := svc.Create(context.Background(), CreateClientRequest{Username: "alice", Pin: "1234"})
	require.NoError(t, err)

	refs := []string{"uploads/projects/1.jpg", "uploads/projects/2.pdf"}
	repo.files[c.ID] = refs

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	repo.onDelete = cancel

	result, err := svc.Delete(ctx, c.ID)
	require.NoError(t, err)

	assert.Equal(t, refs, files.attempts)
	assert.Equal(t, 2, result.FilesRemoved)
	assert.Zero(t, result.FilesFailed)
}

func TestDelete_MissingClient(t *testing.T) {
	svc, _, files := newTestService()

	_, err := svc.Delete(context.Background(), uuid.NewString())

	assert.ErrorIs(t, err, core.ErrNotFound)
	assert.Empty(t, files.attempts)
}

func TestGetByUsername_ExposesBlockedFlag(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()

	c, err := svc.Create(ctx, CreateClientRequest{Username: "alice", Pin: "1234"})
	require.NoError(t, err)
	require.NoError(t, svc.Block(ctx, c.ID))

	info, err := svc.GetByUsername(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, c.ID, info.ID)
	assert.True(t, info.IsBlocked)
}

func passthrough(next http.Handler) http.Handler { return next }

func newTestRouter(svc *Service) http.Handler {
	r := chi.NewRouter()
	NewHandler(svc).RegisterRoutes(r, passthrough, passthrough)
	return r
}

func do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestHandler_CreateAndList(t *testing.T) {
	svc, _, _ := newTestService()
	router := newTestRouter(svc)

	rec := do(t, router, http.MethodPost, "/admin/clients", `{"username":"alice","pin":"1234"}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	var created CreatedClientResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	assert.Equal(t, "alice", created.Username)
	assert.NotEmpty(t, created.ID)

	rec = do(t, router, http.MethodGet, "/admin/clients", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotContains(t, rec.Body.String(), "pin")

	var list []ClientResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	require.Len(t, list, 1)
	assert.False(t, list[0].IsBlocked)
}

func TestHandler_CreateValidation(t *testing.T) {
	svc, _, _ := newTestService()
	router := newTestRouter(svc)

	cases := map[string]string{
		"short pin":     `{"username":"alice","pin":"123"}`,
		"non numeric":   `{"username":"alice","pin":"12a4"}`,
		"missing name":  `{"pin":"1234"}`,
		"unknown field": `{"username":"alice","pin":"1234","role":"ADMIN"}`,
		"malformed":     `{"username":`,
	}

	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			rec := do(t, router, http.MethodPost, "/admin/clients", body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
}

func TestHandler_DuplicatePin(t *testing.T) {
	svc, _, _ := newTestService()
	router := newTestRouter(svc)

	rec := do(t, router, http.MethodPost, "/admin/clients", `{"username":"alice","pin":"1234"}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = do(t, router, http.MethodPost, "/admin/clients", `{"username":"bob","pin":"1234"}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	var body core.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "DUPLICATE_PIN", body.Error)
}

func TestHandler_NotFound(t *testing.T) {
	svc, _, _ := newTestService()
	router := newTestRouter(svc)

	rec := do(t, router, http.MethodPatch, "/admin/clients/not-a-uuid/block", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = do(t, router, http.MethodDelete, "/admin/clients/"+uuid.NewString(), "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = do(t, router, http.MethodPatch, "/admin/clients/"+uuid.NewString()+"/reset-pin", `{"newPin":"1234"}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
