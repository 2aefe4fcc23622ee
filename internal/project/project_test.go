// AngelaMos | 2026
// project_test.go

package project

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sivakrishna1252/Bauhaus-Admin/internal/config"
	"github.com/sivakrishna1252/Bauhaus-Admin/internal/core"
	"github.com/sivakrishna1252/Bauhaus-Admin/internal/entry"
	"github.com/sivakrishna1252/Bauhaus-Admin/internal/middleware"
	"github.com/sivakrishna1252/Bauhaus-Admin/internal/storage"
)

type memProjects struct {
	mu        sync.Mutex
	projects  map[string]Project
	usernames map[string]string
	clock     time.Time
}

func (m *memProjects) Create(_ context.Context, p *Project) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.clock = m.clock.Add(time.Second)
	p.Status = StatusPending
	p.CreatedAt = m.clock
	p.UpdatedAt = m.clock
	p.ClientUsername = m.usernames[p.ClientID]
	m.projects[p.ID] = *p
	return nil
}

func (m *memProjects) GetByID(_ context.Context, id string) (*Project, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	p, ok := m.projects[id]
	if !ok {
		return nil, core.ErrNotFound
	}
	return &p, nil
}

func (m *memProjects) List(_ context.Context) ([]Project, error) {
	return m.filter(func(Project) bool { return true }), nil
}

func (m *memProjects) ListByClient(_ context.Context, clientID string) ([]Project, error) {
	return m.filter(func(p Project) bool { return p.ClientID == clientID }), nil
}

func (m *memProjects) filter(keep func(Project) bool) []Project {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := []Project{}
	for _, p := range m.projects {
		if keep(p) {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out
}

func (m *memProjects) UpdateStatus(_ context.Context, id, status string) (*Project, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	p, ok := m.projects[id]
	if !ok {
		return nil, core.ErrNotFound
	}
	m.clock = m.clock.Add(time.Second)
	p.Status = status
	p.UpdatedAt = m.clock
	m.projects[id] = p
	p.ClientUsername = ""
	return &p, nil
}

func (m *memProjects) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.projects[id]; !ok {
		return core.ErrNotFound
	}
	delete(m.projects, id)
	return nil
}

type knownClients map[string]bool

func (k knownClients) Exists(_ context.Context, id string) (bool, error) {
	return k[id], nil
}

type memEntries struct {
	mu      sync.Mutex
	entries []entry.Entry
	clock   time.Time
}

func (m *memEntries) CreateBatch(_ context.Context, entries []entry.Entry) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i := range entries {
		m.clock = m.clock.Add(time.Millisecond)
		entries[i].CreatedAt = m.clock
		m.entries = append(m.entries, entries[i])
	}
	return nil
}

func (m *memEntries) GetByID(_ context.Context, id string) (*entry.Entry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, e := range m.entries {
		if e.ID == id {
			return &e, nil
		}
	}
	return nil, core.ErrNotFound
}

func (m *memEntries) ListByProject(ctx context.Context, projectID string) ([]entry.Entry, error) {
	return m.ListByProjects(ctx, []string{projectID})
}

func (m *memEntries) ListByProjects(_ context.Context, ids []string) ([]entry.Entry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := []entry.Entry{}
	for i := len(m.entries) - 1; i >= 0; i-- {
		for _, id := range ids {
			if m.entries[i].ProjectID == id {
				out = append(out, m.entries[i])
			}
		}
	}
	return out, nil
}

func (m *memEntries) Update(_ context.Context, e *entry.Entry) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i := range m.entries {
		if m.entries[i].ID == e.ID {
			m.entries[i] = *e
			return nil
		}
	}
	return core.ErrNotFound
}

func (m *memEntries) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i := range m.entries {
		if m.entries[i].ID == id {
			m.entries = append(m.entries[:i], m.entries[i+1:]...)
			return nil
		}
	}
	return core.ErrNotFound
}

type nullStore struct{}

func (nullStore) Save(_ context.Context, name, _ string, body io.ReadSeeker) (string, error) {
	if _, err := io.Copy(io.Discard, body); err != nil {
		return "", err
	}
	return "uploads/projects/" + name, nil
}

func (nullStore) Delete(context.Context, string) error { return nil }

type portal struct {
	projects *Service
	entries  *entry.Service
	router   http.Handler
	alice    string
	bob      string
	tokens   map[string]*middleware.AccessTokenClaims
}

type tokenTable map[string]*middleware.AccessTokenClaims

func (t tokenTable) VerifyAccessToken(_ context.Context, token string) (*middleware.AccessTokenClaims, error) {
	claims, ok := t[token]
	if !ok {
		return nil, core.ErrTokenInvalid
	}
	return claims, nil
}

func newPortal() *portal {
	alice := uuid.NewString()
	bob := uuid.NewString()
	start := time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)

	repo := &memProjects{
		projects:  map[string]Project{},
		usernames: map[string]string{alice: "alice", bob: "bob"},
		clock:     start,
	}
	entryRepo := &memEntries{clock: start}

	projects := NewService(repo, knownClients{alice: true, bob: true}, entryRepo)
	entries := entry.NewService(
		entryRepo,
		projects,
		nullStore{},
		storage.Policy{MaxFileSize: 1 << 20, MaxFiles: 20},
	)

	tokens := tokenTable{
		"admin": {UserID: uuid.NewString(), Role: middleware.RoleAdmin, Identity: "admin@studio.test"},
		"alice": {UserID: alice, Role: middleware.RoleClient, Identity: "alice"},
		"bob":   {UserID: bob, Role: middleware.RoleClient, Identity: "bob"},
	}

	r := chi.NewRouter()
	authn := middleware.Authenticator(tokens)
	NewHandler(projects).RegisterRoutes(r, authn, middleware.RequireAdmin, middleware.RequireClient)
	entry.NewHandler(entries, config.UploadConfig{
		MaxFileSize: 1 << 20,
		MaxFiles:    20,
		FieldName:   "media",
	}).RegisterRoutes(r, authn, middleware.RequireAdmin)

	return &portal{
		projects: projects,
		entries:  entries,
		router:   r,
		alice:    alice,
		bob:      bob,
		tokens:   tokens,
	}
}

func (p *portal) do(t *testing.T, token, method, path string, body io.Reader, contentType string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(method, path, body)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	rec := httptest.NewRecorder()
	p.router.ServeHTTP(rec, req)
	return rec
}

func (p *portal) createProject(t *testing.T, title, clientID string) Response {
	t.Helper()

	body := fmt.Sprintf(`{"title":%q,"clientId":%q}`, title, clientID)
	rec := p.do(t, "admin", http.MethodPost, "/projects", bytes.NewBufferString(body), "application/json")
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var resp Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp
}

func imageUpload(t *testing.T, description string, names ...string) (*bytes.Buffer, string) {
	t.Helper()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	require.NoError(t, w.WriteField("description", description))
	for _, name := range names {
		h := textproto.MIMEHeader{}
		h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="media"; filename="%s"`, name))
		h.Set("Content-Type", "image/jpeg")
		pw, err := w.CreatePart(h)
		require.NoError(t, err)
		_, err = pw.Write([]byte("jpeg"))
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())
	return &buf, w.FormDataContentType()
}

func TestPortal_ClientSeesOwnProjectWithEntries(t *testing.T) {
	p := newPortal()

	created := p.createProject(t, "Villa Renovation", p.alice)
	assert.Equal(t, StatusPending, created.Status)
	require.NotNil(t, created.Client)
	assert.Equal(t, "alice", created.Client.Username)

	body, ct := imageUpload(t, "Living room", "one.jpg", "two.jpg")
	rec := p.do(t, "admin", http.MethodPost, "/projects/"+created.ID+"/entries", body, ct)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = p.do(t, "alice", http.MethodGet, "/projects/"+created.ID, nil, "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var detail DetailResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &detail))
	assert.Equal(t, "Villa Renovation", detail.Title)
	require.Len(t, detail.Entries, 2)
	for _, e := range detail.Entries {
		require.Len(t, e.Media, 1)
		assert.Equal(t, storage.KindImage, e.Media[0].Type)
		assert.Equal(t, e.FileURL, e.Media[0].URL)
	}

	rec = p.do(t, "bob", http.MethodGet, "/projects/"+created.ID, nil, "")
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = p.do(t, "bob", http.MethodGet, "/projects/"+uuid.NewString(), nil, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = p.do(t, "bob", http.MethodGet, "/projects/not-a-uuid", nil, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestPortal_MyProjects(t *testing.T) {
	p := newPortal()

	first := p.createProject(t, "Kitchen", p.alice)
	second := p.createProject(t, "Bathroom", p.alice)
	p.createProject(t, "Office", p.bob)

	body, ct := imageUpload(t, "Tiles", "a.jpg")
	rec := p.do(t, "admin", http.MethodPost, "/projects/"+first.ID+"/entries", body, ct)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = p.do(t, "alice", http.MethodGet, "/my-projects", nil, "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var mine []DetailResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &mine))
	require.Len(t, mine, 2)
	assert.Equal(t, second.ID, mine[0].ID)
	assert.Empty(t, mine[0].Entries)
	assert.NotNil(t, mine[0].Entries)
	assert.Equal(t, first.ID, mine[1].ID)
	assert.Len(t, mine[1].Entries, 1)

	rec = p.do(t, "admin", http.MethodGet, "/my-projects", nil, "")
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestPortal_AdminOnlyRoutes(t *testing.T) {
	p := newPortal()

	rec := p.do(t, "alice", http.MethodGet, "/projects", nil, "")
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = p.do(t, "", http.MethodGet, "/projects", nil, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = p.do(t, "forged", http.MethodGet, "/projects", nil, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestPortal_CreateValidation(t *testing.T) {
	p := newPortal()

	tests := []struct {
		name   string
		body   string
		status int
		code   string
	}{
		{"missing title", fmt.Sprintf(`{"clientId":%q}`, p.alice), http.StatusBadRequest, "VALIDATION_ERROR"},
		{"missing client", `{"title":"Loft"}`, http.StatusBadRequest, "VALIDATION_ERROR"},
		{"unknown client", fmt.Sprintf(`{"title":"Loft","clientId":%q}`, uuid.NewString()), http.StatusNotFound, "CLIENT_NOT_FOUND"},
		{"malformed client id", `{"title":"Loft","clientId":"42"}`, http.StatusNotFound, "CLIENT_NOT_FOUND"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := p.do(t, "admin", http.MethodPost, "/projects", bytes.NewBufferString(tt.body), "application/json")
			assert.Equal(t, tt.status, rec.Code)
			assert.Contains(t, rec.Body.String(), tt.code)
		})
	}
}

func TestPortal_UpdateStatus(t *testing.T) {
	p := newPortal()
	created := p.createProject(t, "Penthouse", p.alice)
	path := "/projects/" + created.ID + "/status"

	for _, status := range []string{StatusInProgress, StatusDelayed, StatusCompleted, StatusPending} {
		rec := p.do(t, "admin", http.MethodPatch, path, bytes.NewBufferString(`{"status":"`+status+`"}`), "application/json")
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

		var resp Response
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, status, resp.Status)
	}

	rec := p.do(t, "admin", http.MethodPatch, path, bytes.NewBufferString(`{"status":"ARCHIVED"}`), "application/json")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = p.do(t, "admin", http.MethodPatch, "/projects/"+uuid.NewString()+"/status",
		bytes.NewBufferString(`{"status":"DELAYED"}`), "application/json")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestPortal_DeleteProject(t *testing.T) {
	p := newPortal()
	created := p.createProject(t, "Studio", p.alice)

	rec := p.do(t, "admin", http.MethodDelete, "/projects/"+created.ID, nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Project deleted successfully")

	rec = p.do(t, "admin", http.MethodDelete, "/projects/"+created.ID, nil, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestService_CheckAccess(t *testing.T) {
	p := newPortal()
	ctx := context.Background()

	proj, err := p.projects.Create(ctx, CreateProjectRequest{Title: "  Attic  ", ClientID: p.alice})
	require.NoError(t, err)
	assert.Equal(t, "Attic", proj.Title)

	assert.NoError(t, p.projects.CheckAccess(ctx, proj.ID, nil))
	assert.NoError(t, p.projects.CheckAccess(ctx, proj.ID, p.tokens["admin"]))
	assert.NoError(t, p.projects.CheckAccess(ctx, proj.ID, p.tokens["alice"]))
	assert.ErrorIs(t, p.projects.CheckAccess(ctx, proj.ID, p.tokens["bob"]), core.ErrForbidden)
	assert.ErrorIs(t, p.projects.CheckAccess(ctx, uuid.NewString(), p.tokens["bob"]), core.ErrNotFound)

	_, err = p.projects.UpdateStatus(ctx, proj.ID, "DONE")
	assert.ErrorIs(t, err, ErrInvalidStatus)
}
