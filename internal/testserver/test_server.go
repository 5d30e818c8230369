// Package testserver hosts a fake Luminal platform API for tests: canned
// credentials and projects behind the real wire envelopes, with call
// counters for asserting fetch behavior.
package testserver

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/luminalhq/luminal-shell/internal/domain/project"
	"github.com/luminalhq/luminal-shell/internal/domain/user"
)

// Fixture seeds the fake platform.
type Fixture struct {
	Email      string
	Password   string
	Token      string
	User       *user.User
	Workspaces map[string]*project.WorkspaceInfo
	Projects   []*project.Project
}

// FakePlatform is an httptest-backed platform API.
type FakePlatform struct {
	Server *httptest.Server

	mu       sync.Mutex
	fixture  Fixture
	projects map[string]*project.Project

	ListCalls   int
	DetailCalls int
	RegenCalls  int
	LoginCalls  int
	MeCalls     int

	// FailDetail makes detail fetches answer 502 until cleared.
	FailDetail bool
}

// New starts a fake platform seeded with fix. It shuts down with the test.
func New(t *testing.T, fix Fixture) *FakePlatform {
	t.Helper()

	f := &FakePlatform{
		fixture:  fix,
		projects: make(map[string]*project.Project, len(fix.Projects)),
	}
	for _, p := range fix.Projects {
		f.projects[p.ID] = p
	}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /auth/login", f.handleLogin)
	mux.HandleFunc("GET /auth/me", f.handleMe)
	mux.HandleFunc("GET /projects", f.handleList)
	mux.HandleFunc("GET /projects/{id}", f.handleDetail)
	mux.HandleFunc("POST /projects/{id}/regenerate-api-key", f.handleRegenerate)

	f.Server = httptest.NewServer(mux)
	t.Cleanup(f.Server.Close)
	return f
}

// URL returns the fake platform's base URL.
func (f *FakePlatform) URL() string {
	return f.Server.URL
}

// SetProjects replaces the project fixtures, simulating server-side changes
// between syncs.
func (f *FakePlatform) SetProjects(projects []*project.Project) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.projects = make(map[string]*project.Project, len(projects))
	for _, p := range projects {
		f.projects[p.ID] = p
	}
}

func (f *FakePlatform) handleLogin(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	f.LoginCalls++
	fix := f.fixture
	f.mu.Unlock()

	var creds struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&creds); err != nil {
		writeError(w, http.StatusBadRequest, "malformed login request")
		return
	}
	if creds.Email != fix.Email || creds.Password != fix.Password {
		writeError(w, http.StatusUnauthorized, "invalid credentials")
		return
	}

	writeJSON(w, map[string]any{
		"token": fix.Token,
		"data":  map[string]any{"user": fix.User},
	})
}

func (f *FakePlatform) handleMe(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	f.MeCalls++
	fix := f.fixture
	f.mu.Unlock()

	if !f.authorized(r) {
		writeError(w, http.StatusUnauthorized, "invalid or expired token")
		return
	}
	writeJSON(w, map[string]any{
		"data": map[string]any{"user": fix.User},
	})
}

func (f *FakePlatform) handleList(w http.ResponseWriter, r *http.Request) {
	if !f.authorized(r) {
		writeError(w, http.StatusUnauthorized, "invalid or expired token")
		return
	}

	workspaceID := r.Header.Get("x-workspace-id")

	f.mu.Lock()
	f.ListCalls++
	var listed []*project.Project
	for _, p := range f.projects {
		if p.WorkspaceID != workspaceID {
			continue
		}
		// List payloads omit the nested workspace summary.
		bare := *p
		bare.Workspace = nil
		listed = append(listed, &bare)
	}
	f.mu.Unlock()

	if listed == nil {
		listed = []*project.Project{}
	}
	writeJSON(w, map[string]any{
		"data": map[string]any{"projects": listed},
	})
}

func (f *FakePlatform) handleDetail(w http.ResponseWriter, r *http.Request) {
	if !f.authorized(r) {
		writeError(w, http.StatusUnauthorized, "invalid or expired token")
		return
	}

	f.mu.Lock()
	f.DetailCalls++
	if f.FailDetail {
		f.mu.Unlock()
		writeError(w, http.StatusBadGateway, "upstream unavailable")
		return
	}
	p, ok := f.projects[r.PathValue("id")]
	var detailed project.Project
	if ok {
		detailed = *p
		if detailed.Workspace == nil {
			detailed.Workspace = f.fixture.Workspaces[detailed.WorkspaceID]
		}
	}
	f.mu.Unlock()

	if !ok {
		writeError(w, http.StatusNotFound, "project not found")
		return
	}
	writeJSON(w, map[string]any{
		"data": map[string]any{"project": &detailed},
	})
}

func (f *FakePlatform) handleRegenerate(w http.ResponseWriter, r *http.Request) {
	if !f.authorized(r) {
		writeError(w, http.StatusUnauthorized, "invalid or expired token")
		return
	}

	f.mu.Lock()
	f.RegenCalls++
	p, ok := f.projects[r.PathValue("id")]
	var updated project.Project
	if ok {
		p.APIKey = "lum_" + uuid.NewString()
		updated = *p
		if updated.Workspace == nil {
			updated.Workspace = f.fixture.Workspaces[updated.WorkspaceID]
		}
	}
	f.mu.Unlock()

	if !ok {
		writeError(w, http.StatusNotFound, "project not found")
		return
	}
	writeJSON(w, map[string]any{
		"data": map[string]any{"project": &updated},
	})
}

func (f *FakePlatform) authorized(r *http.Request) bool {
	f.mu.Lock()
	token := f.fixture.Token
	f.mu.Unlock()

	auth := r.Header.Get("Authorization")
	return strings.TrimSpace(strings.TrimPrefix(auth, "Bearer ")) == token
}

func writeJSON(w http.ResponseWriter, payload any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]any{
		"error": map[string]any{"message": message},
	})
}
