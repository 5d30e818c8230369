// Package session owns the authenticated user, the bearer token, and the
// single active workspace selection, and keeps their durable counterparts in
// lockstep: the token and the active workspace id are always persisted or
// cleared together.
package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/luminalhq/luminal-shell/internal/api"
	"github.com/luminalhq/luminal-shell/internal/domain/activity"
	"github.com/luminalhq/luminal-shell/internal/domain/user"
	"github.com/luminalhq/luminal-shell/internal/storage"
)

// AuthAPI defines the auth operations the manager needs.
type AuthAPI interface {
	Login(ctx context.Context, email, password string) (*api.LoginResult, error)
	Me(ctx context.Context) (*user.User, error)
}

// Journal records session events; satisfied by activity.Service.
type Journal interface {
	Record(ctx context.Context, entry *activity.Entry) error
}

// Manager coordinates the auth session.
type Manager struct {
	auth    AuthAPI
	state   storage.StateStore
	journal Journal
	logger  *slog.Logger

	mu                sync.Mutex
	token             string
	user              *user.User
	activeWorkspaceID string
	loading           bool
	loginErr          string
	subs              map[int]func()
	nextSub           int
}

// NewManager creates a session manager. journal may be nil.
func NewManager(auth AuthAPI, state storage.StateStore, journal Journal, logger *slog.Logger) *Manager {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Manager{
		auth:    auth,
		state:   state,
		journal: journal,
		logger:  logger,
		subs:    make(map[int]func()),
	}
}

// Subscribe registers fn to run after every session state change. The
// returned function removes the subscription.
func (m *Manager) Subscribe(fn func()) func() {
	m.mu.Lock()
	id := m.nextSub
	m.nextSub++
	m.subs[id] = fn
	m.mu.Unlock()

	return func() {
		m.mu.Lock()
		delete(m.subs, id)
		m.mu.Unlock()
	}
}

// Bootstrap restores a persisted session at startup. A missing token settles
// into a clean unauthenticated state; a token that fails validation is torn
// down the same way. Bootstrap never fails the application.
func (m *Manager) Bootstrap(ctx context.Context) {
	token, err := m.state.Read(ctx, storage.KeyAuthToken)
	if err != nil {
		if !errors.Is(err, storage.ErrNotFound) {
			m.logger.Warn("reading persisted token", "error", err)
		}
		// No token: make sure no stale workspace selection survives either.
		m.deleteState(ctx, storage.KeyActiveWorkspace)
		m.setUnauthenticated("")
		return
	}

	m.mu.Lock()
	m.token = token
	m.loading = true
	m.mu.Unlock()
	m.notify()

	profile, err := m.auth.Me(ctx)
	if err != nil {
		m.logger.Warn("session bootstrap failed, settling unauthenticated", "error", err)
		m.clearPersisted(ctx)
		m.setUnauthenticated("")
		return
	}

	m.commitProfile(ctx, token, profile)
}

// Login authenticates with credentials. On failure no partial session state
// survives: the token and the workspace selection are cleared, a
// user-visible message is stored, and the error is returned to the caller.
func (m *Manager) Login(ctx context.Context, email, password string) error {
	m.mu.Lock()
	m.loading = true
	m.loginErr = ""
	m.mu.Unlock()
	m.notify()

	result, err := m.auth.Login(ctx, email, password)
	if err != nil {
		m.clearPersisted(ctx)
		m.setUnauthenticated(loginMessage(err))
		return fmt.Errorf("login: %w", err)
	}

	m.writeState(ctx, storage.KeyAuthToken, result.Token)
	m.commitProfile(ctx, result.Token, result.User)
	m.record(ctx, &activity.Entry{
		EventType:   activity.TypeLogin,
		WorkspaceID: m.ActiveWorkspaceID(),
		Summary:     "logged in as " + result.User.Email,
	})
	return nil
}

// Logout tears the session down synchronously: token, user, workspace
// selection, and their persisted counterparts. No network call is involved.
func (m *Manager) Logout() {
	ctx := context.Background()
	m.mu.Lock()
	email := ""
	if m.user != nil {
		email = m.user.Email
	}
	m.mu.Unlock()

	m.clearPersisted(ctx)
	m.setUnauthenticated("")
	if email != "" {
		m.record(ctx, &activity.Entry{
			EventType: activity.TypeLogout,
			Summary:   "logged out " + email,
		})
	}
}

// Refresh re-fetches the profile and re-resolves the workspace. A refresh
// failure means the session is no longer valid, so it delegates to Logout
// instead of surfacing an error.
func (m *Manager) Refresh(ctx context.Context) {
	m.mu.Lock()
	token := m.token
	m.mu.Unlock()
	if token == "" {
		return
	}

	profile, err := m.auth.Me(ctx)
	if err != nil {
		m.logger.Warn("session refresh failed, logging out", "error", err)
		m.Logout()
		return
	}

	m.commitProfile(ctx, token, profile)
}

// SelectWorkspace activates the given workspace if the user is a member of
// it, and clears the selection otherwise. It never fails.
func (m *Manager) SelectWorkspace(workspaceID string) {
	ctx := context.Background()

	m.mu.Lock()
	selected := ""
	if m.user.WorkspaceByID(workspaceID) != nil {
		selected = workspaceID
	}
	changed := m.activeWorkspaceID != selected
	m.activeWorkspaceID = selected
	m.mu.Unlock()

	m.persistWorkspace(ctx, selected)
	if !changed {
		return
	}
	if selected != "" {
		m.record(ctx, &activity.Entry{
			EventType:   activity.TypeWorkspaceSelected,
			WorkspaceID: selected,
			Summary:     "switched workspace",
		})
	}
	m.notify()
}

// AuthHeaders returns the headers every outbound platform request carries.
func (m *Manager) AuthHeaders() map[string]string {
	m.mu.Lock()
	defer m.mu.Unlock()

	headers := make(map[string]string, 2)
	if m.token != "" {
		headers["Authorization"] = "Bearer " + m.token
	}
	if m.activeWorkspaceID != "" {
		headers["x-workspace-id"] = m.activeWorkspaceID
	}
	return headers
}

// Token returns the current bearer token, or "".
func (m *Manager) Token() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.token
}

// User returns the authenticated user, or nil.
func (m *Manager) User() *user.User {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.user
}

// ActiveWorkspaceID returns the active workspace id, or "".
func (m *Manager) ActiveWorkspaceID() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.activeWorkspaceID
}

// ActiveWorkspace returns the active workspace membership, or nil.
func (m *Manager) ActiveWorkspace() *user.Workspace {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.user.WorkspaceByID(m.activeWorkspaceID)
}

// Authenticated reports whether a user is logged in.
func (m *Manager) Authenticated() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.token != "" && m.user != nil
}

// Loading reports whether a bootstrap or login is in flight.
func (m *Manager) Loading() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.loading
}

// LoginError returns the user-visible message from the last failed login.
func (m *Manager) LoginError() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.loginErr
}

// commitProfile installs a freshly loaded profile and resolves the active
// workspace. Resolution precedence: the persisted selection if still
// present in the profile's workspace list, then the server-designated
// active workspace, then the first workspace, then none. The outcome is
// written back to storage so persisted and in-memory state never diverge.
func (m *Manager) commitProfile(ctx context.Context, token string, profile *user.User) {
	persisted, err := m.state.Read(ctx, storage.KeyActiveWorkspace)
	if err != nil && !errors.Is(err, storage.ErrNotFound) {
		m.logger.Warn("reading persisted workspace", "error", err)
	}

	resolved := resolveWorkspace(profile, persisted)

	m.mu.Lock()
	m.token = token
	m.user = profile
	m.activeWorkspaceID = resolved
	m.loading = false
	m.loginErr = ""
	m.mu.Unlock()

	m.persistWorkspace(ctx, resolved)
	m.notify()
}

func resolveWorkspace(profile *user.User, persisted string) string {
	if profile.WorkspaceByID(persisted) != nil {
		return persisted
	}
	if profile.WorkspaceByID(profile.ActiveWorkspaceID) != nil {
		return profile.ActiveWorkspaceID
	}
	if len(profile.Workspaces) > 0 {
		return profile.Workspaces[0].ID
	}
	return ""
}

func (m *Manager) setUnauthenticated(loginErr string) {
	m.mu.Lock()
	m.token = ""
	m.user = nil
	m.activeWorkspaceID = ""
	m.loading = false
	m.loginErr = loginErr
	m.mu.Unlock()
	m.notify()
}

func (m *Manager) persistWorkspace(ctx context.Context, workspaceID string) {
	if workspaceID == "" {
		m.deleteState(ctx, storage.KeyActiveWorkspace)
		return
	}
	m.writeState(ctx, storage.KeyActiveWorkspace, workspaceID)
}

func (m *Manager) clearPersisted(ctx context.Context) {
	m.deleteState(ctx, storage.KeyAuthToken)
	m.deleteState(ctx, storage.KeyActiveWorkspace)
}

func (m *Manager) writeState(ctx context.Context, key, value string) {
	if err := m.state.Write(ctx, key, value); err != nil {
		m.logger.Warn("persisting client state", "key", key, "error", err)
	}
}

func (m *Manager) deleteState(ctx context.Context, key string) {
	if err := m.state.Delete(ctx, key); err != nil {
		m.logger.Warn("clearing client state", "key", key, "error", err)
	}
}

func (m *Manager) record(ctx context.Context, entry *activity.Entry) {
	if m.journal == nil {
		return
	}
	if err := m.journal.Record(ctx, entry); err != nil {
		m.logger.Debug("recording session event", "error", err)
	}
}

func (m *Manager) notify() {
	m.mu.Lock()
	fns := make([]func(), 0, len(m.subs))
	for _, fn := range m.subs {
		fns = append(fns, fn)
	}
	m.mu.Unlock()
	for _, fn := range fns {
		fn()
	}
}

// loginMessage turns a login failure into a message fit for the UI.
func loginMessage(err error) string {
	var validationErr *api.ValidationError
	switch {
	case errors.Is(err, api.ErrUnauthorized):
		return "invalid email or password"
	case errors.As(err, &validationErr):
		return validationErr.Message
	default:
		return "could not reach the Luminal API, try again"
	}
}
