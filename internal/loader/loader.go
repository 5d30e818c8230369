// Package loader keeps the cache in step with the active workspace: it
// fetches the workspace's project list and reconciles it into the store,
// discarding responses that resolve after the workspace has changed.
package loader

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/luminalhq/luminal-shell/internal/api"
	"github.com/luminalhq/luminal-shell/internal/cache"
	"github.com/luminalhq/luminal-shell/internal/domain/activity"
	"github.com/luminalhq/luminal-shell/internal/domain/project"
)

// ProjectAPI defines the list fetch the loader needs. The request is scoped
// server-side by the x-workspace-id header the client attaches.
type ProjectAPI interface {
	ListProjects(ctx context.Context) ([]*project.Project, error)
}

// Session exposes the parts of the session manager the loader depends on.
type Session interface {
	ActiveWorkspaceID() string
	Subscribe(fn func()) func()
}

// Journal records sync events; satisfied by activity.Service.
type Journal interface {
	Record(ctx context.Context, entry *activity.Entry) error
}

// Loader drives workspace-scoped project syncs. At most one fetch is in
// flight at a time; starting a new sync or switching workspaces cancels the
// previous one, and a response that resolves for a workspace that is no
// longer active is discarded without touching the cache.
type Loader struct {
	api     ProjectAPI
	store   *cache.Store
	session Session
	journal Journal
	logger  *slog.Logger

	mu      sync.Mutex
	current *flight
	lastErr string
}

// flight identifies one in-flight list fetch so a finishing sync only
// clears its own registration, never a newer one.
type flight struct {
	cancel context.CancelFunc
}

// New creates a loader. journal may be nil.
func New(projectAPI ProjectAPI, store *cache.Store, sess Session, journal Journal, logger *slog.Logger) *Loader {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Loader{
		api:     projectAPI,
		store:   store,
		session: sess,
		journal: journal,
		logger:  logger,
	}
}

// Start subscribes to session changes and resyncs in the background whenever
// the active workspace changes. The returned function stops the loader and
// cancels any in-flight fetch.
func (l *Loader) Start(ctx context.Context) func() {
	last := l.session.ActiveWorkspaceID()
	var mu sync.Mutex

	unsubscribe := l.session.Subscribe(func() {
		current := l.session.ActiveWorkspaceID()
		mu.Lock()
		changed := current != last
		last = current
		mu.Unlock()
		if !changed {
			return
		}
		l.cancelInFlight()
		if current == "" {
			return
		}
		go func() {
			if err := l.Sync(ctx); err != nil {
				l.logger.Warn("background project sync failed", "workspace_id", current, "error", err)
			}
		}()
	})

	return func() {
		unsubscribe()
		l.cancelInFlight()
	}
}

// Sync fetches the active workspace's project list and reconciles it into
// the cache. Cancellations are benign and leave no error behind; other
// failures keep the cache at its last-known-good state and are surfaced.
func (l *Loader) Sync(ctx context.Context) error {
	requested := l.session.ActiveWorkspaceID()
	if requested == "" {
		return nil
	}

	fetchCtx, cancel := context.WithCancel(ctx)
	own := &flight{cancel: cancel}
	l.mu.Lock()
	if l.current != nil {
		l.current.cancel()
	}
	l.current = own
	l.mu.Unlock()

	projects, err := l.api.ListProjects(fetchCtx)
	cancel()

	l.mu.Lock()
	if l.current == own {
		l.current = nil
	}
	l.mu.Unlock()

	if err != nil {
		if api.IsCanceled(err) {
			return nil
		}
		l.setLastErr(err.Error())
		return fmt.Errorf("syncing projects for workspace %s: %w", requested, err)
	}

	// A workspace switch while the request was in flight supersedes this
	// response; the stale snapshot must not reach the cache.
	if l.session.ActiveWorkspaceID() != requested {
		l.logger.Debug("discarding stale project list", "workspace_id", requested)
		return nil
	}

	l.store.SyncWorkspace(requested, projects)
	l.setLastErr("")
	l.record(ctx, requested, len(projects))
	return nil
}

// Loading reports whether a fetch is in flight.
func (l *Loader) Loading() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.current != nil
}

// LastError returns the user-visible message from the last failed sync,
// or "".
func (l *Loader) LastError() string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.lastErr
}

func (l *Loader) cancelInFlight() {
	l.mu.Lock()
	if l.current != nil {
		l.current.cancel()
		l.current = nil
	}
	l.mu.Unlock()
}

func (l *Loader) setLastErr(message string) {
	l.mu.Lock()
	l.lastErr = message
	l.mu.Unlock()
}

func (l *Loader) record(ctx context.Context, workspaceID string, count int) {
	if l.journal == nil {
		return
	}
	entry := &activity.Entry{
		EventType:   activity.TypeProjectsSynced,
		WorkspaceID: workspaceID,
		Summary:     fmt.Sprintf("synced %d projects", count),
	}
	if err := l.journal.Record(ctx, entry); err != nil {
		l.logger.Debug("recording project sync", "error", err)
	}
}
