// Package shell composes the session, cache, loader, hydrator, and view
// into the operations the agent surface and the desktop UI drive.
package shell

import (
	"context"
	"fmt"
	"log/slog"
	"sort"

	"github.com/luminalhq/luminal-shell/internal/cache"
	"github.com/luminalhq/luminal-shell/internal/domain/activity"
	"github.com/luminalhq/luminal-shell/internal/domain/project"
	"github.com/luminalhq/luminal-shell/internal/hydrate"
	"github.com/luminalhq/luminal-shell/internal/loader"
	"github.com/luminalhq/luminal-shell/internal/session"
	"github.com/luminalhq/luminal-shell/internal/view"
)

// ProjectAPI defines the mutations the shell issues directly.
type ProjectAPI interface {
	RegenerateAPIKey(ctx context.Context, id string) (*project.Project, error)
}

// Journal records shell events; satisfied by activity.Service.
type Journal interface {
	Record(ctx context.Context, entry *activity.Entry) error
	Recent(ctx context.Context, opts activity.ListOptions) ([]activity.Entry, error)
}

// Shell is the composed client core.
type Shell struct {
	Session  *session.Manager
	Store    *cache.Store
	Loader   *loader.Loader
	Hydrator *hydrate.Hydrator
	View     *view.Coordinator

	api     ProjectAPI
	journal Journal
	logger  *slog.Logger
}

// Deps carries the components a Shell composes.
type Deps struct {
	Session  *session.Manager
	Store    *cache.Store
	Loader   *loader.Loader
	Hydrator *hydrate.Hydrator
	View     *view.Coordinator
	API      ProjectAPI
	Journal  Journal
	Logger   *slog.Logger
}

// New creates a shell from its components. Journal and Logger may be nil.
func New(deps Deps) *Shell {
	logger := deps.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Shell{
		Session:  deps.Session,
		Store:    deps.Store,
		Loader:   deps.Loader,
		Hydrator: deps.Hydrator,
		View:     deps.View,
		api:      deps.API,
		journal:  deps.Journal,
		logger:   logger,
	}
}

// Projects returns the active workspace's projects sorted by name.
func (s *Shell) Projects() []*project.Project {
	workspaceID := s.Session.ActiveWorkspaceID()
	if workspaceID == "" {
		return nil
	}
	projects := s.Store.InWorkspace(workspaceID)
	sort.Slice(projects, func(i, j int) bool {
		if projects[i].Name != projects[j].Name {
			return projects[i].Name < projects[j].Name
		}
		return projects[i].ID < projects[j].ID
	})
	return projects
}

// Project returns the cached project with the given id, or nil.
func (s *Shell) Project(id string) *project.Project {
	return s.Store.Get(id)
}

// OpenProject hydrates the project and switches the view to it. When the
// detail fetch fails but a cached entry exists, the cached entry is opened
// and the hydration error stays recorded for a retry.
func (s *Shell) OpenProject(ctx context.Context, id string) (*project.Project, error) {
	p, err := s.Hydrator.Ensure(ctx, id)
	if err != nil {
		if cached := s.Store.Get(id); cached != nil {
			s.logger.Warn("opening project without details", "project_id", id, "error", err)
			s.View.OpenProject(cached)
			return cached, nil
		}
		return nil, fmt.Errorf("opening project %s: %w", id, err)
	}

	s.View.OpenProject(p)
	return p, nil
}

// RegenerateAPIKey rotates the project's API key and folds the mutation
// response back into the cache.
func (s *Shell) RegenerateAPIKey(ctx context.Context, id string) (*project.Project, error) {
	updated, err := s.api.RegenerateAPIKey(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("regenerating api key for %s: %w", id, err)
	}

	s.Store.Upsert(updated)
	s.record(ctx, &activity.Entry{
		EventType:   activity.TypeKeyRegenerated,
		WorkspaceID: updated.WorkspaceID,
		ProjectID:   updated.ID,
		Summary:     "regenerated API key for " + updated.Name,
	})
	return updated, nil
}

// SelectWorkspace activates the workspace and synchronously resyncs its
// project list.
func (s *Shell) SelectWorkspace(ctx context.Context, workspaceID string) error {
	s.Session.SelectWorkspace(workspaceID)
	if s.Session.ActiveWorkspaceID() == "" {
		return nil
	}
	return s.Loader.Sync(ctx)
}

// RecentActivity lists journal entries, newest first.
func (s *Shell) RecentActivity(ctx context.Context, opts activity.ListOptions) ([]activity.Entry, error) {
	if s.journal == nil {
		return nil, nil
	}
	return s.journal.Recent(ctx, opts)
}

func (s *Shell) record(ctx context.Context, entry *activity.Entry) {
	if s.journal == nil {
		return
	}
	if err := s.journal.Record(ctx, entry); err != nil {
		s.logger.Debug("recording shell event", "error", err)
	}
}
