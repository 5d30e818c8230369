// Package view tracks which project is selected and whether the shell shows
// the dashboard or a project. Selection is always backed by a cache entry.
package view

import (
	"context"
	"log/slog"
	"sort"
	"sync"

	"github.com/luminalhq/luminal-shell/internal/cache"
	"github.com/luminalhq/luminal-shell/internal/domain/activity"
	"github.com/luminalhq/luminal-shell/internal/domain/project"
)

// Mode is the top-level view the shell is showing.
type Mode string

const (
	ModeDashboard Mode = "dashboard"
	ModeProject   Mode = "project"
)

// Session exposes the active workspace the coordinator resolves against.
type Session interface {
	ActiveWorkspaceID() string
}

// Journal records view events; satisfied by activity.Service.
type Journal interface {
	Record(ctx context.Context, entry *activity.Entry) error
}

// Coordinator is the shell's view state machine.
type Coordinator struct {
	store   *cache.Store
	session Session
	journal Journal
	logger  *slog.Logger

	mu         sync.Mutex
	mode       Mode
	selectedID string
}

// NewCoordinator creates a coordinator starting on the dashboard. journal
// may be nil.
func NewCoordinator(store *cache.Store, sess Session, journal Journal, logger *slog.Logger) *Coordinator {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Coordinator{
		store:   store,
		session: sess,
		journal: journal,
		logger:  logger,
		mode:    ModeDashboard,
	}
}

// Mode returns the current view mode.
func (c *Coordinator) Mode() Mode {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.mode
}

// SelectedProjectID returns the selected project id, or "".
func (c *Coordinator) SelectedProjectID() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.selectedID
}

// SetSelectedProject records p as selected, upserting it into the cache so
// the selection always has a backing entry. Passing nil clears the
// selection. The view mode is left alone.
func (c *Coordinator) SetSelectedProject(p *project.Project) {
	if p == nil {
		c.mu.Lock()
		c.selectedID = ""
		c.mu.Unlock()
		return
	}

	c.store.Upsert(p)
	c.mu.Lock()
	c.selectedID = p.ID
	c.mu.Unlock()
}

// OpenProject selects p and switches to the project view.
func (c *Coordinator) OpenProject(p *project.Project) {
	if p == nil {
		return
	}

	c.store.Upsert(p)
	c.mu.Lock()
	c.selectedID = p.ID
	c.mode = ModeProject
	c.mu.Unlock()

	if c.journal != nil {
		entry := &activity.Entry{
			EventType:   activity.TypeProjectOpened,
			WorkspaceID: p.WorkspaceID,
			ProjectID:   p.ID,
			Summary:     "opened " + p.Name,
		}
		if err := c.journal.Record(context.Background(), entry); err != nil {
			c.logger.Debug("recording project open", "error", err)
		}
	}
}

// BackToDashboard returns to the dashboard. The selection is kept so
// reopening the project view resumes where the user left off.
func (c *Coordinator) BackToDashboard() {
	c.mu.Lock()
	c.mode = ModeDashboard
	c.mu.Unlock()
}

// SelectedProject resolves the current selection against the cache. If the
// selected project has disappeared (removed by a workspace resync, for
// example) it falls back to the first project of the active workspace by
// name, or nil when the workspace is empty.
func (c *Coordinator) SelectedProject() *project.Project {
	c.mu.Lock()
	selectedID := c.selectedID
	c.mu.Unlock()

	if selectedID != "" {
		if p := c.store.Get(selectedID); p != nil {
			return p
		}
	}
	return c.firstInActiveWorkspace()
}

func (c *Coordinator) firstInActiveWorkspace() *project.Project {
	workspaceID := c.session.ActiveWorkspaceID()
	if workspaceID == "" {
		return nil
	}
	candidates := c.store.InWorkspace(workspaceID)
	if len(candidates) == 0 {
		return nil
	}
	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].Name != candidates[j].Name {
			return candidates[i].Name < candidates[j].Name
		}
		return candidates[i].ID < candidates[j].ID
	})
	return candidates[0]
}
