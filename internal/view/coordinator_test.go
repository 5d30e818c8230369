package view_test

import (
	"testing"

	"github.com/luminalhq/luminal-shell/internal/cache"
	"github.com/luminalhq/luminal-shell/internal/domain/project"
	"github.com/luminalhq/luminal-shell/internal/view"
	"github.com/stretchr/testify/require"
)

type fakeSession struct {
	workspace string
}

func (s *fakeSession) ActiveWorkspaceID() string { return s.workspace }

func proj(id, name, workspaceID string) *project.Project {
	return &project.Project{
		ID:          id,
		Name:        name,
		WorkspaceID: workspaceID,
		Visibility:  project.VisibilityPrivate,
	}
}

func TestCoordinator_OpenProject(t *testing.T) {
	store := cache.NewStore()
	c := view.NewCoordinator(store, &fakeSession{workspace: "w1"}, nil, nil)
	require.Equal(t, view.ModeDashboard, c.Mode())

	p := proj("p1", "Checkout", "w1")
	c.OpenProject(p)

	require.Equal(t, view.ModeProject, c.Mode())
	require.Equal(t, "p1", c.SelectedProjectID())
	require.Same(t, p, store.Get("p1"), "selection always has a backing cache entry")
}

func TestCoordinator_SetSelectedProjectKeepsMode(t *testing.T) {
	store := cache.NewStore()
	c := view.NewCoordinator(store, &fakeSession{workspace: "w1"}, nil, nil)

	c.SetSelectedProject(proj("p1", "Checkout", "w1"))
	require.Equal(t, "p1", c.SelectedProjectID())
	require.Equal(t, view.ModeDashboard, c.Mode())

	c.SetSelectedProject(nil)
	require.Empty(t, c.SelectedProjectID())
}

func TestCoordinator_BackToDashboardKeepsSelection(t *testing.T) {
	store := cache.NewStore()
	c := view.NewCoordinator(store, &fakeSession{workspace: "w1"}, nil, nil)

	c.OpenProject(proj("p1", "Checkout", "w1"))
	c.BackToDashboard()

	require.Equal(t, view.ModeDashboard, c.Mode())
	require.Equal(t, "p1", c.SelectedProjectID())
}

func TestCoordinator_SelectedProjectFallsBack(t *testing.T) {
	store := cache.NewStore()
	sess := &fakeSession{workspace: "w1"}
	c := view.NewCoordinator(store, sess, nil, nil)

	c.OpenProject(proj("p2", "Billing", "w1"))
	store.UpsertMany([]*project.Project{
		proj("p1", "Auth", "w1"),
		proj("p3", "Checkout", "w1"),
	})

	// A resync drops the selected project; resolution falls back to the
	// first project of the active workspace by name.
	store.Remove("p2")
	resolved := c.SelectedProject()
	require.NotNil(t, resolved)
	require.Equal(t, "p1", resolved.ID)

	// An empty workspace resolves to nil.
	store.Clear()
	require.Nil(t, c.SelectedProject())

	// No active workspace resolves to nil as well.
	sess.workspace = ""
	require.Nil(t, c.SelectedProject())
}

func TestCoordinator_SelectedProjectPrefersSelection(t *testing.T) {
	store := cache.NewStore()
	c := view.NewCoordinator(store, &fakeSession{workspace: "w1"}, nil, nil)

	store.UpsertMany([]*project.Project{
		proj("p1", "Auth", "w1"),
		proj("p2", "Billing", "w1"),
	})
	c.SetSelectedProject(store.Get("p2"))

	require.Equal(t, "p2", c.SelectedProject().ID)
}
