package integration_test

import (
	"context"
	"fmt"
	"strings"
	"testing"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/require"

	"github.com/luminalhq/luminal-shell/internal/api"
	"github.com/luminalhq/luminal-shell/internal/cache"
	"github.com/luminalhq/luminal-shell/internal/domain/activity"
	"github.com/luminalhq/luminal-shell/internal/domain/project"
	"github.com/luminalhq/luminal-shell/internal/domain/user"
	"github.com/luminalhq/luminal-shell/internal/hydrate"
	"github.com/luminalhq/luminal-shell/internal/loader"
	"github.com/luminalhq/luminal-shell/internal/mcp"
	"github.com/luminalhq/luminal-shell/internal/session"
	"github.com/luminalhq/luminal-shell/internal/shell"
	"github.com/luminalhq/luminal-shell/internal/sqlite"
	"github.com/luminalhq/luminal-shell/internal/storage"
	"github.com/luminalhq/luminal-shell/internal/testserver"
	"github.com/luminalhq/luminal-shell/internal/view"
)

type testEnv struct {
	platform *testserver.FakePlatform
	db       *sqlite.DB
	state    *sqlite.StateRepository
	journal  *activity.Service
	client   *api.Client
	manager  *session.Manager
	store    *cache.Store
	loader   *loader.Loader
	view     *view.Coordinator
	shell    *shell.Shell
}

func fixture() testserver.Fixture {
	return testserver.Fixture{
		Email:    "dev@luminal.dev",
		Password: "hunter2",
		Token:    "tok-123",
		User: &user.User{
			ID:    "u1",
			Email: "dev@luminal.dev",
			Workspaces: []user.Workspace{
				{ID: "w1", Name: "Acme", Slug: "acme", Plan: project.PlanPro, Role: user.RoleAdmin},
				{ID: "w2", Name: "Side", Slug: "side", Plan: project.PlanFree, Role: user.RoleMember},
			},
			ActiveWorkspaceID: "w1",
		},
		Workspaces: map[string]*project.WorkspaceInfo{
			"w1": {ID: "w1", Name: "Acme", Slug: "acme", Plan: project.PlanPro},
			"w2": {ID: "w2", Name: "Side", Slug: "side", Plan: project.PlanFree},
		},
		Projects: []*project.Project{
			{ID: "p1", Name: "Checkout", WorkspaceID: "w1", Visibility: project.VisibilityPrivate, APIKey: "lum_1"},
			{ID: "p2", Name: "Auth", WorkspaceID: "w1", Visibility: project.VisibilityInternal, APIKey: "lum_2"},
			{ID: "p3", Name: "Blog", WorkspaceID: "w2", Visibility: project.VisibilityPublic, APIKey: "lum_3"},
		},
	}
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	platform := testserver.New(t, fixture())

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := sqlite.New(dsn)
	require.NoError(t, err)
	require.NoError(t, db.RunMigrations())
	t.Cleanup(func() { _ = db.Close() })

	state := sqlite.NewStateRepository(db)
	journal := activity.NewService(sqlite.NewJournalRepository(db), nil)

	var manager *session.Manager
	client := api.NewClient(platform.URL(), api.HeaderSourceFunc(func() map[string]string {
		return manager.AuthHeaders()
	}), nil)
	manager = session.NewManager(client, state, journal, nil)

	store := cache.NewStore()
	projectLoader := loader.New(client, store, manager, journal, nil)
	hydrator := hydrate.New(client, store, journal, nil)
	coordinator := view.NewCoordinator(store, manager, journal, nil)

	core := shell.New(shell.Deps{
		Session:  manager,
		Store:    store,
		Loader:   projectLoader,
		Hydrator: hydrator,
		View:     coordinator,
		API:      client,
		Journal:  journal,
	})

	return &testEnv{
		platform: platform,
		db:       db,
		state:    state,
		journal:  journal,
		client:   client,
		manager:  manager,
		store:    store,
		loader:   projectLoader,
		view:     coordinator,
		shell:    core,
	}
}

func (env *testEnv) login(t *testing.T) {
	t.Helper()
	require.NoError(t, env.manager.Login(context.Background(), "dev@luminal.dev", "hunter2"))
	require.Equal(t, "w1", env.manager.ActiveWorkspaceID())
}

func TestIntegration_LoginResolvesWorkspaceAndSyncs(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)

	env.login(t)
	require.NoError(t, env.loader.Sync(ctx))

	require.Equal(t, 2, env.store.Len())
	require.NotNil(t, env.store.Get("p1"))
	require.NotNil(t, env.store.Get("p2"))
	require.Nil(t, env.store.Get("nonexistent"))

	// The selection is persisted alongside the token.
	workspace, err := env.state.Read(ctx, storage.KeyActiveWorkspace)
	require.NoError(t, err)
	require.Equal(t, "w1", workspace)
	token, err := env.state.Read(ctx, storage.KeyAuthToken)
	require.NoError(t, err)
	require.Equal(t, "tok-123", token)
}

func TestIntegration_WorkspaceReconciliation(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	env.login(t)

	// Populate both workspaces.
	require.NoError(t, env.loader.Sync(ctx))
	require.NoError(t, env.shell.SelectWorkspace(ctx, "w2"))
	require.NoError(t, env.shell.SelectWorkspace(ctx, "w1"))
	require.Equal(t, 3, env.store.Len())

	// The server drops p2 and renames p1; a resync must reconcile only the
	// active workspace.
	env.platform.SetProjects([]*project.Project{
		{ID: "p1", Name: "Checkout v2", WorkspaceID: "w1", Visibility: project.VisibilityPrivate, APIKey: "lum_1"},
		{ID: "p3", Name: "Blog", WorkspaceID: "w2", Visibility: project.VisibilityPublic, APIKey: "lum_3"},
	})
	require.NoError(t, env.loader.Sync(ctx))

	require.Equal(t, "Checkout v2", env.store.Get("p1").Name)
	require.Nil(t, env.store.Get("p2"), "absent from the snapshot, removed")
	require.NotNil(t, env.store.Get("p3"), "other workspace untouched")
}

func TestIntegration_FailedLoginClearsSession(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)

	err := env.manager.Login(ctx, "bad@x.com", "wrong")
	require.Error(t, err)
	require.ErrorIs(t, err, api.ErrUnauthorized)

	require.Empty(t, env.manager.Token())
	require.Empty(t, env.manager.ActiveWorkspaceID())
	require.Nil(t, env.manager.User())
	require.Equal(t, "invalid email or password", env.manager.LoginError())

	_, readErr := env.state.Read(ctx, storage.KeyAuthToken)
	require.ErrorIs(t, readErr, storage.ErrNotFound)
	_, readErr = env.state.Read(ctx, storage.KeyActiveWorkspace)
	require.ErrorIs(t, readErr, storage.ErrNotFound)
}

func TestIntegration_LogoutThenColdBootstrap(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	env.login(t)

	env.manager.Logout()
	require.False(t, env.manager.Authenticated())
	require.Empty(t, env.manager.ActiveWorkspaceID())

	// A fresh instance over the same durable state finds nothing to restore
	// and settles without a network call.
	meCallsBefore := env.platform.MeCalls
	fresh := session.NewManager(env.client, env.state, env.journal, nil)
	fresh.Bootstrap(ctx)

	require.False(t, fresh.Authenticated())
	require.Empty(t, fresh.ActiveWorkspaceID())
	require.Equal(t, meCallsBefore, env.platform.MeCalls)
}

func TestIntegration_PersistedWorkspaceRestored(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	env.login(t)

	require.NoError(t, env.shell.SelectWorkspace(ctx, "w2"))

	// Restart: the persisted selection wins over the server-designated w1.
	fresh := session.NewManager(env.client, env.state, env.journal, nil)
	fresh.Bootstrap(ctx)

	require.True(t, fresh.Authenticated())
	require.Equal(t, "w2", fresh.ActiveWorkspaceID())
}

func TestIntegration_AgentSurface(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	env.login(t)
	require.NoError(t, env.loader.Sync(ctx))

	server := mcp.NewServer(mcp.Config{
		Shell:   env.shell,
		Session: env.manager,
		View:    env.view,
	})

	serverTransport, clientTransport := sdkmcp.NewInMemoryTransports()
	serverSession, err := server.Connect(ctx, serverTransport, nil)
	require.NoError(t, err)
	defer serverSession.Close()

	mcpClient := sdkmcp.NewClient(&sdkmcp.Implementation{
		Name:    "test-client",
		Version: "1.0.0",
	}, nil)
	clientSession, err := mcpClient.Connect(ctx, clientTransport, nil)
	require.NoError(t, err)
	defer clientSession.Close()

	t.Run("ListTools", func(t *testing.T) {
		tools, err := clientSession.ListTools(ctx, nil)
		require.NoError(t, err)

		toolNames := make(map[string]bool)
		for _, tool := range tools.Tools {
			toolNames[tool.Name] = true
		}
		for _, name := range []string{
			"session_status",
			"select_workspace",
			"list_projects",
			"get_project",
			"open_project",
			"back_to_dashboard",
			"regenerate_api_key",
			"recent_activity",
		} {
			require.True(t, toolNames[name], "missing expected tool: %s", name)
		}
	})

	t.Run("SessionStatus", func(t *testing.T) {
		result, err := clientSession.CallTool(ctx, &sdkmcp.CallToolParams{Name: "session_status"})
		require.NoError(t, err)
		require.False(t, result.IsError)
		require.NotEmpty(t, result.Content)
	})

	t.Run("OpenProject", func(t *testing.T) {
		result, err := clientSession.CallTool(ctx, &sdkmcp.CallToolParams{
			Name:      "open_project",
			Arguments: map[string]any{"id": "p1"},
		})
		require.NoError(t, err)
		require.False(t, result.IsError)

		require.Equal(t, view.ModeProject, env.view.Mode())
		require.True(t, env.store.Get("p1").Hydrated())
		require.Equal(t, 1, env.platform.DetailCalls)
	})

	t.Run("BackToDashboard", func(t *testing.T) {
		result, err := clientSession.CallTool(ctx, &sdkmcp.CallToolParams{Name: "back_to_dashboard"})
		require.NoError(t, err)
		require.False(t, result.IsError)
		require.Equal(t, view.ModeDashboard, env.view.Mode())
		require.Equal(t, "p1", env.view.SelectedProjectID(), "selection survives")
	})
}
