package loader_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/luminalhq/luminal-shell/internal/cache"
	"github.com/luminalhq/luminal-shell/internal/domain/project"
	"github.com/luminalhq/luminal-shell/internal/loader"
	"github.com/stretchr/testify/require"
)

type fakeSession struct {
	mu        sync.Mutex
	workspace string
	subs      []func()
}

func (s *fakeSession) ActiveWorkspaceID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.workspace
}

func (s *fakeSession) Subscribe(fn func()) func() {
	s.mu.Lock()
	s.subs = append(s.subs, fn)
	s.mu.Unlock()
	return func() {}
}

func (s *fakeSession) setWorkspace(id string) {
	s.mu.Lock()
	s.workspace = id
	subs := append([]func(){}, s.subs...)
	s.mu.Unlock()
	for _, fn := range subs {
		fn()
	}
}

type fakeListAPI struct {
	mu       sync.Mutex
	projects []*project.Project
	err      error
	block    chan struct{}
}

func (f *fakeListAPI) ListProjects(ctx context.Context) ([]*project.Project, error) {
	f.mu.Lock()
	block := f.block
	f.mu.Unlock()
	if block != nil {
		select {
		case <-block:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	return f.projects, nil
}

func proj(id, workspaceID string) *project.Project {
	return &project.Project{
		ID:          id,
		Name:        "Project " + id,
		WorkspaceID: workspaceID,
		Visibility:  project.VisibilityPrivate,
	}
}

func TestLoader_SyncCommitsSnapshot(t *testing.T) {
	store := cache.NewStore()
	store.Upsert(proj("stale", "w1"))

	sess := &fakeSession{workspace: "w1"}
	fake := &fakeListAPI{projects: []*project.Project{proj("p1", "w1"), proj("p2", "w1")}}
	l := loader.New(fake, store, sess, nil, nil)

	require.NoError(t, l.Sync(context.Background()))
	require.Equal(t, 2, store.Len())
	require.Nil(t, store.Get("stale"))
	require.NotNil(t, store.Get("p1"))
	require.Empty(t, l.LastError())
}

func TestLoader_SyncWithoutWorkspaceIsNoOp(t *testing.T) {
	store := cache.NewStore()
	sess := &fakeSession{}
	l := loader.New(&fakeListAPI{}, store, sess, nil, nil)

	require.NoError(t, l.Sync(context.Background()))
	require.Equal(t, 0, store.Len())
}

func TestLoader_StaleResponseDiscarded(t *testing.T) {
	store := cache.NewStore()
	sess := &fakeSession{workspace: "w1"}
	fake := &fakeListAPI{
		projects: []*project.Project{proj("p1", "w1")},
		block:    make(chan struct{}),
	}
	l := loader.New(fake, store, sess, nil, nil)

	done := make(chan error, 1)
	go func() { done <- l.Sync(context.Background()) }()

	// Switch the active workspace while the w1 request is in flight.
	time.Sleep(20 * time.Millisecond)
	sess.mu.Lock()
	sess.workspace = "w2"
	sess.mu.Unlock()
	close(fake.block)

	require.NoError(t, <-done)
	require.Equal(t, 0, store.Len(), "stale snapshot must not reach the cache")
}

func TestLoader_FailureKeepsLastKnownGood(t *testing.T) {
	store := cache.NewStore()
	store.Upsert(proj("p1", "w1"))

	sess := &fakeSession{workspace: "w1"}
	fake := &fakeListAPI{err: errors.New("gateway timeout")}
	l := loader.New(fake, store, sess, nil, nil)

	err := l.Sync(context.Background())
	require.Error(t, err)
	require.Contains(t, l.LastError(), "gateway timeout")
	require.NotNil(t, store.Get("p1"), "cache retains last-known-good state")
}

func TestLoader_CancellationIsBenign(t *testing.T) {
	store := cache.NewStore()
	sess := &fakeSession{workspace: "w1"}
	fake := &fakeListAPI{block: make(chan struct{})}
	l := loader.New(fake, store, sess, nil, nil)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- l.Sync(ctx) }()

	time.Sleep(20 * time.Millisecond)
	cancel()

	require.NoError(t, <-done)
	require.Empty(t, l.LastError())
}

func TestLoader_WorkspaceSwitchCancelsInFlightFetch(t *testing.T) {
	store := cache.NewStore()
	sess := &fakeSession{workspace: "w1"}
	fake := &fakeListAPI{block: make(chan struct{})}
	l := loader.New(fake, store, sess, nil, nil)

	stop := l.Start(context.Background())
	t.Cleanup(stop)

	done := make(chan error, 1)
	go func() { done <- l.Sync(context.Background()) }()
	time.Sleep(20 * time.Millisecond)

	// The switch cancels the blocked w1 fetch; the canceled request
	// resolves as a benign no-op. The background resync for w2 returns
	// the new snapshot.
	fake.mu.Lock()
	fake.projects = []*project.Project{proj("p3", "w2")}
	fake.block = nil
	fake.mu.Unlock()
	sess.setWorkspace("w2")

	require.NoError(t, <-done)
	require.Eventually(t, func() bool {
		return store.Get("p3") != nil
	}, time.Second, 5*time.Millisecond)
}
