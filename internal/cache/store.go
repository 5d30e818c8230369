// Package cache holds the normalized in-memory project store shared by the
// shell. It knows nothing about networking or sessions; callers feed it
// authoritative snapshots and it keeps one entry per project id.
package cache

import (
	"sync"

	"github.com/luminalhq/luminal-shell/internal/domain/project"
)

// Store is an observable map of projects keyed by id. Every committed state
// transition notifies subscribers exactly once; writes that change nothing
// (same pointer, unknown id) produce no notification.
type Store struct {
	mu      sync.Mutex
	entries map[string]*project.Project
	subs    map[int]func()
	nextSub int
}

// NewStore creates an empty project store.
func NewStore() *Store {
	return &Store{
		entries: make(map[string]*project.Project),
		subs:    make(map[int]func()),
	}
}

// Subscribe registers fn to run after every committed transition. The
// returned function removes the subscription.
func (s *Store) Subscribe(fn func()) func() {
	s.mu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.subs, id)
		s.mu.Unlock()
	}
}

// Get returns the project with the given id, or nil. Unknown ids are not an
// error.
func (s *Store) Get(id string) *project.Project {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.entries[id]
}

// All returns every cached project in no particular order.
func (s *Store) All() []*project.Project {
	s.mu.Lock()
	defer s.mu.Unlock()
	all := make([]*project.Project, 0, len(s.entries))
	for _, p := range s.entries {
		all = append(all, p)
	}
	return all
}

// InWorkspace returns every cached project belonging to the given workspace,
// in no particular order. Ordering is the caller's concern.
func (s *Store) InWorkspace(workspaceID string) []*project.Project {
	s.mu.Lock()
	defer s.mu.Unlock()
	var matched []*project.Project
	for _, p := range s.entries {
		if p.WorkspaceID == workspaceID {
			matched = append(matched, p)
		}
	}
	return matched
}

// Len returns the number of cached projects.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

// Upsert inserts or fully replaces the entry for p.ID. Re-upserting the
// identical pointer is a no-op so downstream subscribers are not re-run for
// nothing.
func (s *Store) Upsert(p *project.Project) {
	if p == nil {
		return
	}
	s.mu.Lock()
	changed := s.upsertLocked(p)
	s.mu.Unlock()
	if changed {
		s.notify()
	}
}

// UpsertMany applies the same semantics as repeated Upsert calls but commits
// them as a single transition. An empty input produces no transition.
func (s *Store) UpsertMany(projects []*project.Project) {
	s.mu.Lock()
	changed := false
	for _, p := range projects {
		if p == nil {
			continue
		}
		if s.upsertLocked(p) {
			changed = true
		}
	}
	s.mu.Unlock()
	if changed {
		s.notify()
	}
}

// Remove deletes the entry if present; unknown ids are a no-op.
func (s *Store) Remove(id string) {
	s.mu.Lock()
	_, ok := s.entries[id]
	if ok {
		delete(s.entries, id)
	}
	s.mu.Unlock()
	if ok {
		s.notify()
	}
}

// Clear empties the store.
func (s *Store) Clear() {
	s.mu.Lock()
	changed := len(s.entries) > 0
	s.entries = make(map[string]*project.Project)
	s.mu.Unlock()
	if changed {
		s.notify()
	}
}

// SyncWorkspace reconciles the store against the authoritative snapshot for
// one workspace: cached entries in that workspace which are absent from the
// snapshot are removed, every incoming project is upserted, and entries
// belonging to other workspaces are left untouched.
func (s *Store) SyncWorkspace(workspaceID string, projects []*project.Project) {
	incoming := make(map[string]struct{}, len(projects))
	for _, p := range projects {
		if p != nil {
			incoming[p.ID] = struct{}{}
		}
	}

	s.mu.Lock()
	changed := false
	for id, p := range s.entries {
		if p.WorkspaceID != workspaceID {
			continue
		}
		if _, ok := incoming[id]; !ok {
			delete(s.entries, id)
			changed = true
		}
	}
	for _, p := range projects {
		if p == nil {
			continue
		}
		if s.upsertLocked(p) {
			changed = true
		}
	}
	s.mu.Unlock()
	if changed {
		s.notify()
	}
}

func (s *Store) upsertLocked(p *project.Project) bool {
	if existing, ok := s.entries[p.ID]; ok && existing == p {
		return false
	}
	s.entries[p.ID] = p
	return true
}

func (s *Store) notify() {
	s.mu.Lock()
	fns := make([]func(), 0, len(s.subs))
	for _, fn := range s.subs {
		fns = append(fns, fn)
	}
	s.mu.Unlock()
	for _, fn := range fns {
		fn()
	}
}
