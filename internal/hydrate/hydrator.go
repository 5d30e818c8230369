// Package hydrate lazily completes cached projects that are missing their
// nested workspace summary, fetching each id at most once concurrently.
package hydrate

import (
	"context"
	"log/slog"
	"sync"

	"github.com/luminalhq/luminal-shell/internal/api"
	"github.com/luminalhq/luminal-shell/internal/cache"
	"github.com/luminalhq/luminal-shell/internal/domain/activity"
	"github.com/luminalhq/luminal-shell/internal/domain/project"
	"golang.org/x/sync/singleflight"
)

// ProjectAPI defines the detail fetch the hydrator needs.
type ProjectAPI interface {
	GetProject(ctx context.Context, id string) (*project.Project, error)
}

// Journal records hydration failures; satisfied by activity.Service.
type Journal interface {
	Record(ctx context.Context, entry *activity.Entry) error
}

// Hydrator enriches cache entries with detail data. Concurrent triggers for
// the same id share a single in-flight fetch and observe the same outcome;
// failures are recorded per id and leave every other entry alone.
type Hydrator struct {
	api     ProjectAPI
	store   *cache.Store
	journal Journal
	logger  *slog.Logger

	group singleflight.Group
	mu    sync.Mutex
	errs  map[string]string
}

// New creates a hydrator over the given cache. journal may be nil.
func New(projectAPI ProjectAPI, store *cache.Store, journal Journal, logger *slog.Logger) *Hydrator {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Hydrator{
		api:     projectAPI,
		store:   store,
		journal: journal,
		logger:  logger,
		errs:    make(map[string]string),
	}
}

// Ensure returns a hydrated project for id, fetching only if the cached
// entry is still missing its workspace summary at fetch time. A full detail
// arriving through another path between the trigger and the fetch makes the
// network call unnecessary.
func (h *Hydrator) Ensure(ctx context.Context, id string) (*project.Project, error) {
	result, err, _ := h.group.Do(id, func() (any, error) {
		return h.fetch(ctx, id)
	})
	if err != nil {
		return nil, err
	}
	return result.(*project.Project), nil
}

// Refetch forces a fresh fetch for id regardless of pending or error state;
// used by UI retry actions.
func (h *Hydrator) Refetch(ctx context.Context, id string) (*project.Project, error) {
	h.group.Forget(id)
	result, err, _ := h.group.Do(id, func() (any, error) {
		return h.fetchRemote(ctx, id)
	})
	if err != nil {
		return nil, err
	}
	return result.(*project.Project), nil
}

// Err returns the recorded error message for id, or "".
func (h *Hydrator) Err(id string) string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.errs[id]
}

func (h *Hydrator) fetch(ctx context.Context, id string) (*project.Project, error) {
	// Re-check right before going to the network.
	if cached := h.store.Get(id); cached.Hydrated() {
		return cached, nil
	}
	return h.fetchRemote(ctx, id)
}

func (h *Hydrator) fetchRemote(ctx context.Context, id string) (*project.Project, error) {
	fetched, err := h.api.GetProject(ctx, id)
	if err != nil {
		if !api.IsCanceled(err) {
			h.recordFailure(ctx, id, err)
		}
		return nil, err
	}

	h.store.Upsert(fetched)
	h.mu.Lock()
	delete(h.errs, id)
	h.mu.Unlock()
	return fetched, nil
}

func (h *Hydrator) recordFailure(ctx context.Context, id string, err error) {
	h.mu.Lock()
	h.errs[id] = err.Error()
	h.mu.Unlock()

	h.logger.Debug("project hydration failed", "project_id", id, "error", err)
	if h.journal != nil {
		entry := &activity.Entry{
			EventType: activity.TypeHydrationFailed,
			ProjectID: id,
			Summary:   "failed to load project details",
			Details:   err.Error(),
		}
		if journalErr := h.journal.Record(ctx, entry); journalErr != nil {
			h.logger.Debug("recording hydration failure", "error", journalErr)
		}
	}
}
