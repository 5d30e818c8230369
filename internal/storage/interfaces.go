package storage

import (
	"context"

	"github.com/luminalhq/luminal-shell/internal/domain/activity"
)

// Well-known state keys. The session token and the active workspace id are
// always written or cleared in the same state change: there is no valid
// persisted state carrying a token without a resolved (possibly empty)
// workspace selection.
const (
	KeyAuthToken       = "auth_token"
	KeyActiveWorkspace = "active_workspace_id"
)

// StateStore is the durable key-value store backing client state.
type StateStore interface {
	Read(ctx context.Context, key string) (string, error)
	Write(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
}

// Journal persists the client event journal.
type Journal interface {
	Append(ctx context.Context, entry *activity.Entry) error
	List(ctx context.Context, opts activity.ListOptions) ([]activity.Entry, error)
}
