package activity

import "context"

// Journal provides persistence for journal entries.
type Journal interface {
	Append(ctx context.Context, entry *Entry) error
	List(ctx context.Context, opts ListOptions) ([]Entry, error)
}
