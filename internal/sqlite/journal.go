package sqlite

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/luminalhq/luminal-shell/internal/domain/activity"
)

// JournalRepository implements storage.Journal for SQLite
type JournalRepository struct {
	db *DB
}

// NewJournalRepository creates a new JournalRepository
func NewJournalRepository(db *DB) *JournalRepository {
	return &JournalRepository{db: db}
}

// Append inserts a new journal entry
func (r *JournalRepository) Append(ctx context.Context, entry *activity.Entry) error {
	createdAt := entry.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}

	query := `
		INSERT INTO journal (event_type, workspace_id, project_id, summary, details, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`

	result, err := r.db.ExecContext(ctx, query,
		entry.EventType,
		entry.WorkspaceID,
		entry.ProjectID,
		entry.Summary,
		entry.Details,
		createdAt,
	)
	if err != nil {
		return fmt.Errorf("failed to append journal entry: %w", err)
	}

	id, err := result.LastInsertId()
	if err == nil {
		entry.ID = id
	}
	entry.CreatedAt = createdAt

	return nil
}

// List returns journal entries matching the given filters, newest first
func (r *JournalRepository) List(ctx context.Context, opts activity.ListOptions) ([]activity.Entry, error) {
	query := `
		SELECT id, event_type, workspace_id, project_id, summary, details, created_at
		FROM journal
	`

	args := []interface{}{}
	conditions := []string{}

	if opts.WorkspaceID != "" {
		conditions = append(conditions, "workspace_id = ?")
		args = append(args, opts.WorkspaceID)
	}
	if opts.ProjectID != "" {
		conditions = append(conditions, "project_id = ?")
		args = append(args, opts.ProjectID)
	}
	if opts.EventType != nil {
		conditions = append(conditions, "event_type = ?")
		args = append(args, *opts.EventType)
	}

	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY created_at DESC, id DESC"

	limit := opts.Limit
	if limit <= 0 {
		limit = 50
	}
	query += " LIMIT ?"
	args = append(args, limit)

	if opts.Offset > 0 {
		query += " OFFSET ?"
		args = append(args, opts.Offset)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list journal entries: %w", err)
	}
	defer rows.Close()

	var entries []activity.Entry
	for rows.Next() {
		var entry activity.Entry
		var workspaceID, projectID, details *string
		if err := rows.Scan(
			&entry.ID,
			&entry.EventType,
			&workspaceID,
			&projectID,
			&entry.Summary,
			&details,
			&entry.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan journal entry: %w", err)
		}
		if workspaceID != nil {
			entry.WorkspaceID = *workspaceID
		}
		if projectID != nil {
			entry.ProjectID = *projectID
		}
		if details != nil {
			entry.Details = *details
		}
		entries = append(entries, entry)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate journal entries: %w", err)
	}

	return entries, nil
}
