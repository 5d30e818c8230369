package activity

import "time"

// EventType classifies a journal event.
type EventType string

const (
	TypeLogin             EventType = "login"
	TypeLogout            EventType = "logout"
	TypeWorkspaceSelected EventType = "workspace_selected"
	TypeProjectsSynced    EventType = "projects_synced"
	TypeProjectOpened     EventType = "project_opened"
	TypeKeyRegenerated    EventType = "api_key_regenerated"
	TypeHydrationFailed   EventType = "hydration_failed"
)

// Entry is one event in the client journal.
type Entry struct {
	ID          int64     `json:"id"`
	EventType   EventType `json:"type"`
	WorkspaceID string    `json:"workspace_id,omitempty"`
	ProjectID   string    `json:"project_id,omitempty"`
	Summary     string    `json:"summary"`
	Details     string    `json:"details,omitempty"` // JSON string
	CreatedAt   time.Time `json:"created_at"`
}
