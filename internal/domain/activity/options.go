package activity

// ListOptions provides filtering options for listing journal entries.
type ListOptions struct {
	WorkspaceID string
	ProjectID   string
	EventType   *EventType
	Limit       int
	Offset      int
}
