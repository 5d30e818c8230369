package mcp

import (
	"time"

	"github.com/luminalhq/luminal-shell/internal/domain/project"
)

type SelectWorkspaceParams struct {
	WorkspaceID string `json:"workspace_id" jsonschema:"required,ID of the workspace to activate"`
}

type GetProjectParams struct {
	ID string `json:"id" jsonschema:"required,Project ID"`
}

type OpenProjectParams struct {
	ID string `json:"id" jsonschema:"required,Project ID to open"`
}

type RegenerateAPIKeyParams struct {
	ID string `json:"id" jsonschema:"required,Project ID whose API key to rotate"`
}

type RecentActivityParams struct {
	WorkspaceID string `json:"workspace_id,omitempty" jsonschema:"Filter by workspace ID"`
	ProjectID   string `json:"project_id,omitempty" jsonschema:"Filter by project ID"`
	Type        string `json:"type,omitempty" jsonschema:"Filter by event type"`
	Limit       int    `json:"limit,omitempty" jsonschema:"Maximum number of entries (default 50)"`
}

type WorkspaceStatus struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Slug   string `json:"slug,omitempty"`
	Plan   string `json:"plan,omitempty"`
	Role   string `json:"role,omitempty"`
	Active bool   `json:"active"`
}

type SessionStatusResponse struct {
	Authenticated bool              `json:"authenticated"`
	Loading       bool              `json:"loading,omitempty"`
	LoginError    string            `json:"login_error,omitempty"`
	Email         string            `json:"email,omitempty"`
	Workspaces    []WorkspaceStatus `json:"workspaces,omitempty"`
	ViewMode      string            `json:"view_mode"`
}

type ProjectSummaryResponse struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	WorkspaceID string `json:"workspace_id"`
	Visibility  string `json:"visibility"`
	Hydrated    bool   `json:"hydrated"`
}

type ProjectResponse struct {
	Project *project.Project `json:"project"`
	// Pending reports whether the detail fetch failed and the entry is still
	// missing its workspace summary.
	Pending        bool   `json:"pending,omitempty"`
	PendingMessage string `json:"pending_message,omitempty"`
}

type ViewStatusResponse struct {
	Mode            string `json:"mode"`
	SelectedProject string `json:"selected_project,omitempty"`
}

type ActivityEntryResponse struct {
	Timestamp   time.Time `json:"timestamp"`
	Type        string    `json:"type"`
	WorkspaceID string    `json:"workspace_id,omitempty"`
	ProjectID   string    `json:"project_id,omitempty"`
	Summary     string    `json:"summary"`
	Details     string    `json:"details,omitempty"`
}

type ListProjectsResponse struct {
	WorkspaceID string                   `json:"workspace_id"`
	Projects    []ProjectSummaryResponse `json:"projects"`
}

type RecentActivityResponse struct {
	Entries []ActivityEntryResponse `json:"entries"`
}
