package project

import "time"

// Visibility controls who can see a project.
type Visibility string

const (
	VisibilityPrivate  Visibility = "PRIVATE"
	VisibilityInternal Visibility = "INTERNAL"
	VisibilityPublic   Visibility = "PUBLIC"
)

// Plan is a workspace billing plan.
type Plan string

const (
	PlanFree       Plan = "FREE"
	PlanPro        Plan = "PRO"
	PlanEnterprise Plan = "ENTERPRISE"
)

// Project represents a single project as served by the platform API.
// Workspace is only populated by detail responses; list responses leave it
// nil until hydration fills it in.
type Project struct {
	ID          string         `json:"id"`
	Name        string         `json:"name"`
	Description string         `json:"description,omitempty"`
	WorkspaceID string         `json:"workspace_id"`
	Visibility  Visibility     `json:"visibility"`
	APIKey      string         `json:"api_key"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	Workspace   *WorkspaceInfo `json:"workspace,omitempty"`
}

// WorkspaceInfo is the workspace summary nested in project detail payloads.
type WorkspaceInfo struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Slug        string `json:"slug"`
	Plan        Plan   `json:"plan"`
	Description string `json:"description,omitempty"`
}

// Hydrated reports whether the nested workspace summary is present.
func (p *Project) Hydrated() bool {
	return p != nil && p.Workspace != nil
}
