package user

import "github.com/luminalhq/luminal-shell/internal/domain/project"

// Role is the caller's membership role within a workspace.
type Role string

const (
	RoleOwner  Role = "OWNER"
	RoleAdmin  Role = "ADMIN"
	RoleMember Role = "MEMBER"
)

// Workspace is a workspace membership as returned by the profile endpoint.
// It is server-owned and never mutated by the client.
type Workspace struct {
	ID   string       `json:"id"`
	Name string       `json:"name"`
	Slug string       `json:"slug"`
	Plan project.Plan `json:"plan"`
	Role Role         `json:"role"`
}

// User is the authenticated user profile, including the ordered list of
// workspaces the user belongs to and the server-designated active workspace.
type User struct {
	ID                string      `json:"id"`
	Email             string      `json:"email"`
	Name              string      `json:"name,omitempty"`
	Workspaces        []Workspace `json:"workspaces"`
	ActiveWorkspaceID string      `json:"active_workspace_id,omitempty"`
}

// WorkspaceByID returns the membership with the given id, or nil.
func (u *User) WorkspaceByID(id string) *Workspace {
	if u == nil || id == "" {
		return nil
	}
	for i := range u.Workspaces {
		if u.Workspaces[i].ID == id {
			return &u.Workspaces[i]
		}
	}
	return nil
}
