package api

import (
	"fmt"

	"github.com/luminalhq/luminal-shell/internal/domain/project"
	"github.com/luminalhq/luminal-shell/internal/domain/user"
)

// Response envelopes used by the platform API. Payloads are validated here,
// at the boundary: an invalid payload fails the request instead of leaking
// into the cache.

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token string `json:"token"`
	Data  struct {
		User userDTO `json:"user"`
	} `json:"data"`
}

type meResponse struct {
	Data struct {
		User userDTO `json:"user"`
	} `json:"data"`
}

type projectListResponse struct {
	Data struct {
		Projects []*project.Project `json:"projects"`
	} `json:"data"`
}

type projectResponse struct {
	Data struct {
		Project *project.Project `json:"project"`
	} `json:"data"`
}

type errorResponse struct {
	Error struct {
		Message string `json:"message"`
	} `json:"error"`
	Message string `json:"message"`
}

func (e *errorResponse) message() string {
	if e.Error.Message != "" {
		return e.Error.Message
	}
	return e.Message
}

type userDTO struct {
	ID                string           `json:"id"`
	Email             string           `json:"email"`
	Name              string           `json:"name"`
	Workspaces        []user.Workspace `json:"workspaces"`
	ActiveWorkspaceID string           `json:"active_workspace_id"`
}

func (d *userDTO) toDomain() (*user.User, error) {
	if d.ID == "" || d.Email == "" {
		return nil, &ValidationError{Message: "user payload missing id or email"}
	}
	for _, ws := range d.Workspaces {
		if ws.ID == "" || ws.Name == "" {
			return nil, &ValidationError{Message: fmt.Sprintf("workspace payload missing id or name for user %s", d.ID)}
		}
	}
	u := &user.User{
		ID:                d.ID,
		Email:             d.Email,
		Name:              d.Name,
		Workspaces:        d.Workspaces,
		ActiveWorkspaceID: d.ActiveWorkspaceID,
	}
	// A designated active workspace the user is not a member of is a server
	// bug; drop the designation rather than the whole payload.
	if u.ActiveWorkspaceID != "" && u.WorkspaceByID(u.ActiveWorkspaceID) == nil {
		u.ActiveWorkspaceID = ""
	}
	return u, nil
}

func validateProject(p *project.Project) error {
	if err := p.Validate(); err != nil {
		return &ValidationError{Message: err.Error()}
	}
	return nil
}

func validateProjects(projects []*project.Project) error {
	for _, p := range projects {
		if err := validateProject(p); err != nil {
			return err
		}
	}
	return nil
}
