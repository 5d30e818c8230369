package mcp

import (
	"context"

	"github.com/luminalhq/luminal-shell/internal/domain/activity"
	"github.com/luminalhq/luminal-shell/internal/domain/project"
)

// Handler implements the tool operations over the shell.
type Handler struct {
	shell   ShellService
	session SessionService
	view    ViewService
}

// NewHandler creates a new tool handler.
func NewHandler(shell ShellService, session SessionService, view ViewService) *Handler {
	return &Handler{shell: shell, session: session, view: view}
}

// SessionStatus reports the auth state, workspace memberships, and view mode.
func (h *Handler) SessionStatus(ctx context.Context) (SessionStatusResponse, error) {
	resp := SessionStatusResponse{
		Authenticated: h.session.Authenticated(),
		Loading:       h.session.Loading(),
		LoginError:    h.session.LoginError(),
		ViewMode:      string(h.view.Mode()),
	}

	profile := h.session.User()
	if profile == nil {
		return resp, nil
	}
	resp.Email = profile.Email

	active := h.session.ActiveWorkspaceID()
	resp.Workspaces = make([]WorkspaceStatus, 0, len(profile.Workspaces))
	for _, ws := range profile.Workspaces {
		resp.Workspaces = append(resp.Workspaces, WorkspaceStatus{
			ID:     ws.ID,
			Name:   ws.Name,
			Slug:   ws.Slug,
			Plan:   string(ws.Plan),
			Role:   string(ws.Role),
			Active: ws.ID == active,
		})
	}
	return resp, nil
}

// SelectWorkspace activates a workspace and resyncs its project list.
func (h *Handler) SelectWorkspace(ctx context.Context, params SelectWorkspaceParams) (SessionStatusResponse, error) {
	if params.WorkspaceID == "" {
		return SessionStatusResponse{}, &APIError{Code: "INVALID_REQUEST", Message: "workspace_id is required"}
	}
	if err := h.shell.SelectWorkspace(ctx, params.WorkspaceID); err != nil {
		return SessionStatusResponse{}, mapError(err)
	}
	if h.session.ActiveWorkspaceID() == "" {
		return SessionStatusResponse{}, &APIError{
			Code:         "WORKSPACE_NOT_FOUND",
			Message:      "not a member of workspace " + params.WorkspaceID,
			RecoveryHint: "Call session_status to list available workspaces",
		}
	}
	return h.SessionStatus(ctx)
}

// ListProjects returns the active workspace's projects.
func (h *Handler) ListProjects(ctx context.Context) (ListProjectsResponse, error) {
	workspaceID := h.session.ActiveWorkspaceID()
	if workspaceID == "" {
		return ListProjectsResponse{}, &APIError{
			Code:         "NO_ACTIVE_WORKSPACE",
			Message:      "no workspace is active",
			RecoveryHint: "Call select_workspace first",
		}
	}

	projects := h.shell.Projects()
	resp := ListProjectsResponse{
		WorkspaceID: workspaceID,
		Projects:    make([]ProjectSummaryResponse, 0, len(projects)),
	}
	for _, p := range projects {
		resp.Projects = append(resp.Projects, summarize(p))
	}
	return resp, nil
}

// GetProject returns a cached project without changing the view.
func (h *Handler) GetProject(ctx context.Context, params GetProjectParams) (ProjectResponse, error) {
	p := h.shell.Project(params.ID)
	if p == nil {
		return ProjectResponse{}, mapError(project.ErrProjectNotFound)
	}
	return ProjectResponse{Project: p}, nil
}

// OpenProject hydrates a project and switches the view to it. A failed
// detail fetch with a cached entry still opens; the response marks the entry
// as pending so the agent knows the workspace summary is missing.
func (h *Handler) OpenProject(ctx context.Context, params OpenProjectParams) (ProjectResponse, error) {
	p, err := h.shell.OpenProject(ctx, params.ID)
	if err != nil {
		return ProjectResponse{}, mapError(err)
	}
	resp := ProjectResponse{Project: p}
	if !p.Hydrated() {
		resp.Pending = true
		resp.PendingMessage = "project details could not be loaded, showing cached entry"
	}
	return resp, nil
}

// BackToDashboard returns the view to the dashboard.
func (h *Handler) BackToDashboard(ctx context.Context) (ViewStatusResponse, error) {
	h.view.BackToDashboard()
	resp := ViewStatusResponse{Mode: string(h.view.Mode())}
	if selected := h.view.SelectedProject(); selected != nil {
		resp.SelectedProject = selected.ID
	}
	return resp, nil
}

// RegenerateAPIKey rotates a project's API key.
func (h *Handler) RegenerateAPIKey(ctx context.Context, params RegenerateAPIKeyParams) (ProjectResponse, error) {
	p, err := h.shell.RegenerateAPIKey(ctx, params.ID)
	if err != nil {
		return ProjectResponse{}, mapError(err)
	}
	return ProjectResponse{Project: p}, nil
}

// RecentActivity lists journal entries, newest first.
func (h *Handler) RecentActivity(ctx context.Context, params RecentActivityParams) (RecentActivityResponse, error) {
	opts := activity.ListOptions{
		WorkspaceID: params.WorkspaceID,
		ProjectID:   params.ProjectID,
		Limit:       params.Limit,
	}
	if params.Type != "" {
		eventType := activity.EventType(params.Type)
		opts.EventType = &eventType
	}

	entries, err := h.shell.RecentActivity(ctx, opts)
	if err != nil {
		return RecentActivityResponse{}, mapError(err)
	}

	resp := RecentActivityResponse{Entries: make([]ActivityEntryResponse, 0, len(entries))}
	for _, entry := range entries {
		resp.Entries = append(resp.Entries, ActivityEntryResponse{
			Timestamp:   entry.CreatedAt,
			Type:        string(entry.EventType),
			WorkspaceID: entry.WorkspaceID,
			ProjectID:   entry.ProjectID,
			Summary:     entry.Summary,
			Details:     entry.Details,
		})
	}
	return resp, nil
}

func summarize(p *project.Project) ProjectSummaryResponse {
	return ProjectSummaryResponse{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		WorkspaceID: p.WorkspaceID,
		Visibility:  string(p.Visibility),
		Hydrated:    p.Hydrated(),
	}
}
