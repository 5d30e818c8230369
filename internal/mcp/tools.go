package mcp

import (
	"context"
	"fmt"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

type emptyParams struct{}

// registerTools wires the handler's operations into the server as typed
// tools.
func registerTools(server *sdkmcp.Server, handler *Handler) {
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "session_status",
		Description: "Get the current auth state, workspace memberships, the active workspace, and the view mode",
	}, func(ctx context.Context, req *sdkmcp.CallToolRequest, args emptyParams) (*sdkmcp.CallToolResult, SessionStatusResponse, error) {
		resp, err := handler.SessionStatus(ctx)
		if err != nil {
			return nil, SessionStatusResponse{}, err
		}
		return textResult("authenticated=%t active_workspace=%s", resp.Authenticated, activeWorkspace(resp)), resp, nil
	})

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "select_workspace",
		Description: "Switch the active workspace and resync its project list",
	}, func(ctx context.Context, req *sdkmcp.CallToolRequest, args SelectWorkspaceParams) (*sdkmcp.CallToolResult, SessionStatusResponse, error) {
		resp, err := handler.SelectWorkspace(ctx, args)
		if err != nil {
			return nil, SessionStatusResponse{}, err
		}
		return textResult("active workspace is now %s", args.WorkspaceID), resp, nil
	})

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "list_projects",
		Description: "List the projects of the active workspace, sorted by name",
	}, func(ctx context.Context, req *sdkmcp.CallToolRequest, args emptyParams) (*sdkmcp.CallToolResult, ListProjectsResponse, error) {
		resp, err := handler.ListProjects(ctx)
		if err != nil {
			return nil, ListProjectsResponse{}, err
		}
		return textResult("%d projects in workspace %s", len(resp.Projects), resp.WorkspaceID), resp, nil
	})

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "get_project",
		Description: "Get a cached project by ID without changing the view",
	}, func(ctx context.Context, req *sdkmcp.CallToolRequest, args GetProjectParams) (*sdkmcp.CallToolResult, ProjectResponse, error) {
		resp, err := handler.GetProject(ctx, args)
		if err != nil {
			return nil, ProjectResponse{}, err
		}
		return textResult("project %s (%s)", resp.Project.Name, resp.Project.ID), resp, nil
	})

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "open_project",
		Description: "Open a project: load its full details and switch the view to it",
	}, func(ctx context.Context, req *sdkmcp.CallToolRequest, args OpenProjectParams) (*sdkmcp.CallToolResult, ProjectResponse, error) {
		resp, err := handler.OpenProject(ctx, args)
		if err != nil {
			return nil, ProjectResponse{}, err
		}
		if resp.Pending {
			return textResult("opened %s with cached data only", resp.Project.Name), resp, nil
		}
		return textResult("opened %s", resp.Project.Name), resp, nil
	})

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "back_to_dashboard",
		Description: "Return the view to the dashboard, keeping the project selection",
	}, func(ctx context.Context, req *sdkmcp.CallToolRequest, args emptyParams) (*sdkmcp.CallToolResult, ViewStatusResponse, error) {
		resp, err := handler.BackToDashboard(ctx)
		if err != nil {
			return nil, ViewStatusResponse{}, err
		}
		return textResult("view mode is %s", resp.Mode), resp, nil
	})

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "regenerate_api_key",
		Description: "Rotate a project's API key and return the updated project",
	}, func(ctx context.Context, req *sdkmcp.CallToolRequest, args RegenerateAPIKeyParams) (*sdkmcp.CallToolResult, ProjectResponse, error) {
		resp, err := handler.RegenerateAPIKey(ctx, args)
		if err != nil {
			return nil, ProjectResponse{}, err
		}
		return textResult("regenerated API key for %s", resp.Project.Name), resp, nil
	})

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "recent_activity",
		Description: "List recent client events (logins, syncs, project opens, key rotations), newest first",
	}, func(ctx context.Context, req *sdkmcp.CallToolRequest, args RecentActivityParams) (*sdkmcp.CallToolResult, RecentActivityResponse, error) {
		resp, err := handler.RecentActivity(ctx, args)
		if err != nil {
			return nil, RecentActivityResponse{}, err
		}
		return textResult("%d journal entries", len(resp.Entries)), resp, nil
	})
}

func textResult(format string, args ...any) *sdkmcp.CallToolResult {
	return &sdkmcp.CallToolResult{
		Content: []sdkmcp.Content{
			&sdkmcp.TextContent{Text: fmt.Sprintf(format, args...)},
		},
	}
}

func activeWorkspace(resp SessionStatusResponse) string {
	for _, ws := range resp.Workspaces {
		if ws.Active {
			return ws.ID
		}
	}
	return "<none>"
}
