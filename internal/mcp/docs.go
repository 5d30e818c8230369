package mcp

import (
	"context"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

const serverInstructions = `luminal-shell is the local agent surface of the Luminal desktop client. It
mirrors what the signed-in user sees: one active workspace at a time, the
workspace's projects, and a dashboard/project view.

Rules of engagement:
1) Orient: call session_status first. If authenticated is false, stop; the
   user must log in through the desktop client.
2) One workspace is active at a time. select_workspace switches it and
   resyncs the project list; projects of other workspaces stay cached but
   are not listed.
3) Browse cheaply: list_projects returns summaries. A summary with
   hydrated=false is missing its workspace details until opened.
4) open_project loads full details and switches the view. A response with
   pending=true means the detail fetch failed and only cached data is shown;
   retry by calling open_project again.
5) regenerate_api_key invalidates the previous key immediately.
6) recent_activity shows what happened in this client session (logins,
   syncs, opens, key rotations), newest first.

Docs:
- luminal://docs/index (what to read when)
- luminal://docs/workspaces (workspace and session model)
`

type docResource struct {
	URI         string
	Name        string
	Title       string
	Description string
	Content     string
}

var docResources = []docResource{
	{
		URI:         "luminal://docs/index",
		Name:        "docs_index",
		Title:       "luminal-shell docs index",
		Description: "Entry point for agent-facing docs: what the shell exposes and known limitations.",
		Content: `# luminal-shell: Agent Docs Index

This server exposes the state of the local Luminal desktop client, not the
full platform API.

## What you can do
- Inspect the session and switch workspaces (session_status, select_workspace).
- Browse and open projects (list_projects, get_project, open_project).
- Rotate a project's API key (regenerate_api_key).
- Review recent client events (recent_activity).

## Known limitations
- Logging in is not exposed as a tool; the user signs in through the UI.
- Projects cannot be created or deleted from here.
- get_project only reads the local cache; open_project is what fetches.
`,
	},
	{
		URI:         "luminal://docs/workspaces",
		Name:        "docs_workspaces",
		Title:       "Workspace and session model",
		Description: "How the single active workspace, the project cache, and the view fit together.",
		Content: `# Workspace and session model

The shell keeps exactly one workspace active. Switching workspaces:

- persists the new selection, so a restart resumes where the user left off
- cancels any project sync still in flight for the old workspace
- resyncs the project list for the new workspace

Projects from previous workspaces stay cached, which makes switching back
cheap, but list_projects only ever shows the active workspace.

A project summary from a list sync has no nested workspace details
(hydrated=false). open_project fetches them once; concurrent opens of the
same project share a single fetch.

The view is either the dashboard or a single project. Going back to the
dashboard keeps the selection, so reopening resumes on the same project.
`,
	},
}

func registerDocResources(server *sdkmcp.Server) {
	for _, doc := range docResources {
		doc := doc

		server.AddResource(&sdkmcp.Resource{
			URI:         doc.URI,
			Name:        doc.Name,
			Title:       doc.Title,
			Description: doc.Description,
			MIMEType:    "text/markdown",
			Size:        int64(len(doc.Content)),
		}, func(_ context.Context, req *sdkmcp.ReadResourceRequest) (*sdkmcp.ReadResourceResult, error) {
			uri := doc.URI
			if req != nil && req.Params != nil && req.Params.URI != "" {
				uri = req.Params.URI
			}
			return &sdkmcp.ReadResourceResult{
				Contents: []*sdkmcp.ResourceContents{{
					URI:      uri,
					MIMEType: "text/markdown",
					Text:     doc.Content,
				}},
			}, nil
		})
	}
}
