// Package mcp exposes the shell to coding agents over the Model Context
// Protocol: session status, workspace selection, project navigation, and the
// client journal.
package mcp

import (
	"context"
	"log/slog"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/luminalhq/luminal-shell/internal/domain/activity"
	"github.com/luminalhq/luminal-shell/internal/domain/project"
	"github.com/luminalhq/luminal-shell/internal/domain/user"
	"github.com/luminalhq/luminal-shell/internal/view"
)

// ShellService defines the shell operations exposed as tools.
type ShellService interface {
	Projects() []*project.Project
	Project(id string) *project.Project
	OpenProject(ctx context.Context, id string) (*project.Project, error)
	RegenerateAPIKey(ctx context.Context, id string) (*project.Project, error)
	SelectWorkspace(ctx context.Context, workspaceID string) error
	RecentActivity(ctx context.Context, opts activity.ListOptions) ([]activity.Entry, error)
}

// SessionService defines the session state the tools report.
type SessionService interface {
	Authenticated() bool
	Loading() bool
	LoginError() string
	User() *user.User
	ActiveWorkspaceID() string
	ActiveWorkspace() *user.Workspace
}

// ViewService defines the view state the tools report and drive.
type ViewService interface {
	Mode() view.Mode
	SelectedProject() *project.Project
	BackToDashboard()
}

// Config contains server configuration.
type Config struct {
	Shell   ShellService
	Session SessionService
	View    ViewService
	Logger  *slog.Logger
}

// NewServer creates and configures an MCP server with all tools and middleware.
func NewServer(cfg Config) *sdkmcp.Server {
	server := sdkmcp.NewServer(&sdkmcp.Implementation{
		Name:    "luminal-shell",
		Version: "0.1.0",
	}, &sdkmcp.ServerOptions{
		Instructions: serverInstructions,
		Logger:       cfg.Logger,
	})

	registerDocResources(server)

	server.AddReceivingMiddleware(trafficLoggingMiddleware(cfg.Logger, "inbound"))
	server.AddSendingMiddleware(trafficLoggingMiddleware(cfg.Logger, "outbound"))

	registerTools(server, NewHandler(cfg.Shell, cfg.Session, cfg.View))

	return server
}
