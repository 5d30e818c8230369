// Package api is the typed client for the Luminal platform API. It decodes
// and validates payloads at the boundary and classifies failures into the
// taxonomy the rest of the shell relies on: ErrUnauthorized tears down the
// session, ValidationError carries a user-visible message, TransportError
// leaves last-known-good state alone, and cancellations stay silent.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/luminalhq/luminal-shell/internal/domain/project"
	"github.com/luminalhq/luminal-shell/internal/domain/user"
)

// HeaderSource supplies the auth headers attached to every request,
// normally the session manager.
type HeaderSource interface {
	AuthHeaders() map[string]string
}

// HeaderSourceFunc adapts a function to the HeaderSource interface. The
// client and the session manager reference each other, so wiring creates the
// client first with a func that closes over the manager assigned later.
type HeaderSourceFunc func() map[string]string

// AuthHeaders implements HeaderSource.
func (f HeaderSourceFunc) AuthHeaders() map[string]string { return f() }

// Client talks to the platform API.
type Client struct {
	baseURL string
	http    *http.Client
	headers HeaderSource
	logger  *slog.Logger
}

// NewClient creates a platform API client rooted at baseURL.
func NewClient(baseURL string, headers HeaderSource, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: 30 * time.Second},
		headers: headers,
		logger:  logger,
	}
}

// LoginResult carries the credential and profile returned by a login.
type LoginResult struct {
	Token string
	User  *user.User
}

// Login exchanges credentials for a token and profile.
func (c *Client) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	body, err := json.Marshal(loginRequest{Email: email, Password: password})
	if err != nil {
		return nil, fmt.Errorf("encoding login request: %w", err)
	}

	var resp loginResponse
	if err := c.do(ctx, http.MethodPost, "/auth/login", body, &resp); err != nil {
		return nil, err
	}
	if resp.Token == "" {
		return nil, &ValidationError{Message: "login response missing token"}
	}
	u, err := resp.Data.User.toDomain()
	if err != nil {
		return nil, err
	}
	return &LoginResult{Token: resp.Token, User: u}, nil
}

// Me fetches the authenticated user's profile, including workspaces.
func (c *Client) Me(ctx context.Context) (*user.User, error) {
	var resp meResponse
	if err := c.do(ctx, http.MethodGet, "/auth/me", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Data.User.toDomain()
}

// ListProjects fetches the project list for the workspace named in the
// x-workspace-id header.
func (c *Client) ListProjects(ctx context.Context) ([]*project.Project, error) {
	var resp projectListResponse
	if err := c.do(ctx, http.MethodGet, "/projects", nil, &resp); err != nil {
		return nil, err
	}
	if err := validateProjects(resp.Data.Projects); err != nil {
		return nil, err
	}
	return resp.Data.Projects, nil
}

// GetProject fetches a single project with its nested workspace summary.
func (c *Client) GetProject(ctx context.Context, id string) (*project.Project, error) {
	var resp projectResponse
	if err := c.do(ctx, http.MethodGet, "/projects/"+id, nil, &resp); err != nil {
		return nil, err
	}
	if resp.Data.Project == nil {
		return nil, &ValidationError{Message: "project response missing project"}
	}
	if err := validateProject(resp.Data.Project); err != nil {
		return nil, err
	}
	return resp.Data.Project, nil
}

// RegenerateAPIKey rotates a project's API key and returns the updated
// project.
func (c *Client) RegenerateAPIKey(ctx context.Context, id string) (*project.Project, error) {
	var resp projectResponse
	if err := c.do(ctx, http.MethodPost, "/projects/"+id+"/regenerate-api-key", nil, &resp); err != nil {
		return nil, err
	}
	if resp.Data.Project == nil {
		return nil, &ValidationError{Message: "regenerate response missing project"}
	}
	if err := validateProject(resp.Data.Project); err != nil {
		return nil, err
	}
	return resp.Data.Project, nil
}

func (c *Client) do(ctx context.Context, method, path string, body []byte, out any) error {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("building request %s %s: %w", method, path, err)
	}

	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-Id", uuid.NewString())
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.headers != nil {
		for key, value := range c.headers.AuthHeaders() {
			req.Header.Set(key, value)
		}
	}

	resp, err := c.http.Do(req)
	if err != nil {
		if IsCanceled(err) {
			// Keep the context error visible to errors.Is.
			return fmt.Errorf("%s %s: %w", method, path, context.Canceled)
		}
		return &TransportError{Op: method + " " + path, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return c.classifyStatus(method, path, resp)
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &TransportError{Op: method + " " + path, Err: fmt.Errorf("decoding response: %w", err)}
	}
	return nil
}

func (c *Client) classifyStatus(method, path string, resp *http.Response) error {
	var payload errorResponse
	message := ""
	if data, err := io.ReadAll(io.LimitReader(resp.Body, 1<<16)); err == nil {
		if json.Unmarshal(data, &payload) == nil {
			message = payload.message()
		}
	}

	c.logger.Debug("api request failed",
		"method", method, "path", path, "status", resp.StatusCode, "message", message)

	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		if message == "" {
			return ErrUnauthorized
		}
		return fmt.Errorf("%w: %s", ErrUnauthorized, message)
	case resp.StatusCode < 500:
		if message == "" {
			message = fmt.Sprintf("request rejected with status %d", resp.StatusCode)
		}
		return &ValidationError{Message: message}
	default:
		return &TransportError{
			Op:  method + " " + path,
			Err: fmt.Errorf("server returned status %d", resp.StatusCode),
		}
	}
}
