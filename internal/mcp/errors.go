package mcp

import (
	"errors"
	"fmt"

	"github.com/luminalhq/luminal-shell/internal/api"
	"github.com/luminalhq/luminal-shell/internal/domain/project"
)

// APIError represents an MCP error response.
type APIError struct {
	Code         string `json:"code"`
	Message      string `json:"message"`
	RecoveryHint string `json:"recovery_hint,omitempty"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// MapError maps shell and platform errors to MCP error codes.
func MapError(err error) *APIError {
	if err == nil {
		return nil
	}

	var validationErr *api.ValidationError
	var transportErr *api.TransportError
	switch {
	case errors.Is(err, api.ErrUnauthorized):
		return &APIError{Code: "UNAUTHORIZED", Message: "the session is no longer valid", RecoveryHint: "Log in again"}
	case errors.Is(err, project.ErrProjectNotFound):
		return &APIError{Code: "PROJECT_NOT_FOUND", Message: "project not found", RecoveryHint: "Call list_projects to see available projects"}
	case errors.As(err, &validationErr):
		return &APIError{Code: "INVALID_REQUEST", Message: validationErr.Message}
	case errors.As(err, &transportErr):
		return &APIError{Code: "UPSTREAM_UNAVAILABLE", Message: "could not reach the Luminal API", RecoveryHint: "Retry once the network recovers"}
	default:
		return nil
	}
}

func mapError(err error) error {
	if apiErr := MapError(err); apiErr != nil {
		return apiErr
	}
	return err
}
