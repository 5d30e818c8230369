package project

import "errors"

var (
	// ErrProjectNotFound indicates the project doesn't exist.
	ErrProjectNotFound = errors.New("project not found")
	// ErrInvalidPayload indicates a project payload failed boundary validation.
	ErrInvalidPayload = errors.New("invalid project payload")
)
