package project

import "fmt"

// Validate checks the invariants every project must satisfy before it is
// allowed into the cache: a non-empty id, a workspace id, a known visibility,
// and agreement between WorkspaceID and any nested workspace summary.
func (p *Project) Validate() error {
	if p == nil {
		return fmt.Errorf("%w: nil project", ErrInvalidPayload)
	}
	if p.ID == "" {
		return fmt.Errorf("%w: missing id", ErrInvalidPayload)
	}
	if p.Name == "" {
		return fmt.Errorf("%w: missing name for %s", ErrInvalidPayload, p.ID)
	}
	if p.WorkspaceID == "" {
		return fmt.Errorf("%w: missing workspace id for %s", ErrInvalidPayload, p.ID)
	}
	switch p.Visibility {
	case VisibilityPrivate, VisibilityInternal, VisibilityPublic:
	default:
		return fmt.Errorf("%w: unknown visibility %q for %s", ErrInvalidPayload, p.Visibility, p.ID)
	}
	if p.Workspace != nil && p.Workspace.ID != p.WorkspaceID {
		return fmt.Errorf("%w: workspace mismatch for %s: %s vs %s",
			ErrInvalidPayload, p.ID, p.WorkspaceID, p.Workspace.ID)
	}
	return nil
}
