package activity

import (
	"context"
	"fmt"
	"log/slog"
	"time"
)

// Service handles journal operations.
type Service struct {
	journal Journal
	logger  *slog.Logger
}

// NewService creates a new journal service.
func NewService(journal Journal, logger *slog.Logger) *Service {
	return &Service{journal: journal, logger: logger}
}

// Record appends an entry, stamping the current time if missing.
func (s *Service) Record(ctx context.Context, entry *Entry) error {
	if entry == nil || entry.EventType == "" {
		return ErrInvalidInput
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now()
	}
	if err := s.journal.Append(ctx, entry); err != nil {
		return fmt.Errorf("appending journal entry: %w", err)
	}
	return nil
}

// Recent lists journal entries with filtering, newest first.
func (s *Service) Recent(ctx context.Context, opts ListOptions) ([]Entry, error) {
	return s.journal.List(ctx, opts)
}
