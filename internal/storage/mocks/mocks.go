package mocks

import (
	"context"

	"github.com/luminalhq/luminal-shell/internal/domain/activity"
	"github.com/stretchr/testify/mock"
)

// StateStore is a mock for storage.StateStore.
type StateStore struct {
	mock.Mock
}

func (m *StateStore) Read(ctx context.Context, key string) (string, error) {
	args := m.Called(ctx, key)
	return args.String(0), args.Error(1)
}

func (m *StateStore) Write(ctx context.Context, key, value string) error {
	args := m.Called(ctx, key, value)
	return args.Error(0)
}

func (m *StateStore) Delete(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

// Journal is a mock for storage.Journal.
type Journal struct {
	mock.Mock
}

func (m *Journal) Append(ctx context.Context, entry *activity.Entry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *Journal) List(ctx context.Context, opts activity.ListOptions) ([]activity.Entry, error) {
	args := m.Called(ctx, opts)
	if entries, ok := args.Get(0).([]activity.Entry); ok {
		return entries, args.Error(1)
	}
	return nil, args.Error(1)
}
