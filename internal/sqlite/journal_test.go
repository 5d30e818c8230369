package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/luminalhq/luminal-shell/internal/domain/activity"
	"github.com/stretchr/testify/require"
)

func TestJournalRepository_AppendAndList(t *testing.T) {
	ctx := context.Background()
	repo := NewJournalRepository(NewTestDB(t))

	first := &activity.Entry{
		EventType: activity.TypeLogin,
		Summary:   "logged in as dev@acme.test",
		CreatedAt: time.Now().Add(-time.Minute),
	}
	second := &activity.Entry{
		EventType:   activity.TypeProjectOpened,
		WorkspaceID: "w1",
		ProjectID:   "p1",
		Summary:     "opened Checkout",
	}

	require.NoError(t, repo.Append(ctx, first))
	require.NoError(t, repo.Append(ctx, second))
	require.NotZero(t, first.ID)
	require.NotZero(t, second.ID)
	require.False(t, second.CreatedAt.IsZero())

	entries, err := repo.List(ctx, activity.ListOptions{})
	require.NoError(t, err)
	require.Len(t, entries, 2)
	require.Equal(t, activity.TypeProjectOpened, entries[0].EventType, "newest first")
}

func TestJournalRepository_ListFilters(t *testing.T) {
	ctx := context.Background()
	repo := NewJournalRepository(NewTestDB(t))

	require.NoError(t, repo.Append(ctx, &activity.Entry{
		EventType: activity.TypeProjectsSynced, WorkspaceID: "w1", Summary: "synced 3 projects",
	}))
	require.NoError(t, repo.Append(ctx, &activity.Entry{
		EventType: activity.TypeProjectsSynced, WorkspaceID: "w2", Summary: "synced 1 project",
	}))
	require.NoError(t, repo.Append(ctx, &activity.Entry{
		EventType: activity.TypeKeyRegenerated, WorkspaceID: "w1", ProjectID: "p1", Summary: "rotated key",
	}))

	byWorkspace, err := repo.List(ctx, activity.ListOptions{WorkspaceID: "w1"})
	require.NoError(t, err)
	require.Len(t, byWorkspace, 2)

	eventType := activity.TypeKeyRegenerated
	byType, err := repo.List(ctx, activity.ListOptions{EventType: &eventType})
	require.NoError(t, err)
	require.Len(t, byType, 1)
	require.Equal(t, "p1", byType[0].ProjectID)

	limited, err := repo.List(ctx, activity.ListOptions{Limit: 1})
	require.NoError(t, err)
	require.Len(t, limited, 1)
}
