package activity_test

import (
	"context"
	"testing"

	"github.com/luminalhq/luminal-shell/internal/domain/activity"
	"github.com/luminalhq/luminal-shell/internal/storage/mocks"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestJournalService_RecordAndRecent(t *testing.T) {
	ctx := context.Background()

	journal := &mocks.Journal{}
	entry := &activity.Entry{
		EventType:   activity.TypeProjectOpened,
		WorkspaceID: "w1",
		ProjectID:   "p1",
		Summary:     "opened Checkout",
	}

	journal.On("Append", ctx, entry).Return(nil)
	journal.On("List", ctx, activity.ListOptions{WorkspaceID: "w1"}).Return([]activity.Entry{}, nil)

	svc := activity.NewService(journal, nil)
	require.NoError(t, svc.Record(ctx, entry))
	require.False(t, entry.CreatedAt.IsZero())

	_, err := svc.Recent(ctx, activity.ListOptions{WorkspaceID: "w1"})
	require.NoError(t, err)
	journal.AssertExpectations(t)
}

func TestJournalService_RecordValidation(t *testing.T) {
	svc := activity.NewService(&mocks.Journal{}, nil)

	require.ErrorIs(t, svc.Record(context.Background(), nil), activity.ErrInvalidInput)
	require.ErrorIs(t, svc.Record(context.Background(), &activity.Entry{}), activity.ErrInvalidInput)
}

func TestJournalService_RecordNeverCallsJournalOnBadInput(t *testing.T) {
	journal := &mocks.Journal{}
	svc := activity.NewService(journal, nil)

	_ = svc.Record(context.Background(), &activity.Entry{Summary: "no type"})
	journal.AssertNotCalled(t, "Append", mock.Anything, mock.Anything)
}
