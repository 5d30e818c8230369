package sqlite

import (
	"context"
	"testing"

	"github.com/luminalhq/luminal-shell/internal/storage"
	"github.com/stretchr/testify/require"
)

func TestStateRepository_ReadMissing(t *testing.T) {
	repo := NewStateRepository(NewTestDB(t))

	_, err := repo.Read(context.Background(), storage.KeyAuthToken)
	require.ErrorIs(t, err, storage.ErrNotFound)
}

func TestStateRepository_WriteReadDelete(t *testing.T) {
	ctx := context.Background()
	repo := NewStateRepository(NewTestDB(t))

	require.NoError(t, repo.Write(ctx, storage.KeyAuthToken, "tok-1"))
	require.NoError(t, repo.Write(ctx, storage.KeyActiveWorkspace, "w1"))

	token, err := repo.Read(ctx, storage.KeyAuthToken)
	require.NoError(t, err)
	require.Equal(t, "tok-1", token)

	// Overwrite keeps a single row per key.
	require.NoError(t, repo.Write(ctx, storage.KeyAuthToken, "tok-2"))
	token, err = repo.Read(ctx, storage.KeyAuthToken)
	require.NoError(t, err)
	require.Equal(t, "tok-2", token)

	var count int
	require.NoError(t, repo.db.QueryRow(
		"SELECT COUNT(*) FROM client_state WHERE key = ?", storage.KeyAuthToken,
	).Scan(&count))
	require.Equal(t, 1, count)

	require.NoError(t, repo.Delete(ctx, storage.KeyAuthToken))
	_, err = repo.Read(ctx, storage.KeyAuthToken)
	require.ErrorIs(t, err, storage.ErrNotFound)

	// Deleting a missing key is a no-op.
	require.NoError(t, repo.Delete(ctx, storage.KeyAuthToken))
}
