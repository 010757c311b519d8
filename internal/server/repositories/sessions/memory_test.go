package sessions

import (
	"context"
	"testing"

	"github.com/dmitrijs2005/userapp/internal/common"
	"github.com/dmitrijs2005/userapp/internal/server/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryRepository_Lifecycle(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryRepository()

	_, err := repo.FindByUserName(ctx, "alice")
	require.ErrorIs(t, err, common.ErrorNotFound)

	s1, err := repo.Create(ctx, &models.Session{UserName: "alice", APIKey: "k1"})
	require.NoError(t, err)
	s2, err := repo.Create(ctx, &models.Session{UserName: "alice", APIKey: "k2"})
	require.NoError(t, err)
	assert.Less(t, s1.ID, s2.ID)
	assert.False(t, s1.CreatedAt.IsZero())

	found, err := repo.FindByUserName(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, "k1", found.APIKey, "oldest row first")

	require.NoError(t, repo.Delete(ctx, s1.ID))
	require.NoError(t, repo.Delete(ctx, s1.ID), "deleting a missing row is not an error")

	list, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "k2", list[0].APIKey)
}
