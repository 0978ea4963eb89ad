package repository

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rocketscienceinc/xo-engine/internal/entity"
	"github.com/rocketscienceinc/xo-engine/testing/suite"
)

func TestScoreboardRepository_CreateOrUpdate(t *testing.T) {
	ctx, st := suite.New(t)

	repo := NewScoreboardRepository(st.Storage)

	// Given: a scoreboard for a session
	scoreboard := &entity.Scoreboard{
		SessionID: "123",
		Names:     [2]string{"Ann", "Bob"},
	}

	// When: CreateOrUpdate is called
	err := repo.CreateOrUpdate(ctx, scoreboard)

	// Then: no error should be returned, and the scoreboard is stored
	require.NoError(t, err)

	ttl, err := st.Storage.TTL(ctx, "scoreboard:123").Result()
	require.NoError(t, err)
	assert.Positive(t, ttl)
}

func TestScoreboardRepository_GetByID(t *testing.T) {
	t.Run("GetByID_Success", func(t *testing.T) {
		ctx, st := suite.New(t)

		repo := NewScoreboardRepository(st.Storage)

		// Given: a stored scoreboard after two rounds
		scoreboard := &entity.Scoreboard{
			SessionID: "123",
			Names:     [2]string{"Ann", "Bob"},
			Scores:    [2]int{1, 0},
			Rounds:    2,
		}
		require.NoError(t, repo.CreateOrUpdate(ctx, scoreboard))

		// When: GetByID is called with the session id
		retrieved, err := repo.GetByID(ctx, scoreboard.SessionID)

		// Then: the retrieved scoreboard matches the saved one
		require.NoError(t, err)
		assert.Equal(t, scoreboard, retrieved)
	})

	t.Run("GetByID_NotFound", func(t *testing.T) {
		ctx, st := suite.New(t)

		repo := NewScoreboardRepository(st.Storage)

		// When: GetByID is called with a non-existent id
		retrieved, err := repo.GetByID(ctx, "9999999")

		// Then: an ErrScoreboardNotFound error should be returned
		require.ErrorIs(t, err, ErrScoreboardNotFound)
		assert.Nil(t, retrieved)
	})
}

func TestScoreboardRepository_DeleteByID(t *testing.T) {
	t.Run("DeleteByID_Success", func(t *testing.T) {
		ctx, st := suite.New(t)

		repo := NewScoreboardRepository(st.Storage)

		// Given: a stored scoreboard
		scoreboard := &entity.Scoreboard{SessionID: "123"}
		require.NoError(t, repo.CreateOrUpdate(ctx, scoreboard))

		// When: DeleteByID is called
		err := repo.DeleteByID(ctx, scoreboard.SessionID)

		// Then: it is gone
		require.NoError(t, err)

		_, err = repo.GetByID(ctx, scoreboard.SessionID)
		require.ErrorIs(t, err, ErrScoreboardNotFound)
	})

	t.Run("DeleteByID_NotFound", func(t *testing.T) {
		ctx, st := suite.New(t)

		repo := NewScoreboardRepository(st.Storage)

		// When: DeleteByID is called with a non-existent id
		err := repo.DeleteByID(ctx, "9999999")

		// Then: an ErrScoreboardNotFound error should be returned
		require.ErrorIs(t, err, ErrScoreboardNotFound)
	})
}
