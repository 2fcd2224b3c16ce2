package service

import (
	"context"
	"testing"

	"motion/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFollowService_Toggle(t *testing.T) {
	t.Parallel()

	t.Run("follows when edge absent", func(t *testing.T) {
		t.Parallel()
		follows := noopFollowRepo()
		follows.toggleFn = func(context.Context, uint, uint) (bool, error) { return true, nil }
		svc := NewFollowService(follows, noopUserRepo())

		status, err := svc.Toggle(context.Background(), 1, 2)
		require.NoError(t, err)
		assert.Equal(t, StatusFollowed, status)
	})

	t.Run("unfollows when edge present", func(t *testing.T) {
		t.Parallel()
		follows := noopFollowRepo()
		follows.toggleFn = func(context.Context, uint, uint) (bool, error) { return false, nil }
		svc := NewFollowService(follows, noopUserRepo())

		status, err := svc.Toggle(context.Background(), 1, 2)
		require.NoError(t, err)
		assert.Equal(t, StatusUnfollowed, status)
	})

	t.Run("rejects self follow", func(t *testing.T) {
		t.Parallel()
		svc := NewFollowService(noopFollowRepo(), noopUserRepo())
		_, err := svc.Toggle(context.Background(), 3, 3)
		assertAppErrorCode(t, err, "VALIDATION_ERROR")
	})

	t.Run("missing target is a not-found", func(t *testing.T) {
		t.Parallel()
		users := noopUserRepo()
		users.existsFn = func(context.Context, uint) (bool, error) { return false, nil }
		svc := NewFollowService(noopFollowRepo(), users)

		_, err := svc.Toggle(context.Background(), 1, 99)
		assertAppErrorCode(t, err, "NOT_FOUND")
	})
}

func TestFollowService_Lists(t *testing.T) {
	t.Parallel()

	follows := noopFollowRepo()
	follows.listFollowersFn = func(_ context.Context, userID uint) ([]models.User, error) {
		return []models.User{{ID: 2}, {ID: 3}}, nil
	}
	follows.listFollowingFn = func(_ context.Context, userID uint) ([]models.User, error) {
		return []models.User{{ID: 4}}, nil
	}
	svc := NewFollowService(follows, noopUserRepo())

	followers, err := svc.Followers(context.Background(), 1)
	require.NoError(t, err)
	assert.Len(t, followers, 2)

	following, err := svc.Following(context.Background(), 1)
	require.NoError(t, err)
	assert.Len(t, following, 1)
}
