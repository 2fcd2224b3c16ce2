package service

import (
	"context"
	"testing"

	"motion/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newPostService wires a PostService over the given stubs, defaulting any
// nil collaborator to its noop stub.
func newPostService(posts *postRepoStub, profiles *profileRepoStub, users *userRepoStub) *PostService {
	if posts == nil {
		posts = noopPostRepo()
	}
	if profiles == nil {
		profiles = noopProfileRepo()
	}
	if users == nil {
		users = noopUserRepo()
	}
	return NewPostService(posts, profiles, users, adminCheckOf(users))
}

func TestPostService_Create(t *testing.T) {
	t.Parallel()

	t.Run("attaches images and resolves profile", func(t *testing.T) {
		t.Parallel()
		posts := noopPostRepo()
		var created *models.Post
		posts.createFn = func(_ context.Context, p *models.Post) error {
			created = p
			created.ID = 7
			return nil
		}
		posts.getByIDFn = func(_ context.Context, id, currentUserID uint) (*models.Post, error) {
			return &models.Post{ID: id, Content: "hello"}, nil
		}
		svc := newPostService(posts, nil, nil)

		post, err := svc.Create(context.Background(), 1, "hello", []string{"https://a.jpg", ""})
		require.NoError(t, err)
		require.NotNil(t, created)
		assert.Equal(t, uint(10), created.ProfileID)
		assert.Len(t, created.Images, 1, "empty image URLs are dropped")
		assert.Equal(t, uint(7), post.ID)
	})

	t.Run("rejects blank content", func(t *testing.T) {
		t.Parallel()
		svc := newPostService(nil, nil, nil)
		_, err := svc.Create(context.Background(), 1, "   ", nil)
		assertAppErrorCode(t, err, "VALIDATION_ERROR")
	})
}

func TestPostService_Update_OwnerOrAdmin(t *testing.T) {
	t.Parallel()

	ownedBy := func(userID uint) func(context.Context, uint, uint) (*models.Post, error) {
		return func(_ context.Context, id, _ uint) (*models.Post, error) {
			return &models.Post{ID: id, Owner: models.Profile{ID: 10, UserID: userID}}, nil
		}
	}

	t.Run("owner updates", func(t *testing.T) {
		t.Parallel()
		posts := noopPostRepo()
		posts.getByIDUncachedFn = ownedBy(1)
		svc := newPostService(posts, nil, nil)

		post, err := svc.Update(context.Background(), 1, 5, "edited")
		require.NoError(t, err)
		assert.Equal(t, "edited", post.Content)
	})

	t.Run("admin updates someone else's post", func(t *testing.T) {
		t.Parallel()
		posts := noopPostRepo()
		posts.getByIDUncachedFn = ownedBy(1)
		users := noopUserRepo()
		users.isAdminFn = func(context.Context, uint) (bool, error) { return true, nil }
		svc := newPostService(posts, nil, users)

		_, err := svc.Update(context.Background(), 2, 5, "edited")
		assert.NoError(t, err)
	})

	t.Run("stranger forbidden", func(t *testing.T) {
		t.Parallel()
		posts := noopPostRepo()
		posts.getByIDUncachedFn = ownedBy(1)
		svc := newPostService(posts, nil, nil)

		_, err := svc.Update(context.Background(), 3, 5, "edited")
		assertAppErrorCode(t, err, "FORBIDDEN")
	})

	t.Run("blank content rejected before permission check", func(t *testing.T) {
		t.Parallel()
		svc := newPostService(nil, nil, nil)
		_, err := svc.Update(context.Background(), 1, 5, "")
		assertAppErrorCode(t, err, "VALIDATION_ERROR")
	})
}

func TestPostService_Delete_OwnerOrAdmin(t *testing.T) {
	t.Parallel()

	posts := noopPostRepo()
	posts.getByIDUncachedFn = func(_ context.Context, id, _ uint) (*models.Post, error) {
		return &models.Post{ID: id, Owner: models.Profile{UserID: 1}}, nil
	}
	deleted := uint(0)
	posts.deleteFn = func(_ context.Context, id uint) error {
		deleted = id
		return nil
	}
	svc := newPostService(posts, nil, nil)

	require.NoError(t, svc.Delete(context.Background(), 1, 5))
	assert.Equal(t, uint(5), deleted)

	err := svc.Delete(context.Background(), 3, 5)
	assertAppErrorCode(t, err, "FORBIDDEN")
}

func TestPostService_ToggleLike(t *testing.T) {
	t.Parallel()

	t.Run("likes then reports status and count", func(t *testing.T) {
		t.Parallel()
		posts := noopPostRepo()
		posts.toggleLikeFn = func(context.Context, uint, uint) (bool, error) { return true, nil }
		posts.likeCountFn = func(context.Context, uint) (int64, error) { return 4, nil }
		svc := newPostService(posts, nil, nil)

		status, count, err := svc.ToggleLike(context.Background(), 1, 5)
		require.NoError(t, err)
		assert.Equal(t, StatusLiked, status)
		assert.Equal(t, int64(4), count)
	})

	t.Run("unlikes on second toggle", func(t *testing.T) {
		t.Parallel()
		posts := noopPostRepo()
		posts.toggleLikeFn = func(context.Context, uint, uint) (bool, error) { return false, nil }
		posts.likeCountFn = func(context.Context, uint) (int64, error) { return 3, nil }
		svc := newPostService(posts, nil, nil)

		status, count, err := svc.ToggleLike(context.Background(), 1, 5)
		require.NoError(t, err)
		assert.Equal(t, StatusUnliked, status)
		assert.Equal(t, int64(3), count)
	})

	t.Run("missing post surfaces not-found", func(t *testing.T) {
		t.Parallel()
		posts := noopPostRepo()
		posts.getByIDFn = func(_ context.Context, id, _ uint) (*models.Post, error) {
			return nil, models.NewNotFoundError("Post", id)
		}
		svc := newPostService(posts, nil, nil)

		_, _, err := svc.ToggleLike(context.Background(), 1, 99)
		assertAppErrorCode(t, err, "NOT_FOUND")
	})
}

func TestPostService_ByUser(t *testing.T) {
	t.Parallel()

	t.Run("missing user is a not-found", func(t *testing.T) {
		t.Parallel()
		users := noopUserRepo()
		users.existsFn = func(context.Context, uint) (bool, error) { return false, nil }
		svc := newPostService(nil, nil, users)

		_, err := svc.ByUser(context.Background(), 99, 20, 0, 0)
		assertAppErrorCode(t, err, "NOT_FOUND")
	})

	t.Run("user without profile yields empty list", func(t *testing.T) {
		t.Parallel()
		profiles := noopProfileRepo()
		profiles.getByUserIDFn = func(_ context.Context, userID uint) (*models.Profile, error) {
			return nil, models.NewNotFoundError("Profile", userID)
		}
		svc := newPostService(nil, profiles, nil)

		posts, err := svc.ByUser(context.Background(), 2, 20, 0, 0)
		require.NoError(t, err)
		assert.Empty(t, posts)
	})

	t.Run("lists posts for the user's profile", func(t *testing.T) {
		t.Parallel()
		posts := noopPostRepo()
		posts.listByProfileFn = func(_ context.Context, profileID uint, _, _ int, _ uint) ([]*models.Post, error) {
			assert.Equal(t, uint(20), profileID)
			return []*models.Post{{ID: 1}, {ID: 2}}, nil
		}
		svc := newPostService(posts, nil, nil)

		out, err := svc.ByUser(context.Background(), 2, 20, 0, 0)
		require.NoError(t, err)
		assert.Len(t, out, 2)
	})
}
