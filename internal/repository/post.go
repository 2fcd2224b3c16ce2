package repository

import (
	"context"
	"errors"

	"motion/internal/cache"
	"motion/internal/models"
	"motion/internal/observability"

	"gorm.io/gorm"
)

// PostRepository defines persistence operations for posts, their images,
// and the like association set.
type PostRepository interface {
	// Create inserts the post and its image rows in one transaction.
	Create(ctx context.Context, post *models.Post) error
	GetByID(ctx context.Context, id uint, currentUserID uint) (*models.Post, error)
	// GetByIDUncached reads straight from the database. Reads that feed a
	// subsequent write must use it: the cached form is the serialized API
	// view and drops the profile_id column.
	GetByIDUncached(ctx context.Context, id uint, currentUserID uint) (*models.Post, error)
	List(ctx context.Context, limit, offset int, currentUserID uint) ([]*models.Post, error)
	ListByProfile(ctx context.Context, profileID uint, limit, offset int, currentUserID uint) ([]*models.Post, error)
	ListLiked(ctx context.Context, userID uint, limit, offset int) ([]*models.Post, error)
	// ListFeed returns posts authored by profiles whose owning user is
	// followed by userID, newest first.
	ListFeed(ctx context.Context, userID uint, limit, offset int) ([]*models.Post, error)
	Update(ctx context.Context, post *models.Post) error
	Delete(ctx context.Context, id uint) error
	// ToggleLike flips userID's membership in the post's liker set. It
	// returns true when the like was added, false when it was removed.
	ToggleLike(ctx context.Context, userID, postID uint) (bool, error)
	// LikeCount returns the current number of likers for the post.
	LikeCount(ctx context.Context, postID uint) (int64, error)
}

type postRepository struct {
	db *gorm.DB
}

// NewPostRepository returns a new PostRepository implementation.
func NewPostRepository(db *gorm.DB) PostRepository {
	return &postRepository{db: db}
}

// applyPostDetails adds subqueries computing the like count and the caller's
// liked flag in a single query.
func (r *postRepository) applyPostDetails(db *gorm.DB, currentUserID uint) *gorm.DB {
	selectQuery := "posts.*, " +
		"(SELECT COUNT(*) FROM post_likes WHERE post_likes.post_id = posts.id) as likes_count"

	if currentUserID != 0 {
		return db.Select(selectQuery+", EXISTS(SELECT 1 FROM post_likes WHERE post_likes.post_id = posts.id AND post_likes.user_id = ?) as liked", currentUserID)
	}
	return db.Select(selectQuery + ", false as liked")
}

func (r *postRepository) withAssociations(db *gorm.DB) *gorm.DB {
	return db.
		Preload("Owner").
		Preload("Owner.User").
		Preload("Images")
}

func (r *postRepository) Create(ctx context.Context, post *models.Post) error {
	defer observability.TrackQuery("create", "posts")()

	// GORM inserts the post and its Images association in one transaction.
	if err := r.db.WithContext(ctx).Create(post).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *postRepository) fetchPost(ctx context.Context, post *models.Post, id, currentUserID uint) error {
	if err := r.withAssociations(
		r.applyPostDetails(r.db.WithContext(ctx), currentUserID),
	).First(post, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.NewNotFoundError("Post", id)
		}
		return models.NewInternalError(err)
	}
	return nil
}

// GetByID serves the shared anonymous view through the cache, then recomputes
// the caller's liked flag, so the cached entry never carries caller-specific
// state.
func (r *postRepository) GetByID(ctx context.Context, id uint, currentUserID uint) (*models.Post, error) {
	var post models.Post
	err := cache.Aside(ctx, cache.PostKey(id), &post, cache.PostTTL, func() error {
		return r.fetchPost(ctx, &post, id, 0)
	})
	if err != nil {
		return nil, err
	}

	if currentUserID != 0 {
		liked, err := r.likedBy(ctx, currentUserID, id)
		if err != nil {
			return nil, err
		}
		post.Liked = liked
	}
	return &post, nil
}

func (r *postRepository) GetByIDUncached(ctx context.Context, id uint, currentUserID uint) (*models.Post, error) {
	var post models.Post
	if err := r.fetchPost(ctx, &post, id, currentUserID); err != nil {
		return nil, err
	}
	return &post, nil
}

func (r *postRepository) likedBy(ctx context.Context, userID, postID uint) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.Like{}).
		Where("user_id = ? AND post_id = ?", userID, postID).
		Count(&count).Error; err != nil {
		return false, models.NewInternalError(err)
	}
	return count > 0, nil
}

func (r *postRepository) List(ctx context.Context, limit, offset int, currentUserID uint) ([]*models.Post, error) {
	var posts []*models.Post
	if err := r.withAssociations(
		r.applyPostDetails(r.db.WithContext(ctx), currentUserID),
	).
		Order("posts.created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&posts).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return posts, nil
}

func (r *postRepository) ListByProfile(ctx context.Context, profileID uint, limit, offset int, currentUserID uint) ([]*models.Post, error) {
	var posts []*models.Post
	if err := r.withAssociations(
		r.applyPostDetails(r.db.WithContext(ctx), currentUserID),
	).
		Where("posts.profile_id = ?", profileID).
		Order("posts.created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&posts).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return posts, nil
}

func (r *postRepository) ListLiked(ctx context.Context, userID uint, limit, offset int) ([]*models.Post, error) {
	var posts []*models.Post
	if err := r.withAssociations(
		r.applyPostDetails(r.db.WithContext(ctx), userID),
	).
		Joins("JOIN post_likes pl ON pl.post_id = posts.id").
		Where("pl.user_id = ?", userID).
		Order("posts.created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&posts).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return posts, nil
}

func (r *postRepository) ListFeed(ctx context.Context, userID uint, limit, offset int) ([]*models.Post, error) {
	followed := r.db.
		Model(&models.Follow{}).
		Select("following_id").
		Where("follower_id = ?", userID)

	ownerProfiles := r.db.
		Model(&models.Profile{}).
		Select("id").
		Where("user_id IN (?)", followed)

	var posts []*models.Post
	if err := r.withAssociations(
		r.applyPostDetails(r.db.WithContext(ctx), userID),
	).
		Where("posts.profile_id IN (?)", ownerProfiles).
		Order("posts.created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&posts).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return posts, nil
}

func (r *postRepository) Update(ctx context.Context, post *models.Post) error {
	if err := r.db.WithContext(ctx).
		Omit("Owner", "Images").
		Save(post).Error; err != nil {
		return models.NewInternalError(err)
	}
	cache.InvalidatePost(ctx, post.ID)
	return nil
}

func (r *postRepository) Delete(ctx context.Context, id uint) error {
	// Image rows are removed by the ON DELETE CASCADE constraint.
	res := r.db.WithContext(ctx).Delete(&models.Post{}, id)
	if res.Error != nil {
		return models.NewInternalError(res.Error)
	}
	if res.RowsAffected == 0 {
		return models.NewNotFoundError("Post", id)
	}
	cache.InvalidatePost(ctx, id)
	return nil
}

func (r *postRepository) ToggleLike(ctx context.Context, userID, postID uint) (bool, error) {
	defer observability.TrackQuery("toggle", "post_likes")()

	var liked bool
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.
			Where("user_id = ? AND post_id = ?", userID, postID).
			Delete(&models.Like{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected > 0 {
			liked = false
			return nil
		}

		if err := tx.Exec(
			`INSERT INTO post_likes (user_id, post_id, created_at)
			 VALUES (?, ?, CURRENT_TIMESTAMP)
			 ON CONFLICT (user_id, post_id) DO NOTHING`,
			userID, postID,
		).Error; err != nil {
			return err
		}
		liked = true
		return nil
	})
	if err != nil {
		return false, models.NewInternalError(err)
	}
	cache.InvalidatePost(ctx, postID)
	return liked, nil
}

func (r *postRepository) LikeCount(ctx context.Context, postID uint) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.Like{}).
		Where("post_id = ?", postID).
		Count(&count).Error; err != nil {
		return 0, models.NewInternalError(err)
	}
	return count, nil
}
