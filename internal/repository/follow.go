package repository

import (
	"context"

	"motion/internal/models"
	"motion/internal/observability"

	"gorm.io/gorm"
)

// FollowRepository defines persistence operations on the follow graph.
type FollowRepository interface {
	// Toggle flips the edge follower → following. It returns true when the
	// call created the edge ("followed") and false when it removed it
	// ("unfollowed"). The check-and-flip runs in one transaction so two
	// concurrent toggles cannot both insert; the unique (follower, following)
	// index is the backstop.
	Toggle(ctx context.Context, followerID, followingID uint) (bool, error)
	ListFollowers(ctx context.Context, userID uint) ([]models.User, error)
	ListFollowing(ctx context.Context, userID uint) ([]models.User, error)
}

type followRepository struct {
	db *gorm.DB
}

// NewFollowRepository returns a new FollowRepository implementation.
func NewFollowRepository(db *gorm.DB) FollowRepository {
	return &followRepository{db: db}
}

func (r *followRepository) Toggle(ctx context.Context, followerID, followingID uint) (bool, error) {
	defer observability.TrackQuery("toggle", "follows")()

	var followed bool
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.
			Where("follower_id = ? AND following_id = ?", followerID, followingID).
			Delete(&models.Follow{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected > 0 {
			followed = false
			return nil
		}

		// ON CONFLICT DO NOTHING keeps the pair unique under concurrent
		// toggles: the loser of the race observes the winner's edge.
		if err := tx.Exec(
			`INSERT INTO follows (follower_id, following_id, created_at, updated_at)
			 VALUES (?, ?, CURRENT_TIMESTAMP, CURRENT_TIMESTAMP)
			 ON CONFLICT (follower_id, following_id) DO NOTHING`,
			followerID, followingID,
		).Error; err != nil {
			return err
		}
		followed = true
		return nil
	})
	if err != nil {
		return false, models.NewInternalError(err)
	}
	return followed, nil
}

func (r *followRepository) ListFollowers(ctx context.Context, userID uint) ([]models.User, error) {
	var users []models.User
	if err := r.db.WithContext(ctx).
		Table("users").
		Joins("JOIN follows ON follows.follower_id = users.id").
		Where("follows.following_id = ?", userID).
		Order("follows.id").
		Find(&users).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return users, nil
}

func (r *followRepository) ListFollowing(ctx context.Context, userID uint) ([]models.User, error) {
	var users []models.User
	if err := r.db.WithContext(ctx).
		Table("users").
		Joins("JOIN follows ON follows.following_id = users.id").
		Where("follows.follower_id = ?", userID).
		Order("follows.id").
		Find(&users).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return users, nil
}
