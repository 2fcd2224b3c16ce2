package repository

import (
	"context"
	"errors"

	"motion/internal/cache"
	"motion/internal/models"

	"gorm.io/gorm"
)

// ProfileRepository defines persistence operations for user profiles.
type ProfileRepository interface {
	GetByUserID(ctx context.Context, userID uint) (*models.Profile, error)
	// GetOrCreate returns the profile for userID, creating it when missing.
	// The one-profile-per-user invariant is self-healed here rather than
	// surfaced as an error.
	GetOrCreate(ctx context.Context, userID uint) (*models.Profile, error)
	Update(ctx context.Context, profile *models.Profile) error
}

type profileRepository struct {
	db *gorm.DB
}

// NewProfileRepository returns a new ProfileRepository implementation.
func NewProfileRepository(db *gorm.DB) ProfileRepository {
	return &profileRepository{db: db}
}

func (r *profileRepository) GetByUserID(ctx context.Context, userID uint) (*models.Profile, error) {
	var profile models.Profile
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		First(&profile).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Profile", userID)
		}
		return nil, models.NewInternalError(err)
	}
	return &profile, nil
}

func (r *profileRepository) GetOrCreate(ctx context.Context, userID uint) (*models.Profile, error) {
	var profile models.Profile
	if err := r.db.WithContext(ctx).
		Where(models.Profile{UserID: userID}).
		FirstOrCreate(&profile).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return &profile, nil
}

func (r *profileRepository) Update(ctx context.Context, profile *models.Profile) error {
	if err := r.db.WithContext(ctx).Save(profile).Error; err != nil {
		return models.NewInternalError(err)
	}
	cache.InvalidateUser(ctx, profile.UserID)
	return nil
}
