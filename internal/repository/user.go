// Package repository implements the data access layer for the application.
package repository

import (
	"context"
	"errors"
	"strings"

	"motion/internal/cache"
	"motion/internal/models"
	"motion/internal/observability"

	"gorm.io/gorm"
)

// UserRepository defines persistence operations for users.
type UserRepository interface {
	// Create inserts the user and its profile in one transaction.
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id uint) (*models.User, error)
	// GetByIDUncached reads straight from the database. Reads that feed a
	// subsequent write must use it: the cached form is the serialized API
	// view and drops the password hash.
	GetByIDUncached(ctx context.Context, id uint) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	List(ctx context.Context, limit, offset int) ([]models.User, error)
	Update(ctx context.Context, user *models.User) error
	Delete(ctx context.Context, id uint) error
	Exists(ctx context.Context, id uint) (bool, error)
	// IsAdmin reports whether the user is staff, superuser, or a member of
	// an admin-capable group.
	IsAdmin(ctx context.Context, id uint) (bool, error)
}

type userRepository struct {
	db *gorm.DB
}

// NewUserRepository returns a new UserRepository implementation.
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Create(ctx context.Context, user *models.User) error {
	defer observability.TrackQuery("create", "users")()

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Profile", "Groups").Create(user).Error; err != nil {
			return err
		}
		profile := &models.Profile{UserID: user.ID}
		if err := tx.Create(profile).Error; err != nil {
			return err
		}
		user.Profile = profile
		return nil
	})
	if err != nil {
		if isUniqueConstraintError(err) {
			return models.NewValidationError("A user with this email already exists")
		}
		return models.NewInternalError(err)
	}
	return nil
}

func (r *userRepository) fetchUser(ctx context.Context, user *models.User, id uint) error {
	if err := r.db.WithContext(ctx).
		Preload("Profile").
		Preload("Groups").
		First(user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.NewNotFoundError("User", id)
		}
		return models.NewInternalError(err)
	}
	return nil
}

func (r *userRepository) GetByID(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	err := cache.Aside(ctx, cache.UserKey(id), &user, cache.UserTTL, func() error {
		return r.fetchUser(ctx, &user, id)
	})
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) GetByIDUncached(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	if err := r.fetchUser(ctx, &user, id); err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, models.NewInternalError(err)
	}
	return &user, nil
}

func (r *userRepository) List(ctx context.Context, limit, offset int) ([]models.User, error) {
	var users []models.User
	if err := r.db.WithContext(ctx).
		Preload("Profile").
		Limit(limit).Offset(offset).
		Find(&users).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return users, nil
}

func (r *userRepository) Update(ctx context.Context, user *models.User) error {
	omit := []string{"Groups"}
	if user.Password == "" {
		// A stored hash is never blank; an empty value means the caller did
		// not load the column, so it must not be written back.
		omit = append(omit, "password")
	}
	if err := r.db.WithContext(ctx).Omit(omit...).Save(user).Error; err != nil {
		if isUniqueConstraintError(err) {
			return models.NewValidationError("A user with this email already exists")
		}
		return models.NewInternalError(err)
	}
	if user.Profile != nil {
		if err := r.db.WithContext(ctx).Save(user.Profile).Error; err != nil {
			return models.NewInternalError(err)
		}
	}
	cache.InvalidateUser(ctx, user.ID)
	return nil
}

func (r *userRepository) Delete(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&models.User{}, id)
	if res.Error != nil {
		return models.NewInternalError(res.Error)
	}
	if res.RowsAffected == 0 {
		return models.NewNotFoundError("User", id)
	}
	cache.InvalidateUser(ctx, id)
	return nil
}

func (r *userRepository) Exists(ctx context.Context, id uint) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.User{}).
		Where("id = ?", id).
		Count(&count).Error; err != nil {
		return false, models.NewInternalError(err)
	}
	return count > 0, nil
}

func (r *userRepository) IsAdmin(ctx context.Context, id uint) (bool, error) {
	var user models.User
	if err := r.db.WithContext(ctx).
		Preload("Groups").
		First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, models.NewNotFoundError("User", id)
		}
		return false, models.NewInternalError(err)
	}
	return user.HasAdminRights(), nil
}

// isUniqueConstraintError checks if a DB error is a unique constraint violation.
func isUniqueConstraintError(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	// PostgreSQL unique violation SQLSTATE 23505
	return strings.Contains(msg, "duplicate key") ||
		strings.Contains(msg, "unique constraint") ||
		strings.Contains(msg, "23505")
}
