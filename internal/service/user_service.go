// Package service implements the business rules on top of the repositories.
package service

import (
	"context"
	"strings"

	"motion/internal/models"
	"motion/internal/repository"

	"golang.org/x/crypto/bcrypt"
)

// AdminCheck reports whether a user holds admin-level privileges.
type AdminCheck func(ctx context.Context, userID uint) (bool, error)

// UserService implements account registration and management.
type UserService struct {
	userRepo repository.UserRepository
	isAdmin  AdminCheck
}

// NewUserService returns a new UserService.
func NewUserService(userRepo repository.UserRepository, isAdmin AdminCheck) *UserService {
	return &UserService{userRepo: userRepo, isAdmin: isAdmin}
}

// RegisterInput carries the fields accepted at registration.
type RegisterInput struct {
	Email    string
	Username string
	Password string
}

// UpdateUserInput carries the fields accepted on user update. Zero-valued
// fields are left unchanged (PATCH semantics); PUT goes through the same
// path.
type UpdateUserInput struct {
	TargetID uint
	Email    string
	Username string
	Password string
	Profile  *UpdateProfileInput
}

// UpdateProfileInput carries profile fields nested in a user update.
type UpdateProfileInput struct {
	Job         *string
	Avatar      *string
	Location    *string
	PhoneNumber *string
	AboutMe     *string
	Hashtags    []string
}

// Register creates a user account together with its profile in one
// transaction.
func (s *UserService) Register(ctx context.Context, in RegisterInput) (*models.User, error) {
	in.Email = strings.TrimSpace(in.Email)
	in.Username = strings.TrimSpace(in.Username)

	if in.Email == "" || in.Password == "" {
		return nil, models.NewValidationError("Email and password are required")
	}
	if !strings.Contains(in.Email, "@") {
		return nil, models.NewValidationError("Invalid email address")
	}
	if in.Username == "" {
		in.Username = in.Email[:strings.Index(in.Email, "@")]
	}

	existing, err := s.userRepo.GetByEmail(ctx, in.Email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, models.NewValidationError("A user with this email already exists")
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, models.NewInternalError(err)
	}

	user := &models.User{
		Email:    in.Email,
		Username: in.Username,
		Password: string(hashed),
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// List returns users; callers gate this behind the admin predicate.
func (s *UserService) List(ctx context.Context, limit, offset int) ([]models.User, error) {
	return s.userRepo.List(ctx, limit, offset)
}

// Get returns a user with its profile.
func (s *UserService) Get(ctx context.Context, id uint) (*models.User, error) {
	return s.userRepo.GetByID(ctx, id)
}

// Update modifies a user record. Only the user themselves or an admin may
// update it.
func (s *UserService) Update(ctx context.Context, callerID uint, in UpdateUserInput) (*models.User, error) {
	if err := s.requireOwnerOrAdmin(ctx, callerID, in.TargetID); err != nil {
		return nil, err
	}

	// Read fresh: the cached copy has no password hash, and Save would
	// persist whatever this struct carries.
	user, err := s.userRepo.GetByIDUncached(ctx, in.TargetID)
	if err != nil {
		return nil, err
	}

	if in.Email != "" {
		if !strings.Contains(in.Email, "@") {
			return nil, models.NewValidationError("Invalid email address")
		}
		user.Email = in.Email
	}
	if in.Username != "" {
		user.Username = in.Username
	}
	if in.Password != "" {
		hashed, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, models.NewInternalError(err)
		}
		user.Password = string(hashed)
	}
	if in.Profile != nil && user.Profile != nil {
		applyProfileUpdate(user.Profile, in.Profile)
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// Delete removes a user. The profile, posts, images, likes and follow edges
// referencing the user go with it via the cascade constraints.
func (s *UserService) Delete(ctx context.Context, callerID, targetID uint) error {
	if err := s.requireOwnerOrAdmin(ctx, callerID, targetID); err != nil {
		return err
	}
	return s.userRepo.Delete(ctx, targetID)
}

func (s *UserService) requireOwnerOrAdmin(ctx context.Context, callerID, targetID uint) error {
	if callerID == targetID {
		return nil
	}
	admin, err := s.isAdmin(ctx, callerID)
	if err != nil {
		return err
	}
	if !admin {
		return models.NewForbiddenError("You do not have permission to modify this user")
	}
	return nil
}

func applyProfileUpdate(profile *models.Profile, in *UpdateProfileInput) {
	if in.Job != nil {
		profile.Job = *in.Job
	}
	if in.Avatar != nil {
		profile.Avatar = *in.Avatar
	}
	if in.Location != nil {
		profile.Location = *in.Location
	}
	if in.PhoneNumber != nil {
		profile.PhoneNumber = *in.PhoneNumber
	}
	if in.AboutMe != nil {
		profile.AboutMe = *in.AboutMe
	}
	if in.Hashtags != nil {
		profile.Hashtags = in.Hashtags
	}
}
