package service

import (
	"context"

	"motion/internal/models"
	"motion/internal/observability"
	"motion/internal/repository"
)

// Follow toggle outcomes reported to the caller.
const (
	StatusFollowed   = "followed"
	StatusUnfollowed = "unfollowed"
)

// FollowService implements the follow graph operations.
type FollowService struct {
	followRepo repository.FollowRepository
	userRepo   repository.UserRepository
}

// NewFollowService returns a new FollowService.
func NewFollowService(followRepo repository.FollowRepository, userRepo repository.UserRepository) *FollowService {
	return &FollowService{followRepo: followRepo, userRepo: userRepo}
}

// Toggle flips the follow edge from followerID to targetID and reports the
// resulting state. Following oneself is rejected, and the target must exist.
func (s *FollowService) Toggle(ctx context.Context, followerID, targetID uint) (string, error) {
	if followerID == targetID {
		return "", models.NewValidationError("You cannot follow yourself")
	}

	exists, err := s.userRepo.Exists(ctx, targetID)
	if err != nil {
		return "", err
	}
	if !exists {
		return "", models.NewNotFoundError("User", targetID)
	}

	followed, err := s.followRepo.Toggle(ctx, followerID, targetID)
	if err != nil {
		return "", err
	}
	if followed {
		observability.ToggleOperations.WithLabelValues("follow", StatusFollowed).Inc()
		return StatusFollowed, nil
	}
	observability.ToggleOperations.WithLabelValues("follow", StatusUnfollowed).Inc()
	return StatusUnfollowed, nil
}

// Followers returns the users following userID.
func (s *FollowService) Followers(ctx context.Context, userID uint) ([]models.User, error) {
	return s.followRepo.ListFollowers(ctx, userID)
}

// Following returns the users userID follows.
func (s *FollowService) Following(ctx context.Context, userID uint) ([]models.User, error) {
	return s.followRepo.ListFollowing(ctx, userID)
}
