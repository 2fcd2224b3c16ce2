package service

import (
	"context"
	"errors"
	"strings"

	"motion/internal/models"
	"motion/internal/observability"
	"motion/internal/repository"
)

// Like toggle outcomes reported to the caller.
const (
	StatusLiked   = "liked"
	StatusUnliked = "unliked"
)

// PostService implements post creation, listing, feeds, and like toggling.
type PostService struct {
	postRepo    repository.PostRepository
	profileRepo repository.ProfileRepository
	userRepo    repository.UserRepository
	isAdmin     AdminCheck
}

// NewPostService returns a new PostService.
func NewPostService(postRepo repository.PostRepository, profileRepo repository.ProfileRepository, userRepo repository.UserRepository, isAdmin AdminCheck) *PostService {
	return &PostService{
		postRepo:    postRepo,
		profileRepo: profileRepo,
		userRepo:    userRepo,
		isAdmin:     isAdmin,
	}
}

// Create inserts a post owned by userID's profile, attaching the given image
// URLs. A missing profile is created on the fly rather than failing.
func (s *PostService) Create(ctx context.Context, userID uint, content string, imageURLs []string) (*models.Post, error) {
	if strings.TrimSpace(content) == "" {
		return nil, models.NewValidationError("Content is required")
	}

	profile, err := s.profileRepo.GetOrCreate(ctx, userID)
	if err != nil {
		return nil, err
	}

	post := &models.Post{
		ProfileID: profile.ID,
		Content:   content,
	}
	for _, url := range imageURLs {
		if url == "" {
			continue
		}
		post.Images = append(post.Images, models.Image{URL: url})
	}

	if err := s.postRepo.Create(ctx, post); err != nil {
		return nil, err
	}

	// Reload with owner and computed fields for the response.
	return s.postRepo.GetByID(ctx, post.ID, userID)
}

// Get returns a post with its owner, images, and computed like fields.
func (s *PostService) Get(ctx context.Context, id, currentUserID uint) (*models.Post, error) {
	return s.postRepo.GetByID(ctx, id, currentUserID)
}

// List returns all posts, newest first.
func (s *PostService) List(ctx context.Context, limit, offset int, currentUserID uint) ([]*models.Post, error) {
	return s.postRepo.List(ctx, limit, offset, currentUserID)
}

// Update changes a post's content. Only the owning user or an admin may
// update it.
func (s *PostService) Update(ctx context.Context, callerID, postID uint, content string) (*models.Post, error) {
	if strings.TrimSpace(content) == "" {
		return nil, models.NewValidationError("Content is required")
	}

	// Read fresh: the cached copy lacks the profile reference Save persists.
	post, err := s.postRepo.GetByIDUncached(ctx, postID, callerID)
	if err != nil {
		return nil, err
	}
	if err := s.requireOwnerOrAdmin(ctx, callerID, post); err != nil {
		return nil, err
	}

	post.Content = content
	if err := s.postRepo.Update(ctx, post); err != nil {
		return nil, err
	}
	return post, nil
}

// Delete removes a post and, through the cascade constraint, its images.
// Only the owning user or an admin may delete it.
func (s *PostService) Delete(ctx context.Context, callerID, postID uint) error {
	post, err := s.postRepo.GetByIDUncached(ctx, postID, callerID)
	if err != nil {
		return err
	}
	if err := s.requireOwnerOrAdmin(ctx, callerID, post); err != nil {
		return err
	}
	return s.postRepo.Delete(ctx, postID)
}

// ToggleLike flips userID's like on the post and reports the resulting state
// together with the post's current like count.
func (s *PostService) ToggleLike(ctx context.Context, userID, postID uint) (string, int64, error) {
	// Resolve the post first so a missing one surfaces as 404, not as a
	// silent no-op toggle.
	if _, err := s.postRepo.GetByID(ctx, postID, userID); err != nil {
		return "", 0, err
	}

	liked, err := s.postRepo.ToggleLike(ctx, userID, postID)
	if err != nil {
		return "", 0, err
	}
	count, err := s.postRepo.LikeCount(ctx, postID)
	if err != nil {
		return "", 0, err
	}

	status := StatusUnliked
	if liked {
		status = StatusLiked
	}
	observability.ToggleOperations.WithLabelValues("like", status).Inc()
	return status, count, nil
}

// Liked returns the posts userID likes, newest first.
func (s *PostService) Liked(ctx context.Context, userID uint, limit, offset int) ([]*models.Post, error) {
	return s.postRepo.ListLiked(ctx, userID, limit, offset)
}

// Feed returns posts authored by users that userID follows, newest first.
func (s *PostService) Feed(ctx context.Context, userID uint, limit, offset int) ([]*models.Post, error) {
	return s.postRepo.ListFeed(ctx, userID, limit, offset)
}

// ByUser returns the posts owned by targetUserID's profile, newest first.
// The target user must exist; a user without a profile simply has no posts.
func (s *PostService) ByUser(ctx context.Context, targetUserID uint, limit, offset int, currentUserID uint) ([]*models.Post, error) {
	exists, err := s.userRepo.Exists(ctx, targetUserID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, models.NewNotFoundError("User", targetUserID)
	}

	profile, err := s.profileRepo.GetByUserID(ctx, targetUserID)
	if err != nil {
		var appErr *models.AppError
		if errors.As(err, &appErr) && appErr.Code == "NOT_FOUND" {
			return []*models.Post{}, nil
		}
		return nil, err
	}

	return s.postRepo.ListByProfile(ctx, profile.ID, limit, offset, currentUserID)
}

// requireOwnerOrAdmin grants access to the post's owning user (compared via
// the owner profile's user id, not the post object itself) or to an admin.
func (s *PostService) requireOwnerOrAdmin(ctx context.Context, callerID uint, post *models.Post) error {
	if post.Owner.UserID == callerID {
		return nil
	}
	admin, err := s.isAdmin(ctx, callerID)
	if err != nil {
		return err
	}
	if !admin {
		return models.NewForbiddenError("You do not have permission to modify this post")
	}
	return nil
}
