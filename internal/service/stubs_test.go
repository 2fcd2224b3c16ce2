package service

import (
	"context"
	"errors"
	"testing"

	"motion/internal/models"
)

// Function-field stubs for the repository interfaces. Tests override only
// the calls they care about.

type userRepoStub struct {
	createFn          func(context.Context, *models.User) error
	getByIDFn         func(context.Context, uint) (*models.User, error)
	getByIDUncachedFn func(context.Context, uint) (*models.User, error)
	getByEmailFn      func(context.Context, string) (*models.User, error)
	listFn            func(context.Context, int, int) ([]models.User, error)
	updateFn          func(context.Context, *models.User) error
	deleteFn          func(context.Context, uint) error
	existsFn          func(context.Context, uint) (bool, error)
	isAdminFn         func(context.Context, uint) (bool, error)
}

func (s *userRepoStub) Create(ctx context.Context, user *models.User) error {
	return s.createFn(ctx, user)
}
func (s *userRepoStub) GetByID(ctx context.Context, id uint) (*models.User, error) {
	return s.getByIDFn(ctx, id)
}
func (s *userRepoStub) GetByIDUncached(ctx context.Context, id uint) (*models.User, error) {
	return s.getByIDUncachedFn(ctx, id)
}
func (s *userRepoStub) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.getByEmailFn(ctx, email)
}
func (s *userRepoStub) List(ctx context.Context, limit, offset int) ([]models.User, error) {
	return s.listFn(ctx, limit, offset)
}
func (s *userRepoStub) Update(ctx context.Context, user *models.User) error {
	return s.updateFn(ctx, user)
}
func (s *userRepoStub) Delete(ctx context.Context, id uint) error {
	return s.deleteFn(ctx, id)
}
func (s *userRepoStub) Exists(ctx context.Context, id uint) (bool, error) {
	return s.existsFn(ctx, id)
}
func (s *userRepoStub) IsAdmin(ctx context.Context, id uint) (bool, error) {
	return s.isAdminFn(ctx, id)
}

func noopUserRepo() *userRepoStub {
	return &userRepoStub{
		createFn:          func(context.Context, *models.User) error { return nil },
		getByIDFn:         func(context.Context, uint) (*models.User, error) { return &models.User{}, nil },
		getByIDUncachedFn: func(context.Context, uint) (*models.User, error) { return &models.User{}, nil },
		getByEmailFn:      func(context.Context, string) (*models.User, error) { return nil, nil },
		listFn:            func(context.Context, int, int) ([]models.User, error) { return nil, nil },
		updateFn:          func(context.Context, *models.User) error { return nil },
		deleteFn:          func(context.Context, uint) error { return nil },
		existsFn:          func(context.Context, uint) (bool, error) { return true, nil },
		isAdminFn:         func(context.Context, uint) (bool, error) { return false, nil },
	}
}

type followRepoStub struct {
	toggleFn        func(context.Context, uint, uint) (bool, error)
	listFollowersFn func(context.Context, uint) ([]models.User, error)
	listFollowingFn func(context.Context, uint) ([]models.User, error)
}

func (s *followRepoStub) Toggle(ctx context.Context, followerID, followingID uint) (bool, error) {
	return s.toggleFn(ctx, followerID, followingID)
}
func (s *followRepoStub) ListFollowers(ctx context.Context, userID uint) ([]models.User, error) {
	return s.listFollowersFn(ctx, userID)
}
func (s *followRepoStub) ListFollowing(ctx context.Context, userID uint) ([]models.User, error) {
	return s.listFollowingFn(ctx, userID)
}

func noopFollowRepo() *followRepoStub {
	return &followRepoStub{
		toggleFn:        func(context.Context, uint, uint) (bool, error) { return true, nil },
		listFollowersFn: func(context.Context, uint) ([]models.User, error) { return nil, nil },
		listFollowingFn: func(context.Context, uint) ([]models.User, error) { return nil, nil },
	}
}

type profileRepoStub struct {
	getByUserIDFn func(context.Context, uint) (*models.Profile, error)
	getOrCreateFn func(context.Context, uint) (*models.Profile, error)
	updateFn      func(context.Context, *models.Profile) error
}

func (s *profileRepoStub) GetByUserID(ctx context.Context, userID uint) (*models.Profile, error) {
	return s.getByUserIDFn(ctx, userID)
}
func (s *profileRepoStub) GetOrCreate(ctx context.Context, userID uint) (*models.Profile, error) {
	return s.getOrCreateFn(ctx, userID)
}
func (s *profileRepoStub) Update(ctx context.Context, profile *models.Profile) error {
	return s.updateFn(ctx, profile)
}

func noopProfileRepo() *profileRepoStub {
	return &profileRepoStub{
		getByUserIDFn: func(_ context.Context, userID uint) (*models.Profile, error) {
			return &models.Profile{ID: userID * 10, UserID: userID}, nil
		},
		getOrCreateFn: func(_ context.Context, userID uint) (*models.Profile, error) {
			return &models.Profile{ID: userID * 10, UserID: userID}, nil
		},
		updateFn: func(context.Context, *models.Profile) error { return nil },
	}
}

type postRepoStub struct {
	createFn          func(context.Context, *models.Post) error
	getByIDFn         func(context.Context, uint, uint) (*models.Post, error)
	getByIDUncachedFn func(context.Context, uint, uint) (*models.Post, error)
	listFn            func(context.Context, int, int, uint) ([]*models.Post, error)
	listByProfileFn   func(context.Context, uint, int, int, uint) ([]*models.Post, error)
	listLikedFn       func(context.Context, uint, int, int) ([]*models.Post, error)
	listFeedFn        func(context.Context, uint, int, int) ([]*models.Post, error)
	updateFn          func(context.Context, *models.Post) error
	deleteFn          func(context.Context, uint) error
	toggleLikeFn      func(context.Context, uint, uint) (bool, error)
	likeCountFn       func(context.Context, uint) (int64, error)
}

func (s *postRepoStub) Create(ctx context.Context, post *models.Post) error {
	return s.createFn(ctx, post)
}
func (s *postRepoStub) GetByID(ctx context.Context, id, currentUserID uint) (*models.Post, error) {
	return s.getByIDFn(ctx, id, currentUserID)
}
func (s *postRepoStub) GetByIDUncached(ctx context.Context, id, currentUserID uint) (*models.Post, error) {
	return s.getByIDUncachedFn(ctx, id, currentUserID)
}
func (s *postRepoStub) List(ctx context.Context, limit, offset int, currentUserID uint) ([]*models.Post, error) {
	return s.listFn(ctx, limit, offset, currentUserID)
}
func (s *postRepoStub) ListByProfile(ctx context.Context, profileID uint, limit, offset int, currentUserID uint) ([]*models.Post, error) {
	return s.listByProfileFn(ctx, profileID, limit, offset, currentUserID)
}
func (s *postRepoStub) ListLiked(ctx context.Context, userID uint, limit, offset int) ([]*models.Post, error) {
	return s.listLikedFn(ctx, userID, limit, offset)
}
func (s *postRepoStub) ListFeed(ctx context.Context, userID uint, limit, offset int) ([]*models.Post, error) {
	return s.listFeedFn(ctx, userID, limit, offset)
}
func (s *postRepoStub) Update(ctx context.Context, post *models.Post) error {
	return s.updateFn(ctx, post)
}
func (s *postRepoStub) Delete(ctx context.Context, id uint) error {
	return s.deleteFn(ctx, id)
}
func (s *postRepoStub) ToggleLike(ctx context.Context, userID, postID uint) (bool, error) {
	return s.toggleLikeFn(ctx, userID, postID)
}
func (s *postRepoStub) LikeCount(ctx context.Context, postID uint) (int64, error) {
	return s.likeCountFn(ctx, postID)
}

func noopPostRepo() *postRepoStub {
	return &postRepoStub{
		createFn:  func(context.Context, *models.Post) error { return nil },
		getByIDFn: func(_ context.Context, id, _ uint) (*models.Post, error) { return &models.Post{ID: id}, nil },
		getByIDUncachedFn: func(_ context.Context, id, _ uint) (*models.Post, error) {
			return &models.Post{ID: id}, nil
		},
		listFn: func(context.Context, int, int, uint) ([]*models.Post, error) {
			return nil, nil
		},
		listByProfileFn: func(context.Context, uint, int, int, uint) ([]*models.Post, error) {
			return nil, nil
		},
		listLikedFn: func(context.Context, uint, int, int) ([]*models.Post, error) { return nil, nil },
		listFeedFn:  func(context.Context, uint, int, int) ([]*models.Post, error) { return nil, nil },
		updateFn:    func(context.Context, *models.Post) error { return nil },
		deleteFn:    func(context.Context, uint) error { return nil },
		toggleLikeFn: func(context.Context, uint, uint) (bool, error) {
			return true, nil
		},
		likeCountFn: func(context.Context, uint) (int64, error) { return 0, nil },
	}
}

func adminCheckOf(repo *userRepoStub) AdminCheck {
	return repo.IsAdmin
}

func assertAppErrorCode(t *testing.T, err error, code string) {
	t.Helper()
	var appErr *models.AppError
	if !errors.As(err, &appErr) || appErr.Code != code {
		t.Fatalf("expected %s app error, got %#v", code, err)
	}
}
