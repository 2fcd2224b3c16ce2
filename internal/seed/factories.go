// Package seed provides helpers to create test and demo data for the
// application database. These helpers are intended for development and
// testing only.
package seed

import (
	"fmt"

	"motion/internal/models"

	"github.com/brianvoe/gofakeit/v6"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"golang.org/x/crypto/bcrypt"
)

// Factory builds domain entities and persists them to the database.
type Factory struct {
	db *gorm.DB
}

// NewFactory creates a new Factory bound to the provided Gorm DB.
func NewFactory(db *gorm.DB) *Factory {
	return &Factory{db: db}
}

// CreateUser constructs and persists a sample user together with its
// profile. Optional override functions may modify the generated user
// before saving.
func (f *Factory) CreateUser(overrides ...func(*models.User)) (*models.User, error) {
	hashedPassword, _ := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)

	user := &models.User{
		Username: gofakeit.Username() + fmt.Sprintf("%d", gofakeit.Number(100, 999)),
		Email:    gofakeit.Email(),
		Password: string(hashedPassword),
		Profile: &models.Profile{
			Job:         gofakeit.JobTitle(),
			Avatar:      fmt.Sprintf("https://i.pravatar.cc/150?u=%s", gofakeit.UUID()),
			Location:    gofakeit.City(),
			PhoneNumber: gofakeit.Phone(),
			AboutMe:     gofakeit.Sentence(10),
			Hashtags:    randomHashtags(),
		},
	}

	for _, override := range overrides {
		override(user)
	}

	if err := f.db.Create(user).Error; err != nil {
		return nil, err
	}
	return user, nil
}

// CreatePost constructs and persists a sample post for the given user's
// profile, with between zero and three images attached.
func (f *Factory) CreatePost(user *models.User, overrides ...func(*models.Post)) (*models.Post, error) {
	post := &models.Post{
		ProfileID: user.Profile.ID,
		Content:   gofakeit.Paragraph(1, 3, 5, "\n"),
	}

	for i := 0; i < gofakeit.Number(0, 3); i++ {
		post.Images = append(post.Images, models.Image{
			URL: fmt.Sprintf("https://picsum.photos/seed/%s/800/800", gofakeit.UUID()),
		})
	}

	for _, override := range overrides {
		override(post)
	}

	if err := f.db.Create(post).Error; err != nil {
		return nil, err
	}
	return post, nil
}

// CreateFollow persists a follow edge from follower to following.
// Duplicate pairs are skipped.
func (f *Factory) CreateFollow(follower, following *models.User) error {
	return f.db.Exec(
		`INSERT INTO follows (follower_id, following_id, created_at, updated_at)
		 VALUES (?, ?, NOW(), NOW())
		 ON CONFLICT (follower_id, following_id) DO NOTHING`,
		follower.ID, following.ID,
	).Error
}

// CreateLike persists a like from user on post. Duplicates are skipped.
func (f *Factory) CreateLike(user *models.User, post *models.Post) error {
	return f.db.Exec(
		`INSERT INTO post_likes (user_id, post_id, created_at)
		 VALUES (?, ?, NOW())
		 ON CONFLICT (user_id, post_id) DO NOTHING`,
		user.ID, post.ID,
	).Error
}

func randomHashtags() datatypes.JSONSlice[string] {
	tags := make([]string, 0, 4)
	for i := 0; i < gofakeit.Number(1, 4); i++ {
		tags = append(tags, gofakeit.HackerNoun())
	}
	return datatypes.NewJSONSlice(tags)
}
