package seed

import (
	"fmt"
	"log"
	"math/rand"

	"motion/internal/models"

	"gorm.io/gorm"
)

// Options configuration for the seeder
type Options struct {
	NumUsers    int
	NumPosts    int
	ShouldClean bool
}

// Seed populates the database with test data: users with profiles, a
// follow mesh, posts with images, and likes.
func Seed(db *gorm.DB, opts Options) error {
	log.Printf("Starting database seeding with %d users and %d posts...", opts.NumUsers, opts.NumPosts)

	if opts.ShouldClean {
		if err := clearData(db); err != nil {
			log.Println("Warning: Could not clear all existing data, but continuing anyway...")
		}
	}

	f := NewFactory(db)

	users := make([]*models.User, 0, opts.NumUsers)
	for i := 0; i < opts.NumUsers; i++ {
		user, err := f.CreateUser()
		if err != nil {
			return fmt.Errorf("failed to create users: %w", err)
		}
		users = append(users, user)
	}
	log.Printf("%d test users created", len(users))

	if err := seedFollowMesh(f, users); err != nil {
		return fmt.Errorf("failed to create follow mesh: %w", err)
	}

	posts := make([]*models.Post, 0, opts.NumPosts)
	for i := 0; i < opts.NumPosts; i++ {
		owner := users[rand.Intn(len(users))]
		post, err := f.CreatePost(owner)
		if err != nil {
			return fmt.Errorf("failed to create posts: %w", err)
		}
		posts = append(posts, post)
	}
	log.Printf("%d posts created", len(posts))

	if err := seedLikes(f, users, posts); err != nil {
		return fmt.Errorf("failed to create likes: %w", err)
	}

	log.Println("Database seeding completed successfully!")
	return nil
}

// seedFollowMesh gives each user a handful of random followings.
func seedFollowMesh(f *Factory, users []*models.User) error {
	for _, follower := range users {
		count := rand.Intn(len(users)/2 + 1)
		for i := 0; i < count; i++ {
			target := users[rand.Intn(len(users))]
			if target.ID == follower.ID {
				continue
			}
			if err := f.CreateFollow(follower, target); err != nil {
				return err
			}
		}
	}
	return nil
}

// seedLikes sprinkles likes across posts from random users.
func seedLikes(f *Factory, users []*models.User, posts []*models.Post) error {
	for _, post := range posts {
		count := rand.Intn(len(users)/3 + 1)
		for i := 0; i < count; i++ {
			user := users[rand.Intn(len(users))]
			if err := f.CreateLike(user, post); err != nil {
				return err
			}
		}
	}
	return nil
}

func clearData(db *gorm.DB) error {
	log.Println("Clearing existing data...")
	sql := `TRUNCATE TABLE post_likes, images, posts, follows, user_groups, profiles, users RESTART IDENTITY CASCADE;`
	return db.Exec(sql).Error
}
