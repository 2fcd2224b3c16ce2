package models

import "time"

// Post is a text post owned by a profile.
type Post struct {
	ID        uint    `gorm:"primaryKey" json:"id"`
	ProfileID uint    `gorm:"not null;index" json:"-"`
	Owner     Profile `gorm:"foreignKey:ProfileID" json:"user"`
	Content   string  `gorm:"type:text;not null" json:"content"`
	// LikesCount is not persisted; computed at query time
	LikesCount int `gorm:"->" json:"likes_count"`
	// Liked indicates whether the current requesting user liked this post (computed)
	Liked     bool      `gorm:"->" json:"liked"`
	Images    []Image   `gorm:"constraint:OnDelete:CASCADE" json:"images"`
	CreatedAt time.Time `json:"created"`
	UpdatedAt time.Time `json:"updated"`
}

// Image is a URL reference attached to a post. Images are deleted together
// with their owning post.
type Image struct {
	ID     uint   `gorm:"primaryKey" json:"id"`
	PostID uint   `gorm:"not null;index" json:"-"`
	URL    string `gorm:"not null" json:"image"`
}

// Like associates a user with a post they liked. The (user, post) pair is
// unique; the liker set is never serialized, only its count.
type Like struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_like_user_post" json:"user_id"`
	PostID    uint      `gorm:"not null;uniqueIndex:idx_like_user_post" json:"post_id"`
	CreatedAt time.Time `json:"created"`

	User *User `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	Post *Post `gorm:"foreignKey:PostID;constraint:OnDelete:CASCADE" json:"-"`
}

// TableName specifies the table name for GORM.
func (Like) TableName() string {
	return "post_likes"
}
