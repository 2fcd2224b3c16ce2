package models

import (
	"time"

	"gorm.io/datatypes"
)

// Profile is the public-facing extension of a user account, distinct from
// the authentication credentials. Exactly one profile exists per user; it is
// created inside the user-creation transaction.
type Profile struct {
	ID          uint                        `gorm:"primaryKey" json:"id"`
	UserID      uint                        `gorm:"not null;uniqueIndex" json:"-"`
	User        *User                       `gorm:"constraint:OnDelete:CASCADE" json:"user,omitempty"`
	Job         string                      `gorm:"size:100" json:"job"`
	Avatar      string                      `json:"avatar"`
	Location    string                      `gorm:"size:100" json:"location"`
	PhoneNumber string                      `gorm:"size:30" json:"phone_number"`
	AboutMe     string                      `gorm:"type:text" json:"about_me"`
	Hashtags    datatypes.JSONSlice[string] `json:"user_hashtags"`
	UpdatedAt   time.Time                   `json:"updated"`
	Posts       []Post                      `gorm:"foreignKey:ProfileID;constraint:OnDelete:CASCADE" json:"-"`
}
