// Package models contains data structures for the application's domain models.
package models

import "time"

// Reserved group names checked by the permission predicates.
const (
	GroupAdmins     = "Admins"
	GroupModerators = "Moderators"
)

// Group is a named role container. Membership drives the moderator and
// admin permission predicates.
type Group struct {
	ID   uint   `gorm:"primaryKey" json:"id"`
	Name string `gorm:"unique;not null" json:"name"`
}

// User represents an account in the Motion application.
type User struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Email       string    `gorm:"unique;not null" json:"email"`
	Username    string    `gorm:"not null" json:"username"`
	Password    string    `gorm:"not null" json:"-"`
	IsStaff     bool      `gorm:"not null;default:false" json:"is_staff"`
	IsSuperuser bool      `gorm:"not null;default:false" json:"is_superuser"`
	Groups      []Group   `gorm:"many2many:user_groups;constraint:OnDelete:CASCADE" json:"groups,omitempty"`
	CreatedAt   time.Time `json:"created"`
	Profile     *Profile  `gorm:"constraint:OnDelete:CASCADE" json:"profile,omitempty"`
}

// InGroup reports whether the user is a member of the named group.
// Groups must have been preloaded.
func (u *User) InGroup(name string) bool {
	for _, g := range u.Groups {
		if g.Name == name {
			return true
		}
	}
	return false
}

// IsModerator reports whether the user belongs to the Moderators group.
func (u *User) IsModerator() bool {
	return u.InGroup(GroupModerators)
}

// HasAdminRights reports whether the user holds admin-level privileges:
// staff, superuser, or membership in the Admins or Moderators group.
func (u *User) HasAdminRights() bool {
	if u.IsStaff || u.IsSuperuser {
		return true
	}
	return u.InGroup(GroupAdmins) || u.InGroup(GroupModerators)
}
