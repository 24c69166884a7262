// Package models contains data structures for the application's domain models.
package models

import (
	"time"

	"gorm.io/gorm"
)

// Role distinguishes regular users from administrators.
type Role string

const (
	// RoleUser is the default role for registered users.
	RoleUser Role = "user"
	// RoleAdmin grants moderation rights over all blogs and comments.
	RoleAdmin Role = "admin"
)

// User represents an author or reader in the Inkwell application.
type User struct {
	ID              uint           `gorm:"primaryKey" json:"id"`
	Username        string         `gorm:"unique;not null" json:"username"`
	Email           string         `gorm:"unique;not null" json:"email"`
	Password        string         `gorm:"not null" json:"-"`
	Role            Role           `gorm:"type:varchar(20);not null;default:'user'" json:"role"`
	Bio             string         `json:"bio"`
	Avatar          string         `json:"avatar"`
	EmailVerifiedAt *time.Time     `json:"email_verified_at,omitempty"`
	CreatedAt       time.Time      `json:"created_at"`
	UpdatedAt       time.Time      `json:"updated_at"`
	DeletedAt       gorm.DeletedAt `gorm:"index" json:"-"`
	Blogs           []Blog         `gorm:"foreignKey:AuthorID" json:"blogs,omitempty"`
}

// IsAdmin reports whether the user holds the admin role.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// Account links a user to an external OAuth provider identity.
// The (Provider, ProviderAccountID) pair is unique.
type Account struct {
	ID                uint      `gorm:"primaryKey" json:"id"`
	UserID            uint      `gorm:"not null;index" json:"user_id"`
	Provider          string    `gorm:"not null;uniqueIndex:idx_provider_account" json:"provider"`
	ProviderAccountID string    `gorm:"not null;uniqueIndex:idx_provider_account" json:"provider_account_id"`
	CreatedAt         time.Time `json:"created_at"`

	User User `gorm:"foreignKey:UserID" json:"-"`
}
