package models

import "time"

// VerificationToken is a single-use token mailed to a user to confirm their
// email address.
type VerificationToken struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Token     string    `gorm:"unique;not null" json:"token"`
	UserID    uint      `gorm:"not null;index" json:"user_id"`
	Email     string    `gorm:"not null" json:"email"`
	ExpiresAt time.Time `gorm:"not null" json:"expires_at"`
	CreatedAt time.Time `json:"created_at"`
}

// PasswordResetToken is a single-use token mailed to a user to let them set
// a new password.
type PasswordResetToken struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Token     string    `gorm:"unique;not null" json:"token"`
	UserID    uint      `gorm:"not null;index" json:"user_id"`
	Email     string    `gorm:"not null" json:"email"`
	ExpiresAt time.Time `gorm:"not null" json:"expires_at"`
	CreatedAt time.Time `json:"created_at"`
}

// Expired reports whether the token is past its expiry.
func (t *VerificationToken) Expired() bool {
	return time.Now().After(t.ExpiresAt)
}

// Expired reports whether the token is past its expiry.
func (t *PasswordResetToken) Expired() bool {
	return time.Now().After(t.ExpiresAt)
}
