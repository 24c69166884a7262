// Package models contains data structures for the application's domain models.
package models

import (
	"time"

	"gorm.io/gorm"
)

// Comment represents a comment on a blog. A nil ParentCommentID marks a
// top-level comment; a non-nil one marks a direct reply. Exactly one level
// of nesting is allowed and enforced at write time.
type Comment struct {
	ID              uint           `gorm:"primaryKey" json:"id"`
	Content         string         `gorm:"not null" json:"content"`
	UserID          uint           `gorm:"not null;index" json:"user_id"`
	BlogID          uint           `gorm:"not null;index" json:"blog_id"`
	ParentCommentID *uint          `gorm:"index" json:"parent_comment_id,omitempty"`
	User            User           `gorm:"foreignKey:UserID" json:"user"`
	Blog            Blog           `gorm:"foreignKey:BlogID" json:"blog,omitempty"`
	Replies         []Comment      `gorm:"foreignKey:ParentCommentID" json:"replies,omitempty"`
	CreatedAt       time.Time      `json:"created_at"`
	UpdatedAt       time.Time      `json:"updated_at"`
	DeletedAt       gorm.DeletedAt `gorm:"index" json:"-"`
}

// IsReply reports whether the comment is a reply to another comment.
func (c *Comment) IsReply() bool {
	return c.ParentCommentID != nil
}
