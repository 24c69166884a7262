package models

import "time"

// Like represents a user's like on a blog or on a single comment of that
// blog. CommentID 0 targets the blog itself; a non-zero CommentID targets a
// comment. The (UserID, BlogID, CommentID) combination is unique, which is
// what makes the toggle's conditional insert safe under concurrency.
//
// Relation rows are created on toggle-on and hard deleted on toggle-off;
// their existence is the sole source of truth for the "liked" state, so
// they carry no soft-delete column.
type Like struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_like_target" json:"user_id"`
	BlogID    uint      `gorm:"not null;uniqueIndex:idx_like_target" json:"blog_id"`
	CommentID uint      `gorm:"not null;default:0;uniqueIndex:idx_like_target" json:"comment_id,omitempty"`
	CreatedAt time.Time `json:"created_at"`

	User User `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Blog Blog `gorm:"foreignKey:BlogID" json:"blog,omitempty"`
}

// Save represents a user bookmarking a blog for later reading.
// The (UserID, BlogID) combination is unique.
type Save struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_save_user_blog" json:"user_id"`
	BlogID    uint      `gorm:"not null;uniqueIndex:idx_save_user_blog" json:"blog_id"`
	CreatedAt time.Time `json:"created_at"`

	User User `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Blog Blog `gorm:"foreignKey:BlogID" json:"blog,omitempty"`
}

// Follow represents one user following an author.
// The (FollowerID, FollowingID) combination is unique.
type Follow struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	FollowerID  uint      `gorm:"not null;uniqueIndex:idx_follow_pair" json:"follower_id"`
	FollowingID uint      `gorm:"not null;uniqueIndex:idx_follow_pair" json:"following_id"`
	CreatedAt   time.Time `json:"created_at"`

	Follower  User `gorm:"foreignKey:FollowerID" json:"follower,omitempty"`
	Following User `gorm:"foreignKey:FollowingID" json:"following,omitempty"`
}

// TableName specifies the table name for GORM
func (Follow) TableName() string {
	return "follows"
}

// TopicSelection stores the feed topics a user has picked. One row per user,
// replaced wholesale on update.
type TopicSelection struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	UserID         uint      `gorm:"not null;uniqueIndex" json:"user_id"`
	SelectedTopics []string  `gorm:"serializer:json" json:"selected_topics"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}
