package models

import (
	"time"

	"gorm.io/gorm"
)

// Post represents a community post written by any authenticated user.
type Post struct {
	ID           uint           `gorm:"primaryKey" json:"id"`
	AuthorID     uint           `gorm:"not null;index" json:"author_id"`
	Author       User           `gorm:"foreignKey:AuthorID" json:"author"`
	Title        string         `gorm:"not null" json:"title"`
	Content      string         `gorm:"type:text;not null" json:"content"`
	UpvotesCount int            `gorm:"not null;default:0" json:"upvotes_count"`
	RepliesCount int            `gorm:"not null;default:0" json:"replies_count"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName specifies the table name for the Post model
func (Post) TableName() string {
	return "posts"
}

// Reply represents a reply to a community post.
type Reply struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	PostID    uint           `gorm:"not null;index" json:"post_id"`
	AuthorID  uint           `gorm:"not null;index" json:"author_id"`
	Author    User           `gorm:"foreignKey:AuthorID" json:"author"`
	Content   string         `gorm:"type:text;not null" json:"content"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName specifies the table name for the Reply model
func (Reply) TableName() string {
	return "replies"
}
