package models

import "time"

// Like is a join row marking that a user liked a commission.
// Existence of the row is the entire state; the pair is unique so two
// racing inserts cannot both succeed.
type Like struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	CommissionID uint      `gorm:"not null;uniqueIndex:idx_likes_commission_user" json:"commission_id"`
	UserID       uint      `gorm:"not null;uniqueIndex:idx_likes_commission_user" json:"user_id"`
	CreatedAt    time.Time `json:"created_at"`
}

// TableName specifies the table name for the Like model
func (Like) TableName() string {
	return "likes"
}

// Upvote is the same toggle join as Like, scoped to community posts.
type Upvote struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	PostID    uint      `gorm:"not null;uniqueIndex:idx_upvotes_post_user" json:"post_id"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_upvotes_post_user" json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
}

// TableName specifies the table name for the Upvote model
func (Upvote) TableName() string {
	return "upvotes"
}
