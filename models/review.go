package models

import (
	"time"

	"gorm.io/gorm"
)

// Review is the client's rating of a completed order. One review per order,
// written only by the order's client and only after completion.
type Review struct {
	ID           uint           `gorm:"primaryKey" json:"id"`
	OrderID      uint           `gorm:"not null;uniqueIndex" json:"order_id"`
	CommissionID uint           `gorm:"not null;index" json:"commission_id"`
	ReviewerID   uint           `gorm:"not null;index" json:"reviewer_id"`
	Reviewer     User           `gorm:"foreignKey:ReviewerID" json:"reviewer"`
	Rating       int            `gorm:"not null;check:rating >= 1 AND rating <= 5" json:"rating"`
	Content      string         `gorm:"type:text" json:"content"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName specifies the table name for the Review model
func (Review) TableName() string {
	return "reviews"
}
