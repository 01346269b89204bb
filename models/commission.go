package models

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// CommissionStatus is the approval state of a commission listing.
type CommissionStatus string

const (
	// CommissionPendingApproval is the initial status of every new listing.
	// Listings in this status are not publicly visible.
	CommissionPendingApproval CommissionStatus = "pending_approval"

	// CommissionAvailable means an admin approved the listing for the public catalog.
	CommissionAvailable CommissionStatus = "available"

	// CommissionRejected means an admin rejected the listing. A rejection
	// reason is always recorded alongside this status.
	CommissionRejected CommissionStatus = "rejected"
)

// Valid reports whether s is a known commission status.
func (s CommissionStatus) Valid() bool {
	switch s {
	case CommissionPendingApproval, CommissionAvailable, CommissionRejected:
		return true
	}
	return false
}

// Commission categories shown in the catalog.
const (
	CategoryIllustration = "illustration"
	CategoryCharacter    = "character_design"
	CategoryChibi        = "chibi"
	CategoryEmote        = "emote"
	CategoryAnimation    = "animation"
	CategoryOther        = "other"
)

// PriceChoice is one selectable choice within a price option group.
type PriceChoice struct {
	Label       string `json:"label"`
	Price       int    `json:"price"` // minor currency unit (cents)
	Description string `json:"description,omitempty"`
}

// PriceOption is a named group of choices (e.g. "size" -> bust/half/full body).
type PriceOption struct {
	Type    string        `json:"type"`
	Choices []PriceChoice `json:"choices"`
}

// Commission represents a service listing offered by an artist.
// New listings start in pending_approval and become publicly visible
// only after an admin approves them.
type Commission struct {
	ID             uint                              `gorm:"primaryKey" json:"id"`
	ArtistID       uint                              `gorm:"not null;index" json:"artist_id"`
	Artist         User                              `gorm:"foreignKey:ArtistID" json:"artist"`
	Title          string                            `gorm:"not null" json:"title"`
	Description    string                            `gorm:"type:text;not null" json:"description"`
	Category       string                            `gorm:"not null;index" json:"category"`
	Tags           datatypes.JSONSlice[string]       `json:"tags"`
	PriceStart     int                               `gorm:"not null" json:"price_start"` // minor currency unit
	PriceOptions   datatypes.JSONSlice[PriceOption]  `json:"price_options"`
	TurnaroundDays int                               `gorm:"not null;check:turnaround_days > 0" json:"turnaround_days"`
	RevisionCount  int                               `gorm:"not null;default:0" json:"revision_count"`
	BaseSize       string                            `json:"base_size"`
	Status         CommissionStatus                  `gorm:"not null;default:'pending_approval';index" json:"status"`
	ApprovedByID   *uint                             `gorm:"index" json:"approved_by_id,omitempty"` // nullable, set on approve/reject
	ApprovedAt     *time.Time                        `json:"approved_at,omitempty"`
	RejectionReason *string                          `json:"rejection_reason,omitempty"` // non-null only while rejected
	LikesCount     int                               `gorm:"not null;default:0" json:"likes_count"`
	OrderCount     int                               `gorm:"not null;default:0" json:"order_count"`
	ViewsCount     int                               `gorm:"not null;default:0" json:"views_count"`
	Images         []CommissionImage                 `gorm:"foreignKey:CommissionID;constraint:OnDelete:CASCADE" json:"images,omitempty"`
	CreatedAt      time.Time                         `json:"created_at"`
	UpdatedAt      time.Time                         `json:"updated_at"`
	DeletedAt      gorm.DeletedAt                    `gorm:"index" json:"-"`
}

// TableName specifies the table name for the Commission model
func (Commission) TableName() string {
	return "commissions"
}

// FindPrice looks up the price of a choice within the commission's price
// options. Returns false when the option type or choice label is unknown.
func (c *Commission) FindPrice(optionType, choiceLabel string) (int, bool) {
	for _, opt := range c.PriceOptions {
		if opt.Type != optionType {
			continue
		}
		for _, choice := range opt.Choices {
			if choice.Label == choiceLabel {
				return choice.Price, true
			}
		}
	}
	return 0, false
}

// CommissionImage is one portfolio image attached to a commission.
// Image rows are owned by their commission and are removed with it.
type CommissionImage struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	CommissionID uint      `gorm:"not null;index" json:"commission_id"`
	ImageS3Key   string    `gorm:"not null" json:"image_s3_key"`
	ImageURL     string    `gorm:"-" json:"image_url,omitempty"` // computed field, presigned URL
	DisplayOrder int       `gorm:"not null;default:0" json:"display_order"`
	CreatedAt    time.Time `json:"created_at"`
}

// TableName specifies the table name for the CommissionImage model
func (CommissionImage) TableName() string {
	return "commission_images"
}
