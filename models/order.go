package models

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// OrderStatus is the lifecycle state of a commission order.
//
// Main chain:
//
//	pending ──> accepted ──> in_progress ──> revision_requested ──> completed
//	                              ^                  │
//	                              └──────────────────┘
//
// Side exits: cancelled (client, from pending/accepted), refunded and
// disputed (administrative). completed, cancelled and refunded are terminal;
// disputed only leaves via admin resolution.
type OrderStatus string

const (
	OrderPending           OrderStatus = "pending"
	OrderAccepted          OrderStatus = "accepted"
	OrderInProgress        OrderStatus = "in_progress"
	OrderRevisionRequested OrderStatus = "revision_requested"
	OrderCompleted         OrderStatus = "completed"
	OrderCancelled         OrderStatus = "cancelled"
	OrderRefunded          OrderStatus = "refunded"
	OrderDisputed          OrderStatus = "disputed"
)

// orderTransitions is the allowed transition table. A status missing from
// the map is terminal.
var orderTransitions = map[OrderStatus][]OrderStatus{
	OrderPending:           {OrderAccepted, OrderCancelled, OrderRefunded, OrderDisputed},
	OrderAccepted:          {OrderInProgress, OrderCancelled, OrderRefunded, OrderDisputed},
	OrderInProgress:        {OrderRevisionRequested, OrderCompleted, OrderRefunded, OrderDisputed},
	OrderRevisionRequested: {OrderInProgress, OrderCompleted, OrderRefunded, OrderDisputed},
	OrderDisputed:          {OrderRefunded, OrderCompleted},
}

// Valid reports whether s is a known order status.
func (s OrderStatus) Valid() bool {
	switch s {
	case OrderPending, OrderAccepted, OrderInProgress, OrderRevisionRequested,
		OrderCompleted, OrderCancelled, OrderRefunded, OrderDisputed:
		return true
	}
	return false
}

// IsTerminal reports whether no further transition is permitted from s.
func (s OrderStatus) IsTerminal() bool {
	switch s {
	case OrderCompleted, OrderCancelled, OrderRefunded:
		return true
	}
	return false
}

// CanTransitionTo reports whether the transition s -> next is allowed.
func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	for _, allowed := range orderTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// IsCancellable reports whether the buyer may still self-cancel from s.
func (s OrderStatus) IsCancellable() bool {
	return s == OrderPending || s == OrderAccepted
}

// NonTerminalOrderStatuses lists every status that blocks commission deletion.
func NonTerminalOrderStatuses() []OrderStatus {
	return []OrderStatus{OrderPending, OrderAccepted, OrderInProgress, OrderRevisionRequested, OrderDisputed}
}

// SelectedOption is one price choice the client picked when ordering.
type SelectedOption struct {
	Type     string `json:"type"`
	Choice   string `json:"choice"`
	Price    int    `json:"price"` // minor currency unit, per unit
	Quantity int    `json:"quantity,omitempty"`
}

// CommissionOrder represents a client's purchase instance of a commission.
// The artist reference is denormalized from the commission owner at creation
// time so the order survives commission deletion checks independently.
type CommissionOrder struct {
	ID              uint                                 `gorm:"primaryKey" json:"id"`
	CommissionID    uint                                 `gorm:"not null;index" json:"commission_id"`
	ClientID        uint                                 `gorm:"not null;index" json:"client_id"`
	Client          User                                 `gorm:"foreignKey:ClientID" json:"client"`
	ArtistID        uint                                 `gorm:"not null;index" json:"artist_id"`
	Artist          User                                 `gorm:"foreignKey:ArtistID" json:"artist"`
	SelectedOptions datatypes.JSONSlice[SelectedOption]  `json:"selected_options"`
	TotalPrice      int                                  `gorm:"not null" json:"total_price"` // minor currency unit
	Requirements    *string                              `gorm:"type:text" json:"requirements,omitempty"`
	Status          OrderStatus                          `gorm:"not null;default:'pending';index" json:"status"`
	CreatedAt       time.Time                            `json:"created_at"`
	UpdatedAt       time.Time                            `json:"updated_at"`
	DeletedAt       gorm.DeletedAt                       `gorm:"index" json:"-"`
}

// TableName specifies the table name for the CommissionOrder model
func (CommissionOrder) TableName() string {
	return "commission_orders"
}
