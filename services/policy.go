package services

import (
	"github.com/hazel-ko/artcommissions-api/models"
)

// Authorization predicates for lifecycle operations. Every role and
// ownership rule lives here so each invariant is enforced in exactly one
// place and can be tested without HTTP plumbing.

// CanModerateCommission reports whether actor may approve or reject listings.
func CanModerateCommission(actor *models.User) bool {
	return actor.IsAdmin()
}

// CanDeleteCommission reports whether actor may delete the commission.
// Only the owning artist can.
func CanDeleteCommission(actor *models.User, commission *models.Commission) bool {
	return actor.ID == commission.ArtistID
}

// CanCancelOrder reports whether actor may self-cancel the order.
// Only the buyer can.
func CanCancelOrder(actor *models.User, order *models.CommissionOrder) bool {
	return actor.ID == order.ClientID
}

// CanViewOrder reports whether actor may read the order: its client, its
// artist, or an admin.
func CanViewOrder(actor *models.User, order *models.CommissionOrder) bool {
	return actor.IsAdmin() || actor.ID == order.ClientID || actor.ID == order.ArtistID
}

// CanUpdateOrderStatus reports whether actor may move the order to next.
// Admins may perform any legal transition. The artist advances work on
// orders they received; the client may request revisions or raise a
// dispute. Self-cancellation goes through CancelOrder, not here.
func CanUpdateOrderStatus(actor *models.User, order *models.CommissionOrder, next models.OrderStatus) bool {
	if actor.IsAdmin() {
		return true
	}

	if actor.ID == order.ArtistID {
		switch next {
		case models.OrderAccepted, models.OrderInProgress, models.OrderCompleted:
			return true
		}
		return false
	}

	if actor.ID == order.ClientID {
		switch next {
		case models.OrderRevisionRequested, models.OrderDisputed:
			return true
		}
		return false
	}

	return false
}
