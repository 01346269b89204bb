package services

import (
	"errors"

	"gorm.io/gorm"

	"github.com/hazel-ko/artcommissions-api/apperrors"
	"github.com/hazel-ko/artcommissions-api/config"
	"github.com/hazel-ko/artcommissions-api/models"
)

// CreateOrder places a new order against an available commission. The
// total price is recomputed server-side from the commission's price
// options; a client-submitted total that does not match is rejected
// rather than trusted.
func CreateOrder(commissionID uint, client *models.User, requirements *string, selectedOptions []models.SelectedOption, totalPrice int) (*models.CommissionOrder, error) {
	db := config.GetDB()

	var commission models.Commission
	if err := db.First(&commission, commissionID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("COMMISSION_NOT_FOUND", "Commission not found")
		}
		return nil, apperrors.Transient("Failed to load commission", err)
	}

	if commission.Status != models.CommissionAvailable {
		return nil, apperrors.Conflict("COMMISSION_NOT_AVAILABLE", "This commission is not open for orders")
	}

	if client.ID == commission.ArtistID {
		return nil, apperrors.Conflict("OWN_COMMISSION", "You cannot order your own commission")
	}

	if len(selectedOptions) == 0 {
		return nil, apperrors.Validation("OPTIONS_REQUIRED", "At least one price option must be selected")
	}

	computed := 0
	normalized := make([]models.SelectedOption, 0, len(selectedOptions))
	for _, opt := range selectedOptions {
		quantity := opt.Quantity
		if quantity == 0 {
			quantity = 1
		}
		if quantity < 0 {
			return nil, apperrors.Validation("INVALID_QUANTITY", "Option quantity must be positive")
		}

		price, ok := commission.FindPrice(opt.Type, opt.Choice)
		if !ok {
			return nil, apperrors.Validation("UNKNOWN_OPTION", "Selected option is not offered by this commission")
		}
		if opt.Price != 0 && opt.Price != price {
			return nil, apperrors.Validation("OPTION_PRICE_MISMATCH", "Selected option price does not match the listing")
		}

		normalized = append(normalized, models.SelectedOption{
			Type:     opt.Type,
			Choice:   opt.Choice,
			Price:    price,
			Quantity: quantity,
		})
		computed += price * quantity
	}

	if totalPrice != computed {
		return nil, apperrors.Validation("TOTAL_PRICE_MISMATCH", "Total price does not match the selected options")
	}

	order := models.CommissionOrder{
		CommissionID:    commission.ID,
		ClientID:        client.ID,
		ArtistID:        commission.ArtistID,
		SelectedOptions: normalized,
		TotalPrice:      computed,
		Requirements:    requirements,
		Status:          models.OrderPending,
	}

	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&order).Error; err != nil {
			return err
		}
		return tx.Model(&models.Commission{}).
			Where("id = ?", commission.ID).
			UpdateColumn("order_count", gorm.Expr("order_count + 1")).Error
	})
	if err != nil {
		return nil, apperrors.Transient("Failed to create order", err)
	}

	if err := db.Preload("Client").Preload("Artist").First(&order, order.ID).Error; err != nil {
		return nil, apperrors.Transient("Failed to load order details", err)
	}

	return &order, nil
}

// UpdateOrderStatus moves an order along the lifecycle. Transitions are
// checked against the explicit table: only forward moves along the main
// chain or to a side-exit state, never out of a terminal state. The write
// carries an expected-current-status predicate so two racing updates
// cannot both win.
func UpdateOrderStatus(orderID uint, newStatus models.OrderStatus, actor *models.User) (*models.CommissionOrder, error) {
	if !newStatus.Valid() {
		return nil, apperrors.Validation("INVALID_STATUS", "Unknown order status")
	}

	db := config.GetDB()
	var order models.CommissionOrder
	if err := db.First(&order, orderID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("ORDER_NOT_FOUND", "Order not found")
		}
		return nil, apperrors.Transient("Failed to load order", err)
	}

	if !CanUpdateOrderStatus(actor, &order, newStatus) {
		return nil, apperrors.Authorization("You are not permitted to change this order's status")
	}

	if order.Status.IsTerminal() {
		return nil, apperrors.Conflict("ORDER_FINALIZED", "Order is already in a final state")
	}

	if !order.Status.CanTransitionTo(newStatus) {
		return nil, apperrors.Conflict("INVALID_TRANSITION", "Order cannot move from '"+string(order.Status)+"' to '"+string(newStatus)+"'")
	}

	return transitionOrder(db, &order, newStatus)
}

// transitionOrder is the single write primitive for order status changes.
// The WHERE clause carries the expected current status, so a concurrent
// update makes the write a no-op instead of silently overwriting it.
func transitionOrder(db *gorm.DB, order *models.CommissionOrder, newStatus models.OrderStatus) (*models.CommissionOrder, error) {
	res := db.Model(&models.CommissionOrder{}).
		Where("id = ? AND status = ?", order.ID, order.Status).
		Update("status", newStatus)
	if res.Error != nil {
		return nil, apperrors.Transient("Failed to update order status", res.Error)
	}
	if res.RowsAffected == 0 {
		// Someone else changed the status between our read and write.
		return nil, apperrors.Conflict("STATUS_CHANGED", "Order status changed concurrently, please retry")
	}

	if err := db.Preload("Client").Preload("Artist").First(order, order.ID).Error; err != nil {
		return nil, apperrors.Transient("Failed to load order details", err)
	}

	return order, nil
}

// CancelOrder lets the buyer withdraw an order that has not entered
// production yet. Anything past accepted must go through the artist or an
// admin.
func CancelOrder(orderID uint, actor *models.User) (*models.CommissionOrder, error) {
	db := config.GetDB()

	var order models.CommissionOrder
	if err := db.First(&order, orderID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("ORDER_NOT_FOUND", "Order not found")
		}
		return nil, apperrors.Transient("Failed to load order", err)
	}

	if !CanCancelOrder(actor, &order) {
		return nil, apperrors.Authorization("Only the buyer can cancel an order")
	}

	if !order.Status.IsCancellable() {
		return nil, apperrors.Conflict("NOT_CANCELLABLE", "Order is already in progress or completed")
	}

	return transitionOrder(db, &order, models.OrderCancelled)
}
