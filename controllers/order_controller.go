package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/hazel-ko/artcommissions-api/apperrors"
	"github.com/hazel-ko/artcommissions-api/config"
	"github.com/hazel-ko/artcommissions-api/models"
	"github.com/hazel-ko/artcommissions-api/services"
)

// CreateOrderRequest represents the request body for placing an order
type CreateOrderRequest struct {
	CommissionID    uint                    `json:"commission_id" binding:"required"`
	SelectedOptions []models.SelectedOption `json:"selected_options" binding:"required,min=1"`
	TotalPrice      int                     `json:"total_price" binding:"required,gt=0"`
	Requirements    *string                 `json:"requirements"`
}

// UpdateOrderStatusRequest represents the request body for a status transition
type UpdateOrderStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// CreateOrder handles POST /api/v1/orders - places a new order against a commission
func CreateOrder(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	var req CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": "Invalid request data",
				"details": err.Error(),
			},
		})
		return
	}

	order, err := services.CreateOrder(req.CommissionID, user, req.Requirements, req.SelectedOptions, req.TotalPrice)
	if err != nil {
		respondError(c, err)
		return
	}

	respondData(c, http.StatusCreated, order)
}

// ListOrders handles GET /api/v1/orders - lists orders scoped to the caller's
// role: clients see orders they placed, artists see orders they received,
// admins see everything.
func ListOrders(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	db := config.GetDB()
	query := db.Model(&models.CommissionOrder{}).Preload("Client").Preload("Artist")

	switch {
	case user.IsAdmin():
		// no scoping
	case user.IsArtist():
		query = query.Where("artist_id = ?", user.ID)
	default:
		query = query.Where("client_id = ?", user.ID)
	}

	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	if page < 1 {
		page = 1
	}
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if limit < 1 || limit > 100 {
		limit = 20
	}

	sort := c.DefaultQuery("sort", "created_at")
	if sort != "created_at" && sort != "updated_at" && sort != "total_price" {
		sort = "created_at"
	}
	orderDir := c.DefaultQuery("order", "desc")
	if orderDir != "asc" && orderDir != "desc" {
		orderDir = "desc"
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		respondError(c, apperrors.Transient("Failed to count orders", err))
		return
	}

	var orders []models.CommissionOrder
	if err := query.Order(sort + " " + orderDir).
		Offset((page - 1) * limit).Limit(limit).
		Find(&orders).Error; err != nil {
		respondError(c, apperrors.Transient("Failed to list orders", err))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    orders,
		"pagination": gin.H{
			"page":  page,
			"limit": limit,
			"total": total,
		},
	})
}

// GetOrder handles GET /api/v1/orders/:id - returns one order to a participant or admin
func GetOrder(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	user, ok := currentUser(c)
	if !ok {
		return
	}

	db := config.GetDB()
	var order models.CommissionOrder
	if err := db.Preload("Client").Preload("Artist").First(&order, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			respondError(c, apperrors.NotFound("ORDER_NOT_FOUND", "Order not found"))
			return
		}
		respondError(c, apperrors.Transient("Failed to load order", err))
		return
	}

	if !services.CanViewOrder(user, &order) {
		respondError(c, apperrors.Authorization("You are not permitted to view this order"))
		return
	}

	respondData(c, http.StatusOK, order)
}

// UpdateOrderStatus handles PATCH /api/v1/orders/:id/status - moves an order
// along its lifecycle. Transition legality and role checks live in the
// order service.
func UpdateOrderStatus(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	user, ok := currentUser(c)
	if !ok {
		return
	}

	var req UpdateOrderStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": "Invalid request data",
				"details": err.Error(),
			},
		})
		return
	}

	order, err := services.UpdateOrderStatus(id, models.OrderStatus(req.Status), user)
	if err != nil {
		respondError(c, err)
		return
	}

	respondData(c, http.StatusOK, order)
}

// CancelOrder handles POST /api/v1/orders/:id/cancel - buyer self-cancellation
func CancelOrder(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	user, ok := currentUser(c)
	if !ok {
		return
	}

	order, err := services.CancelOrder(id, user)
	if err != nil {
		respondError(c, err)
		return
	}

	respondData(c, http.StatusOK, order)
}
