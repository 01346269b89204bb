package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/hazel-ko/artcommissions-api/apperrors"
	"github.com/hazel-ko/artcommissions-api/config"
	"github.com/hazel-ko/artcommissions-api/models"
)

// CreateReviewRequest represents the request body for reviewing a completed order
type CreateReviewRequest struct {
	Rating  int    `json:"rating" binding:"required,gte=1,lte=5"`
	Content string `json:"content"`
}

// CreateReview handles POST /api/v1/orders/:id/review - the buyer rates a
// completed order. One review per order.
func CreateReview(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	user, ok := currentUser(c)
	if !ok {
		return
	}

	var req CreateReviewRequest
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

	db := config.GetDB()
	var order models.CommissionOrder
	if err := db.First(&order, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			respondError(c, apperrors.NotFound("ORDER_NOT_FOUND", "Order not found"))
			return
		}
		respondError(c, apperrors.Transient("Failed to load order", err))
		return
	}

	if order.ClientID != user.ID {
		respondError(c, apperrors.Authorization("Only the buyer can review an order"))
		return
	}

	if order.Status != models.OrderCompleted {
		respondError(c, apperrors.Conflict("ORDER_NOT_COMPLETED", "Only completed orders can be reviewed"))
		return
	}

	review := models.Review{
		OrderID:      order.ID,
		CommissionID: order.CommissionID,
		ReviewerID:   user.ID,
		Rating:       req.Rating,
		Content:      req.Content,
	}

	if err := db.Create(&review).Error; err != nil {
		if apperrors.IsUniqueViolation(err) {
			respondError(c, apperrors.Conflict("ALREADY_REVIEWED", "This order has already been reviewed"))
			return
		}
		respondError(c, apperrors.Transient("Failed to create review", err))
		return
	}

	if err := db.Preload("Reviewer").First(&review, review.ID).Error; err != nil {
		respondError(c, apperrors.Transient("Failed to load review details", err))
		return
	}

	respondData(c, http.StatusCreated, review)
}

// ListCommissionReviews handles GET /api/v1/commissions/:id/reviews - lists
// reviews left on a commission's completed orders, newest first.
func ListCommissionReviews(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	db := config.GetDB()
	var commission models.Commission
	if err := db.First(&commission, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			respondError(c, apperrors.NotFound("COMMISSION_NOT_FOUND", "Commission not found"))
			return
		}
		respondError(c, apperrors.Transient("Failed to load commission", err))
		return
	}

	var reviews []models.Review
	if err := db.Preload("Reviewer").
		Where("commission_id = ?", commission.ID).
		Order("created_at DESC").
		Find(&reviews).Error; err != nil {
		respondError(c, apperrors.Transient("Failed to list reviews", err))
		return
	}

	respondData(c, http.StatusOK, reviews)
}
