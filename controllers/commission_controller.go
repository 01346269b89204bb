package controllers

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/hazel-ko/artcommissions-api/apperrors"
	"github.com/hazel-ko/artcommissions-api/config"
	"github.com/hazel-ko/artcommissions-api/models"
	"github.com/hazel-ko/artcommissions-api/services"
	"github.com/hazel-ko/artcommissions-api/utils"
)

// CreateCommissionRequest represents the request body for creating a commission listing
type CreateCommissionRequest struct {
	Title          string               `json:"title" binding:"required"`
	Description    string               `json:"description" binding:"required"`
	Category       string               `json:"category" binding:"required"`
	Tags           []string             `json:"tags"`
	PriceStart     int                  `json:"price_start" binding:"required,gt=0"`
	PriceOptions   []models.PriceOption `json:"price_options" binding:"required,min=1,dive"`
	TurnaroundDays int                  `json:"turnaround_days" binding:"required,gt=0"`
	RevisionCount  int                  `json:"revision_count" binding:"gte=0"`
	BaseSize       string               `json:"base_size"`
}

// UpdateCommissionRequest represents the request body for editing a listing.
// All fields are optional; only provided ones are updated.
type UpdateCommissionRequest struct {
	Title          *string               `json:"title"`
	Description    *string               `json:"description"`
	Category       *string               `json:"category"`
	Tags           *[]string             `json:"tags"`
	PriceStart     *int                  `json:"price_start" binding:"omitempty,gt=0"`
	PriceOptions   *[]models.PriceOption `json:"price_options" binding:"omitempty,min=1"`
	TurnaroundDays *int                  `json:"turnaround_days" binding:"omitempty,gt=0"`
	RevisionCount  *int                  `json:"revision_count" binding:"omitempty,gte=0"`
	BaseSize       *string               `json:"base_size"`
}

// RejectCommissionRequest carries the moderation rejection reason
type RejectCommissionRequest struct {
	Reason string `json:"reason"`
}

func validCategory(category string) bool {
	switch category {
	case models.CategoryIllustration, models.CategoryCharacter, models.CategoryChibi,
		models.CategoryEmote, models.CategoryAnimation, models.CategoryOther:
		return true
	}
	return false
}

// attachImageURLs fills the computed presigned URL on each image.
// URL generation failures are logged and leave the field empty.
func attachImageURLs(commission *models.Commission) {
	imageService := services.GetImageService()
	if imageService == nil {
		return
	}
	for i := range commission.Images {
		url, err := imageService.GetImageURL(commission.Images[i].ImageS3Key)
		if err != nil {
			log.Printf("warning: failed to generate image URL for %s: %v", commission.Images[i].ImageS3Key, err)
			continue
		}
		commission.Images[i].ImageURL = url
	}
}

// CreateCommission handles POST /api/v1/commissions - creates a listing (artists only)
// New listings always start in pending_approval and await admin review.
func CreateCommission(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	if !user.IsArtist() {
		c.JSON(http.StatusForbidden, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "FORBIDDEN",
				"message": "Only artists can create commission listings",
			},
		})
		return
	}

	var req CreateCommissionRequest
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

	if !validCategory(req.Category) {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "INVALID_CATEGORY",
				"message": "Unknown commission category",
			},
		})
		return
	}

	commission := models.Commission{
		ArtistID:       user.ID,
		Title:          req.Title,
		Description:    req.Description,
		Category:       req.Category,
		Tags:           datatypes.NewJSONSlice(req.Tags),
		PriceStart:     req.PriceStart,
		PriceOptions:   datatypes.NewJSONSlice(req.PriceOptions),
		TurnaroundDays: req.TurnaroundDays,
		RevisionCount:  req.RevisionCount,
		BaseSize:       req.BaseSize,
		Status:         models.CommissionPendingApproval,
	}

	db := config.GetDB()
	if err := db.Create(&commission).Error; err != nil {
		respondError(c, apperrors.Transient("Failed to create commission", err))
		return
	}

	if err := db.Preload("Artist").First(&commission, commission.ID).Error; err != nil {
		respondError(c, apperrors.Transient("Failed to load commission details", err))
		return
	}

	respondData(c, http.StatusCreated, commission)
}

// ListCommissions handles GET /api/v1/commissions - browses the public
// catalog. Only available (admin-approved) listings are shown.
func ListCommissions(c *gin.Context) {
	db := config.GetDB()
	query := db.Model(&models.Commission{}).Preload("Artist").Preload("Images").
		Where("status = ?", models.CommissionAvailable)

	if category := c.Query("category"); category != "" {
		query = query.Where("category = ?", category)
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	if page < 1 {
		page = 1
	}
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if limit < 1 || limit > 100 {
		limit = 20
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		respondError(c, apperrors.Transient("Failed to count commissions", err))
		return
	}

	var commissions []models.Commission
	if err := query.Order("created_at DESC").
		Offset((page - 1) * limit).Limit(limit).
		Find(&commissions).Error; err != nil {
		respondError(c, apperrors.Transient("Failed to list commissions", err))
		return
	}

	for i := range commissions {
		attachImageURLs(&commissions[i])
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    commissions,
		"pagination": gin.H{
			"page":  page,
			"limit": limit,
			"total": total,
		},
	})
}

// ListMyCommissions handles GET /api/v1/users/me/commissions - an artist's
// own listings in every status, including pending and rejected ones.
func ListMyCommissions(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	db := config.GetDB()
	query := db.Model(&models.Commission{}).Preload("Images").
		Where("artist_id = ?", user.ID)

	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}

	var commissions []models.Commission
	if err := query.Order("created_at DESC").Find(&commissions).Error; err != nil {
		respondError(c, apperrors.Transient("Failed to list commissions", err))
		return
	}

	for i := range commissions {
		attachImageURLs(&commissions[i])
	}

	respondData(c, http.StatusOK, commissions)
}

// ListModerationQueue handles GET /api/v1/admin/commissions - the listings
// awaiting review (admins only). An explicit status filter can pull up
// rejected or available listings for re-review instead.
func ListModerationQueue(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	if !user.IsAdmin() {
		respondError(c, apperrors.Authorization("Only administrators can access the moderation queue"))
		return
	}

	status := c.DefaultQuery("status", string(models.CommissionPendingApproval))

	db := config.GetDB()
	var commissions []models.Commission
	if err := db.Preload("Artist").Preload("Images").
		Where("status = ?", status).
		Order("created_at ASC").
		Find(&commissions).Error; err != nil {
		respondError(c, apperrors.Transient("Failed to list commissions", err))
		return
	}

	respondData(c, http.StatusOK, commissions)
}

// GetCommission handles GET /api/v1/commissions/:id - returns one listing.
// Viewing an available listing bumps its views counter. Listings that are
// not yet approved are visible only to their artist and admins.
func GetCommission(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	db := config.GetDB()
	var commission models.Commission
	if err := db.Preload("Artist").Preload("Images", func(db *gorm.DB) *gorm.DB {
		return db.Order("display_order ASC")
	}).First(&commission, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			respondError(c, apperrors.NotFound("COMMISSION_NOT_FOUND", "Commission not found"))
			return
		}
		respondError(c, apperrors.Transient("Failed to load commission", err))
		return
	}

	if commission.Status != models.CommissionAvailable {
		user := optionalUser(c)
		if user == nil || (user.ID != commission.ArtistID && !user.IsAdmin()) {
			// Hide the existence of unapproved listings
			respondError(c, apperrors.NotFound("COMMISSION_NOT_FOUND", "Commission not found"))
			return
		}
	} else {
		if err := db.Model(&models.Commission{}).
			Where("id = ?", commission.ID).
			UpdateColumn("views_count", gorm.Expr("views_count + 1")).Error; err != nil {
			log.Printf("warning: failed to bump views for commission %d: %v", commission.ID, err)
		}
		commission.ViewsCount++
	}

	attachImageURLs(&commission)
	respondData(c, http.StatusOK, commission)
}

// UpdateCommission handles PATCH /api/v1/commissions/:id - edits a listing (owner only).
// Any edit sends the listing back to pending_approval for re-review.
func UpdateCommission(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	user, ok := currentUser(c)
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

	if commission.ArtistID != user.ID {
		respondError(c, apperrors.Authorization("Only the owning artist can edit a commission"))
		return
	}

	var req UpdateCommissionRequest
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

	updates := map[string]interface{}{}
	if req.Title != nil {
		updates["title"] = *req.Title
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if req.Category != nil {
		if !validCategory(*req.Category) {
			respondError(c, apperrors.Validation("INVALID_CATEGORY", "Unknown commission category"))
			return
		}
		updates["category"] = *req.Category
	}
	if req.Tags != nil {
		updates["tags"] = datatypes.NewJSONSlice(*req.Tags)
	}
	if req.PriceStart != nil {
		updates["price_start"] = *req.PriceStart
	}
	if req.PriceOptions != nil {
		updates["price_options"] = datatypes.NewJSONSlice(*req.PriceOptions)
	}
	if req.TurnaroundDays != nil {
		updates["turnaround_days"] = *req.TurnaroundDays
	}
	if req.RevisionCount != nil {
		updates["revision_count"] = *req.RevisionCount
	}
	if req.BaseSize != nil {
		updates["base_size"] = *req.BaseSize
	}

	if len(updates) == 0 {
		respondData(c, http.StatusOK, commission)
		return
	}

	// Edited listings go back through moderation
	updates["status"] = models.CommissionPendingApproval
	updates["rejection_reason"] = nil

	if err := db.Model(&commission).Updates(updates).Error; err != nil {
		respondError(c, apperrors.Transient("Failed to update commission", err))
		return
	}

	if err := db.Preload("Artist").Preload("Images").First(&commission, commission.ID).Error; err != nil {
		respondError(c, apperrors.Transient("Failed to load commission details", err))
		return
	}

	respondData(c, http.StatusOK, commission)
}

// DeleteCommission handles DELETE /api/v1/commissions/:id - removes a listing (owner only).
// Refused while any order against it is still in a non-terminal state.
func DeleteCommission(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	user, ok := currentUser(c)
	if !ok {
		return
	}

	if err := services.DeleteCommission(id, user); err != nil {
		respondError(c, err)
		return
	}

	respondData(c, http.StatusOK, gin.H{"deleted": true})
}

// ApproveCommission handles POST /api/v1/commissions/:id/approve (admins only)
func ApproveCommission(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	user, ok := currentUser(c)
	if !ok {
		return
	}

	commission, err := services.TransitionApproval(id, models.CommissionAvailable, user, "")
	if err != nil {
		respondError(c, err)
		return
	}

	respondData(c, http.StatusOK, commission)
}

// RejectCommission handles POST /api/v1/commissions/:id/reject (admins only).
// A non-empty reason is required and stored on the listing.
func RejectCommission(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	user, ok := currentUser(c)
	if !ok {
		return
	}

	var req RejectCommissionRequest
	if err := c.ShouldBindJSON(&req); err != nil && err.Error() != "EOF" {
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

	commission, err := services.TransitionApproval(id, models.CommissionRejected, user, req.Reason)
	if err != nil {
		respondError(c, err)
		return
	}

	respondData(c, http.StatusOK, commission)
}

// UploadCommissionImage handles POST /api/v1/commissions/:id/images - attaches
// a portfolio image to a listing (owner only). The file lands in S3; the row
// records the key and display position.
func UploadCommissionImage(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	user, ok := currentUser(c)
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

	if commission.ArtistID != user.ID {
		respondError(c, apperrors.Authorization("Only the owning artist can add images"))
		return
	}

	fileHeader, err := c.FormFile("image")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "MISSING_FILE",
				"message": "An image file is required",
			},
		})
		return
	}

	displayOrder, _ := strconv.Atoi(c.DefaultPostForm("display_order", "0"))

	imageService := services.GetImageService()
	if imageService == nil {
		respondError(c, apperrors.Transient("Image storage is not configured", nil))
		return
	}

	imageKey, err := imageService.UploadImage(fileHeader)
	if err != nil {
		var uploadErr *utils.FileUploadError
		if errors.As(err, &uploadErr) {
			c.JSON(http.StatusBadRequest, gin.H{
				"success": false,
				"error": gin.H{
					"code":    uploadErr.Code,
					"message": uploadErr.Message,
				},
			})
			return
		}
		respondError(c, apperrors.Transient("Failed to upload image", err))
		return
	}

	image := models.CommissionImage{
		CommissionID: commission.ID,
		ImageS3Key:   imageKey,
		DisplayOrder: displayOrder,
	}
	if err := db.Create(&image).Error; err != nil {
		respondError(c, apperrors.Transient("Failed to save image record", err))
		return
	}

	if url, urlErr := imageService.GetImageURL(imageKey); urlErr == nil {
		image.ImageURL = url
	}

	respondData(c, http.StatusCreated, image)
}
