package services

import (
	"errors"
	"log"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/hazel-ko/artcommissions-api/apperrors"
	"github.com/hazel-ko/artcommissions-api/config"
	"github.com/hazel-ko/artcommissions-api/models"
)

// TransitionApproval moves a commission to available or rejected. Only
// admins may call it, and a rejection always carries a non-empty reason.
// Any prior status may transition, so a listing can be re-reviewed at any
// time; approving clears a previously stored rejection reason.
func TransitionApproval(commissionID uint, newStatus models.CommissionStatus, actor *models.User, rejectionReason string) (*models.Commission, error) {
	if !CanModerateCommission(actor) {
		return nil, apperrors.Authorization("Only administrators can review commissions")
	}

	if newStatus != models.CommissionAvailable && newStatus != models.CommissionRejected {
		return nil, apperrors.Validation("INVALID_STATUS", "Review status must be 'available' or 'rejected'")
	}

	reason := strings.TrimSpace(rejectionReason)
	if newStatus == models.CommissionRejected && reason == "" {
		return nil, apperrors.Validation("REJECTION_REASON_REQUIRED", "A rejection reason is required")
	}

	db := config.GetDB()
	var commission models.Commission
	if err := db.First(&commission, commissionID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("COMMISSION_NOT_FOUND", "Commission not found")
		}
		return nil, apperrors.Transient("Failed to load commission", err)
	}

	now := time.Now()
	updates := map[string]interface{}{
		"status":         newStatus,
		"approved_by_id": actor.ID,
		"approved_at":    now,
	}
	if newStatus == models.CommissionRejected {
		updates["rejection_reason"] = reason
	} else {
		updates["rejection_reason"] = nil
	}

	if err := db.Model(&commission).Updates(updates).Error; err != nil {
		return nil, apperrors.Transient("Failed to update commission status", err)
	}

	commission.Status = newStatus
	commission.ApprovedByID = &actor.ID
	commission.ApprovedAt = &now
	if newStatus == models.CommissionRejected {
		commission.RejectionReason = &reason
	} else {
		commission.RejectionReason = nil
	}

	return &commission, nil
}

// DeleteCommission removes a commission owned by actor, cascading to its
// order rows and portfolio images. It refuses while any order is still in
// a non-terminal state. Database rows go away in one transaction; backing
// image files are removed best-effort after commit, so a storage failure
// never resurrects the listing.
func DeleteCommission(commissionID uint, actor *models.User) error {
	db := config.GetDB()

	var commission models.Commission
	if err := db.First(&commission, commissionID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.NotFound("COMMISSION_NOT_FOUND", "Commission not found")
		}
		return apperrors.Transient("Failed to load commission", err)
	}

	if !CanDeleteCommission(actor, &commission) {
		return apperrors.Authorization("Only the owning artist can delete a commission")
	}

	var images []models.CommissionImage
	if err := db.Where("commission_id = ?", commissionID).Find(&images).Error; err != nil {
		return apperrors.Transient("Failed to load commission images", err)
	}

	err := db.Transaction(func(tx *gorm.DB) error {
		// The guard runs inside the transaction so an order created after
		// a pre-check cannot slip past the delete.
		var active int64
		if err := tx.Model(&models.CommissionOrder{}).
			Where("commission_id = ? AND status IN ?", commissionID, models.NonTerminalOrderStatuses()).
			Count(&active).Error; err != nil {
			return err
		}
		if active > 0 {
			return apperrors.Conflict("ORDERS_IN_PROGRESS", "Cannot delete: commission has orders in progress")
		}

		// Remaining orders are terminal (completed/cancelled/refunded).
		if err := tx.Where("commission_id = ?", commissionID).Delete(&models.CommissionOrder{}).Error; err != nil {
			return err
		}

		if err := tx.Where("commission_id = ?", commissionID).Delete(&models.CommissionImage{}).Error; err != nil {
			return err
		}

		return tx.Delete(&commission).Error
	})
	if err != nil {
		var appErr *apperrors.AppError
		if errors.As(err, &appErr) {
			return appErr
		}
		return apperrors.Transient("Failed to delete commission", err)
	}

	// Best-effort file cleanup. Failures are logged, never surfaced: the
	// database rows are already gone.
	if imageService := GetImageService(); imageService != nil {
		for _, img := range images {
			if err := imageService.DeleteImage(img.ImageS3Key); err != nil {
				log.Printf("warning: failed to delete image %s for commission %d: %v", img.ImageS3Key, commissionID, err)
			}
		}
	}

	return nil
}
