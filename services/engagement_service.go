package services

import (
	"errors"

	"gorm.io/gorm"

	"github.com/hazel-ko/artcommissions-api/apperrors"
	"github.com/hazel-ko/artcommissions-api/config"
	"github.com/hazel-ko/artcommissions-api/models"
)

// ToggleLike flips the like state of (commission, user) and returns the
// resulting state: true when the like now exists, false when it was
// removed. The (commission_id, user_id) pair carries a unique index, so
// when two toggles race only one insert lands; the loser treats the
// constraint violation as "already liked" instead of an error. The
// denormalized likes_count moves inside the same transaction as the join
// row.
func ToggleLike(commissionID, userID uint) (bool, error) {
	db := config.GetDB()

	var commission models.Commission
	if err := db.First(&commission, commissionID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, apperrors.NotFound("COMMISSION_NOT_FOUND", "Commission not found")
		}
		return false, apperrors.Transient("Failed to load commission", err)
	}

	var active bool
	err := db.Transaction(func(tx *gorm.DB) error {
		var like models.Like
		err := tx.Where("commission_id = ? AND user_id = ?", commissionID, userID).First(&like).Error
		if err == nil {
			res := tx.Delete(&like)
			if res.Error != nil {
				return res.Error
			}
			active = false
			if res.RowsAffected == 0 {
				// A concurrent toggle already removed it; nothing to decrement.
				return nil
			}
			return tx.Model(&models.Commission{}).
				Where("id = ? AND likes_count > 0", commissionID).
				UpdateColumn("likes_count", gorm.Expr("likes_count - 1")).Error
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		if err := tx.Create(&models.Like{CommissionID: commissionID, UserID: userID}).Error; err != nil {
			if apperrors.IsUniqueViolation(err) {
				// Lost the race: the row exists and the winner counted it.
				active = true
				return nil
			}
			return err
		}
		active = true
		return tx.Model(&models.Commission{}).
			Where("id = ?", commissionID).
			UpdateColumn("likes_count", gorm.Expr("likes_count + 1")).Error
	})
	if err != nil {
		return false, apperrors.Transient("Failed to toggle like", err)
	}

	return active, nil
}

// ToggleUpvote is the same toggle as ToggleLike, scoped to community posts.
func ToggleUpvote(postID, userID uint) (bool, error) {
	db := config.GetDB()

	var post models.Post
	if err := db.First(&post, postID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, apperrors.NotFound("POST_NOT_FOUND", "Post not found")
		}
		return false, apperrors.Transient("Failed to load post", err)
	}

	var active bool
	err := db.Transaction(func(tx *gorm.DB) error {
		var upvote models.Upvote
		err := tx.Where("post_id = ? AND user_id = ?", postID, userID).First(&upvote).Error
		if err == nil {
			res := tx.Delete(&upvote)
			if res.Error != nil {
				return res.Error
			}
			active = false
			if res.RowsAffected == 0 {
				return nil
			}
			return tx.Model(&models.Post{}).
				Where("id = ? AND upvotes_count > 0", postID).
				UpdateColumn("upvotes_count", gorm.Expr("upvotes_count - 1")).Error
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		if err := tx.Create(&models.Upvote{PostID: postID, UserID: userID}).Error; err != nil {
			if apperrors.IsUniqueViolation(err) {
				active = true
				return nil
			}
			return err
		}
		active = true
		return tx.Model(&models.Post{}).
			Where("id = ?", postID).
			UpdateColumn("upvotes_count", gorm.Expr("upvotes_count + 1")).Error
	})
	if err != nil {
		return false, apperrors.Transient("Failed to toggle upvote", err)
	}

	return active, nil
}
