package controllers

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/hazel-ko/artcommissions-api/apperrors"
	"github.com/hazel-ko/artcommissions-api/config"
	"github.com/hazel-ko/artcommissions-api/middleware"
	"github.com/hazel-ko/artcommissions-api/models"
)

// respondError writes the standard error envelope for err. Unrecognized
// errors are treated as store failures and logged.
func respondError(c *gin.Context, err error) {
	appErr := apperrors.As(err)
	if appErr.HTTPCode >= http.StatusInternalServerError {
		log.Printf("internal error: %v", appErr)
	}
	c.JSON(appErr.HTTPCode, gin.H{
		"success": false,
		"error": gin.H{
			"code":    appErr.Code,
			"message": appErr.Message,
		},
	})
}

// respondData writes the standard success envelope.
func respondData(c *gin.Context, status int, data interface{}) {
	c.JSON(status, gin.H{
		"success": true,
		"data":    data,
	})
}

// currentUser resolves the authenticated caller to a database user. On
// failure it writes the error response and returns false.
func currentUser(c *gin.Context) (*models.User, bool) {
	auth0ID, err := middleware.GetUserID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "UNAUTHORIZED",
				"message": "Could not extract user information",
			},
		})
		return nil, false
	}

	db := config.GetDB()
	var user models.User
	if err := db.Where("auth0_id = ?", auth0ID).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "USER_NOT_FOUND",
					"message": "User profile not found. Please create a profile first.",
				},
			})
			return nil, false
		}
		respondError(c, apperrors.Transient("Failed to load user profile", err))
		return nil, false
	}

	return &user, true
}

// optionalUser resolves the caller when an authenticated context is
// present, returning nil without writing a response otherwise. Used by
// public endpoints whose output varies for owners and admins.
func optionalUser(c *gin.Context) *models.User {
	auth0ID, err := middleware.GetUserID(c)
	if err != nil {
		return nil
	}

	db := config.GetDB()
	var user models.User
	if err := db.Where("auth0_id = ?", auth0ID).First(&user).Error; err != nil {
		return nil
	}

	return &user
}

// idParam parses the named URL parameter as an unsigned integer ID. On
// failure it writes a validation error response and returns false.
func idParam(c *gin.Context, name string) (uint, bool) {
	raw := c.Param(name)
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "INVALID_ID",
				"message": "Invalid " + name + " parameter",
			},
		})
		return 0, false
	}
	return uint(id), true
}
