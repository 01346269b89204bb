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
)

// CreatePostRequest represents the request body for creating a community post
type CreatePostRequest struct {
	Title   string `json:"title" binding:"required"`
	Content string `json:"content" binding:"required"`
}

// CreateReplyRequest represents the request body for replying to a post
type CreateReplyRequest struct {
	Content string `json:"content" binding:"required"`
}

// CreatePost handles POST /api/v1/posts - creates a community post
func CreatePost(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	var req CreatePostRequest
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

	post := models.Post{
		AuthorID: user.ID,
		Title:    req.Title,
		Content:  req.Content,
	}

	db := config.GetDB()
	if err := db.Create(&post).Error; err != nil {
		respondError(c, apperrors.Transient("Failed to create post", err))
		return
	}

	if err := db.Preload("Author").First(&post, post.ID).Error; err != nil {
		respondError(c, apperrors.Transient("Failed to load post details", err))
		return
	}

	respondData(c, http.StatusCreated, post)
}

// ListPosts handles GET /api/v1/posts - lists community posts, newest first
func ListPosts(c *gin.Context) {
	db := config.GetDB()
	query := db.Model(&models.Post{}).Preload("Author")

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
		respondError(c, apperrors.Transient("Failed to count posts", err))
		return
	}

	var posts []models.Post
	if err := query.Order("created_at DESC").
		Offset((page - 1) * limit).Limit(limit).
		Find(&posts).Error; err != nil {
		respondError(c, apperrors.Transient("Failed to list posts", err))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    posts,
		"pagination": gin.H{
			"page":  page,
			"limit": limit,
			"total": total,
		},
	})
}

// GetPost handles GET /api/v1/posts/:id - returns one post with its replies
func GetPost(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	db := config.GetDB()
	var post models.Post
	if err := db.Preload("Author").First(&post, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			respondError(c, apperrors.NotFound("POST_NOT_FOUND", "Post not found"))
			return
		}
		respondError(c, apperrors.Transient("Failed to load post", err))
		return
	}

	var replies []models.Reply
	if err := db.Preload("Author").
		Where("post_id = ?", post.ID).
		Order("created_at ASC").
		Find(&replies).Error; err != nil {
		respondError(c, apperrors.Transient("Failed to load replies", err))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"post":    post,
			"replies": replies,
		},
	})
}

// CreateReply handles POST /api/v1/posts/:id/replies - replies to a post
func CreateReply(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	user, ok := currentUser(c)
	if !ok {
		return
	}

	var req CreateReplyRequest
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
	var post models.Post
	if err := db.First(&post, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			respondError(c, apperrors.NotFound("POST_NOT_FOUND", "Post not found"))
			return
		}
		respondError(c, apperrors.Transient("Failed to load post", err))
		return
	}

	reply := models.Reply{
		PostID:   post.ID,
		AuthorID: user.ID,
		Content:  req.Content,
	}

	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&reply).Error; err != nil {
			return err
		}
		return tx.Model(&models.Post{}).
			Where("id = ?", post.ID).
			UpdateColumn("replies_count", gorm.Expr("replies_count + 1")).Error
	})
	if err != nil {
		respondError(c, apperrors.Transient("Failed to create reply", err))
		return
	}

	if err := db.Preload("Author").First(&reply, reply.ID).Error; err != nil {
		respondError(c, apperrors.Transient("Failed to load reply details", err))
		return
	}

	respondData(c, http.StatusCreated, reply)
}

// DeletePost handles DELETE /api/v1/posts/:id - removes a post (author or admin)
func DeletePost(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	user, ok := currentUser(c)
	if !ok {
		return
	}

	db := config.GetDB()
	var post models.Post
	if err := db.First(&post, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			respondError(c, apperrors.NotFound("POST_NOT_FOUND", "Post not found"))
			return
		}
		respondError(c, apperrors.Transient("Failed to load post", err))
		return
	}

	if post.AuthorID != user.ID && !user.IsAdmin() {
		respondError(c, apperrors.Authorization("Only the author or an administrator can delete a post"))
		return
	}

	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("post_id = ?", post.ID).Delete(&models.Reply{}).Error; err != nil {
			return err
		}
		if err := tx.Where("post_id = ?", post.ID).Delete(&models.Upvote{}).Error; err != nil {
			return err
		}
		return tx.Delete(&post).Error
	})
	if err != nil {
		respondError(c, apperrors.Transient("Failed to delete post", err))
		return
	}

	respondData(c, http.StatusOK, gin.H{"deleted": true})
}
