package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/hazel-ko/artcommissions-api/services"
)

// ToggleCommissionLike handles POST /api/v1/commissions/:id/like - flips the
// caller's like on a commission and reports the resulting state.
func ToggleCommissionLike(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	user, ok := currentUser(c)
	if !ok {
		return
	}

	active, err := services.ToggleLike(id, user.ID)
	if err != nil {
		respondError(c, err)
		return
	}

	respondData(c, http.StatusOK, gin.H{"active": active})
}

// TogglePostUpvote handles POST /api/v1/posts/:id/upvote - same toggle as a
// like, scoped to a community post.
func TogglePostUpvote(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	user, ok := currentUser(c)
	if !ok {
		return
	}

	active, err := services.ToggleUpvote(id, user.ID)
	if err != nil {
		respondError(c, err)
		return
	}

	respondData(c, http.StatusOK, gin.H{"active": active})
}
