package controllers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"

	"github.com/hazel-ko/artcommissions-api/config"
	"github.com/hazel-ko/artcommissions-api/models"
)

func seedPost(t *testing.T, db *gorm.DB, author *models.User) *models.Post {
	post := models.Post{
		AuthorID: author.ID,
		Title:    "Commission sheet feedback",
		Content:  "Just redid my commission sheet, would love opinions.",
	}
	if err := db.Create(&post).Error; err != nil {
		t.Fatalf("Failed to seed post: %v", err)
	}
	return &post
}

func TestToggleCommissionLike(t *testing.T) {
	db := setupTestDB(t)
	config.SetDB(db)

	artist := seedUser(t, db, "auth0|like-artist", models.RoleArtist)
	client := seedUser(t, db, "auth0|like-client", models.RoleClient)
	commission := seedCommission(t, db, artist, models.CommissionAvailable)

	router := setupTestRouter()
	router.POST("/commissions/:id/like",
		mockAuthMiddleware(client.Auth0ID, client.Role, "mock-token"),
		ToggleCommissionLike,
	)

	toggle := func() map[string]interface{} {
		req, _ := http.NewRequest(http.MethodPost, fmt.Sprintf("/commissions/%d/like", commission.ID), nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusOK, w.Code)

		var response map[string]interface{}
		json.Unmarshal(w.Body.Bytes(), &response)
		return response["data"].(map[string]interface{})
	}

	data := toggle()
	assert.Equal(t, true, data["active"])

	var fresh models.Commission
	db.First(&fresh, commission.ID)
	assert.Equal(t, 1, fresh.LikesCount)

	data = toggle()
	assert.Equal(t, false, data["active"])

	db.First(&fresh, commission.ID)
	assert.Equal(t, 0, fresh.LikesCount)
}

func TestToggleCommissionLike_NotFound(t *testing.T) {
	db := setupTestDB(t)
	config.SetDB(db)

	client := seedUser(t, db, "auth0|like-nf", models.RoleClient)

	router := setupTestRouter()
	router.POST("/commissions/:id/like",
		mockAuthMiddleware(client.Auth0ID, client.Role, "mock-token"),
		ToggleCommissionLike,
	)

	req, _ := http.NewRequest(http.MethodPost, "/commissions/98765/like", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestTogglePostUpvote(t *testing.T) {
	db := setupTestDB(t)
	config.SetDB(db)

	author := seedUser(t, db, "auth0|up-author", models.RoleArtist)
	voter := seedUser(t, db, "auth0|up-voter", models.RoleClient)
	post := seedPost(t, db, author)

	router := setupTestRouter()
	router.POST("/posts/:id/upvote",
		mockAuthMiddleware(voter.Auth0ID, voter.Role, "mock-token"),
		TogglePostUpvote,
	)

	req, _ := http.NewRequest(http.MethodPost, fmt.Sprintf("/posts/%d/upvote", post.ID), nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var response map[string]interface{}
	json.Unmarshal(w.Body.Bytes(), &response)
	data := response["data"].(map[string]interface{})
	assert.Equal(t, true, data["active"])

	var fresh models.Post
	db.First(&fresh, post.ID)
	assert.Equal(t, 1, fresh.UpvotesCount)
}
