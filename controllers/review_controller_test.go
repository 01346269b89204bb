package controllers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/hazel-ko/artcommissions-api/config"
	"github.com/hazel-ko/artcommissions-api/models"
)

func TestCreateReview(t *testing.T) {
	db := setupTestDB(t)
	config.SetDB(db)

	artist := seedUser(t, db, "auth0|rev-artist", models.RoleArtist)
	client := seedUser(t, db, "auth0|rev-client", models.RoleClient)
	stranger := seedUser(t, db, "auth0|rev-stranger", models.RoleClient)
	commission := seedCommission(t, db, artist, models.CommissionAvailable)

	tests := []struct {
		name           string
		orderStatus    models.OrderStatus
		actor          *models.User
		rating         int
		expectedStatus int
		expectedError  string
	}{
		{
			name:           "Buyer reviews a completed order",
			orderStatus:    models.OrderCompleted,
			actor:          client,
			rating:         5,
			expectedStatus: http.StatusCreated,
		},
		{
			name:           "Unfinished order cannot be reviewed",
			orderStatus:    models.OrderInProgress,
			actor:          client,
			rating:         4,
			expectedStatus: http.StatusConflict,
			expectedError:  "ORDER_NOT_COMPLETED",
		},
		{
			name:           "Only the buyer can review",
			orderStatus:    models.OrderCompleted,
			actor:          stranger,
			rating:         1,
			expectedStatus: http.StatusForbidden,
			expectedError:  "FORBIDDEN",
		},
		{
			name:           "Rating outside 1-5 rejected",
			orderStatus:    models.OrderCompleted,
			actor:          client,
			rating:         6,
			expectedStatus: http.StatusBadRequest,
			expectedError:  "VALIDATION_ERROR",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			order := seedOrder(t, db, commission, client, tt.orderStatus)

			router := setupTestRouter()
			router.POST("/orders/:id/review",
				mockAuthMiddleware(tt.actor.Auth0ID, tt.actor.Role, "mock-token"),
				CreateReview,
			)

			body, _ := json.Marshal(map[string]interface{}{
				"rating":  tt.rating,
				"content": "Fantastic communication and quality",
			})
			req, _ := http.NewRequest(http.MethodPost, fmt.Sprintf("/orders/%d/review", order.ID), bytes.NewBuffer(body))
			req.Header.Set("Content-Type", "application/json")
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)

			if tt.expectedError != "" {
				var response map[string]interface{}
				json.Unmarshal(w.Body.Bytes(), &response)
				errorData := response["error"].(map[string]interface{})
				assert.Equal(t, tt.expectedError, errorData["code"])
			}
		})
	}
}

func TestCreateReview_OnePerOrder(t *testing.T) {
	db := setupTestDB(t)
	config.SetDB(db)

	artist := seedUser(t, db, "auth0|rev2-artist", models.RoleArtist)
	client := seedUser(t, db, "auth0|rev2-client", models.RoleClient)
	commission := seedCommission(t, db, artist, models.CommissionAvailable)
	order := seedOrder(t, db, commission, client, models.OrderCompleted)

	router := setupTestRouter()
	router.POST("/orders/:id/review",
		mockAuthMiddleware(client.Auth0ID, client.Role, "mock-token"),
		CreateReview,
	)

	send := func() *httptest.ResponseRecorder {
		body, _ := json.Marshal(map[string]interface{}{"rating": 4, "content": "Great"})
		req, _ := http.NewRequest(http.MethodPost, fmt.Sprintf("/orders/%d/review", order.ID), bytes.NewBuffer(body))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		return w
	}

	first := send()
	assert.Equal(t, http.StatusCreated, first.Code)

	second := send()
	assert.Equal(t, http.StatusConflict, second.Code)

	var response map[string]interface{}
	json.Unmarshal(second.Body.Bytes(), &response)
	errorData := response["error"].(map[string]interface{})
	assert.Equal(t, "ALREADY_REVIEWED", errorData["code"])
}

func TestListCommissionReviews(t *testing.T) {
	db := setupTestDB(t)
	config.SetDB(db)

	artist := seedUser(t, db, "auth0|lr-artist", models.RoleArtist)
	client := seedUser(t, db, "auth0|lr-client", models.RoleClient)
	commission := seedCommission(t, db, artist, models.CommissionAvailable)
	other := seedCommission(t, db, artist, models.CommissionAvailable)

	orderA := seedOrder(t, db, commission, client, models.OrderCompleted)
	orderB := seedOrder(t, db, other, client, models.OrderCompleted)
	db.Create(&models.Review{OrderID: orderA.ID, CommissionID: commission.ID, ReviewerID: client.ID, Rating: 5, Content: "Stunning"})
	db.Create(&models.Review{OrderID: orderB.ID, CommissionID: other.ID, ReviewerID: client.ID, Rating: 3, Content: "Fine"})

	router := setupTestRouter()
	router.GET("/commissions/:id/reviews", ListCommissionReviews)

	req, _ := http.NewRequest(http.MethodGet, fmt.Sprintf("/commissions/%d/reviews", commission.ID), nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var response map[string]interface{}
	json.Unmarshal(w.Body.Bytes(), &response)
	data := response["data"].([]interface{})
	assert.Len(t, data, 1)
	assert.Equal(t, float64(5), data[0].(map[string]interface{})["rating"])
}
