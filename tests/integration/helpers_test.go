package integration

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"gorm.io/datatypes"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/hazel-ko/artcommissions-api/models"
)

func openTestDB() (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		return nil, err
	}

	err = db.AutoMigrate(
		&models.User{},
		&models.Commission{},
		&models.CommissionImage{},
		&models.CommissionOrder{},
		&models.Like{},
		&models.Upvote{},
		&models.Post{},
		&models.Reply{},
		&models.Review{},
	)
	return db, err
}

func createUser(db *gorm.DB, auth0ID, role string) *models.User {
	user := models.User{
		Auth0ID: auth0ID,
		Name:    "Integration " + role,
		Email:   auth0ID + "@test.com",
		Role:    role,
	}
	db.Create(&user)
	return &user
}

func createCommission(db *gorm.DB, artist *models.User, status models.CommissionStatus) *models.Commission {
	commission := models.Commission{
		ArtistID:    artist.ID,
		Title:       "Stylized Portrait",
		Description: "Stylized portrait in my signature style",
		Category:    models.CategoryIllustration,
		PriceStart:  6000,
		PriceOptions: datatypes.NewJSONSlice([]models.PriceOption{
			{
				Type: "base",
				Choices: []models.PriceChoice{
					{Label: "headshot", Price: 6000},
					{Label: "halfbody", Price: 10000},
				},
			},
		}),
		TurnaroundDays: 7,
		Status:         status,
	}
	db.Create(&commission)
	return &commission
}

func jsonRequest(router *gin.Engine, method, path string, payload interface{}) *httptest.ResponseRecorder {
	var body *bytes.Buffer
	if payload != nil {
		raw, _ := json.Marshal(payload)
		body = bytes.NewBuffer(raw)
	} else {
		body = bytes.NewBuffer(nil)
	}

	req, _ := http.NewRequest(method, path, body)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var response map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &response); err != nil {
		t.Fatalf("Failed to decode response %q: %v", w.Body.String(), err)
	}
	return response
}

func errorCode(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	response := decodeBody(t, w)
	errorData, ok := response["error"].(map[string]interface{})
	if !ok {
		t.Fatalf("Response has no error object: %s", w.Body.String())
	}
	code, _ := errorData["code"].(string)
	return code
}

func idOf(t *testing.T, w *httptest.ResponseRecorder) uint {
	t.Helper()
	response := decodeBody(t, w)
	data, ok := response["data"].(map[string]interface{})
	if !ok {
		t.Fatalf("Response has no data object: %s", w.Body.String())
	}
	id, ok := data["id"].(float64)
	if !ok {
		t.Fatalf("Response data has no numeric id: %s", w.Body.String())
	}
	return uint(id)
}
