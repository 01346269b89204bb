package services

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"gorm.io/datatypes"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/hazel-ko/artcommissions-api/apperrors"
	"github.com/hazel-ko/artcommissions-api/config"
	"github.com/hazel-ko/artcommissions-api/models"
)

var userSeq int

func newTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("Failed to connect to test database: %v", err)
	}

	if err := db.AutoMigrate(
		&models.User{},
		&models.Commission{},
		&models.CommissionImage{},
		&models.CommissionOrder{},
		&models.Like{},
		&models.Upvote{},
		&models.Post{},
		&models.Reply{},
		&models.Review{},
	); err != nil {
		t.Fatalf("Failed to migrate test database: %v", err)
	}

	config.SetDB(db)
	return db
}

func newUser(t *testing.T, db *gorm.DB, role string) *models.User {
	userSeq++
	user := models.User{
		Auth0ID: fmt.Sprintf("auth0|svc-%s-%d", role, userSeq),
		Name:    "Test " + role,
		Email:   fmt.Sprintf("svc-%s-%d@example.com", role, userSeq),
		Role:    role,
	}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("Failed to create user: %v", err)
	}
	return &user
}

func newCommission(t *testing.T, db *gorm.DB, artist *models.User, status models.CommissionStatus) *models.Commission {
	commission := models.Commission{
		ArtistID:    artist.ID,
		Title:       "Half Body Illustration",
		Description: "Painted half body portrait",
		Category:    models.CategoryIllustration,
		PriceStart:  8000,
		PriceOptions: datatypes.NewJSONSlice([]models.PriceOption{
			{
				Type: "base",
				Choices: []models.PriceChoice{
					{Label: "sketch", Price: 4000},
					{Label: "painted", Price: 8000},
				},
			},
			{
				Type: "extras",
				Choices: []models.PriceChoice{
					{Label: "extra_character", Price: 6000},
				},
			},
		}),
		TurnaroundDays: 10,
		Status:         status,
	}
	if err := db.Create(&commission).Error; err != nil {
		t.Fatalf("Failed to create commission: %v", err)
	}
	return &commission
}

func assertAppErrorCode(t *testing.T, err error, code string) {
	t.Helper()
	assert.Error(t, err)
	appErr := apperrors.As(err)
	assert.Equal(t, code, appErr.Code)
}

func TestTransitionApproval_Approve(t *testing.T) {
	db := newTestDB(t)
	artist := newUser(t, db, models.RoleArtist)
	admin := newUser(t, db, models.RoleAdmin)
	commission := newCommission(t, db, artist, models.CommissionPendingApproval)

	result, err := TransitionApproval(commission.ID, models.CommissionAvailable, admin, "")

	assert.NoError(t, err)
	assert.Equal(t, models.CommissionAvailable, result.Status)
	assert.NotNil(t, result.ApprovedByID)
	assert.Equal(t, admin.ID, *result.ApprovedByID)
	assert.NotNil(t, result.ApprovedAt)
	assert.Nil(t, result.RejectionReason)

	var fresh models.Commission
	db.First(&fresh, commission.ID)
	assert.Equal(t, models.CommissionAvailable, fresh.Status)
}

func TestTransitionApproval_ApproveClearsRejectionReason(t *testing.T) {
	db := newTestDB(t)
	artist := newUser(t, db, models.RoleArtist)
	admin := newUser(t, db, models.RoleAdmin)
	commission := newCommission(t, db, artist, models.CommissionRejected)
	reason := "Low effort listing"
	db.Model(commission).Update("rejection_reason", &reason)

	result, err := TransitionApproval(commission.ID, models.CommissionAvailable, admin, "")

	assert.NoError(t, err)
	assert.Nil(t, result.RejectionReason)

	var fresh models.Commission
	db.First(&fresh, commission.ID)
	assert.Equal(t, models.CommissionAvailable, fresh.Status)
	assert.Nil(t, fresh.RejectionReason)
}

func TestTransitionApproval_RejectStoresReason(t *testing.T) {
	db := newTestDB(t)
	artist := newUser(t, db, models.RoleArtist)
	admin := newUser(t, db, models.RoleAdmin)
	commission := newCommission(t, db, artist, models.CommissionPendingApproval)

	result, err := TransitionApproval(commission.ID, models.CommissionRejected, admin, "  Needs clearer examples  ")

	assert.NoError(t, err)
	assert.Equal(t, models.CommissionRejected, result.Status)
	assert.NotNil(t, result.RejectionReason)
	assert.Equal(t, "Needs clearer examples", *result.RejectionReason)

	var fresh models.Commission
	db.First(&fresh, commission.ID)
	assert.Equal(t, models.CommissionRejected, fresh.Status)
	assert.Equal(t, "Needs clearer examples", *fresh.RejectionReason)
}

func TestTransitionApproval_Failures(t *testing.T) {
	db := newTestDB(t)
	artist := newUser(t, db, models.RoleArtist)
	client := newUser(t, db, models.RoleClient)
	admin := newUser(t, db, models.RoleAdmin)
	commission := newCommission(t, db, artist, models.CommissionPendingApproval)

	tests := []struct {
		name         string
		commissionID uint
		newStatus    models.CommissionStatus
		actor        *models.User
		reason       string
		expectedCode string
	}{
		{
			name:         "Artist cannot moderate",
			commissionID: commission.ID,
			newStatus:    models.CommissionAvailable,
			actor:        artist,
			expectedCode: "FORBIDDEN",
		},
		{
			name:         "Client cannot moderate",
			commissionID: commission.ID,
			newStatus:    models.CommissionAvailable,
			actor:        client,
			expectedCode: "FORBIDDEN",
		},
		{
			name:         "Pending is not a review outcome",
			commissionID: commission.ID,
			newStatus:    models.CommissionPendingApproval,
			actor:        admin,
			expectedCode: "INVALID_STATUS",
		},
		{
			name:         "Rejection requires a reason",
			commissionID: commission.ID,
			newStatus:    models.CommissionRejected,
			actor:        admin,
			reason:       "   ",
			expectedCode: "REJECTION_REASON_REQUIRED",
		},
		{
			name:         "Unknown commission",
			commissionID: 99999,
			newStatus:    models.CommissionAvailable,
			actor:        admin,
			expectedCode: "COMMISSION_NOT_FOUND",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := TransitionApproval(tt.commissionID, tt.newStatus, tt.actor, tt.reason)
			assertAppErrorCode(t, err, tt.expectedCode)
		})
	}

	// Failed moderation attempts never touch the listing
	var fresh models.Commission
	db.First(&fresh, commission.ID)
	assert.Equal(t, models.CommissionPendingApproval, fresh.Status)
}

func TestDeleteCommission_BlockedByNonTerminalOrders(t *testing.T) {
	blockingStatuses := []models.OrderStatus{
		models.OrderPending,
		models.OrderAccepted,
		models.OrderInProgress,
		models.OrderRevisionRequested,
		models.OrderDisputed,
	}

	for _, status := range blockingStatuses {
		t.Run(string(status), func(t *testing.T) {
			db := newTestDB(t)
			artist := newUser(t, db, models.RoleArtist)
			client := newUser(t, db, models.RoleClient)
			commission := newCommission(t, db, artist, models.CommissionAvailable)

			order := models.CommissionOrder{
				CommissionID: commission.ID,
				ClientID:     client.ID,
				ArtistID:     artist.ID,
				Status:       status,
				TotalPrice:   4000,
			}
			db.Create(&order)

			err := DeleteCommission(commission.ID, artist)
			assertAppErrorCode(t, err, "ORDERS_IN_PROGRESS")

			// Nothing was removed
			var commissions, orders int64
			db.Model(&models.Commission{}).Where("id = ?", commission.ID).Count(&commissions)
			db.Model(&models.CommissionOrder{}).Where("commission_id = ?", commission.ID).Count(&orders)
			assert.Equal(t, int64(1), commissions)
			assert.Equal(t, int64(1), orders)
		})
	}
}

func TestDeleteCommission_CascadesTerminalOrdersAndImages(t *testing.T) {
	db := newTestDB(t)
	artist := newUser(t, db, models.RoleArtist)
	client := newUser(t, db, models.RoleClient)
	commission := newCommission(t, db, artist, models.CommissionAvailable)

	mockS3 := NewMockS3Service()
	mockS3.PutFile("commissions/aaa.png", []byte("a"))
	mockS3.PutFile("commissions/bbb.png", []byte("b"))
	InitImageService(mockS3)

	for _, status := range []models.OrderStatus{models.OrderCompleted, models.OrderCancelled, models.OrderRefunded} {
		db.Create(&models.CommissionOrder{
			CommissionID: commission.ID,
			ClientID:     client.ID,
			ArtistID:     artist.ID,
			Status:       status,
			TotalPrice:   4000,
		})
	}
	db.Create(&models.CommissionImage{CommissionID: commission.ID, ImageS3Key: "commissions/aaa.png"})
	db.Create(&models.CommissionImage{CommissionID: commission.ID, ImageS3Key: "commissions/bbb.png"})

	err := DeleteCommission(commission.ID, artist)
	assert.NoError(t, err)

	var commissions, orders, images int64
	db.Model(&models.Commission{}).Where("id = ?", commission.ID).Count(&commissions)
	db.Model(&models.CommissionOrder{}).Where("commission_id = ?", commission.ID).Count(&orders)
	db.Model(&models.CommissionImage{}).Where("commission_id = ?", commission.ID).Count(&images)
	assert.Equal(t, int64(0), commissions)
	assert.Equal(t, int64(0), orders)
	assert.Equal(t, int64(0), images)

	// Backing files were cleaned up too
	assert.ElementsMatch(t, []string{"commissions/aaa.png", "commissions/bbb.png"}, mockS3.DeletedKeys())
}

func TestDeleteCommission_StorageFailureStillDeletes(t *testing.T) {
	db := newTestDB(t)
	artist := newUser(t, db, models.RoleArtist)
	commission := newCommission(t, db, artist, models.CommissionAvailable)

	mockS3 := NewMockS3Service()
	mockS3.PutFile("commissions/ccc.png", []byte("c"))
	mockS3.FailDeletes(true)
	InitImageService(mockS3)

	db.Create(&models.CommissionImage{CommissionID: commission.ID, ImageS3Key: "commissions/ccc.png"})

	// File cleanup is best-effort: a storage outage never resurrects the rows
	err := DeleteCommission(commission.ID, artist)
	assert.NoError(t, err)

	var commissions int64
	db.Model(&models.Commission{}).Where("id = ?", commission.ID).Count(&commissions)
	assert.Equal(t, int64(0), commissions)
}

func TestDeleteCommission_NotOwner(t *testing.T) {
	db := newTestDB(t)
	artist := newUser(t, db, models.RoleArtist)
	intruder := newUser(t, db, models.RoleArtist)
	admin := newUser(t, db, models.RoleAdmin)
	commission := newCommission(t, db, artist, models.CommissionAvailable)

	// Not even admins delete someone else's listing
	for _, actor := range []*models.User{intruder, admin} {
		err := DeleteCommission(commission.ID, actor)
		assertAppErrorCode(t, err, "FORBIDDEN")
	}

	var commissions int64
	db.Model(&models.Commission{}).Where("id = ?", commission.ID).Count(&commissions)
	assert.Equal(t, int64(1), commissions)
}

func TestDeleteCommission_NotFound(t *testing.T) {
	db := newTestDB(t)
	artist := newUser(t, db, models.RoleArtist)

	err := DeleteCommission(424242, artist)
	assertAppErrorCode(t, err, "COMMISSION_NOT_FOUND")
}
