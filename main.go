package main

import (
	"log"
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/hazel-ko/artcommissions-api/config"
	"github.com/hazel-ko/artcommissions-api/controllers"
	"github.com/hazel-ko/artcommissions-api/middleware"
	"github.com/hazel-ko/artcommissions-api/models"
	"github.com/hazel-ko/artcommissions-api/services"
)

func main() {
	// Basic logging
	log.Println("Starting Art Commissions API server...")

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Connect to database
	if err := config.ConnectDatabase(); err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	// Auto-migrate database models
	db := config.GetDB()
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
		log.Fatalf("Failed to migrate database: %v", err)
	}
	log.Println("Database migration completed successfully")

	// Initialize S3-backed image storage
	s3Service, err := services.InitS3Service()
	if err != nil {
		log.Fatalf("Failed to initialize S3 service: %v", err)
	}
	services.InitImageService(s3Service)

	router := setupRouter(cfg)

	// Start server
	port := ":" + cfg.Port
	log.Printf("Server is running on http://localhost%s", port)
	if err := router.Run(port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

// setupRouter builds the Gin engine with all middleware and routes
func setupRouter(cfg *config.Config) *gin.Engine {
	router := gin.Default()

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowAllOrigins = true
	corsConfig.AllowHeaders = append(corsConfig.AllowHeaders, "Authorization")
	router.Use(cors.New(corsConfig))

	// API v1 routes
	v1 := router.Group("/api/v1")
	{
		// Health check endpoint
		v1.GET("/health", healthCheck)

		// Database status endpoint
		v1.GET("/database/status", databaseStatus)

		// Public catalog browsing
		v1.GET("/commissions", controllers.ListCommissions)
		v1.GET("/commissions/:id", controllers.GetCommission)
		v1.GET("/commissions/:id/reviews", controllers.ListCommissionReviews)
		v1.GET("/posts", controllers.ListPosts)
		v1.GET("/posts/:id", controllers.GetPost)

		// Authenticated routes
		auth := v1.Group("")
		auth.Use(middleware.EnsureValidToken(cfg))
		{
			auth.POST("/users", controllers.CreateUser)
			auth.GET("/users/me", controllers.GetMyProfile)
			auth.PATCH("/users/me", controllers.UpdateMyProfile)
			auth.GET("/users/me/commissions", controllers.ListMyCommissions)
			auth.GET("/admin/commissions", controllers.ListModerationQueue)

			auth.POST("/commissions", controllers.CreateCommission)
			auth.PATCH("/commissions/:id", controllers.UpdateCommission)
			auth.DELETE("/commissions/:id", controllers.DeleteCommission)
			auth.POST("/commissions/:id/images", controllers.UploadCommissionImage)
			auth.POST("/commissions/:id/approve", controllers.ApproveCommission)
			auth.POST("/commissions/:id/reject", controllers.RejectCommission)
			auth.POST("/commissions/:id/like", controllers.ToggleCommissionLike)

			auth.POST("/orders", controllers.CreateOrder)
			auth.GET("/orders", controllers.ListOrders)
			auth.GET("/orders/:id", controllers.GetOrder)
			auth.PATCH("/orders/:id/status", controllers.UpdateOrderStatus)
			auth.POST("/orders/:id/cancel", controllers.CancelOrder)
			auth.POST("/orders/:id/review", controllers.CreateReview)

			auth.POST("/posts", controllers.CreatePost)
			auth.DELETE("/posts/:id", controllers.DeletePost)
			auth.POST("/posts/:id/replies", controllers.CreateReply)
			auth.POST("/posts/:id/upvote", controllers.TogglePostUpvote)
		}
	}

	return router
}

// healthCheck handles the health check endpoint
func healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Art Commissions API is running",
	})
}

// databaseStatus checks database connectivity and returns table information
func databaseStatus(c *gin.Context) {
	db := config.GetDB()

	// Get the underlying SQL database to check connection
	sqlDB, err := db.DB()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to get database instance",
			},
		})
		return
	}

	// Ping the database to verify connection
	if err := sqlDB.Ping(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_CONNECTION_ERROR",
				"message": "Database connection failed",
			},
		})
		return
	}

	// Get list of tables
	var tables []string
	if err := db.Raw("SELECT tablename FROM pg_tables WHERE schemaname = 'public'").Scan(&tables).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_QUERY_ERROR",
				"message": "Failed to query tables",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Database connected",
		"tables":  tables,
	})
}
