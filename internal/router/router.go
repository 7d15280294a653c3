// internal/router/router.go
package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/stockhub/stockhub-backend/internal/config"
	"github.com/stockhub/stockhub-backend/internal/handlers"
	"github.com/stockhub/stockhub-backend/internal/middleware"
	"github.com/stockhub/stockhub-backend/internal/services"
	"github.com/stockhub/stockhub-backend/internal/utils"
)

func Initialize(db *gorm.DB, cfg *config.Config) *gin.Engine {
	// Initialize services
	authService := services.NewAuthService(db, cfg)
	inventoryService := services.NewInventoryService(db)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(authService, cfg.JWT)
	inventoryHandler := handlers.NewInventoryHandler(inventoryService)

	// Set JWT secret
	utils.SetJWTSecret(cfg.JWT.SecretKey)

	// Initialize Gin router
	r := gin.New()

	// Global middleware
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger())
	r.Use(middleware.CORS(cfg.CORS))
	r.Use(middleware.GeneralRateLimit())

	// Health check
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"version": "1.0.0",
		})
	})

	// Authentication routes
	auth := r.Group("/auth")
	auth.Use(middleware.AuthRateLimit())
	{
		auth.POST("/register", authHandler.Register)
		auth.POST("/login", authHandler.Login)
		auth.POST("/logout", authHandler.Logout)
		auth.POST("/refresh", authHandler.RefreshToken)
		auth.GET("/me", middleware.AuthRequired(), authHandler.GetProfile)

		// Staff management (manager only)
		staff := auth.Group("/staff")
		staff.Use(middleware.AuthRequired(), middleware.ManagerRequired())
		{
			staff.POST("", authHandler.CreateStaff)
			staff.GET("", authHandler.ListStaff)
			staff.DELETE("/:id", authHandler.DeleteStaff)
		}
	}

	// Inventory routes
	inventory := r.Group("/inventory")
	inventory.Use(middleware.AuthRequired())
	{
		inventory.GET("", inventoryHandler.ListItems)
		inventory.POST("/create", inventoryHandler.CreateItem)
		inventory.GET("/updatelog", inventoryHandler.GetLedger)
		inventory.GET("/disposelogs", inventoryHandler.GetDisposals)
		inventory.GET("/summary", inventoryHandler.GetSummary)
		inventory.PUT("/productupdate/:id", inventoryHandler.UpdateFields)
		inventory.GET("/:id", inventoryHandler.GetItem)
		inventory.PUT("/:id", inventoryHandler.AdjustQuantity)
		inventory.DELETE("/:id", inventoryHandler.DeleteItem)
	}

	return r
}
