// internal/router/router.go
package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/emissionsiq/emissionsiq-backend/internal/config"
	"github.com/emissionsiq/emissionsiq-backend/internal/handlers"
	"github.com/emissionsiq/emissionsiq-backend/internal/middleware"
	"github.com/emissionsiq/emissionsiq-backend/internal/services"
	"github.com/emissionsiq/emissionsiq-backend/internal/utils"
)

func Initialize(db *gorm.DB, cfg *config.Config) *gin.Engine {
	// Initialize services
	sessionService := services.NewSessionService(db, cfg)
	productService := services.NewProductService(db, cfg.Database.WriteTimeout())
	transferService := services.NewImportExportService(db, cfg.Database.WriteTimeout())
	storageService, err := services.NewStorageService(cfg)
	if err != nil {
		logrus.WithError(err).Warn("S3 export storage unavailable, exports are returned inline only")
	}

	// Initialize handlers
	sessionHandler := handlers.NewSessionHandler(sessionService)
	productHandler := handlers.NewProductHandler(productService)
	transferHandler := handlers.NewTransferHandler(transferService, storageService, cfg.Import.MaxBodyBytes)

	// Set session token secret
	utils.SetJWTSecret(cfg.Session.SecretKey)

	// Initialize Gin router
	r := gin.New()

	// Global middleware
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger())
	r.Use(middleware.CORS())

	// Rate limits stay out of the test environment so suites can hammer
	// the router without tripping the per-IP budget.
	rateLimited := cfg.Environment != "test"
	if rateLimited {
		r.Use(middleware.GeneralRateLimit())
	}

	// Health check
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"version": "1.0.0",
		})
	})

	// API v1 routes
	v1 := r.Group("/v1")
	{
		// Session routes
		v1.POST("/sessions", sessionHandler.CreateSession)

		profile := v1.Group("/profile")
		profile.Use(middleware.SessionRequired())
		{
			profile.GET("", sessionHandler.GetProfile)
			profile.PUT("", sessionHandler.UpdateProfile)
		}

		// Product routes. Reads work without a session; writes create
		// an anonymous session when the request carries none.
		products := v1.Group("/products")
		{
			products.GET("", middleware.OptionalSession(), productHandler.GetProducts)
			products.GET("/summary", productHandler.GetSummary)
			products.GET("/export", transferHandler.ExportProducts)
			products.GET("/import/template", transferHandler.DownloadTemplate)
			products.GET("/:id", productHandler.GetProduct)
			products.GET("/:id/breakdown", productHandler.GetBreakdown)

			writes := products.Group("")
			writes.Use(middleware.SessionOnWrite(sessionService))
			{
				writes.POST("", productHandler.CreateProduct)
				writes.PUT("/:id", productHandler.UpdateProduct)
				writes.DELETE("/:id", productHandler.DeleteProduct)
				writes.POST("/:id/ingredients", productHandler.AddIngredients)
				writes.PUT("/:id/value-chain", productHandler.ReplaceValueChain)
				if rateLimited {
					writes.POST("/import", middleware.ImportRateLimit(), transferHandler.ImportProducts)
				} else {
					writes.POST("/import", transferHandler.ImportProducts)
				}
			}
		}
	}

	return r
}
