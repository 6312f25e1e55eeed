// Package server assembles the HTTP API: services, handlers and routes.
package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/gorm"

	"gestaofinanceira/internal/config"
	_ "gestaofinanceira/internal/docs" // Import swagger docs
	"gestaofinanceira/internal/handlers"
	"gestaofinanceira/internal/middleware"
	"gestaofinanceira/internal/services"
)

// Services bundles the business services the API depends on.
type Services struct {
	Users      services.UserServicer
	Categories services.CategoryServicer
	Records    services.RecordServicer
	Reports    services.ReportServicer
	Commands   services.CommandServicer
	Audit      services.AuditServicer
	Telegram   services.TelegramServicer
}

// NewServices wires every service to db.
func NewServices(db *gorm.DB, cfg *config.Config) Services {
	return Services{
		Users:      services.NewUserService(db),
		Categories: services.NewCategoryService(db),
		Records:    services.NewRecordService(db),
		Reports:    services.NewReportService(db),
		Commands:   services.NewCommandService(db, cfg.CurrencySymbol),
		Audit:      services.NewAuditService(db),
		Telegram:   services.NewTelegramService(db),
	}
}

// NewRouter builds the gin engine with every route.
func NewRouter(cfg *config.Config, svc Services) *gin.Engine {
	authHandler := handlers.NewAuthHandler(svc.Users, svc.Audit)
	categoryHandler := handlers.NewCategoryHandler(svc.Categories, svc.Audit)
	recordHandler := handlers.NewRecordHandler(svc.Records, svc.Audit)
	dashboardHandler := handlers.NewDashboardHandler(svc.Reports)
	commandHandler := handlers.NewCommandHandler(svc.Commands, svc.Users, svc.Audit)
	telegramHandler := handlers.NewTelegramHandler(svc.Telegram, svc.Audit)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogging())
	router.Use(middleware.ErrorHandler())
	router.Use(cors())

	// Swagger documentation
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Health check endpoint
	router.GET("/api/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	v1 := router.Group("/api/v1")

	// Public routes
	auth := v1.Group("/auth")
	auth.POST("/register", authHandler.Register)
	auth.POST("/login", authHandler.Login)
	auth.POST("/refresh", authHandler.Refresh)

	// Voice shortcut webhook
	hooks := v1.Group("/hooks")
	hooks.Use(middleware.APIKeyMiddleware(cfg.CommandAPIKey))
	hooks.POST("/command", commandHandler.ExecuteHookCommand)

	// Protected routes
	protected := v1.Group("/")
	protected.Use(middleware.AuthMiddleware())

	protected.GET("/profile", authHandler.GetProfile)
	protected.DELETE("/profile", authHandler.DeleteProfile)
	protected.GET("/dashboard", dashboardHandler.GetDashboard)
	protected.POST("/commands", commandHandler.ExecuteCommand)

	categories := protected.Group("/categories")
	categories.POST("", categoryHandler.CreateCategory)
	categories.GET("", categoryHandler.GetCategories)
	categories.GET("/:id", categoryHandler.GetCategoryByID)
	categories.PUT("/:id", categoryHandler.UpdateCategory)
	categories.DELETE("/:id", categoryHandler.DeleteCategory)

	records := protected.Group("/records")
	records.POST("", recordHandler.CreateRecord)
	records.GET("", recordHandler.GetRecords)
	records.GET("/export/csv", recordHandler.ExportRecordsCSV)
	records.GET("/:id", recordHandler.GetRecordByID)
	records.PUT("/:id", recordHandler.UpdateRecord)
	records.DELETE("/:id", recordHandler.DeleteRecord)

	telegram := protected.Group("/telegram")
	telegram.GET("/link", telegramHandler.GetLink)
	telegram.POST("/generate-code", telegramHandler.GenerateCode)
	telegram.DELETE("/unlink", telegramHandler.Unlink)

	return router
}

func cors() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-API-Key")
		c.Writer.Header().Set("Access-Control-Expose-Headers", "Content-Disposition")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}
