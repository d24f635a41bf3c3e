package http

import (
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"

	custommiddleware "copiersync/internal/middleware"
)

// RouterConfig holds all dependencies for routing
type RouterConfig struct {
	Auth            *custommiddleware.Auth
	AuthHandler     *AuthHandler
	AccountHandler  *AccountHandler
	SettingsHandler *SettingsHandler
	PositionHandler *PositionHandler
	ReportHandler   *ReportHandler
	ProfileHandler  *ProfileHandler
	BacktestHandler *BacktestHandler
	FAQHandler      *FAQHandler
	AdminHandler    *AdminHandler
}

// SetupRoutes configures all HTTP routes
func SetupRoutes(e *echo.Echo, config *RouterConfig) {
	e.Use(echomiddleware.LoggerWithConfig(echomiddleware.LoggerConfig{
		Skipper: func(c echo.Context) bool {
			return c.Request().URL.Path == "/health"
		},
	}))
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.CORS())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Secure())

	// Health check
	e.GET("/health", func(c echo.Context) error {
		return SuccessResponse(c, map[string]interface{}{
			"status":  "healthy",
			"service": "copiersync-api",
		})
	})

	api := e.Group("/api/v1")

	// Auth routes (public)
	auth := api.Group("/auth")
	{
		auth.POST("/signup", config.AuthHandler.Signup)
		auth.POST("/login", config.AuthHandler.Login)
		auth.POST("/reset-password", config.AuthHandler.RequestPasswordReset)
		auth.PUT("/reset/:token", config.AuthHandler.CompletePasswordReset)
	}

	// Authenticated routes
	protected := api.Group("", config.Auth.Middleware)
	{
		accounts := protected.Group("/accounts")
		accounts.GET("", config.AccountHandler.List)
		accounts.POST("", config.AccountHandler.Create)
		accounts.POST("/connect", config.AccountHandler.Connect)
		accounts.GET("/:accountID", config.AccountHandler.Get)
		accounts.PUT("/:accountID", config.AccountHandler.Update)
		accounts.DELETE("/:accountID", config.AccountHandler.Delete)
		accounts.PUT("/:accountID/trading-status", config.AccountHandler.SetTradingStatus)
		accounts.PUT("/:accountID/strategy", config.AccountHandler.ApplyStrategy)

		settings := protected.Group("/settings")
		settings.GET("", config.SettingsHandler.List)
		settings.GET("/row", config.SettingsHandler.Get)
		settings.POST("/pull", config.SettingsHandler.Pull)
		settings.PUT("", config.SettingsHandler.Push)

		positions := protected.Group("/positions")
		positions.GET("/open", config.PositionHandler.Open)
		positions.GET("/closed", config.PositionHandler.Closed)

		reports := protected.Group("/reports")
		reports.POST("/generate", config.ReportHandler.Generate)
		reports.GET("/schedules", config.ReportHandler.ListSchedules)
		reports.POST("/schedules", config.ReportHandler.CreateSchedule)
		reports.DELETE("/schedules/:id", config.ReportHandler.RemoveSchedule)
		reports.GET("/:accountID", config.ReportHandler.ListByAccount)

		backtests := protected.Group("/backtests")
		backtests.GET("", config.BacktestHandler.List)
		backtests.POST("", config.BacktestHandler.Create)

		protected.GET("/faqs", config.FAQHandler.List)

		profile := protected.Group("/profile")
		profile.GET("", config.ProfileHandler.Get)
		profile.PUT("", config.ProfileHandler.Update)
		profile.PUT("/password", config.ProfileHandler.ChangePassword)
	}

	// Admin routes
	admin := api.Group("/admin", config.Auth.Middleware, config.Auth.AdminOnly)
	{
		admin.GET("/users", config.AdminHandler.ListUsers)
		admin.POST("/users", config.AdminHandler.CreateUser)
		admin.DELETE("/users/:id", config.AdminHandler.DeleteUser)
		admin.GET("/activity-logs", config.AdminHandler.ActivityLogs)
		admin.POST("/accounts/sync", config.AdminHandler.SyncAccounts)
		admin.POST("/faqs", config.FAQHandler.Create)
		admin.PUT("/faqs/:id", config.FAQHandler.Update)
		admin.DELETE("/faqs/:id", config.FAQHandler.Delete)
	}
}
