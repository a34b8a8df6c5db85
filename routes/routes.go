package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/totizi/Mogiten-system/controllers"
	"github.com/totizi/Mogiten-system/middleware"
)

func SetupRoutes(router *gin.Engine, h *controllers.Handler) {
	api := router.Group("/api")

	// Public routes
	auth := api.Group("/auth")
	{
		auth.POST("/login", h.Login)
		auth.POST("/logout", h.Logout)
	}

	// Protected routes
	protected := api.Group("/")
	protected.Use(middleware.AuthMiddleware())
	{
		// Menu routes
		menu := protected.Group("/menu")
		{
			menu.GET("", h.GetMenu)
			menu.POST("", h.CreateMenuItem)
			menu.PUT("/:name/stock", h.AdjustStock)
			menu.DELETE("/:name", h.DeleteMenuItem)
		}

		// POS session routes
		sessions := protected.Group("/sessions")
		{
			sessions.POST("", h.CreateSession)
			sessions.GET("/:id", h.GetSession)
			sessions.POST("/:id/items", h.AddCartItem)
			sessions.DELETE("/:id/items/:index", h.RemoveCartLine)
			sessions.POST("/:id/received", h.SetReceived)
			sessions.POST("/:id/checkout", h.Checkout)
			sessions.POST("/:id/clear", h.ClearSession)
		}

		// Ledger and budget routes
		protected.POST("/expenses", h.CreateExpense)
		protected.GET("/ledger", h.GetLedger)
		protected.GET("/summary", h.GetSummary)
		protected.GET("/actors", h.GetActors)
		protected.GET("/budget", h.GetBudget)
		protected.PUT("/budget", h.SetBudget)

		// Reports
		protected.GET("/reports/daily", h.DailyReport)
	}
}
