package router

import (
	"github.com/gin-gonic/gin"

	"restaurant_backend/internal/handlers"
	"restaurant_backend/internal/middleware"
	"restaurant_backend/internal/models"
)

// SetupPublicRoutes registers the routes the guest-facing menu uses without
// a token: login and register, the menu itself, active promotions and
// leaving a review.
func SetupPublicRoutes(
	apiGroup *gin.RouterGroup,
	authHandler *handlers.AuthHandler,
	productHandler *handlers.ProductHandler,
	promotionHandler *handlers.PromotionHandler,
) {
	authRoutes := apiGroup.Group("/auth")
	{
		authRoutes.POST("/register", authHandler.Register)
		authRoutes.POST("/login", authHandler.Login)
		authRoutes.POST("/refresh-token", authHandler.Refresh)
	}

	apiGroup.GET("/products", productHandler.ListProducts)
	apiGroup.GET("/products/:id", productHandler.GetProductByID)
	apiGroup.GET("/promotions", promotionHandler.ListPromotions)
	apiGroup.POST("/reviews", promotionHandler.CreateReview)
}

// SetupAuthenticatedAuthRoutes registers the token-protected auth routes.
func SetupAuthenticatedAuthRoutes(authGroup *gin.RouterGroup, authHandler *handlers.AuthHandler) {
	authGroup.GET("/me", authHandler.Me)
}

// SetupOrderRoutes sets up the order lifecycle routes. Creation and payment
// requests come from the floor; kitchen status moves come from the cooks.
func SetupOrderRoutes(authenticatedGroup *gin.RouterGroup, orderHandler *handlers.OrderHandler) {
	orderRoutes := authenticatedGroup.Group("/orders")
	{
		floor := orderRoutes.Group("")
		floor.Use(middleware.RoleAuthMiddleware(models.RoleManager, models.RoleCashier, models.RoleClient))
		{
			floor.POST("", orderHandler.CreateOrder)
			floor.POST("/:id/items", orderHandler.AddItems)
			floor.POST("/:id/ready-to-pay", orderHandler.MarkReadyToPay)
		}

		kitchen := orderRoutes.Group("")
		kitchen.Use(middleware.RoleAuthMiddleware(models.RoleManager, models.RoleCashier, models.RoleCook))
		{
			kitchen.GET("", orderHandler.GetOrders)
			kitchen.GET("/active", orderHandler.GetActiveOrders)
			kitchen.GET("/pending", orderHandler.GetPendingOrders)
			kitchen.GET("/table/:number", orderHandler.GetOrdersByTable)
			kitchen.GET("/number/:number", orderHandler.GetOrderByNumber)
			kitchen.GET("/:id", orderHandler.GetOrderByID)
			kitchen.PATCH("/:id/status", orderHandler.UpdateOrderStatus)
			kitchen.DELETE("/:id/dismiss", orderHandler.DismissOrder)
		}

		cashier := orderRoutes.Group("")
		cashier.Use(middleware.RoleAuthMiddleware(models.RoleManager, models.RoleCashier))
		{
			cashier.POST("/:id/pay", orderHandler.PayOrder)
			cashier.POST("/:id/cancel", orderHandler.CancelOrder)
		}
	}
}

// SetupStockRoutes sets up the inventory routes.
func SetupStockRoutes(authenticatedGroup *gin.RouterGroup, stockHandler *handlers.StockHandler) {
	stockRoutes := authenticatedGroup.Group("/stock")
	stockRoutes.Use(middleware.RoleAuthMiddleware(models.RoleManager))
	{
		stockRoutes.POST("", stockHandler.CreateStockItem)
		stockRoutes.GET("", stockHandler.ListStockItems)
		stockRoutes.GET("/low", stockHandler.ListLowStockItems)
		stockRoutes.GET("/:id", stockHandler.GetStockItemByID)
		stockRoutes.POST("/:id/adjust", stockHandler.AdjustStock)
		stockRoutes.GET("/:id/movements", stockHandler.ListMovements)
	}
}

// SetupTableRoutes sets up the floor plan routes.
func SetupTableRoutes(authenticatedGroup *gin.RouterGroup, tableHandler *handlers.TableHandler) {
	tableRoutes := authenticatedGroup.Group("/tables")
	tableRoutes.Use(middleware.RoleAuthMiddleware(models.RoleManager, models.RoleCashier))
	{
		tableRoutes.POST("", tableHandler.CreateTable)
		tableRoutes.GET("", tableHandler.ListTables)
		tableRoutes.GET("/:number", tableHandler.GetTableByNumber)
		tableRoutes.PUT("/:number", tableHandler.UpdateTable)
		tableRoutes.PATCH("/:number/status", tableHandler.UpdateTableStatus)
		tableRoutes.POST("/:number/release", tableHandler.ReleaseTable)
		tableRoutes.DELETE("/:number", tableHandler.DeleteTable)
	}
}

// SetupProductAdminRoutes sets up the menu management routes.
func SetupProductAdminRoutes(authenticatedGroup *gin.RouterGroup, productHandler *handlers.ProductHandler) {
	productRoutes := authenticatedGroup.Group("/products")
	productRoutes.Use(middleware.RoleAuthMiddleware(models.RoleManager))
	{
		productRoutes.POST("", productHandler.CreateProduct)
		productRoutes.PUT("/:id", productHandler.UpdateProduct)
		productRoutes.DELETE("/:id", productHandler.DeleteProduct)
	}
}

// SetupPromotionAdminRoutes sets up promotion management and review listing.
func SetupPromotionAdminRoutes(authenticatedGroup *gin.RouterGroup, promotionHandler *handlers.PromotionHandler) {
	promotionRoutes := authenticatedGroup.Group("/promotions")
	promotionRoutes.Use(middleware.RoleAuthMiddleware(models.RoleManager))
	{
		promotionRoutes.POST("", promotionHandler.CreatePromotion)
		promotionRoutes.GET("/:id", promotionHandler.GetPromotionByID)
		promotionRoutes.PUT("/:id", promotionHandler.UpdatePromotion)
		promotionRoutes.DELETE("/:id", promotionHandler.DeletePromotion)
	}

	reviewRoutes := authenticatedGroup.Group("/reviews")
	reviewRoutes.Use(middleware.RoleAuthMiddleware(models.RoleManager))
	{
		reviewRoutes.GET("", promotionHandler.ListReviews)
	}
}

// SetupReportRoutes sets up the manager dashboard routes.
func SetupReportRoutes(authenticatedGroup *gin.RouterGroup, reportHandler *handlers.ReportHandler) {
	reportRoutes := authenticatedGroup.Group("/reports")
	reportRoutes.Use(middleware.RoleAuthMiddleware(models.RoleManager))
	{
		reportRoutes.GET("/summary", reportHandler.GetSummary)
		reportRoutes.GET("/low-stock", reportHandler.GetLowStock)
	}
}

// SetupUserRoutes sets up the account administration routes.
func SetupUserRoutes(authenticatedGroup *gin.RouterGroup, authHandler *handlers.AuthHandler) {
	userRoutes := authenticatedGroup.Group("/users")
	userRoutes.Use(middleware.RoleAuthMiddleware(models.RoleManager))
	{
		userRoutes.GET("", authHandler.ListUsers)
		userRoutes.DELETE("/:id", authHandler.DeleteUser)
	}
}
