package router

import (
	"database/sql"

	"github.com/gin-gonic/gin"

	"restaurant_backend/internal/handlers"
	"restaurant_backend/internal/middleware"
	"restaurant_backend/internal/repositories"
	"restaurant_backend/internal/services"
	"restaurant_backend/pkg/utils"
)

// Setup wires repositories, services and handlers, and registers all routes.
func Setup(engine *gin.Engine, db *sql.DB) error {
	orderRepo := repositories.NewOrderRepository(db)
	productRepo := repositories.NewProductRepository(db)
	stockRepo := repositories.NewStockRepository(db)
	tableRepo := repositories.NewTableRepository(db)
	counterRepo := repositories.NewCounterRepository(db)
	userRepo := repositories.NewUserRepository(db)
	promotionRepo := repositories.NewPromotionRepository(db)
	reviewRepo := repositories.NewReviewRepository(db)

	numbers, err := buildNumberSource(db, orderRepo, counterRepo)
	if err != nil {
		return err
	}

	stockService := services.NewStockService(stockRepo, productRepo, userRepo, db)
	tableService := services.NewTableService(tableRepo, db)
	orderService := services.NewOrderService(orderRepo, productRepo, stockService, tableService, numbers, db)
	productService := services.NewProductService(productRepo, db)
	authService := services.NewAuthService(userRepo, db)
	promotionService := services.NewPromotionService(promotionRepo, reviewRepo, orderRepo, db)
	reportService := services.NewReportService(orderRepo, stockRepo)

	orderHandler := handlers.NewOrderHandler(orderService)
	stockHandler := handlers.NewStockHandler(stockService)
	tableHandler := handlers.NewTableHandler(tableService)
	productHandler := handlers.NewProductHandler(productService)
	authHandler := handlers.NewAuthHandler(authService)
	promotionHandler := handlers.NewPromotionHandler(promotionService)
	reportHandler := handlers.NewReportHandler(reportService)

	apiV1 := engine.Group("/api/v1")

	SetupPublicRoutes(apiV1, authHandler, productHandler, promotionHandler)

	authenticated := apiV1.Group("")
	authenticated.Use(middleware.AuthMiddleware())
	{
		SetupAuthenticatedAuthRoutes(authenticated.Group("/auth"), authHandler)
		SetupOrderRoutes(authenticated, orderHandler)
		SetupStockRoutes(authenticated, stockHandler)
		SetupTableRoutes(authenticated, tableHandler)
		SetupProductAdminRoutes(authenticated, productHandler)
		SetupPromotionAdminRoutes(authenticated, promotionHandler)
		SetupReportRoutes(authenticated, reportHandler)
		SetupUserRoutes(authenticated, authHandler)
	}
	return nil
}

// buildNumberSource picks the order number backend. The database-backed
// counter is the default; ORDER_NUMBERS=memory switches to the in-process
// source seeded from the newest stored number, useful for single-instance
// deployments and local work.
func buildNumberSource(db *sql.DB, orderRepo repositories.OrderRepository, counterRepo repositories.CounterRepository) (services.OrderNumberSource, error) {
	if utils.Getenv("ORDER_NUMBERS", "durable") == "memory" {
		latest, err := orderRepo.GetLatestOrderNumber()
		if err != nil {
			return nil, err
		}
		return services.NewMemoryNumberSource(latest), nil
	}
	return services.NewDurableNumberSource(db, counterRepo), nil
}
