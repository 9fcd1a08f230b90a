package main

import (
	"net/http"

	"bangazon-api/internal/handler"
	mid "bangazon-api/internal/middleware"
	"bangazon-api/internal/model"
	"bangazon-api/pkg/config"
	"bangazon-api/pkg/database"
	"bangazon-api/pkg/jwtutil"
	"bangazon-api/pkg/logger"
	"bangazon-api/prometheus"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

func main() {
	// Load configuration (reads .env when present)
	appConfig, err := config.Load("bangazon-api")
	if err != nil {
		// Can't use structured logger yet since it's not initialized
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger
	if err := logger.InitLogger(appConfig); err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	log := logger.GetLogger()
	defer log.Sync()

	log.Info("Starting bangazon-api", appConfig.LogConfig()...)

	// Initialize JWT utility
	jwtutil.Initialize(&appConfig.JWT)
	log.Info("JWT utility initialized")

	// Initialize Prometheus metrics
	prometheus.InitMetrics(appConfig)
	log.Info("Prometheus metrics initialized",
		zap.String("metrics_prefix", appConfig.Metrics.Prefix))

	// Initialize database
	if err := database.InitDB(appConfig); err != nil {
		log.Fatal("Failed to initialize database", zap.Error(err))
	}
	log.Info("Database connection established")

	if err := database.MigrateModels(model.All()...); err != nil {
		log.Fatal("Failed to run migrations", zap.Error(err))
	}
	log.Info("Database migrations applied")

	// Initialize Echo instance
	e := echo.New()

	// Middleware
	e.Use(middleware.Recover())
	e.Use(mid.RequestIDMiddleware)
	e.Use(mid.MetricsMiddleware)

	// Metrics endpoint
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	// Health check endpoint
	e.GET("/health", handler.HealthCheck)

	// Token issuing
	e.POST("/register", handler.Register)
	e.POST("/login", handler.Login)
	e.POST("/api-token-auth", handler.Login)

	// Authenticated API routes
	api := e.Group("/api", mid.AuthMiddleware)

	api.GET("/products", handler.ListProducts)
	api.POST("/products", handler.CreateProduct)
	api.GET("/products/liked", handler.ListLikedProducts)
	api.GET("/products/:id", handler.GetProduct)
	api.PUT("/products/:id", handler.UpdateProduct)
	api.DELETE("/products/:id", handler.DeleteProduct)
	api.POST("/products/:id/recommend", handler.RecommendProduct)
	api.POST("/products/:id/like", handler.LikeProduct)
	api.DELETE("/products/:id/unlike", handler.UnlikeProduct)
	api.POST("/products/:id/rate", handler.RateProduct)

	api.GET("/categories", handler.ListCategories)
	api.POST("/categories", handler.CreateCategory)

	api.GET("/orders", handler.ListOrders)
	api.GET("/orders/:id", handler.GetOrder)
	api.PUT("/orders/:id", handler.CompleteOrder)
	api.PUT("/orders/:id/complete", handler.CompleteOrder)
	api.GET("/orders/:id/lineitems", handler.ListOrderLineItems)
	api.POST("/orders/:id/lineitems", handler.AddOrderLineItem)
	api.DELETE("/orders/:id/lineitems", handler.ClearOrderLineItems)

	api.GET("/profile", handler.GetProfile)
	api.GET("/profile/cart", handler.GetCart)
	api.POST("/profile/cart", handler.AddToCart)
	api.DELETE("/profile/cart", handler.ClearCart)
	api.DELETE("/profile/cart/items/:id", handler.RemoveCartItem)
	api.GET("/profile/favoritesellers", handler.ListFavoriteSellers)
	api.POST("/profile/favoritesellers", handler.AddFavoriteSeller)
	api.DELETE("/profile/favoritesellers", handler.RemoveFavoriteSeller)

	api.GET("/stores", handler.ListStores)
	api.POST("/stores", handler.CreateStore)
	api.GET("/stores/:id", handler.GetStore)

	api.GET("/paymenttypes", handler.ListPayments)
	api.POST("/paymenttypes", handler.CreatePayment)
	api.GET("/paymenttypes/:id", handler.GetPayment)
	api.DELETE("/paymenttypes/:id", handler.DeletePayment)

	api.GET("/reports/incomplete_orders", handler.IncompleteOrdersReport)
	api.GET("/reports/completed_orders", handler.CompletedOrdersReport)
	api.GET("/reports/expensive_products", handler.ExpensiveProductsReport)
	api.GET("/reports/inexpensive_products", handler.InexpensiveProductsReport)
	api.GET("/reports/favoritesellers", handler.FavoriteSellersReport)

	// Start server
	port := appConfig.Server.Port
	log.Info("Starting server", zap.String("port", port))
	if err := e.Start(":" + port); err != nil && err != http.ErrServerClosed {
		log.Fatal("Server error", zap.Error(err))
	}
}
