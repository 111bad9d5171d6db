package main

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/AhmadFauzanZW/wilopo-cargo/config"
	"github.com/AhmadFauzanZW/wilopo-cargo/database"
	"github.com/AhmadFauzanZW/wilopo-cargo/handlers"
	"github.com/AhmadFauzanZW/wilopo-cargo/logging"
	"github.com/AhmadFauzanZW/wilopo-cargo/middleware"
	"github.com/AhmadFauzanZW/wilopo-cargo/models"
	"github.com/AhmadFauzanZW/wilopo-cargo/utils"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("⚠️ .env file not found, using system environment")
	} else {
		log.Println("✅ .env file loaded and applied")
	}
	cfg := config.Load()

	if err := logging.InitLogger(cfg.Env == "release"); err != nil {
		log.Fatalf("❌ Ошибка инициализации логгера: %v", err)
	}
	defer logging.Sync()

	pool, err := database.New(context.Background(), cfg)
	if err != nil {
		log.Fatalf("❌ Ошибка подключения к БД: %v", err)
	}
	defer database.Close(pool)

	// Сторы: пул передаётся явно, без глобального состояния
	userStore := models.NewUserStore(pool)
	shipmentStore := models.NewShipmentStore(pool)
	documentStore := models.NewDocumentStore(pool)
	notificationStore := models.NewNotificationStore(pool)

	emailService := utils.NewEmailService(cfg)
	notifier := handlers.NewNotifier(cfg, notificationStore, userStore, emailService)

	loginRate := middleware.NewRateLimiter(10, 15*time.Minute)

	authHandler := handlers.NewAuthHandler(cfg, userStore, notifier, loginRate)
	shipmentHandler := handlers.NewShipmentHandler(shipmentStore, notifier)
	documentHandler := handlers.NewDocumentHandler(cfg, documentStore, shipmentStore, notifier)
	notificationHandler := handlers.NewNotificationHandler(notificationStore)
	analyticsHandler := handlers.NewAnalyticsHandler(shipmentStore)
	adminHandler := handlers.NewAdminHandler(userStore, shipmentStore)
	exportHandler := handlers.NewExportHandler(shipmentStore)

	if cfg.Env == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.Logger())
	r.SetTrustedProxies(cfg.TrustedProxies)
	r.Use(middleware.SetupCORS(cfg))

	// Статика загруженных документов
	r.Static("/uploads", cfg.UploadsDir)

	// Метрики Prometheus
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "OK", "message": "Wilopo Cargo API is running"})
	})

	// ========== ПУБЛИЧНЫЕ МАРШРУТЫ ==========
	r.POST("/api/auth/register", authHandler.Register)
	r.POST("/api/auth/login", authHandler.Login)
	r.POST("/api/auth/refresh", authHandler.Refresh)
	r.POST("/api/calculate-cost", handlers.CalculateCost)

	// ========== МАРШРУТЫ С АВТОРИЗАЦИЕЙ ==========
	api := r.Group("/api")
	api.Use(middleware.AuthMiddleware(cfg, userStore))
	{
		api.GET("/auth/me", authHandler.Me)

		api.GET("/shipments", shipmentHandler.List)
		api.POST("/shipments", shipmentHandler.Create)
		api.GET("/shipments/stats", shipmentHandler.Stats)
		api.GET("/shipments/:id", shipmentHandler.GetByID)
		api.PATCH("/shipments/:id/status", shipmentHandler.UpdateStatus)

		api.POST("/shipments/:id/documents", documentHandler.Upload)
		api.GET("/shipments/:id/documents", documentHandler.List)
		api.DELETE("/documents/:id", documentHandler.Delete)

		api.GET("/notifications", notificationHandler.List)
		api.PUT("/notifications/:id/read", notificationHandler.MarkAsRead)
		api.PUT("/notifications/read-all", notificationHandler.MarkAllAsRead)

		api.GET("/analytics/overview", analyticsHandler.Overview)
		api.GET("/analytics/trends", analyticsHandler.Trends)
		api.GET("/analytics/revenue", analyticsHandler.Revenue)

		api.GET("/export/shipments/pdf", exportHandler.ShipmentsPDF)
		api.GET("/export/shipments/excel", exportHandler.ShipmentsExcel)
		api.GET("/export/shipment/:id/pdf", exportHandler.SingleShipmentPDF)
		api.GET("/export/shipment/:id/excel", exportHandler.SingleShipmentExcel)

		// ========== АДМИН ==========
		admin := api.Group("/admin")
		admin.Use(middleware.AdminMiddleware(cfg))
		{
			admin.GET("/users", adminHandler.ListUsers)
			admin.PUT("/users/:id/role", adminHandler.UpdateUserRole)
			admin.GET("/stats", adminHandler.Stats)
			admin.DELETE("/shipments/:id", adminHandler.DeleteShipment)
		}
	}

	log.Printf("🚀 Сервер запущен на порту %s", cfg.Port)
	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatalf("❌ Ошибка запуска сервера: %v", err)
	}
}
