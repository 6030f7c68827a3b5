package main

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/goldstock/backend/docs"
	"github.com/goldstock/backend/internal/database"
	mW "github.com/goldstock/backend/internal/middleware"
	"github.com/goldstock/backend/internal/services"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
	httpSwagger "github.com/swaggo/http-swagger"
)

// @title Gold Stock Backend API
// @version 1.0
// @description API for gold inventory ledgers and conversion tracking
// @host localhost:8080
// @BasePath /api/v1
// @schemes http https

func main() {
	// Initialize config
	viper.SetConfigFile(".env") // explicitly point to .env file
	viper.AutomaticEnv()        // allow environment variables to override .env

	viper.BindEnv("database.host", "DATABASE_HOST")
	viper.BindEnv("database.port", "DATABASE_PORT")
	viper.BindEnv("database.user", "DATABASE_USER")
	viper.BindEnv("database.password", "DATABASE_PASSWORD")
	viper.BindEnv("database.name", "DATABASE_NAME")
	viper.BindEnv("database.ssl_mode", "DATABASE_SSL_MODE")

	viper.BindEnv("redis.host", "REDIS_HOST")
	viper.BindEnv("redis.port", "REDIS_PORT")
	viper.BindEnv("redis.password", "REDIS_PASSWORD")
	viper.BindEnv("redis.db", "REDIS_DB")

	if err := viper.ReadInConfig(); err != nil {
		log.Printf("Config file not found, using defaults: %v", err)
	}

	// Gold quantities serialize as JSON numbers, not strings
	decimal.MarshalJSONWithoutQuotes = true

	// Initialize Swagger docs
	docs.SwaggerInfo.Title = "Gold Stock Backend API"
	docs.SwaggerInfo.Description = "API for gold inventory ledgers and conversion tracking"
	docs.SwaggerInfo.Version = "1.0"
	docs.SwaggerInfo.Host = "localhost:8080"
	docs.SwaggerInfo.BasePath = "/api/v1"
	docs.SwaggerInfo.Schemes = []string{"http", "https"}

	// Initialize services
	db := database.InitDatabase()
	defer db.Close()

	if err := database.RunMigrations(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	redisClient := database.InitRedis()
	if redisClient != nil {
		defer redisClient.Close()
	}

	companyService := services.NewCompanyService(db)
	shopService := services.NewShopService(db)
	stockService := services.NewStockService(db)
	companyStockService := services.NewCompanyStockService(db)
	companySaleService := services.NewCompanySaleService(db)
	dashboardService := services.NewDashboardService(db, redisClient)
	reportService := services.NewReportService(dashboardService)

	// Setup router
	r := chi.NewRouter()

	// Middleware
	r.Use(mW.SecurityHeaders)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RealIP)
	r.Use(middleware.Timeout(60 * time.Second))

	// CORS
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"https://*", "http://*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "Access-Control-Allow-Origin"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           86400,
	}))

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]string{"status": "healthy"})
	})

	// Prometheus metrics
	r.Handle("/metrics", promhttp.Handler())

	// Swagger documentation
	r.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL("http://localhost:8080/swagger/doc.json"),
	))

	// API routes
	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/companies", companyService.AddCompany)
		r.Get("/companies", companyService.GetCompanies)
		r.Put("/companies/{id}", companyService.UpdateCompany)
		r.Delete("/companies/{id}", companyService.DeleteCompany)

		r.Post("/shops", shopService.AddShop)
		r.Get("/shops", shopService.GetShops)
		r.Put("/shops/{id}", shopService.UpdateShop)
		r.Delete("/shops/{id}", shopService.DeleteShop)

		r.Post("/shop-stock", stockService.AddShopStock)
		r.Get("/shop-stock", stockService.GetShopStock)
		r.Get("/shop-stock/last-closing", stockService.GetLastClosing)
		r.Put("/shop-stock/{id}", stockService.UpdateShopStock)
		r.Delete("/shop-stock/{id}", stockService.DeleteShopStock)

		r.Post("/company-stock", companyStockService.AddCompanyStock)
		r.Get("/company-stock", companyStockService.GetCompanyStock)
		r.Put("/company-stock/{id}", companyStockService.UpdateCompanyStock)
		r.Delete("/company-stock/{id}", companyStockService.DeleteCompanyStock)
		r.Put("/company-stock/{id}/approve", companyStockService.ApproveCompanyStock)
		r.Put("/company-stock/{id}/reject", companyStockService.RejectCompanyStock)
		r.Get("/home-stock", companyStockService.GetHomeStock)

		r.Post("/company-sale", companySaleService.AddCompanySale)
		r.Get("/company-sale", companySaleService.GetCompanySales)
		r.Put("/company-sale/{id}", companySaleService.UpdateCompanySale)
		r.Delete("/company-sale/{id}", companySaleService.DeleteCompanySale)

		r.Get("/dashboard", dashboardService.GetDashboard)
		r.Get("/dashboard/company/{id}", dashboardService.GetCompanyDashboard)
		r.Get("/dashboard/filter", dashboardService.FilterDashboard)

		r.Get("/reports/dashboard.xlsx", reportService.ExportDashboard)
	})

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	// Start server
	server := &http.Server{
		Addr:         ":" + port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown
	go func() {
		log.Printf("Server starting on :%s", port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Server shutting down...")
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	log.Println("Server stopped")
}
