package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/cwhuang/valuescan/config"
	"github.com/cwhuang/valuescan/internal/cache"
	"github.com/cwhuang/valuescan/internal/database"
	"github.com/cwhuang/valuescan/internal/handlers"
	"github.com/cwhuang/valuescan/internal/repository"
	"github.com/cwhuang/valuescan/internal/services"
	"github.com/cwhuang/valuescan/internal/universe"
	"github.com/cwhuang/valuescan/internal/yahoo"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Create context for initialization
	ctx := context.Background()

	// Initialize database connection
	db, err := database.New(ctx, cfg.PGURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	// Initialize data provider client
	yfClient := yahoo.NewClientWithBaseURL(cfg.YFBaseURL)

	// Initialize metrics cache and universe provider
	metricsCache := cache.NewMetricsCache(cfg.DataDir)
	universes := universe.NewProvider(cfg.DataDir)

	// Initialize repository
	resultsRepo := repository.NewResultsRepository(db.Pool)
	if err := resultsRepo.EnsureSchema(ctx); err != nil {
		log.Fatalf("Failed to ensure database schema: %v", err)
	}

	// Initialize services
	scanSvc := services.NewScanService(yfClient, metricsCache, universes, resultsRepo)

	// Initialize handlers
	screeningHandler := handlers.NewScreeningHandler(scanSvc)

	// Setup Gin router
	router := gin.Default()

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// Screening routes
	router.POST("/api/screen", screeningHandler.Screen)
	router.GET("/api/screening/latest", screeningHandler.Latest)
	router.GET("/api/screening/runs", screeningHandler.ListRuns)

	// Create HTTP server
	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	// Start server in goroutine
	go func() {
		log.Printf("Starting server on port %s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	// Give outstanding requests 5 seconds to complete
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	fmt.Println("Server exited")
}
