package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"qbank/internal/cache"
	"qbank/internal/config"
	"qbank/internal/repository"
	"qbank/internal/service"
	"qbank/internal/transport/rest"
	"qbank/internal/transport/ws"
)

// @title Question Bank Merge API
// @version 1.0
// @description Upload, preview and commit question-bank merges
// @host localhost:8080
// @BasePath /v1
func main() {
	log.Println("started")
	ctx := context.Background()

	cfg := config.Load()
	log.Printf("Merge config:")
	log.Printf("  Renumber threshold: %.2f", cfg.RenumberThreshold)

	// MongoDB connection
	mongoClient, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		log.Fatal("Failed to connect to MongoDB:", err)
	}
	defer mongoClient.Disconnect(ctx)

	// Ping MongoDB
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := mongoClient.Ping(pingCtx, nil); err != nil {
		log.Fatal("Failed to ping MongoDB:", err)
	}
	log.Println("Connected to MongoDB")

	db := mongoClient.Database(cfg.MongoDatabase)

	// Redis connection
	redisAddr := cfg.RedisAddr
	// Remove redis:// prefix if present
	if len(redisAddr) > 8 && redisAddr[:8] == "redis://" {
		redisAddr = redisAddr[8:]
	}

	rdb := redis.NewClient(&redis.Options{
		Addr: redisAddr,
	})
	defer rdb.Close()

	// Ping Redis
	if _, err := rdb.Ping(ctx).Result(); err != nil {
		log.Fatal("Failed to ping Redis:", err)
	}
	log.Println("Connected to Redis")

	// Initialize WebSocket hub
	wsHub := ws.NewHub()
	log.Println("WebSocket hub started")

	// Initialize repositories and caches
	bankRepo := repository.NewBankRepo(db)
	workflowCache := cache.NewWorkflowCache(rdb)

	// Initialize services
	authSvc := service.NewAuthService()
	bankSvc := service.NewBankService(bankRepo)
	normalizeSvc := service.NewNormalizeService()
	validateSvc := service.NewValidateService()
	conflictSvc := service.NewConflictService()
	renumberSvc := service.NewRenumberService(cfg.RenumberThreshold)
	mergeSvc := service.NewMergeService(renumberSvc)
	cleanupSvc := service.NewCleanupService()
	exportSvc := service.NewExportService()
	workflowSvc := service.NewWorkflowService(workflowCache, normalizeSvc, validateSvc, conflictSvc, renumberSvc, mergeSvc)

	// Inject broadcaster (wsHub implements service.Broadcaster)
	workflowSvc.SetBroadcaster(wsHub)

	// Create router with container
	container := &rest.Container{
		AuthService:     authSvc,
		BankService:     bankSvc,
		WorkflowService: workflowSvc,
		CleanupService:  cleanupSvc,
		ExportService:   exportSvc,
		WSHub:           wsHub,
	}

	router := rest.NewRouter(container)

	// Start server
	srv := &http.Server{
		Addr:    ":" + cfg.HTTPPort,
		Handler: router,
	}

	go func() {
		log.Printf("Server starting on :%s", cfg.HTTPPort)
		log.Println("Endpoints:")
		log.Println("  POST /v1/auth/login")
		log.Println("  POST/GET /v1/banks")
		log.Println("  POST /v1/banks/{bankId}/upload")
		log.Println("  POST /v1/banks/{bankId}/preview")
		log.Println("  POST /v1/banks/{bankId}/commit")
		log.Println("  GET  /v1/banks/{bankId}/export")
		log.Println("  WS  /v1/ws/banks/{bankId}")

		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("ListenAndServe:", err)
		}
	}()

	// Wait for interrupt
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	log.Println("Server exited")
}
