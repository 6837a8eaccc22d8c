package rest

import (
	"net/http"
	"os"

	"github.com/gorilla/mux"

	"qbank/internal/service"
	"qbank/internal/transport/rest/handler"
	"qbank/internal/transport/rest/middleware"
	"qbank/internal/transport/ws"
)

// Container holds all dependencies for the router
type Container struct {
	AuthService     *service.AuthService
	BankService     *service.BankService
	WorkflowService *service.WorkflowService
	CleanupService  *service.CleanupService
	ExportService   *service.ExportService
	WSHub           *ws.Hub
}

// NewRouter creates the API router with all endpoints
func NewRouter(c *Container) http.Handler {
	r := mux.NewRouter()

	// Initialize handlers
	authHandler := handler.NewAuthHandler(c.AuthService)
	bankHandler := handler.NewBankHandler(c.BankService)
	mergeHandler := handler.NewMergeHandler(c.WorkflowService, c.BankService, c.CleanupService)
	exportHandler := handler.NewExportHandler(c.BankService, c.ExportService)
	wsHandler := ws.NewHandler(c.WSHub, c.AuthService)

	// Initialize middleware
	authMW := middleware.NewAuthMiddleware(c.AuthService)

	// CORS middleware (apply first)
	r.Use(corsMiddleware)

	// API v1 routes
	v1 := r.PathPrefix("/v1").Subrouter()

	// Public routes
	v1.HandleFunc("/auth/login", authHandler.Login).Methods("POST", "OPTIONS")

	// WebSocket routes (public with token in query param)
	v1.HandleFunc("/ws/banks/{bankId}", wsHandler.BankWS).Methods("GET")

	// Health check
	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	}).Methods("GET")

	// Host routes (require host auth)
	hostRoutes := v1.NewRoute().Subrouter()
	hostRoutes.Use(authMW.RequireHost)

	hostRoutes.HandleFunc("/banks", bankHandler.Create).Methods("POST", "OPTIONS")
	hostRoutes.HandleFunc("/banks", bankHandler.List).Methods("GET", "OPTIONS")
	hostRoutes.HandleFunc("/banks/{bankId}", bankHandler.Get).Methods("GET", "OPTIONS")
	hostRoutes.HandleFunc("/banks/{bankId}", bankHandler.Delete).Methods("DELETE", "OPTIONS")

	// Merge workflow routes
	hostRoutes.HandleFunc("/banks/{bankId}/upload", mergeHandler.Upload).Methods("POST", "OPTIONS")
	hostRoutes.HandleFunc("/banks/{bankId}/preview", mergeHandler.Preview).Methods("POST", "OPTIONS")
	hostRoutes.HandleFunc("/banks/{bankId}/commit", mergeHandler.Commit).Methods("POST", "OPTIONS")
	hostRoutes.HandleFunc("/banks/{bankId}/reset", mergeHandler.Reset).Methods("POST", "OPTIONS")

	// Export routes
	hostRoutes.HandleFunc("/banks/{bankId}/export", exportHandler.Export).Methods("GET", "OPTIONS")

	return r
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		allowedOrigins := os.Getenv("CORS_ALLOWED_ORIGINS")
		if allowedOrigins == "" {
			allowedOrigins = "*"
		}

		allowedMethods := os.Getenv("CORS_ALLOWED_METHODS")
		if allowedMethods == "" {
			allowedMethods = "GET, POST, PUT, DELETE, OPTIONS"
		}

		allowedHeaders := os.Getenv("CORS_ALLOWED_HEADERS")
		if allowedHeaders == "" {
			allowedHeaders = "Content-Type, Authorization"
		}

		w.Header().Set("Access-Control-Allow-Origin", allowedOrigins)
		w.Header().Set("Access-Control-Allow-Methods", allowedMethods)
		w.Header().Set("Access-Control-Allow-Headers", allowedHeaders)

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}
