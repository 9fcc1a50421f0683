// Package main is the entry point for the CRM backend API.
package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	httpSwagger "github.com/swaggo/http-swagger"
	"github.com/white/crm-backend/config"
	"github.com/white/crm-backend/internal/cache"
	"github.com/white/crm-backend/internal/events"
	"github.com/white/crm-backend/internal/handlers"
	"github.com/white/crm-backend/internal/repositories"
	"github.com/white/crm-backend/pkg/kafka"
	"github.com/white/crm-backend/pkg/mongodb"
)

func main() {
	// Load environment variables (ignore error in dev)
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// MongoDB
	mongoClient, err := mongodb.NewClient(mongodb.Config{
		URI:         cfg.MongoDB.URI,
		Database:    cfg.MongoDB.Database,
		MaxPoolSize: cfg.MongoDB.MaxPoolSize,
		MinPoolSize: cfg.MongoDB.MinPoolSize,
		MaxRetries:  cfg.MongoDB.MaxRetries,
	})
	if err != nil {
		log.Fatalf("Failed to connect to MongoDB: %v", err)
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = mongoClient.Disconnect(ctx)
	}()

	// Kafka producer (optional; events fall back to log-only)
	var producer *kafka.Producer
	if cfg.Kafka.Enabled {
		producer, err = kafka.NewProducer(cfg.Kafka)
		if err != nil {
			log.Printf("Kafka producer unavailable, events will be logged only: %v", err)
			producer = nil
		} else {
			defer producer.Close()
		}
	}
	publisher := events.NewPublisher(producer, cfg.Kafka.Topics.CRMEvents)

	// Redis dashboard cache (optional)
	var dashboardCache *cache.DashboardCache
	if cfg.Redis.Addr != "" {
		redisClient := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		dashboardCache = cache.NewDashboardCache(redisClient)
		log.Println("Dashboard cache enabled")
	}

	// Repositories
	accountRepo := repositories.NewMongoAccountRepository(mongoClient)
	contactRepo := repositories.NewMongoContactRepository(mongoClient)
	activityRepo := repositories.NewMongoActivityRepository(mongoClient)

	// Handlers
	accountHandler := handlers.NewAccountHandler(accountRepo, publisher)
	contactHandler := handlers.NewContactHandler(contactRepo, publisher)
	activityHandler := handlers.NewActivityHandler(activityRepo, publisher)
	insightsHandler := handlers.NewInsightsHandler(accountRepo, contactRepo, activityRepo, dashboardCache)
	transferHandler := handlers.NewTransferHandler(accountRepo, contactRepo, activityRepo, publisher, dashboardCache)
	healthHandler := handlers.NewHealthHandler(cfg.Server.Version, mongoClient)

	// Initialize router
	router := mux.NewRouter().StrictSlash(true)

	// Custom NotFoundHandler (for routes that don't exist)
	router.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"error":{"code":"NOT_FOUND","message":"Endpoint not found"}}`))
	})

	// Health check endpoint
	router.HandleFunc("/health", healthHandler.GetOverallHealth).Methods("GET", "OPTIONS")

	// Swagger ui endpoint - API documentation
	router.PathPrefix("/swagger").Handler(httpSwagger.Handler(
		httpSwagger.URL("http://localhost:"+cfg.Server.Port+"/swagger/doc.json"),
		httpSwagger.DeepLinking(true),
		httpSwagger.DocExpansion("none"),
		httpSwagger.DomID("swagger-ui"),
	)).Methods(http.MethodGet)

	// Accounts (search/filter before the {id} matcher)
	router.HandleFunc("/accounts/search/", accountHandler.Search).Methods("GET", "OPTIONS")
	router.HandleFunc("/accounts/filter/", accountHandler.Filter).Methods("GET", "OPTIONS")
	router.HandleFunc("/accounts/", accountHandler.Create).Methods("POST", "OPTIONS")
	router.HandleFunc("/accounts/", accountHandler.List).Methods("GET")
	router.HandleFunc("/accounts/{id}", accountHandler.Get).Methods("GET", "OPTIONS")
	router.HandleFunc("/accounts/{id}", accountHandler.Update).Methods("PUT")
	router.HandleFunc("/accounts/{id}", accountHandler.Delete).Methods("DELETE")

	// Contacts
	router.HandleFunc("/contacts/search/", contactHandler.Search).Methods("GET", "OPTIONS")
	router.HandleFunc("/contacts/filter/", contactHandler.Filter).Methods("GET", "OPTIONS")
	router.HandleFunc("/contacts/", contactHandler.Create).Methods("POST", "OPTIONS")
	router.HandleFunc("/contacts/", contactHandler.List).Methods("GET")
	router.HandleFunc("/contacts/{id}", contactHandler.Get).Methods("GET", "OPTIONS")
	router.HandleFunc("/contacts/{id}", contactHandler.Update).Methods("PUT")
	router.HandleFunc("/contacts/{id}", contactHandler.Delete).Methods("DELETE")

	// Activities
	router.HandleFunc("/activities/", activityHandler.Create).Methods("POST", "OPTIONS")
	router.HandleFunc("/activities/", activityHandler.List).Methods("GET")
	router.HandleFunc("/activities/{id}", activityHandler.Get).Methods("GET", "OPTIONS")
	router.HandleFunc("/activities/{id}", activityHandler.Update).Methods("PUT")
	router.HandleFunc("/activities/{id}", activityHandler.Delete).Methods("DELETE")

	// Insights
	router.HandleFunc("/followups/", insightsHandler.GetFollowUps).Methods("GET", "OPTIONS")
	router.HandleFunc("/dashboard/", insightsHandler.GetDashboard).Methods("GET", "OPTIONS")

	// Bulk transfer
	router.HandleFunc("/import/accounts/", transferHandler.ImportAccounts).Methods("POST", "OPTIONS")
	router.HandleFunc("/import/contacts/", transferHandler.ImportContacts).Methods("POST", "OPTIONS")
	router.HandleFunc("/export/accounts/", transferHandler.ExportAccounts).Methods("GET", "OPTIONS")
	router.HandleFunc("/export/contacts/", transferHandler.ExportContacts).Methods("GET", "OPTIONS")
	router.HandleFunc("/export/activities/", transferHandler.ExportActivities).Methods("GET", "OPTIONS")

	// HTTP server configuration
	srv := &http.Server{
		Addr:         ":" + getEnvWithDefault("PORT", cfg.Server.Port),
		Handler:      corsMiddleware(router),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server
	go func() {
		log.Printf("Server running on %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server stopped")
}

// getEnvWithDefault returns an environment variable or a default value.
func getEnvWithDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// corsMiddleware adds CORS headers to responses.
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")

		allowedOrigins := []string{
			"http://localhost:3000",
			"http://localhost:5173",
		}

		for _, allowed := range allowedOrigins {
			if origin == allowed {
				w.Header().Set("Access-Control-Allow-Origin", origin)
				break
			}
		}

		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		w.Header().Set("Access-Control-Allow-Credentials", "true")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}
