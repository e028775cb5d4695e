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
	"github.com/pennybook/backend/docs"
	"github.com/pennybook/backend/internal/cache"
	"github.com/pennybook/backend/internal/database"
	"github.com/pennybook/backend/internal/handlers"
	mW "github.com/pennybook/backend/internal/middleware"
	"github.com/pennybook/backend/internal/services"
	"github.com/pennybook/backend/internal/store"
	"github.com/spf13/viper"
	httpSwagger "github.com/swaggo/http-swagger"
)

// @title Pennybook API
// @version 1.0
// @description Personal-finance bookkeeping API
// @host localhost:8080
// @BasePath /
// @schemes http https

func main() {
	// Initialize config
	viper.SetConfigFile(".env") // explicitly point to .env file
	viper.AutomaticEnv()        // allow environment variables to override .env

	viper.BindEnv("env", "ENV")
	viper.BindEnv("mongo.uri", "MONGO_URI")
	viper.BindEnv("mongo.database", "MONGO_DATABASE")

	viper.BindEnv("redis.host", "REDIS_HOST")
	viper.BindEnv("redis.port", "REDIS_PORT")
	viper.BindEnv("redis.password", "REDIS_PASSWORD")
	viper.BindEnv("redis.db", "REDIS_DB")

	viper.BindEnv("jwt.secret_key", "JWT_SECRET_KEY")
	viper.BindEnv("argon2.time", "ARGON2_TIME")
	viper.BindEnv("argon2.memory", "ARGON2_MEMORY")
	viper.BindEnv("argon2.threads", "ARGON2_THREADS")
	viper.BindEnv("argon2.key_length", "ARGON2_KEY_LENGTH")
	viper.BindEnv("argon2.salt_length", "ARGON2_SALT_LENGTH")

	viper.SetDefault("jwt.secret_key", "defaultsecretkey")
	viper.SetDefault("argon2.time", 1)
	viper.SetDefault("argon2.memory", 64*1024)
	viper.SetDefault("argon2.threads", 4)
	viper.SetDefault("argon2.key_length", 32)
	viper.SetDefault("argon2.salt_length", 16)

	if err := viper.ReadInConfig(); err != nil {
		log.Printf("Config file not found, using defaults: %v", err)
	}

	// Initialize Swagger docs
	docs.SwaggerInfo.Title = "Pennybook API"
	docs.SwaggerInfo.Description = "Personal-finance bookkeeping API"
	docs.SwaggerInfo.Version = "1.0"
	docs.SwaggerInfo.Host = "localhost:8080"
	docs.SwaggerInfo.BasePath = "/"
	docs.SwaggerInfo.Schemes = []string{"http", "https"}

	// Initialize storage
	mongoClient, db := database.InitDatabase()
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		mongoClient.Disconnect(ctx)
	}()

	// Summary cache: redis when reachable, in-process otherwise.
	var summaryCache cache.Cache
	redisClient := database.InitRedis()
	if redisClient != nil {
		defer redisClient.Close()
		summaryCache = cache.NewRedisCache(redisClient)
	} else {
		summaryCache = cache.NewMemoryCache()
	}

	// Initialize services
	userStore := store.NewUserStore(db)
	transactionStore := store.NewTransactionStore(db)
	budgetStore := store.NewBudgetStore(db)

	userService := services.NewUserService(userStore)
	transactionService := services.NewTransactionService(transactionStore, summaryCache)
	budgetService := services.NewBudgetService(budgetStore)

	userHandler := handlers.NewUserHandler(userService)
	transactionHandler := handlers.NewTransactionHandler(transactionService)
	budgetHandler := handlers.NewBudgetHandler(budgetService)

	// Setup router
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RealIP)
	r.Use(middleware.Timeout(60 * time.Second))

	// CORS
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"https://*", "http://*"},
		AllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           86400,
	}))

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
	})

	// Swagger documentation
	r.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL("http://localhost:8080/swagger/doc.json"),
	))

	// User routes (no auth)
	r.Route("/users", func(r chi.Router) {
		r.Post("/create", userHandler.Create)
		r.Post("/signinUser", userHandler.SignIn)
		r.Get("/{id}", userHandler.GetByID)
	})

	// Transaction routes: open, but an authenticated caller's identity
	// scopes creates, lists and summaries.
	r.Route("/transactions", func(r chi.Router) {
		r.Use(mW.OptionalAuth)

		r.Post("/", transactionHandler.Create)
		r.Get("/", transactionHandler.List)
		r.Get("/summary/all", transactionHandler.Summary)
		r.Get("/{id}", transactionHandler.GetByID)
		r.Patch("/{id}", transactionHandler.Update)
		r.Delete("/{id}", transactionHandler.Delete)
	})

	// Budget routes (auth required)
	r.Route("/budgets", func(r chi.Router) {
		r.Use(mW.RequireAuth)

		r.Post("/", budgetHandler.Create)
		r.Get("/", budgetHandler.List)
		r.Get("/{id}", budgetHandler.GetByID)
		r.Patch("/{id}", budgetHandler.Update)
		r.Delete("/{id}", budgetHandler.Delete)
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
