package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"time"

	gorillaHandlers "github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"dailyByteAPI/handlers"
	"dailyByteAPI/internal/notification"
	"dailyByteAPI/middleware"
	"dailyByteAPI/services"
)

var (
	dbPool              *pgxpool.Pool
	userService         *services.UserService
	byteService         *services.ByteService
	streakService       *services.StreakService
	bookmarkService     *services.BookmarkService
	notificationService *services.NotificationService
	fcmService          *notification.FCMService
)

func init() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}

	if os.Getenv("JWT_SECRET") == "" {
		log.Fatal("JWT_SECRET environment variable is not set")
	}

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		log.Fatal("DATABASE_URL environment variable is not set")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	poolConfig, err := pgxpool.ParseConfig(dbURL)
	if err != nil {
		log.Fatal("Failed to parse database URL:", err)
	}

	poolConfig.MaxConns = 25
	poolConfig.MinConns = 5
	poolConfig.MaxConnLifetime = time.Hour
	poolConfig.MaxConnIdleTime = 30 * time.Minute
	poolConfig.HealthCheckPeriod = time.Minute

	dbPool, err = pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		log.Fatal("Failed to create connection pool:", err)
	}

	if err := dbPool.Ping(ctx); err != nil {
		log.Fatal("Failed to ping database:", err)
	}

	log.Println("Successfully connected to Postgres")

	userService = services.NewUserService(dbPool)
	byteService = services.NewByteService(dbPool)
	streakService = services.NewStreakService(dbPool)
	bookmarkService = services.NewBookmarkService(dbPool)
	notificationService = services.NewNotificationService(dbPool)

	fcmService, err = notification.NewFCMService("./serviceAccountKey.json")
	if err != nil {
		log.Printf("Warning: Could not initialize FCM, push reminders disabled: %v", err)
	} else {
		notificationService.SetPushProvider(fcmService)
		log.Println("FCM Push Provider initialized successfully")
	}

	middleware.InitPrometheus()
}

func main() {
	defer func() {
		log.Println("Closing database connection pool...")
		dbPool.Close()
	}()

	userHandler := handlers.NewUserHandler(userService)
	byteHandler := handlers.NewByteHandler(byteService)
	streakHandler := handlers.NewStreakHandler(streakService)
	bookmarkHandler := handlers.NewBookmarkHandler(bookmarkService)
	notificationHandler := handlers.NewNotificationHandler(notificationService)

	workerCtx, workerCancel := context.WithCancel(context.Background())
	defer workerCancel()
	notificationService.StartReminderWorker(workerCtx)

	r := mux.NewRouter()

	go middleware.CleanupVisitors()

	r.Use(middleware.RateLimitMiddleware)
	r.Use(middleware.MonitorMiddleware)

	r.Handle("/metrics", middleware.BasicAuthMiddleware(promhttp.Handler()))

	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		if err := dbPool.Ping(ctx); err != nil {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusServiceUnavailable)
			w.Write([]byte(`{"status": "unhealthy", "error": "database connection failed"}`))
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status": "healthy", "service": "dailybyte-api"}`))
	}).Methods("GET")

	// -------------------------------------------------------------------------
	// API V1 SUBROUTER
	// -------------------------------------------------------------------------
	api := r.PathPrefix("/api/v1").Subrouter()

	// Public byte routes. /byte/today and /byte/category must be
	// registered before /byte/{id} so mux does not swallow them as ids.
	api.HandleFunc("/byte/today", byteHandler.GetToday).Methods("GET")
	api.HandleFunc("/byte/category", byteHandler.GetCategories).Methods("GET")
	api.HandleFunc("/byte/category/{categoryName}", byteHandler.GetBytesByCategory).Methods("GET")
	api.HandleFunc("/byte/{id}", byteHandler.GetByteByID).Methods("GET")
	api.HandleFunc("/byte", byteHandler.ListBytes).Methods("GET")
	api.HandleFunc("/byte", byteHandler.CreateByte).Methods("POST")

	// Public auth routes
	api.HandleFunc("/users", userHandler.Register).Methods("POST")
	api.HandleFunc("/users/login", userHandler.Login).Methods("POST")
	api.HandleFunc("/users/google", userHandler.GoogleLogin).Methods("POST")

	// Bookmark existence check allows anonymous callers (they get false)
	check := api.PathPrefix("/bookmarks/{byteId}/check").Subrouter()
	check.Use(middleware.OptionalAuthMiddleware)
	check.HandleFunc("", bookmarkHandler.CheckBookmark).Methods("GET")

	// -------------------------------------------------------------------------
	// PROTECTED ROUTES (REQUIRE AUTH HEADER)
	// -------------------------------------------------------------------------
	protected := api.PathPrefix("").Subrouter()
	protected.Use(middleware.AuthMiddleware)

	protected.HandleFunc("/users/profile", userHandler.GetProfile).Methods("GET")

	protected.HandleFunc("/streaks", streakHandler.GetStreakInfo).Methods("GET")
	protected.HandleFunc("/streaks/update", streakHandler.UpdateStreak).Methods("PUT")

	protected.HandleFunc("/bookmarks", bookmarkHandler.AddBookmark).Methods("POST")
	protected.HandleFunc("/bookmarks", bookmarkHandler.ListBookmarks).Methods("GET")
	protected.HandleFunc("/bookmarks/{byteId}", bookmarkHandler.RemoveBookmark).Methods("DELETE")

	protected.HandleFunc("/notifications/register-device", notificationHandler.RegisterDevice).Methods("POST")

	// CORS configuration
	corsHandler := gorillaHandlers.CORS(
		gorillaHandlers.AllowedOrigins([]string{"*"}),
		gorillaHandlers.AllowedMethods([]string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}),
		gorillaHandlers.AllowedHeaders([]string{"Content-Type", "Authorization"}),
		gorillaHandlers.ExposedHeaders([]string{"Content-Length"}),
		gorillaHandlers.AllowCredentials(),
	)

	port := os.Getenv("PORT")
	if port == "" {
		port = "5001"
	}
	port = ":" + port

	server := http.Server{
		Addr:         port,
		Handler:      corsHandler(r),
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		log.Printf("Starting server on port %s", port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Error starting server:", err)
		}
	}()

	// Graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt)

	sig := <-sigChan
	log.Println("Got signal:", sig)

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server shutdown error: %v", err)
	}

	log.Println("Server shutdown complete")
}
