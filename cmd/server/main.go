package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/quizladder/backend/internal/auth"
	"github.com/quizladder/backend/internal/config"
	"github.com/quizladder/backend/internal/database"
	"github.com/quizladder/backend/internal/game"
	"github.com/quizladder/backend/internal/generator"
	"github.com/quizladder/backend/internal/leaderboard"
	"github.com/quizladder/backend/internal/middleware"
	"github.com/quizladder/backend/internal/progress"
	"github.com/quizladder/backend/internal/questions"
	"github.com/rs/cors"
)

func main() {
	cfg := config.Load()

	// Initialize database
	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	if err := db.Migrate(); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	if err := db.SeedLevels(context.Background()); err != nil {
		log.Fatalf("Failed to seed levels: %v", err)
	}

	var cache leaderboard.Cache
	if cfg.RedisURL != "" {
		redisCache, err := leaderboard.NewRedisCache(context.Background(), cfg.RedisURL, cfg.LeaderboardCacheTTL)
		if err != nil {
			log.Printf("[leaderboard] cache disabled: %v", err)
		} else {
			defer redisCache.Close()
			cache = redisCache
		}
	}

	// Initialize services and handlers
	tokens := auth.NewTokens(cfg.AdminTokenSecret, cfg.AdminTokenTTL)
	authHandler, err := auth.NewHandler(cfg, tokens)
	if err != nil {
		log.Fatalf("Failed to configure admin auth: %v", err)
	}

	progressService := progress.NewService(db)
	leaderboardService := leaderboard.NewService(db, cache)

	progressHandler := progress.NewHandler(progressService)
	leaderboardHandler := leaderboard.NewHandler(leaderboardService)
	gameHandler := game.NewHandler(game.NewService(db, progressService, leaderboardService))
	questionsHandler := questions.NewHandler(questions.NewService(db, generator.NewFromConfig(cfg)))

	// Setup router
	r := mux.NewRouter()
	r.Use(middleware.Recover, middleware.Logging)
	api := r.PathPrefix("/api").Subrouter()

	// Public routes
	api.HandleFunc("/admin/login", authHandler.Login).Methods("POST")
	api.HandleFunc("/admin/verify", authHandler.Verify).Methods("GET", "POST")
	api.HandleFunc("/admin/logout", authHandler.Logout).Methods("POST")

	api.HandleFunc("/progress/{deviceId}", progressHandler.GetProgress).Methods("GET")
	api.HandleFunc("/levels", progressHandler.ListLevels).Methods("GET")

	api.HandleFunc("/game/start", gameHandler.Start).Methods("POST")
	api.HandleFunc("/game/submit", gameHandler.Submit).Methods("POST")
	api.HandleFunc("/game/complete", gameHandler.Complete).Methods("POST")

	api.HandleFunc("/leaderboard", leaderboardHandler.Get).Methods("GET")

	// Admin routes
	admin := api.PathPrefix("/questions").Subrouter()
	admin.Use(middleware.RequireAdmin(tokens))
	admin.HandleFunc("", questionsHandler.List).Methods("GET")
	admin.HandleFunc("", questionsHandler.Create).Methods("POST")
	admin.HandleFunc("/generate", questionsHandler.Generate).Methods("POST")
	admin.HandleFunc("/{id:[0-9]+}", questionsHandler.Update).Methods("PUT")
	admin.HandleFunc("/{id:[0-9]+}", questionsHandler.Delete).Methods("DELETE")

	// Health check
	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if err := db.PingContext(r.Context()); err != nil {
			w.WriteHeader(http.StatusServiceUnavailable)
			w.Write([]byte(`{"status":"unavailable"}`))
			return
		}
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	}).Methods("GET")

	// CORS
	c := cors.New(cors.Options{
		AllowedOrigins:   cfg.CORSAllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		AllowCredentials: false,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.ServerPort,
		Handler:           c.Handler(r),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Printf("Server starting on :%s (env: %s)", cfg.ServerPort, cfg.Environment)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	log.Println("Shutting down...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("Shutdown error: %v", err)
	}
}
