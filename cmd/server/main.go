package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"arisefit/internal/chat"
	"arisefit/internal/config"
	"arisefit/internal/database"
	"arisefit/internal/handlers"
	"arisefit/internal/repository"
	"arisefit/internal/security"
	"arisefit/internal/service"
)

func main() {
	cfg := config.Load()

	db, err := database.Open(cfg.DatabaseType, cfg.DatabasePath, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	log.Printf("Database connection established (type: %s)", cfg.DatabaseType)

	if err := db.RunMigrations(cfg.MigrationsPath); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	policy, err := config.LoadRewardPolicy(cfg.RewardPolicyPath)
	if err != nil {
		log.Fatalf("Failed to load reward policy: %v", err)
	}

	// Repositories
	userRepo := repository.NewUserRepository(db)
	attributeRepo := repository.NewAttributeRepository(db)
	activityRepo := repository.NewActivityRepository(db)
	unlockRepo := repository.NewUnlockRepository(db)
	messageRepo := repository.NewMessageRepository(db)

	// Chat hub
	hub := chat.NewHub(messageRepo)
	go hub.Run()
	defer hub.Stop()

	// Services
	leaderboardService := service.NewLeaderboardService(cfg.RedisAddr, cfg.RedisPassword, userRepo)
	defer leaderboardService.Close()

	var emailService *service.EmailService
	if cfg.EmailEnabled {
		emailService, err = service.NewEmailService(cfg.AWSRegion, cfg.EmailFrom, cfg.EmailTo)
		if err != nil {
			log.Fatalf("Failed to initialize email service: %v", err)
		}
	} else {
		emailService, _ = service.NewEmailService("", "", "")
	}

	notifier := service.NewEventNotifier(hub, emailService, leaderboardService)
	progressionService := service.NewProgressionService(db, userRepo, attributeRepo, activityRepo, unlockRepo, notifier)
	activityService := service.NewActivityService(userRepo, activityRepo, progressionService, policy)

	tokens := security.NewTokenIssuer(cfg.JWTSecret, cfg.JWTIssuer, cfg.TokenTTL)
	googleCfg := service.NewGoogleOAuthConfig(cfg.GoogleClientID, cfg.GoogleClientSecret, cfg.GoogleRedirectURL)
	authService := service.NewAuthService(userRepo, tokens, googleCfg)

	limiter := security.NewRateLimiter(cfg.RateLimitPerMin, time.Minute)

	router := handlers.NewRouter(handlers.Services{
		Auth:        authService,
		Progression: progressionService,
		Activity:    activityService,
		Leaderboard: leaderboardService,
		Messages:    messageRepo,
		Hub:         hub,
		Limiter:     limiter,
	})

	server := &http.Server{
		Addr:         ":" + cfg.ServerPort,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("Server listening on port %s", cfg.ServerPort)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	log.Println("Shutting down...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		log.Printf("Forced shutdown: %v", err)
	}
	log.Println("Server stopped")
}
