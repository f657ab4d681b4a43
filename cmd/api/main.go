package main

import (
	"context"
	"go-portfolio-backend/config"
	_ "go-portfolio-backend/docs" // Important for Swagger
	v1 "go-portfolio-backend/internal/delivery/http/v1"
	"go-portfolio-backend/internal/usecase"
	"go-portfolio-backend/pkg/email"
	"go-portfolio-backend/pkg/logger"
	"go-portfolio-backend/pkg/redis"
	"go-portfolio-backend/pkg/security"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
)

// @title           Portfolio Backend API
// @version         1.0
// @description     Contact form relay for the portfolio site.
// @host            localhost:8080
// @BasePath        /api
func main() {
	// 1. Load Config
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// 2. Setup Loggers
	logger.Init(!cfg.IsProduction())
	logger.Log.Info("Starting portfolio backend", "port", cfg.Port, "email_provider", cfg.Email.Provider)
	gin.SetMode(cfg.GinMode)

	env := "development"
	if cfg.IsProduction() {
		env = "production"
	}
	audit := security.InitSecurityLogger("portfolio-backend", env)
	defer func() { _ = audit.Sync() }()

	// 3. Setup Redis (rate limiting only; optional)
	if cfg.RedisURL != "" {
		if err := redis.Initialize(redis.Config{URL: cfg.RedisURL, Password: cfg.RedisPassword}); err != nil {
			logger.Log.Warn("Redis unavailable - rate limiting falls back to in-memory counters", "error", err)
		}
	}
	defer func() { _ = redis.Close() }()

	// 4. Setup Email Sender
	sender, err := email.NewSender(cfg.Email)
	if err != nil {
		logger.Log.Warn("Email sender not configured - contact form will be unavailable", "error", err)
		sender = nil
	}

	// 5. Setup UseCases
	contactUC := usecase.NewContactUsecase(sender, usecase.ContactConfig{
		Mailbox:        cfg.ContactEmailTo,
		ReplyToVisitor: cfg.ContactReplyToVisitor,
	}, audit)

	var redisCheck func(context.Context) error
	if cfg.RedisURL != "" {
		redisCheck = redis.HealthCheck
	}
	healthUC := usecase.NewHealthUsecase(sender != nil && cfg.ContactEmailTo != "", redisCheck)

	// 6. Setup Router
	router := v1.NewRouter(v1.RouterDeps{
		ContactUC: contactUC,
		HealthUC:  healthUC,
		Config:    cfg,
	})

	// 7. Start Server
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Log.Error("Listen failed", "error", err)
			os.Exit(1)
		}
	}()

	// Graceful Shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Log.Error("Server forced to shutdown", "error", err)
	}

	logger.Log.Info("Server exiting")
}
