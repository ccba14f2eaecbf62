package app

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"sms-relay-api/config"
	"sms-relay-api/db"
	"sms-relay-api/handler"
	"sms-relay-api/logger"
	"sms-relay-api/repository"
	"sms-relay-api/router"
	"sms-relay-api/service"
	"syscall"
	"time"
)

func Run() {
	config.LoadConfig(".")
	logger.Init()
	logger.Log.Info("Logger initialized")
	logger.Log.Info("Configuration loaded successfully")

	database, err := db.Connect()
	if err != nil {
		logger.Log.Fatalf("Error connecting to the database: %v", err)
	}
	defer database.Close()

	if err := db.RunMigrations("file://db/migrations"); err != nil {
		logger.Log.Fatalf("Error running database migrations: %v", err)
	}

	redisClient, err := db.ConnectRedis()
	if err != nil {
		logger.Log.Fatalf("Error connecting to Redis: %v", err)
	}
	defer redisClient.Close()

	// --- Wiring All Layers Together ---
	// Repositories, services and handlers are constructed here and passed
	// down explicitly; nothing holds package-level singletons.

	userRepo := repository.NewUserRepository(database)
	tokenRepo := repository.NewTokenRepository(database)
	lineRepo := repository.NewLineRepository(database)
	userLineRepo := repository.NewUserLineRepository(database)
	messageRepo := repository.NewMessageRepository(database)

	hub := service.NewHub()
	authService := service.NewAuthService(userRepo, tokenRepo)
	gatewayService := service.NewGatewayService(messageRepo, lineRepo, hub)
	messageService := service.NewMessageService(messageRepo, redisClient)
	lineService := service.NewLineService(lineRepo)
	userLineService := service.NewUserLineService(userLineRepo, lineRepo)
	userService := service.NewUserService(userRepo)

	authHandler := handler.NewAuthHandler(authService)
	gatewayHandler := handler.NewGatewayHandler(gatewayService)
	wsHandler := handler.NewWSHandler(authService, hub)
	messageHandler := handler.NewMessageHandler(messageService)
	lineHandler := handler.NewLineHandler(lineService, userLineService)
	userHandler := handler.NewUserHandler(userService)

	r := router.NewRouter(authService, authHandler, gatewayHandler, wsHandler, messageHandler, lineHandler, userHandler)

	// --- Start the Server with Graceful Shutdown ---
	port := config.AppConfig.Server.Port
	srv := &http.Server{
		Addr:    ":" + port,
		Handler: r,
	}

	go func() {
		logger.Log.Infof("Server starting on port :%s", port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Log.Fatalf("Failed to start server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Log.Warn("Shutdown signal received. Starting graceful shutdown...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Log.Fatalf("Server forced to shutdown: %v", err)
	}

	logger.Log.Info("Server exited properly")
}
