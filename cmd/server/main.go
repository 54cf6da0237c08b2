package main

import (
	"context"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"branchbot/internal/cache"
	"branchbot/internal/config"
	"branchbot/internal/repository"
	"branchbot/internal/service"
	"branchbot/internal/transport/rest"
	"branchbot/internal/transport/ws"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, reading environment directly")
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg := config.Load()
	ctx := context.Background()

	// MongoDB connection
	mongoClient, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		log.Fatal("Failed to connect to MongoDB:", err)
	}
	defer mongoClient.Disconnect(ctx)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := mongoClient.Ping(pingCtx, nil); err != nil {
		log.Fatal("Failed to ping MongoDB:", err)
	}
	logger.Info("connected to MongoDB", "database", cfg.MongoDatabase)

	db := mongoClient.Database(cfg.MongoDatabase)

	// Redis connection
	redisAddr := strings.TrimPrefix(cfg.RedisAddr, "redis://")
	rdb := redis.NewClient(&redis.Options{Addr: redisAddr})
	defer rdb.Close()

	if _, err := rdb.Ping(ctx).Result(); err != nil {
		log.Fatal("Failed to ping Redis:", err)
	}
	logger.Info("connected to Redis", "addr", redisAddr)

	// WebSocket hub
	wsHub := ws.NewHub()

	// Repositories
	surveyRepo := repository.NewSurveyRepo(db)
	ruleRepo := repository.NewRuleRepo(db)
	responseRepo := repository.NewResponseRepo(db)

	// Caches
	stateCache := cache.NewStateCache(rdb)
	surveyCache := cache.NewSurveyCache(rdb)

	// Services
	authSvc := service.NewAuthService(cfg)
	surveySvc := service.NewSurveyService(surveyRepo, ruleRepo, surveyCache)
	ruleSvc := service.NewRuleService(surveySvc, ruleRepo, surveyCache, logger)
	navSvc := service.NewNavigationService(surveyRepo, ruleRepo, responseRepo, stateCache, surveyCache, authSvc, logger)

	// wsHub implements service.Broadcaster
	navSvc.SetBroadcaster(wsHub)

	container := &rest.Container{
		AuthService:       authSvc,
		SurveyService:     surveySvc,
		RuleService:       ruleSvc,
		NavigationService: navSvc,
		WSHub:             wsHub,
	}

	router := rest.NewRouter(container)

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		logger.Info("server starting", "port", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("ListenAndServe:", err)
		}
	}()

	// Wait for interrupt
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down server")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	logger.Info("server exited")
}
