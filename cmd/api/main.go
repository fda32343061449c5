package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/forkful/backend/config"
	"github.com/forkful/backend/internal/api"
	"github.com/forkful/backend/internal/model"
	"github.com/forkful/backend/internal/router"
	"github.com/forkful/backend/internal/server"
	"github.com/forkful/backend/internal/service"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := gorm.Open(postgres.Open(cfg.DSN()), &gorm.Config{})
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	if err := db.AutoMigrate(
		&model.User{},
		&model.Recipe{},
		&model.Collection{},
		&model.CollectionRecipe{},
		&model.SharedRecipe{},
	); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr(),
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})

	s3Config, err := config.NewS3Config(context.Background())
	if err != nil {
		log.Fatalf("Failed to initialize object storage: %v", err)
	}

	completionService, err := service.NewCompletionService()
	if err != nil {
		log.Fatalf("Failed to initialize completion service: %v", err)
	}
	scrapeService, err := service.NewScrapeService()
	if err != nil {
		log.Fatalf("Failed to initialize scrape service: %v", err)
	}
	socialExtractor := service.NewSocialExtractor(cfg.SocialExtractorCmd, cfg.SocialExtractorTimeout)
	assetService := service.NewAssetService(s3Config)

	extractService := service.NewExtractService(completionService, scrapeService, socialExtractor, assetService, cfg.JPEGQuality)
	recipeService := service.NewRecipeService(db, assetService)
	collectionService := service.NewCollectionService(db)
	shareService := service.NewShareService(db, redisClient)
	authService := service.NewAuthService(db, cfg.JWTSecret)

	r := router.SetupRouter(
		api.NewAuthHandler(authService),
		api.NewRecipeHandler(recipeService, authService),
		api.NewCollectionHandler(collectionService, authService),
		api.NewShareHandler(shareService, authService),
		api.NewExtractHandler(extractService, authService),
		cfg.MaxUploadBytes,
	)

	srv := server.New(cfg, r)

	errChan := make(chan error, 1)
	go func() {
		log.Println("Starting server...")
		errChan <- srv.Start()
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errChan:
		if err != nil {
			log.Fatalf("Server error: %v", err)
		}
	case sig := <-quit:
		log.Printf("Received signal: %v", sig)
	}

	log.Println("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("Server shutdown error: %v", err)
	}
	log.Println("Server stopped")
}
