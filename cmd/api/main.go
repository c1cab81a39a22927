package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"video-marketplace/internal/client"
	"video-marketplace/internal/config"
	"video-marketplace/internal/repository"
	"video-marketplace/internal/server"
	"video-marketplace/internal/service"
	"video-marketplace/internal/storage"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
)

func main() {
	// load .env into os.Environ
	if err := godotenv.Load(); err != nil {
		fmt.Println("No .env file found (ok in prod)")
	}

	cfg := &config.Config{}
	if err := env.Parse(cfg); err != nil {
		fmt.Printf("Failed to parse config: %v\n", err)
		os.Exit(1)
	}

	db := client.InitMarketplaceDB(cfg.DatabaseURL)
	stripeClient := client.NewStripeClient(&cfg.Stripe)

	store, err := storage.NewDiskStore(cfg.Uploads.Dir)
	if err != nil {
		log.Fatal(err)
	}
	pictureStore, err := storage.NewDiskStore(cfg.Uploads.ProfileDir)
	if err != nil {
		log.Fatal(err)
	}

	userRepo := repository.NewUserRepository(db)
	videoRepo := repository.NewVideoRepository(db)
	commentRepo := repository.NewCommentRepository(db)
	ratingRepo := repository.NewRatingRepository(db)
	purchaseRepo := repository.NewPurchaseRepository(db)

	authService := service.NewAuthService(userRepo, pictureStore, &cfg.Auth)
	videoService := service.NewVideoService(db, videoRepo, commentRepo, ratingRepo, purchaseRepo, store)
	purchaseService := service.NewPurchaseService(db, stripeClient, cfg.BaseURL, userRepo, videoRepo, purchaseRepo)

	serverAddr := cfg.HTTP.Host + ":" + cfg.HTTP.Port

	srv := server.NewServer(authService, videoService, purchaseService, cfg.Auth.JWTSecret)

	log.Println("Starting HTTP server on", serverAddr)
	go func() {
		if err := srv.Start(serverAddr); err != nil && err != http.ErrServerClosed {
			log.Fatal("HTTP server error")
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGTERM, syscall.SIGINT)

	<-sigChan
	log.Println("Signal received, starting graceful shutdown...")

	_, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(); err != nil {
		log.Fatal("HTTP server shutdown error")
	}
}
