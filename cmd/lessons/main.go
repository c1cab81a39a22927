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
	if err := godotenv.Load(); err != nil {
		fmt.Println("No .env file found (ok in prod)")
	}

	cfg := &config.LessonsConfig{}
	if err := env.Parse(cfg); err != nil {
		fmt.Printf("Failed to parse config: %v\n", err)
		os.Exit(1)
	}
	if cfg.AdminSecretHash == "" {
		log.Println("ADMIN_SECRET_HASH not set; admin panel is locked out")
	}

	db := client.InitLessonsDB(cfg.DatabaseURL)

	imageStore, err := storage.NewDiskStore(cfg.ImageDir)
	if err != nil {
		log.Fatal(err)
	}

	offeringRepo := repository.NewOfferingRepository(db)
	bookingRepo := repository.NewBookingRepository(db)

	lessonsService := service.NewLessonsService(db, offeringRepo, bookingRepo, imageStore, cfg.AdminSecretHash)

	serverAddr := cfg.HTTP.Host + ":" + cfg.HTTP.Port
	tokenTTL := time.Duration(cfg.Auth.TokenTTLHours) * time.Hour

	srv := server.NewLessonsServer(lessonsService, cfg.Auth.JWTSecret, tokenTTL)

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
