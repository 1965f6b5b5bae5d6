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

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"gorm.io/gorm"

	"github.com/sujalbistaa/unlinked/internal/board"
	"github.com/sujalbistaa/unlinked/internal/cache"
	"github.com/sujalbistaa/unlinked/internal/config"
	"github.com/sujalbistaa/unlinked/internal/db"
	routes "github.com/sujalbistaa/unlinked/internal/http"
	"github.com/sujalbistaa/unlinked/internal/messaging"
	"github.com/sujalbistaa/unlinked/internal/ws"
)

func main() {
	// Production sets variables directly, so a missing .env is fine.
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, reading from environment")
	}
	cfg := config.Load()

	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "migrate":
			runMigrations(cfg)
			return
		default:
			log.Fatalf("Unknown command: %s", os.Args[1])
		}
	}

	startServer(cfg)
}

func openDatabase(cfg *config.Config) *gorm.DB {
	database, err := db.Init(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}

	log.Println("Running database migrations...")
	if err := db.Migrate(database); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	if err := db.SeedCategories(database); err != nil {
		log.Fatalf("Failed to seed categories: %v", err)
	}
	log.Println("Migrations complete.")
	return database
}

func runMigrations(cfg *config.Config) {
	database := openDatabase(cfg)
	if sqlDB, err := database.DB(); err == nil {
		sqlDB.Close()
	}
}

func startServer(cfg *config.Config) {
	database := openDatabase(cfg)

	// Optional infrastructure: the board works without a cache or a bus.
	var categoryCache board.CategoryCache
	if cfg.RedisURL != "" {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		rc, err := cache.NewRedis(ctx, cfg.RedisURL)
		cancel()
		if err != nil {
			log.Printf("Redis unavailable, continuing without cache: %v", err)
		} else {
			defer rc.Close()
			categoryCache = rc
		}
	}

	var bus messaging.Publisher = messaging.Noop{}
	if cfg.NATSURL != "" {
		nc, err := messaging.ConnectNATS(cfg.NATSURL)
		if err != nil {
			log.Printf("NATS unavailable, events will not be published: %v", err)
		} else {
			defer nc.Close()
			bus = nc
		}
	}

	hub := ws.NewHub()
	go hub.Run()

	router := gin.New()
	env := routes.NewEnv(cfg, database, hub, categoryCache, bus)
	routes.SetupRoutes(router, env)

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		log.Printf("Server listening on :%s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("listen: %s\n", err)
		}
	}()

	<-quit
	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("Server forced to shutdown: %v", err)
	}
	hub.Stop()

	if sqlDB, err := database.DB(); err == nil {
		sqlDB.Close()
	}
	log.Println("Server exiting")
}
