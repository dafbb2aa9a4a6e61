package main

import (
	"log"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/gamehall/backend/internal/api"
	"github.com/gamehall/backend/internal/auth"
	"github.com/gamehall/backend/internal/chat"
	"github.com/gamehall/backend/internal/config"
	"github.com/gamehall/backend/internal/database"
	"github.com/gamehall/backend/internal/migrations"
	"github.com/gamehall/backend/internal/redis"
	"github.com/gamehall/backend/internal/ws"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg := config.Load()

	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	// Run migrations on start if requested
	if os.Getenv("MIGRATE_ON_START") == "true" {
		log.Println("↗ Running DB migrations on startup...")
		if err := migrations.RunMigrations(cfg.DatabaseURL); err != nil {
			log.Fatalf("Failed to run migrations: %v", err)
		}
	}

	rdb, err := redis.Connect(cfg.RedisURL)
	if err != nil {
		log.Fatalf("Failed to connect to Redis: %v", err)
	}
	defer rdb.Close()

	authorizer := auth.New(db, rdb)
	authorizer.StartUnreadFlusher(time.Duration(cfg.UnreadFlushMinutes) * time.Minute)
	defer authorizer.Stop()

	history := chat.New(db)
	history.StartFlusher(time.Duration(cfg.ChatFlushMinutes) * time.Minute)
	defer history.Stop()

	hub := ws.NewHub(authorizer, history)
	hub.Start()
	defer hub.Stop()

	hub.Rooms().StartSweeper(time.Duration(cfg.RoomSweepMinutes) * time.Minute)
	defer hub.Rooms().Stop()

	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.Default()

	api.SetupRoutes(router, authorizer, history, hub, cfg)

	port := cfg.Port
	if port == "" {
		port = "8080"
	}

	log.Printf("Starting GameHall server on port %s", port)
	if err := router.Run(":" + port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
