package main

import (
	"log"
	"os"

	"github.com/joho/godotenv"

	"github.com/gamehall/backend/internal/auth"
	"github.com/gamehall/backend/internal/config"
	"github.com/gamehall/backend/internal/database"
)

// Seeds a first account so a fresh deployment has someone to log in as.
func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg := config.Load()

	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	userName := os.Getenv("SEED_USER_NAME")
	if userName == "" {
		userName = "gamehall"
		log.Printf("Using default seed user name: %s", userName)
	}

	password := os.Getenv("SEED_USER_PASSWORD")
	if password == "" {
		password = "change-me-in-production"
		log.Printf("WARNING: Using default seed password. Set SEED_USER_PASSWORD env var in production!")
	}

	authorizer := auth.New(db, nil)
	res := authorizer.Register(userName, password)
	switch res {
	case auth.Success:
		log.Printf("✓ Seed user %q created", userName)
	case auth.UsernameDuplicate:
		log.Printf("Seed user %q already exists, nothing to do", userName)
	default:
		log.Fatalf("Failed to create seed user: %s", res)
	}
}
