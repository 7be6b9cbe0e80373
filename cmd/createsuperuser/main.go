package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/joho/godotenv"

	"github.com/plateful/recipe-api/internal/config"
	"github.com/plateful/recipe-api/internal/database"
	"github.com/plateful/recipe-api/internal/logging"
	"github.com/plateful/recipe-api/internal/repository"
	"github.com/plateful/recipe-api/internal/services"
)

func main() {
	email := flag.String("email", "", "email address for the superuser")
	password := flag.String("password", "", "password for the superuser")
	flag.Parse()

	if *email == "" || *password == "" {
		fmt.Fprintln(os.Stderr, "usage: createsuperuser -email <email> -password <password>")
		os.Exit(2)
	}

	_ = godotenv.Load()
	logging.Setup()

	cfg := config.Load()

	if err := database.Connect(cfg); err != nil {
		slog.Error("database connection failed", "error", err)
		os.Exit(1)
	}

	if err := database.Migrate(); err != nil {
		slog.Error("migration failed", "error", err)
		os.Exit(1)
	}

	userRepo := repository.NewUserRepository(database.DB)
	tokenRepo := repository.NewRefreshTokenRepository(database.DB)
	authService := services.NewAuthService(userRepo, tokenRepo, cfg)

	user, err := authService.CreateSuperuser(*email, *password)
	if err != nil {
		slog.Error("superuser creation failed", "email", *email, "error", err)
		os.Exit(1)
	}

	fmt.Printf("superuser created: %s (%s)\n", user.Email, user.ID)
}
