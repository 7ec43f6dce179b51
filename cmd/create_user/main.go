package main

import (
	"context"
	"flag"
	"fmt"

	"taskboard/internal/config"
	"taskboard/internal/domain"
	"taskboard/internal/logger"
	"taskboard/internal/repository"
	"taskboard/internal/service"
)

// create_user finds or creates an owner and prints a bearer token for it.
func main() {
	name := flag.String("name", "Tester", "display name")
	email := flag.String("email", "tester@example.com", "email (lookup key)")
	flag.Parse()

	cfg := config.Load()
	stores, err := repository.Open(cfg)
	if err != nil {
		logger.Fatal("failed to open store", "error", err)
	}
	defer stores.Close()

	ctx := context.Background()
	u, err := stores.Users.GetByEmail(ctx, *email)
	switch {
	case err == nil:
		logger.Info("user already exists", "id", u.ID)
	case domain.IsNotFound(err):
		u = &domain.User{Name: *name, Email: *email}
		if err := stores.Users.Create(ctx, u); err != nil {
			logger.Fatal("create user failed", "error", err)
		}
		logger.Info("user created", "id", u.ID)
	default:
		logger.Fatal("lookup user failed", "error", err)
	}

	if err := cfg.RequireJWTSecret(); err != nil {
		logger.Fatal("invalid config", "error", err)
	}
	service.InitJWT(cfg.JWTSecret)
	token, err := service.GenerateJWT(u.ID)
	if err != nil {
		logger.Fatal("failed to generate token", "error", err)
	}
	fmt.Printf("user_id=%d\ntoken=%s\n", u.ID, token)
}
