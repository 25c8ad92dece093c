package main

import (
	"context"
	"flag"
	"fmt"
	"time"

	"github.com/joho/godotenv"

	"github.com/oksasatya/go-ddd-user-terms/config"
	"github.com/oksasatya/go-ddd-user-terms/internal/container"
	"github.com/oksasatya/go-ddd-user-terms/pkg/helpers"
)

func main() {
	demo := flag.Int("demo", 0, "number of demo users to create after ensuring the admin")
	flag.Parse()

	_ = godotenv.Load()
	cfg := config.Load()
	logger := helpers.NewLogger(cfg.AppName+"-seed", cfg.Env)
	if err := cfg.Validate(); err != nil {
		logger.Fatalf("invalid configuration: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	c, err := container.New(ctx, cfg, logger)
	if err != nil {
		logger.Fatalf("startup failed: %v", err)
	}
	defer c.Close()

	created, err := c.UserService.EnsureAdmin(ctx, cfg.AdminEmail, cfg.AdminPassword)
	if err != nil {
		logger.Fatalf("failed to ensure admin: %v", err)
	}
	fmt.Printf("admin %s ensured (created=%t)\n", cfg.AdminEmail, created)

	if *demo > 0 {
		batch, err := c.UserService.CreateDemoUsers(ctx, *demo)
		if err != nil {
			logger.Fatalf("failed to seed demo users: %v", err)
		}
		fmt.Printf("seeded %d demo users (batch=%s password=%s)\n", batch.Count, batch.BatchID, batch.DefaultPassword)
	}
}
