package main

import (
	"context"

	"gorodskoybaton/bot/internal/config"
	"gorodskoybaton/bot/internal/container"

	log "github.com/sirupsen/logrus"
)

func main() {
	log.Info("Starting Gorodskoy Baton bot...")

	// Load configuration using viper
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	log.Info("Configuration loaded successfully")

	// Initialize container with all dependencies
	app, err := container.New(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize container: %v", err)
	}
	defer app.Close()

	// Run the application
	if err := app.Run(context.Background()); err != nil {
		log.Fatalf("Application exited with error: %v", err)
	}

	log.Info("Application finished successfully")
}
