package main

import (
	"flag"
	"log"

	"quiztube/internal/config"
	"quiztube/internal/database"
)

func main() {
	source := flag.String("source", "file://database/migrations", "migration source URL")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	if err := database.RunMigrations(cfg.GetDSN(), *source); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	log.Println("Migrations completed successfully")
}
