package main

import (
	"log"

	"inventario-system/config"
	"inventario-system/internal/database"
	"inventario-system/internal/server"
	"inventario-system/internal/server/handlers"
	"inventario-system/internal/utils"
)

func main() {
	cfg := config.LoadConfig()
	utils.SetJWTSecret(cfg.Auth.JWTSecret)

	redisClient := config.NewRedisClient(cfg.Redis)
	defer redisClient.Close()

	db, err := database.NewConnection(cfg.DB.DSN())
	if err != nil {
		log.Fatalf("Failed to connect to db: %v", err)
	}

	if err := database.Migrate(db); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}

	if err := handlers.SeedAdmin(db, cfg.Auth); err != nil {
		log.Fatalf("Failed to seed admin user: %v", err)
	}

	r := server.New(db, redisClient, cfg)

	addr := ":" + cfg.Server.Port
	log.Printf("Starting server on %s", addr)
	if err := r.Run(addr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
