package main

import (
	"context"
	"log"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/playmatatu/lastone/internal/api"
	"github.com/playmatatu/lastone/internal/config"
	"github.com/playmatatu/lastone/internal/game"
	"github.com/playmatatu/lastone/internal/redis"
	"github.com/playmatatu/lastone/internal/ws"
	goredis "github.com/redis/go-redis/v9"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	ctx := context.Background()

	// Redis is optional: it only relays match events between instances
	var rdb *goredis.Client
	if cfg.RedisURL != "" {
		client, err := redis.Connect(cfg.RedisURL)
		if err != nil {
			log.Fatalf("Failed to connect to Redis: %v", err)
		}
		defer client.Close()
		rdb = client
		log.Println("[REDIS] Connected")
	} else {
		log.Println("[REDIS] REDIS_URL not set, running without the event relay")
	}

	hub := ws.NewHub()
	go hub.Run(ctx)
	hub.StartMatchEventSubscriber(ctx, rdb)

	game.InitializeManager(ctx, rdb, cfg, hub)

	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.Default()
	api.SetupRoutes(router, cfg, hub)

	port := cfg.Port
	if port == "" {
		port = "8080"
	}

	log.Printf("Starting Last One server on port %s", port)
	if err := router.Run(":" + port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
