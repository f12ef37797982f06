package config

import (
	"errors"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// DefaultJWTSecret is only acceptable outside production.
const DefaultJWTSecret = "change-me-in-production"

type Config struct {
	// Environment
	Environment string

	// Redis (empty disables the match_events relay)
	RedisURL string

	// Server
	Port        string
	FrontendURL string

	// Arena
	ArenaWidth  float64
	ArenaHeight float64
	ViewHeight  float64

	// Simulation
	TickHz           int
	BallSpawnSeconds int
	MaxBalls         int
	MaxParticipants  int

	// Match lifecycle
	MatchIdleExpiryMinutes int
	HostTokenTTLMinutes    int

	// Security
	JWTSecret      string
	AdminTokenHash string
}

func Load() *Config {
	// Load .env file if it exists
	godotenv.Load()

	return &Config{
		// Environment
		Environment: getEnv("APP_ENV", "development"),

		// Redis
		RedisURL: getEnv("REDIS_URL", ""),

		// Server
		Port:        getEnv("APP_PORT", "8080"),
		FrontendURL: getEnv("FRONTEND_URL", "http://localhost:5173"),

		// Arena
		ArenaWidth:  getEnvFloat("ARENA_WIDTH", 700),
		ArenaHeight: getEnvFloat("ARENA_HEIGHT", 1500),
		ViewHeight:  getEnvFloat("VIEW_HEIGHT", 600),

		// Simulation
		TickHz:           getEnvInt("TICK_HZ", 60),
		BallSpawnSeconds: getEnvInt("BALL_SPAWN_SECONDS", 20),
		MaxBalls:         getEnvInt("MAX_BALLS", 12),
		MaxParticipants:  getEnvInt("MAX_PARTICIPANTS", 50),

		// Match lifecycle
		MatchIdleExpiryMinutes: getEnvInt("MATCH_IDLE_EXPIRY_MINUTES", 30),
		HostTokenTTLMinutes:    getEnvInt("HOST_TOKEN_TTL_MINUTES", 240),

		// Security
		JWTSecret:      getEnv("JWT_SECRET", DefaultJWTSecret),
		AdminTokenHash: getEnv("ADMIN_TOKEN_HASH", ""),
	}
}

// Validate rejects settings the server must not run with.
func (c *Config) Validate() error {
	if c.JWTSecret == "" {
		return errors.New("JWT_SECRET must be set to issue host tokens")
	}
	if c.Environment == "production" && c.JWTSecret == DefaultJWTSecret {
		return errors.New("JWT_SECRET must be changed from the default in production")
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}
