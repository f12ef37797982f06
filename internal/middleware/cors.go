package middleware

import (
	"log"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/playmatatu/lastone/internal/config"
)

var devOrigins = []string{
	"http://localhost:5173", // Vite dev server
	"http://127.0.0.1:5173",
}

// allowedOrigins returns the production origins. The frontend URL is the
// only one the server trusts outside development.
func allowedOrigins(cfg *config.Config) []string {
	if cfg.FrontendURL == "" {
		return nil
	}
	return []string{strings.TrimRight(cfg.FrontendURL, "/")}
}

// CORSMiddleware returns a CORS middleware configured for the environment
func CORSMiddleware(cfg *config.Config) gin.HandlerFunc {
	log.Printf("[CORS] Environment: %s, FrontendURL: %s", cfg.Environment, cfg.FrontendURL)

	corsConfig := cors.Config{
		AllowMethods: []string{
			"GET", "POST", "DELETE", "OPTIONS",
		},
		AllowHeaders: []string{
			"Origin", "Content-Length", "Content-Type", "Authorization",
			"X-Admin-Token", "Accept", "Cache-Control", "X-Requested-With",
		},
		ExposeHeaders: []string{
			"Content-Length",
		},
		MaxAge: 12 * time.Hour,
	}

	if cfg.Environment == "development" {
		corsConfig.AllowOrigins = devOrigins
	} else if origins := allowedOrigins(cfg); len(origins) > 0 {
		corsConfig.AllowOrigins = origins
		log.Printf("[CORS] Production allowed origins: %v", origins)
	} else {
		// Spectators only read; without a configured frontend anyone may watch.
		corsConfig.AllowAllOrigins = true
		log.Println("[CORS] FRONTEND_URL not set, allowing all origins")
	}

	return cors.New(corsConfig)
}

// WebSocketCORSCheck validates WebSocket upgrade origins
func WebSocketCORSCheck(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		if strings.ToLower(c.GetHeader("Connection")) != "upgrade" ||
			strings.ToLower(c.GetHeader("Upgrade")) != "websocket" {
			c.Next()
			return
		}

		origin := c.GetHeader("Origin")
		var allowed bool
		switch {
		case origin == "":
			// Non-browser clients send no origin.
			allowed = true
		case cfg.Environment == "development":
			allowed = strings.HasPrefix(origin, "http://localhost:") ||
				strings.HasPrefix(origin, "http://127.0.0.1:")
		default:
			origins := allowedOrigins(cfg)
			allowed = len(origins) == 0
			for _, o := range origins {
				if origin == o {
					allowed = true
					break
				}
			}
		}

		if !allowed {
			c.AbortWithStatusJSON(403, gin.H{"error": "WebSocket origin not allowed"})
			return
		}

		c.Next()
	}
}
