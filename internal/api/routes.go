package api

import (
	"log"

	"github.com/gin-gonic/gin"
	"github.com/playmatatu/lastone/internal/api/handlers"
	"github.com/playmatatu/lastone/internal/config"
	"github.com/playmatatu/lastone/internal/middleware"
	"github.com/playmatatu/lastone/internal/ws"
)

// SetupRoutes configures all API routes
func SetupRoutes(router *gin.Engine, cfg *config.Config, hub *ws.Hub) {
	router.Use(middleware.CORSMiddleware(cfg))

	if cfg.Environment != "production" {
		router.Use(func(c *gin.Context) {
			c.Header("Cache-Control", "no-store, no-cache, must-revalidate, max-age=0")
			c.Header("Pragma", "no-cache")
			c.Header("Expires", "0")
			c.Next()
		})
		log.Println("[DEV MODE] No-cache headers enabled for all routes")
	}

	router.GET("/health", handlers.HealthCheck)

	v1 := router.Group("/api/v1")
	{
		v1.GET("/health", handlers.HealthCheck)
		v1.GET("/maps", handlers.ListMaps)
		v1.GET("/lobby/ws", middleware.WebSocketCORSCheck(cfg), handlers.LobbyWebSocket(hub))

		matches := v1.Group("/matches")
		{
			matches.POST("", handlers.CreateMatch(cfg))
			matches.GET("/:id", handlers.GetMatch)
			matches.GET("/:id/ws", middleware.WebSocketCORSCheck(cfg), handlers.MatchWebSocket(hub))

			host := matches.Group("/:id", middleware.HostAuth(cfg.JWTSecret))
			{
				host.POST("/start", handlers.StartMatch(cfg))
				host.POST("/reset", handlers.ResetMatch)
				host.DELETE("", handlers.DeleteMatch)
			}
		}

		admin := v1.Group("/admin", middleware.AdminAuth(cfg.AdminTokenHash))
		{
			admin.GET("/matches", handlers.AdminListMatches)
			admin.DELETE("/matches/:id", handlers.AdminDeleteMatch)
		}
	}
}
