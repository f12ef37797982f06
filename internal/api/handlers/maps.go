package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/playmatatu/lastone/internal/game"
)

// ListMaps returns the selectable maps and the arena new matches use.
func ListMaps(c *gin.Context) {
	settings := game.DefaultSettings()
	if game.Manager != nil {
		settings = game.Manager.Settings()
	}
	c.JSON(http.StatusOK, gin.H{
		"maps":             game.Maps(),
		"default_map":      game.MapCat,
		"arena":            settings.Arena,
		"view_height":      settings.ViewHeight,
		"max_participants": settings.MaxParticipants,
		"max_balls":        settings.MaxBalls,
		"spawn_seconds":    settings.SpawnInterval.Seconds(),
	})
}
