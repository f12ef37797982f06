package handlers

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/playmatatu/lastone/internal/game"
)

// AdminListMatches returns every hosted match, oldest first.
func AdminListMatches(c *gin.Context) {
	matches := game.Manager.ListMatches()
	c.JSON(http.StatusOK, gin.H{
		"matches": matches,
		"total":   len(matches),
		"active":  game.Manager.GetActiveMatchCount(),
	})
}

// AdminDeleteMatch force-removes a match regardless of its host.
func AdminDeleteMatch(c *gin.Context) {
	id := c.Param("id")
	if err := game.Manager.RemoveMatch(id); err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}
	log.Printf("[ADMIN] Match %s removed by %s", id, c.ClientIP())
	c.Status(http.StatusNoContent)
}
