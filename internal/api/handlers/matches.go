package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/playmatatu/lastone/internal/config"
	"github.com/playmatatu/lastone/internal/game"
	"github.com/playmatatu/lastone/internal/middleware"
	"github.com/playmatatu/lastone/internal/ws"
)

// StartRequest configures a new session. Names is either the shorthand text
// ("Ann*3, Ben") or a list of names.
type StartRequest struct {
	Names        json.RawMessage `json:"names" binding:"required"`
	SurvivorMode bool            `json:"survivor_mode"`
	Map          string          `json:"map"`
	ViewWidth    float64         `json:"view_width"`
	ViewHeight   float64         `json:"view_height"`
	Seed         int64           `json:"seed"`
}

// parseNames accepts both request forms and applies the participant limit.
func parseNames(raw json.RawMessage, limit int) ([]string, error) {
	var text string
	if err := json.Unmarshal(raw, &text); err == nil {
		return game.ParseNames(text, limit)
	}

	var list []string
	if err := json.Unmarshal(raw, &list); err != nil {
		return nil, errors.New("names must be a string or a list of strings")
	}
	names := make([]string, 0, len(list))
	for _, n := range list {
		if n = strings.TrimSpace(n); n != "" {
			names = append(names, n)
		}
	}
	if limit > 0 && len(names) > limit {
		return nil, game.ErrTooManyParticipants
	}
	return names, nil
}

// statusFor maps match errors to HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, game.ErrMatchNotFound):
		return http.StatusNotFound
	case errors.Is(err, game.ErrMatchInProgress):
		return http.StatusConflict
	case errors.Is(err, game.ErrLayoutExhausted):
		return http.StatusUnprocessableEntity
	case errors.Is(err, game.ErrNotEnoughParticipants),
		errors.Is(err, game.ErrTooManyParticipants),
		errors.Is(err, game.ErrUnknownMap):
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

func lookupMatch(c *gin.Context) (*game.Match, bool) {
	m, err := game.Manager.GetMatch(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "match not found"})
		return nil, false
	}
	return m, true
}

// CreateMatch registers an idle match and returns the host token that
// controls it.
func CreateMatch(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		m := game.Manager.CreateMatch()

		ttl := time.Duration(cfg.HostTokenTTLMinutes) * time.Minute
		token, err := middleware.IssueHostToken(cfg.JWTSecret, m.ID, ttl)
		if err != nil {
			log.Printf("[MATCH] Failed to issue host token for %s: %v", m.ID, err)
			game.Manager.RemoveMatch(m.ID)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create match"})
			return
		}

		c.JSON(http.StatusCreated, gin.H{
			"match_id":   m.ID,
			"host_token": token,
			"expires_at": time.Now().Add(ttl).Unix(),
			"snapshot":   m.Snapshot(),
		})
	}
}

// StartMatch launches a session on an idle match.
func StartMatch(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		m, ok := lookupMatch(c)
		if !ok {
			return
		}

		var req StartRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
			return
		}

		names, err := parseNames(req.Names, game.Manager.Settings().MaxParticipants)
		if err != nil {
			status := statusFor(err)
			if status == http.StatusInternalServerError {
				status = http.StatusBadRequest
			}
			c.JSON(status, gin.H{"error": err.Error()})
			return
		}

		mapType := game.MapType(req.Map)
		if req.Map == "" {
			mapType = game.MapCat
		}
		opts := []game.StartOption{game.WithView(req.ViewWidth, req.ViewHeight)}
		if req.Seed != 0 {
			opts = append(opts, game.WithSeed(req.Seed))
		}

		if err := m.Start(names, req.SurvivorMode, mapType, opts...); err != nil {
			log.Printf("[MATCH] Start %s rejected: %v", m.ID, err)
			c.JSON(statusFor(err), gin.H{"error": err.Error()})
			return
		}

		c.JSON(http.StatusOK, m.Snapshot())
	}
}

// ResetMatch tears the session down and returns the match to idle.
func ResetMatch(c *gin.Context) {
	m, ok := lookupMatch(c)
	if !ok {
		return
	}
	m.Reset()
	c.JSON(http.StatusOK, m.Snapshot())
}

// GetMatch returns the read-only snapshot of a match.
func GetMatch(c *gin.Context) {
	m, ok := lookupMatch(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, m.Snapshot())
}

// DeleteMatch stops and forgets a match.
func DeleteMatch(c *gin.Context) {
	if err := game.Manager.RemoveMatch(c.Param("id")); err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}
	c.Status(http.StatusNoContent)
}

// MatchWebSocket streams a match's events to a viewer.
func MatchWebSocket(hub *ws.Hub) gin.HandlerFunc {
	return func(c *gin.Context) {
		m, ok := lookupMatch(c)
		if !ok {
			return
		}
		hub.ServeMatch(m, c.Writer, c.Request)
	}
}

// LobbyWebSocket streams lifecycle announcements from every match.
func LobbyWebSocket(hub *ws.Hub) gin.HandlerFunc {
	return func(c *gin.Context) {
		hub.ServeLobby(c.Writer, c.Request)
	}
}
