package middleware

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v4"
	"github.com/playmatatu/lastone/internal/admin"
)

// ContextMatchID is the gin context key HostAuth sets for the authorised match.
const ContextMatchID = "match_id"

var errInvalidHostToken = errors.New("invalid host token")

// IssueHostToken signs a token that lets its holder start, reset and delete
// one match.
func IssueHostToken(secret, matchID string, ttl time.Duration) (string, error) {
	claims := jwt.MapClaims{
		"match_id": matchID,
		"iat":      time.Now().Unix(),
		"exp":      time.Now().Add(ttl).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		return "", fmt.Errorf("sign host token: %w", err)
	}
	return signed, nil
}

// ParseHostToken validates a host token and returns the match it controls.
func ParseHostToken(secret, token string) (string, error) {
	parsed, err := jwt.Parse(token, func(t *jwt.Token) (interface{}, error) {
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, fmt.Errorf("unexpected signing method")
		}
		return []byte(secret), nil
	})
	if err != nil || !parsed.Valid {
		return "", errInvalidHostToken
	}
	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return "", errInvalidHostToken
	}
	matchID, ok := claims["match_id"].(string)
	if !ok || matchID == "" {
		return "", errInvalidHostToken
	}
	return matchID, nil
}

func bearerToken(c *gin.Context) string {
	auth := c.GetHeader("Authorization")
	if !strings.HasPrefix(auth, "Bearer ") {
		return ""
	}
	return strings.TrimPrefix(auth, "Bearer ")
}

// HostAuth requires a bearer host token issued for the match named by the
// :id route parameter.
func HostAuth(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c)
		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing token"})
			return
		}
		matchID, err := ParseHostToken(secret, token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}
		if matchID != c.Param("id") {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "token is not for this match"})
			return
		}
		c.Set(ContextMatchID, matchID)
		c.Next()
	}
}

// AdminAuth checks the X-Admin-Token header against the configured bcrypt
// hash. Admin routes are closed when no hash is configured.
func AdminAuth(tokenHash string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if tokenHash == "" {
			c.AbortWithStatusJSON(http.StatusServiceUnavailable, gin.H{"error": "admin access is not configured"})
			return
		}
		token := c.GetHeader("X-Admin-Token")
		if token == "" {
			token = bearerToken(c)
		}
		if !admin.VerifyAdminToken(tokenHash, token) {
			log.Printf("[ADMIN] Rejected admin request from %s to %s", c.ClientIP(), c.FullPath())
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}
		c.Next()
	}
}
