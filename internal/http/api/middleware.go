package api

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/retrievaltrack/retrievaltrack/internal/access"
	"github.com/retrievaltrack/retrievaltrack/internal/config"
	"github.com/retrievaltrack/retrievaltrack/internal/http/api/handlers"
	"github.com/retrievaltrack/retrievaltrack/internal/security"
)

// sessionMiddleware validates the bearer token and stores the session
// snapshot in the request context. No token means no session.
func sessionMiddleware(jwtCfg config.JWTConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		token := ""
		if strings.HasPrefix(header, "Bearer ") {
			token = strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
		}
		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing session"})
			return
		}
		claims, errParse := security.ParseToken(jwtCfg.Secret, token)
		if errParse != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid session"})
			return
		}
		c.Set(handlers.SessionKey, claims)
		c.Next()
	}
}

// requirePage gates a route on the session role's permitted page set.
func requirePage(pageID string) gin.HandlerFunc {
	return func(c *gin.Context) {
		session := handlers.SessionFrom(c)
		if session == nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing session"})
			return
		}
		if !access.CanAccess(session.Role, pageID) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "access denied for your role"})
			return
		}
		c.Next()
	}
}
