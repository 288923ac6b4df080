package http

import (
	"net/http"
	"strings"

	"quiz-studio-service/internal/auth"

	"github.com/gin-gonic/gin"
)

const userIDKey = "userID"

// TokenParser verifies access tokens.
type TokenParser interface {
	Parse(raw string) (*auth.Claims, error)
}

// AuthMiddleware rejects requests without a token (401) or with an invalid
// one (403). Browsers cannot set headers on WebSocket upgrades, so the token
// may also come as the access_token query parameter.
func AuthMiddleware(tokens TokenParser) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := bearerToken(c.GetHeader("Authorization"))
		if raw == "" {
			raw = c.Query("access_token")
		}
		if raw == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing token"})
			return
		}
		claims, err := tokens.Parse(raw)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "invalid token"})
			return
		}
		c.Set(userIDKey, claims.UserID)
		c.Next()
	}
}

func bearerToken(header string) string {
	scheme, token, ok := strings.Cut(strings.TrimSpace(header), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}

func currentUser(c *gin.Context) int64 {
	return c.GetInt64(userIDKey)
}
