package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"portfolio/internal/config"
)

const contextUserIDKey = "auth_user_id"

// RequireAuth validates the Bearer token and stores the authenticated user id
// on the request context. With auth disabled in config the middleware passes
// everything through, which is how local development and tests run.
func RequireAuth(cfg config.AuthConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		if cfg.Disabled {
			c.Next()
			return
		}
		header := c.GetHeader("Authorization")
		raw, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || strings.TrimSpace(raw) == "" {
			Error(c, http.StatusUnauthorized, "missing bearer token", nil)
			c.Abort()
			return
		}
		token, err := jwt.Parse(strings.TrimSpace(raw), func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrSignatureInvalid
			}
			return []byte(cfg.Secret), nil
		})
		if err != nil || !token.Valid {
			Error(c, http.StatusUnauthorized, "invalid or expired token", nil)
			c.Abort()
			return
		}
		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			Error(c, http.StatusUnauthorized, "invalid token claims", nil)
			c.Abort()
			return
		}
		rawID, ok := claims["user_id"].(float64)
		if !ok || rawID <= 0 {
			Error(c, http.StatusUnauthorized, "invalid token claims", nil)
			c.Abort()
			return
		}
		c.Set(contextUserIDKey, uint64(rawID))
		c.Next()
	}
}

// requestUserID resolves the :userId path segment and, when auth is active,
// rejects tokens that do not own that portfolio.
func requestUserID(c *gin.Context) (uint64, bool) {
	id := uint64Param(c, "userId")
	if id == 0 {
		Error(c, http.StatusBadRequest, "invalid user id", nil)
		return 0, false
	}
	if val, exists := c.Get(contextUserIDKey); exists {
		if authID, ok := val.(uint64); ok && authID != id {
			Error(c, http.StatusForbidden, "portfolio belongs to another user", nil)
			return 0, false
		}
	}
	return id, true
}

// CORS mirrors the browser-facing defaults of the original frontend setup.
func CORS() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Authorization, Content-Type")
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}
