package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/campusconnect/portal-api/internal/middleware"
	"github.com/campusconnect/portal-api/internal/models"
)

func claimsFromContext(c *gin.Context) *models.JWTClaims {
	value, exists := c.Get(middleware.ContextUserKey)
	if !exists {
		return nil
	}
	claims, ok := value.(*models.JWTClaims)
	if !ok {
		return nil
	}
	return claims
}

// sessionIDFromContext resolves the navigation session key. Anonymous visitors
// carry an X-Session-ID header; authenticated users fall back to their user ID
// so the session survives token refreshes.
func sessionIDFromContext(c *gin.Context) string {
	if sid := c.GetHeader("X-Session-ID"); sid != "" {
		return sid
	}
	if claims := claimsFromContext(c); claims != nil {
		return claims.UserID
	}
	return ""
}
