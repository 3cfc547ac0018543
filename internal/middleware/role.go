package middleware

import (
	"net/http"

	"repairdesk/internal/domain"
	"repairdesk/internal/pkg/response"

	"github.com/gin-gonic/gin"
)

// RequireRole ensures that the caller's role claim equals requiredRole.
func RequireRole(requiredRole string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if CurrentRole(c) != requiredRole {
			response.Error(c, http.StatusForbidden, "Access denied: "+requiredRole+" role required")
			c.Abort()
			return
		}

		c.Next()
	}
}

// DirectorOnly gates catalog writes.
func DirectorOnly() gin.HandlerFunc {
	return RequireRole(domain.RoleDirector)
}
