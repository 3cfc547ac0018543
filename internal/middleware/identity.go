package middleware

import (
	"net/http"
	"strconv"
	"strings"

	"repairdesk/internal/pkg/jwt"
	"repairdesk/internal/pkg/response"

	"github.com/gin-gonic/gin"
)

const (
	ctxUserID = "user_id"
	ctxRole   = "role"
)

// Identity resolves the caller and stores user_id (int64) and role
// (string) in the gin context. A bearer token is verified when a token
// service is configured. Without a token, and only if trustHeaders is set,
// the X-User-Id and X-User-Role headers are taken as-is. Requests without
// any identity pass through anonymously.
func Identity(tokens *jwt.Service, trustHeaders bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method == http.MethodOptions {
			c.Next()
			return
		}

		if h := c.GetHeader("Authorization"); h != "" && tokens != nil {
			if !strings.HasPrefix(h, "Bearer ") {
				response.Error(c, http.StatusUnauthorized, "Invalid Authorization header")
				c.Abort()
				return
			}
			claims, err := tokens.ValidateToken(strings.TrimSpace(strings.TrimPrefix(h, "Bearer ")))
			if err != nil {
				response.Error(c, http.StatusUnauthorized, "Invalid token")
				c.Abort()
				return
			}
			c.Set(ctxUserID, claims.UserID)
			c.Set(ctxRole, claims.Role)
			c.Next()
			return
		}

		if trustHeaders {
			if raw := strings.TrimSpace(c.GetHeader("X-User-Id")); raw != "" {
				id, err := strconv.ParseInt(raw, 10, 64)
				if err != nil || id <= 0 {
					response.Error(c, http.StatusBadRequest, "Invalid X-User-Id header")
					c.Abort()
					return
				}
				c.Set(ctxUserID, id)
			}
			if role := strings.TrimSpace(c.GetHeader("X-User-Role")); role != "" {
				c.Set(ctxRole, role)
			}
		}

		c.Next()
	}
}

// CurrentUserID returns the caller id set by Identity.
func CurrentUserID(c *gin.Context) (int64, bool) {
	id := c.GetInt64(ctxUserID)
	return id, id > 0
}

func CurrentRole(c *gin.Context) string {
	return c.GetString(ctxRole)
}
