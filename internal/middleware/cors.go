package middleware

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
)

// PreflightMaxAge is the Access-Control-Max-Age value in seconds.
var PreflightMaxAge = 86400

// Header sets advertised in preflight responses.
var (
	PlainHeaders    = []string{"Content-Type"}
	IdentityHeaders = []string{"Content-Type", "Authorization", "X-User-Id", "X-User-Role"}
)

// CORS marks every response as readable from any origin. The frontend is
// served from a different host and sends no credentials.
func CORS() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Next()
	}
}

// Preflight answers OPTIONS for one resource with the verbs it supports.
func Preflight(methods, headers []string) gin.HandlerFunc {
	allowMethods := strings.Join(append(append([]string{}, methods...), http.MethodOptions), ", ")
	allowHeaders := strings.Join(headers, ", ")
	age := strconv.Itoa(PreflightMaxAge)

	return func(c *gin.Context) {
		h := c.Writer.Header()
		h.Set("Access-Control-Allow-Origin", "*")
		h.Set("Access-Control-Allow-Methods", allowMethods)
		h.Set("Access-Control-Allow-Headers", allowHeaders)
		h.Set("Access-Control-Max-Age", age)
		c.AbortWithStatus(http.StatusOK)
	}
}
