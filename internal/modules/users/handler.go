package users

import (
	"net/http"

	"repairdesk/internal/middleware"
	"repairdesk/internal/pkg/response"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	g := r.Group("/users")
	g.OPTIONS("", middleware.Preflight([]string{http.MethodGet}, middleware.PlainHeaders))
	g.GET("", h.List)
}

// List GET /users
func (h *Handler) List(c *gin.Context) {
	items, err := h.svc.List(c.Request.Context())
	if err != nil {
		response.Internal(c, err)
		return
	}
	response.Success(c, http.StatusOK, items)
}
