package clients

import (
	"errors"
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
	g := r.Group("/clients")
	g.OPTIONS("", middleware.Preflight([]string{http.MethodGet, http.MethodPost}, middleware.PlainHeaders))
	g.GET("", h.Search)
	g.POST("", h.Upsert)
}

// Search GET /clients?phone=|serialNumber=|search=
func (h *Handler) Search(c *gin.Context) {
	var q SearchQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid query")
		return
	}

	items, err := h.svc.Search(c.Request.Context(), q)
	if err != nil {
		response.Internal(c, err)
		return
	}
	response.Success(c, http.StatusOK, items)
}

// Upsert POST /clients
func (h *Handler) Upsert(c *gin.Context) {
	var req UpsertRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	saved, err := h.svc.Upsert(c.Request.Context(), req)
	if err != nil {
		if errors.Is(err, ErrNameAndPhoneRequired) {
			response.Error(c, http.StatusBadRequest, "Full name and phone required")
			return
		}
		response.Internal(c, err)
		return
	}
	response.Success(c, http.StatusCreated, saved)
}
