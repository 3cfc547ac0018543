package devicetypes

import (
	"errors"
	"io"
	"net/http"

	"repairdesk/internal/middleware"
	"repairdesk/internal/pkg/flexid"
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
	g := r.Group("/device-types")
	g.OPTIONS("", middleware.Preflight(
		[]string{http.MethodGet, http.MethodPost, http.MethodDelete},
		middleware.IdentityHeaders,
	))
	g.GET("", h.List)

	// writes are director-only
	g.POST("", middleware.DirectorOnly(), h.Create)
	g.DELETE("", middleware.DirectorOnly(), h.Delete)
}

// List GET /device-types?category=
func (h *Handler) List(c *gin.Context) {
	items, err := h.svc.List(c.Request.Context(), c.Query("category"))
	if err != nil {
		response.Internal(c, err)
		return
	}
	response.Success(c, http.StatusOK, items)
}

// Create POST /device-types
func (h *Handler) Create(c *gin.Context) {
	var req CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	dt, err := h.svc.Create(c.Request.Context(), req)
	if err != nil {
		if errors.Is(err, ErrNameAndCategoryRequired) {
			response.Error(c, http.StatusBadRequest, "Name and category required")
			return
		}
		response.Internal(c, err)
		return
	}
	response.Success(c, http.StatusCreated, dt)
}

// Delete DELETE /device-types with {"id": ...} or ?id=
func (h *Handler) Delete(c *gin.Context) {
	var id flexid.ID
	if raw := c.Query("id"); raw != "" {
		parsed, err := flexid.Parse(raw)
		if err != nil {
			response.Error(c, http.StatusBadRequest, "Invalid id")
			return
		}
		id = parsed
	} else {
		var req DeleteRequest
		if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
			response.Error(c, http.StatusBadRequest, "Invalid request body")
			return
		}
		id = req.ID
	}

	if err := h.svc.Delete(c.Request.Context(), id.Int64()); err != nil {
		if errors.Is(err, ErrIDRequired) {
			response.Error(c, http.StatusBadRequest, "id required")
			return
		}
		response.Internal(c, err)
		return
	}
	response.OK(c)
}
