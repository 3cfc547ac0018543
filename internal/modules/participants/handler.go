package participants

import (
	"context"
	"errors"
	"net/http"

	"repairdesk/internal/middleware"
	"repairdesk/internal/modules/users"
	"repairdesk/internal/pkg/response"

	"github.com/gin-gonic/gin"
)

// UserLister backs the ?listUsers=true shortcut used by the assignment
// dialog.
type UserLister interface {
	List(ctx context.Context) ([]users.UserResponse, error)
}

type Handler struct {
	svc   *Service
	users UserLister
}

func NewHandler(svc *Service, users UserLister) *Handler {
	return &Handler{svc: svc, users: users}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	g := r.Group("/order-users")
	g.OPTIONS("", middleware.Preflight(
		[]string{http.MethodGet, http.MethodPost, http.MethodDelete},
		middleware.IdentityHeaders,
	))
	g.GET("", h.List)
	g.POST("", h.Add)
	g.DELETE("", h.Remove)
}

// List GET /order-users?orderId= or ?listUsers=true
func (h *Handler) List(c *gin.Context) {
	if c.Query("listUsers") == "true" && h.users != nil {
		items, err := h.users.List(c.Request.Context())
		if err != nil {
			response.Internal(c, err)
			return
		}
		response.Success(c, http.StatusOK, items)
		return
	}

	items, err := h.svc.List(c.Request.Context(), c.Query("orderId"))
	if err != nil {
		h.fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, items)
}

// Add POST /order-users
func (h *Handler) Add(c *gin.Context) {
	var req AddRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	created, err := h.svc.Add(c.Request.Context(), req)
	if err != nil {
		h.fail(c, err)
		return
	}
	if created {
		response.Message(c, http.StatusCreated, "User added to order")
		return
	}
	response.Message(c, http.StatusOK, "User already in order")
}

// Remove DELETE /order-users
func (h *Handler) Remove(c *gin.Context) {
	var req RemoveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "orderId and userId required")
		return
	}

	if err := h.svc.Remove(c.Request.Context(), req); err != nil {
		h.fail(c, err)
		return
	}
	response.Message(c, http.StatusOK, "User removed from order")
}

func (h *Handler) fail(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrOrderIDRequired):
		response.Error(c, http.StatusBadRequest, "orderId required")
	case errors.Is(err, ErrOrderAndUserNeeded):
		response.Error(c, http.StatusBadRequest, "orderId and userId required")
	case errors.Is(err, ErrOrderNotFound):
		response.Error(c, http.StatusNotFound, "Order not found")
	default:
		response.Internal(c, err)
	}
}
