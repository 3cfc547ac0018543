package media

import (
	"errors"
	"io"
	"net/http"

	"repairdesk/internal/middleware"
	"repairdesk/internal/pkg/flexid"
	"repairdesk/internal/pkg/response"

	"github.com/gin-gonic/gin"
)

const (
	actionAvatar       = "avatar"
	actionDeleteAvatar = "delete-avatar"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	g := r.Group("/media")
	g.OPTIONS("", middleware.Preflight(
		[]string{http.MethodGet, http.MethodPost, http.MethodDelete},
		middleware.IdentityHeaders,
	))
	g.GET("", h.List)
	g.POST("", h.Post)
	g.DELETE("", h.Delete)
}

// List GET /media?orderId=
func (h *Handler) List(c *gin.Context) {
	items, err := h.svc.List(c.Request.Context(), c.Query("orderId"))
	if err != nil {
		if errors.Is(err, ErrOrderIDRequired) {
			response.Error(c, http.StatusBadRequest, "orderId is required")
			return
		}
		response.Internal(c, err)
		return
	}
	response.Success(c, http.StatusOK, items)
}

// Post POST /media[?action=avatar|delete-avatar]
func (h *Handler) Post(c *gin.Context) {
	switch c.Query("action") {
	case "":
		h.Upload(c)
	case actionAvatar:
		h.SetAvatar(c)
	case actionDeleteAvatar:
		h.ClearAvatar(c)
	default:
		response.Error(c, http.StatusBadRequest, "Unknown action")
	}
}

func (h *Handler) Upload(c *gin.Context) {
	var req UploadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	saved, err := h.svc.Upload(c.Request.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, ErrMissingFields):
			response.Error(c, http.StatusBadRequest, "Missing required fields")
		case errors.Is(err, ErrInvalidFileData):
			response.Error(c, http.StatusBadRequest, "Invalid fileData")
		case errors.Is(err, ErrInvalidOrderID):
			response.Error(c, http.StatusBadRequest, "Invalid orderId")
		default:
			// клиент показывает текст ошибки как есть
			_ = c.Error(err)
			response.Error(c, http.StatusInternalServerError, err.Error())
		}
		return
	}
	response.Success(c, http.StatusCreated, saved)
}

// Delete DELETE /media?id= or body {"id": ...}
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
		switch {
		case errors.Is(err, ErrIDRequired):
			response.Error(c, http.StatusBadRequest, "id required")
		case errors.Is(err, ErrMediaNotFound):
			response.Error(c, http.StatusNotFound, "Media not found")
		default:
			response.Internal(c, err)
		}
		return
	}
	response.OK(c)
}

func (h *Handler) SetAvatar(c *gin.Context) {
	var req AvatarRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	saved, err := h.svc.SetAvatar(c.Request.Context(), req)
	if err != nil {
		h.avatarFail(c, err)
		return
	}
	response.Success(c, http.StatusOK, saved)
}

func (h *Handler) ClearAvatar(c *gin.Context) {
	var req AvatarRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := h.svc.ClearAvatar(c.Request.Context(), req.UserID.Int64()); err != nil {
		h.avatarFail(c, err)
		return
	}
	response.OK(c)
}

func (h *Handler) avatarFail(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrAvatarFieldsMissing):
		response.Error(c, http.StatusBadRequest, "userId, fileData and fileName required")
	case errors.Is(err, ErrUserIDRequired):
		response.Error(c, http.StatusBadRequest, "userId required")
	case errors.Is(err, ErrInvalidFileData):
		response.Error(c, http.StatusBadRequest, "Invalid fileData")
	case errors.Is(err, ErrUserNotFound):
		response.Error(c, http.StatusNotFound, "User not found")
	default:
		response.Internal(c, err)
	}
}
