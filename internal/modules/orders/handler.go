package orders

import (
	"errors"
	"net/http"
	"strings"

	"repairdesk/internal/middleware"
	"repairdesk/internal/pkg/response"

	"github.com/gin-gonic/gin"
)

const (
	actionChat       = "chat"
	actionSearchChat = "search-chat"
)

type Handler struct {
	svc  *Service
	chat *ChatService
	hub  *Hub
}

func NewHandler(svc *Service, chat *ChatService, hub *Hub) *Handler {
	return &Handler{svc: svc, chat: chat, hub: hub}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	g := r.Group("/orders")
	g.OPTIONS("", middleware.Preflight(
		[]string{http.MethodGet, http.MethodPost, http.MethodPut},
		middleware.IdentityHeaders,
	))
	g.GET("", h.Get)
	g.POST("", h.Post)
	g.PUT("", h.UpdateStatus)

	g.OPTIONS("/history", middleware.Preflight([]string{http.MethodGet}, middleware.IdentityHeaders))
	g.GET("/history", h.History)

	g.GET("/chat/ws", h.ChatWS)
}

// Get GET /orders[?action=chat|search-chat]
func (h *Handler) Get(c *gin.Context) {
	switch c.Query("action") {
	case "":
		h.List(c)
	case actionChat:
		h.ListMessages(c)
	case actionSearchChat:
		h.SearchChat(c)
	default:
		response.Error(c, http.StatusBadRequest, "Unknown action")
	}
}

// Post POST /orders[?action=chat]
func (h *Handler) Post(c *gin.Context) {
	switch c.Query("action") {
	case "":
		h.Create(c)
	case actionChat:
		h.PostMessage(c)
	default:
		response.Error(c, http.StatusBadRequest, "Unknown action")
	}
}

func (h *Handler) List(c *gin.Context) {
	actorID, _ := middleware.CurrentUserID(c)
	items, err := h.svc.List(c.Request.Context(), actorID)
	if err != nil {
		response.Internal(c, err)
		return
	}
	response.Success(c, http.StatusOK, items)
}

func (h *Handler) Create(c *gin.Context) {
	var req CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	actorID, _ := middleware.CurrentUserID(c)
	created, err := h.svc.Create(c.Request.Context(), actorID, req)
	if err != nil {
		h.fail(c, err)
		return
	}
	response.Success(c, http.StatusCreated, created)
}

// UpdateStatus PUT /orders
func (h *Handler) UpdateStatus(c *gin.Context) {
	var req UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	actorID, _ := middleware.CurrentUserID(c)
	updated, err := h.svc.UpdateStatus(c.Request.Context(), actorID, req)
	if err != nil {
		h.fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, updated)
}

// History GET /orders/history?orderId=
func (h *Handler) History(c *gin.Context) {
	items, err := h.svc.History(c.Request.Context(), c.Query("orderId"))
	if err != nil {
		h.fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, items)
}

func (h *Handler) ListMessages(c *gin.Context) {
	items, err := h.chat.List(c.Request.Context(), c.Query("orderId"))
	if err != nil {
		h.fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, items)
}

func (h *Handler) PostMessage(c *gin.Context) {
	var req ChatMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	msg, err := h.chat.Post(c.Request.Context(), req)
	if err != nil {
		h.fail(c, err)
		return
	}
	response.Success(c, http.StatusCreated, msg)
}

func (h *Handler) SearchChat(c *gin.Context) {
	ids, err := h.chat.SearchOrderIDs(c.Request.Context(), c.Query("q"))
	if err != nil {
		response.Internal(c, err)
		return
	}
	response.Success(c, http.StatusOK, ids)
}

// ChatWS GET /orders/chat/ws?orderId=
//
// Браузер не умеет ставить заголовки на websocket, поэтому личность берётся
// из того, что уже положил Identity (токен или X-User-Id на прокси).
func (h *Handler) ChatWS(c *gin.Context) {
	orderID := strings.TrimSpace(c.Query("orderId"))
	if orderID == "" {
		response.Error(c, http.StatusBadRequest, "orderId required")
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		// upgrader already answered with an HTTP error
		return
	}
	userID, _ := middleware.CurrentUserID(c)
	h.hub.ServeWS(conn, orderID, userID)
}

func (h *Handler) fail(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrMissingField):
		response.Error(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, ErrInvalidDeadline):
		response.Error(c, http.StatusBadRequest, "Invalid statusDeadline")
	case errors.Is(err, ErrOrderIDRequired):
		response.Error(c, http.StatusBadRequest, "orderId required")
	case errors.Is(err, ErrChatFieldsNeeded):
		response.Error(c, http.StatusBadRequest, "orderId, userId, userName and message required")
	case errors.Is(err, ErrOrderNotFound):
		response.Error(c, http.StatusNotFound, "Order not found")
	case errors.Is(err, ErrOrderExists):
		response.Error(c, http.StatusConflict, "Order already exists")
	default:
		response.Internal(c, err)
	}
}
