package orders

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
	maxMsgSize = 4 * 1024 // клиенты только читают
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

const EventNewMessage = "new_message"

// Event is pushed to every subscriber of an order's chat.
type Event struct {
	Type    string      `json:"type"`
	OrderID string      `json:"orderId"`
	Payload interface{} `json:"payload,omitempty"`
}

type subscriber struct {
	orderID string
	userID  int64
	conn    *websocket.Conn
	send    chan []byte
}

// Hub fans chat messages out to the websocket clients watching an order.
type Hub struct {
	mu    sync.RWMutex
	rooms map[string]map[*subscriber]struct{}
	log   *zap.Logger
}

func NewHub(log *zap.Logger) *Hub {
	if log == nil {
		log = zap.NewNop()
	}
	return &Hub{
		rooms: make(map[string]map[*subscriber]struct{}),
		log:   log,
	}
}

func (h *Hub) register(s *subscriber) {
	h.mu.Lock()
	defer h.mu.Unlock()
	room, ok := h.rooms[s.orderID]
	if !ok {
		room = make(map[*subscriber]struct{})
		h.rooms[s.orderID] = room
	}
	room[s] = struct{}{}
}

func (h *Hub) unregister(s *subscriber) {
	h.mu.Lock()
	defer h.mu.Unlock()
	room, ok := h.rooms[s.orderID]
	if !ok {
		return
	}
	if _, ok := room[s]; !ok {
		return
	}
	delete(room, s)
	close(s.send)
	if len(room) == 0 {
		delete(h.rooms, s.orderID)
	}
}

// Subscribers returns the number of live connections for an order.
func (h *Hub) Subscribers(orderID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms[orderID])
}

// Broadcast delivers ev to the order's subscribers and returns how many
// accepted it. Slow clients are skipped.
func (h *Hub) Broadcast(orderID string, ev *Event) int {
	data, err := json.Marshal(ev)
	if err != nil {
		h.log.Error("marshal chat event", zap.Error(err))
		return 0
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	delivered := 0
	for s := range h.rooms[orderID] {
		select {
		case s.send <- data:
			delivered++
		default:
		}
	}
	return delivered
}

// ServeWS blocks until the client disconnects.
func (h *Hub) ServeWS(conn *websocket.Conn, orderID string, userID int64) {
	s := &subscriber{
		orderID: orderID,
		userID:  userID,
		conn:    conn,
		send:    make(chan []byte, 64),
	}
	h.register(s)
	h.log.Debug("chat subscriber connected", zap.String("order_id", orderID), zap.Int64("user_id", userID))

	go h.writePump(s)
	h.readPump(s)
}

// Close drops every connection. Used on shutdown.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for id, room := range h.rooms {
		for s := range room {
			close(s.send)
		}
		delete(h.rooms, id)
	}
}

// readPump only drains control frames; chat messages are posted over HTTP.
func (h *Hub) readPump(s *subscriber) {
	defer func() {
		h.unregister(s)
		s.conn.Close()
		h.log.Debug("chat subscriber disconnected", zap.String("order_id", s.orderID), zap.Int64("user_id", s.userID))
	}()

	s.conn.SetReadLimit(maxMsgSize)
	_ = s.conn.SetReadDeadline(time.Now().Add(pongWait))
	s.conn.SetPongHandler(func(string) error {
		return s.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := s.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				h.log.Debug("chat websocket read", zap.Error(err))
			}
			return
		}
	}
}

func (h *Hub) writePump(s *subscriber) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		s.conn.Close()
	}()

	for {
		select {
		case msg, ok := <-s.send:
			_ = s.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = s.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := s.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		case <-ticker.C:
			_ = s.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := s.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
