package orders

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"repairdesk/internal/domain"
	"repairdesk/internal/metrics"
	"repairdesk/internal/repository"

	"go.uber.org/zap"
)

const minChatQueryLen = 2

// ChatService stores order chat messages and pushes new ones to the hub.
type ChatService struct {
	chat *repository.ChatRepository
	hub  *Hub
	log  *zap.Logger
	now  func() time.Time
}

func NewChatService(chat *repository.ChatRepository, hub *Hub, log *zap.Logger) *ChatService {
	if log == nil {
		log = zap.NewNop()
	}
	return &ChatService{chat: chat, hub: hub, log: log, now: time.Now}
}

func (s *ChatService) List(ctx context.Context, orderID string) ([]ChatMessageResponse, error) {
	orderID = strings.TrimSpace(orderID)
	if orderID == "" {
		return nil, ErrOrderIDRequired
	}
	rows, err := s.chat.ListByOrder(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("list chat messages: %w", err)
	}
	out := make([]ChatMessageResponse, 0, len(rows))
	for _, r := range rows {
		out = append(out, toChatResponse(r))
	}
	return out, nil
}

func (s *ChatService) Post(ctx context.Context, req ChatMessageRequest) (*ChatMessageResponse, error) {
	orderID := strings.TrimSpace(req.OrderID.String())
	userName := strings.TrimSpace(req.UserName)
	if orderID == "" || req.UserID <= 0 || userName == "" || strings.TrimSpace(req.Message) == "" {
		return nil, ErrChatFieldsNeeded
	}

	m := &domain.OrderChatMessage{
		OrderID:   orderID,
		UserID:    req.UserID.Int64(),
		UserName:  userName,
		Message:   req.Message,
		CreatedAt: s.now(),
		IsRead:    false,
	}
	if err := s.chat.Create(ctx, m); err != nil {
		return nil, fmt.Errorf("insert chat message: %w", err)
	}

	avatar, err := s.chat.AvatarURL(ctx, m.UserID)
	if err != nil {
		// сообщение уже сохранено, аватар не критичен
		s.log.Warn("lookup chat avatar", zap.Int64("user_id", m.UserID), zap.Error(err))
	}

	resp := toChatResponse(repository.MessageRow{
		ID:        m.ID,
		OrderID:   m.OrderID,
		UserID:    m.UserID,
		UserName:  m.UserName,
		Message:   m.Message,
		CreatedAt: m.CreatedAt,
		IsRead:    m.IsRead,
		AvatarURL: avatar,
	})

	metrics.ChatMessages.Inc()
	if s.hub != nil {
		s.hub.Broadcast(orderID, &Event{Type: EventNewMessage, OrderID: orderID, Payload: resp})
	}
	return &resp, nil
}

// SearchOrderIDs returns ids of orders whose chat mentions q. Queries
// shorter than two characters match nothing.
func (s *ChatService) SearchOrderIDs(ctx context.Context, q string) ([]string, error) {
	q = strings.TrimSpace(q)
	if utf8.RuneCountInString(q) < minChatQueryLen {
		return []string{}, nil
	}
	ids, err := s.chat.SearchOrderIDs(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("search chat: %w", err)
	}
	return ids, nil
}
