package repository

import (
	"context"
	"time"

	"repairdesk/internal/domain"

	"gorm.io/gorm"
)

type ChatRepository struct {
	db *gorm.DB
}

func NewChatRepository(db *gorm.DB) *ChatRepository {
	return &ChatRepository{db: db}
}

// MessageRow is a chat message joined with the sender's avatar.
type MessageRow struct {
	ID        int64
	OrderID   string
	UserID    int64
	UserName  string
	Message   string
	CreatedAt time.Time
	IsRead    bool
	AvatarURL *string
}

func (r *ChatRepository) Create(ctx context.Context, m *domain.OrderChatMessage) error {
	return r.db.WithContext(ctx).Create(m).Error
}

// ListByOrder returns messages oldest first.
func (r *ChatRepository) ListByOrder(ctx context.Context, orderID string) ([]MessageRow, error) {
	var rows []MessageRow
	err := r.db.WithContext(ctx).
		Table("order_chat_messages AS m").
		Select(`m.id AS id, m.order_id AS order_id, m.user_id AS user_id, m.user_name AS user_name,
			m.message AS message, m.created_at AS created_at, m.is_read AS is_read, u.avatar_url AS avatar_url`).
		Joins("LEFT JOIN users u ON u.id = m.user_id").
		Where("m.order_id = ?", orderID).
		Order("m.created_at ASC").
		Order("m.id ASC").
		Scan(&rows).Error
	return rows, err
}

func (r *ChatRepository) AvatarURL(ctx context.Context, userID int64) (*string, error) {
	var u domain.User
	err := r.db.WithContext(ctx).Select("avatar_url").Where("id = ?", userID).Limit(1).Find(&u).Error
	if err != nil {
		return nil, err
	}
	return u.AvatarURL, nil
}

// SearchOrderIDs returns distinct order ids with a message containing q,
// ignoring case.
func (r *ChatRepository) SearchOrderIDs(ctx context.Context, q string) ([]string, error) {
	ids := make([]string, 0)
	err := r.db.WithContext(ctx).
		Model(&domain.OrderChatMessage{}).
		Distinct("order_id").
		Where(`LOWER(message) LIKE ? ESCAPE '\'`, containsPattern(q)).
		Order("order_id").
		Pluck("order_id", &ids).Error
	return ids, err
}
