package domain

import "time"

// OrderChatMessage is keyed by the external order id.
type OrderChatMessage struct {
	ID        int64     `gorm:"primaryKey"`
	OrderID   string    `gorm:"size:64;not null;index"`
	UserID    int64     `gorm:"not null"`
	UserName  string    `gorm:"size:255;not null"`
	Message   string    `gorm:"type:text;not null"`
	CreatedAt time.Time `gorm:"index"`
	IsRead    bool      `gorm:"not null"`
}

func (OrderChatMessage) TableName() string { return "order_chat_messages" }
