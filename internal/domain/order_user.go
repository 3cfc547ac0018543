package domain

import "time"

const (
	OrderUserRoleCreator  = "creator"
	OrderUserRoleAssigned = "assigned"
)

// OrderUser links a user to an order with a free-form role tag.
type OrderUser struct {
	ID      int64     `gorm:"primaryKey"`
	OrderID int64     `gorm:"not null;uniqueIndex:idx_order_users_pair"`
	UserID  int64     `gorm:"not null;uniqueIndex:idx_order_users_pair;index"`
	Role    string    `gorm:"size:50;not null"`
	AddedAt time.Time `gorm:"autoCreateTime"`
}

func (OrderUser) TableName() string { return "order_users" }
