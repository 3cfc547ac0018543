package domain

import "time"

// Order is a repair request (заявка на ремонт).
// Client fields are copied from the intake form at creation time and are
// never re-read from the clients table.
type Order struct {
	// Внутренний ID, используется в order_users и order_status_history
	ID int64 `gorm:"primaryKey"`
	// Внешний ID, присваивается фронтендом
	OrderID string `gorm:"column:order_id;size:64;not null;uniqueIndex"`

	ClientName    string `gorm:"size:255;not null"`
	ClientAddress string `gorm:"type:text;not null"`
	ClientPhone   string `gorm:"size:50;not null"`

	DeviceType   string `gorm:"size:100;not null"`
	DeviceModel  string `gorm:"size:255;not null"`
	SerialNumber string `gorm:"size:255;not null"`
	Issue        string `gorm:"type:text;not null"`
	Appearance   string `gorm:"type:text;not null"`
	Accessories  string `gorm:"type:text;not null"`

	Status     string `gorm:"size:50;not null;index"`
	Priority   string `gorm:"size:50;not null"`
	RepairType string `gorm:"size:50;not null"`

	CreatedAt   time.Time `gorm:"index"`
	CreatedTime string    `gorm:"size:50;not null"`
	Price       *float64  `gorm:"type:numeric(10,2)"`
	Master      *string   `gorm:"size:255"`

	// JSON-массив записей истории, хранится как есть
	History           string  `gorm:"type:text;not null"`
	RepairDescription *string `gorm:"type:text"`

	StatusDeadline  *time.Time
	StatusChangedAt *time.Time
	// Пересчитывается только при смене статуса через PUT
	IsOverdue bool `gorm:"not null"`

	UpdatedAt time.Time
}

func (Order) TableName() string { return "orders" }
