package domain

import "time"

// StatusHistory is one append-only row per order status change.
type StatusHistory struct {
	ID            int64     `json:"id" gorm:"primaryKey"`
	OrderID       int64     `json:"-" gorm:"not null;index"`
	OldStatus     string    `json:"oldStatus" gorm:"size:50"`
	NewStatus     string    `json:"newStatus" gorm:"size:50;not null"`
	ChangedBy     *string   `json:"changedBy" gorm:"size:255"`
	DurationHours *float64  `json:"durationHours" gorm:"type:numeric(10,2)"`
	WasOverdue    bool      `json:"wasOverdue" gorm:"not null"`
	ChangedAt     time.Time `json:"changedAt" gorm:"not null"`
}

func (StatusHistory) TableName() string { return "order_status_history" }
