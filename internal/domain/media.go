package domain

import "time"

// MediaState tracks whether the blob behind a metadata row was written.
type MediaState string

const (
	MediaStatePending MediaState = "pending"
	MediaStateStored  MediaState = "stored"
)

type OrderMedia struct {
	ID          int64      `gorm:"primaryKey"`
	OrderID     string     `gorm:"size:64;not null;index"`
	ObjectKey   string     `gorm:"size:512;not null"`
	FileURL     string     `gorm:"type:text;not null"`
	FileType    string     `gorm:"size:20;not null"`
	FileName    string     `gorm:"size:255;not null"`
	FileSize    int64      `gorm:"not null"`
	UploadedBy  *string    `gorm:"size:255"`
	UploadedAt  time.Time  `gorm:"index"`
	Description string     `gorm:"type:text"`
	State       MediaState `gorm:"size:16;not null;index"`
}

func (OrderMedia) TableName() string { return "order_media" }
