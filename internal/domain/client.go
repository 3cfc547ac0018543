package domain

import "time"

// Client is a customer of the shop. Phone is the natural key: creating a
// client with a known phone updates the existing row.
type Client struct {
	ID        int64     `json:"id" gorm:"primaryKey"`
	FullName  string    `json:"fullName" gorm:"size:255;not null"`
	Phone     string    `json:"phone" gorm:"size:50;not null;uniqueIndex"`
	Address   *string   `json:"address"`
	Email     *string   `json:"email" gorm:"size:255"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	Devices []ClientDevice `json:"devices" gorm:"foreignKey:ClientID"`
}

func (Client) TableName() string { return "clients" }

// ClientDevice is a device a client brought in at least once.
type ClientDevice struct {
	ID           int64     `json:"id" gorm:"primaryKey"`
	ClientID     int64     `json:"-" gorm:"not null;index"`
	DeviceType   string    `json:"deviceType" gorm:"size:100;not null"`
	DeviceModel  *string   `json:"deviceModel" gorm:"size:255"`
	SerialNumber *string   `json:"serialNumber" gorm:"size:255;index"`
	CreatedAt    time.Time `json:"-"`
}

func (ClientDevice) TableName() string { return "client_devices" }
