package domain

// DeviceType is a catalog entry shown in the intake form.
type DeviceType struct {
	ID       int64  `json:"id" gorm:"primaryKey"`
	Name     string `json:"name" gorm:"size:100;not null"`
	Category string `json:"category" gorm:"size:100;not null;index"`
}

func (DeviceType) TableName() string { return "device_types" }
