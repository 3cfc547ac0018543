package domain

import "time"

// Known staff roles. The column itself is free text.
const (
	RoleDirector = "director"
	RoleManager  = "manager"
	RoleMaster   = "master"
)

type User struct {
	ID           int64     `json:"id" gorm:"primaryKey"`
	Username     string    `json:"username" gorm:"size:100;not null;uniqueIndex"`
	PasswordHash string    `json:"-" gorm:"size:255"`
	FullName     string    `json:"fullName" gorm:"size:255;not null"`
	Role         string    `json:"role" gorm:"size:50;not null"`
	AvatarURL    *string   `json:"-" gorm:"type:text"`
	CreatedAt    time.Time `json:"-"`
}

func (User) TableName() string { return "users" }
