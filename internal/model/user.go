package model

import (
	"time"
)

const (
	UserRoleUser  = "USER"
	UserRoleAdmin = "ADMIN"
)

// User is an authenticated actor. The password is stored as a bcrypt hash and
// never serialized.
type User struct {
	ID           string    `gorm:"type:varchar(36);primaryKey" json:"id"`
	Name         string    `gorm:"type:varchar(255);not null" json:"name"`
	Email        string    `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	PasswordHash string    `gorm:"type:varchar(255);not null" json:"-"`
	TaxID        string    `gorm:"type:varchar(14);uniqueIndex;not null" json:"tax_id"`
	Role         string    `gorm:"type:varchar(10);not null;default:USER" json:"role"`
	CreatedAt    time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (User) TableName() string {
	return "user"
}

func (u *User) IsAdmin() bool {
	return u.Role == UserRoleAdmin
}
