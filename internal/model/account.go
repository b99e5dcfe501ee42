package model

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	AccountStatusActive   = "ACTIVE"
	AccountStatusInactive = "INACTIVE"
)

// ValidAccountStatus reports whether s is a known account status.
func ValidAccountStatus(s string) bool {
	return s == AccountStatusActive || s == AccountStatusInactive
}

// Account holds a user's balance. One account per user, identified externally
// by an opaque account number. The balance is only mutated by the ledger
// engine inside a database transaction; it never goes negative at rest.
type Account struct {
	ID        string          `gorm:"type:varchar(36);primaryKey" json:"id"`
	Number    string          `gorm:"type:varchar(36);uniqueIndex;not null" json:"number"`
	Balance   decimal.Decimal `gorm:"type:decimal(10,2);not null;default:0" json:"balance"`
	Status    string          `gorm:"type:varchar(10);not null;default:ACTIVE" json:"status"`
	UserID    string          `gorm:"type:varchar(36);uniqueIndex;not null" json:"user_id"`
	CreatedAt time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Account) TableName() string {
	return "account"
}

func (a *Account) IsActive() bool {
	return a.Status == AccountStatusActive
}
