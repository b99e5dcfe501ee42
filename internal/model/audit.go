package model

import (
	"time"
)

// AuditLog records one API call. Written by the audit middleware after the
// handler ran, outside any ledger transaction.
type AuditLog struct {
	ID        string    `gorm:"type:varchar(36);primaryKey" json:"id"`
	UserID    *string   `gorm:"type:varchar(36);index" json:"user_id,omitempty"`
	Endpoint  string    `gorm:"type:varchar(255);not null" json:"endpoint"`
	Method    string    `gorm:"type:varchar(10);not null" json:"method"`
	Payload   string    `gorm:"type:text" json:"payload"`
	CreatedAt time.Time `gorm:"autoCreateTime;index" json:"created_at"`
}

func (AuditLog) TableName() string {
	return "audit_log"
}
