package repository

import (
	"context"

	"gorm.io/gorm"
)

// TxRunner runs a function inside one gorm transaction. gorm commits when fn
// returns nil and rolls back on error or panic, which gives the ledger engine
// its commit-or-rollback-on-every-exit-path guarantee.
type TxRunner struct {
	db *gorm.DB
}

func NewTxRunner(db *gorm.DB) *TxRunner {
	return &TxRunner{db: db}
}

func (r *TxRunner) Transaction(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return r.db.WithContext(ctx).Transaction(fn)
}
