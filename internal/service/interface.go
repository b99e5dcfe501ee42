package service

import (
	"context"
	"errors"

	"digibank/internal/model"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Storage interfaces consumed by the services. The gorm implementations live
// in internal/repository; tests substitute in-memory fakes. Methods that can
// run inside the atomic unit take a tx handle — nil means "outside any
// transaction", matching the repository convention.
//
// Find* methods return (nil, nil) when the row is absent; the services turn
// absence into the caller-facing error kind.

// AccountStore persists accounts.
type AccountStore interface {
	FindByID(ctx context.Context, tx *gorm.DB, id string) (*model.Account, error)
	// FindByIDForUpdate loads the row with a FOR UPDATE lock. Only valid
	// inside a transaction.
	FindByIDForUpdate(ctx context.Context, tx *gorm.DB, id string) (*model.Account, error)
	FindByUserID(ctx context.Context, tx *gorm.DB, userID string) (*model.Account, error)
	Create(ctx context.Context, tx *gorm.DB, account *model.Account) error
	UpdateBalance(ctx context.Context, tx *gorm.DB, id string, balance decimal.Decimal) error
	UpdateStatus(ctx context.Context, tx *gorm.DB, id string, status string) error
}

// TransactionLog is the append-only ledger record store.
type TransactionLog interface {
	Append(ctx context.Context, tx *gorm.DB, record *model.Transaction) error
	// ListByAccount returns every record where the account is origin or
	// destination, newest first.
	ListByAccount(ctx context.Context, accountID string) ([]*model.Transaction, error)
}

// OutboxStore enqueues ledger events for the outbox sender.
type OutboxStore interface {
	Enqueue(ctx context.Context, tx *gorm.DB, msg *model.OutboxMessage) error
}

// UserStore persists users.
type UserStore interface {
	FindByID(ctx context.Context, id string) (*model.User, error)
	FindByEmail(ctx context.Context, email string) (*model.User, error)
	FindByTaxID(ctx context.Context, taxID string) (*model.User, error)
	Create(ctx context.Context, user *model.User) error
}

// TxRunner scopes a function to one database transaction: commit on nil
// return, full rollback on error or panic.
type TxRunner interface {
	Transaction(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Bank is a resolved bank directory entry.
type Bank struct {
	ISPB     string `json:"ispb"`
	Name     string `json:"name"`
	Code     int    `json:"code"`
	FullName string `json:"fullName"`
}

// Gateway-level outcomes a BankDirectory implementation reports.
var (
	ErrBankNotFound     = errors.New("bank code not found")
	ErrDirectoryTimeout = errors.New("bank directory timeout")
)

// BankDirectory resolves bank codes for external transfers. Resolve fails
// with ErrBankNotFound for unknown codes and ErrDirectoryTimeout when the
// upstream call exceeds its deadline.
type BankDirectory interface {
	Resolve(ctx context.Context, bankCode string) (*Bank, error)
}
