package model

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	TransactionTypeDeposit          = "DEPOSIT"
	TransactionTypeWithdraw         = "WITHDRAW"
	TransactionTypeTransferInternal = "TRANSFER_INTERNAL"
	TransactionTypeTransferExternal = "TRANSFER_EXTERNAL"
)

// Transaction is one immutable ledger record.
//
// Rows are append-only: never updated, never deleted. Each row is created by
// the ledger engine in the same database transaction that moved the money, so
// the sum of signed amounts per account always reconciles with the balance.
//
// OriginID holds the debited account for withdrawals and transfers, and the
// depositing account for deposits (a deposit has no separate origin concept,
// the slot doubles as the primary-account reference). DestinationID is set
// only for internal transfers; external transfers instead carry the
// denormalized destination bank fields.
type Transaction struct {
	ID            string          `gorm:"type:varchar(36);primaryKey" json:"id"`
	TransactionNo string          `gorm:"type:varchar(64);uniqueIndex;not null" json:"transaction_no"`
	Type          string          `gorm:"type:varchar(20);not null" json:"type"`
	Amount        decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"amount"`
	OriginID      *string         `gorm:"type:varchar(36);index" json:"origin_id,omitempty"`
	DestinationID *string         `gorm:"type:varchar(36);index" json:"destination_id,omitempty"`

	// Balance of the origin account right after this operation committed.
	PostBalance decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"post_balance"`

	// External-transfer destination, denormalized ("code - name" for the bank).
	DestinationBank    string `gorm:"type:varchar(255)" json:"destination_bank,omitempty"`
	DestinationBranch  string `gorm:"type:varchar(20)" json:"destination_branch,omitempty"`
	DestinationAccount string `gorm:"type:varchar(50)" json:"destination_account,omitempty"`
	RecipientTaxID     string `gorm:"type:varchar(14)" json:"recipient_tax_id,omitempty"`

	Timestamp time.Time `gorm:"autoCreateTime;index" json:"timestamp"`
}

func (Transaction) TableName() string {
	return "ledger_transaction"
}

// SignedAmountFor returns the amount this record contributes to the given
/// account's balance: positive for money in, negative for money out, zero when
// the record does not touch the account.
func (t *Transaction) SignedAmountFor(accountID string) decimal.Decimal {
	if t.OriginID != nil && *t.OriginID == accountID {
		if t.Type == TransactionTypeDeposit {
			return t.Amount
		}
		return t.Amount.Neg()
	}
	if t.DestinationID != nil && *t.DestinationID == accountID {
		return t.Amount
	}
	return decimal.Zero
}
