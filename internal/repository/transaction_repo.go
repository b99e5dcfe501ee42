package repository

import (
	"context"

	"digibank/internal/model"

	"gorm.io/gorm"
)

// TransactionRepository is the gorm-backed Transaction Log. Append-only:
// there are deliberately no update or delete methods.
type TransactionRepository struct {
	db *gorm.DB
}

func NewTransactionRepository(db *gorm.DB) *TransactionRepository {
	return &TransactionRepository{db: db}
}

func (r *TransactionRepository) Append(ctx context.Context, tx *gorm.DB, record *model.Transaction) error {
	if tx == nil {
		tx = r.db
	}
	return tx.WithContext(ctx).Create(record).Error
}

// ListByAccount returns every record touching the account, newest first.
// The transaction number is time-ordered, so it breaks timestamp ties in
// reverse insertion order.
func (r *TransactionRepository) ListByAccount(ctx context.Context, accountID string) ([]*model.Transaction, error) {
	var records []*model.Transaction
	err := r.db.WithContext(ctx).
		Where("origin_id = ? OR destination_id = ?", accountID, accountID).
		Order("timestamp DESC, transaction_no DESC").
		Find(&records).Error
	return records, err
}

func (r *TransactionRepository) GetByTransactionNo(ctx context.Context, transactionNo string) (*model.Transaction, error) {
	var record model.Transaction
	err := r.db.WithContext(ctx).Where("transaction_no = ?", transactionNo).First(&record).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &record, nil
}
