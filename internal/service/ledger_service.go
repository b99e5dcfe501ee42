package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"digibank/internal/model"
	"digibank/pkg/idgen"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// LedgerService is the transaction engine: every balance mutation in the
// system goes through one of its operations. Each mutating operation runs
// validation first, then a single database transaction that re-reads the
// account rows under FOR UPDATE locks, writes the new balances, appends
// exactly one ledger record and enqueues one outbox event. The transaction
// commits or rolls back as a whole, so balances and the ledger can never
// drift apart.
type LedgerService struct {
	runner     TxRunner
	accounts   AccountStore
	ledger     TransactionLog
	outbox     OutboxStore
	bankDir    BankDirectory
	eventTopic string
}

func NewLedgerService(
	runner TxRunner,
	accounts AccountStore,
	ledger TransactionLog,
	outbox OutboxStore,
	bankDir BankDirectory,
	eventTopic string,
) *LedgerService {
	return &LedgerService{
		runner:     runner,
		accounts:   accounts,
		ledger:     ledger,
		outbox:     outbox,
		bankDir:    bankDir,
		eventTopic: eventTopic,
	}
}

// Deposit credits amount to the caller's account.
func (s *LedgerService) Deposit(ctx context.Context, accountID string, amount decimal.Decimal, callerID string) (*model.Transaction, error) {
	if _, err := s.loadOwnedActive(ctx, accountID, callerID, "deposit into"); err != nil {
		return nil, err
	}
	if err := validateAmount(amount); err != nil {
		return nil, err
	}

	var record *model.Transaction
	err := s.runner.Transaction(ctx, func(tx *gorm.DB) error {
		account, err := s.lockAccount(ctx, tx, accountID)
		if err != nil {
			return err
		}

		newBalance := account.Balance.Add(amount)
		if err := s.accounts.UpdateBalance(ctx, tx, account.ID, newBalance); err != nil {
			return err
		}

		record = s.newRecord(model.TransactionTypeDeposit, amount, account.ID, newBalance)
		if err := s.ledger.Append(ctx, tx, record); err != nil {
			return err
		}
		return s.enqueueEvent(ctx, tx, record)
	})
	if err != nil {
		return nil, s.commitError(err)
	}
	return record, nil
}

// Withdraw debits amount from the caller's account.
func (s *LedgerService) Withdraw(ctx context.Context, accountID string, amount decimal.Decimal, callerID string) (*model.Transaction, error) {
	if _, err := s.loadOwnedActive(ctx, accountID, callerID, "withdraw from"); err != nil {
		return nil, err
	}
	if err := validateAmount(amount); err != nil {
		return nil, err
	}

	var record *model.Transaction
	err := s.runner.Transaction(ctx, func(tx *gorm.DB) error {
		account, err := s.lockAccount(ctx, tx, accountID)
		if err != nil {
			return err
		}
		if account.Balance.LessThan(amount) {
			return fmt.Errorf("%w: balance %s, requested %s", ErrInsufficientFunds, account.Balance, amount)
		}

		newBalance := account.Balance.Sub(amount)
		if err := s.accounts.UpdateBalance(ctx, tx, account.ID, newBalance); err != nil {
			return err
		}

		record = s.newRecord(model.TransactionTypeWithdraw, amount, account.ID, newBalance)
		if err := s.ledger.Append(ctx, tx, record); err != nil {
			return err
		}
		return s.enqueueEvent(ctx, tx, record)
	})
	if err != nil {
		return nil, s.commitError(err)
	}
	return record, nil
}

// TransferInternal moves amount between two accounts of this ledger. The
// caller must own the origin; the destination only needs to be ACTIVE —
// any active account may receive. Both balance mutations and the single
// ledger record commit as one unit.
func (s *LedgerService) TransferInternal(ctx context.Context, originID, destinationID string, amount decimal.Decimal, callerID string) (*model.Transaction, error) {
	if err := validateAmount(amount); err != nil {
		return nil, err
	}
	if originID == destinationID {
		return nil, fmt.Errorf("%w: origin and destination accounts are the same", ErrInvalidInput)
	}
	if _, err := s.loadOwnedActive(ctx, originID, callerID, "transfer from"); err != nil {
		return nil, err
	}

	destination, err := s.accounts.FindByID(ctx, nil, destinationID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStorageFailure, err)
	}
	if destination == nil {
		return nil, fmt.Errorf("%w: destination account not found", ErrNotFound)
	}
	if !destination.IsActive() {
		return nil, fmt.Errorf("%w: destination account is not active", ErrInvalidState)
	}

	var record *model.Transaction
	err = s.runner.Transaction(ctx, func(tx *gorm.DB) error {
		// Lock the pair in id order so two opposite transfers between the
		// same accounts cannot deadlock.
		firstID, secondID := originID, destinationID
		if secondID < firstID {
			firstID, secondID = secondID, firstID
		}
		first, err := s.lockAccount(ctx, tx, firstID)
		if err != nil {
			return err
		}
		second, err := s.lockAccount(ctx, tx, secondID)
		if err != nil {
			return err
		}

		origin, dest := first, second
		if origin.ID != originID {
			origin, dest = second, first
		}

		if origin.Balance.LessThan(amount) {
			return fmt.Errorf("%w: balance %s, requested %s", ErrInsufficientFunds, origin.Balance, amount)
		}

		originBalance := origin.Balance.Sub(amount)
		destBalance := dest.Balance.Add(amount)
		if err := s.accounts.UpdateBalance(ctx, tx, origin.ID, originBalance); err != nil {
			return err
		}
		if err := s.accounts.UpdateBalance(ctx, tx, dest.ID, destBalance); err != nil {
			return err
		}

		record = s.newRecord(model.TransactionTypeTransferInternal, amount, origin.ID, originBalance)
		record.DestinationID = &dest.ID
		if err := s.ledger.Append(ctx, tx, record); err != nil {
			return err
		}
		return s.enqueueEvent(ctx, tx, record)
	})
	if err != nil {
		return nil, s.commitError(err)
	}
	return record, nil
}

// ExternalTransferInput carries the destination of a transfer leaving this
// ledger: bank code resolved through the directory, plus branch, account
// number and recipient tax id as the receiving bank knows them.
type ExternalTransferInput struct {
	BankCode       string
	Branch         string
	AccountNumber  string
	RecipientTaxID string
}

// TransferExternal debits the caller's account in favor of an account at
// another institution. The bank code is resolved through the directory
// before the database transaction begins, so a slow or failing directory
// call never holds row locks.
func (s *LedgerService) TransferExternal(ctx context.Context, originID string, amount decimal.Decimal, in ExternalTransferInput, callerID string) (*model.Transaction, error) {
	if err := validateAmount(amount); err != nil {
		return nil, err
	}
	origin, err := s.loadOwnedActive(ctx, originID, callerID, "transfer from")
	if err != nil {
		return nil, err
	}
	if origin.Balance.LessThan(amount) {
		return nil, fmt.Errorf("%w: balance %s, requested %s", ErrInsufficientFunds, origin.Balance, amount)
	}

	branch := strings.TrimSpace(in.Branch)
	accountNumber := strings.TrimSpace(in.AccountNumber)
	recipientTaxID := strings.TrimSpace(in.RecipientTaxID)
	if branch == "" {
		return nil, fmt.Errorf("%w: destination branch is required", ErrInvalidInput)
	}
	if accountNumber == "" {
		return nil, fmt.Errorf("%w: destination account number is required", ErrInvalidInput)
	}
	if recipientTaxID == "" {
		return nil, fmt.Errorf("%w: recipient tax id is required", ErrInvalidInput)
	}

	bank, err := s.bankDir.Resolve(ctx, in.BankCode)
	if err != nil {
		switch {
		case errors.Is(err, ErrBankNotFound):
			return nil, fmt.Errorf("%w: bank with code %s not found", ErrInvalidInput, in.BankCode)
		case errors.Is(err, ErrDirectoryTimeout):
			return nil, fmt.Errorf("%w: bank directory timed out validating code %s", ErrInvalidInput, in.BankCode)
		default:
			return nil, fmt.Errorf("%w: %v", ErrGatewayFailure, err)
		}
	}

	var record *model.Transaction
	err = s.runner.Transaction(ctx, func(tx *gorm.DB) error {
		locked, err := s.lockAccount(ctx, tx, originID)
		if err != nil {
			return err
		}
		if locked.Balance.LessThan(amount) {
			return fmt.Errorf("%w: balance %s, requested %s", ErrInsufficientFunds, locked.Balance, amount)
		}

		newBalance := locked.Balance.Sub(amount)
		if err := s.accounts.UpdateBalance(ctx, tx, locked.ID, newBalance); err != nil {
			return err
		}

		record = s.newRecord(model.TransactionTypeTransferExternal, amount, locked.ID, newBalance)
		record.DestinationBank = fmt.Sprintf("%s - %s", in.BankCode, bank.Name)
		record.DestinationBranch = branch
		record.DestinationAccount = accountNumber
		record.RecipientTaxID = recipientTaxID
		if err := s.ledger.Append(ctx, tx, record); err != nil {
			return err
		}
		return s.enqueueEvent(ctx, tx, record)
	})
	if err != nil {
		return nil, s.commitError(err)
	}
	return record, nil
}

// GetHistory returns every ledger record touching the caller's account,
// newest first. Read-only; re-querying without intervening mutations yields
// the same sequence.
func (s *LedgerService) GetHistory(ctx context.Context, accountID, callerID string) ([]*model.Transaction, error) {
	account, err := s.accounts.FindByID(ctx, nil, accountID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStorageFailure, err)
	}
	if account == nil {
		return nil, fmt.Errorf("%w: account not found", ErrNotFound)
	}
	if account.UserID != callerID {
		return nil, fmt.Errorf("%w: you can only view the history of your own account", ErrForbidden)
	}

	records, err := s.ledger.ListByAccount(ctx, accountID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStorageFailure, err)
	}
	return records, nil
}

// loadOwnedActive fetches the account and runs the shared preconditions:
// exists, owned by the caller, ACTIVE. Runs outside the atomic unit, so
// validation failures never touch storage.
func (s *LedgerService) loadOwnedActive(ctx context.Context, accountID, callerID, verb string) (*model.Account, error) {
	account, err := s.accounts.FindByID(ctx, nil, accountID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStorageFailure, err)
	}
	if account == nil {
		return nil, fmt.Errorf("%w: account not found", ErrNotFound)
	}
	if account.UserID != callerID {
		return nil, fmt.Errorf("%w: you can only %s your own account", ErrForbidden, verb)
	}
	if !account.IsActive() {
		return nil, fmt.Errorf("%w: account is not active", ErrInvalidState)
	}
	return account, nil
}

// lockAccount re-reads an account under a FOR UPDATE lock inside tx.
func (s *LedgerService) lockAccount(ctx context.Context, tx *gorm.DB, accountID string) (*model.Account, error) {
	account, err := s.accounts.FindByIDForUpdate(ctx, tx, accountID)
	if err != nil {
		return nil, err
	}
	if account == nil {
		return nil, fmt.Errorf("%w: account not found", ErrNotFound)
	}
	return account, nil
}

func (s *LedgerService) newRecord(txType string, amount decimal.Decimal, originID string, postBalance decimal.Decimal) *model.Transaction {
	origin := originID
	return &model.Transaction{
		ID:            uuid.NewString(),
		TransactionNo: idgen.GenerateTransactionNo(),
		Type:          txType,
		Amount:        amount,
		OriginID:      &origin,
		PostBalance:   postBalance,
		Timestamp:     time.Now(),
	}
}

// enqueueEvent writes the ledger event into the outbox within the same
// transaction as the record it describes.
func (s *LedgerService) enqueueEvent(ctx context.Context, tx *gorm.DB, record *model.Transaction) error {
	payload, err := json.Marshal(map[string]interface{}{
		"transaction_no": record.TransactionNo,
		"type":           record.Type,
		"amount":         record.Amount,
		"origin_id":      record.OriginID,
		"destination_id": record.DestinationID,
		"post_balance":   record.PostBalance,
		"timestamp":      record.Timestamp.Format(time.RFC3339Nano),
	})
	if err != nil {
		return err
	}
	return s.outbox.Enqueue(ctx, tx, &model.OutboxMessage{
		MessageKey: record.TransactionNo,
		Topic:      s.eventTopic,
		Payload:    string(payload),
		Status:     model.OutboxStatusPending,
	})
}

// commitError normalizes errors escaping the atomic unit: domain kinds pass
// through untouched, anything else is a storage failure that already rolled
// the unit back.
func (s *LedgerService) commitError(err error) error {
	for _, kind := range []error{ErrNotFound, ErrForbidden, ErrInvalidState, ErrInvalidInput, ErrInsufficientFunds, ErrGatewayFailure} {
		if errors.Is(err, kind) {
			return err
		}
	}
	return fmt.Errorf("%w: %v", ErrStorageFailure, err)
}

func validateAmount(amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return fmt.Errorf("%w: amount must be greater than zero", ErrInvalidInput)
	}
	if amount.Exponent() < -2 {
		return fmt.Errorf("%w: amount supports at most two decimal places", ErrInvalidInput)
	}
	return nil
}
