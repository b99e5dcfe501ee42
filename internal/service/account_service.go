package service

import (
	"context"
	"fmt"

	"digibank/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// AccountService handles account lifecycle: creation, lookups and the
// administrative status toggle. It never touches balances; that is the
// ledger engine's job.
type AccountService struct {
	accounts AccountStore
	users    UserStore
}

func NewAccountService(accounts AccountStore, users UserStore) *AccountService {
	return &AccountService{accounts: accounts, users: users}
}

// CreateAccount opens the single account a user may own: zero balance,
// ACTIVE, with a generated opaque account number.
func (s *AccountService) CreateAccount(ctx context.Context, userID string) (*model.Account, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStorageFailure, err)
	}
	if user == nil {
		return nil, fmt.Errorf("%w: user not found", ErrNotFound)
	}

	existing, err := s.accounts.FindByUserID(ctx, nil, userID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStorageFailure, err)
	}
	if existing != nil {
		return nil, fmt.Errorf("%w: user already has an account", ErrConflict)
	}

	account := &model.Account{
		ID:      uuid.NewString(),
		Number:  uuid.NewString(),
		Balance: decimal.Zero,
		Status:  model.AccountStatusActive,
		UserID:  userID,
	}
	if err := s.accounts.Create(ctx, nil, account); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStorageFailure, err)
	}
	return account, nil
}

// UpdateStatus toggles an account between ACTIVE and INACTIVE. Admin only.
func (s *AccountService) UpdateStatus(ctx context.Context, accountID, status, adminUserID string) (*model.Account, error) {
	admin, err := s.users.FindByID(ctx, adminUserID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStorageFailure, err)
	}
	if admin == nil || !admin.IsAdmin() {
		return nil, fmt.Errorf("%w: only administrators may change account status", ErrForbidden)
	}
	if !model.ValidAccountStatus(status) {
		return nil, fmt.Errorf("%w: unknown account status %q", ErrInvalidInput, status)
	}

	account, err := s.accounts.FindByID(ctx, nil, accountID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStorageFailure, err)
	}
	if account == nil {
		return nil, fmt.Errorf("%w: account not found", ErrNotFound)
	}

	if err := s.accounts.UpdateStatus(ctx, nil, accountID, status); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStorageFailure, err)
	}
	account.Status = status
	return account, nil
}

// GetForUser returns the caller's own account.
func (s *AccountService) GetForUser(ctx context.Context, userID string) (*model.Account, error) {
	account, err := s.accounts.FindByUserID(ctx, nil, userID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStorageFailure, err)
	}
	if account == nil {
		return nil, fmt.Errorf("%w: account not found", ErrNotFound)
	}
	return account, nil
}

// GetByID returns an account by id, restricted to its owner.
func (s *AccountService) GetByID(ctx context.Context, accountID, callerID string) (*model.Account, error) {
	account, err := s.accounts.FindByID(ctx, nil, accountID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStorageFailure, err)
	}
	if account == nil {
		return nil, fmt.Errorf("%w: account not found", ErrNotFound)
	}
	if account.UserID != callerID {
		return nil, fmt.Errorf("%w: you can only access your own account", ErrForbidden)
	}
	return account, nil
}
