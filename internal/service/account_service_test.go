package service_test

import (
	"context"
	"testing"

	"digibank/internal/model"
	"digibank/internal/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeUsers struct {
	users map[string]*model.User
}

func newFakeUsers(users ...*model.User) *fakeUsers {
	s := &fakeUsers{users: make(map[string]*model.User)}
	for _, u := range users {
		cp := *u
		s.users[u.ID] = &cp
	}
	return s
}

func (s *fakeUsers) FindByID(ctx context.Context, id string) (*model.User, error) {
	u, ok := s.users[id]
	if !ok {
		return nil, nil
	}
	cp := *u
	return &cp, nil
}

func (s *fakeUsers) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	for _, u := range s.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

func (s *fakeUsers) FindByTaxID(ctx context.Context, taxID string) (*model.User, error) {
	for _, u := range s.users {
		if u.TaxID == taxID {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

func (s *fakeUsers) Create(ctx context.Context, user *model.User) error {
	cp := *user
	s.users[user.ID] = &cp
	return nil
}

func regularUser(id string) *model.User {
	return &model.User{ID: id, Name: "Jo", Email: id + "@example.com", TaxID: "tax-" + id, Role: model.UserRoleUser}
}

func adminUser(id string) *model.User {
	u := regularUser(id)
	u.Role = model.UserRoleAdmin
	return u
}

func TestCreateAccount(t *testing.T) {
	ctx := context.Background()

	t.Run("opens an active zero-balance account", func(t *testing.T) {
		accounts := newFakeStore()
		svc := service.NewAccountService(accounts, newFakeUsers(regularUser("user-1")))

		account, err := svc.CreateAccount(ctx, "user-1")
		require.NoError(t, err)

		assert.Equal(t, model.AccountStatusActive, account.Status)
		assert.True(t, account.Balance.IsZero())
		assert.Equal(t, "user-1", account.UserID)
		assert.NotEmpty(t, account.ID)
		assert.NotEmpty(t, account.Number)
	})

	t.Run("one account per user", func(t *testing.T) {
		accounts := newFakeStore(activeAccount("acc-1", "user-1", "0.00"))
		svc := service.NewAccountService(accounts, newFakeUsers(regularUser("user-1")))

		_, err := svc.CreateAccount(ctx, "user-1")
		assert.ErrorIs(t, err, service.ErrConflict)
	})

	t.Run("unknown user", func(t *testing.T) {
		svc := service.NewAccountService(newFakeStore(), newFakeUsers())

		_, err := svc.CreateAccount(ctx, "ghost")
		assert.ErrorIs(t, err, service.ErrNotFound)
	})
}

func TestUpdateStatus(t *testing.T) {
	ctx := context.Background()

	t.Run("admin deactivates and reactivates", func(t *testing.T) {
		accounts := newFakeStore(activeAccount("acc-1", "user-1", "10.00"))
		svc := service.NewAccountService(accounts, newFakeUsers(adminUser("admin-1")))

		account, err := svc.UpdateStatus(ctx, "acc-1", model.AccountStatusInactive, "admin-1")
		require.NoError(t, err)
		assert.Equal(t, model.AccountStatusInactive, account.Status)

		account, err = svc.UpdateStatus(ctx, "acc-1", model.AccountStatusActive, "admin-1")
		require.NoError(t, err)
		assert.Equal(t, model.AccountStatusActive, account.Status)
	})

	t.Run("regular users may not toggle status", func(t *testing.T) {
		accounts := newFakeStore(activeAccount("acc-1", "user-1", "10.00"))
		svc := service.NewAccountService(accounts, newFakeUsers(regularUser("user-1")))

		_, err := svc.UpdateStatus(ctx, "acc-1", model.AccountStatusInactive, "user-1")
		assert.ErrorIs(t, err, service.ErrForbidden)
	})

	t.Run("rejects unknown status values", func(t *testing.T) {
		accounts := newFakeStore(activeAccount("acc-1", "user-1", "10.00"))
		svc := service.NewAccountService(accounts, newFakeUsers(adminUser("admin-1")))

		_, err := svc.UpdateStatus(ctx, "acc-1", "FROZEN", "admin-1")
		assert.ErrorIs(t, err, service.ErrInvalidInput)
	})

	t.Run("unknown account", func(t *testing.T) {
		svc := service.NewAccountService(newFakeStore(), newFakeUsers(adminUser("admin-1")))

		_, err := svc.UpdateStatus(ctx, "acc-x", model.AccountStatusInactive, "admin-1")
		assert.ErrorIs(t, err, service.ErrNotFound)
	})
}

func TestGetByID(t *testing.T) {
	ctx := context.Background()
	accounts := newFakeStore(activeAccount("acc-1", "user-1", "42.00"))
	svc := service.NewAccountService(accounts, newFakeUsers(regularUser("user-1")))

	account, err := svc.GetByID(ctx, "acc-1", "user-1")
	require.NoError(t, err)
	assert.Equal(t, "acc-1", account.ID)

	_, err = svc.GetByID(ctx, "acc-1", "user-2")
	assert.ErrorIs(t, err, service.ErrForbidden)

	_, err = svc.GetByID(ctx, "acc-x", "user-1")
	assert.ErrorIs(t, err, service.ErrNotFound)
}

func TestGetForUser(t *testing.T) {
	ctx := context.Background()
	accounts := newFakeStore(activeAccount("acc-1", "user-1", "42.00"))
	svc := service.NewAccountService(accounts, newFakeUsers(regularUser("user-1")))

	account, err := svc.GetForUser(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, "acc-1", account.ID)

	_, err = svc.GetForUser(ctx, "user-2")
	assert.ErrorIs(t, err, service.ErrNotFound)
}
