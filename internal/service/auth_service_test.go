package service_test

import (
	"context"
	"testing"
	"time"

	"digibank/internal/model"
	"digibank/internal/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegister(t *testing.T) {
	ctx := context.Background()

	t.Run("hashes the password and defaults the role", func(t *testing.T) {
		users := newFakeUsers()
		svc := service.NewAuthService(users, "test-secret", time.Hour)

		user, err := svc.Register(ctx, service.RegisterInput{
			Name:     "Maria Silva",
			Email:    "maria@example.com",
			Password: "s3cret-pw",
			TaxID:    "12345678901",
		})
		require.NoError(t, err)

		assert.Equal(t, model.UserRoleUser, user.Role)
		assert.NotEmpty(t, user.ID)
		assert.NotEqual(t, "s3cret-pw", user.PasswordHash, "password must never be stored in clear")
	})

	t.Run("duplicate email", func(t *testing.T) {
		existing := regularUser("user-1")
		svc := service.NewAuthService(newFakeUsers(existing), "test-secret", time.Hour)

		_, err := svc.Register(ctx, service.RegisterInput{
			Name:     "Other",
			Email:    existing.Email,
			Password: "pw",
			TaxID:    "99999999999",
		})
		assert.ErrorIs(t, err, service.ErrConflict)
	})

	t.Run("duplicate tax id", func(t *testing.T) {
		existing := regularUser("user-1")
		svc := service.NewAuthService(newFakeUsers(existing), "test-secret", time.Hour)

		_, err := svc.Register(ctx, service.RegisterInput{
			Name:     "Other",
			Email:    "other@example.com",
			Password: "pw",
			TaxID:    existing.TaxID,
		})
		assert.ErrorIs(t, err, service.ErrConflict)
	})

	t.Run("unknown role", func(t *testing.T) {
		svc := service.NewAuthService(newFakeUsers(), "test-secret", time.Hour)

		_, err := svc.Register(ctx, service.RegisterInput{
			Name:     "Maria",
			Email:    "maria@example.com",
			Password: "pw",
			TaxID:    "12345678901",
			Role:     "ROOT",
		})
		assert.ErrorIs(t, err, service.ErrInvalidInput)
	})
}

func TestLoginAndParseToken(t *testing.T) {
	ctx := context.Background()
	users := newFakeUsers()
	svc := service.NewAuthService(users, "test-secret", time.Hour)

	user, err := svc.Register(ctx, service.RegisterInput{
		Name:     "Maria Silva",
		Email:    "maria@example.com",
		Password: "s3cret-pw",
		TaxID:    "12345678901",
		Role:     model.UserRoleAdmin,
	})
	require.NoError(t, err)

	t.Run("round trip", func(t *testing.T) {
		token, err := svc.Login(ctx, "maria@example.com", "s3cret-pw")
		require.NoError(t, err)
		require.NotEmpty(t, token)

		claims, err := svc.ParseToken(token)
		require.NoError(t, err)
		assert.Equal(t, user.ID, claims.Subject)
		assert.Equal(t, "maria@example.com", claims.Email)
		assert.Equal(t, model.UserRoleAdmin, claims.Role)
	})

	t.Run("wrong password and unknown email fail identically", func(t *testing.T) {
		_, errWrongPw := svc.Login(ctx, "maria@example.com", "nope")
		_, errNoUser := svc.Login(ctx, "ghost@example.com", "s3cret-pw")

		assert.ErrorIs(t, errWrongPw, service.ErrUnauthorized)
		assert.ErrorIs(t, errNoUser, service.ErrUnauthorized)
		assert.Equal(t, errWrongPw.Error(), errNoUser.Error(), "response must not reveal which credential was wrong")
	})

	t.Run("tampered token is rejected", func(t *testing.T) {
		token, err := svc.Login(ctx, "maria@example.com", "s3cret-pw")
		require.NoError(t, err)

		_, err = svc.ParseToken(token + "x")
		assert.ErrorIs(t, err, service.ErrUnauthorized)
	})

	t.Run("token signed with another secret is rejected", func(t *testing.T) {
		other := service.NewAuthService(users, "other-secret", time.Hour)
		token, err := other.Login(ctx, "maria@example.com", "s3cret-pw")
		require.NoError(t, err)

		_, err = svc.ParseToken(token)
		assert.ErrorIs(t, err, service.ErrUnauthorized)
	})

	t.Run("expired token is rejected", func(t *testing.T) {
		shortLived := service.NewAuthService(users, "test-secret", -time.Minute)
		token, err := shortLived.Login(ctx, "maria@example.com", "s3cret-pw")
		require.NoError(t, err)

		_, err = svc.ParseToken(token)
		assert.ErrorIs(t, err, service.ErrUnauthorized)
	})
}
