package auth

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"flavorfi/internal/adapter/logger"
	"flavorfi/internal/adapter/memory"
	"flavorfi/internal/adapter/token"
	"flavorfi/internal/domain"
	"flavorfi/internal/interfaces"
)

func newService() (*Service, interfaces.UserRepository) {
	users := memory.NewUserRepository()
	svc := NewService(
		users,
		token.NewManager("test-secret", time.Hour),
		logger.NewWithWriter("auth-test", io.Discard),
	)
	return svc, users
}

func TestRegister(t *testing.T) {
	svc, _ := newService()
	ctx := context.Background()

	user, err := svc.Register(ctx, interfaces.RegisterCommand{
		Name:     "Alice",
		Email:    "alice@example.com",
		Password: "secret",
		Role:     "owner",
	})
	require.NoError(t, err)
	assert.NotZero(t, user.ID)
	assert.Equal(t, domain.RoleOwner, user.Role)
	assert.NotEqual(t, "secret", user.PasswordHash, "passwords must never be stored in the clear")
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("secret")))
}

func TestRegisterDefaultsToCustomer(t *testing.T) {
	svc, _ := newService()

	user, err := svc.Register(context.Background(), interfaces.RegisterCommand{
		Name:     "Bob",
		Email:    "bob@example.com",
		Password: "secret",
	})
	require.NoError(t, err)
	assert.Equal(t, domain.RoleCustomer, user.Role)
}

func TestRegisterValidation(t *testing.T) {
	svc, _ := newService()
	ctx := context.Background()

	tests := []struct {
		name string
		cmd  interfaces.RegisterCommand
	}{
		{"missing name", interfaces.RegisterCommand{Email: "a@b.c", Password: "x"}},
		{"missing email", interfaces.RegisterCommand{Name: "A", Password: "x"}},
		{"missing password", interfaces.RegisterCommand{Name: "A", Email: "a@b.c"}},
		{"unknown role", interfaces.RegisterCommand{Name: "A", Email: "a@b.c", Password: "x", Role: "admin"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Register(ctx, tt.cmd)
			require.Error(t, err)
			assert.True(t, errors.Is(err, domain.ErrValidation), "got %v", err)
		})
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	svc, _ := newService()
	ctx := context.Background()

	cmd := interfaces.RegisterCommand{Name: "Alice", Email: "alice@example.com", Password: "secret"}
	_, err := svc.Register(ctx, cmd)
	require.NoError(t, err)

	_, err = svc.Register(ctx, cmd)
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrConflict))
}

func TestLogin(t *testing.T) {
	svc, _ := newService()
	ctx := context.Background()

	registered, err := svc.Register(ctx, interfaces.RegisterCommand{
		Name:     "Alice",
		Email:    "alice@example.com",
		Password: "secret",
	})
	require.NoError(t, err)

	result, err := svc.Login(ctx, interfaces.LoginCommand{Email: "alice@example.com", Password: "secret"})
	require.NoError(t, err)
	assert.Equal(t, registered.ID, result.User.ID)
	assert.NotEmpty(t, result.Token)
}

func TestLoginFailures(t *testing.T) {
	svc, _ := newService()
	ctx := context.Background()

	_, err := svc.Register(ctx, interfaces.RegisterCommand{
		Name:     "Alice",
		Email:    "alice@example.com",
		Password: "secret",
	})
	require.NoError(t, err)

	_, err = svc.Login(ctx, interfaces.LoginCommand{Email: "alice@example.com"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrValidation))

	// Wrong password and unknown email produce the same authentication
	// error so a caller cannot probe which emails are registered.
	for _, cmd := range []interfaces.LoginCommand{
		{Email: "alice@example.com", Password: "wrong"},
		{Email: "nobody@example.com", Password: "secret"},
	} {
		_, err = svc.Login(ctx, cmd)
		require.Error(t, err)
		assert.True(t, errors.Is(err, domain.ErrAuthentication))
		assert.Contains(t, err.Error(), "Bad email or password")
	}
}

func TestProfile(t *testing.T) {
	svc, _ := newService()
	ctx := context.Background()

	user, err := svc.Register(ctx, interfaces.RegisterCommand{
		Name:     "Alice",
		Email:    "alice@example.com",
		Password: "secret",
	})
	require.NoError(t, err)

	got, err := svc.Profile(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "Alice", got.Name)

	_, err = svc.Profile(ctx, 999)
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}
