package server

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jonathan/futurotec/internal/config"
	"github.com/jonathan/futurotec/internal/db"
	"github.com/jonathan/futurotec/internal/portal/portaltest"
	"github.com/jonathan/futurotec/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestUserService() (*UserService, *portaltest.Store) {
	store := portaltest.New()
	// Lower cost for faster tests
	return NewUserService(store, &config.PasswordConfig{BcryptCost: 10}), store
}

func TestConvertDBUserToTypesUser(t *testing.T) {
	t.Run("valid user", func(t *testing.T) {
		now := time.Now()
		dbUser := &db.User{
			ID:           uuid.New(),
			Name:         "Ana Souza",
			Email:        "ana@example.com",
			Role:         db.RoleStudent,
			PasswordHash: "hashed-password",
			PasswordSet:  true,
			CreatedAt:    now,
			UpdatedAt:    now,
		}

		typesUser := convertDBUserToTypesUser(dbUser)
		require.NotNil(t, typesUser)
		assert.Equal(t, dbUser.ID, typesUser.ID)
		assert.Equal(t, dbUser.Name, typesUser.Name)
		assert.Equal(t, dbUser.Email, typesUser.Email)
		assert.Equal(t, dbUser.Role, typesUser.Role)
		assert.True(t, typesUser.PasswordSet)
	})

	t.Run("nil user", func(t *testing.T) {
		assert.Nil(t, convertDBUserToTypesUser(nil))
	})
}

func TestUserService_RegisterAndLogin(t *testing.T) {
	svc, _ := newTestUserService()
	ctx := context.Background()

	user, err := svc.Register(ctx, &types.CreateUserRequest{Name: "Ana", Email: " Ana@Example.com ", Password: "password123"})
	require.NoError(t, err)
	assert.Equal(t, "ana@example.com", user.Email)
	assert.Equal(t, db.RoleStudent, user.Role)
	assert.True(t, user.PasswordSet)

	loggedIn, err := svc.Login(ctx, &types.LoginRequest{Email: "ana@example.com", Password: "password123"})
	require.NoError(t, err)
	assert.Equal(t, user.ID, loggedIn.ID)
}

func TestUserService_RegisterDuplicateEmail(t *testing.T) {
	svc, _ := newTestUserService()
	ctx := context.Background()

	_, err := svc.Register(ctx, &types.CreateUserRequest{Name: "Ana", Email: "ana@example.com", Password: "password123"})
	require.NoError(t, err)

	_, err = svc.Register(ctx, &types.CreateUserRequest{Name: "Other", Email: "ANA@example.com", Password: "password456"})
	var exists *ErrEmailAlreadyExists
	assert.ErrorAs(t, err, &exists)
}

func TestUserService_LoginFailures(t *testing.T) {
	svc, store := newTestUserService()
	ctx := context.Background()
	_, err := svc.Register(ctx, &types.CreateUserRequest{Name: "Ana", Email: "ana@example.com", Password: "password123"})
	require.NoError(t, err)
	// account without a password cannot log in
	_, err = store.CreateUser(ctx, "Legacy", "legacy@example.com", db.RoleStudent)
	require.NoError(t, err)

	tests := []struct {
		name string
		req  types.LoginRequest
	}{
		{"wrong password", types.LoginRequest{Email: "ana@example.com", Password: "wrong-password"}},
		{"unknown email", types.LoginRequest{Email: "nobody@example.com", Password: "password123"}},
		{"password not set", types.LoginRequest{Email: "legacy@example.com", Password: ""}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Login(ctx, &tt.req)
			var invalid *ErrInvalidCredentials
			assert.ErrorAs(t, err, &invalid)
		})
	}
}

func TestUserService_Profile(t *testing.T) {
	svc, _ := newTestUserService()
	ctx := context.Background()
	user, err := svc.Register(ctx, &types.CreateUserRequest{Name: "Acme", Email: "jobs@acme.com", Password: "password123", Role: db.RoleCompany})
	require.NoError(t, err)

	got, err := svc.Profile(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, db.RoleCompany, got.Role)

	_, err = svc.Profile(ctx, uuid.New())
	var notFound *ErrUserNotFound
	assert.ErrorAs(t, err, &notFound)
}
