package auth_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/estoque-api/internal/application/auth"
	"github.com/jhoicas/estoque-api/internal/domain"
	"github.com/jhoicas/estoque-api/internal/domain/entity"
	"github.com/jhoicas/estoque-api/internal/infrastructure/memory"
)

func newAuth(t *testing.T) (*auth.AuthUseCase, *entity.User) {
	t.Helper()
	ctx := context.Background()
	store := memory.NewStore()
	bar, err := store.Locations().Ensure(ctx, entity.LocationBar)
	require.NoError(t, err)
	hash, err := bcrypt.GenerateFromPassword([]byte("func123"), bcrypt.MinCost)
	require.NoError(t, err)
	u := &entity.User{Username: "funcionario", PasswordHash: string(hash), Role: entity.RoleEmployee, LocationID: &bar.ID}
	require.NoError(t, store.Users().Create(ctx, u))

	uc := auth.NewAuthUseCase(store.Users(), auth.TokenConfig{Secret: "test-secret", ExpMinutes: 60, Issuer: "estoque-api"})
	return uc, u
}

func TestLogin_Correcto(t *testing.T) {
	uc, u := newAuth(t)

	p, err := uc.Login(context.Background(), " funcionario ", "func123")

	require.NoError(t, err)
	assert.Equal(t, u.ID, p.UserID)
	assert.Equal(t, entity.RoleEmployee, p.Role)
	assert.Equal(t, *u.LocationID, p.LocationID)
}

func TestLogin_Errores(t *testing.T) {
	uc, _ := newAuth(t)
	ctx := context.Background()

	_, err := uc.Login(ctx, "funcionario", "errada")
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)

	_, err = uc.Login(ctx, "ninguem", "func123")
	assert.ErrorIs(t, err, domain.ErrUserNotFound)

	_, err = uc.Login(ctx, "", "")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestIssueYParseToken(t *testing.T) {
	uc, _ := newAuth(t)
	p, err := uc.Login(context.Background(), "funcionario", "func123")
	require.NoError(t, err)

	token, exp, err := uc.IssueToken(p)
	require.NoError(t, err)
	assert.False(t, exp.IsZero())

	got, err := uc.ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, *p, *got)

	_, err = uc.ParseToken(token + "x")
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}
