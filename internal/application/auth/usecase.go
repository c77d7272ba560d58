package auth

import (
	"context"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/estoque-api/internal/domain"
	"github.com/jhoicas/estoque-api/internal/domain/entity"
	"github.com/jhoicas/estoque-api/internal/domain/repository"
	"github.com/jhoicas/estoque-api/pkg/jwt"
)

// TokenConfig configuración para tokens Bearer (firmados con SESSION_SECRET).
type TokenConfig struct {
	Secret     string
	ExpMinutes int
	Issuer     string
}

// AuthUseCase autenticación: verifica credenciales y emite la identidad de la sesión o un token.
type AuthUseCase struct {
	userRepo repository.UserRepository
	tokenCfg TokenConfig
}

// NewAuthUseCase construye el caso de uso de auth.
func NewAuthUseCase(userRepo repository.UserRepository, tokenCfg TokenConfig) *AuthUseCase {
	return &AuthUseCase{userRepo: userRepo, tokenCfg: tokenCfg}
}

// Login verifica username/password y devuelve el Principal con rol y local del usuario almacenado.
// ErrInvalidInput si faltan datos, ErrUserNotFound si no existe, ErrInvalidCredentials si la contraseña no coincide.
func (uc *AuthUseCase) Login(ctx context.Context, username, password string) (*entity.Principal, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return nil, domain.ErrInvalidInput
	}
	user, err := uc.userRepo.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrUserNotFound
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, domain.ErrInvalidCredentials
	}
	p := &entity.Principal{UserID: user.ID, Username: user.Username, Role: user.Role}
	if user.LocationID != nil {
		p.LocationID = *user.LocationID
	}
	return p, nil
}

// IssueToken genera un token Bearer para el principal.
func (uc *AuthUseCase) IssueToken(p *entity.Principal) (string, time.Time, error) {
	return jwt.Generate(uc.tokenCfg.Secret, p.UserID, p.Username, p.Role, p.LocationID, uc.tokenCfg.Issuer, uc.tokenCfg.ExpMinutes)
}

// ParseToken valida un token Bearer y reconstruye el principal (sin consultar la DB).
func (uc *AuthUseCase) ParseToken(token string) (*entity.Principal, error) {
	claims, err := jwt.Parse(uc.tokenCfg.Secret, token)
	if err != nil {
		return nil, domain.ErrUnauthorized
	}
	if claims.UserID == 0 || !entity.ValidRole(claims.Role) {
		return nil, domain.ErrUnauthorized
	}
	return &entity.Principal{
		UserID:     claims.UserID,
		Username:   claims.Username,
		Role:       claims.Role,
		LocationID: claims.StockID,
	}, nil
}
