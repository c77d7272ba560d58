package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/estoque-api/internal/application/dto"
	"github.com/jhoicas/estoque-api/internal/domain"
	"github.com/jhoicas/estoque-api/internal/domain/entity"
	"github.com/jhoicas/estoque-api/internal/domain/repository"
)

// MinPasswordLength largo mínimo de contraseña.
const MinPasswordLength = 6

// UserUseCase alta de usuarios y cambio de contraseña.
type UserUseCase struct {
	userRepo     repository.UserRepository
	locationRepo repository.LocationRepository
	cost         int
}

// NewUserUseCase construye el caso de uso.
func NewUserUseCase(userRepo repository.UserRepository, locationRepo repository.LocationRepository) *UserUseCase {
	return &UserUseCase{userRepo: userRepo, locationRepo: locationRepo, cost: bcrypt.DefaultCost}
}

// WithBcryptCost ajusta el costo de bcrypt (tests usan bcrypt.MinCost).
func (uc *UserUseCase) WithBcryptCost(cost int) *UserUseCase {
	uc.cost = cost
	return uc
}

// Create crea un usuario: valida rol y local, hashea con bcrypt y persiste.
// Devuelve ErrDuplicate si el username ya existe.
func (uc *UserUseCase) Create(ctx context.Context, in dto.CreateUserRequest) (*dto.UserResponse, error) {
	username := strings.TrimSpace(in.Username)
	if username == "" || in.Password == "" {
		return nil, fmt.Errorf("%w: username y password son requeridos", domain.ErrInvalidInput)
	}
	if len(in.Password) < MinPasswordLength {
		return nil, fmt.Errorf("%w: la contraseña debe tener al menos %d caracteres", domain.ErrInvalidInput, MinPasswordLength)
	}
	role := strings.ToUpper(strings.TrimSpace(in.Role))
	if role == "" {
		role = entity.RoleEmployee
	}
	if !entity.ValidRole(role) {
		return nil, fmt.Errorf("%w: role debe ser ADMIN o EMPLOYEE", domain.ErrInvalidInput)
	}
	var locationID *int64
	if id := in.StockID.Int64(); id > 0 {
		loc, err := uc.locationRepo.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}
		if loc == nil {
			return nil, domain.ErrNotFound
		}
		locationID = &id
	}
	if role == entity.RoleEmployee && locationID == nil {
		return nil, fmt.Errorf("%w: stockId es requerido para EMPLOYEE", domain.ErrInvalidInput)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), uc.cost)
	if err != nil {
		return nil, err
	}
	user := &entity.User{
		Username:     username,
		PasswordHash: string(hash),
		Role:         role,
		LocationID:   locationID,
	}
	if err := uc.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, domain.ErrDuplicate) {
			return nil, &domain.DuplicateError{Msg: "Username já existe."}
		}
		return nil, err
	}
	return toUserResponse(user), nil
}

// ChangePassword cambia la contraseña del propio usuario tras verificar la actual.
func (uc *UserUseCase) ChangePassword(ctx context.Context, userID int64, in dto.ChangePasswordRequest) error {
	if in.CurrentPassword == "" || in.NewPassword == "" || in.ConfirmPassword == "" {
		return fmt.Errorf("%w: complete todos los campos", domain.ErrInvalidInput)
	}
	if in.NewPassword != in.ConfirmPassword {
		return fmt.Errorf("%w: la nueva contraseña y la confirmación no coinciden", domain.ErrInvalidInput)
	}
	if len(in.NewPassword) < MinPasswordLength {
		return fmt.Errorf("%w: la nueva contraseña debe tener al menos %d caracteres", domain.ErrInvalidInput, MinPasswordLength)
	}
	user, err := uc.userRepo.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	if user == nil {
		return domain.ErrUserNotFound
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(in.CurrentPassword)); err != nil {
		return fmt.Errorf("%w: contraseña actual incorrecta", domain.ErrInvalidInput)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(in.NewPassword), uc.cost)
	if err != nil {
		return err
	}
	return uc.userRepo.UpdatePassword(ctx, userID, string(hash))
}

// EnsureUser crea el usuario si el username no existe (seed). Devuelve true si lo creó.
func (uc *UserUseCase) EnsureUser(ctx context.Context, in dto.CreateUserRequest) (bool, error) {
	existing, err := uc.userRepo.GetByUsername(ctx, strings.TrimSpace(in.Username))
	if err != nil {
		return false, err
	}
	if existing != nil {
		return false, nil
	}
	if _, err := uc.Create(ctx, in); err != nil {
		return false, err
	}
	return true, nil
}

func toUserResponse(u *entity.User) *dto.UserResponse {
	if u == nil {
		return nil
	}
	return &dto.UserResponse{
		ID:        u.ID,
		Username:  u.Username,
		Role:      u.Role,
		StockID:   u.LocationID,
		CreatedAt: u.CreatedAt,
	}
}
