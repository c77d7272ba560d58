package entity

import "time"

// Roles válidos para User.
const (
	RoleAdmin    = "ADMIN"
	RoleEmployee = "EMPLOYEE"
)

// ValidRole indica si role es uno de los roles soportados.
func ValidRole(role string) bool {
	return role == RoleAdmin || role == RoleEmployee
}

// User representa un usuario del sistema. LocationID es el local de trabajo (obligatorio para EMPLOYEE).
type User struct {
	ID           int64
	Username     string
	PasswordHash string // bcrypt hash
	Role         string
	LocationID   *int64
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Principal es la identidad autenticada de una petición (sesión o token).
// Se fija al iniciar sesión y no se revalida contra la DB en cada petición:
// un cambio de rol solo aplica en el próximo login.
type Principal struct {
	UserID     int64
	Username   string
	Role       string
	LocationID int64 // 0 = sin local asignado
}

// IsAdmin indica si el principal tiene rol ADMIN.
func (p Principal) IsAdmin() bool { return p.Role == RoleAdmin }

// IsEmployee indica si el principal tiene rol EMPLOYEE.
func (p Principal) IsEmployee() bool { return p.Role == RoleEmployee }
