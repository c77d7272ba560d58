package dto

import "time"

// CreateUserRequest entrada para POST /api/usuarios (password en texto, se hashea en el caso de uso).
type CreateUserRequest struct {
	Username string  `json:"username" form:"username"`
	Password string  `json:"password" form:"password"`
	Role     string  `json:"role" form:"role"`
	StockID  FlexInt `json:"stockId" form:"stockId"`
}

// UserResponse salida de un usuario (sin password).
type UserResponse struct {
	ID        int64     `json:"id"`
	Username  string    `json:"username"`
	Role      string    `json:"role"`
	StockID   *int64    `json:"stockId"`
	CreatedAt time.Time `json:"createdAt"`
}

// ChangePasswordRequest entrada para POST /api/change-password.
type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword" form:"currentPassword"`
	NewPassword     string `json:"newPassword" form:"newPassword"`
	ConfirmPassword string `json:"confirmPassword" form:"confirmPassword"`
}

// LoginRequest entrada para POST /login y POST /api/token.
type LoginRequest struct {
	Username string `json:"username" form:"username"`
	Password string `json:"password" form:"password"`
}

// TokenResponse salida con token Bearer para scripts.
type TokenResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// MeResponse identidad de la sesión actual (bootstrap de la página del empleado).
type MeResponse struct {
	UserID      int64  `json:"userId"`
	Username    string `json:"username"`
	Role        string `json:"role"`
	StockID     int64  `json:"stockId"`
	Destination string `json:"destination"`
}
