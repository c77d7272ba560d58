package domain

import "errors"

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound             = errors.New("recurso no encontrado")
	ErrUserNotFound         = errors.New("usuario no encontrado")
	ErrInvalidCredentials   = errors.New("contraseña incorrecta")
	ErrInvalidInput         = errors.New("entrada inválida")
	ErrDuplicate            = errors.New("recurso duplicado")
	ErrUnauthorized         = errors.New("no autorizado")
	ErrForbidden            = errors.New("acceso denegado")
	ErrInsufficientStock    = errors.New("saldo insuficiente")
	ErrProductNotInLocation = errors.New("producto no encontrado en este stock")
)

// DuplicateError ErrDuplicate con el mensaje que se muestra al cliente.
type DuplicateError struct {
	Msg string
}

func (e *DuplicateError) Error() string { return e.Msg }

func (e *DuplicateError) Unwrap() error { return ErrDuplicate }
