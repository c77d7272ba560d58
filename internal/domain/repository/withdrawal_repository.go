package repository

import (
	"context"
	"time"

	"github.com/jhoicas/estoque-api/internal/domain/entity"
)

// WithdrawalItem retirada con los nombres de producto y usuario (historial y reportes).
type WithdrawalItem struct {
	ID          int64
	ProductID   int64
	ProductName string
	UserID      int64
	Username    string
	LocationID  int64
	Quantity    int
	Destination string
	CreatedAt   time.Time
}

// WithdrawalFilter filtros del historial. Campos nil no filtran.
type WithdrawalFilter struct {
	UserID *int64
	From   *time.Time
	To     *time.Time
}

// WithdrawalRepository define el puerto de persistencia para retiradas (append-only).
type WithdrawalRepository interface {
	// Create persiste la retirada y asigna ID y CreatedAt.
	Create(ctx context.Context, w *entity.Withdrawal) error
	DeleteByProduct(ctx context.Context, productID int64) error
	// List devuelve las retiradas más recientes primero.
	List(ctx context.Context, filter WithdrawalFilter) ([]WithdrawalItem, error)
}
