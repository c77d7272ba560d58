package repository

import (
	"context"
	"time"

	"github.com/jhoicas/estoque-api/internal/domain/entity"
)

// ProductRepository define el puerto de persistencia para Product (DIP).
type ProductRepository interface {
	// Create persiste el producto y asigna su ID.
	Create(ctx context.Context, product *entity.Product) error
	// Upsert inserta o actualiza conservando product.ID (importación de backups).
	Upsert(ctx context.Context, product *entity.Product) error
	GetByID(ctx context.Context, id int64) (*entity.Product, error)
	// Update devuelve domain.ErrNotFound si el producto no existe.
	Update(ctx context.Context, product *entity.Product) error
	// Delete devuelve domain.ErrNotFound si el producto no existe.
	Delete(ctx context.Context, id int64) error
	// ListExpiringBy devuelve los productos con vencimiento <= cutoff, ordenados por vencimiento ascendente.
	ListExpiringBy(ctx context.Context, cutoff time.Time) ([]*entity.Product, error)
}
