package repository

import (
	"context"
	"time"

	"github.com/jhoicas/estoque-api/internal/domain/entity"
)

// StockItem fila de stock enriquecida con los datos del producto (listados y alertas).
type StockItem struct {
	EntryID     int64
	ProductID   int64
	ProductName string
	ExpiresAt   time.Time
	LocationID  int64
	Quantity    int
}

// StockFilter filtros para listar stock. LocationID nil = todos los locales.
type StockFilter struct {
	LocationID *int64
}

// StockRepository define el puerto para consultar/actualizar stock por producto+local.
// Usado dentro de transacciones para garantizar consistencia.
type StockRepository interface {
	Get(ctx context.Context, productID, locationID int64) (*entity.StockEntry, error)
	// GetForUpdate bloquea la fila para update (SELECT FOR UPDATE). nil si no existe.
	GetForUpdate(ctx context.Context, productID, locationID int64) (*entity.StockEntry, error)
	// Decrement resta qty solo si la cantidad actual sigue siendo >= qty (compare-and-swap).
	// Devuelve la cantidad resultante o domain.ErrInsufficientStock.
	Decrement(ctx context.Context, entryID int64, qty int) (int, error)
	// Increment suma qty a la fila (producto, local), creándola si no existe.
	Increment(ctx context.Context, productID, locationID int64, qty int) (*entity.StockEntry, error)
	// Set fija la cantidad de la fila (producto, local), creándola si no existe.
	Set(ctx context.Context, productID, locationID int64, qty int) (*entity.StockEntry, error)
	DeleteByProduct(ctx context.Context, productID int64) error
	List(ctx context.Context, filter StockFilter) ([]StockItem, error)
	// ListLowStock devuelve las filas con cantidad <= threshold.
	ListLowStock(ctx context.Context, threshold int) ([]StockItem, error)
}
