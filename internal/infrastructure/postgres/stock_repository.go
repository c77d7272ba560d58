package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/estoque-api/internal/domain"
	"github.com/jhoicas/estoque-api/internal/domain/entity"
	"github.com/jhoicas/estoque-api/internal/domain/repository"
)

var _ repository.StockRepository = (*StockRepo)(nil)

const stockEntryColumns = `id, product_id, stock_id, quantity, updated_at`

const stockItemSelect = `
		SELECT ps.id, p.id, p.name, p.expires_at, ps.stock_id, ps.quantity
		FROM product_stocks ps
		JOIN products p ON p.id = ps.product_id`

// StockRepo implementación de StockRepository sobre PostgreSQL (usable con pool o tx).
type StockRepo struct {
	q Querier
}

// NewStockRepository construye el adaptador de stock. Pasar pool o tx (Querier).
func NewStockRepository(q Querier) *StockRepo {
	return &StockRepo{q: q}
}

// Get obtiene el stock de un producto en un local. nil si no hay fila.
func (r *StockRepo) Get(ctx context.Context, productID, locationID int64) (*entity.StockEntry, error) {
	query := `SELECT ` + stockEntryColumns + ` FROM product_stocks WHERE product_id = $1 AND stock_id = $2`
	return r.scanEntry(r.q.QueryRow(ctx, query, productID, locationID), "get stock")
}

// GetForUpdate obtiene el stock y bloquea la fila para update (SELECT FOR UPDATE).
func (r *StockRepo) GetForUpdate(ctx context.Context, productID, locationID int64) (*entity.StockEntry, error) {
	query := `SELECT ` + stockEntryColumns + ` FROM product_stocks WHERE product_id = $1 AND stock_id = $2 FOR UPDATE`
	return r.scanEntry(r.q.QueryRow(ctx, query, productID, locationID), "get stock for update")
}

func (r *StockRepo) scanEntry(row pgx.Row, op string) (*entity.StockEntry, error) {
	var s entity.StockEntry
	if err := row.Scan(&s.ID, &s.ProductID, &s.LocationID, &s.Quantity, &s.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &s, nil
}

// Decrement resta qty solo si la fila aún tiene saldo suficiente.
// Sin filas afectadas => otro proceso consumió el saldo: ErrInsufficientStock.
func (r *StockRepo) Decrement(ctx context.Context, entryID int64, qty int) (int, error) {
	query := `
		UPDATE product_stocks SET quantity = quantity - $2, updated_at = now()
		WHERE id = $1 AND quantity >= $2
		RETURNING quantity`
	var remaining int
	if err := r.q.QueryRow(ctx, query, entryID, qty).Scan(&remaining); err != nil {
		if errors.Is(err, pgx.ErrNoRows) || isCheckViolation(err) {
			return 0, domain.ErrInsufficientStock
		}
		return 0, fmt.Errorf("decrement stock: %w", err)
	}
	return remaining, nil
}

// Increment suma qty a la fila (producto, local) o la crea con qty.
func (r *StockRepo) Increment(ctx context.Context, productID, locationID int64, qty int) (*entity.StockEntry, error) {
	query := `
		INSERT INTO product_stocks (product_id, stock_id, quantity, updated_at)
		VALUES ($1, $2, $3, now())
		ON CONFLICT (product_id, stock_id)
		DO UPDATE SET quantity = product_stocks.quantity + EXCLUDED.quantity, updated_at = now()
		RETURNING ` + stockEntryColumns
	return r.upsert(ctx, query, "increment stock", productID, locationID, qty)
}

// Set fija la cantidad de la fila (producto, local) o la crea.
func (r *StockRepo) Set(ctx context.Context, productID, locationID int64, qty int) (*entity.StockEntry, error) {
	query := `
		INSERT INTO product_stocks (product_id, stock_id, quantity, updated_at)
		VALUES ($1, $2, $3, now())
		ON CONFLICT (product_id, stock_id)
		DO UPDATE SET quantity = EXCLUDED.quantity, updated_at = now()
		RETURNING ` + stockEntryColumns
	return r.upsert(ctx, query, "set stock", productID, locationID, qty)
}

func (r *StockRepo) upsert(ctx context.Context, query, op string, productID, locationID int64, qty int) (*entity.StockEntry, error) {
	var s entity.StockEntry
	err := r.q.QueryRow(ctx, query, productID, locationID, qty).
		Scan(&s.ID, &s.ProductID, &s.LocationID, &s.Quantity, &s.UpdatedAt)
	if err != nil {
		switch {
		case isForeignKeyViolation(err):
			return nil, domain.ErrNotFound
		case isCheckViolation(err):
			return nil, domain.ErrInsufficientStock
		case isOutOfRange(err):
			return nil, fmt.Errorf("%w: la cantidad supera el máximo", domain.ErrInvalidInput)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &s, nil
}

// DeleteByProduct borra todas las filas de stock del producto.
func (r *StockRepo) DeleteByProduct(ctx context.Context, productID int64) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM product_stocks WHERE product_id = $1`, productID); err != nil {
		return fmt.Errorf("delete stock by product: %w", err)
	}
	return nil
}

// List stock con datos del producto. Orden estable por nombre; el orden final (collation) lo aplica el caso de uso.
func (r *StockRepo) List(ctx context.Context, filter repository.StockFilter) ([]repository.StockItem, error) {
	query := stockItemSelect
	var args []any
	if filter.LocationID != nil {
		query += ` WHERE ps.stock_id = $1`
		args = append(args, *filter.LocationID)
	}
	query += ` ORDER BY p.name, p.id, ps.stock_id`
	return r.listItems(ctx, query, args...)
}

// ListLowStock filas con quantity <= threshold, las más críticas primero.
func (r *StockRepo) ListLowStock(ctx context.Context, threshold int) ([]repository.StockItem, error) {
	query := stockItemSelect + ` WHERE ps.quantity <= $1 ORDER BY ps.quantity ASC, p.name, ps.stock_id`
	return r.listItems(ctx, query, threshold)
}

func (r *StockRepo) listItems(ctx context.Context, query string, args ...any) ([]repository.StockItem, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list stock: %w", err)
	}
	defer rows.Close()
	var list []repository.StockItem
	for rows.Next() {
		var it repository.StockItem
		if err := rows.Scan(&it.EntryID, &it.ProductID, &it.ProductName, &it.ExpiresAt, &it.LocationID, &it.Quantity); err != nil {
			return nil, fmt.Errorf("scan stock: %w", err)
		}
		list = append(list, it)
	}
	return list, rows.Err()
}
