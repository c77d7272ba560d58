package memory

import (
	"context"
	"sort"

	"github.com/jhoicas/estoque-api/internal/domain"
	"github.com/jhoicas/estoque-api/internal/domain/entity"
	"github.com/jhoicas/estoque-api/internal/domain/repository"
)

var _ repository.StockRepository = (*StockRepo)(nil)

// StockRepo filas producto x local en memoria.
type StockRepo struct {
	s    *Store
	inTx bool
}

func (r *StockRepo) Get(_ context.Context, productID, locationID int64) (*entity.StockEntry, error) {
	var out *entity.StockEntry
	err := r.s.do(r.inTx, func(st *state) error {
		if row, ok := st.stockFor(productID, locationID); ok {
			out = row.entity()
		}
		return nil
	})
	return out, err
}

// GetForUpdate equivale a Get: dentro de Run el mutex del Store ya serializa.
func (r *StockRepo) GetForUpdate(ctx context.Context, productID, locationID int64) (*entity.StockEntry, error) {
	return r.Get(ctx, productID, locationID)
}

func (r *StockRepo) Decrement(_ context.Context, entryID int64, qty int) (int, error) {
	var remaining int
	err := r.s.do(r.inTx, func(st *state) error {
		row, ok := st.stock[entryID]
		if !ok || qty <= 0 || row.Quantity < qty {
			return domain.ErrInsufficientStock
		}
		row.Quantity -= qty
		row.UpdatedAt = r.s.now()
		st.stock[entryID] = row
		remaining = row.Quantity
		return nil
	})
	return remaining, err
}

func (r *StockRepo) Increment(_ context.Context, productID, locationID int64, qty int) (*entity.StockEntry, error) {
	return r.upsert(productID, locationID, func(current int) int { return current + qty }, qty)
}

func (r *StockRepo) Set(_ context.Context, productID, locationID int64, qty int) (*entity.StockEntry, error) {
	return r.upsert(productID, locationID, func(int) int { return qty }, qty)
}

func (r *StockRepo) upsert(productID, locationID int64, next func(current int) int, initial int) (*entity.StockEntry, error) {
	var out *entity.StockEntry
	err := r.s.do(r.inTx, func(st *state) error {
		if _, ok := st.products[productID]; !ok {
			return domain.ErrNotFound
		}
		if _, ok := st.locations[locationID]; !ok {
			return domain.ErrNotFound
		}
		// Igual que la columna INTEGER: fuera de rango es entrada inválida, no saldo.
		if initial > entity.MaxQuantity {
			return domain.ErrInvalidInput
		}
		row, ok := st.stockFor(productID, locationID)
		if ok {
			row.Quantity = next(row.Quantity)
		} else {
			st.nextStock++
			row = stockRow{ID: st.nextStock, ProductID: productID, LocationID: locationID, Quantity: initial}
		}
		if row.Quantity < 0 {
			return domain.ErrInsufficientStock
		}
		if row.Quantity > entity.MaxQuantity {
			return domain.ErrInvalidInput
		}
		row.UpdatedAt = r.s.now()
		st.stock[row.ID] = row
		out = row.entity()
		return nil
	})
	return out, err
}

func (r *StockRepo) DeleteByProduct(_ context.Context, productID int64) error {
	return r.s.do(r.inTx, func(st *state) error {
		for id, row := range st.stock {
			if row.ProductID == productID {
				delete(st.stock, id)
			}
		}
		return nil
	})
}

func (r *StockRepo) List(_ context.Context, filter repository.StockFilter) ([]repository.StockItem, error) {
	items, err := r.items(func(row stockRow) bool {
		return filter.LocationID == nil || row.LocationID == *filter.LocationID
	})
	sort.Slice(items, func(i, j int) bool {
		a, b := items[i], items[j]
		if a.ProductName != b.ProductName {
			return a.ProductName < b.ProductName
		}
		if a.ProductID != b.ProductID {
			return a.ProductID < b.ProductID
		}
		return a.LocationID < b.LocationID
	})
	return items, err
}

func (r *StockRepo) ListLowStock(_ context.Context, threshold int) ([]repository.StockItem, error) {
	items, err := r.items(func(row stockRow) bool { return row.Quantity <= threshold })
	sort.Slice(items, func(i, j int) bool {
		a, b := items[i], items[j]
		if a.Quantity != b.Quantity {
			return a.Quantity < b.Quantity
		}
		if a.ProductName != b.ProductName {
			return a.ProductName < b.ProductName
		}
		return a.LocationID < b.LocationID
	})
	return items, err
}

func (r *StockRepo) items(keep func(stockRow) bool) ([]repository.StockItem, error) {
	var out []repository.StockItem
	err := r.s.do(r.inTx, func(st *state) error {
		for _, row := range st.stock {
			if !keep(row) {
				continue
			}
			p := st.products[row.ProductID]
			out = append(out, repository.StockItem{
				EntryID:     row.ID,
				ProductID:   row.ProductID,
				ProductName: p.Name,
				ExpiresAt:   p.ExpiresAt,
				LocationID:  row.LocationID,
				Quantity:    row.Quantity,
			})
		}
		return nil
	})
	return out, err
}
