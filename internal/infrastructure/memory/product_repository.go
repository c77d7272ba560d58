package memory

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/jhoicas/estoque-api/internal/domain"
	"github.com/jhoicas/estoque-api/internal/domain/entity"
	"github.com/jhoicas/estoque-api/internal/domain/repository"
)

var _ repository.ProductRepository = (*ProductRepo)(nil)

// ProductRepo productos en memoria.
type ProductRepo struct {
	s    *Store
	inTx bool
}

func (r *ProductRepo) Create(_ context.Context, product *entity.Product) error {
	return r.s.do(r.inTx, func(st *state) error {
		st.nextProduct++
		now := r.s.now()
		product.ID = st.nextProduct
		product.ExpiresAt = entity.DateOnly(product.ExpiresAt)
		product.CreatedAt, product.UpdatedAt = now, now
		st.products[product.ID] = productRow(*product)
		return nil
	})
}

func (r *ProductRepo) Upsert(_ context.Context, product *entity.Product) error {
	if product.ID <= 0 {
		return fmt.Errorf("%w: id requerido para upsert", domain.ErrInvalidInput)
	}
	return r.s.do(r.inTx, func(st *state) error {
		now := r.s.now()
		product.ExpiresAt = entity.DateOnly(product.ExpiresAt)
		product.UpdatedAt = now
		if existing, ok := st.products[product.ID]; ok {
			product.CreatedAt = existing.CreatedAt
		} else {
			product.CreatedAt = now
		}
		st.products[product.ID] = productRow(*product)
		if product.ID > st.nextProduct {
			st.nextProduct = product.ID
		}
		return nil
	})
}

func (r *ProductRepo) GetByID(_ context.Context, id int64) (*entity.Product, error) {
	var out *entity.Product
	err := r.s.do(r.inTx, func(st *state) error {
		if row, ok := st.products[id]; ok {
			out = row.entity()
		}
		return nil
	})
	return out, err
}

func (r *ProductRepo) Update(_ context.Context, product *entity.Product) error {
	return r.s.do(r.inTx, func(st *state) error {
		existing, ok := st.products[product.ID]
		if !ok {
			return domain.ErrNotFound
		}
		product.ExpiresAt = entity.DateOnly(product.ExpiresAt)
		product.CreatedAt = existing.CreatedAt
		product.UpdatedAt = r.s.now()
		st.products[product.ID] = productRow(*product)
		return nil
	})
}

func (r *ProductRepo) Delete(_ context.Context, id int64) error {
	return r.s.do(r.inTx, func(st *state) error {
		if _, ok := st.products[id]; !ok {
			return domain.ErrNotFound
		}
		for _, row := range st.stock {
			if row.ProductID == id {
				return fmt.Errorf("%w: el producto aún tiene stock o retiradas", domain.ErrInvalidInput)
			}
		}
		for _, w := range st.withdrawals {
			if w.ProductID == id {
				return fmt.Errorf("%w: el producto aún tiene stock o retiradas", domain.ErrInvalidInput)
			}
		}
		delete(st.products, id)
		return nil
	})
}

func (r *ProductRepo) ListExpiringBy(_ context.Context, cutoff time.Time) ([]*entity.Product, error) {
	var out []*entity.Product
	err := r.s.do(r.inTx, func(st *state) error {
		for _, row := range st.products {
			p := row.entity()
			if p.ExpiresWithin(cutoff) {
				out = append(out, p)
			}
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool {
		if !out[i].ExpiresAt.Equal(out[j].ExpiresAt) {
			return out[i].ExpiresAt.Before(out[j].ExpiresAt)
		}
		return out[i].ID < out[j].ID
	})
	return out, err
}
