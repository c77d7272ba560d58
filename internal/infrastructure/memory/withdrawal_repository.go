package memory

import (
	"context"
	"fmt"
	"sort"

	"github.com/jhoicas/estoque-api/internal/domain"
	"github.com/jhoicas/estoque-api/internal/domain/entity"
	"github.com/jhoicas/estoque-api/internal/domain/repository"
)

var _ repository.WithdrawalRepository = (*WithdrawalRepo)(nil)

// WithdrawalRepo historial de retiradas en memoria (append-only).
type WithdrawalRepo struct {
	s    *Store
	inTx bool
}

func (r *WithdrawalRepo) Create(_ context.Context, w *entity.Withdrawal) error {
	if w.Quantity <= 0 {
		return fmt.Errorf("%w: quantidade deve ser positiva", domain.ErrInvalidInput)
	}
	return r.s.do(r.inTx, func(st *state) error {
		_, okProduct := st.products[w.ProductID]
		_, okUser := st.users[w.UserID]
		_, okLocation := st.locations[w.LocationID]
		if !okProduct || !okUser || !okLocation {
			return domain.ErrNotFound
		}
		st.nextWithdrawal++
		w.ID = st.nextWithdrawal
		w.CreatedAt = r.s.now()
		st.withdrawals = append(st.withdrawals, withdrawalRow(*w))
		return nil
	})
}

func (r *WithdrawalRepo) DeleteByProduct(_ context.Context, productID int64) error {
	return r.s.do(r.inTx, func(st *state) error {
		kept := st.withdrawals[:0:0]
		for _, w := range st.withdrawals {
			if w.ProductID != productID {
				kept = append(kept, w)
			}
		}
		st.withdrawals = kept
		return nil
	})
}

func (r *WithdrawalRepo) List(_ context.Context, filter repository.WithdrawalFilter) ([]repository.WithdrawalItem, error) {
	var out []repository.WithdrawalItem
	err := r.s.do(r.inTx, func(st *state) error {
		for _, w := range st.withdrawals {
			if filter.UserID != nil && w.UserID != *filter.UserID {
				continue
			}
			if filter.From != nil && w.CreatedAt.Before(*filter.From) {
				continue
			}
			if filter.To != nil && w.CreatedAt.After(*filter.To) {
				continue
			}
			out = append(out, repository.WithdrawalItem{
				ID:          w.ID,
				ProductID:   w.ProductID,
				ProductName: st.products[w.ProductID].Name,
				UserID:      w.UserID,
				Username:    st.users[w.UserID].Username,
				LocationID:  w.LocationID,
				Quantity:    w.Quantity,
				Destination: w.Destination,
				CreatedAt:   w.CreatedAt,
			})
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID > out[j].ID
	})
	return out, err
}
