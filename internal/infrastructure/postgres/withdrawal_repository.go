package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/jhoicas/estoque-api/internal/domain"
	"github.com/jhoicas/estoque-api/internal/domain/entity"
	"github.com/jhoicas/estoque-api/internal/domain/repository"
)

var _ repository.WithdrawalRepository = (*WithdrawalRepo)(nil)

// WithdrawalRepo adaptador de la tabla withdrawals (append-only).
type WithdrawalRepo struct {
	q Querier
}

// NewWithdrawalRepository construye el adaptador de retiradas. Pasar pool o tx (Querier).
func NewWithdrawalRepository(q Querier) *WithdrawalRepo {
	return &WithdrawalRepo{q: q}
}

// Create registra la retirada.
func (r *WithdrawalRepo) Create(ctx context.Context, w *entity.Withdrawal) error {
	query := `
		INSERT INTO withdrawals (product_id, user_id, stock_id, quantity, destination)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at`
	err := r.q.QueryRow(ctx, query, w.ProductID, w.UserID, w.LocationID, w.Quantity, w.Destination).
		Scan(&w.ID, &w.CreatedAt)
	if err != nil {
		switch {
		case isForeignKeyViolation(err):
			return domain.ErrNotFound
		case isCheckViolation(err):
			return fmt.Errorf("%w: quantidade deve ser positiva", domain.ErrInvalidInput)
		}
		return fmt.Errorf("insert withdrawal: %w", err)
	}
	return nil
}

// DeleteByProduct borra el historial de un producto (solo al eliminar el producto).
func (r *WithdrawalRepo) DeleteByProduct(ctx context.Context, productID int64) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM withdrawals WHERE product_id = $1`, productID); err != nil {
		return fmt.Errorf("delete withdrawals by product: %w", err)
	}
	return nil
}

// List historial con nombres de producto y usuario, más recientes primero.
func (r *WithdrawalRepo) List(ctx context.Context, filter repository.WithdrawalFilter) ([]repository.WithdrawalItem, error) {
	query := `
		SELECT w.id, w.product_id, p.name, w.user_id, u.username, w.stock_id, w.quantity, w.destination, w.created_at
		FROM withdrawals w
		JOIN products p ON p.id = w.product_id
		JOIN users u ON u.id = w.user_id`
	var (
		conds []string
		args  []any
	)
	if filter.UserID != nil {
		args = append(args, *filter.UserID)
		conds = append(conds, fmt.Sprintf("w.user_id = $%d", len(args)))
	}
	if filter.From != nil {
		args = append(args, *filter.From)
		conds = append(conds, fmt.Sprintf("w.created_at >= $%d", len(args)))
	}
	if filter.To != nil {
		args = append(args, *filter.To)
		conds = append(conds, fmt.Sprintf("w.created_at <= $%d", len(args)))
	}
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += " ORDER BY w.created_at DESC, w.id DESC"

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list withdrawals: %w", err)
	}
	defer rows.Close()
	var list []repository.WithdrawalItem
	for rows.Next() {
		var it repository.WithdrawalItem
		if err := rows.Scan(&it.ID, &it.ProductID, &it.ProductName, &it.UserID, &it.Username,
			&it.LocationID, &it.Quantity, &it.Destination, &it.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan withdrawal: %w", err)
		}
		list = append(list, it)
	}
	return list, rows.Err()
}
