package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/estoque-api/internal/domain/entity"
	"github.com/jhoicas/estoque-api/internal/domain/repository"
)

var _ repository.LocationRepository = (*LocationRepo)(nil)

// LocationRepo adaptador de la tabla stocks (locales).
type LocationRepo struct {
	q Querier
}

// NewLocationRepository construye el adaptador de locales.
func NewLocationRepository(q Querier) *LocationRepo {
	return &LocationRepo{q: q}
}

func (r *LocationRepo) GetByID(ctx context.Context, id int64) (*entity.Location, error) {
	return r.getOne(ctx, `SELECT id, name, created_at FROM stocks WHERE id = $1`, id)
}

func (r *LocationRepo) GetByName(ctx context.Context, name string) (*entity.Location, error) {
	return r.getOne(ctx, `SELECT id, name, created_at FROM stocks WHERE name = $1`, name)
}

func (r *LocationRepo) getOne(ctx context.Context, query string, arg any) (*entity.Location, error) {
	var l entity.Location
	if err := r.q.QueryRow(ctx, query, arg).Scan(&l.ID, &l.Name, &l.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get location: %w", err)
	}
	return &l, nil
}

// List devuelve todos los locales ordenados por ID.
func (r *LocationRepo) List(ctx context.Context) ([]*entity.Location, error) {
	rows, err := r.q.Query(ctx, `SELECT id, name, created_at FROM stocks ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list locations: %w", err)
	}
	defer rows.Close()
	var list []*entity.Location
	for rows.Next() {
		var l entity.Location
		if err := rows.Scan(&l.ID, &l.Name, &l.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan location: %w", err)
		}
		list = append(list, &l)
	}
	return list, rows.Err()
}

// Ensure crea el local si no existe (idempotente, usado por el seed).
func (r *LocationRepo) Ensure(ctx context.Context, name string) (*entity.Location, error) {
	query := `
		INSERT INTO stocks (name) VALUES ($1)
		ON CONFLICT (name) DO UPDATE SET name = EXCLUDED.name
		RETURNING id, name, created_at`
	var l entity.Location
	if err := r.q.QueryRow(ctx, query, name).Scan(&l.ID, &l.Name, &l.CreatedAt); err != nil {
		return nil, fmt.Errorf("ensure location: %w", err)
	}
	return &l, nil
}
