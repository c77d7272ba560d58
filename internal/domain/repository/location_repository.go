package repository

import (
	"context"

	"github.com/jhoicas/estoque-api/internal/domain/entity"
)

// LocationRepository define el puerto de persistencia para los locales (stocks).
type LocationRepository interface {
	GetByID(ctx context.Context, id int64) (*entity.Location, error)
	GetByName(ctx context.Context, name string) (*entity.Location, error)
	List(ctx context.Context) ([]*entity.Location, error)
	// Ensure crea el local si no existe y lo devuelve en cualquier caso.
	Ensure(ctx context.Context, name string) (*entity.Location, error)
}
