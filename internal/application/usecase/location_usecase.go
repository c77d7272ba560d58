package usecase

import (
	"context"

	"github.com/jhoicas/estoque-api/internal/application/dto"
	"github.com/jhoicas/estoque-api/internal/domain/repository"
)

// LocationUseCase consultas sobre los locales (datos de referencia estáticos).
type LocationUseCase struct {
	repo repository.LocationRepository
}

// NewLocationUseCase construye el caso de uso.
func NewLocationUseCase(repo repository.LocationRepository) *LocationUseCase {
	return &LocationUseCase{repo: repo}
}

// List devuelve todos los locales.
func (uc *LocationUseCase) List(ctx context.Context) ([]dto.LocationResponse, error) {
	list, err := uc.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.LocationResponse, 0, len(list))
	for _, l := range list {
		out = append(out, dto.LocationResponse{ID: l.ID, Name: l.Name})
	}
	return out, nil
}

// Destination devuelve la etiqueta de destino por defecto del local (vacío si no existe).
func (uc *LocationUseCase) Destination(ctx context.Context, id int64) (string, error) {
	if id == 0 {
		return "", nil
	}
	loc, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return "", err
	}
	return loc.Destination(), nil
}
