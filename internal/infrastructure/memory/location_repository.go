package memory

import (
	"context"
	"sort"
	"strings"

	"github.com/jhoicas/estoque-api/internal/domain"
	"github.com/jhoicas/estoque-api/internal/domain/entity"
	"github.com/jhoicas/estoque-api/internal/domain/repository"
)

var _ repository.LocationRepository = (*LocationRepo)(nil)

// LocationRepo locales en memoria.
type LocationRepo struct {
	s *Store
}

func (r *LocationRepo) GetByID(_ context.Context, id int64) (*entity.Location, error) {
	var out *entity.Location
	err := r.s.do(false, func(st *state) error {
		if row, ok := st.locations[id]; ok {
			out = row.entity()
		}
		return nil
	})
	return out, err
}

func (r *LocationRepo) GetByName(_ context.Context, name string) (*entity.Location, error) {
	var out *entity.Location
	err := r.s.do(false, func(st *state) error {
		for _, row := range st.locations {
			if row.Name == name {
				out = row.entity()
				break
			}
		}
		return nil
	})
	return out, err
}

func (r *LocationRepo) List(_ context.Context) ([]*entity.Location, error) {
	var out []*entity.Location
	err := r.s.do(false, func(st *state) error {
		for _, row := range st.locations {
			out = append(out, row.entity())
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, err
}

func (r *LocationRepo) Ensure(_ context.Context, name string) (*entity.Location, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, domain.ErrInvalidInput
	}
	var out *entity.Location
	err := r.s.do(false, func(st *state) error {
		for _, row := range st.locations {
			if row.Name == name {
				out = row.entity()
				return nil
			}
		}
		st.nextLocation++
		row := locationRow{ID: st.nextLocation, Name: name, CreatedAt: r.s.now()}
		st.locations[row.ID] = row
		out = row.entity()
		return nil
	})
	return out, err
}
