package memory

import (
	"context"

	"github.com/jhoicas/estoque-api/internal/domain"
	"github.com/jhoicas/estoque-api/internal/domain/entity"
	"github.com/jhoicas/estoque-api/internal/domain/repository"
)

var _ repository.UserRepository = (*UserRepo)(nil)

// UserRepo usuarios en memoria.
type UserRepo struct {
	s *Store
}

func (r *UserRepo) Create(_ context.Context, user *entity.User) error {
	return r.s.do(false, func(st *state) error {
		for _, row := range st.users {
			if row.Username == user.Username {
				return domain.ErrDuplicate
			}
		}
		if user.LocationID != nil {
			if _, ok := st.locations[*user.LocationID]; !ok {
				return domain.ErrNotFound
			}
		}
		st.nextUser++
		now := r.s.now()
		user.ID = st.nextUser
		user.CreatedAt, user.UpdatedAt = now, now
		row := userRow(*user)
		if user.LocationID != nil {
			id := *user.LocationID
			row.LocationID = &id
		}
		st.users[user.ID] = row
		return nil
	})
}

func (r *UserRepo) GetByID(_ context.Context, id int64) (*entity.User, error) {
	var out *entity.User
	err := r.s.do(false, func(st *state) error {
		if row, ok := st.users[id]; ok {
			out = row.entity()
		}
		return nil
	})
	return out, err
}

func (r *UserRepo) GetByUsername(_ context.Context, username string) (*entity.User, error) {
	var out *entity.User
	err := r.s.do(false, func(st *state) error {
		for _, row := range st.users {
			if row.Username == username {
				out = row.entity()
				break
			}
		}
		return nil
	})
	return out, err
}

func (r *UserRepo) UpdatePassword(_ context.Context, id int64, passwordHash string) error {
	return r.s.do(false, func(st *state) error {
		row, ok := st.users[id]
		if !ok {
			return domain.ErrUserNotFound
		}
		row.PasswordHash = passwordHash
		row.UpdatedAt = r.s.now()
		st.users[id] = row
		return nil
	})
}
