package inventory_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/jhoicas/estoque-api/internal/domain/entity"
	"github.com/jhoicas/estoque-api/internal/infrastructure/memory"
)

type fixture struct {
	store    *memory.Store
	loja     *entity.Location
	bar      *entity.Location
	admin    entity.Principal
	employee entity.Principal
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()
	store := memory.NewStore()

	loja, err := store.Locations().Ensure(ctx, entity.LocationStore)
	require.NoError(t, err)
	bar, err := store.Locations().Ensure(ctx, entity.LocationBar)
	require.NoError(t, err)

	admin := &entity.User{Username: "admin", PasswordHash: "x", Role: entity.RoleAdmin, LocationID: &loja.ID}
	require.NoError(t, store.Users().Create(ctx, admin))
	emp := &entity.User{Username: "funcionario", PasswordHash: "x", Role: entity.RoleEmployee, LocationID: &bar.ID}
	require.NoError(t, store.Users().Create(ctx, emp))

	return &fixture{
		store:    store,
		loja:     loja,
		bar:      bar,
		admin:    entity.Principal{UserID: admin.ID, Username: admin.Username, Role: entity.RoleAdmin, LocationID: loja.ID},
		employee: entity.Principal{UserID: emp.ID, Username: emp.Username, Role: entity.RoleEmployee, LocationID: bar.ID},
	}
}

// product crea un producto con qty unidades en el local.
func (f *fixture) product(t *testing.T, name string, locationID int64, qty int) *entity.Product {
	t.Helper()
	ctx := context.Background()
	p := &entity.Product{Name: name, ExpiresAt: time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)}
	require.NoError(t, f.store.Products().Create(ctx, p))
	_, err := f.store.Stock().Set(ctx, p.ID, locationID, qty)
	require.NoError(t, err)
	return p
}

func (f *fixture) quantity(t *testing.T, productID, locationID int64) int {
	t.Helper()
	entry, err := f.store.Stock().Get(context.Background(), productID, locationID)
	require.NoError(t, err)
	require.NotNil(t, entry)
	return entry.Quantity
}
