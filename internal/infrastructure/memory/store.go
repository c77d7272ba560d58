// Package memory implementa los puertos de repositorio en memoria del proceso.
// Lo usan los tests y DB_DRIVER=memory para demos locales; los datos se pierden al reiniciar.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/jhoicas/estoque-api/internal/application/inventory"
	"github.com/jhoicas/estoque-api/internal/domain/repository"
)

var _ inventory.TxRunner = (*Store)(nil)

// Store guarda todas las tablas detrás de un único mutex.
// Run mantiene el mutex durante toda la transacción, así que las transacciones se serializan.
type Store struct {
	mu   sync.Mutex
	data *state
	now  func() time.Time
}

type state struct {
	products    map[int64]productRow
	locations   map[int64]locationRow
	stock       map[int64]stockRow
	users       map[int64]userRow
	withdrawals []withdrawalRow

	nextProduct, nextLocation, nextStock, nextUser, nextWithdrawal int64
}

// NewStore crea un almacenamiento vacío.
func NewStore() *Store {
	return &Store{
		data: &state{
			products:  map[int64]productRow{},
			locations: map[int64]locationRow{},
			stock:     map[int64]stockRow{},
			users:     map[int64]userRow{},
		},
		now: func() time.Time { return time.Now().UTC() },
	}
}

// WithClock fija el reloj usado para created_at/updated_at.
func (s *Store) WithClock(now func() time.Time) *Store {
	s.now = now
	return s
}

// Products, Locations, Stock, Users y Withdrawals devuelven repositorios fuera de transacción.
func (s *Store) Products() *ProductRepo       { return &ProductRepo{s: s} }
func (s *Store) Locations() *LocationRepo     { return &LocationRepo{s: s} }
func (s *Store) Stock() *StockRepo            { return &StockRepo{s: s} }
func (s *Store) Users() *UserRepo             { return &UserRepo{s: s} }
func (s *Store) Withdrawals() *WithdrawalRepo { return &WithdrawalRepo{s: s} }

// Run ejecuta fn con repositorios atados a la transacción.
// Si fn devuelve error o entra en pánico se restaura la copia tomada al empezar (rollback).
func (s *Store) Run(ctx context.Context, fn func(
	productRepo repository.ProductRepository,
	stockRepo repository.StockRepository,
	withdrawalRepo repository.WithdrawalRepository,
) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return err
	}
	snapshot := s.data.clone()
	defer func() {
		if p := recover(); p != nil {
			s.data = snapshot
			panic(p)
		}
	}()
	err := fn(
		&ProductRepo{s: s, inTx: true},
		&StockRepo{s: s, inTx: true},
		&WithdrawalRepo{s: s, inTx: true},
	)
	if err != nil {
		s.data = snapshot
		return err
	}
	return nil
}

// do ejecuta fn sobre el estado, tomando el mutex salvo dentro de Run (que ya lo tiene).
func (s *Store) do(inTx bool, fn func(st *state) error) error {
	if !inTx {
		s.mu.Lock()
		defer s.mu.Unlock()
	}
	return fn(s.data)
}

func (st *state) clone() *state {
	c := &state{
		products:       make(map[int64]productRow, len(st.products)),
		locations:      make(map[int64]locationRow, len(st.locations)),
		stock:          make(map[int64]stockRow, len(st.stock)),
		users:          make(map[int64]userRow, len(st.users)),
		withdrawals:    append([]withdrawalRow(nil), st.withdrawals...),
		nextProduct:    st.nextProduct,
		nextLocation:   st.nextLocation,
		nextStock:      st.nextStock,
		nextUser:       st.nextUser,
		nextWithdrawal: st.nextWithdrawal,
	}
	for k, v := range st.products {
		c.products[k] = v
	}
	for k, v := range st.locations {
		c.locations[k] = v
	}
	for k, v := range st.stock {
		c.stock[k] = v
	}
	for k, v := range st.users {
		c.users[k] = v
	}
	return c
}

func (st *state) stockFor(productID, locationID int64) (stockRow, bool) {
	for _, row := range st.stock {
		if row.ProductID == productID && row.LocationID == locationID {
			return row, true
		}
	}
	return stockRow{}, false
}
