package inventory_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/estoque-api/internal/application/dto"
	"github.com/jhoicas/estoque-api/internal/application/inventory"
	"github.com/jhoicas/estoque-api/internal/domain"
	"github.com/jhoicas/estoque-api/internal/domain/entity"
	"github.com/jhoicas/estoque-api/internal/domain/repository"
)

func TestWithdraw_DescuentaYRegistraUnaRetirada(t *testing.T) {
	f := newFixture(t)
	p := f.product(t, "Cerveja", f.bar.ID, 10)
	uc := inventory.NewWithdrawUseCase(f.store)

	res, err := uc.Withdraw(context.Background(), inventory.WithdrawInput{
		Actor: f.employee, ProductID: p.ID, Quantity: 4, Destination: " BAR_PUB ",
	})

	require.NoError(t, err)
	assert.Equal(t, 6, res.RemainingQuantity)
	assert.Equal(t, "BAR_PUB", res.Withdrawal.Destination)
	assert.Equal(t, f.bar.ID, res.Withdrawal.LocationID)
	assert.Equal(t, 6, f.quantity(t, p.ID, f.bar.ID))

	items, err := f.store.Withdrawals().List(context.Background(), repository.WithdrawalFilter{})
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, 4, items[0].Quantity)
	assert.Equal(t, f.employee.UserID, items[0].UserID)
}

func TestWithdraw_SaldoInsuficienteNoModificaNada(t *testing.T) {
	f := newFixture(t)
	p := f.product(t, "Gelo", f.bar.ID, 3)
	uc := inventory.NewWithdrawUseCase(f.store)

	_, err := uc.Withdraw(context.Background(), inventory.WithdrawInput{
		Actor: f.employee, ProductID: p.ID, Quantity: 5, Destination: "BAR_PUB",
	})

	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
	assert.Equal(t, 3, f.quantity(t, p.ID, f.bar.ID))
	items, _ := f.store.Withdrawals().List(context.Background(), repository.WithdrawalFilter{})
	assert.Empty(t, items)
}

func TestWithdraw_ProductoSinFilaEnElLocal(t *testing.T) {
	f := newFixture(t)
	p := f.product(t, "Água", f.loja.ID, 3)
	uc := inventory.NewWithdrawUseCase(f.store)

	_, err := uc.Withdraw(context.Background(), inventory.WithdrawInput{
		Actor: f.employee, ProductID: p.ID, Quantity: 1, Destination: "BAR_PUB",
	})

	assert.ErrorIs(t, err, domain.ErrProductNotInLocation)
}

func TestWithdraw_EmpleadoEnOtroLocal_Forbidden(t *testing.T) {
	f := newFixture(t)
	p := f.product(t, "Refrigerante", f.loja.ID, 8)
	uc := inventory.NewWithdrawUseCase(f.store)

	_, err := uc.Withdraw(context.Background(), inventory.WithdrawInput{
		Actor: f.employee, ProductID: p.ID, LocationID: f.loja.ID, Quantity: 1, Destination: "BAR_PUB",
	})

	assert.ErrorIs(t, err, domain.ErrForbidden)
	assert.Equal(t, 8, f.quantity(t, p.ID, f.loja.ID))
}

func TestWithdraw_AdminPuedeElegirLocal(t *testing.T) {
	f := newFixture(t)
	p := f.product(t, "Vinho", f.bar.ID, 2)
	uc := inventory.NewWithdrawUseCase(f.store)

	res, err := uc.Withdraw(context.Background(), inventory.WithdrawInput{
		Actor: f.admin, ProductID: p.ID, LocationID: f.bar.ID, Quantity: 2, Destination: "LOJA_PARK",
	})

	require.NoError(t, err)
	assert.Equal(t, 0, res.RemainingQuantity)
}

func TestWithdraw_ValidaEntrada(t *testing.T) {
	f := newFixture(t)
	p := f.product(t, "Suco", f.bar.ID, 5)
	uc := inventory.NewWithdrawUseCase(f.store)

	cases := map[string]inventory.WithdrawInput{
		"cantidad cero":     {Actor: f.employee, ProductID: p.ID, Quantity: 0, Destination: "BAR_PUB"},
		"cantidad negativa": {Actor: f.employee, ProductID: p.ID, Quantity: -1, Destination: "BAR_PUB"},
		"sin producto":      {Actor: f.employee, Quantity: 1, Destination: "BAR_PUB"},
		"sin destino":       {Actor: f.employee, ProductID: p.ID, Quantity: 1, Destination: "  "},
		"sobre el máximo":   {Actor: f.employee, ProductID: p.ID, Quantity: entity.MaxQuantity + 1, Destination: "BAR_PUB"},
	}
	for name, in := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := uc.Withdraw(context.Background(), in)
			assert.ErrorIs(t, err, domain.ErrInvalidInput)
		})
	}
	assert.Equal(t, 5, f.quantity(t, p.ID, f.bar.ID))
}

func TestWithdraw_ConcurrentesNoDejanSaldoNegativo(t *testing.T) {
	f := newFixture(t)
	p := f.product(t, "Cerveja", f.bar.ID, 10)
	uc := inventory.NewWithdrawUseCase(f.store)

	var (
		wg         sync.WaitGroup
		mu         sync.Mutex
		ok         int
		rejected   int
		unexpected []error
	)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := uc.Withdraw(context.Background(), inventory.WithdrawInput{
				Actor: f.employee, ProductID: p.ID, Quantity: 6, Destination: "BAR_PUB",
			})
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				ok++
			case errors.Is(err, domain.ErrInsufficientStock):
				rejected++
			default:
				unexpected = append(unexpected, err)
			}
		}()
	}
	wg.Wait()

	require.Empty(t, unexpected)
	assert.Equal(t, 1, ok)
	assert.Equal(t, 1, rejected)
	assert.Equal(t, 4, f.quantity(t, p.ID, f.bar.ID))
}

func TestWithdraw_MuchasRetiradasConcurrentes(t *testing.T) {
	f := newFixture(t)
	p := f.product(t, "Gelo", f.bar.ID, 10)
	uc := inventory.NewWithdrawUseCase(f.store)

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = uc.Withdraw(context.Background(), inventory.WithdrawInput{
				Actor: f.employee, ProductID: p.ID, Quantity: 3, Destination: "BAR_PUB",
			})
		}()
	}
	wg.Wait()

	items, err := f.store.Withdrawals().List(context.Background(), repository.WithdrawalFilter{})
	require.NoError(t, err)
	withdrawn := 0
	for _, it := range items {
		withdrawn += it.Quantity
	}
	assert.Len(t, items, 3)
	assert.Equal(t, 10-withdrawn, f.quantity(t, p.ID, f.bar.ID))
	assert.Equal(t, 1, f.quantity(t, p.ID, f.bar.ID))
}

func TestWithdrawFromRequest_Respuesta(t *testing.T) {
	f := newFixture(t)
	p := f.product(t, "Água", f.bar.ID, 5)
	uc := inventory.NewWithdrawUseCase(f.store)

	resp, err := uc.WithdrawFromRequest(context.Background(), f.employee, dto.WithdrawRequest{
		ProductID: dto.FlexInt(p.ID), Quantity: 2, Destination: "BAR_PUB",
	})

	require.NoError(t, err)
	assert.True(t, resp.Success)
	assert.NotZero(t, resp.RetiradaID)
	assert.Equal(t, 3, resp.QuantidadeRestante)
}
