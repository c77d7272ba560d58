package inventory_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/estoque-api/internal/application/dto"
	"github.com/jhoicas/estoque-api/internal/application/inventory"
	"github.com/jhoicas/estoque-api/internal/domain"
	"github.com/jhoicas/estoque-api/internal/domain/entity"
	"github.com/jhoicas/estoque-api/internal/domain/repository"
)

func newStockUseCase(f *fixture) *inventory.StockUseCase {
	return inventory.NewStockUseCase(f.store, f.store.Products(), f.store.Stock(), f.store.Locations())
}

func TestCreateProduct_CreaProductoYFila(t *testing.T) {
	f := newFixture(t)
	uc := newStockUseCase(f)

	resp, err := uc.CreateProduct(context.Background(), dto.UpsertProductRequest{
		Nome: "Cerveja", Validade: "2025-03-10", Quantidade: 12, StockID: dto.FlexInt(f.bar.ID),
	})

	require.NoError(t, err)
	assert.Equal(t, "Cerveja", resp.Nome)
	assert.Equal(t, "2025-03-10T00:00:00.000Z", resp.Validade)
	assert.Equal(t, 12, f.quantity(t, resp.ID, f.bar.ID))
}

func TestCreateProduct_Validaciones(t *testing.T) {
	f := newFixture(t)
	uc := newStockUseCase(f)
	ctx := context.Background()

	_, err := uc.CreateProduct(ctx, dto.UpsertProductRequest{Nome: "", Validade: "2025-03-10", StockID: dto.FlexInt(f.bar.ID)})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = uc.CreateProduct(ctx, dto.UpsertProductRequest{Nome: "X", Validade: "10/03/2025", StockID: dto.FlexInt(f.bar.ID)})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = uc.CreateProduct(ctx, dto.UpsertProductRequest{Nome: "X", Validade: "2025-03-10", Quantidade: -1, StockID: dto.FlexInt(f.bar.ID)})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = uc.CreateProduct(ctx, dto.UpsertProductRequest{Nome: "X", Validade: "2025-03-10"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = uc.CreateProduct(ctx, dto.UpsertProductRequest{Nome: "X", Validade: "2025-03-10", StockID: 999})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestAddStock_IncrementaNoReemplaza(t *testing.T) {
	f := newFixture(t)
	p := f.product(t, "Gelo", f.bar.ID, 0)
	uc := newStockUseCase(f)
	ctx := context.Background()

	_, err := uc.AddStock(ctx, dto.AddStockRequest{ProductID: dto.FlexInt(p.ID), StockID: dto.FlexInt(f.bar.ID), Quantity: 3})
	require.NoError(t, err)
	entry, err := uc.AddStock(ctx, dto.AddStockRequest{ProductID: dto.FlexInt(p.ID), StockID: dto.FlexInt(f.bar.ID), Quantity: 4})
	require.NoError(t, err)

	assert.Equal(t, 7, entry.Quantidade)
	assert.Equal(t, 7, f.quantity(t, p.ID, f.bar.ID))
}

func TestAddStock_CreaFilaEnLocalNuevo(t *testing.T) {
	f := newFixture(t)
	p := f.product(t, "Gelo", f.bar.ID, 2)
	uc := newStockUseCase(f)

	entry, err := uc.AddStock(context.Background(), dto.AddStockRequest{ProductID: dto.FlexInt(p.ID), StockID: dto.FlexInt(f.loja.ID), Quantity: 5})

	require.NoError(t, err)
	assert.Equal(t, 5, entry.Quantidade)
	assert.Equal(t, 2, f.quantity(t, p.ID, f.bar.ID))
}

func TestAddStock_ErroresDeEntrada(t *testing.T) {
	f := newFixture(t)
	p := f.product(t, "Gelo", f.bar.ID, 2)
	uc := newStockUseCase(f)
	ctx := context.Background()

	_, err := uc.AddStock(ctx, dto.AddStockRequest{ProductID: dto.FlexInt(p.ID), StockID: dto.FlexInt(f.bar.ID), Quantity: -2})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = uc.AddStock(ctx, dto.AddStockRequest{ProductID: 999, StockID: dto.FlexInt(f.bar.ID), Quantity: 1})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = uc.AddStock(ctx, dto.AddStockRequest{ProductID: dto.FlexInt(p.ID), StockID: 999, Quantity: 1})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestAddStock_LimiteDeCantidad(t *testing.T) {
	f := newFixture(t)
	p := f.product(t, "Gelo", f.bar.ID, 5)
	uc := newStockUseCase(f)
	ctx := context.Background()

	_, err := uc.AddStock(ctx, dto.AddStockRequest{ProductID: dto.FlexInt(p.ID), StockID: dto.FlexInt(f.bar.ID), Quantity: 3_000_000_000})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Equal(t, 5, f.quantity(t, p.ID, f.bar.ID))

	_, err = uc.AddStock(ctx, dto.AddStockRequest{ProductID: dto.FlexInt(p.ID), StockID: dto.FlexInt(f.bar.ID), Quantity: entity.MaxQuantity - 5})
	require.NoError(t, err)
	assert.Equal(t, entity.MaxQuantity, f.quantity(t, p.ID, f.bar.ID))

	// La suma pasaría del máximo: entrada inválida, no saldo insuficiente.
	_, err = uc.AddStock(ctx, dto.AddStockRequest{ProductID: dto.FlexInt(p.ID), StockID: dto.FlexInt(f.bar.ID), Quantity: 1})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Equal(t, entity.MaxQuantity, f.quantity(t, p.ID, f.bar.ID))
}

func TestCreateProduct_CantidadSobreElMaximo(t *testing.T) {
	f := newFixture(t)
	uc := newStockUseCase(f)

	_, err := uc.CreateProduct(context.Background(), dto.UpsertProductRequest{
		Nome: "X", Validade: "2025-03-10", Quantidade: entity.MaxQuantity + 1, StockID: dto.FlexInt(f.bar.ID),
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	resp, err := uc.CreateProduct(context.Background(), dto.UpsertProductRequest{
		Nome: "Y", Validade: "2025-03-10", Quantidade: entity.MaxQuantity, StockID: dto.FlexInt(f.bar.ID),
	})
	require.NoError(t, err)
	assert.Equal(t, entity.MaxQuantity, f.quantity(t, resp.ID, f.bar.ID))
}

func TestUpdateProduct_NoTocaOtrosLocales(t *testing.T) {
	f := newFixture(t)
	p := f.product(t, "Cerveja", f.bar.ID, 10)
	_, err := f.store.Stock().Set(context.Background(), p.ID, f.loja.ID, 20)
	require.NoError(t, err)
	uc := newStockUseCase(f)

	resp, err := uc.UpdateProduct(context.Background(), p.ID, dto.UpsertProductRequest{
		Nome: "Cerveja Lata", Validade: "2025-12-31", Quantidade: 4, StockID: dto.FlexInt(f.bar.ID),
	})

	require.NoError(t, err)
	assert.Equal(t, "Cerveja Lata", resp.Nome)
	assert.Equal(t, 4, f.quantity(t, p.ID, f.bar.ID))
	assert.Equal(t, 20, f.quantity(t, p.ID, f.loja.ID))
}

func TestUpdateProduct_Inexistente(t *testing.T) {
	f := newFixture(t)
	uc := newStockUseCase(f)

	_, err := uc.UpdateProduct(context.Background(), 404, dto.UpsertProductRequest{Nome: "X", Validade: "2025-01-01"})

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestDeleteProduct_BorraRetiradasYStock(t *testing.T) {
	f := newFixture(t)
	p := f.product(t, "Cerveja", f.bar.ID, 10)
	_, err := f.store.Stock().Set(context.Background(), p.ID, f.loja.ID, 3)
	require.NoError(t, err)
	_, err = inventory.NewWithdrawUseCase(f.store).Withdraw(context.Background(), inventory.WithdrawInput{
		Actor: f.employee, ProductID: p.ID, Quantity: 2, Destination: "BAR_PUB",
	})
	require.NoError(t, err)
	other := f.product(t, "Água", f.bar.ID, 1)
	uc := newStockUseCase(f)

	require.NoError(t, uc.DeleteProduct(context.Background(), p.ID))

	got, err := f.store.Products().GetByID(context.Background(), p.ID)
	require.NoError(t, err)
	assert.Nil(t, got)
	items, err := f.store.Stock().List(context.Background(), repository.StockFilter{})
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, other.ID, items[0].ProductID)
	withdrawals, err := f.store.Withdrawals().List(context.Background(), repository.WithdrawalFilter{})
	require.NoError(t, err)
	assert.Empty(t, withdrawals)

	assert.ErrorIs(t, uc.DeleteProduct(context.Background(), p.ID), domain.ErrNotFound)
}

func TestListProducts_EmpleadoSoloVeSuLocal(t *testing.T) {
	f := newFixture(t)
	f.product(t, "Zimbro", f.bar.ID, 1)
	f.product(t, "Água", f.bar.ID, 1)
	f.product(t, "Leite", f.loja.ID, 1)
	uc := newStockUseCase(f)

	list, err := uc.ListProducts(context.Background(), f.employee, f.loja.ID)

	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "Água", list[0].Nome, "orden pt-BR: Água antes de Zimbro")
	for _, it := range list {
		assert.Equal(t, f.bar.ID, it.StockID)
	}

	all, err := uc.ListProducts(context.Background(), f.admin, 0)
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestImportProduct_ConservaIDYSuma(t *testing.T) {
	f := newFixture(t)
	uc := newStockUseCase(f)
	item := dto.ProductStockResponse{ID: 50, Nome: "Vinho", Validade: "2025-08-01T00:00:00.000Z", Quantidade: 3}

	_, err := uc.ImportProduct(context.Background(), f.loja.ID, item)
	require.NoError(t, err)
	entry, err := uc.ImportProduct(context.Background(), f.loja.ID, item)
	require.NoError(t, err)

	assert.Equal(t, 6, entry.Quantity)
	p, err := f.store.Products().GetByID(context.Background(), 50)
	require.NoError(t, err)
	require.NotNil(t, p)

	next := &entity.Product{Name: "Novo", ExpiresAt: p.ExpiresAt}
	require.NoError(t, f.store.Products().Create(context.Background(), next))
	assert.Greater(t, next.ID, int64(50))
}

func TestImportProduct_CantidadFueraDeRango(t *testing.T) {
	f := newFixture(t)
	uc := newStockUseCase(f)
	item := dto.ProductStockResponse{ID: 51, Nome: "Vinho", Validade: "2025-08-01T00:00:00.000Z", Quantidade: entity.MaxQuantity + 1}

	_, err := uc.ImportProduct(context.Background(), f.loja.ID, item)

	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	p, err := f.store.Products().GetByID(context.Background(), 51)
	require.NoError(t, err)
	assert.Nil(t, p)
}
