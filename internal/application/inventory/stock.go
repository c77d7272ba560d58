package inventory

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/jhoicas/estoque-api/internal/application/dto"
	"github.com/jhoicas/estoque-api/internal/domain"
	"github.com/jhoicas/estoque-api/internal/domain/entity"
	"github.com/jhoicas/estoque-api/internal/domain/repository"
)

// StockUseCase CRUD de productos y cantidades por local. Es el único lugar donde se escriben
// cantidades fuera de una retirada, y nunca deja una fila negativa.
type StockUseCase struct {
	txRunner     TxRunner
	productRepo  repository.ProductRepository
	stockRepo    repository.StockRepository
	locationRepo repository.LocationRepository
}

// NewStockUseCase construye el caso de uso.
func NewStockUseCase(
	txRunner TxRunner,
	productRepo repository.ProductRepository,
	stockRepo repository.StockRepository,
	locationRepo repository.LocationRepository,
) *StockUseCase {
	return &StockUseCase{
		txRunner:     txRunner,
		productRepo:  productRepo,
		stockRepo:    stockRepo,
		locationRepo: locationRepo,
	}
}

// CreateProduct crea el producto y su fila de stock en el local indicado (misma transacción).
func (uc *StockUseCase) CreateProduct(ctx context.Context, in dto.UpsertProductRequest) (*dto.ProductResponse, error) {
	product, qty, locationID, err := validateUpsert(in)
	if err != nil {
		return nil, err
	}
	if locationID == 0 {
		return nil, fmt.Errorf("%w: stockId es requerido", domain.ErrInvalidInput)
	}
	if err := uc.requireLocation(ctx, locationID); err != nil {
		return nil, err
	}
	err = uc.txRunner.Run(ctx, func(
		productRepo repository.ProductRepository,
		stockRepo repository.StockRepository,
		_ repository.WithdrawalRepository,
	) error {
		if err := productRepo.Create(ctx, product); err != nil {
			return err
		}
		_, err := stockRepo.Set(ctx, product.ID, locationID, qty)
		return err
	})
	if err != nil {
		return nil, err
	}
	return toProductResponse(product), nil
}

// UpdateProduct actualiza nombre y vencimiento; si se indica stockId fija la cantidad solo en ese local.
// Las filas de otros locales no se tocan.
func (uc *StockUseCase) UpdateProduct(ctx context.Context, id int64, in dto.UpsertProductRequest) (*dto.ProductResponse, error) {
	if id <= 0 {
		return nil, fmt.Errorf("%w: id inválido", domain.ErrInvalidInput)
	}
	product, qty, locationID, err := validateUpsert(in)
	if err != nil {
		return nil, err
	}
	product.ID = id
	if locationID != 0 {
		if err := uc.requireLocation(ctx, locationID); err != nil {
			return nil, err
		}
	}
	err = uc.txRunner.Run(ctx, func(
		productRepo repository.ProductRepository,
		stockRepo repository.StockRepository,
		_ repository.WithdrawalRepository,
	) error {
		if err := productRepo.Update(ctx, product); err != nil {
			return err
		}
		if locationID == 0 {
			return nil
		}
		_, err := stockRepo.Set(ctx, product.ID, locationID, qty)
		return err
	})
	if err != nil {
		return nil, err
	}
	return toProductResponse(product), nil
}

// AddStock suma quantity a la fila (producto, local), creándola si no existe. No es idempotente:
// dos llamadas con a y b dejan a+b.
func (uc *StockUseCase) AddStock(ctx context.Context, in dto.AddStockRequest) (*dto.StockEntryResponse, error) {
	productID, locationID, qty := in.ProductID.Int64(), in.StockID.Int64(), in.Quantity.Int()
	if productID <= 0 || locationID <= 0 {
		return nil, fmt.Errorf("%w: productId y stockId son requeridos", domain.ErrInvalidInput)
	}
	if err := checkQuantity(qty); err != nil {
		return nil, err
	}
	if err := uc.requireLocation(ctx, locationID); err != nil {
		return nil, err
	}
	var entry *entity.StockEntry
	err := uc.txRunner.Run(ctx, func(
		productRepo repository.ProductRepository,
		stockRepo repository.StockRepository,
		_ repository.WithdrawalRepository,
	) error {
		p, err := productRepo.GetByID(ctx, productID)
		if err != nil {
			return err
		}
		if p == nil {
			return domain.ErrNotFound
		}
		entry, err = stockRepo.Increment(ctx, productID, locationID, qty)
		return err
	})
	if err != nil {
		return nil, err
	}
	return toStockEntryResponse(entry), nil
}

// DeleteProduct elimina retiradas, filas de stock y el producto, en ese orden y en una sola transacción.
func (uc *StockUseCase) DeleteProduct(ctx context.Context, id int64) error {
	if id <= 0 {
		return fmt.Errorf("%w: id inválido", domain.ErrInvalidInput)
	}
	return uc.txRunner.Run(ctx, func(
		productRepo repository.ProductRepository,
		stockRepo repository.StockRepository,
		withdrawalRepo repository.WithdrawalRepository,
	) error {
		if err := withdrawalRepo.DeleteByProduct(ctx, id); err != nil {
			return err
		}
		if err := stockRepo.DeleteByProduct(ctx, id); err != nil {
			return err
		}
		return productRepo.Delete(ctx, id)
	})
}

// ListProducts lista productos con su cantidad por local, ordenados por nombre (colación pt-BR).
// Un EMPLOYEE siempre ve solo su local, independientemente de stockID.
func (uc *StockUseCase) ListProducts(ctx context.Context, actor entity.Principal, stockID int64) ([]dto.ProductStockResponse, error) {
	filter := repository.StockFilter{}
	switch {
	case actor.IsEmployee():
		if actor.LocationID == 0 {
			return nil, domain.ErrForbidden
		}
		loc := actor.LocationID
		filter.LocationID = &loc
	case stockID > 0:
		filter.LocationID = &stockID
	}
	items, err := uc.stockRepo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	return toProductStockResponses(items), nil
}

// ImportProduct inserta o actualiza el producto conservando su ID y suma la cantidad en el local.
// Usado por cmd/import para restaurar backups.
func (uc *StockUseCase) ImportProduct(ctx context.Context, locationID int64, item dto.ProductStockResponse) (*entity.StockEntry, error) {
	if item.ID <= 0 || strings.TrimSpace(item.Nome) == "" {
		return nil, fmt.Errorf("%w: id y nome son requeridos", domain.ErrInvalidInput)
	}
	if err := checkQuantity(item.Quantidade); err != nil {
		return nil, err
	}
	expires, err := dto.ParseDay(item.Validade)
	if err != nil {
		return nil, fmt.Errorf("%w: validade: %v", domain.ErrInvalidInput, err)
	}
	var entry *entity.StockEntry
	err = uc.txRunner.Run(ctx, func(
		productRepo repository.ProductRepository,
		stockRepo repository.StockRepository,
		_ repository.WithdrawalRepository,
	) error {
		p := &entity.Product{ID: item.ID, Name: strings.TrimSpace(item.Nome), ExpiresAt: expires}
		if err := productRepo.Upsert(ctx, p); err != nil {
			return err
		}
		var err error
		entry, err = stockRepo.Increment(ctx, p.ID, locationID, item.Quantidade)
		return err
	})
	return entry, err
}

func (uc *StockUseCase) requireLocation(ctx context.Context, id int64) error {
	loc, err := uc.locationRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if loc == nil {
		return domain.ErrNotFound
	}
	return nil
}

func validateUpsert(in dto.UpsertProductRequest) (*entity.Product, int, int64, error) {
	name := strings.TrimSpace(in.Nome)
	if name == "" {
		return nil, 0, 0, fmt.Errorf("%w: nome es requerido", domain.ErrInvalidInput)
	}
	expires, err := dto.ParseDay(in.Validade)
	if err != nil {
		return nil, 0, 0, fmt.Errorf("%w: validade: %v", domain.ErrInvalidInput, err)
	}
	qty := in.Quantidade.Int()
	if err := checkQuantity(qty); err != nil {
		return nil, 0, 0, err
	}
	return &entity.Product{Name: name, ExpiresAt: expires}, qty, in.StockID.Int64(), nil
}

// checkQuantity acepta 0..entity.MaxQuantity.
func checkQuantity(qty int) error {
	switch {
	case qty < 0:
		return fmt.Errorf("%w: la cantidad no puede ser negativa", domain.ErrInvalidInput)
	case qty > entity.MaxQuantity:
		return fmt.Errorf("%w: la cantidad supera el máximo de %d", domain.ErrInvalidInput, entity.MaxQuantity)
	}
	return nil
}

func toProductResponse(p *entity.Product) *dto.ProductResponse {
	if p == nil {
		return nil
	}
	return &dto.ProductResponse{ID: p.ID, Nome: p.Name, Validade: dto.FormatDay(p.ExpiresAt)}
}

func toStockEntryResponse(e *entity.StockEntry) *dto.StockEntryResponse {
	if e == nil {
		return nil
	}
	return &dto.StockEntryResponse{
		ID:         e.ID,
		ProdutoID:  e.ProductID,
		StockID:    e.LocationID,
		Quantidade: e.Quantity,
		UpdatedAt:  e.UpdatedAt.UTC().Format(time.RFC3339),
	}
}

// ToProductStockResponses convierte filas de stock al formato del API, ordenadas por nombre.
func ToProductStockResponses(items []repository.StockItem) []dto.ProductStockResponse {
	return toProductStockResponses(items)
}

func toProductStockResponses(items []repository.StockItem) []dto.ProductStockResponse {
	out := make([]dto.ProductStockResponse, 0, len(items))
	for _, it := range items {
		out = append(out, dto.ProductStockResponse{
			ID:         it.ProductID,
			Nome:       it.ProductName,
			Validade:   dto.FormatDay(it.ExpiresAt),
			Quantidade: it.Quantity,
			StockID:    it.LocationID,
		})
	}
	// El collator no es seguro para uso concurrente: uno por llamada.
	col := collate.New(language.BrazilianPortuguese, collate.IgnoreCase, collate.IgnoreDiacritics)
	sort.SliceStable(out, func(i, j int) bool {
		if c := col.CompareString(out[i].Nome, out[j].Nome); c != 0 {
			return c < 0
		}
		if out[i].ID != out[j].ID {
			return out[i].ID < out[j].ID
		}
		return out[i].StockID < out[j].StockID
	})
	return out
}
