package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/jhoicas/estoque-api/internal/application/dto"
	"github.com/jhoicas/estoque-api/internal/application/inventory"
	"github.com/jhoicas/estoque-api/internal/domain/repository"
)

// BackupUseCase exporta el catálogo con cantidades por local (formato que acepta cmd/import).
type BackupUseCase struct {
	stockRepo repository.StockRepository
	now       func() time.Time
}

// NewBackupUseCase construye el caso de uso.
func NewBackupUseCase(stockRepo repository.StockRepository) *BackupUseCase {
	return &BackupUseCase{stockRepo: stockRepo, now: time.Now}
}

// Export devuelve el nombre de archivo sugerido y todas las filas de stock.
func (uc *BackupUseCase) Export(ctx context.Context) (string, []dto.ProductStockResponse, error) {
	items, err := uc.stockRepo.List(ctx, repository.StockFilter{})
	if err != nil {
		return "", nil, err
	}
	return BackupFilename(uc.now()), inventory.ToProductStockResponses(items), nil
}

// BackupFilename backup_produtos_2025-06-22T22-52-10-154Z.json
func BackupFilename(t time.Time) string {
	ts := t.UTC().Format("2006-01-02T15:04:05.000Z")
	ts = strings.NewReplacer(":", "-", ".", "-").Replace(ts)
	return "backup_produtos_" + ts + ".json"
}
