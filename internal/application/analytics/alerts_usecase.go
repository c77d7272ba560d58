// Package analytics contiene las consultas de solo lectura para alertas de vencimiento y stock bajo.
package analytics

import (
	"context"
	"time"

	"github.com/jhoicas/estoque-api/internal/application/dto"
	"github.com/jhoicas/estoque-api/internal/application/inventory"
	"github.com/jhoicas/estoque-api/internal/domain/entity"
	"github.com/jhoicas/estoque-api/internal/domain/repository"
)

// AlertsConfig umbrales fijados al arrancar el proceso.
type AlertsConfig struct {
	ExpiryDays        int // ALERT_THRESHOLD_DAYS
	LowStockThreshold int // LOW_STOCK_THRESHOLD
}

// AlertsUseCase genera las alertas de vencimiento próximo y stock bajo.
type AlertsUseCase struct {
	productRepo repository.ProductRepository
	stockRepo   repository.StockRepository
	cfg         AlertsConfig
	now         func() time.Time
}

// NewAlertsUseCase construye el caso de uso.
func NewAlertsUseCase(productRepo repository.ProductRepository, stockRepo repository.StockRepository, cfg AlertsConfig) *AlertsUseCase {
	return &AlertsUseCase{productRepo: productRepo, stockRepo: stockRepo, cfg: cfg, now: time.Now}
}

// WithClock reemplaza el reloj (tests).
func (uc *AlertsUseCase) WithClock(now func() time.Time) *AlertsUseCase {
	uc.now = now
	return uc
}

// ExpiryCutoff devuelve la fecha límite (inclusive) para "vence en days días" contando desde hoy.
// El día se toma en UTC, igual que las fechas de vencimiento guardadas.
func ExpiryCutoff(today time.Time, days int) time.Time {
	return entity.DateOnly(today.UTC()).AddDate(0, 0, days)
}

// ExpiringWithin productos con vencimiento <= hoy+days, ordenados por vencimiento ascendente.
// Incluye productos ya vencidos y no mira el stock.
func (uc *AlertsUseCase) ExpiringWithin(ctx context.Context, days int) ([]*entity.Product, error) {
	return uc.productRepo.ListExpiringBy(ctx, ExpiryCutoff(uc.now(), days))
}

// LowStock filas de stock con cantidad <= threshold.
func (uc *AlertsUseCase) LowStock(ctx context.Context, threshold int) ([]repository.StockItem, error) {
	return uc.stockRepo.ListLowStock(ctx, threshold)
}

// GetAlerts arma la respuesta de GET /api/alerts con los umbrales configurados.
func (uc *AlertsUseCase) GetAlerts(ctx context.Context) (*dto.AlertsResponse, error) {
	expiring, err := uc.ExpiringWithin(ctx, uc.cfg.ExpiryDays)
	if err != nil {
		return nil, err
	}
	low, err := uc.LowStock(ctx, uc.cfg.LowStockThreshold)
	if err != nil {
		return nil, err
	}
	out := &dto.AlertsResponse{
		AlmostExpiring: make([]dto.ProductResponse, 0, len(expiring)),
		LowStock:       inventory.ToProductStockResponses(low),
	}
	for _, p := range expiring {
		out.AlmostExpiring = append(out.AlmostExpiring, dto.ProductResponse{
			ID:       p.ID,
			Nome:     p.Name,
			Validade: dto.FormatDay(p.ExpiresAt),
		})
	}
	return out, nil
}
