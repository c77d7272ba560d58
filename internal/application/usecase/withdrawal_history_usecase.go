package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jhoicas/estoque-api/internal/application/dto"
	"github.com/jhoicas/estoque-api/internal/domain"
	"github.com/jhoicas/estoque-api/internal/domain/entity"
	"github.com/jhoicas/estoque-api/internal/domain/repository"
)

// WithdrawalReport datos del reporte de retiradas para el generador de PDF.
type WithdrawalReport struct {
	From        *time.Time
	To          *time.Time
	GeneratedAt time.Time
	Items       []repository.WithdrawalItem
	Total       int
}

// WithdrawalReportGenerator puerto para la representación gráfica del reporte (implementado en infraestructura).
type WithdrawalReportGenerator interface {
	GenerateWithdrawalReport(ctx context.Context, report *WithdrawalReport) ([]byte, error)
}

// WithdrawalHistoryUseCase consultas del historial de retiradas (solo lectura).
type WithdrawalHistoryUseCase struct {
	repo      repository.WithdrawalRepository
	generator WithdrawalReportGenerator
	now       func() time.Time
}

// NewWithdrawalHistoryUseCase construye el caso de uso. generator puede ser nil si no se usa el PDF.
func NewWithdrawalHistoryUseCase(repo repository.WithdrawalRepository, generator WithdrawalReportGenerator) *WithdrawalHistoryUseCase {
	return &WithdrawalHistoryUseCase{repo: repo, generator: generator, now: time.Now}
}

// List devuelve todas las retiradas del rango (ADMIN).
func (uc *WithdrawalHistoryUseCase) List(ctx context.Context, q dto.WithdrawalQuery) ([]dto.WithdrawalResponse, error) {
	filter, err := rangeFilter(q)
	if err != nil {
		return nil, err
	}
	items, err := uc.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	return toWithdrawalResponses(items, true), nil
}

// ListOwn devuelve solo las retiradas del usuario (EMPLOYEE).
func (uc *WithdrawalHistoryUseCase) ListOwn(ctx context.Context, actor entity.Principal, q dto.WithdrawalQuery) ([]dto.WithdrawalResponse, error) {
	filter, err := rangeFilter(q)
	if err != nil {
		return nil, err
	}
	uid := actor.UserID
	filter.UserID = &uid
	items, err := uc.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	return toWithdrawalResponses(items, false), nil
}

// Report genera el PDF del historial del rango.
func (uc *WithdrawalHistoryUseCase) Report(ctx context.Context, q dto.WithdrawalQuery) ([]byte, error) {
	if uc.generator == nil {
		return nil, fmt.Errorf("generador de reportes no configurado")
	}
	filter, err := rangeFilter(q)
	if err != nil {
		return nil, err
	}
	items, err := uc.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	report := &WithdrawalReport{
		From:        filter.From,
		To:          filter.To,
		GeneratedAt: uc.now(),
		Items:       items,
	}
	for _, it := range items {
		report.Total += it.Quantity
	}
	return uc.generator.GenerateWithdrawalReport(ctx, report)
}

// rangeFilter interpreta start/end. end siempre cubre hasta el final de su día.
func rangeFilter(q dto.WithdrawalQuery) (repository.WithdrawalFilter, error) {
	var f repository.WithdrawalFilter
	if s := strings.TrimSpace(q.Start); s != "" {
		t, err := dto.ParseRangeStart(s)
		if err != nil {
			return f, fmt.Errorf("%w: start: %v", domain.ErrInvalidInput, err)
		}
		f.From = &t
	}
	if s := strings.TrimSpace(q.End); s != "" {
		t, err := dto.ParseRangeEnd(s)
		if err != nil {
			return f, fmt.Errorf("%w: end: %v", domain.ErrInvalidInput, err)
		}
		f.To = &t
	}
	if f.From != nil && f.To != nil && f.To.Before(*f.From) {
		return f, fmt.Errorf("%w: end anterior a start", domain.ErrInvalidInput)
	}
	return f, nil
}

func toWithdrawalResponses(items []repository.WithdrawalItem, withUser bool) []dto.WithdrawalResponse {
	out := make([]dto.WithdrawalResponse, 0, len(items))
	for _, it := range items {
		r := dto.WithdrawalResponse{
			ID:          it.ID,
			ProdutoNome: it.ProductName,
			Quantidade:  it.Quantity,
			Destination: it.Destination,
			StockID:     it.LocationID,
			Data:        it.CreatedAt,
		}
		if withUser {
			r.UsuarioNome = it.Username
		}
		out = append(out, r)
	}
	return out
}
