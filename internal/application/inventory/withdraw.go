package inventory

import (
	"context"
	"fmt"
	"strings"

	"github.com/jhoicas/estoque-api/internal/application/dto"
	"github.com/jhoicas/estoque-api/internal/domain"
	"github.com/jhoicas/estoque-api/internal/domain/entity"
	"github.com/jhoicas/estoque-api/internal/domain/repository"
)

// WithdrawUseCase registra retiradas de stock de forma transaccional: bloqueo de fila
// (SELECT FOR UPDATE), verificación de saldo, decremento condicionado y registro de la retirada,
// todo con Commit/Rollback.
type WithdrawUseCase struct {
	txRunner TxRunner
}

// NewWithdrawUseCase construye el caso de uso.
func NewWithdrawUseCase(txRunner TxRunner) *WithdrawUseCase {
	return &WithdrawUseCase{txRunner: txRunner}
}

// WithdrawInput entrada de una retirada. LocationID 0 = local del usuario.
type WithdrawInput struct {
	Actor       entity.Principal
	ProductID   int64
	LocationID  int64
	Quantity    int
	Destination string
}

// WithdrawResult retirada creada y cantidad que queda en el local.
type WithdrawResult struct {
	Withdrawal        *entity.Withdrawal
	RemainingQuantity int
}

// Withdraw valida la entrada, autoriza por rol/local y aplica la retirada.
// Errores: ErrInvalidInput, ErrForbidden, ErrProductNotInLocation, ErrInsufficientStock.
// Ante cualquier error no queda ninguna escritura.
func (uc *WithdrawUseCase) Withdraw(ctx context.Context, in WithdrawInput) (*WithdrawResult, error) {
	if in.ProductID <= 0 {
		return nil, fmt.Errorf("%w: productId es requerido", domain.ErrInvalidInput)
	}
	if in.Quantity <= 0 || in.Quantity > entity.MaxQuantity {
		return nil, fmt.Errorf("%w: la cantidad debe ser un entero positivo", domain.ErrInvalidInput)
	}
	destination := strings.TrimSpace(in.Destination)
	if destination == "" {
		return nil, fmt.Errorf("%w: destination es requerido", domain.ErrInvalidInput)
	}
	locationID, err := resolveLocation(in.Actor, in.LocationID)
	if err != nil {
		return nil, err
	}

	var result *WithdrawResult
	err = uc.txRunner.Run(ctx, func(
		_ repository.ProductRepository,
		stockRepo repository.StockRepository,
		withdrawalRepo repository.WithdrawalRepository,
	) error {
		// Bloquea la fila (SELECT FOR UPDATE) para que retiradas concurrentes se serialicen
		entry, err := stockRepo.GetForUpdate(ctx, in.ProductID, locationID)
		if err != nil {
			return err
		}
		if entry == nil {
			return domain.ErrProductNotInLocation
		}
		if !entry.CanWithdraw(in.Quantity) {
			return domain.ErrInsufficientStock
		}
		remaining, err := stockRepo.Decrement(ctx, entry.ID, in.Quantity)
		if err != nil {
			return err
		}
		w := &entity.Withdrawal{
			ProductID:   in.ProductID,
			UserID:      in.Actor.UserID,
			LocationID:  locationID,
			Quantity:    in.Quantity,
			Destination: destination,
		}
		if err := withdrawalRepo.Create(ctx, w); err != nil {
			return err
		}
		result = &WithdrawResult{Withdrawal: w, RemainingQuantity: remaining}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// WithdrawFromRequest adapta el request HTTP al caso de uso.
func (uc *WithdrawUseCase) WithdrawFromRequest(ctx context.Context, actor entity.Principal, in dto.WithdrawRequest) (*dto.WithdrawResponse, error) {
	res, err := uc.Withdraw(ctx, WithdrawInput{
		Actor:       actor,
		ProductID:   in.ProductID.Int64(),
		LocationID:  in.StockID.Int64(),
		Quantity:    in.Quantity.Int(),
		Destination: in.Destination,
	})
	if err != nil {
		return nil, err
	}
	return &dto.WithdrawResponse{
		Success:            true,
		RetiradaID:         res.Withdrawal.ID,
		QuantidadeRestante: res.RemainingQuantity,
		Destination:        res.Withdrawal.Destination,
		Data:               res.Withdrawal.CreatedAt,
	}, nil
}

// resolveLocation decide el local de la retirada: EMPLOYEE solo en su local, ADMIN en el indicado o el propio.
func resolveLocation(actor entity.Principal, requested int64) (int64, error) {
	switch actor.Role {
	case entity.RoleEmployee:
		if actor.LocationID == 0 {
			return 0, domain.ErrForbidden
		}
		if requested != 0 && requested != actor.LocationID {
			return 0, domain.ErrForbidden
		}
		return actor.LocationID, nil
	case entity.RoleAdmin:
		if requested != 0 {
			return requested, nil
		}
		if actor.LocationID == 0 {
			return 0, fmt.Errorf("%w: stockId es requerido", domain.ErrInvalidInput)
		}
		return actor.LocationID, nil
	default:
		return 0, domain.ErrForbidden
	}
}
