package stock

import (
	"context"
	"strings"

	"github.com/caioaugustofs/api-vendas/internal/domain"
	"github.com/caioaugustofs/api-vendas/internal/domain/entity"
	"github.com/caioaugustofs/api-vendas/internal/domain/repository"
)

// QueryUseCase lecturas de saldos y movimientos (solo lectura, fuera de transacción).
type QueryUseCase struct {
	balanceRepo  repository.BalanceRepository
	movementRepo repository.MovementRepository
	cache        BalanceCache
}

// NewQueryUseCase construye el caso de uso. cache puede ser nil.
func NewQueryUseCase(balanceRepo repository.BalanceRepository, movementRepo repository.MovementRepository, cache BalanceCache) *QueryUseCase {
	if cache == nil {
		cache = nopCache{}
	}
	return &QueryUseCase{balanceRepo: balanceRepo, movementRepo: movementRepo, cache: cache}
}

// GetBalance devuelve el saldo de sku, o nil si nunca se inicializó.
func (uc *QueryUseCase) GetBalance(ctx context.Context, sku string) (*entity.Balance, error) {
	sku = strings.TrimSpace(sku)
	if sku == "" {
		return nil, nil
	}
	if b, ok := uc.cache.Get(ctx, sku); ok {
		return b, nil
	}
	b, err := uc.balanceRepo.Get(ctx, sku)
	if err != nil {
		return nil, err
	}
	if b != nil {
		uc.cache.Set(ctx, b)
	}
	return b, nil
}

// ListBalances lista todos los saldos.
func (uc *QueryUseCase) ListBalances(ctx context.Context) ([]*entity.Balance, error) {
	return uc.balanceRepo.List(ctx)
}

// GetMovement obtiene una entrada o salida por ID. nil si no existe.
func (uc *QueryUseCase) GetMovement(ctx context.Context, kind, id string) (*entity.Movement, error) {
	if !entity.ValidMovementKind(kind) {
		return nil, domain.ErrInvalidInput
	}
	return uc.movementRepo.GetByID(ctx, kind, id)
}

// ListMovements lista entradas o salidas, opcionalmente filtradas por SKU.
func (uc *QueryUseCase) ListMovements(ctx context.Context, kind, sku string) ([]*entity.Movement, error) {
	if !entity.ValidMovementKind(kind) {
		return nil, domain.ErrInvalidInput
	}
	return uc.movementRepo.List(ctx, kind, strings.TrimSpace(sku))
}
