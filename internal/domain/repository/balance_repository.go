package repository

import (
	"context"

	"github.com/caioaugustofs/api-vendas/internal/domain/entity"
)

// BalanceRepository define el puerto para el saldo por SKU.
// Las escrituras solo deben hacerse desde el ledger, dentro de una transacción.
type BalanceRepository interface {
	// Get devuelve nil, nil si el SKU nunca tuvo saldo.
	Get(ctx context.Context, sku string) (*entity.Balance, error)
	// GetForUpdate bloquea la fila (SELECT FOR UPDATE). nil, nil si no existe.
	GetForUpdate(ctx context.Context, sku string) (*entity.Balance, error)
	// CreateIfMissing inserta el saldo en 0 si no existe (idempotente).
	CreateIfMissing(ctx context.Context, sku string) error
	UpdateQuantity(ctx context.Context, balance *entity.Balance) error
	List(ctx context.Context) ([]*entity.Balance, error)
}
