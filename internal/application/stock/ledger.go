package stock

import (
	"context"
	"fmt"
	"time"

	"github.com/caioaugustofs/api-vendas/internal/domain"
	"github.com/caioaugustofs/api-vendas/internal/domain/entity"
	"github.com/caioaugustofs/api-vendas/internal/domain/repository"
)

// Ledger mantiene el saldo por SKU sobre un BalanceRepository atado a la transacción en curso.
// Es el único componente que escribe en estoque.
type Ledger struct {
	balances repository.BalanceRepository
	now      func() time.Time
}

// NewLedger construye el ledger para una unidad de trabajo.
func NewLedger(balances repository.BalanceRepository) *Ledger {
	return &Ledger{balances: balances, now: time.Now}
}

// GetOrCreate devuelve el saldo de sku bloqueado para update, creándolo en 0 si no existe.
func (l *Ledger) GetOrCreate(ctx context.Context, sku string) (*entity.Balance, error) {
	if err := l.balances.CreateIfMissing(ctx, sku); err != nil {
		return nil, err
	}
	balance, err := l.balances.GetForUpdate(ctx, sku)
	if err != nil {
		return nil, err
	}
	if balance == nil {
		return nil, fmt.Errorf("saldo de %s no encontrado tras crearlo", sku)
	}
	return balance, nil
}

// ApplyInbound suma amount al saldo de sku.
func (l *Ledger) ApplyInbound(ctx context.Context, sku string, amount int64) (*entity.Balance, error) {
	if amount < 1 {
		return nil, domain.ErrInvalidQuantity
	}
	balance, err := l.GetOrCreate(ctx, sku)
	if err != nil {
		return nil, err
	}
	balance.Quantity += amount
	balance.UpdatedAt = l.now()
	if err := l.balances.UpdateQuantity(ctx, balance); err != nil {
		return nil, err
	}
	return balance, nil
}

// ApplyOutbound resta amount del saldo de sku. La comparación usa la fila bloqueada
// dentro de la misma transacción que persiste el descuento.
func (l *Ledger) ApplyOutbound(ctx context.Context, sku string, amount int64) (*entity.Balance, error) {
	if amount < 1 {
		return nil, domain.ErrInvalidQuantity
	}
	balance, err := l.balances.GetForUpdate(ctx, sku)
	if err != nil {
		return nil, err
	}
	if balance == nil || balance.Quantity < amount {
		return nil, domain.ErrInsufficientStock
	}
	balance.Quantity -= amount
	balance.UpdatedAt = l.now()
	if err := l.balances.UpdateQuantity(ctx, balance); err != nil {
		return nil, err
	}
	return balance, nil
}
