package stock

import (
	"context"
	"time"

	"github.com/caioaugustofs/api-vendas/internal/domain/entity"
	"github.com/caioaugustofs/api-vendas/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando repositorios atados a esa tx.
// Commit si fn devuelve nil, Rollback en cualquier otro caso (incluida la cancelación de ctx).
type TxRunner interface {
	Run(ctx context.Context, fn func(
		productRepo repository.ProductRepository,
		balanceRepo repository.BalanceRepository,
		movementRepo repository.MovementRepository,
	) error) error
}

// BalanceCache cache de lectura de saldos. Solo es una vista: la fuente de verdad es la BD.
// Set nunca reemplaza un saldo con UpdatedAt más reciente que el recibido.
type BalanceCache interface {
	Get(ctx context.Context, sku string) (*entity.Balance, bool)
	Set(ctx context.Context, balance *entity.Balance)
}

// MovementRecordedEvent se publica después del commit de un movimiento.
type MovementRecordedEvent struct {
	MovementID   string    `json:"movement_id"`
	Kind         string    `json:"kind"`
	ProductSKU   string    `json:"product_sku"`
	Quantity     int64     `json:"quantity"`
	BalanceAfter int64     `json:"balance_after"`
	OccurredAt   time.Time `json:"occurred_at"`
	RecordedAt   time.Time `json:"recorded_at"`
}

// EventPublisher publica eventos de dominio hacia un broker.
type EventPublisher interface {
	PublishMovementRecorded(ctx context.Context, event MovementRecordedEvent) error
}

type nopCache struct{}

func (nopCache) Get(context.Context, string) (*entity.Balance, bool) { return nil, false }
func (nopCache) Set(context.Context, *entity.Balance)                {}

type nopPublisher struct{}

func (nopPublisher) PublishMovementRecorded(context.Context, MovementRecordedEvent) error { return nil }
