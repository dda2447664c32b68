package repository

import (
	"context"

	"github.com/caioaugustofs/api-vendas/internal/domain/entity"
)

// MovementRepository define el puerto de persistencia para movimientos (entradas y salidas).
type MovementRepository interface {
	// Create persiste el movimiento y completa ID/CreatedAt con lo guardado.
	Create(ctx context.Context, movement *entity.Movement) error
	// GetByID devuelve nil, nil si no existe.
	GetByID(ctx context.Context, kind, id string) (*entity.Movement, error)
	// List lista movimientos de un tipo; sku vacío = todos.
	List(ctx context.Context, kind, sku string) ([]*entity.Movement, error)
}
