package repository

import (
	"context"

	"github.com/caioaugustofs/api-vendas/internal/domain/entity"
)

// ProductRepository define el puerto de persistencia para Product (DIP).
// Solo lo necesario para validar SKUs y sembrar el catálogo.
type ProductRepository interface {
	Create(ctx context.Context, product *entity.Product) error
	// GetBySKU devuelve nil, nil si el SKU no existe.
	GetBySKU(ctx context.Context, sku string) (*entity.Product, error)
}
