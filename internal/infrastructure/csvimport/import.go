package csvimport

import (
	"context"
	"errors"
	"fmt"

	"github.com/caioaugustofs/api-vendas/internal/domain"
	"github.com/caioaugustofs/api-vendas/internal/domain/entity"
	"github.com/caioaugustofs/api-vendas/internal/domain/repository"
)

// Result resumen de una importación.
type Result struct {
	Created int
	Skipped int // SKUs que ya existían
}

// Import crea los productos en repo; los SKUs duplicados se omiten.
func Import(ctx context.Context, repo repository.ProductRepository, products []*entity.Product) (Result, error) {
	var res Result
	for _, p := range products {
		if err := repo.Create(ctx, p); err != nil {
			if errors.Is(err, domain.ErrDuplicate) {
				res.Skipped++
				continue
			}
			return res, fmt.Errorf("producto %s: %w", p.SKU, err)
		}
		res.Created++
	}
	return res, nil
}
