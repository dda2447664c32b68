package dto

import (
	"time"

	"github.com/caioaugustofs/api-vendas/internal/domain/entity"
)

// MovementRequest cuerpo para registrar una entrada o salida de stock.
type MovementRequest struct {
	ProductSKU string     `json:"product_sku"`
	Quantity   int64      `json:"quantity"`
	OccurredAt *time.Time `json:"occurred_at,omitempty"` // RFC3339; vacío = ahora
	Note       string     `json:"note,omitempty"`
}

// MovementResponse movimiento registrado.
type MovementResponse struct {
	ID         string    `json:"id"`
	Kind       string    `json:"kind"`
	ProductSKU string    `json:"product_sku"`
	Quantity   int64     `json:"quantity"`
	OccurredAt time.Time `json:"occurred_at"`
	Note       string    `json:"note,omitempty"`
	CreatedBy  string    `json:"created_by,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

// MovementListResponse listado de movimientos.
type MovementListResponse struct {
	Total     int                `json:"total"`
	Movements []MovementResponse `json:"movements"`
}

// BalanceResponse saldo actual de un SKU.
type BalanceResponse struct {
	ID         string    `json:"id"`
	ProductSKU string    `json:"product_sku"`
	Quantity   int64     `json:"quantity"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// BalanceListResponse listado de saldos.
type BalanceListResponse struct {
	Total    int               `json:"total"`
	Balances []BalanceResponse `json:"balances"`
}

// ToMovementResponse convierte la entidad al DTO de salida.
func ToMovementResponse(m *entity.Movement) MovementResponse {
	return MovementResponse{
		ID:         m.ID,
		Kind:       m.Kind,
		ProductSKU: m.ProductSKU,
		Quantity:   m.Quantity,
		OccurredAt: m.OccurredAt,
		Note:       m.Note,
		CreatedBy:  m.CreatedBy,
		CreatedAt:  m.CreatedAt,
	}
}

// ToBalanceResponse convierte la entidad al DTO de salida.
func ToBalanceResponse(b *entity.Balance) BalanceResponse {
	return BalanceResponse{
		ID:         b.ID,
		ProductSKU: b.ProductSKU,
		Quantity:   b.Quantity,
		CreatedAt:  b.CreatedAt,
		UpdatedAt:  b.UpdatedAt,
	}
}
