package entity

import "time"

// Balance es el saldo actual de un SKU (tabla estoque). Una fila por producto;
// Quantity nunca es negativa.
type Balance struct {
	ID         string
	ProductSKU string
	Quantity   int64
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
