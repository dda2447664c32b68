package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product representa un producto identificado por su SKU único.
// No guarda cantidad: el saldo vive en Balance y se deriva de los movimientos.
type Product struct {
	ID           int64
	SKU          string
	Name         string
	Price        decimal.Decimal
	Active       bool
	Manufacturer string
	Description  string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
