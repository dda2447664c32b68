package entity

import "time"

// Tipos de movimiento de stock.
const (
	MovementInbound  = "inbound"  // entrada
	MovementOutbound = "outbound" // salida
)

// Movement es un registro inmutable de entrada o salida de stock.
type Movement struct {
	ID         string
	Kind       string // inbound, outbound
	ProductSKU string
	Quantity   int64 // siempre >= 1; el signo lo da Kind
	OccurredAt time.Time
	Note       string
	CreatedBy  string // UserID del token, vacío si no aplica
	CreatedAt  time.Time
}

// ValidMovementKind indica si kind es un tipo de movimiento conocido.
func ValidMovementKind(kind string) bool {
	return kind == MovementInbound || kind == MovementOutbound
}
