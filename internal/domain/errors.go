package domain

import (
	"errors"
	"fmt"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound          = errors.New("recurso no encontrado")
	ErrInvalidInput      = errors.New("entrada inválida")
	ErrDuplicate         = errors.New("recurso duplicado")
	ErrProductNotFound   = errors.New("producto no encontrado")
	ErrInvalidQuantity   = errors.New("la cantidad debe ser mayor o igual a 1")
	ErrInsufficientStock = errors.New("stock insuficiente")
)

// OperationFailedError es la falla normalizada de una unidad de trabajo revertida.
// Status y Message los define quien invoca; Err es la causa (solo para logs).
type OperationFailedError struct {
	Status  int
	Message string
	Err     error
}

func (e *OperationFailedError) Error() string {
	if e.Err == nil {
		return e.Message
	}
	return fmt.Sprintf("%s: %v", e.Message, e.Err)
}

func (e *OperationFailedError) Unwrap() error { return e.Err }

// IsClassified indica si err es una falla de negocio que el llamador puede corregir
// (no se normaliza a OperationFailedError).
func IsClassified(err error) bool {
	return errors.Is(err, ErrProductNotFound) ||
		errors.Is(err, ErrInvalidQuantity) ||
		errors.Is(err, ErrInsufficientStock)
}
