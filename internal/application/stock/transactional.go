package stock

import (
	"context"
	"net/http"

	"github.com/caioaugustofs/api-vendas/internal/domain"
	"github.com/caioaugustofs/api-vendas/internal/domain/repository"
	"github.com/caioaugustofs/api-vendas/pkg/logger"
)

// Failure clasificación que se devuelve cuando la unidad de trabajo se revierte
// por un error inesperado (almacenamiento, commit, cancelación).
type Failure struct {
	Status  int
	Message string
}

// DefaultFailure falla genérica de escritura.
var DefaultFailure = Failure{Status: http.StatusInternalServerError, Message: "error al procesar la operación"}

// TxFunc mutación ejecutada con repositorios atados a la transacción.
type TxFunc[T any] func(
	ctx context.Context,
	productRepo repository.ProductRepository,
	balanceRepo repository.BalanceRepository,
	movementRepo repository.MovementRepository,
) (T, error)

// Apply ejecuta fn dentro de runner: Commit y devuelve el resultado si fn termina bien;
// Rollback en cualquier error. Los errores de negocio (domain.IsClassified) se propagan tal cual;
// el resto se registra y se normaliza a *domain.OperationFailedError con la clasificación de failure.
func Apply[T any](ctx context.Context, runner TxRunner, log *logger.Logger, failure Failure, fn TxFunc[T]) (T, error) {
	var result T
	err := runner.Run(ctx, func(
		productRepo repository.ProductRepository,
		balanceRepo repository.BalanceRepository,
		movementRepo repository.MovementRepository,
	) error {
		out, err := fn(ctx, productRepo, balanceRepo, movementRepo)
		if err != nil {
			return err
		}
		result = out
		return nil
	})
	if err == nil {
		return result, nil
	}

	var zero T
	if domain.IsClassified(err) {
		return zero, err
	}
	if log != nil {
		log.Error().Err(err).Int("status", failure.Status).Msg(failure.Message)
	}
	return zero, &domain.OperationFailedError{Status: failure.Status, Message: failure.Message, Err: err}
}
