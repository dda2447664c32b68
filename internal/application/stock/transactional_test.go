package stock_test

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/caioaugustofs/api-vendas/internal/application/stock"
	"github.com/caioaugustofs/api-vendas/internal/domain"
	"github.com/caioaugustofs/api-vendas/internal/domain/entity"
	"github.com/caioaugustofs/api-vendas/internal/domain/repository"
	"github.com/caioaugustofs/api-vendas/internal/infrastructure/memory"
	"github.com/caioaugustofs/api-vendas/pkg/logger"
)

func TestApply_CommitDevuelveResultado(t *testing.T) {
	ctx := context.Background()
	s := memory.NewStore()
	_, err := s.SeedProduct(ctx, "ABC123", "Camiseta")
	require.NoError(t, err)

	got, err := stock.Apply(ctx, s, logger.Nop(), stock.DefaultFailure, func(
		ctx context.Context, _ repository.ProductRepository, b repository.BalanceRepository, _ repository.MovementRepository,
	) (*entity.Balance, error) {
		return stock.NewLedger(b).ApplyInbound(ctx, "ABC123", 8)
	})
	require.NoError(t, err)
	assert.Equal(t, int64(8), got.Quantity)

	stored, err := s.Balances().Get(ctx, "ABC123")
	require.NoError(t, err)
	assert.Equal(t, int64(8), stored.Quantity)
}

func TestApply_ErroresDeNegocioPasanSinCambios(t *testing.T) {
	ctx := context.Background()
	s := memory.NewStore()

	for _, want := range []error{domain.ErrProductNotFound, domain.ErrInvalidQuantity, domain.ErrInsufficientStock} {
		_, err := stock.Apply(ctx, s, nil, stock.DefaultFailure, func(
			context.Context, repository.ProductRepository, repository.BalanceRepository, repository.MovementRepository,
		) (int, error) {
			return 0, want
		})
		assert.Equal(t, want, err)
	}
}

func TestApply_ErrorInesperadoSeNormaliza(t *testing.T) {
	ctx := context.Background()
	s := memory.NewStore()
	_, err := s.SeedProduct(ctx, "ABC123", "Camiseta")
	require.NoError(t, err)

	boom := errors.New("timeout de red")
	got, err := stock.Apply(ctx, s, logger.Nop(), stock.DefaultFailure, func(
		ctx context.Context, _ repository.ProductRepository, b repository.BalanceRepository, _ repository.MovementRepository,
	) (*entity.Balance, error) {
		if _, err := stock.NewLedger(b).ApplyInbound(ctx, "ABC123", 3); err != nil {
			return nil, err
		}
		return nil, boom
	})
	assert.Nil(t, got)

	var opErr *domain.OperationFailedError
	require.ErrorAs(t, err, &opErr)
	assert.Equal(t, http.StatusInternalServerError, opErr.Status)
	assert.Equal(t, stock.DefaultFailure.Message, opErr.Message)
	assert.ErrorIs(t, err, boom)

	stored, err := s.Balances().Get(ctx, "ABC123")
	require.NoError(t, err)
	assert.Nil(t, stored, "el saldo creado dentro de la tx se revierte")
}

func TestLedger_SalidaSinRegistroEsInsuficiente(t *testing.T) {
	ctx := context.Background()
	s := memory.NewStore()
	_, err := s.SeedProduct(ctx, "ABC123", "Camiseta")
	require.NoError(t, err)

	err = s.Run(ctx, func(_ repository.ProductRepository, b repository.BalanceRepository, _ repository.MovementRepository) error {
		l := stock.NewLedger(b)
		_, err := l.ApplyOutbound(ctx, "ABC123", 1)
		assert.ErrorIs(t, err, domain.ErrInsufficientStock)

		_, err = l.ApplyInbound(ctx, "ABC123", 0)
		assert.ErrorIs(t, err, domain.ErrInvalidQuantity)
		_, err = l.ApplyOutbound(ctx, "ABC123", -2)
		assert.ErrorIs(t, err, domain.ErrInvalidQuantity)

		first, err := l.GetOrCreate(ctx, "ABC123")
		require.NoError(t, err)
		assert.Equal(t, int64(0), first.Quantity)
		again, err := l.GetOrCreate(ctx, "ABC123")
		require.NoError(t, err)
		assert.Equal(t, first.ID, again.ID)

		bal, err := l.ApplyInbound(ctx, "ABC123", 2)
		require.NoError(t, err)
		assert.Equal(t, int64(2), bal.Quantity)
		bal, err = l.ApplyOutbound(ctx, "ABC123", 2)
		require.NoError(t, err)
		assert.Equal(t, int64(0), bal.Quantity)
		return nil
	})
	require.NoError(t, err)
}
