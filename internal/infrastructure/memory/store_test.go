package memory_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/caioaugustofs/api-vendas/internal/domain"
	"github.com/caioaugustofs/api-vendas/internal/domain/entity"
	"github.com/caioaugustofs/api-vendas/internal/domain/repository"
	"github.com/caioaugustofs/api-vendas/internal/infrastructure/memory"
)

func TestStore_RunCommitPublicaCambios(t *testing.T) {
	ctx := context.Background()
	s := memory.NewStore()
	_, err := s.SeedProduct(ctx, "ABC123", "Camiseta")
	require.NoError(t, err)

	err = s.Run(ctx, func(_ repository.ProductRepository, b repository.BalanceRepository, _ repository.MovementRepository) error {
		require.NoError(t, b.CreateIfMissing(ctx, "ABC123"))
		bal, err := b.GetForUpdate(ctx, "ABC123")
		require.NoError(t, err)
		bal.Quantity = 7
		return b.UpdateQuantity(ctx, bal)
	})
	require.NoError(t, err)

	bal, err := s.Balances().Get(ctx, "ABC123")
	require.NoError(t, err)
	require.NotNil(t, bal)
	assert.Equal(t, int64(7), bal.Quantity)
}

func TestStore_RunErrorDescartaCambios(t *testing.T) {
	ctx := context.Background()
	s := memory.NewStore()
	_, err := s.SeedProduct(ctx, "ABC123", "Camiseta")
	require.NoError(t, err)

	boom := errors.New("boom")
	err = s.Run(ctx, func(_ repository.ProductRepository, b repository.BalanceRepository, m repository.MovementRepository) error {
		require.NoError(t, b.CreateIfMissing(ctx, "ABC123"))
		require.NoError(t, m.Create(ctx, &entity.Movement{Kind: entity.MovementInbound, ProductSKU: "ABC123", Quantity: 1, OccurredAt: time.Now()}))
		return boom
	})
	require.ErrorIs(t, err, boom)

	bal, err := s.Balances().Get(ctx, "ABC123")
	require.NoError(t, err)
	assert.Nil(t, bal)
	list, err := s.Movements().List(ctx, entity.MovementInbound, "")
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestStore_RunContextoCancelado(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	s := memory.NewStore()
	_, err := s.SeedProduct(ctx, "ABC123", "Camiseta")
	require.NoError(t, err)

	err = s.Run(ctx, func(_ repository.ProductRepository, b repository.BalanceRepository, _ repository.MovementRepository) error {
		cancel()
		return b.CreateIfMissing(ctx, "ABC123")
	})
	require.ErrorIs(t, err, context.Canceled)

	bal, err := s.Balances().Get(context.Background(), "ABC123")
	require.NoError(t, err)
	assert.Nil(t, bal)
}

func TestStore_ProductoDuplicado(t *testing.T) {
	ctx := context.Background()
	s := memory.NewStore()
	_, err := s.SeedProduct(ctx, "ABC123", "Camiseta")
	require.NoError(t, err)
	_, err = s.SeedProduct(ctx, "ABC123", "Otra")
	assert.ErrorIs(t, err, domain.ErrDuplicate)
}

func TestStore_SaldoSinProducto(t *testing.T) {
	err := memory.NewStore().Balances().CreateIfMissing(context.Background(), "NOPE")
	assert.ErrorIs(t, err, domain.ErrProductNotFound)
}

func TestStore_ListMovimientosFiltraYOrdena(t *testing.T) {
	ctx := context.Background()
	s := memory.NewStore()
	for _, sku := range []string{"A", "B"} {
		_, err := s.SeedProduct(ctx, sku, sku)
		require.NoError(t, err)
	}
	base := time.Date(2026, 1, 10, 12, 0, 0, 0, time.UTC)
	movs := s.Movements()
	require.NoError(t, movs.Create(ctx, &entity.Movement{Kind: entity.MovementOutbound, ProductSKU: "A", Quantity: 1, OccurredAt: base}))
	require.NoError(t, movs.Create(ctx, &entity.Movement{Kind: entity.MovementOutbound, ProductSKU: "A", Quantity: 2, OccurredAt: base.Add(time.Hour)}))
	require.NoError(t, movs.Create(ctx, &entity.Movement{Kind: entity.MovementOutbound, ProductSKU: "B", Quantity: 3, OccurredAt: base}))

	list, err := movs.List(ctx, entity.MovementOutbound, "A")
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, int64(2), list[0].Quantity)
	assert.Equal(t, int64(1), list[1].Quantity)

	all, err := movs.List(ctx, entity.MovementOutbound, "")
	require.NoError(t, err)
	assert.Len(t, all, 3)

	got, err := movs.GetByID(ctx, entity.MovementOutbound, list[0].ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "A", got.ProductSKU)

	missing, err := movs.GetByID(ctx, entity.MovementInbound, list[0].ID)
	require.NoError(t, err)
	assert.Nil(t, missing)

	_, err = movs.List(ctx, "ajuste", "")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestStore_UpdatedAtCreceEstrictamente(t *testing.T) {
	ctx := context.Background()
	s := memory.NewStore()
	_, err := s.SeedProduct(ctx, "ABC123", "Camiseta")
	require.NoError(t, err)

	var prev time.Time
	for i := int64(1); i <= 50; i++ {
		err := s.Run(ctx, func(_ repository.ProductRepository, b repository.BalanceRepository, _ repository.MovementRepository) error {
			if err := b.CreateIfMissing(ctx, "ABC123"); err != nil {
				return err
			}
			bal, err := b.GetForUpdate(ctx, "ABC123")
			if err != nil {
				return err
			}
			bal.Quantity = i
			return b.UpdateQuantity(ctx, bal)
		})
		require.NoError(t, err)
		bal, err := s.Balances().Get(ctx, "ABC123")
		require.NoError(t, err)
		assert.True(t, bal.UpdatedAt.UnixMicro() > prev.UnixMicro(), "iteración %d", i)
		prev = bal.UpdatedAt
	}
}
