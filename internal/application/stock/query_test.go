package stock_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/caioaugustofs/api-vendas/internal/application/stock"
	"github.com/caioaugustofs/api-vendas/internal/domain"
	"github.com/caioaugustofs/api-vendas/internal/domain/entity"
	"github.com/caioaugustofs/api-vendas/internal/infrastructure/memory"
)

type mapCache struct {
	items map[string]entity.Balance
	hits  int
}

func (c *mapCache) Get(_ context.Context, sku string) (*entity.Balance, bool) {
	b, ok := c.items[sku]
	if ok {
		c.hits++
	}
	return &b, ok
}

func (c *mapCache) Set(_ context.Context, b *entity.Balance) {
	if cur, ok := c.items[b.ProductSKU]; ok && cur.UpdatedAt.After(b.UpdatedAt) {
		return
	}
	c.items[b.ProductSKU] = *b
}

func TestQuery_GetBalanceNuncaInicializado(t *testing.T) {
	e := newEnv(t)
	b, err := e.query.GetBalance(context.Background(), "ABC123")
	require.NoError(t, err)
	assert.Nil(t, b)

	b, err = e.query.GetBalance(context.Background(), "")
	require.NoError(t, err)
	assert.Nil(t, b)
}

func TestQuery_GetBalanceUsaCache(t *testing.T) {
	ctx := context.Background()
	s := memory.NewStore()
	_, err := s.SeedProduct(ctx, "ABC123", "Camiseta")
	require.NoError(t, err)
	c := &mapCache{items: map[string]entity.Balance{}}
	recorder := stock.NewMovementRecorder(s, nil, stock.WithBalanceCache(c))
	query := stock.NewQueryUseCase(s.Balances(), s.Movements(), c)

	_, err = recorder.RecordInbound(ctx, stock.MovementInput{ProductSKU: "ABC123", Quantity: 4})
	require.NoError(t, err)

	// el commit deja el saldo resultante en el cache
	b, err := query.GetBalance(ctx, "ABC123")
	require.NoError(t, err)
	assert.Equal(t, int64(4), b.Quantity)
	assert.Equal(t, 1, c.hits)

	_, err = recorder.RecordOutbound(ctx, stock.MovementInput{ProductSKU: "ABC123", Quantity: 1})
	require.NoError(t, err)
	b, err = query.GetBalance(ctx, "ABC123")
	require.NoError(t, err)
	assert.Equal(t, int64(3), b.Quantity)
	assert.Equal(t, 2, c.hits)

	delete(c.items, "ABC123")
	b, err = query.GetBalance(ctx, "ABC123")
	require.NoError(t, err)
	assert.Equal(t, int64(3), b.Quantity)
	assert.Equal(t, 2, c.hits)
	assert.Contains(t, c.items, "ABC123")
}

func TestQuery_Movimientos(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	mov, err := e.recorder.RecordInbound(ctx, stock.MovementInput{ProductSKU: "ABC123", Quantity: 2, UserID: "u-1"})
	require.NoError(t, err)

	got, err := e.query.GetMovement(ctx, entity.MovementInbound, mov.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "u-1", got.CreatedBy)

	got, err = e.query.GetMovement(ctx, entity.MovementOutbound, mov.ID)
	require.NoError(t, err)
	assert.Nil(t, got)

	_, err = e.query.GetMovement(ctx, "ajuste", mov.ID)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	list, err := e.query.ListMovements(ctx, entity.MovementInbound, " ABC123 ")
	require.NoError(t, err)
	assert.Len(t, list, 1)

	balances, err := e.query.ListBalances(ctx)
	require.NoError(t, err)
	require.Len(t, balances, 1)
	assert.Equal(t, int64(2), balances[0].Quantity)
}
