// Package cache implementa el cache de lectura de saldos sobre Redis.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/caioaugustofs/api-vendas/internal/application/stock"
	"github.com/caioaugustofs/api-vendas/internal/domain/entity"
	"github.com/caioaugustofs/api-vendas/pkg/config"
	"github.com/caioaugustofs/api-vendas/pkg/logger"
)

const keyPrefix = "estoque:saldo:"

// Cada key es un hash: v = UpdatedAt en microsegundos, data = saldo en JSON.
const fieldData = "data"

// setIfNewer escribe el saldo solo si el cacheado no es más reciente.
// KEYS[1] key; ARGV[1] versión; ARGV[2] JSON; ARGV[3] TTL en ms (0 = sin expiración).
var setIfNewer = redis.NewScript(`
local cur = redis.call('HGET', KEYS[1], 'v')
if cur and tonumber(cur) > tonumber(ARGV[1]) then
  return 0
end
redis.call('HSET', KEYS[1], 'v', ARGV[1], 'data', ARGV[2])
if tonumber(ARGV[3]) > 0 then
  redis.call('PEXPIRE', KEYS[1], ARGV[3])
else
  redis.call('PERSIST', KEYS[1])
end
return 1
`)

var _ stock.BalanceCache = (*RedisBalanceCache)(nil)

// RedisBalanceCache guarda saldos versionados por UpdatedAt con TTL. Los errores de Redis
// se registran y se tratan como miss: la BD sigue siendo la fuente de verdad.
//
// Un Set que falla deja el SKU pendiente en memoria: Get no sirve ese SKU desde Redis
// hasta que el saldo pendiente se logra escribir.
type RedisBalanceCache struct {
	client redis.UniversalClient
	ttl    time.Duration
	log    *logger.Logger

	mu      sync.Mutex
	pending map[string]*entity.Balance
}

// NewClient crea el cliente Redis y verifica la conexión.
func NewClient(ctx context.Context, cfg config.RedisConfig) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return client, nil
}

// NewRedisBalanceCache construye el cache. ttl <= 0 = sin expiración.
func NewRedisBalanceCache(client redis.UniversalClient, ttl time.Duration, log *logger.Logger) *RedisBalanceCache {
	if ttl < 0 {
		ttl = 0
	}
	if log == nil {
		log = logger.Nop()
	}
	return &RedisBalanceCache{client: client, ttl: ttl, log: log, pending: map[string]*entity.Balance{}}
}

func key(sku string) string { return keyPrefix + sku }

func version(b *entity.Balance) int64 { return b.UpdatedAt.UnixMicro() }

// Get devuelve el saldo cacheado; false si no está, si Redis falla o si el SKU
// tiene una escritura pendiente que todavía no se pudo aplicar.
func (c *RedisBalanceCache) Get(ctx context.Context, sku string) (*entity.Balance, bool) {
	if !c.flushPending(ctx, sku) {
		return nil, false
	}
	raw, err := c.client.HGet(ctx, key(sku), fieldData).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false
	}
	if err != nil {
		c.log.Warn().Err(err).Str("sku", sku).Msg("redis get saldo")
		return nil, false
	}
	var b entity.Balance
	if err := json.Unmarshal(raw, &b); err != nil {
		c.log.Warn().Err(err).Str("sku", sku).Msg("saldo cacheado inválido")
		return nil, false
	}
	return &b, true
}

// Set guarda el saldo salvo que Redis ya tenga una versión más reciente. Si Redis
// falla, el saldo queda pendiente y se reintenta en el próximo Get o Set de ese SKU.
func (c *RedisBalanceCache) Set(ctx context.Context, b *entity.Balance) {
	if b == nil || b.ProductSKU == "" {
		return
	}
	if !c.flushPending(ctx, b.ProductSKU) {
		c.markPending(b)
		return
	}
	if err := c.write(ctx, b); err != nil {
		c.log.Warn().Err(err).Str("sku", b.ProductSKU).Msg("redis set saldo")
		c.markPending(b)
	}
}

func (c *RedisBalanceCache) write(ctx context.Context, b *entity.Balance) error {
	raw, err := json.Marshal(b)
	if err != nil {
		return err
	}
	args := []any{
		strconv.FormatInt(version(b), 10),
		raw,
		strconv.FormatInt(c.ttl.Milliseconds(), 10),
	}
	return setIfNewer.Run(ctx, c.client, []string{key(b.ProductSKU)}, args...).Err()
}

func (c *RedisBalanceCache) markPending(b *entity.Balance) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if cur, ok := c.pending[b.ProductSKU]; ok && version(cur) > version(b) {
		return
	}
	cp := *b
	c.pending[b.ProductSKU] = &cp
}

// flushPending intenta escribir el saldo pendiente de sku. false si sigue pendiente.
func (c *RedisBalanceCache) flushPending(ctx context.Context, sku string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	b, ok := c.pending[sku]
	if !ok {
		return true
	}
	if err := c.write(ctx, b); err != nil {
		return false
	}
	delete(c.pending, sku)
	return true
}
