package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/caioaugustofs/api-vendas/internal/domain"
	"github.com/caioaugustofs/api-vendas/internal/domain/entity"
	"github.com/caioaugustofs/api-vendas/internal/domain/repository"
)

var _ repository.BalanceRepository = (*BalanceRepo)(nil)

// BalanceRepo implementación de BalanceRepository sobre la tabla estoque (usable con pool o tx).
type BalanceRepo struct {
	q Querier
}

// NewBalanceRepository construye el adaptador de saldos. Pasar pool o tx (Querier).
func NewBalanceRepository(q Querier) *BalanceRepo {
	return &BalanceRepo{q: q}
}

const balanceColumns = `id, produto_sku, quantidade, created_at, updated_at`

// Get obtiene el saldo de un SKU sin bloquear.
func (r *BalanceRepo) Get(ctx context.Context, sku string) (*entity.Balance, error) {
	b, err := r.scanOne(ctx, `SELECT `+balanceColumns+` FROM estoque WHERE produto_sku = $1`, sku)
	if err != nil {
		return nil, fmt.Errorf("get balance: %w", err)
	}
	return b, nil
}

// GetForUpdate obtiene el saldo y bloquea la fila hasta el fin de la transacción (SELECT FOR UPDATE).
func (r *BalanceRepo) GetForUpdate(ctx context.Context, sku string) (*entity.Balance, error) {
	b, err := r.scanOne(ctx, `SELECT `+balanceColumns+` FROM estoque WHERE produto_sku = $1 FOR UPDATE`, sku)
	if err != nil {
		return nil, fmt.Errorf("get balance for update: %w", err)
	}
	return b, nil
}

// CreateIfMissing inserta el saldo en 0. Si otra transacción lo insertó en paralelo,
// espera su resultado y no hace nada (ON CONFLICT DO NOTHING).
func (r *BalanceRepo) CreateIfMissing(ctx context.Context, sku string) error {
	query := `
		INSERT INTO estoque (id, produto_sku, quantidade)
		VALUES ($1, $2, 0)
		ON CONFLICT (produto_sku) DO NOTHING`
	if _, err := r.q.Exec(ctx, query, uuid.New().String(), sku); err != nil {
		if isForeignKeyViolation(err) {
			return domain.ErrProductNotFound
		}
		return fmt.Errorf("create balance: %w", err)
	}
	return nil
}

// UpdateQuantity persiste la cantidad y refresca updated_at, que crece estrictamente por fila
// (versión del saldo en el cache). now() es el inicio de la tx, por eso clock_timestamp().
func (r *BalanceRepo) UpdateQuantity(ctx context.Context, b *entity.Balance) error {
	query := `
		UPDATE estoque
		SET quantidade = $2,
		    updated_at = GREATEST(clock_timestamp(), updated_at + interval '1 microsecond')
		WHERE produto_sku = $1
		RETURNING updated_at`
	err := r.q.QueryRow(ctx, query, b.ProductSKU, b.Quantity).Scan(&b.UpdatedAt)
	if err != nil {
		if isCheckViolation(err) {
			return domain.ErrInsufficientStock
		}
		return fmt.Errorf("update balance: %w", err)
	}
	return nil
}

// List lista todos los saldos ordenados por SKU.
func (r *BalanceRepo) List(ctx context.Context) ([]*entity.Balance, error) {
	rows, err := r.q.Query(ctx, `SELECT `+balanceColumns+` FROM estoque ORDER BY produto_sku`)
	if err != nil {
		return nil, fmt.Errorf("list balances: %w", err)
	}
	defer rows.Close()
	var list []*entity.Balance
	for rows.Next() {
		var b entity.Balance
		if err := rows.Scan(&b.ID, &b.ProductSKU, &b.Quantity, &b.CreatedAt, &b.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan balance: %w", err)
		}
		list = append(list, &b)
	}
	return list, rows.Err()
}

func (r *BalanceRepo) scanOne(ctx context.Context, query, sku string) (*entity.Balance, error) {
	var b entity.Balance
	err := r.q.QueryRow(ctx, query, sku).Scan(&b.ID, &b.ProductSKU, &b.Quantity, &b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &b, nil
}
