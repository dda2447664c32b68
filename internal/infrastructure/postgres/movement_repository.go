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

var _ repository.MovementRepository = (*MovementRepo)(nil)

// MovementRepo persiste entradas (entradas_estoque) y salidas (saidas_estoque).
type MovementRepo struct {
	q Querier
}

// NewMovementRepository construye el adaptador. Pasar pool o tx (Querier).
func NewMovementRepository(q Querier) *MovementRepo {
	return &MovementRepo{q: q}
}

func movementTable(kind string) (string, error) {
	switch kind {
	case entity.MovementInbound:
		return "entradas_estoque", nil
	case entity.MovementOutbound:
		return "saidas_estoque", nil
	}
	return "", domain.ErrInvalidInput
}

const movementColumns = `id, produto_sku, quantidade, data, observacao, created_by, created_at`

// Create persiste el movimiento; created_at lo define la BD.
func (r *MovementRepo) Create(ctx context.Context, m *entity.Movement) error {
	table, err := movementTable(m.Kind)
	if err != nil {
		return err
	}
	if m.ID == "" {
		m.ID = uuid.New().String()
	}
	query := fmt.Sprintf(`
		INSERT INTO %s (id, produto_sku, quantidade, data, observacao, created_by)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at`, table)
	err = r.q.QueryRow(ctx, query,
		m.ID, m.ProductSKU, m.Quantity, m.OccurredAt, nullString(m.Note), nullString(m.CreatedBy),
	).Scan(&m.CreatedAt)
	if err != nil {
		if isForeignKeyViolation(err) {
			return domain.ErrProductNotFound
		}
		return fmt.Errorf("create movement: %w", err)
	}
	return nil
}

// GetByID obtiene un movimiento por ID.
func (r *MovementRepo) GetByID(ctx context.Context, kind, id string) (*entity.Movement, error) {
	table, err := movementTable(kind)
	if err != nil {
		return nil, err
	}
	if _, err := uuid.Parse(id); err != nil {
		return nil, nil
	}
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE id = $1`, movementColumns, table)
	m := entity.Movement{Kind: kind}
	var note, createdBy *string
	err = r.q.QueryRow(ctx, query, id).Scan(
		&m.ID, &m.ProductSKU, &m.Quantity, &m.OccurredAt, &note, &createdBy, &m.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get movement: %w", err)
	}
	m.Note = derefString(note)
	m.CreatedBy = derefString(createdBy)
	return &m, nil
}

// List lista movimientos de un tipo, más recientes primero; sku vacío = todos.
func (r *MovementRepo) List(ctx context.Context, kind, sku string) ([]*entity.Movement, error) {
	table, err := movementTable(kind)
	if err != nil {
		return nil, err
	}
	query := fmt.Sprintf(`SELECT %s FROM %s`, movementColumns, table)
	var args []any
	if sku != "" {
		query += ` WHERE produto_sku = $1`
		args = append(args, sku)
	}
	query += ` ORDER BY data DESC, created_at DESC`

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list movements: %w", err)
	}
	defer rows.Close()
	var list []*entity.Movement
	for rows.Next() {
		m := entity.Movement{Kind: kind}
		var note, createdBy *string
		if err := rows.Scan(&m.ID, &m.ProductSKU, &m.Quantity, &m.OccurredAt, &note, &createdBy, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan movement: %w", err)
		}
		m.Note = derefString(note)
		m.CreatedBy = derefString(createdBy)
		list = append(list, &m)
	}
	return list, rows.Err()
}
