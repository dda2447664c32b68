// Package memory implementa los repositorios y el TxRunner en memoria (STORAGE_DRIVER=memory y tests).
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/caioaugustofs/api-vendas/internal/application/stock"
	"github.com/caioaugustofs/api-vendas/internal/domain"
	"github.com/caioaugustofs/api-vendas/internal/domain/entity"
	"github.com/caioaugustofs/api-vendas/internal/domain/repository"
)

var _ stock.TxRunner = (*Store)(nil)

type state struct {
	products      map[string]entity.Product
	nextProductID int64
	balances      map[string]entity.Balance
	movements     map[string]map[string]entity.Movement // kind -> id -> movimiento
}

func newState() *state {
	return &state{
		products: make(map[string]entity.Product),
		balances: make(map[string]entity.Balance),
		movements: map[string]map[string]entity.Movement{
			entity.MovementInbound:  {},
			entity.MovementOutbound: {},
		},
	}
}

func (s *state) clone() *state {
	c := newState()
	c.nextProductID = s.nextProductID
	for k, v := range s.products {
		c.products[k] = v
	}
	for k, v := range s.balances {
		c.balances[k] = v
	}
	for kind, byID := range s.movements {
		for id, m := range byID {
			c.movements[kind][id] = m
		}
	}
	return c
}

// Store almacén en memoria. Las transacciones se serializan: cada Run trabaja sobre una copia
// del estado y la publica solo si fn termina sin error.
type Store struct {
	txMu  sync.Mutex   // serializa escrituras (transacciones y escrituras sueltas)
	mu    sync.RWMutex // protege el puntero a state
	state *state
	now   func() time.Time
}

// NewStore crea un almacén vacío.
func NewStore() *Store {
	return &Store{state: newState(), now: time.Now}
}

// Run ejecuta fn con repositorios atados a una copia del estado. Commit = reemplazar el estado.
func (s *Store) Run(ctx context.Context, fn func(
	productRepo repository.ProductRepository,
	balanceRepo repository.BalanceRepository,
	movementRepo repository.MovementRepository,
) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.txMu.Lock()
	defer s.txMu.Unlock()

	s.mu.RLock()
	tx := s.state.clone()
	s.mu.RUnlock()

	b := binding{store: s, tx: tx}
	if err := fn(&productRepo{b}, &balanceRepo{b}, &movementRepo{b}); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	s.state = tx
	s.mu.Unlock()
	return nil
}

// Products repositorio de productos fuera de transacción.
func (s *Store) Products() repository.ProductRepository { return &productRepo{binding{store: s}} }

// Balances repositorio de saldos fuera de transacción.
func (s *Store) Balances() repository.BalanceRepository { return &balanceRepo{binding{store: s}} }

// Movements repositorio de movimientos fuera de transacción.
func (s *Store) Movements() repository.MovementRepository { return &movementRepo{binding{store: s}} }

// SeedProduct registra un producto activo con el SKU dado (atajo para tests y modo memoria).
func (s *Store) SeedProduct(ctx context.Context, sku, name string) (*entity.Product, error) {
	p := &entity.Product{SKU: sku, Name: name, Active: true}
	if err := s.Products().Create(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

// binding resuelve sobre qué estado opera un repositorio: la copia de la tx o el estado publicado.
type binding struct {
	store *Store
	tx    *state
}

func (b binding) read() (*state, func()) {
	if b.tx != nil {
		return b.tx, func() {}
	}
	b.store.mu.RLock()
	return b.store.state, b.store.mu.RUnlock
}

func (b binding) write() (*state, func()) {
	if b.tx != nil {
		return b.tx, func() {}
	}
	b.store.txMu.Lock()
	b.store.mu.Lock()
	return b.store.state, func() {
		b.store.mu.Unlock()
		b.store.txMu.Unlock()
	}
}

type productRepo struct{ binding }

func (r *productRepo) Create(_ context.Context, p *entity.Product) error {
	st, unlock := r.write()
	defer unlock()
	if _, ok := st.products[p.SKU]; ok {
		return domain.ErrDuplicate
	}
	st.nextProductID++
	now := r.store.now()
	p.ID = st.nextProductID
	p.CreatedAt = now
	p.UpdatedAt = now
	st.products[p.SKU] = *p
	return nil
}

func (r *productRepo) GetBySKU(_ context.Context, sku string) (*entity.Product, error) {
	st, unlock := r.read()
	defer unlock()
	p, ok := st.products[sku]
	if !ok {
		return nil, nil
	}
	return &p, nil
}

type balanceRepo struct{ binding }

func (r *balanceRepo) Get(_ context.Context, sku string) (*entity.Balance, error) {
	st, unlock := r.read()
	defer unlock()
	b, ok := st.balances[sku]
	if !ok {
		return nil, nil
	}
	return &b, nil
}

// GetForUpdate equivale a Get: la serialización de Run ya excluye a otras transacciones.
func (r *balanceRepo) GetForUpdate(ctx context.Context, sku string) (*entity.Balance, error) {
	return r.Get(ctx, sku)
}

func (r *balanceRepo) CreateIfMissing(_ context.Context, sku string) error {
	st, unlock := r.write()
	defer unlock()
	if _, ok := st.balances[sku]; ok {
		return nil
	}
	if _, ok := st.products[sku]; !ok {
		return domain.ErrProductNotFound
	}
	now := r.store.now()
	st.balances[sku] = entity.Balance{ID: uuid.New().String(), ProductSKU: sku, CreatedAt: now, UpdatedAt: now}
	return nil
}

func (r *balanceRepo) UpdateQuantity(_ context.Context, b *entity.Balance) error {
	st, unlock := r.write()
	defer unlock()
	cur, ok := st.balances[b.ProductSKU]
	if !ok {
		return domain.ErrNotFound
	}
	if b.Quantity < 0 {
		return domain.ErrInsufficientStock
	}
	cur.Quantity = b.Quantity
	// updated_at crece estrictamente por SKU (versión del saldo en el cache)
	now := r.store.now()
	if next := cur.UpdatedAt.Truncate(time.Microsecond).Add(time.Microsecond); now.Before(next) {
		now = next
	}
	cur.UpdatedAt = now
	b.UpdatedAt = cur.UpdatedAt
	st.balances[b.ProductSKU] = cur
	return nil
}

func (r *balanceRepo) List(_ context.Context) ([]*entity.Balance, error) {
	st, unlock := r.read()
	defer unlock()
	list := make([]*entity.Balance, 0, len(st.balances))
	for _, b := range st.balances {
		b := b
		list = append(list, &b)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].ProductSKU < list[j].ProductSKU })
	return list, nil
}

type movementRepo struct{ binding }

func (r *movementRepo) Create(_ context.Context, m *entity.Movement) error {
	if !entity.ValidMovementKind(m.Kind) {
		return domain.ErrInvalidInput
	}
	st, unlock := r.write()
	defer unlock()
	if _, ok := st.products[m.ProductSKU]; !ok {
		return domain.ErrProductNotFound
	}
	if m.ID == "" {
		m.ID = uuid.New().String()
	}
	m.CreatedAt = r.store.now()
	st.movements[m.Kind][m.ID] = *m
	return nil
}

func (r *movementRepo) GetByID(_ context.Context, kind, id string) (*entity.Movement, error) {
	if !entity.ValidMovementKind(kind) {
		return nil, domain.ErrInvalidInput
	}
	st, unlock := r.read()
	defer unlock()
	m, ok := st.movements[kind][id]
	if !ok {
		return nil, nil
	}
	return &m, nil
}

func (r *movementRepo) List(_ context.Context, kind, sku string) ([]*entity.Movement, error) {
	if !entity.ValidMovementKind(kind) {
		return nil, domain.ErrInvalidInput
	}
	st, unlock := r.read()
	defer unlock()
	list := make([]*entity.Movement, 0, len(st.movements[kind]))
	for _, m := range st.movements[kind] {
		if sku != "" && m.ProductSKU != sku {
			continue
		}
		m := m
		list = append(list, &m)
	}
	sort.Slice(list, func(i, j int) bool {
		if !list[i].OccurredAt.Equal(list[j].OccurredAt) {
			return list[i].OccurredAt.After(list[j].OccurredAt)
		}
		return list[i].CreatedAt.After(list[j].CreatedAt)
	})
	return list, nil
}
