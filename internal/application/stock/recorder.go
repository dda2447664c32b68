package stock

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/caioaugustofs/api-vendas/internal/domain"
	"github.com/caioaugustofs/api-vendas/internal/domain/entity"
	"github.com/caioaugustofs/api-vendas/internal/domain/repository"
	"github.com/caioaugustofs/api-vendas/pkg/logger"
)

var (
	inboundFailure  = Failure{Status: http.StatusBadRequest, Message: "error al crear la entrada de stock"}
	outboundFailure = Failure{Status: http.StatusBadRequest, Message: "error al crear la salida de stock"}
)

// MovementInput entrada para registrar una entrada o salida.
type MovementInput struct {
	ProductSKU string
	Quantity   int64
	OccurredAt time.Time // cero = ahora
	Note       string
	UserID     string
}

// MovementRecorder registra movimientos de stock y actualiza el saldo en la misma transacción.
type MovementRecorder struct {
	txRunner  TxRunner
	cache     BalanceCache
	publisher EventPublisher
	log       *logger.Logger
	now       func() time.Time
}

// RecorderOption configura colaboradores opcionales del recorder.
type RecorderOption func(*MovementRecorder)

// WithBalanceCache escribe el saldo resultante en el cache después de cada commit.
func WithBalanceCache(c BalanceCache) RecorderOption {
	return func(r *MovementRecorder) {
		if c != nil {
			r.cache = c
		}
	}
}

// WithEventPublisher publica MovementRecordedEvent después de cada commit.
func WithEventPublisher(p EventPublisher) RecorderOption {
	return func(r *MovementRecorder) {
		if p != nil {
			r.publisher = p
		}
	}
}

// WithClock reemplaza time.Now (tests).
func WithClock(now func() time.Time) RecorderOption {
	return func(r *MovementRecorder) { r.now = now }
}

// NewMovementRecorder construye el caso de uso.
func NewMovementRecorder(txRunner TxRunner, log *logger.Logger, opts ...RecorderOption) *MovementRecorder {
	r := &MovementRecorder{
		txRunner:  txRunner,
		cache:     nopCache{},
		publisher: nopPublisher{},
		log:       log,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// RecordInbound registra una entrada: crea el saldo si no existe y lo incrementa.
func (r *MovementRecorder) RecordInbound(ctx context.Context, in MovementInput) (*entity.Movement, error) {
	return r.record(ctx, entity.MovementInbound, in, inboundFailure)
}

// RecordOutbound registra una salida. Falla con domain.ErrInsufficientStock si el saldo
// quedaría negativo; en ese caso no se persiste nada.
func (r *MovementRecorder) RecordOutbound(ctx context.Context, in MovementInput) (*entity.Movement, error) {
	return r.record(ctx, entity.MovementOutbound, in, outboundFailure)
}

type recorded struct {
	movement *entity.Movement
	balance  *entity.Balance
}

func (r *MovementRecorder) record(ctx context.Context, kind string, in MovementInput, failure Failure) (*entity.Movement, error) {
	sku := strings.TrimSpace(in.ProductSKU)
	if in.Quantity < 1 {
		return nil, domain.ErrInvalidQuantity
	}
	if sku == "" {
		return nil, domain.ErrProductNotFound
	}
	now := r.now()
	occurredAt := in.OccurredAt
	if occurredAt.IsZero() {
		occurredAt = now
	}

	out, err := Apply(ctx, r.txRunner, r.log, failure, func(
		ctx context.Context,
		productRepo repository.ProductRepository,
		balanceRepo repository.BalanceRepository,
		movementRepo repository.MovementRepository,
	) (recorded, error) {
		product, err := productRepo.GetBySKU(ctx, sku)
		if err != nil {
			return recorded{}, err
		}
		if product == nil {
			return recorded{}, domain.ErrProductNotFound
		}

		mov := &entity.Movement{
			ID:         uuid.New().String(),
			Kind:       kind,
			ProductSKU: sku,
			Quantity:   in.Quantity,
			OccurredAt: occurredAt,
			Note:       in.Note,
			CreatedBy:  in.UserID,
			CreatedAt:  now,
		}

		ledger := NewLedger(balanceRepo)
		ledger.now = r.now
		var balance *entity.Balance
		if kind == entity.MovementInbound {
			balance, err = ledger.ApplyInbound(ctx, sku, in.Quantity)
		} else {
			balance, err = ledger.ApplyOutbound(ctx, sku, in.Quantity)
		}
		if err != nil {
			return recorded{}, err
		}
		if err := movementRepo.Create(ctx, mov); err != nil {
			return recorded{}, err
		}
		return recorded{movement: mov, balance: balance}, nil
	})
	if err != nil {
		if r.log != nil && domain.IsClassified(err) {
			r.log.Info().Err(err).Str("kind", kind).Str("sku", sku).Int64("quantity", in.Quantity).Msg("movimiento rechazado")
		}
		return nil, err
	}

	r.afterCommit(ctx, out)
	return out.movement, nil
}

// afterCommit actualiza el cache y publica el evento. Sus fallas no revierten el movimiento.
// El movimiento ya está confirmado: la cancelación de ctx no debe cortar estos pasos.
func (r *MovementRecorder) afterCommit(ctx context.Context, out recorded) {
	ctx = context.WithoutCancel(ctx)
	mov := out.movement
	r.cache.Set(ctx, out.balance)

	event := MovementRecordedEvent{
		MovementID:   mov.ID,
		Kind:         mov.Kind,
		ProductSKU:   mov.ProductSKU,
		Quantity:     mov.Quantity,
		BalanceAfter: out.balance.Quantity,
		OccurredAt:   mov.OccurredAt,
		RecordedAt:   mov.CreatedAt,
	}
	if err := r.publisher.PublishMovementRecorded(ctx, event); err != nil && r.log != nil {
		r.log.Warn().Err(err).Str("movement_id", mov.ID).Msg("publicar evento de movimiento")
	}
	if r.log != nil {
		r.log.Info().
			Str("movement_id", mov.ID).
			Str("kind", mov.Kind).
			Str("sku", mov.ProductSKU).
			Int64("quantity", mov.Quantity).
			Int64("balance", out.balance.Quantity).
			Msg("movimiento registrado")
	}
}
