package http

import (
	"context"
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/caioaugustofs/api-vendas/internal/application/dto"
	"github.com/caioaugustofs/api-vendas/internal/application/stock"
	"github.com/caioaugustofs/api-vendas/internal/domain"
	"github.com/caioaugustofs/api-vendas/internal/domain/entity"
)

// StockHandler maneja entradas, salidas y saldos (protegido).
type StockHandler struct {
	recorder *stock.MovementRecorder
	query    *stock.QueryUseCase
}

// NewStockHandler construye el handler.
func NewStockHandler(recorder *stock.MovementRecorder, query *stock.QueryUseCase) *StockHandler {
	return &StockHandler{recorder: recorder, query: query}
}

// RecordInbound godoc
// @Summary      Registrar entrada de stock
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body      dto.MovementRequest  true  "product_sku, quantity (>= 1), occurred_at opcional, note"
// @Success      201   {object}  dto.MovementResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/inventory/inbound [post]
func (h *StockHandler) RecordInbound(c *fiber.Ctx) error {
	return h.record(c, h.recorder.RecordInbound)
}

// RecordOutbound godoc
// @Summary      Registrar salida de stock
// @Description  Rechaza con 409 si el saldo quedaría negativo; en ese caso no se registra nada.
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body      dto.MovementRequest  true  "product_sku, quantity (>= 1), occurred_at opcional, note"
// @Success      201   {object}  dto.MovementResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/inventory/outbound [post]
func (h *StockHandler) RecordOutbound(c *fiber.Ctx) error {
	return h.record(c, h.recorder.RecordOutbound)
}

type recordFunc func(ctx context.Context, in stock.MovementInput) (*entity.Movement, error)

func (h *StockHandler) record(c *fiber.Ctx, fn recordFunc) error {
	var in dto.MovementRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	input := stock.MovementInput{
		ProductSKU: in.ProductSKU,
		Quantity:   in.Quantity,
		Note:       in.Note,
		UserID:     GetUserID(c),
	}
	if in.OccurredAt != nil {
		input.OccurredAt = *in.OccurredAt
	}
	mov, err := fn(c.UserContext(), input)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.ToMovementResponse(mov))
}

// ListInbound godoc
// @Summary      Listar entradas de stock
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        sku  query     string  false  "Filtrar por SKU"
// @Success      200  {object}  dto.MovementListResponse
// @Failure      401  {object}  dto.ErrorResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Router       /api/inventory/inbound [get]
func (h *StockHandler) ListInbound(c *fiber.Ctx) error {
	return h.listMovements(c, entity.MovementInbound)
}

// ListOutbound godoc
// @Summary      Listar salidas de stock
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        sku  query     string  false  "Filtrar por SKU"
// @Success      200  {object}  dto.MovementListResponse
// @Failure      401  {object}  dto.ErrorResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Router       /api/inventory/outbound [get]
func (h *StockHandler) ListOutbound(c *fiber.Ctx) error {
	return h.listMovements(c, entity.MovementOutbound)
}

func (h *StockHandler) listMovements(c *fiber.Ctx, kind string) error {
	list, err := h.query.ListMovements(c.UserContext(), kind, c.Query("sku"))
	if err != nil {
		return writeError(c, err)
	}
	out := dto.MovementListResponse{Total: len(list), Movements: make([]dto.MovementResponse, 0, len(list))}
	for _, m := range list {
		out.Movements = append(out.Movements, dto.ToMovementResponse(m))
	}
	return c.JSON(out)
}

// GetInbound godoc
// @Summary      Obtener entrada por ID
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        id   path      string  true  "ID de la entrada"
// @Success      200  {object}  dto.MovementResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/inventory/inbound/{id} [get]
func (h *StockHandler) GetInbound(c *fiber.Ctx) error {
	return h.getMovement(c, entity.MovementInbound)
}

// GetOutbound godoc
// @Summary      Obtener salida por ID
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        id   path      string  true  "ID de la salida"
// @Success      200  {object}  dto.MovementResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/inventory/outbound/{id} [get]
func (h *StockHandler) GetOutbound(c *fiber.Ctx) error {
	return h.getMovement(c, entity.MovementOutbound)
}

func (h *StockHandler) getMovement(c *fiber.Ctx, kind string) error {
	mov, err := h.query.GetMovement(c.UserContext(), kind, c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	if mov == nil {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "movimiento no encontrado"})
	}
	return c.JSON(dto.ToMovementResponse(mov))
}

// ListBalances godoc
// @Summary      Listar saldos de stock
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.BalanceListResponse
// @Failure      401  {object}  dto.ErrorResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Router       /api/inventory/balances [get]
func (h *StockHandler) ListBalances(c *fiber.Ctx) error {
	list, err := h.query.ListBalances(c.UserContext())
	if err != nil {
		return writeError(c, err)
	}
	out := dto.BalanceListResponse{Total: len(list), Balances: make([]dto.BalanceResponse, 0, len(list))}
	for _, b := range list {
		out.Balances = append(out.Balances, dto.ToBalanceResponse(b))
	}
	return c.JSON(out)
}

// GetBalance godoc
// @Summary      Saldo actual de un SKU
// @Description  404 si el SKU nunca tuvo una entrada.
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        sku  path      string  true  "SKU del producto"
// @Success      200  {object}  dto.BalanceResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/inventory/balances/{sku} [get]
func (h *StockHandler) GetBalance(c *fiber.Ctx) error {
	b, err := h.query.GetBalance(c.UserContext(), c.Params("sku"))
	if err != nil {
		return writeError(c, err)
	}
	if b == nil {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "BALANCE_NOT_FOUND", Message: "sin saldo registrado para el SKU"})
	}
	return c.JSON(dto.ToBalanceResponse(b))
}

// writeError traduce errores de dominio a respuestas HTTP. Las causas internas no se exponen.
func writeError(c *fiber.Ctx, err error) error {
	var opErr *domain.OperationFailedError
	switch {
	case errors.Is(err, domain.ErrProductNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "PRODUCT_NOT_FOUND", Message: "producto no encontrado"})
	case errors.Is(err, domain.ErrInvalidQuantity):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_QUANTITY", Message: "la cantidad debe ser mayor que cero"})
	case errors.Is(err, domain.ErrInsufficientStock):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "INSUFFICIENT_STOCK", Message: "stock insuficiente"})
	case errors.Is(err, domain.ErrInvalidInput):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "datos inválidos"})
	case errors.As(err, &opErr):
		return c.Status(opErr.Status).JSON(dto.ErrorResponse{Code: "OPERATION_FAILED", Message: opErr.Message})
	}
	return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: "error interno"})
}
