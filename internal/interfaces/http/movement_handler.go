package http

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/Guztaver/licitacao-sub002/internal/application/dto"
	"github.com/Guztaver/licitacao-sub002/internal/application/inventory"
	"github.com/Guztaver/licitacao-sub002/internal/domain/repository"
)

// MovementHandler trata as requisições HTTP de movimentações (protegido).
type MovementHandler struct {
	uc *inventory.MovementUseCase
}

// NewMovementHandler constrói o handler.
func NewMovementHandler(uc *inventory.MovementUseCase) *MovementHandler {
	return &MovementHandler{uc: uc}
}

// RegisterMovement godoc
// @Summary      Registrar movimentação de estoque
// @Description  INBOUND/OUTBOUND/ADJUSTMENT sobre um registro; TRANSFER debita
//
//	a origem e credita o destino atomicamente (duas pernas sob o
//	mesmo correlation_id).
//
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.RegisterMovementRequest  true  "stock_record_id, kind, quantity, unit_cost (entradas), destination_location_id (TRANSFER)"
// @Success      201   {object}  dto.MovementResultResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/inventory/movements [post]
func (h *MovementHandler) RegisterMovement(c *fiber.Ctx) error {
	actorID := GetActorID(c)
	if actorID == "" {
		return unauthorized(c)
	}
	var in dto.RegisterMovementRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	result, err := h.uc.RegisterMovement(c.Context(), inventory.MovementInput{
		Kind:                  in.Kind,
		StockRecordID:         in.StockRecordID,
		DestinationLocationID: in.DestinationLocationID,
		Quantity:              in.Quantity,
		UnitCost:              in.UnitCost,
		SourceDocument:        in.SourceDocument,
		Reason:                in.Reason,
		ActorID:               actorID,
	})
	if err != nil {
		return domainError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(movementResultResponse(result))
}

// ReverseMovement godoc
// @Summary      Estornar movimentação confirmada
// @Description  Gera o lançamento compensatório com o mesmo correlation_id e
//
//	marca o original como estornado (segue confirmado). Pernas de
//	transferência não são estornáveis individualmente.
//
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                      true  "ID da movimentação"
// @Param        body  body  dto.ReverseMovementRequest  true  "reason obrigatório"
// @Success      201   {object}  dto.MovementResultResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      422   {object}  dto.ErrorResponse
// @Router       /api/inventory/movements/{id}/reverse [post]
func (h *MovementHandler) ReverseMovement(c *fiber.Ctx) error {
	actorID := GetActorID(c)
	if actorID == "" {
		return unauthorized(c)
	}
	var in dto.ReverseMovementRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	result, err := h.uc.ReverseMovement(c.Context(), c.Params("id"), in.Reason, actorID)
	if err != nil {
		return domainError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(movementResultResponse(result))
}

// List godoc
// @Summary      Listar movimentações
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        stock_record_id  query  string  false  "Filtrar por registro de estoque"
// @Param        item_id          query  string  false  "Filtrar por item"
// @Param        location_id      query  string  false  "Filtrar por local"
// @Param        kind             query  string  false  "Filtrar por tipo"
// @Param        from             query  string  false  "Início do período (RFC3339)"
// @Param        to               query  string  false  "Fim do período (RFC3339)"
// @Success      200  {array}   dto.MovementResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/inventory/movements [get]
func (h *MovementHandler) List(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return badBody(c)
	}
	page.DefaultPage()

	filter := repository.MovementFilter{
		StockRecordID: c.Query("stock_record_id"),
		ItemID:        c.Query("item_id"),
		LocationID:    c.Query("location_id"),
		Kind:          c.Query("kind"),
		Limit:         page.Limit,
		Offset:        page.Offset,
	}
	if from := c.Query("from"); from != "" {
		t, err := time.Parse(time.RFC3339, from)
		if err != nil {
			return badBody(c)
		}
		filter.From = &t
	}
	if to := c.Query("to"); to != "" {
		t, err := time.Parse(time.RFC3339, to)
		if err != nil {
			return badBody(c)
		}
		filter.To = &t
	}

	movements, err := h.uc.ListMovements(c.Context(), filter)
	if err != nil {
		return domainError(c, err)
	}
	out := make([]dto.MovementResponse, 0, len(movements))
	for _, m := range movements {
		out = append(out, dto.MovementFromEntity(m))
	}
	return c.JSON(fiber.Map{
		"total":     len(out),
		"movements": out,
	})
}

func movementResultResponse(result *inventory.MovementResult) dto.MovementResultResponse {
	resp := dto.MovementResultResponse{
		CorrelationID: result.CorrelationID,
		BalanceBefore: result.BalanceBefore,
		BalanceAfter:  result.BalanceAfter,
	}
	for _, m := range result.Movements {
		resp.Movements = append(resp.Movements, dto.MovementFromEntity(m))
	}
	return resp
}
