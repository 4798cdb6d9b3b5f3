package http

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/Guztaver/licitacao-sub002/internal/application/dto"
	"github.com/Guztaver/licitacao-sub002/internal/application/inventory"
	"github.com/Guztaver/licitacao-sub002/internal/domain/repository"
)

// ReplenishmentHandler trata o fluxo de reposição (protegido).
type ReplenishmentHandler struct {
	uc *inventory.ReplenishmentUseCase
}

// NewReplenishmentHandler constrói o handler.
func NewReplenishmentHandler(uc *inventory.ReplenishmentUseCase) *ReplenishmentHandler {
	return &ReplenishmentHandler{uc: uc}
}

// List godoc
// @Summary      Listar reposições
// @Description  Ordenadas por prioridade (urgente primeiro) e data de sugestão.
// @Tags         replenishments
// @Security     Bearer
// @Produce      json
// @Param        item_id   query  string  false  "Filtrar por item"
// @Param        status    query  string  false  "Filtrar por situação"
// @Param        priority  query  string  false  "Filtrar por prioridade"
// @Success      200  {array}   dto.ReplenishmentResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/replenishments [get]
func (h *ReplenishmentHandler) List(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return badBody(c)
	}
	page.DefaultPage()

	records, err := h.uc.List(c.Context(), repository.ReplenishmentFilter{
		ItemID:   c.Query("item_id"),
		Status:   c.Query("status"),
		Priority: c.Query("priority"),
		Limit:    page.Limit,
		Offset:   page.Offset,
	})
	if err != nil {
		return domainError(c, err)
	}
	now := time.Now()
	out := make([]dto.ReplenishmentResponse, 0, len(records))
	for _, r := range records {
		out = append(out, dto.ReplenishmentFromEntity(r, now))
	}
	return c.JSON(fiber.Map{
		"total":          len(out),
		"replenishments": out,
	})
}

// GetByID godoc
// @Summary      Consultar reposição
// @Tags         replenishments
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID da reposição"
// @Success      200  {object}  dto.ReplenishmentResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/replenishments/{id} [get]
func (h *ReplenishmentHandler) GetByID(c *fiber.Ctx) error {
	rec, err := h.uc.GetByID(c.Context(), c.Params("id"))
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(dto.ReplenishmentFromEntity(rec, time.Now()))
}

// Approve godoc
// @Summary      Aprovar sugestão de reposição
// @Description  Somente SUGGESTED pode ser aprovada; quantity_requested omitida
//
//	assume a quantidade sugerida.
//
// @Tags         replenishments
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                           true   "ID da reposição"
// @Param        body  body  dto.ApproveReplenishmentRequest  false  "quantity_requested opcional"
// @Success      200  {object}  dto.ReplenishmentResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Failure      422  {object}  dto.ErrorResponse
// @Router       /api/replenishments/{id}/approve [post]
func (h *ReplenishmentHandler) Approve(c *fiber.Ctx) error {
	actorID := GetActorID(c)
	if actorID == "" {
		return unauthorized(c)
	}
	var in dto.ApproveReplenishmentRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&in); err != nil {
			return badBody(c)
		}
	}
	rec, err := h.uc.Approve(c.Context(), c.Params("id"), in.QuantityRequested, actorID)
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(dto.ReplenishmentFromEntity(rec, time.Now()))
}

// Request godoc
// @Summary      Solicitar reposição ao fornecedor
// @Tags         replenishments
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                           true  "ID da reposição"
// @Param        body  body  dto.RequestReplenishmentRequest  true  "supplier_id obrigatório"
// @Success      200  {object}  dto.ReplenishmentResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      422  {object}  dto.ErrorResponse
// @Router       /api/replenishments/{id}/request [post]
func (h *ReplenishmentHandler) Request(c *fiber.Ctx) error {
	actorID := GetActorID(c)
	if actorID == "" {
		return unauthorized(c)
	}
	var in dto.RequestReplenishmentRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	rec, err := h.uc.Request(c.Context(), c.Params("id"), in.SupplierID, in.ExpectedDeliveryDate, actorID)
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(dto.ReplenishmentFromEntity(rec, time.Now()))
}

// MarkInTransit godoc
// @Summary      Marcar reposição em trânsito
// @Tags         replenishments
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID da reposição"
// @Success      200  {object}  dto.ReplenishmentResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      422  {object}  dto.ErrorResponse
// @Router       /api/replenishments/{id}/in-transit [post]
func (h *ReplenishmentHandler) MarkInTransit(c *fiber.Ctx) error {
	rec, err := h.uc.MarkInTransit(c.Context(), c.Params("id"))
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(dto.ReplenishmentFromEntity(rec, time.Now()))
}

// Receive godoc
// @Summary      Registrar recebimento (parcial ou total)
// @Description  Credita o saldo via motor de movimentações (INBOUND) e acumula
//
//	a quantidade atendida; recebimento além do solicitado é
//	truncado ao restante.
//
// @Tags         replenishments
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                           true  "ID da reposição"
// @Param        body  body  dto.ReceiveReplenishmentRequest  true  "quantity obrigatório"
// @Success      200  {object}  dto.ReplenishmentResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      422  {object}  dto.ErrorResponse
// @Router       /api/replenishments/{id}/receive [post]
func (h *ReplenishmentHandler) Receive(c *fiber.Ctx) error {
	actorID := GetActorID(c)
	if actorID == "" {
		return unauthorized(c)
	}
	var in dto.ReceiveReplenishmentRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	rec, err := h.uc.Receive(c.Context(), c.Params("id"), in.Quantity, in.UnitCost, in.SourceDocument, actorID)
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(dto.ReplenishmentFromEntity(rec, time.Now()))
}

// Cancel godoc
// @Summary      Cancelar reposição
// @Tags         replenishments
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                          true  "ID da reposição"
// @Param        body  body  dto.CancelReplenishmentRequest  true  "reason obrigatório"
// @Success      200  {object}  dto.ReplenishmentResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      422  {object}  dto.ErrorResponse
// @Router       /api/replenishments/{id}/cancel [post]
func (h *ReplenishmentHandler) Cancel(c *fiber.Ctx) error {
	actorID := GetActorID(c)
	if actorID == "" {
		return unauthorized(c)
	}
	var in dto.CancelReplenishmentRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	rec, err := h.uc.Cancel(c.Context(), c.Params("id"), in.Reason, actorID)
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(dto.ReplenishmentFromEntity(rec, time.Now()))
}
