package http

import (
	"context"

	"github.com/gofiber/fiber/v2"

	"github.com/Guztaver/licitacao-sub002/internal/application/dto"
	"github.com/Guztaver/licitacao-sub002/internal/application/inventory"
	"github.com/Guztaver/licitacao-sub002/internal/domain/entity"
	"github.com/Guztaver/licitacao-sub002/internal/domain/repository"
)

// AlertHandler trata as requisições HTTP de alertas (protegido).
type AlertHandler struct {
	uc *inventory.AlertUseCase
}

// NewAlertHandler constrói o handler.
func NewAlertHandler(uc *inventory.AlertUseCase) *AlertHandler {
	return &AlertHandler{uc: uc}
}

// List godoc
// @Summary      Listar alertas
// @Tags         alerts
// @Security     Bearer
// @Produce      json
// @Param        item_id   query  string  false  "Filtrar por item"
// @Param        kind      query  string  false  "Filtrar por tipo"
// @Param        status    query  string  false  "Filtrar por situação"
// @Param        severity  query  string  false  "Filtrar por severidade"
// @Success      200  {array}   dto.AlertResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/alerts [get]
func (h *AlertHandler) List(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return badBody(c)
	}
	page.DefaultPage()

	alerts, err := h.uc.List(c.Context(), repository.AlertFilter{
		ItemID:   c.Query("item_id"),
		Kind:     c.Query("kind"),
		Status:   c.Query("status"),
		Severity: c.Query("severity"),
		Limit:    page.Limit,
		Offset:   page.Offset,
	})
	if err != nil {
		return domainError(c, err)
	}
	out := make([]dto.AlertResponse, 0, len(alerts))
	for _, a := range alerts {
		out = append(out, dto.AlertFromEntity(a))
	}
	return c.JSON(fiber.Map{
		"total":  len(out),
		"alerts": out,
	})
}

// Acknowledge godoc
// @Summary      Reconhecer alerta
// @Description  O alerta continua aberto para fins de deduplicação; apenas
//
//	registra quem está ciente.
//
// @Tags         alerts
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID do alerta"
// @Success      200  {object}  dto.AlertResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      422  {object}  dto.ErrorResponse
// @Router       /api/alerts/{id}/acknowledge [post]
func (h *AlertHandler) Acknowledge(c *fiber.Ctx) error {
	actorID := GetActorID(c)
	if actorID == "" {
		return unauthorized(c)
	}
	alert, err := h.uc.Acknowledge(c.Context(), c.Params("id"), actorID)
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(dto.AlertFromEntity(alert))
}

// Resolve godoc
// @Summary      Resolver alerta
// @Tags         alerts
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                   true   "ID do alerta"
// @Param        body  body  dto.ResolveAlertRequest  false  "nota de resolução"
// @Success      200  {object}  dto.AlertResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      422  {object}  dto.ErrorResponse
// @Router       /api/alerts/{id}/resolve [post]
func (h *AlertHandler) Resolve(c *fiber.Ctx) error {
	return h.close(c, h.uc.Resolve)
}

// Dismiss godoc
// @Summary      Descartar alerta
// @Tags         alerts
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                   true   "ID do alerta"
// @Param        body  body  dto.ResolveAlertRequest  false  "nota de descarte"
// @Success      200  {object}  dto.AlertResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      422  {object}  dto.ErrorResponse
// @Router       /api/alerts/{id}/dismiss [post]
func (h *AlertHandler) Dismiss(c *fiber.Ctx) error {
	return h.close(c, h.uc.Dismiss)
}

func (h *AlertHandler) close(c *fiber.Ctx, fn func(ctx context.Context, id, actorID, note string) (*entity.AlertRecord, error)) error {
	actorID := GetActorID(c)
	if actorID == "" {
		return unauthorized(c)
	}
	var in dto.ResolveAlertRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&in); err != nil {
			return badBody(c)
		}
	}
	alert, err := fn(c.Context(), c.Params("id"), actorID, in.ResolutionNote)
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(dto.AlertFromEntity(alert))
}
