package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/Guztaver/licitacao-sub002/internal/application/dto"
	"github.com/Guztaver/licitacao-sub002/internal/application/inventory"
	"github.com/Guztaver/licitacao-sub002/internal/domain/repository"
)

// StockHandler trata as consultas ao razão de estoque (protegido, somente
// leitura: saldos mudam apenas pelo motor de movimentações).
type StockHandler struct {
	uc *inventory.StockUseCase
}

// NewStockHandler constrói o handler.
func NewStockHandler(uc *inventory.StockUseCase) *StockHandler {
	return &StockHandler{uc: uc}
}

// GetByID godoc
// @Summary      Consultar registro de estoque
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID do registro"
// @Success      200  {object}  dto.StockRecordResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/stock/{id} [get]
func (h *StockHandler) GetByID(c *fiber.Ctx) error {
	rec, err := h.uc.GetByID(c.Context(), c.Params("id"))
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(rec)
}

// List godoc
// @Summary      Listar registros de estoque
// @Description  Filtra por item, local e situação derivada (low_stock,
//
//	zero_stock, excess_stock, expired, expiring, below_reorder).
//
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Param        item_id      query  string  false  "Filtrar por item"
// @Param        location_id  query  string  false  "Filtrar por local"
// @Param        status       query  string  false  "Situação derivada"
// @Param        expiring_days query int     false  "Horizonte em dias para status=expiring"
// @Success      200  {array}   dto.StockRecordResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/stock [get]
func (h *StockHandler) List(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return badBody(c)
	}
	page.DefaultPage()

	records, err := h.uc.List(c.Context(), repository.StockRecordFilter{
		ItemID:        c.Query("item_id"),
		LocationID:    c.Query("location_id"),
		DerivedStatus: c.Query("status"),
		ExpiringDays:  c.QueryInt("expiring_days", 30),
		Limit:         page.Limit,
		Offset:        page.Offset,
	})
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(fiber.Map{
		"total":   len(records),
		"records": records,
	})
}
