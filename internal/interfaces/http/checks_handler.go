package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/Guztaver/licitacao-sub002/internal/application/inventory"
)

// ChecksHandler dispara a varredura automática sob demanda (protegido).
// A mesma varredura roda em intervalo fixo; a rota existe para operação e
// diagnóstico.
type ChecksHandler struct {
	uc *inventory.ChecksUseCase
}

// NewChecksHandler constrói o handler.
func NewChecksHandler(uc *inventory.ChecksUseCase) *ChecksHandler {
	return &ChecksHandler{uc: uc}
}

// Run godoc
// @Summary      Executar verificações automáticas
// @Description  Gera sugestões de reposição e varre o razão por alertas.
//
//	Idempotente: repetir sem mudança de estado não duplica nada.
//
// @Tags         checks
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.ChecksReportResponse
// @Failure      500  {object}  dto.ErrorResponse
// @Router       /api/inventory/checks [post]
func (h *ChecksHandler) Run(c *fiber.Ctx) error {
	report, err := h.uc.Run(c.Context())
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(report)
}
