package http

import (
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/estoque-api/internal/application/dto"
	"github.com/jhoicas/estoque-api/internal/application/inventory"
	"github.com/jhoicas/estoque-api/internal/application/usecase"
)

// WithdrawalHandler registra retiradas y consulta el historial.
type WithdrawalHandler struct {
	withdraw *inventory.WithdrawUseCase
	history  *usecase.WithdrawalHistoryUseCase
}

// NewWithdrawalHandler construye el handler.
func NewWithdrawalHandler(withdraw *inventory.WithdrawUseCase, history *usecase.WithdrawalHistoryUseCase) *WithdrawalHandler {
	return &WithdrawalHandler{withdraw: withdraw, history: history}
}

// Create godoc
// @Summary      Registrar retirada
// @Description  Descuenta la cantidad del local y registra la retirada en una sola transacción.
// @Description  EMPLOYEE retira siempre de su local; ADMIN puede indicar stockId.
// @Tags         retiradas
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.WithdrawRequest  true  "productId, quantity, destination, stockId"
// @Success      200   {object}  dto.WithdrawResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Router       /api/retiradas [post]
func (h *WithdrawalHandler) Create(c *fiber.Ctx) error {
	var in dto.WithdrawRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	p, _ := GetPrincipal(c)
	out, err := h.withdraw.WithdrawFromRequest(c.UserContext(), p, in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// List godoc
// @Summary      Historial de retiradas (todas)
// @Tags         retiradas
// @Security     Bearer
// @Produce      json
// @Param        start  query  string  false  "YYYY-MM-DD o fecha-hora ISO"
// @Param        end    query  string  false  "YYYY-MM-DD o fecha-hora ISO (incluye todo el día)"
// @Success      200    {array}   dto.WithdrawalResponse
// @Failure      400    {object}  dto.ErrorResponse
// @Router       /api/retiradas [get]
func (h *WithdrawalHandler) List(c *fiber.Ctx) error {
	var q dto.WithdrawalQuery
	if err := c.QueryParser(&q); err != nil {
		return badBody(c)
	}
	out, err := h.history.List(c.UserContext(), q)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// ListOwn godoc
// @Summary      Mis retiradas
// @Tags         retiradas
// @Security     Bearer
// @Produce      json
// @Param        start  query  string  false  "YYYY-MM-DD o fecha-hora ISO"
// @Param        end    query  string  false  "YYYY-MM-DD o fecha-hora ISO (incluye todo el día)"
// @Success      200    {array}   dto.WithdrawalResponse
// @Router       /api/my-retiradas [get]
func (h *WithdrawalHandler) ListOwn(c *fiber.Ctx) error {
	var q dto.WithdrawalQuery
	if err := c.QueryParser(&q); err != nil {
		return badBody(c)
	}
	p, _ := GetPrincipal(c)
	out, err := h.history.ListOwn(c.UserContext(), p, q)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Report godoc
// @Summary      Reporte PDF de retiradas
// @Tags         retiradas
// @Security     Bearer
// @Produce      application/pdf
// @Param        start  query  string  false  "YYYY-MM-DD o fecha-hora ISO"
// @Param        end    query  string  false  "YYYY-MM-DD o fecha-hora ISO"
// @Success      200    {file}    file
// @Failure      400    {object}  dto.ErrorResponse
// @Router       /api/retiradas/report.pdf [get]
func (h *WithdrawalHandler) Report(c *fiber.Ctx) error {
	var q dto.WithdrawalQuery
	if err := c.QueryParser(&q); err != nil {
		return badBody(c)
	}
	pdf, err := h.history.Report(c.UserContext(), q)
	if err != nil {
		return writeError(c, err)
	}
	filename := fmt.Sprintf("retiradas_%s.pdf", time.Now().UTC().Format("20060102"))
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`inline; filename="%s"`, filename))
	return c.Send(pdf)
}
