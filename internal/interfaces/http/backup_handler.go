package http

import (
	"fmt"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/estoque-api/internal/application/usecase"
)

// BackupHandler descarga del catálogo en JSON (lo que consume cmd/import).
type BackupHandler struct {
	uc *usecase.BackupUseCase
}

// NewBackupHandler construye el handler.
func NewBackupHandler(uc *usecase.BackupUseCase) *BackupHandler {
	return &BackupHandler{uc: uc}
}

// Export godoc
// @Summary      Backup de productos
// @Tags         backup
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  dto.ProductStockResponse
// @Router       /api/backup [get]
func (h *BackupHandler) Export(c *fiber.Ctx) error {
	filename, rows, err := h.uc.Export(c.UserContext())
	if err != nil {
		return writeError(c, err)
	}
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="%s"`, filename))
	return c.JSON(rows)
}
