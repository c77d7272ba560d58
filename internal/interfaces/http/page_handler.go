package http

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/estoque-api/internal/application/usecase"
)

// Marcador de employee.html donde se inyectan local, destino y usuario de la sesión.
const empStockPlaceholder = `<script id="empStockData" type="application/json"></script>`

// PageHandler sirve las páginas HTML de PUBLIC_DIR detrás de la sesión.
type PageHandler struct {
	dir       string
	locations *usecase.LocationUseCase
}

// NewPageHandler construye el handler.
func NewPageHandler(dir string, locations *usecase.LocationUseCase) *PageHandler {
	return &PageHandler{dir: dir, locations: locations}
}

// File devuelve un handler que envía name desde el directorio público.
func (h *PageHandler) File(name string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.SendFile(filepath.Join(h.dir, name))
	}
}

// Employee envía employee.html con los datos de la sesión embebidos como JSON.
func (h *PageHandler) Employee(c *fiber.Ctx) error {
	html, err := os.ReadFile(filepath.Join(h.dir, "employee.html"))
	if err != nil {
		return writeError(c, err)
	}
	p, _ := GetPrincipal(c)
	destination, err := h.locations.Destination(c.UserContext(), p.LocationID)
	if err != nil {
		return writeError(c, err)
	}
	data, err := json.Marshal(meResponse(p, destination))
	if err != nil {
		return writeError(c, err)
	}
	body := strings.Replace(string(html), empStockPlaceholder,
		`<script id="empStockData" type="application/json">`+string(data)+`</script>`, 1)
	c.Set(fiber.HeaderContentType, fiber.MIMETextHTMLCharsetUTF8)
	return c.SendString(body)
}
