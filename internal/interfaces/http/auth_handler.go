package http

import (
	"errors"
	"net/url"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/session"

	"github.com/jhoicas/estoque-api/internal/application/auth"
	"github.com/jhoicas/estoque-api/internal/application/dto"
	"github.com/jhoicas/estoque-api/internal/application/usecase"
	"github.com/jhoicas/estoque-api/internal/domain"
	"github.com/jhoicas/estoque-api/internal/domain/entity"
)

// AuthHandler maneja login/logout por sesión, tokens Bearer y la identidad actual.
type AuthHandler struct {
	uc        *auth.AuthUseCase
	sessions  *session.Store
	locations *usecase.LocationUseCase
}

// NewAuthHandler construye el handler de auth.
func NewAuthHandler(uc *auth.AuthUseCase, sessions *session.Store, locations *usecase.LocationUseCase) *AuthHandler {
	return &AuthHandler{uc: uc, sessions: sessions, locations: locations}
}

// Login godoc
// @Summary      Iniciar sesión (formulario)
// @Tags         auth
// @Accept       x-www-form-urlencoded
// @Param        username  formData  string  true  "Usuario"
// @Param        password  formData  string  true  "Contraseña"
// @Success      302
// @Router       /login [post]
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var in dto.LoginRequest
	if err := c.BodyParser(&in); err != nil {
		return loginFailed(c, "Dados incompletos")
	}
	p, err := h.uc.Login(c.UserContext(), in.Username, in.Password)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidInput):
			return loginFailed(c, "Dados incompletos")
		case errors.Is(err, domain.ErrUserNotFound):
			return loginFailed(c, "Usuário não encontrado")
		case errors.Is(err, domain.ErrInvalidCredentials):
			return loginFailed(c, "Senha incorreta")
		}
		return writeError(c, err)
	}
	if err := startSession(c, h.sessions, p); err != nil {
		return writeError(c, err)
	}
	if p.IsAdmin() {
		return c.Redirect("/admin")
	}
	return c.Redirect("/employee")
}

func loginFailed(c *fiber.Ctx, reason string) error {
	return c.Redirect("/?error=" + url.QueryEscape(reason))
}

// Logout godoc
// @Summary      Cerrar sesión
// @Tags         auth
// @Success      302
// @Router       /logout [get]
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	if err := endSession(c, h.sessions); err != nil {
		return writeError(c, err)
	}
	return c.Redirect("/")
}

// Token godoc
// @Summary      Emitir token Bearer para scripts
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body  dto.LoginRequest  true  "username, password"
// @Success      200   {object}  dto.TokenResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      401   {object}  dto.ErrorResponse
// @Router       /api/token [post]
func (h *AuthHandler) Token(c *fiber.Ctx) error {
	var in dto.LoginRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	p, err := h.uc.Login(c.UserContext(), in.Username, in.Password)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) || errors.Is(err, domain.ErrInvalidCredentials) {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "INVALID_CREDENTIALS", Message: "credenciales inválidas"})
		}
		return writeError(c, err)
	}
	token, exp, err := h.uc.IssueToken(p)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.TokenResponse{Token: token, ExpiresAt: exp})
}

// Me godoc
// @Summary      Identidad de la sesión actual
// @Tags         auth
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.MeResponse
// @Failure      401  {object}  dto.ErrorResponse
// @Router       /api/me [get]
func (h *AuthHandler) Me(c *fiber.Ctx) error {
	p, _ := GetPrincipal(c)
	destination, err := h.locations.Destination(c.UserContext(), p.LocationID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(meResponse(p, destination))
}

func meResponse(p entity.Principal, destination string) dto.MeResponse {
	return dto.MeResponse{
		UserID:      p.UserID,
		Username:    p.Username,
		Role:        p.Role,
		StockID:     p.LocationID,
		Destination: destination,
	}
}
