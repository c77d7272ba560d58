package http

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/session"

	"github.com/jhoicas/estoque-api/internal/application/dto"
	"github.com/jhoicas/estoque-api/internal/domain/entity"
)

// Claves de Locals y de la sesión.
const (
	LocalPrincipal = "principal"
	LocalRequestID = "request_id"

	sessUserID   = "userId"
	sessUsername = "username"
	sessRole     = "role"
	sessStockID  = "stockId"
)

// TokenParser valida tokens Bearer (implementado por auth.AuthUseCase).
type TokenParser interface {
	ParseToken(token string) (*entity.Principal, error)
}

var errNoCredentials = errors.New("sin credenciales")

// RequireAuth exige sesión válida o Bearer Token y guarda el Principal en c.Locals.
// La identidad no se revalida contra la DB: rol y local son los del momento del login.
func RequireAuth(sessions *session.Store, tokens TokenParser) fiber.Handler {
	return func(c *fiber.Ctx) error {
		p, err := resolvePrincipal(c, sessions, tokens)
		if err != nil {
			code, msg := "UNAUTHORIZED", "sesión requerida"
			if !errors.Is(err, errNoCredentials) {
				code, msg = "INVALID_TOKEN", "token inválido o expirado"
			}
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: code, Message: msg})
		}
		c.Locals(LocalPrincipal, *p)
		return c.Next()
	}
}

// RequirePage igual que RequireAuth pero para páginas HTML: sin identidad redirige a "/".
func RequirePage(sessions *session.Store, roles ...string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		p, err := resolvePrincipal(c, sessions, nil)
		if err != nil {
			return c.Redirect("/")
		}
		if !hasRole(*p, roles) {
			return c.Status(fiber.StatusForbidden).SendString("acceso denegado")
		}
		c.Locals(LocalPrincipal, *p)
		return c.Next()
	}
}

// RequireRole autoriza por rol. Debe ir después de RequireAuth.
func RequireRole(roles ...string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		p, ok := GetPrincipal(c)
		if !ok {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "sesión requerida"})
		}
		if !hasRole(p, roles) {
			return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "FORBIDDEN", Message: "acceso denegado"})
		}
		return c.Next()
	}
}

// GetPrincipal devuelve la identidad de la petición (después de RequireAuth).
func GetPrincipal(c *fiber.Ctx) (entity.Principal, bool) {
	p, ok := c.Locals(LocalPrincipal).(entity.Principal)
	return p, ok
}

func hasRole(p entity.Principal, roles []string) bool {
	if len(roles) == 0 {
		return true
	}
	for _, r := range roles {
		if p.Role == r {
			return true
		}
	}
	return false
}

// resolvePrincipal prioriza el header Authorization; si no hay, usa la cookie de sesión.
func resolvePrincipal(c *fiber.Ctx, sessions *session.Store, tokens TokenParser) (*entity.Principal, error) {
	if header := c.Get(fiber.HeaderAuthorization); header != "" && tokens != nil {
		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || strings.TrimSpace(parts[1]) == "" {
			return nil, errors.New("formato: Bearer <token>")
		}
		return tokens.ParseToken(strings.TrimSpace(parts[1]))
	}
	sess, err := sessions.Get(c)
	if err != nil {
		return nil, err
	}
	uid, _ := sess.Get(sessUserID).(int64)
	if uid == 0 {
		return nil, errNoCredentials
	}
	p := &entity.Principal{UserID: uid}
	p.Username, _ = sess.Get(sessUsername).(string)
	p.Role, _ = sess.Get(sessRole).(string)
	p.LocationID, _ = sess.Get(sessStockID).(int64)
	return p, nil
}

// startSession regenera el ID de sesión (evita fijación) y guarda la identidad.
func startSession(c *fiber.Ctx, sessions *session.Store, p *entity.Principal) error {
	sess, err := sessions.Get(c)
	if err != nil {
		return err
	}
	if err := sess.Regenerate(); err != nil {
		return err
	}
	sess.Set(sessUserID, p.UserID)
	sess.Set(sessUsername, p.Username)
	sess.Set(sessRole, p.Role)
	sess.Set(sessStockID, p.LocationID)
	return sess.Save()
}

func endSession(c *fiber.Ctx, sessions *session.Store) error {
	sess, err := sessions.Get(c)
	if err != nil {
		return err
	}
	return sess.Destroy()
}
