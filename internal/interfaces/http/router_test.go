package http_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/encryptcookie"
	"github.com/gofiber/fiber/v2/middleware/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/estoque-api/internal/application/analytics"
	"github.com/jhoicas/estoque-api/internal/application/auth"
	"github.com/jhoicas/estoque-api/internal/application/dto"
	"github.com/jhoicas/estoque-api/internal/application/inventory"
	"github.com/jhoicas/estoque-api/internal/application/usecase"
	"github.com/jhoicas/estoque-api/internal/domain/entity"
	"github.com/jhoicas/estoque-api/internal/infrastructure/memory"
	apphttp "github.com/jhoicas/estoque-api/internal/interfaces/http"
	"github.com/jhoicas/estoque-api/pkg/config"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

const (
	testSecret = "test-secret-key-for-unit-tests"
	cookieName = "estoque.sid"
)

type testEnv struct {
	app   *fiber.App
	store *memory.Store
	bar   *entity.Location
	loja  *entity.Location
}

// newTestEnv arma la app completa sobre el almacenamiento en memoria con
// admin/admin123 (LojaPark) y funcionario/func123 (BarPlaypub).
// publicDir opcional activa las páginas.
func newTestEnv(t *testing.T, publicDir ...string) *testEnv {
	t.Helper()
	ctx := context.Background()
	store := memory.NewStore()

	loja, err := store.Locations().Ensure(ctx, entity.LocationStore)
	require.NoError(t, err)
	bar, err := store.Locations().Ensure(ctx, entity.LocationBar)
	require.NoError(t, err)

	userUC := usecase.NewUserUseCase(store.Users(), store.Locations()).WithBcryptCost(bcrypt.MinCost)
	_, err = userUC.Create(ctx, dto.CreateUserRequest{Username: "admin", Password: "admin123", Role: entity.RoleAdmin, StockID: dto.FlexInt(loja.ID)})
	require.NoError(t, err)
	_, err = userUC.Create(ctx, dto.CreateUserRequest{Username: "funcionario", Password: "func123", Role: entity.RoleEmployee, StockID: dto.FlexInt(bar.ID)})
	require.NoError(t, err)

	sessions := session.New(session.Config{
		Expiration:     time.Hour,
		KeyLookup:      "cookie:" + cookieName,
		CookieHTTPOnly: true,
		CookieSameSite: "Lax",
	})

	app := fiber.New()
	app.Use(encryptcookie.New(encryptcookie.Config{Key: config.SessionConfig{Secret: testSecret}.CookieKey()}))
	apphttp.Router(app, apphttp.RouterDeps{
		Sessions:   sessions,
		AuthUC:     auth.NewAuthUseCase(store.Users(), auth.TokenConfig{Secret: testSecret, ExpMinutes: 60, Issuer: "test"}),
		StockUC:    inventory.NewStockUseCase(store, store.Products(), store.Stock(), store.Locations()),
		WithdrawUC: inventory.NewWithdrawUseCase(store),
		HistoryUC:  usecase.NewWithdrawalHistoryUseCase(store.Withdrawals(), nil),
		AlertsUC:   analytics.NewAlertsUseCase(store.Products(), store.Stock(), analytics.AlertsConfig{ExpiryDays: 7, LowStockThreshold: 5}),
		UserUC:     userUC,
		LocationUC: usecase.NewLocationUseCase(store.Locations()),
		BackupUC:   usecase.NewBackupUseCase(store.Stock()),
		PublicDir:  strings.Join(publicDir, ""),
	})
	return &testEnv{app: app, store: store, bar: bar, loja: loja}
}

func (e *testEnv) do(t *testing.T, req *http.Request) *http.Response {
	t.Helper()
	resp, err := e.app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

// login hace POST /login como formulario y devuelve la cookie de sesión (nil si no hubo).
func (e *testEnv) login(t *testing.T, username, password string) (*http.Response, *http.Cookie) {
	t.Helper()
	form := url.Values{"username": {username}, "password": {password}}
	req := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	resp := e.do(t, req)
	for _, c := range resp.Cookies() {
		if c.Name == cookieName && c.Value != "" {
			return resp, c
		}
	}
	return resp, nil
}

func (e *testEnv) mustLogin(t *testing.T, username, password string) *http.Cookie {
	t.Helper()
	_, cookie := e.login(t, username, password)
	require.NotNil(t, cookie, "debe crearse la sesión")
	return cookie
}

func jsonRequest(method, path string, body any, cookie *http.Cookie) *http.Request {
	var r io.Reader
	if body != nil {
		b, _ := json.Marshal(body)
		r = strings.NewReader(string(b))
	}
	req := httptest.NewRequest(method, path, r)
	req.Header.Set("Content-Type", "application/json")
	if cookie != nil {
		req.AddCookie(cookie)
	}
	return req
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	defer resp.Body.Close()
	var out T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

func (e *testEnv) product(t *testing.T, name string, locationID int64, qty int) int64 {
	t.Helper()
	ctx := context.Background()
	p := &entity.Product{Name: name, ExpiresAt: time.Now().AddDate(0, 1, 0)}
	require.NoError(t, e.store.Products().Create(ctx, p))
	_, err := e.store.Stock().Set(ctx, p.ID, locationID, qty)
	require.NoError(t, err)
	return p.ID
}

// ──────────────────────────────────────────────────────────────────────────────
// Sesión
// ──────────────────────────────────────────────────────────────────────────────

func TestLogin_ContraseñaIncorrectaNoCreaSesion(t *testing.T) {
	env := newTestEnv(t)

	resp, cookie := env.login(t, "admin", "errada")

	assert.Equal(t, fiber.StatusFound, resp.StatusCode)
	assert.Equal(t, "/?error=Senha+incorreta", resp.Header.Get("Location"))
	assert.Nil(t, cookie)
}

func TestLogin_UsuarioInexistente(t *testing.T) {
	env := newTestEnv(t)

	resp, cookie := env.login(t, "ninguem", "x")

	assert.Equal(t, "/?error="+url.QueryEscape("Usuário não encontrado"), resp.Header.Get("Location"))
	assert.Nil(t, cookie)
}

func TestLogin_CorrectoFijaRolYLocal(t *testing.T) {
	env := newTestEnv(t)

	resp, cookie := env.login(t, "funcionario", "func123")
	require.NotNil(t, cookie)
	assert.Equal(t, "/employee", resp.Header.Get("Location"))

	me := decode[dto.MeResponse](t, env.do(t, jsonRequest(http.MethodGet, "/api/me", nil, cookie)))
	assert.Equal(t, "funcionario", me.Username)
	assert.Equal(t, entity.RoleEmployee, me.Role)
	assert.Equal(t, env.bar.ID, me.StockID)
	assert.Equal(t, "BAR_PUB", me.Destination)
}

func TestLogout_TerminaLaSesion(t *testing.T) {
	env := newTestEnv(t)
	cookie := env.mustLogin(t, "admin", "admin123")

	req := httptest.NewRequest(http.MethodGet, "/logout", nil)
	req.AddCookie(cookie)
	resp := env.do(t, req)
	assert.Equal(t, fiber.StatusFound, resp.StatusCode)

	resp = env.do(t, jsonRequest(http.MethodGet, "/api/me", nil, cookie))
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestAPI_SinSesion401(t *testing.T) {
	env := newTestEnv(t)

	resp := env.do(t, jsonRequest(http.MethodGet, "/api/products", nil, nil))

	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	body := decode[dto.ErrorResponse](t, resp)
	assert.Equal(t, "UNAUTHORIZED", body.Code)
}

func TestAPI_EmpleadoEnRutaAdmin403(t *testing.T) {
	env := newTestEnv(t)
	cookie := env.mustLogin(t, "funcionario", "func123")

	for _, path := range []string{"/api/alerts", "/api/stocks", "/api/retiradas", "/api/backup"} {
		resp := env.do(t, jsonRequest(http.MethodGet, path, nil, cookie))
		assert.Equal(t, fiber.StatusForbidden, resp.StatusCode, path)
	}
}

func TestAPI_AdminEnRutaEmpleado403(t *testing.T) {
	env := newTestEnv(t)
	cookie := env.mustLogin(t, "admin", "admin123")

	resp := env.do(t, jsonRequest(http.MethodGet, "/api/my-retiradas", nil, cookie))

	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)
}

func TestToken_BearerComoAlternativaALaSesion(t *testing.T) {
	env := newTestEnv(t)
	env.product(t, "Cerveja", env.bar.ID, 4)

	resp := env.do(t, jsonRequest(http.MethodPost, "/api/token", dto.LoginRequest{Username: "funcionario", Password: "func123"}, nil))
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	tok := decode[dto.TokenResponse](t, resp)

	req := jsonRequest(http.MethodGet, "/api/products", nil, nil)
	req.Header.Set("Authorization", "Bearer "+tok.Token)
	list := decode[[]dto.ProductStockResponse](t, env.do(t, req))
	require.Len(t, list, 1)
	assert.Equal(t, "Cerveja", list[0].Nome)

	req = jsonRequest(http.MethodGet, "/api/products", nil, nil)
	req.Header.Set("Authorization", "Bearer nope")
	assert.Equal(t, fiber.StatusUnauthorized, env.do(t, req).StatusCode)
}

// ──────────────────────────────────────────────────────────────────────────────
// Retiradas
// ──────────────────────────────────────────────────────────────────────────────

func TestRetirada_FlujoEmpleado(t *testing.T) {
	env := newTestEnv(t)
	pid := env.product(t, "Cerveja", env.bar.ID, 10)
	cookie := env.mustLogin(t, "funcionario", "func123")

	resp := env.do(t, jsonRequest(http.MethodPost, "/api/retiradas",
		map[string]any{"productId": pid, "quantity": "4", "destination": "BAR_PUB"}, cookie))
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	out := decode[dto.WithdrawResponse](t, resp)
	assert.True(t, out.Success)
	assert.NotZero(t, out.RetiradaID)
	assert.Equal(t, 6, out.QuantidadeRestante)

	resp = env.do(t, jsonRequest(http.MethodPost, "/api/retiradas",
		map[string]any{"productId": pid, "quantity": 7, "destination": "BAR_PUB"}, cookie))
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	errBody := decode[dto.ErrorResponse](t, resp)
	assert.Equal(t, "INSUFFICIENT_STOCK", errBody.Code)
	assert.Equal(t, "saldo insuficiente", errBody.Message)

	own := decode[[]dto.WithdrawalResponse](t, env.do(t, jsonRequest(http.MethodGet, "/api/my-retiradas", nil, cookie)))
	require.Len(t, own, 1)
	assert.Equal(t, 4, own[0].Quantidade)
	assert.Equal(t, "Cerveja", own[0].ProdutoNome)
}

func TestRetirada_EmpleadoOtroLocal403(t *testing.T) {
	env := newTestEnv(t)
	pid := env.product(t, "Água", env.loja.ID, 10)
	cookie := env.mustLogin(t, "funcionario", "func123")

	resp := env.do(t, jsonRequest(http.MethodPost, "/api/retiradas",
		map[string]any{"productId": pid, "quantity": 1, "destination": "BAR_PUB", "stockId": env.loja.ID}, cookie))

	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)
}

func TestRetirada_ProductoFueraDelLocal400(t *testing.T) {
	env := newTestEnv(t)
	pid := env.product(t, "Água", env.loja.ID, 10)
	cookie := env.mustLogin(t, "funcionario", "func123")

	resp := env.do(t, jsonRequest(http.MethodPost, "/api/retiradas",
		map[string]any{"productId": pid, "quantity": 1, "destination": "BAR_PUB"}, cookie))

	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "NOT_IN_STOCK", decode[dto.ErrorResponse](t, resp).Code)
}

// ──────────────────────────────────────────────────────────────────────────────
// Administración
// ──────────────────────────────────────────────────────────────────────────────

func TestProductos_CrearConFormularioYBorrar(t *testing.T) {
	env := newTestEnv(t)
	cookie := env.mustLogin(t, "admin", "admin123")

	form := url.Values{"nome": {"Vinho"}, "validade": {"2025-09-01"}, "quantidade": {"8"}, "stockId": {strconv.FormatInt(env.loja.ID, 10)}}
	req := httptest.NewRequest(http.MethodPost, "/api/products", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.AddCookie(cookie)
	resp := env.do(t, req)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	created := decode[dto.ProductResponse](t, resp)
	assert.Equal(t, "2025-09-01T00:00:00.000Z", created.Validade)

	list := decode[[]dto.ProductStockResponse](t, env.do(t, jsonRequest(http.MethodGet, "/api/products?stockId="+strconv.FormatInt(env.loja.ID, 10), nil, cookie)))
	require.Len(t, list, 1)
	assert.Equal(t, 8, list[0].Quantidade)

	path := "/api/products/" + strconv.FormatInt(created.ID, 10)
	resp = env.do(t, jsonRequest(http.MethodDelete, path, nil, cookie))
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	resp = env.do(t, jsonRequest(http.MethodDelete, path, nil, cookie))
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestAddProductStock_Suma(t *testing.T) {
	env := newTestEnv(t)
	pid := env.product(t, "Gelo", env.bar.ID, 1)
	cookie := env.mustLogin(t, "admin", "admin123")

	body := map[string]any{"productId": pid, "stockId": env.bar.ID, "quantity": 5}
	env.do(t, jsonRequest(http.MethodPost, "/api/add-product-stock", body, cookie))
	out := decode[dto.StockEntryResponse](t, env.do(t, jsonRequest(http.MethodPost, "/api/add-product-stock", body, cookie)))

	assert.Equal(t, 11, out.Quantidade)
}

func TestAddProductStock_CantidadFueraDeRango400(t *testing.T) {
	env := newTestEnv(t)
	pid := env.product(t, "Gelo", env.bar.ID, 5)
	cookie := env.mustLogin(t, "admin", "admin123")

	for _, qty := range []string{"9223372036854775807", "2147483648"} {
		body := map[string]any{"productId": pid, "stockId": env.bar.ID, "quantity": qty}
		resp := env.do(t, jsonRequest(http.MethodPost, "/api/add-product-stock", body, cookie))
		assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode, qty)
		assert.Equal(t, "VALIDATION", decode[dto.ErrorResponse](t, resp).Code, qty)
	}

	body := map[string]any{"productId": pid, "stockId": env.bar.ID, "quantity": "2147483642"}
	out := decode[dto.StockEntryResponse](t, env.do(t, jsonRequest(http.MethodPost, "/api/add-product-stock", body, cookie)))
	assert.Equal(t, 2147483647, out.Quantidade)
}

func TestRetirada_CantidadFueraDeRango400(t *testing.T) {
	env := newTestEnv(t)
	pid := env.product(t, "Cerveja", env.bar.ID, 10)
	cookie := env.mustLogin(t, "funcionario", "func123")

	resp := env.do(t, jsonRequest(http.MethodPost, "/api/retiradas",
		map[string]any{"productId": pid, "quantity": "2147483648", "destination": "BAR_PUB"}, cookie))

	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "VALIDATION", decode[dto.ErrorResponse](t, resp).Code)
}

func TestUsuarios_Duplicado400(t *testing.T) {
	env := newTestEnv(t)
	cookie := env.mustLogin(t, "admin", "admin123")

	body := dto.CreateUserRequest{Username: "funcionario", Password: "123456", Role: entity.RoleAdmin}
	resp := env.do(t, jsonRequest(http.MethodPost, "/api/usuarios", body, cookie))

	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	errBody := decode[dto.ErrorResponse](t, resp)
	assert.Equal(t, "DUPLICATE", errBody.Code)
	assert.Equal(t, "Username já existe.", errBody.Message)
}

func TestAlerts_AdminRecibeAmbasListas(t *testing.T) {
	env := newTestEnv(t)
	env.product(t, "Leite", env.loja.ID, 2)
	cookie := env.mustLogin(t, "admin", "admin123")

	resp := env.do(t, jsonRequest(http.MethodGet, "/api/alerts", nil, cookie))
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	alerts := decode[dto.AlertsResponse](t, resp)

	assert.Empty(t, alerts.AlmostExpiring)
	require.Len(t, alerts.LowStock, 1)
	assert.Equal(t, "Leite", alerts.LowStock[0].Nome)
}

func TestBackup_Adjunto(t *testing.T) {
	env := newTestEnv(t)
	env.product(t, "Leite", env.loja.ID, 2)
	cookie := env.mustLogin(t, "admin", "admin123")

	resp := env.do(t, jsonRequest(http.MethodGet, "/api/backup", nil, cookie))

	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Disposition"), "backup_produtos_")
	rows := decode[[]dto.ProductStockResponse](t, resp)
	assert.Len(t, rows, 1)
}

// ──────────────────────────────────────────────────────────────────────────────
// Páginas
// ──────────────────────────────────────────────────────────────────────────────

func TestPaginas_RedireccionEInyeccionDeSesion(t *testing.T) {
	dir := t.TempDir()
	page := `<html><script id="empStockData" type="application/json"></script></html>`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "employee.html"), []byte(page), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "admin.html"), []byte("<html>admin</html>"), 0o644))
	env := newTestEnv(t, dir)

	resp := env.do(t, httptest.NewRequest(http.MethodGet, "/employee", nil))
	assert.Equal(t, fiber.StatusFound, resp.StatusCode)
	assert.Equal(t, "/", resp.Header.Get("Location"))

	cookie := env.mustLogin(t, "funcionario", "func123")

	req := httptest.NewRequest(http.MethodGet, "/admin", nil)
	req.AddCookie(cookie)
	assert.Equal(t, fiber.StatusForbidden, env.do(t, req).StatusCode)

	req = httptest.NewRequest(http.MethodGet, "/employee", nil)
	req.AddCookie(cookie)
	resp = env.do(t, req)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), `"username":"funcionario"`)
	assert.Contains(t, string(body), `"destination":"BAR_PUB"`)
}
