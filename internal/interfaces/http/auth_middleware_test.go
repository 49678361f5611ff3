package http_test

import (
	"encoding/json"
	"io"
	gohttp "net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vetorya/clinica-api/internal/application/dto"
	"github.com/vetorya/clinica-api/internal/domain/authz"
	apphttp "github.com/vetorya/clinica-api/internal/interfaces/http"
	"github.com/vetorya/clinica-api/pkg/jwt"
)

const testSecret = "secreto-de-pruebas"

// buildAuthApp monta una app mínima con el middleware de auth y una ruta
// protegida por permiso, igual que lo hace el router real.
func buildAuthApp() *fiber.App {
	app := fiber.New()
	protected := app.Group("/", apphttp.AuthMiddleware(testSecret))
	protected.Get("/whoami", func(c *fiber.Ctx) error {
		roles := apphttp.GetRoles(c)
		names := make([]string, 0, len(roles))
		for _, r := range roles {
			names = append(names, string(r))
		}
		return c.JSON(fiber.Map{
			"user_id":   apphttp.GetUserID(c),
			"clinic_id": apphttp.GetClinicID(c),
			"roles":     names,
		})
	})
	protected.Post("/invoices",
		apphttp.RequirePermission(authz.ResourceInvoices, authz.ActionCreate),
		func(c *fiber.Ctx) error { return c.SendStatus(fiber.StatusCreated) })
	protected.Post("/stock",
		apphttp.RequirePermission(authz.ResourceStock, authz.ActionCreate),
		func(c *fiber.Ctx) error { return c.SendStatus(fiber.StatusCreated) })
	return app
}

func tokenFor(t *testing.T, roles string) string {
	t.Helper()
	token, err := jwt.Generate(testSecret, "user-1", "clinic-1", roles, "clinica-api", 15)
	require.NoError(t, err)
	return token
}

func doRequest(t *testing.T, app *fiber.App, method, path, token string) *gohttp.Response {
	t.Helper()
	req := httptest.NewRequest(method, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func decodeError(t *testing.T, resp *gohttp.Response) dto.ErrorResponse {
	t.Helper()
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var out dto.ErrorResponse
	require.NoError(t, json.Unmarshal(body, &out))
	return out
}

// ════════════════════════════════════════════════════════════════════════════
// AuthMiddleware
// ════════════════════════════════════════════════════════════════════════════

func TestAuthMiddleware_ExtraeIdentidadYRoles(t *testing.T) {
	app := buildAuthApp()

	resp := doRequest(t, app, "GET", "/whoami", tokenFor(t, "vet,stock_manager"))
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var got struct {
		UserID   string   `json:"user_id"`
		ClinicID string   `json:"clinic_id"`
		Roles    []string `json:"roles"`
	}
	require.NoError(t, json.Unmarshal(body, &got))
	assert.Equal(t, "user-1", got.UserID)
	assert.Equal(t, "clinic-1", got.ClinicID)
	assert.Equal(t, []string{"vet", "stock_manager"}, got.Roles)
}

func TestAuthMiddleware_SinHeader(t *testing.T) {
	app := buildAuthApp()

	resp := doRequest(t, app, "GET", "/whoami", "")
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "MISSING_TOKEN", decodeError(t, resp).Code)
}

func TestAuthMiddleware_TokenInvalido(t *testing.T) {
	app := buildAuthApp()

	resp := doRequest(t, app, "GET", "/whoami", "no-es-un-jwt")
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "INVALID_TOKEN", decodeError(t, resp).Code)
}

func TestAuthMiddleware_FirmaIncorrecta(t *testing.T) {
	app := buildAuthApp()

	otro, err := jwt.Generate("otro-secreto", "user-1", "clinic-1", "owner", "clinica-api", 15)
	require.NoError(t, err)

	resp := doRequest(t, app, "GET", "/whoami", otro)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "INVALID_TOKEN", decodeError(t, resp).Code)
}

func TestAuthMiddleware_TokenExpirado(t *testing.T) {
	app := buildAuthApp()

	expirado, err := jwt.Generate(testSecret, "user-1", "clinic-1", "owner", "clinica-api", -5)
	require.NoError(t, err)

	resp := doRequest(t, app, "GET", "/whoami", expirado)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

// ════════════════════════════════════════════════════════════════════════════
// RequirePermission
// ════════════════════════════════════════════════════════════════════════════

func TestRequirePermission_PermiteYDeniega(t *testing.T) {
	app := buildAuthApp()

	// vet puede crear facturas pero no mover stock.
	resp := doRequest(t, app, "POST", "/invoices", tokenFor(t, "vet"))
	assert.Equal(t, fiber.StatusCreated, resp.StatusCode)

	resp = doRequest(t, app, "POST", "/stock", tokenFor(t, "vet"))
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)
	assert.Equal(t, "FORBIDDEN", decodeError(t, resp).Code)
}

// Varios roles en el token: los permisos son la unión de cada rol.
func TestRequirePermission_UnionDeRoles(t *testing.T) {
	app := buildAuthApp()

	// assistant solo no puede ni facturar ni mover stock.
	resp := doRequest(t, app, "POST", "/invoices", tokenFor(t, "assistant"))
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)
	resp = doRequest(t, app, "POST", "/stock", tokenFor(t, "assistant"))
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)

	// assistant + stock_manager habilita stock, facturar sigue vetado.
	resp = doRequest(t, app, "POST", "/stock", tokenFor(t, "assistant,stock_manager"))
	assert.Equal(t, fiber.StatusCreated, resp.StatusCode)
	resp = doRequest(t, app, "POST", "/invoices", tokenFor(t, "assistant,stock_manager"))
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)
}

// Un claim de roles vacío cae al rol por defecto (assistant): solo lectura.
func TestRequirePermission_ClaimVacioUsaDefault(t *testing.T) {
	app := buildAuthApp()

	resp := doRequest(t, app, "POST", "/invoices", tokenFor(t, ""))
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)
}

// Round-trip del paquete jwt: lo que se firma es lo que se lee.
func TestJWT_RoundTrip(t *testing.T) {
	token, err := jwt.Generate(testSecret, "user-9", "clinic-9", "owner", "clinica-api", 60)
	require.NoError(t, err)

	userID, clinicID, roles, err := jwt.Parse(testSecret, token)
	require.NoError(t, err)
	assert.Equal(t, "user-9", userID)
	assert.Equal(t, "clinic-9", clinicID)
	assert.Equal(t, "owner", roles)
}
