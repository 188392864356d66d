package http_test

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/invorya/erp-admin-gateway/internal/application/analytics"
	"github.com/invorya/erp-admin-gateway/internal/application/auth"
	"github.com/invorya/erp-admin-gateway/internal/application/controller"
	"github.com/invorya/erp-admin-gateway/internal/application/purchasing"
	"github.com/invorya/erp-admin-gateway/internal/domain/entity"
	"github.com/invorya/erp-admin-gateway/internal/erp"
	"github.com/invorya/erp-admin-gateway/internal/infrastructure/pdf"
	apphttp "github.com/invorya/erp-admin-gateway/internal/interfaces/http"
	"github.com/invorya/erp-admin-gateway/internal/session"
	"github.com/invorya/erp-admin-gateway/pkg/logger"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fake del gateway completo — auth, colecciones y acciones de workflow
// ──────────────────────────────────────────────────────────────────────────────

type fakeGateway struct {
	fakeERP

	listOut   erp.Outcome[erp.CollectionPage]
	deleteOut erp.Outcome[struct{}]
	actionOut erp.Outcome[erp.Record]

	deleteCalls int
	actionCalls int
}

func (f *fakeGateway) ListCollection(_ context.Context, _, _, _ string, _ erp.ListQuery) erp.Outcome[erp.CollectionPage] {
	return f.listOut
}

func (f *fakeGateway) CreateRecord(_ context.Context, _, _ string, rec erp.Record) erp.Outcome[erp.Record] {
	return erp.Success(rec)
}

func (f *fakeGateway) UpdateRecord(_ context.Context, _, _, _ string, rec erp.Record) erp.Outcome[erp.Record] {
	return erp.Success(rec)
}

func (f *fakeGateway) DeleteRecord(_ context.Context, _, _, _ string) erp.Outcome[struct{}] {
	f.deleteCalls++
	return f.deleteOut
}

func (f *fakeGateway) Action(_ context.Context, _, _, _, _ string, _ any) erp.Outcome[erp.Record] {
	f.actionCalls++
	return f.actionOut
}

// routerHarness app Fiber con el router completo sobre el fake.
type routerHarness struct {
	app   *fiber.App
	gw    *fakeGateway
	uc    *auth.UseCase
	store *session.MemoryStore
}

func newRouterHarness(t *testing.T) *routerHarness {
	t.Helper()
	gw := &fakeGateway{
		listOut: erp.Success(erp.CollectionPage{
			Records:    []erp.Record{{"id": "i1", "name": "Tornillo"}},
			Pagination: erp.Pagination{TotalPages: 1, TotalCount: 1},
		}),
		deleteOut: erp.Success(struct{}{}),
		actionOut: erp.Success(erp.Record{"id": "r1", "status": "PENDING"}),
	}
	store := session.NewMemoryStore()
	uc := auth.NewUseCase(gw, store, 60, logger.Nop())

	app := fiber.New()
	apphttp.Router(app, apphttp.RouterDeps{
		Auth:      uc,
		Views:     controller.NewManager(gw, logger.Nop()),
		Approvals: purchasing.NewApprovalUseCase(gw, logger.Nop()),
		Receiving: purchasing.NewReceivingUseCase(gw, logger.Nop()),
		Dashboard: analytics.NewDashboardUseCase(gw, logger.Nop()),
		PDF:       pdf.NewOrderPDFGenerator(),
		Guard: apphttp.GuardDeps{
			Auth:         uc,
			CookieName:   testCookieName,
			CookieSecret: testCookieSecret,
			SignInPath:   testSignInPath,
			DefaultPath:  testDefaultPath,
		},
		TTL: 60,
	})
	return &routerHarness{app: app, gw: gw, uc: uc, store: store}
}

// login ejecuta el POST de login y devuelve la cookie de sesión emitida.
func (h *routerHarness) login(t *testing.T, role entity.Role) *http.Cookie {
	t.Helper()
	user := &entity.User{ID: "u1", Name: "Ana", Email: "ana@acme.com", Role: role, Active: true}
	h.gw.loginOut = erp.Success(erp.AuthResult{Token: "tok-123", User: user})
	h.gw.currentUserOut = erp.Success(user)

	req := httptest.NewRequest(http.MethodPost, "/api/auth/login",
		strings.NewReader(`{"email":"ana@acme.com","password":"secreto"}`))
	req.Header.Set("Content-Type", "application/json")
	resp, err := h.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	for _, c := range resp.Cookies() {
		if c.Name == testCookieName && c.Value != "" {
			return c
		}
	}
	t.Fatal("el login no emitió la cookie de sesión")
	return nil
}

func (h *routerHarness) do(t *testing.T, method, path string, cookie *http.Cookie, body string) *http.Response {
	t.Helper()
	var rd io.Reader
	if body != "" {
		rd = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, rd)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if cookie != nil {
		req.AddCookie(cookie)
	}
	resp, err := h.app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests Login / Me — el token bearer nunca llega al navegador
// ──────────────────────────────────────────────────────────────────────────────

func TestLogin_EmiteCookieSinExponerElToken(t *testing.T) {
	h := newRouterHarness(t)
	cookie := h.login(t, entity.RoleUser)

	resp := h.do(t, http.MethodGet, "/api/auth/me", cookie, "")
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)
	body, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(body), "ana@acme.com")
	assert.NotContains(t, string(body), "tok-123",
		"el token bearer del ERP no debe viajar al navegador")
	assert.NotContains(t, cookie.Value, "tok-123")
}

func TestLogin_CredencialesMalas_401SinCookie(t *testing.T) {
	h := newRouterHarness(t)
	h.gw.loginOut = erp.Failure[erp.AuthResult](erp.FailUnauthorized, "Incorrect email or password")

	resp := h.do(t, http.MethodPost, "/api/auth/login", nil, `{"email":"a@b.c","password":"mala"}`)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	body, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(body), "Incorrect email or password", "el mensaje del ERP se muestra textual")
}

func TestMe_SinSesion_Redirige(t *testing.T) {
	h := newRouterHarness(t)

	resp := h.do(t, http.MethodGet, "/api/auth/me", nil, "")
	defer resp.Body.Close()

	assert.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, testSignInPath, resp.Header.Get("Location"))
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests Logout — reset duro e idempotente
// ──────────────────────────────────────────────────────────────────────────────

func TestLogout_DestruyeLaSesionYRedirige(t *testing.T) {
	h := newRouterHarness(t)
	cookie := h.login(t, entity.RoleUser)

	resp := h.do(t, http.MethodPost, "/api/auth/logout", cookie, "")
	defer resp.Body.Close()

	assert.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, testSignInPath, resp.Header.Get("Location"))

	// La misma cookie ya no abre nada.
	again := h.do(t, http.MethodGet, "/api/auth/me", cookie, "")
	defer again.Body.Close()
	assert.Equal(t, http.StatusSeeOther, again.StatusCode)
}

func TestLogout_SinSesion_MismoResultado(t *testing.T) {
	h := newRouterHarness(t)

	resp := h.do(t, http.MethodPost, "/api/auth/logout", nil, "")
	defer resp.Body.Close()

	assert.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, testSignInPath, resp.Header.Get("Location"))
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests de pantallas CRUD
// ──────────────────────────────────────────────────────────────────────────────

func TestList_DevuelveElEstadoDeVista(t *testing.T) {
	h := newRouterHarness(t)
	cookie := h.login(t, entity.RoleUser)

	resp := h.do(t, http.MethodGet, "/app/items?page=1&limit=20", cookie, "")
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)
	body, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(body), "Tornillo")
	assert.Contains(t, string(body), `"totalCount":1`)
}

func TestList_PantallaDesconocida_404(t *testing.T) {
	h := newRouterHarness(t)
	cookie := h.login(t, entity.RoleUser)

	resp := h.do(t, http.MethodGet, "/app/no-existe", cookie, "")
	defer resp.Body.Close()

	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestDelete_SinConfirmar_400SinLlamadaUpstream(t *testing.T) {
	h := newRouterHarness(t)
	cookie := h.login(t, entity.RoleUser)

	resp := h.do(t, http.MethodDelete, "/app/items/i1", cookie, "")
	defer resp.Body.Close()

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	body, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(body), "CONFIRM_REQUIRED")
	assert.Equal(t, 0, h.gw.deleteCalls, "declinar la confirmación no debe emitir el DELETE")
}

func TestDelete_Confirmado_EliminaYRetiraLaFila(t *testing.T) {
	h := newRouterHarness(t)
	cookie := h.login(t, entity.RoleUser)
	// Carga previa para tener la fila en el estado de vista.
	h.do(t, http.MethodGet, "/app/items", cookie, "").Body.Close()

	resp := h.do(t, http.MethodDelete, "/app/items/i1?confirm=true", cookie, "")
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, 1, h.gw.deleteCalls)
	body, _ := io.ReadAll(resp.Body)
	assert.NotContains(t, string(body), "Tornillo", "la fila eliminada sale de la vista de inmediato")
}

func TestPantallaRestringida_RolInsuficienteRedirigeAlDashboard(t *testing.T) {
	h := newRouterHarness(t)
	cookie := h.login(t, entity.RoleUser)

	// "users" exige ADMIN en el registro de pantallas.
	resp := h.do(t, http.MethodGet, "/app/users", cookie, "")
	defer resp.Body.Close()

	assert.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, testDefaultPath, resp.Header.Get("Location"))
}

func TestExport_DescargaXLSX(t *testing.T) {
	h := newRouterHarness(t)
	cookie := h.login(t, entity.RoleUser)
	h.do(t, http.MethodGet, "/app/items", cookie, "").Body.Close()

	resp := h.do(t, http.MethodGet, "/app/items/export", cookie, "")
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
		resp.Header.Get("Content-Type"))
	assert.Contains(t, resp.Header.Get("Content-Disposition"), "items.xlsx")
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests de workflow de compras vía HTTP
// ──────────────────────────────────────────────────────────────────────────────

func TestSubmit_SolicitudDraft(t *testing.T) {
	h := newRouterHarness(t)
	cookie := h.login(t, entity.RoleUser)

	resp := h.do(t, http.MethodPost, "/app/purchase-requests/r1/submit", cookie,
		`{"currentStatus":"DRAFT"}`)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, 1, h.gw.actionCalls)
}

func TestApprove_UsuarioSinRol_403(t *testing.T) {
	h := newRouterHarness(t)
	cookie := h.login(t, entity.RoleUser)

	resp := h.do(t, http.MethodPost, "/app/purchase-requests/r1/approve", cookie,
		`{"currentStatus":"PENDING"}`)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	assert.Equal(t, 0, h.gw.actionCalls)
}

func TestApprove_Manager_200(t *testing.T) {
	h := newRouterHarness(t)
	cookie := h.login(t, entity.RoleManager)

	resp := h.do(t, http.MethodPost, "/app/purchase-requests/r1/approve", cookie,
		`{"currentStatus":"PENDING","comment":"ok"}`)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, 1, h.gw.actionCalls)
}

func TestApprove_SinCurrentStatus_400ConMensajeDeValidacion(t *testing.T) {
	h := newRouterHarness(t)
	cookie := h.login(t, entity.RoleManager)

	// Cuerpo sin currentStatus: el handler debe cortar en la validación del
	// cuerpo, no seguir y responder con un fallo de transición engañoso.
	resp := h.do(t, http.MethodPost, "/app/purchase-requests/r1/approve", cookie,
		`{"comment":"ok"}`)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	body, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(body), "currentStatus es requerido")
	assert.NotContains(t, string(body), "estado actual")
	assert.Equal(t, 0, h.gw.actionCalls)
}

func TestRegisterReceipt_Conciliacion(t *testing.T) {
	h := newRouterHarness(t)
	cookie := h.login(t, entity.RoleUser)

	resp := h.do(t, http.MethodPost, "/app/purchase-orders/o1/receipts", cookie, `{
		"warehouse": "W01",
		"order": [{"itemId": "i1", "itemName": "Tornillo", "ordered": "10", "received": "0"}],
		"incoming": [{"itemId": "i1", "quantity": "10"}]
	}`)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)
	body, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(body), `"complete":true`)
	assert.Contains(t, string(body), `"status":"CLOSED"`)
}

func TestOrderPDF_DevuelveUnDocumento(t *testing.T) {
	h := newRouterHarness(t)
	cookie := h.login(t, entity.RoleUser)

	resp := h.do(t, http.MethodPost, "/app/purchase-orders/o1/pdf", cookie, `{
		"number": "OC-001",
		"companyName": "ACME",
		"supplierName": "Proveedor SA",
		"lines": [{"itemName": "Tornillo", "quantity": "100", "unitPrice": "1.50"}]
	}`)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/pdf", resp.Header.Get("Content-Type"))
	body, _ := io.ReadAll(resp.Body)
	assert.True(t, len(body) > 0)
	assert.Equal(t, "%PDF", string(body[:4]))
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests del tablero
// ──────────────────────────────────────────────────────────────────────────────

func TestDashboard_DevuelveElResumen(t *testing.T) {
	h := newRouterHarness(t)
	cookie := h.login(t, entity.RoleUser)

	resp := h.do(t, http.MethodGet, "/app/dashboard", cookie, "")
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)
	body, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(body), `"pendingRequests":1`)
}
