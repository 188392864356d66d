package erp_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/invorya/erp-admin-gateway/internal/erp"
	"github.com/invorya/erp-admin-gateway/pkg/config"
	"github.com/invorya/erp-admin-gateway/pkg/logger"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

// newTestClient construye un cliente apuntando a un servidor de prueba que
// responde con el status y cuerpo indicados, contando las peticiones.
func newTestClient(t *testing.T, status int, body string) (*erp.Client, *atomic.Int64) {
	t.Helper()
	var calls atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return erp.NewClient(config.ERPConfig{BaseURL: srv.URL}, logger.Nop()), &calls
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests Login — clasificación del sobre de respuesta
// ──────────────────────────────────────────────────────────────────────────────

func TestLogin_ExitoDevuelveTokenYUsuario(t *testing.T) {
	c, _ := newTestClient(t, http.StatusOK, `{
		"status": "success",
		"token": "tok-123",
		"data": {"user": {"id": "u1", "name": "Ana", "email": "ana@acme.com", "role": "ADMIN"}}
	}`)

	out := c.Login(context.Background(), "ana@acme.com", "secreto")
	require.True(t, out.OK, "login 2xx con token debe ser éxito")
	assert.Equal(t, "tok-123", out.Value.Token)
	require.NotNil(t, out.Value.User)
	assert.Equal(t, "Ana", out.Value.User.Name)
}

func TestLogin_CredencialesMalas_FailUnauthorized(t *testing.T) {
	c, _ := newTestClient(t, http.StatusUnauthorized, `{"status":"fail","message":"Incorrect email or password"}`)

	out := c.Login(context.Background(), "ana@acme.com", "mala")
	require.False(t, out.OK)
	assert.Equal(t, erp.FailUnauthorized, out.Kind)
	// El mensaje del servidor se conserva textual para mostrarlo al usuario.
	assert.Equal(t, "Incorrect email or password", out.Message)
}

func TestLogin_DosXXSinToken_FailServer(t *testing.T) {
	// Un 2xx sin token es un sobre malformado: no hay sesión que crear.
	c, _ := newTestClient(t, http.StatusOK, `{"status":"success","data":{}}`)

	out := c.Login(context.Background(), "ana@acme.com", "secreto")
	require.False(t, out.OK)
	assert.Equal(t, erp.FailServer, out.Kind)
}

func TestLogin_ServidorCaido_FailTransport(t *testing.T) {
	// URL a un puerto cerrado: error de transporte, mensaje genérico.
	c := erp.NewClient(config.ERPConfig{BaseURL: "http://127.0.0.1:1", TimeoutSeconds: 1}, logger.Nop())

	out := c.Login(context.Background(), "ana@acme.com", "secreto")
	require.False(t, out.OK)
	assert.Equal(t, erp.FailTransport, out.Kind)
	assert.NotEmpty(t, out.Message)
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests CurrentUser
// ──────────────────────────────────────────────────────────────────────────────

func TestCurrentUser_SinToken_CeroLlamadasDeRed(t *testing.T) {
	c, calls := newTestClient(t, http.StatusOK, `{}`)

	out := c.CurrentUser(context.Background(), "")
	require.False(t, out.OK)
	assert.Equal(t, erp.FailUnauthorized, out.Kind)
	assert.Equal(t, int64(0), calls.Load(), "sin token no debe haber ninguna petición")
}

func TestCurrentUser_TokenValido_DevuelvePerfil(t *testing.T) {
	c, calls := newTestClient(t, http.StatusOK, `{
		"status": "success",
		"data": {"user": {"id": "u1", "name": "Ana", "email": "ana@acme.com", "role": "MANAGER"}}
	}`)

	out := c.CurrentUser(context.Background(), "tok-123")
	require.True(t, out.OK)
	assert.Equal(t, "u1", out.Value.ID)
	assert.Equal(t, int64(1), calls.Load())
}

func TestCurrentUser_TokenRechazado_FailUnauthorized(t *testing.T) {
	c, _ := newTestClient(t, http.StatusUnauthorized, `{"status":"fail","message":"jwt expired"}`)

	out := c.CurrentUser(context.Background(), "tok-vencido")
	require.False(t, out.OK)
	assert.Equal(t, erp.FailUnauthorized, out.Kind)
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests de clasificación genérica — 4xx textual, 403, 5xx
// ──────────────────────────────────────────────────────────────────────────────

func TestCreateRecord_BadRequest_MensajeTextual(t *testing.T) {
	c, _ := newTestClient(t, http.StatusBadRequest, `{"status":"fail","message":"El campo sku es obligatorio"}`)

	out := c.CreateRecord(context.Background(), "tok", "/api/items", erp.Record{"name": "Tornillo"})
	require.False(t, out.OK)
	assert.Equal(t, erp.FailValidation, out.Kind)
	assert.Equal(t, "El campo sku es obligatorio", out.Message)
}

func TestDeleteRecord_Forbidden(t *testing.T) {
	c, _ := newTestClient(t, http.StatusForbidden, `{"status":"fail","message":"solo ADMIN puede eliminar"}`)

	out := c.DeleteRecord(context.Background(), "tok", "/api/users", "u9")
	require.False(t, out.OK)
	assert.Equal(t, erp.FailForbidden, out.Kind)
}

func TestListCollection_ErrorInterno_FailServer(t *testing.T) {
	c, _ := newTestClient(t, http.StatusInternalServerError, `oops`)

	out := c.ListCollection(context.Background(), "tok", "/api/items", "items", erp.ListQuery{Page: 1})
	require.False(t, out.OK)
	assert.Equal(t, erp.FailServer, out.Kind)
	assert.NotEmpty(t, out.Message, "el fallo de servidor lleva mensaje genérico para el usuario")
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests ListCollection — decodificación de la página
// ──────────────────────────────────────────────────────────────────────────────

func TestListCollection_DecodificaRegistrosYPaginacion(t *testing.T) {
	c, _ := newTestClient(t, http.StatusOK, `{
		"status": "success",
		"data": {
			"items": [{"id": "i1", "name": "Tornillo"}, {"id": "i2", "name": "Tuerca"}],
			"pagination": {"totalPages": 5, "totalCount": 98}
		}
	}`)

	out := c.ListCollection(context.Background(), "tok", "/api/items", "items", erp.ListQuery{Page: 1, Limit: 20})
	require.True(t, out.OK)
	assert.Len(t, out.Value.Records, 2)
	assert.Equal(t, 5, out.Value.Pagination.TotalPages)
	assert.Equal(t, 98, out.Value.Pagination.TotalCount)
}

func TestListCollection_ColeccionAusente_PaginaVacia(t *testing.T) {
	c, _ := newTestClient(t, http.StatusOK, `{"status":"success","data":{"pagination":{"totalPages":0,"totalCount":0}}}`)

	out := c.ListCollection(context.Background(), "tok", "/api/items", "items", erp.ListQuery{})
	require.True(t, out.OK)
	assert.Empty(t, out.Value.Records)
}

func TestListCollection_EnviaParametrosDeConsulta(t *testing.T) {
	var got string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.URL.RawQuery
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":"success","data":{"items":[]}}`))
	}))
	defer srv.Close()
	c := erp.NewClient(config.ERPConfig{BaseURL: srv.URL}, logger.Nop())

	out := c.ListCollection(context.Background(), "tok", "/api/items", "items", erp.ListQuery{
		Page:    2,
		Limit:   50,
		Search:  "tornillo",
		Filters: map[string]string{"status": "ACTIVE"},
	})
	require.True(t, out.OK)
	assert.Contains(t, got, "page=2")
	assert.Contains(t, got, "limit=50")
	assert.Contains(t, got, "search=tornillo")
	assert.Contains(t, got, "status=ACTIVE")
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests Action — sub-rutas de workflow
// ──────────────────────────────────────────────────────────────────────────────

func TestAction_ConstruyeLaSubRuta(t *testing.T) {
	var gotPath, gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":"success","data":{"request":{"id":"r1","status":"APPROVED"}}}`))
	}))
	defer srv.Close()
	c := erp.NewClient(config.ERPConfig{BaseURL: srv.URL}, logger.Nop())

	out := c.Action(context.Background(), "tok-123", "/api/purchase-requests", "r1", "approve", nil)
	require.True(t, out.OK)
	assert.Equal(t, "/api/purchase-requests/r1/approve", gotPath)
	assert.Equal(t, "Bearer tok-123", gotAuth)
	// decodeRecord desanida {data:{request:{...}}}.
	assert.Equal(t, "APPROVED", out.Value["status"])
}
