package http

import (
	"bytes"

	"github.com/gofiber/fiber/v2"

	"github.com/invorya/erp-admin-gateway/internal/application/auth"
	"github.com/invorya/erp-admin-gateway/internal/application/controller"
	"github.com/invorya/erp-admin-gateway/internal/application/dto"
	"github.com/invorya/erp-admin-gateway/internal/erp"
	"github.com/invorya/erp-admin-gateway/internal/infrastructure/excel"
)

// ResourceHandler expone, con un solo juego de handlers, todas las pantallas
// CRUD registradas: /app/:resource para listar/crear, /app/:resource/:id para
// editar/eliminar y /app/:resource/export para descargar la tabla visible.
type ResourceHandler struct {
	views *controller.Manager
	uc    *auth.UseCase
	deps  GuardDeps
}

// NewResourceHandler construye el handler genérico de pantallas.
func NewResourceHandler(views *controller.Manager, uc *auth.UseCase, deps GuardDeps) *ResourceHandler {
	return &ResourceHandler{views: views, uc: uc, deps: deps}
}

// resolve ubica la pantalla y su controller para la sesión, y aplica el rol
// mínimo de la pantalla (rol insuficiente redirige dentro de la app).
func (h *ResourceHandler) resolve(c *fiber.Ctx) (*controller.PageController, controller.Resource, error) {
	name := c.Params("resource")
	res, ok := h.views.Resource(name)
	if !ok {
		return nil, res, c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "pantalla desconocida: " + name})
	}
	if res.MinRole != "" {
		user := CurrentUser(c)
		if user == nil || !user.Role.AtLeast(res.MinRole) {
			return nil, res, c.Redirect(h.deps.DefaultPath, fiber.StatusSeeOther)
		}
	}
	pc, err := h.views.Controller(SessionID(c), name)
	if err != nil {
		return nil, res, c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: err.Error()})
	}
	return pc, res, nil
}

// List trae la página pedida y devuelve el estado de vista completo: filas ya
// filtradas, total reportado por el ERP y el último error si lo hubo (con las
// filas previas intactas: datos viejos visibles le ganan a una tabla vacía).
func (h *ResourceHandler) List(c *fiber.Ctx) error {
	pc, res, err := h.resolve(c)
	if pc == nil {
		return err
	}
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_QUERY", Message: "parámetros de paginación inválidos"})
	}
	page.DefaultPage()

	filters := make(map[string]string, len(res.FilterParams))
	for _, p := range res.FilterParams {
		if v := c.Query(p); v != "" {
			filters[p] = v
		}
	}

	state := pc.Load(c.Context(), h.token(c), controller.ListInput{
		Page:    page.Page,
		Limit:   page.Limit,
		Search:  c.Query("search"),
		Filters: filters,
	})
	return c.JSON(state)
}

// Create envía el registro completo y devuelve el listado re-consultado.
func (h *ResourceHandler) Create(c *fiber.Ctx) error {
	pc, _, err := h.resolve(c)
	if pc == nil {
		return err
	}
	var rec erp.Record
	if err := c.BodyParser(&rec); err != nil || len(rec) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	out := pc.Create(c.Context(), h.token(c), rec)
	if !out.OK {
		return failJSON(c, out.Kind, out.Message)
	}
	return c.Status(fiber.StatusCreated).JSON(out.Value)
}

// Update envía el registro editado completo bajo /:id.
func (h *ResourceHandler) Update(c *fiber.Ctx) error {
	pc, _, err := h.resolve(c)
	if pc == nil {
		return err
	}
	id := c.Params("id")
	if id == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "MISSING_ID", Message: "id es requerido"})
	}
	var rec erp.Record
	if err := c.BodyParser(&rec); err != nil || len(rec) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	out := pc.Update(c.Context(), h.token(c), id, rec)
	if !out.OK {
		return failJSON(c, out.Kind, out.Message)
	}
	return c.JSON(out.Value)
}

// Delete exige ?confirm=true: la confirmación declinada no emite ninguna
// llamada DELETE y la fila sigue en la lista.
func (h *ResourceHandler) Delete(c *fiber.Ctx) error {
	pc, _, err := h.resolve(c)
	if pc == nil {
		return err
	}
	id := c.Params("id")
	if id == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "MISSING_ID", Message: "id es requerido"})
	}
	confirmed := c.QueryBool("confirm")
	if !confirmed {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "CONFIRM_REQUIRED", Message: "la eliminación requiere confirmación explícita"})
	}
	out := pc.Delete(c.Context(), h.token(c), id, confirmed)
	if !out.OK {
		return failJSON(c, out.Kind, out.Message)
	}
	return c.JSON(out.Value)
}

// Export descarga como xlsx lo que la tabla muestra en este momento (la
// página actual ya filtrada), sin tocar la red.
func (h *ResourceHandler) Export(c *fiber.Ctx) error {
	pc, res, err := h.resolve(c)
	if pc == nil {
		return err
	}
	state := pc.State()

	var buf bytes.Buffer
	if err := excel.Export(&buf, res.Name, res.ExportColumns, state.Rows); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "EXPORT_FAILED", Message: err.Error()})
	}
	c.Set(fiber.HeaderContentType, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+res.Name+`.xlsx"`)
	return c.Send(buf.Bytes())
}

func (h *ResourceHandler) token(c *fiber.Ctx) string {
	return h.uc.Token(c.Context(), SessionID(c))
}
