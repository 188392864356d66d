package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"

	"github.com/invorya/erp-admin-gateway/internal/application/auth"
	"github.com/invorya/erp-admin-gateway/internal/application/dto"
	"github.com/invorya/erp-admin-gateway/internal/application/purchasing"
	"github.com/invorya/erp-admin-gateway/internal/domain/entity"
	"github.com/invorya/erp-admin-gateway/internal/infrastructure/pdf"
)

// PurchasingHandler acciones de workflow de compras: enviar/aprobar/rechazar
// solicitudes, registrar recepciones contra órdenes e imprimir órdenes.
type PurchasingHandler struct {
	approvals *purchasing.ApprovalUseCase
	receiving *purchasing.ReceivingUseCase
	pdfGen    *pdf.OrderPDFGenerator
	uc        *auth.UseCase
}

// NewPurchasingHandler construye el handler de compras.
func NewPurchasingHandler(approvals *purchasing.ApprovalUseCase, receiving *purchasing.ReceivingUseCase, pdfGen *pdf.OrderPDFGenerator, uc *auth.UseCase) *PurchasingHandler {
	return &PurchasingHandler{approvals: approvals, receiving: receiving, pdfGen: pdfGen, uc: uc}
}

// actionRequest cuerpo común de las acciones de workflow. El estado actual lo
// aporta la pantalla (es el que el usuario tiene a la vista); el ERP vuelve a
// validar del lado servidor.
type actionRequest struct {
	CurrentStatus string `json:"currentStatus"`
	Comment       string `json:"comment,omitempty"`
}

// Submit envía una solicitud DRAFT a aprobación.
func (h *PurchasingHandler) Submit(c *fiber.Ctx) error {
	in, id, err := h.parseAction(c)
	if in == nil {
		return err
	}
	out := h.approvals.Submit(c.Context(), h.token(c), id, purchasing.RequestStatus(in.CurrentStatus))
	if !out.OK {
		return failJSON(c, out.Kind, out.Message)
	}
	return c.JSON(out.Value)
}

// Approve aprueba una solicitud PENDING (MANAGER o superior).
func (h *PurchasingHandler) Approve(c *fiber.Ctx) error {
	in, id, err := h.parseAction(c)
	if in == nil {
		return err
	}
	out := h.approvals.Approve(c.Context(), h.token(c), id, purchasing.RequestStatus(in.CurrentStatus), actorRole(c), in.Comment)
	if !out.OK {
		return failJSON(c, out.Kind, out.Message)
	}
	return c.JSON(out.Value)
}

// Reject rechaza una solicitud PENDING con comentario obligatorio.
func (h *PurchasingHandler) Reject(c *fiber.Ctx) error {
	in, id, err := h.parseAction(c)
	if in == nil {
		return err
	}
	out := h.approvals.Reject(c.Context(), h.token(c), id, purchasing.RequestStatus(in.CurrentStatus), actorRole(c), in.Comment)
	if !out.OK {
		return failJSON(c, out.Kind, out.Message)
	}
	return c.JSON(out.Value)
}

// ConvertToOrder convierte una solicitud APPROVED en orden de compra.
func (h *PurchasingHandler) ConvertToOrder(c *fiber.Ctx) error {
	in, id, err := h.parseAction(c)
	if in == nil {
		return err
	}
	out := h.approvals.ConvertToOrder(c.Context(), h.token(c), id, purchasing.RequestStatus(in.CurrentStatus), actorRole(c))
	if !out.OK {
		return failJSON(c, out.Kind, out.Message)
	}
	return c.JSON(out.Value)
}

// receiptRequest cuerpo del registro de una recepción: las líneas de la orden
// tal como la pantalla las muestra más lo que llegó.
type receiptRequest struct {
	Warehouse string                    `json:"warehouse"`
	Order     []purchasing.OrderLine    `json:"order"`
	Incoming  []purchasing.IncomingLine `json:"incoming"`
}

// RegisterReceipt concilia cantidades y registra la recepción en el ERP.
func (h *PurchasingHandler) RegisterReceipt(c *fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "MISSING_ID", Message: "id es requerido"})
	}
	var in receiptRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	out := h.receiving.Register(c.Context(), h.token(c), id, in.Warehouse, in.Order, in.Incoming)
	if !out.OK {
		return failJSON(c, out.Kind, out.Message)
	}
	return c.JSON(out.Value)
}

// orderPDFRequest datos de la orden a imprimir, aportados por la pantalla.
type orderPDFRequest struct {
	Number       string `json:"number"`
	CompanyName  string `json:"companyName"`
	SupplierName string `json:"supplierName"`
	SupplierTax  string `json:"supplierTax,omitempty"`
	OrderedAt    string `json:"orderedAt"` // RFC 3339; vacío = hoy
	Lines        []struct {
		ItemName  string          `json:"itemName"`
		Quantity  decimal.Decimal `json:"quantity"`
		UnitPrice decimal.Decimal `json:"unitPrice"`
	} `json:"lines"`
}

// OrderPDF genera la representación imprimible de la orden.
func (h *PurchasingHandler) OrderPDF(c *fiber.Ctx) error {
	var in orderPDFRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if in.Number == "" || len(in.Lines) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "number y al menos una línea son requeridos"})
	}

	orderedAt := time.Now()
	if in.OrderedAt != "" {
		if t, err := time.Parse(time.RFC3339, in.OrderedAt); err == nil {
			orderedAt = t
		}
	}

	order := pdf.PurchaseOrder{
		Number:       in.Number,
		CompanyName:  in.CompanyName,
		SupplierName: in.SupplierName,
		SupplierTax:  in.SupplierTax,
		OrderedAt:    orderedAt,
	}
	total := decimal.Zero
	for _, l := range in.Lines {
		subtotal := l.Quantity.Mul(l.UnitPrice)
		total = total.Add(subtotal)
		order.Lines = append(order.Lines, pdf.PurchaseOrderLine{
			ItemName:  l.ItemName,
			Quantity:  l.Quantity,
			UnitPrice: l.UnitPrice,
			Subtotal:  subtotal,
		})
	}
	order.Total = total

	doc, err := h.pdfGen.Generate(order)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "PDF_FAILED", Message: err.Error()})
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="orden-`+in.Number+`.pdf"`)
	return c.Send(doc)
}

// parseAction valida el cuerpo común de las acciones de workflow. Un in nil
// indica que la respuesta 400 ya quedó escrita y el handler debe cortar ahí
// (misma convención que resolve en el handler de pantallas: el centinela es
// el puntero, no el error de escribir en el ctx).
func (h *PurchasingHandler) parseAction(c *fiber.Ctx) (*actionRequest, string, error) {
	id := c.Params("id")
	if id == "" {
		return nil, "", c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "MISSING_ID", Message: "id es requerido"})
	}
	var in actionRequest
	if err := c.BodyParser(&in); err != nil {
		return nil, "", c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if in.CurrentStatus == "" {
		return nil, "", c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "currentStatus es requerido"})
	}
	return &in, id, nil
}

func (h *PurchasingHandler) token(c *fiber.Ctx) string {
	return h.uc.Token(c.Context(), SessionID(c))
}

func actorRole(c *fiber.Ctx) entity.Role {
	if u := CurrentUser(c); u != nil {
		return u.Role
	}
	return ""
}
