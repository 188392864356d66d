package purchasing

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/invorya/erp-admin-gateway/internal/domain"
	"github.com/invorya/erp-admin-gateway/internal/erp"
	"github.com/invorya/erp-admin-gateway/pkg/logger"
)

// LineStatus estado derivado de una línea de orden tras una recepción.
type LineStatus string

const (
	LineOpen    LineStatus = "OPEN"    // nada recibido aún
	LinePartial LineStatus = "PARTIAL" // recibido parcial
	LineClosed  LineStatus = "CLOSED"  // recibido completo
	LineOver    LineStatus = "OVER"    // recibido por encima de lo ordenado
)

// OrderLine línea de una orden de compra tal como la muestra la pantalla.
type OrderLine struct {
	ItemID   string          `json:"itemId"`
	ItemName string          `json:"itemName"`
	Ordered  decimal.Decimal `json:"ordered"`
	Received decimal.Decimal `json:"received"` // acumulado de recepciones previas
}

// IncomingLine cantidad que llega en la recepción que se está registrando.
type IncomingLine struct {
	ItemID   string          `json:"itemId"`
	Quantity decimal.Decimal `json:"quantity"`
}

// ReconciledLine resultado de conciliar una línea: lo ordenado contra lo
// previamente recibido más lo entrante.
type ReconciledLine struct {
	ItemID    string          `json:"itemId"`
	ItemName  string          `json:"itemName"`
	Ordered   decimal.Decimal `json:"ordered"`
	Previous  decimal.Decimal `json:"previous"`
	Incoming  decimal.Decimal `json:"incoming"`
	Remaining decimal.Decimal `json:"remaining"` // nunca negativo; el exceso se marca con OVER
	Status    LineStatus      `json:"status"`
}

// Reconcile calcula, línea por línea, el restante y el estado resultante de
// aplicar la recepción entrante sobre la orden. Es una función pura: el ERP
// sigue siendo quien persiste y quien decide si acepta el sobre-recibo.
//
// Cantidades entrantes negativas o líneas entrantes sin correspondencia en la
// orden invalidan la recepción completa.
func Reconcile(order []OrderLine, incoming []IncomingLine) ([]ReconciledLine, error) {
	byItem := make(map[string]decimal.Decimal, len(incoming))
	for _, in := range incoming {
		if in.Quantity.IsNegative() {
			return nil, domain.ErrInvalidInput
		}
		byItem[in.ItemID] = byItem[in.ItemID].Add(in.Quantity)
	}

	known := make(map[string]bool, len(order))
	result := make([]ReconciledLine, 0, len(order))
	for _, line := range order {
		known[line.ItemID] = true
		in := byItem[line.ItemID]
		total := line.Received.Add(in)
		remaining := line.Ordered.Sub(total)

		status := LineOpen
		switch {
		case remaining.IsNegative():
			status = LineOver
			remaining = decimal.Zero
		case remaining.IsZero() && line.Ordered.IsPositive():
			status = LineClosed
		case total.IsPositive():
			status = LinePartial
		}

		result = append(result, ReconciledLine{
			ItemID:    line.ItemID,
			ItemName:  line.ItemName,
			Ordered:   line.Ordered,
			Previous:  line.Received,
			Incoming:  in,
			Remaining: remaining,
			Status:    status,
		})
	}

	for itemID := range byItem {
		if !known[itemID] {
			// Recepción de un ítem que la orden no contiene.
			return nil, domain.ErrInvalidInput
		}
	}
	return result, nil
}

// Complete indica si todas las líneas quedaron cerradas (o sobre-recibidas).
func Complete(lines []ReconciledLine) bool {
	for _, l := range lines {
		if l.Status == LineOpen || l.Status == LinePartial {
			return false
		}
	}
	return len(lines) > 0
}

const ordersPath = "/api/purchase-orders"

// ReceivingUseCase registra recepciones contra una orden de compra.
type ReceivingUseCase struct {
	api ActionAPI
	log *logger.Logger
}

// NewReceivingUseCase construye el caso de uso.
func NewReceivingUseCase(api ActionAPI, log *logger.Logger) *ReceivingUseCase {
	return &ReceivingUseCase{api: api, log: log.Component("receiving")}
}

// ReceiptResult lo que la pantalla muestra tras registrar: la conciliación
// calculada localmente y el registro que devolvió el ERP.
type ReceiptResult struct {
	Lines    []ReconciledLine `json:"lines"`
	Complete bool             `json:"complete"`
	Receipt  erp.Record       `json:"receipt,omitempty"`
}

// Register concilia localmente (para mostrar restantes y sobre-recibos de
// inmediato) y envía la recepción al ERP, que actualiza inventario y orden.
func (uc *ReceivingUseCase) Register(ctx context.Context, token, orderID, warehouse string, order []OrderLine, incoming []IncomingLine) erp.Outcome[ReceiptResult] {
	lines, err := Reconcile(order, incoming)
	if err != nil {
		return erp.Failure[ReceiptResult](erp.FailValidation, "recepción inválida: cantidades negativas o ítems fuera de la orden")
	}
	if len(incoming) == 0 {
		return erp.Failure[ReceiptResult](erp.FailValidation, "la recepción no contiene líneas")
	}

	out := uc.api.Action(ctx, token, ordersPath, orderID, "receipts", map[string]any{
		"warehouse": warehouse,
		"lines":     incoming,
	})
	if !out.OK {
		return erp.Relabel[erp.Record, ReceiptResult](out)
	}
	uc.log.Info().Str("order_id", orderID).Int("lines", len(incoming)).Msg("recepción registrada")
	return erp.Success(ReceiptResult{
		Lines:    lines,
		Complete: Complete(lines),
		Receipt:  out.Value,
	})
}
