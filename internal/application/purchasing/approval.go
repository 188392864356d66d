// Package purchasing implementa las dos piezas con semántica propia del flujo
// de compras: la máquina de estados de aprobación de solicitudes y la
// conciliación de cantidades al registrar recepciones. Ambas son delgadas:
// validan la transición o la suma localmente y delegan la decisión final al
// ERP, que es el dueño de la regla de negocio.
package purchasing

import (
	"context"

	"github.com/invorya/erp-admin-gateway/internal/domain"
	"github.com/invorya/erp-admin-gateway/internal/domain/entity"
	"github.com/invorya/erp-admin-gateway/internal/erp"
	"github.com/invorya/erp-admin-gateway/pkg/logger"
)

// RequestStatus estados de una solicitud de compra.
type RequestStatus string

const (
	StatusDraft    RequestStatus = "DRAFT"
	StatusPending  RequestStatus = "PENDING"
	StatusApproved RequestStatus = "APPROVED"
	StatusRejected RequestStatus = "REJECTED"
	StatusOrdered  RequestStatus = "ORDERED"
)

// transitions transiciones permitidas desde cada estado.
var transitions = map[RequestStatus][]RequestStatus{
	StatusDraft:    {StatusPending},
	StatusPending:  {StatusApproved, StatusRejected},
	StatusApproved: {StatusOrdered},
	StatusRejected: {},
	StatusOrdered:  {},
}

// CanTransition indica si el paso from -> to está permitido.
func CanTransition(from, to RequestStatus) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// invalidTransition fallo de validación sobre el centinela de dominio.
func invalidTransition(detail string) erp.Outcome[erp.Record] {
	return erp.Failure[erp.Record](erp.FailValidation, domain.ErrInvalidTransition.Error()+": "+detail)
}

// ActionAPI contrato que el flujo necesita del cliente ERP.
type ActionAPI interface {
	Action(ctx context.Context, token, path, id, action string, body any) erp.Outcome[erp.Record]
}

const requestsPath = "/api/purchase-requests"

// ApprovalUseCase acciones de workflow sobre solicitudes de compra.
type ApprovalUseCase struct {
	api ActionAPI
	log *logger.Logger
}

// NewApprovalUseCase construye el caso de uso.
func NewApprovalUseCase(api ActionAPI, log *logger.Logger) *ApprovalUseCase {
	return &ApprovalUseCase{api: api, log: log.Component("purchasing")}
}

// Submit pasa una solicitud de DRAFT a PENDING. El estado actual lo aporta la
// pantalla (es el que el usuario ve); el ERP vuelve a validar del lado servidor.
func (uc *ApprovalUseCase) Submit(ctx context.Context, token, requestID string, current RequestStatus) erp.Outcome[erp.Record] {
	if !CanTransition(current, StatusPending) {
		return invalidTransition("la solicitud en estado " + string(current) + " no puede enviarse a aprobación")
	}
	return uc.api.Action(ctx, token, requestsPath, requestID, "submit", nil)
}

// Approve aprueba una solicitud PENDING. Requiere rol MANAGER o superior; un
// rol insuficiente es una rama normal de control (forbidden), no un error.
func (uc *ApprovalUseCase) Approve(ctx context.Context, token, requestID string, current RequestStatus, actor entity.Role, comment string) erp.Outcome[erp.Record] {
	if !actor.AtLeast(entity.RoleManager) {
		return erp.Failure[erp.Record](erp.FailForbidden, "aprobar solicitudes requiere rol MANAGER o superior")
	}
	if !CanTransition(current, StatusApproved) {
		return invalidTransition("solo una solicitud PENDING puede aprobarse (estado actual: " + string(current) + ")")
	}
	uc.log.Info().Str("request_id", requestID).Msg("aprobando solicitud de compra")
	return uc.api.Action(ctx, token, requestsPath, requestID, "approve", map[string]string{"comment": comment})
}

// Reject rechaza una solicitud PENDING. El comentario es obligatorio: el
// solicitante necesita saber por qué.
func (uc *ApprovalUseCase) Reject(ctx context.Context, token, requestID string, current RequestStatus, actor entity.Role, comment string) erp.Outcome[erp.Record] {
	if !actor.AtLeast(entity.RoleManager) {
		return erp.Failure[erp.Record](erp.FailForbidden, "rechazar solicitudes requiere rol MANAGER o superior")
	}
	if comment == "" {
		return erp.Failure[erp.Record](erp.FailValidation, "el rechazo requiere un comentario")
	}
	if !CanTransition(current, StatusRejected) {
		return invalidTransition("solo una solicitud PENDING puede rechazarse (estado actual: " + string(current) + ")")
	}
	uc.log.Info().Str("request_id", requestID).Msg("rechazando solicitud de compra")
	return uc.api.Action(ctx, token, requestsPath, requestID, "reject", map[string]string{"comment": comment})
}

// ConvertToOrder convierte una solicitud APPROVED en orden de compra.
func (uc *ApprovalUseCase) ConvertToOrder(ctx context.Context, token, requestID string, current RequestStatus, actor entity.Role) erp.Outcome[erp.Record] {
	if !actor.AtLeast(entity.RoleManager) {
		return erp.Failure[erp.Record](erp.FailForbidden, "emitir órdenes requiere rol MANAGER o superior")
	}
	if !CanTransition(current, StatusOrdered) {
		return invalidTransition("solo una solicitud APPROVED puede convertirse en orden (estado actual: " + string(current) + ")")
	}
	return uc.api.Action(ctx, token, requestsPath, requestID, "order", nil)
}
