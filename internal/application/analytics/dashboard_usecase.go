// Package analytics arma el tablero inicial del panel administrativo a partir
// de los totales que reportan los listados del ERP.
package analytics

import (
	"context"

	"github.com/invorya/erp-admin-gateway/internal/erp"
	"github.com/invorya/erp-admin-gateway/pkg/logger"
)

// ListAPI contrato mínimo que el tablero necesita del cliente ERP.
type ListAPI interface {
	ListCollection(ctx context.Context, token, path, collection string, q erp.ListQuery) erp.Outcome[erp.CollectionPage]
}

// DashboardUseCase agrega contadores de varias colecciones en una sola vista.
type DashboardUseCase struct {
	api ListAPI
	log *logger.Logger
}

// NewDashboardUseCase construye el caso de uso.
func NewDashboardUseCase(api ListAPI, log *logger.Logger) *DashboardUseCase {
	return &DashboardUseCase{api: api, log: log.Component("dashboard")}
}

// Summary contadores del tablero. Un contador que no pudo consultarse queda en
// cero y su colección aparece en Unavailable: una tarjeta caída no tumba el
// tablero completo.
type Summary struct {
	PendingRequests  int      `json:"pendingRequests"`
	OpenOrders       int      `json:"openOrders"`
	ActiveWorkOrders int      `json:"activeWorkOrders"`
	OpenInspections  int      `json:"openInspections"`
	Items            int      `json:"items"`
	Employees        int      `json:"employees"`
	Unavailable      []string `json:"unavailable,omitempty"`
}

type card struct {
	target     *int
	path       string
	collection string
	filters    map[string]string
}

// Build consulta cada tarjeta con limit=1 y lee totalCount. Un 401 en
// cualquier tarjeta corta todo: la sesión está muerta y el guard debe actuar.
func (uc *DashboardUseCase) Build(ctx context.Context, token string) erp.Outcome[Summary] {
	var s Summary
	cards := []card{
		{&s.PendingRequests, "/api/purchase-requests", "requests", map[string]string{"status": "PENDING"}},
		{&s.OpenOrders, "/api/purchase-orders", "orders", map[string]string{"status": "OPEN"}},
		{&s.ActiveWorkOrders, "/api/work-orders", "workOrders", map[string]string{"status": "IN_PROGRESS"}},
		{&s.OpenInspections, "/api/quality-inspections", "inspections", map[string]string{"result": "PENDING"}},
		{&s.Items, "/api/items", "items", nil},
		{&s.Employees, "/api/employees", "employees", nil},
	}

	for _, c := range cards {
		out := uc.api.ListCollection(ctx, token, c.path, c.collection, erp.ListQuery{
			Page:    1,
			Limit:   1,
			Filters: c.filters,
		})
		if !out.OK {
			if out.Kind == erp.FailUnauthorized {
				return erp.Relabel[erp.CollectionPage, Summary](out)
			}
			uc.log.Warn().Str("collection", c.collection).Str("kind", out.Kind.String()).Msg("tarjeta del tablero no disponible")
			s.Unavailable = append(s.Unavailable, c.collection)
			continue
		}
		*c.target = out.Value.Pagination.TotalCount
	}
	return erp.Success(s)
}
