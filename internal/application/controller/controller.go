// Package controller implementa el "page controller" genérico: el puente
// entre un endpoint de colección del ERP y la tabla/formulario de una
// pantalla. Cada instancia mantiene el estado de vista de una pantalla para
// una sesión: última página traída, término de búsqueda, filtros, error.
package controller

import (
	"context"
	"fmt"
	"sync"

	"github.com/invorya/erp-admin-gateway/internal/domain"
	"github.com/invorya/erp-admin-gateway/internal/erp"
	"github.com/invorya/erp-admin-gateway/pkg/logger"
	"github.com/invorya/erp-admin-gateway/pkg/normalize"
)

// API contrato que el controller necesita del cliente ERP.
type API interface {
	ListCollection(ctx context.Context, token, path, collection string, q erp.ListQuery) erp.Outcome[erp.CollectionPage]
	CreateRecord(ctx context.Context, token, path string, rec erp.Record) erp.Outcome[erp.Record]
	UpdateRecord(ctx context.Context, token, path, id string, rec erp.Record) erp.Outcome[erp.Record]
	DeleteRecord(ctx context.Context, token, path, id string) erp.Outcome[struct{}]
}

// ListInput parámetros de un listado desde la UI.
type ListInput struct {
	Page    int
	Limit   int
	Search  string
	Filters map[string]string
}

// ViewState lo que la pantalla muestra: las filas de la página actual (ya
// filtradas localmente), los totales que reporta el ERP y el último error.
// Ante un fallo las filas previas se conservan: datos viejos visibles le
// ganan a una tabla vacía.
type ViewState struct {
	Rows       []erp.Record      `json:"rows"`
	Page       int               `json:"page"`
	Limit      int               `json:"limit"`
	TotalPages int               `json:"totalPages"`
	TotalCount int               `json:"totalCount"`
	Search     string            `json:"search,omitempty"`
	Filters    map[string]string `json:"filters,omitempty"`
	Error      string            `json:"error,omitempty"`
}

// PageController estado y orquestación de red de una pantalla CRUD.
//
// Las recargas por cambio de filtro no se serializan entre sí: cada Load toma
// un número de generación monótono y una respuesta solo se aplica si ninguna
// generación más nueva fue aplicada antes. Una respuesta tardía de un filtro
// viejo se descarta en vez de pisar el estado del filtro vigente.
type PageController struct {
	res Resource
	api API
	log *logger.Logger

	mu      sync.Mutex
	issued  uint64 // última generación emitida
	applied uint64 // generación cuya respuesta está reflejada en state
	state   ViewState
}

// New construye el controller de una pantalla.
func New(res Resource, api API, log *logger.Logger) *PageController {
	return &PageController{
		res: res,
		api: api,
		log: log.Component("controller:" + res.Name),
	}
}

// Load trae la página pedida del ERP y aplica el filtrado local. Devuelve el
// estado resultante (o el vigente, si esta respuesta llegó tarde).
func (pc *PageController) Load(ctx context.Context, token string, in ListInput) ViewState {
	if in.Page <= 0 {
		in.Page = 1
	}
	if in.Limit <= 0 {
		in.Limit = 20
	}

	pc.mu.Lock()
	pc.issued++
	gen := pc.issued
	pc.mu.Unlock()

	out := pc.api.ListCollection(ctx, token, pc.res.Path, pc.res.Collection, erp.ListQuery{
		Page:    in.Page,
		Limit:   in.Limit,
		Search:  in.Search,
		Filters: in.Filters,
	})

	pc.mu.Lock()
	defer pc.mu.Unlock()

	if gen <= pc.applied {
		// Ya se aplicó una petición más nueva: esta respuesta es obsoleta.
		pc.log.Debug().Uint64("generation", gen).Msg("respuesta de listado obsoleta descartada")
		return pc.snapshot()
	}
	pc.applied = gen

	pc.state.Page = in.Page
	pc.state.Limit = in.Limit
	pc.state.Search = in.Search
	pc.state.Filters = in.Filters

	if !out.OK {
		// Conservar las filas previas; solo se actualiza el error visible.
		pc.state.Error = out.Message
		return pc.snapshot()
	}

	pc.state.Error = ""
	pc.state.Rows = pc.localFilter(out.Value.Records, in)
	pc.state.TotalPages = out.Value.Pagination.TotalPages
	pc.state.TotalCount = out.Value.Pagination.TotalCount
	return pc.snapshot()
}

// Create envía el registro completo y, en éxito, re-consulta el listado con
// los parámetros vigentes (consistencia sobre latencia, sin parcheo optimista).
func (pc *PageController) Create(ctx context.Context, token string, rec erp.Record) erp.Outcome[ViewState] {
	out := pc.api.CreateRecord(ctx, token, pc.res.Path, rec)
	if !out.OK {
		return erp.Relabel[erp.Record, ViewState](out)
	}
	return erp.Success(pc.reload(ctx, token))
}

// Update envía el registro editado completo bajo /:id y re-consulta.
func (pc *PageController) Update(ctx context.Context, token, id string, rec erp.Record) erp.Outcome[ViewState] {
	out := pc.api.UpdateRecord(ctx, token, pc.res.Path, id, rec)
	if !out.OK {
		return erp.Relabel[erp.Record, ViewState](out)
	}
	return erp.Success(pc.reload(ctx, token))
}

// Delete exige confirmación explícita: sin ella no se emite ninguna llamada
// DELETE. Con éxito, la fila se retira del estado local de inmediato (el
// registro ya no existe, no hay conflicto de merge posible).
func (pc *PageController) Delete(ctx context.Context, token, id string, confirmed bool) erp.Outcome[ViewState] {
	if !confirmed {
		return erp.Failure[ViewState](erp.FailValidation, domain.ErrConfirmationNeeded.Error())
	}
	out := pc.api.DeleteRecord(ctx, token, pc.res.Path, id)
	if !out.OK {
		return erp.Relabel[struct{}, ViewState](out)
	}

	pc.mu.Lock()
	defer pc.mu.Unlock()
	rows := pc.state.Rows[:0:0]
	for _, r := range pc.state.Rows {
		if recordID(r) != id {
			rows = append(rows, r)
		}
	}
	pc.state.Rows = rows
	if pc.state.TotalCount > 0 {
		pc.state.TotalCount--
	}
	return erp.Success(pc.snapshot())
}

// State devuelve una copia del estado vigente sin tocar la red.
func (pc *PageController) State() ViewState {
	pc.mu.Lock()
	defer pc.mu.Unlock()
	return pc.snapshot()
}

func (pc *PageController) reload(ctx context.Context, token string) ViewState {
	pc.mu.Lock()
	in := ListInput{
		Page:    pc.state.Page,
		Limit:   pc.state.Limit,
		Search:  pc.state.Search,
		Filters: pc.state.Filters,
	}
	pc.mu.Unlock()
	return pc.Load(ctx, token, in)
}

// localFilter aplica búsqueda por subcadena (plegada) y filtros de igualdad
// sobre la página recién traída. Solo cubre la página actual, no la colección
// completa: el total mostrado puede superar a las filas visibles.
func (pc *PageController) localFilter(records []erp.Record, in ListInput) []erp.Record {
	filtered := make([]erp.Record, 0, len(records))
	for _, rec := range records {
		if !pc.matchesSearch(rec, in.Search) {
			continue
		}
		if !pc.matchesFilters(rec, in.Filters) {
			continue
		}
		filtered = append(filtered, rec)
	}
	return filtered
}

func (pc *PageController) matchesSearch(rec erp.Record, search string) bool {
	if search == "" {
		return true
	}
	for _, field := range pc.res.SearchFields {
		if normalize.ContainsFold(stringify(rec[field]), search) {
			return true
		}
	}
	return false
}

func (pc *PageController) matchesFilters(rec erp.Record, filters map[string]string) bool {
	for _, param := range pc.res.FilterParams {
		want := filters[param]
		if want == "" {
			continue
		}
		if stringify(rec[param]) != want {
			return false
		}
	}
	return true
}

func (pc *PageController) snapshot() ViewState {
	cp := pc.state
	cp.Rows = append([]erp.Record(nil), pc.state.Rows...)
	return cp
}

// recordID acepta "id" o "_id" (el ERP expone ambas según la colección).
func recordID(rec erp.Record) string {
	if v, ok := rec["id"]; ok {
		return stringify(v)
	}
	return stringify(rec["_id"])
}

func stringify(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case bool:
		if t {
			return "true"
		}
		return "false"
	case float64:
		// JSON numérico: sin decimales espurios para enteros.
		if t == float64(int64(t)) {
			return fmt.Sprintf("%d", int64(t))
		}
		return fmt.Sprintf("%v", t)
	default:
		return fmt.Sprintf("%v", t)
	}
}
