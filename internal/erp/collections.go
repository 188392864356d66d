package erp

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strconv"
)

// Record registro opaco de una colección del ERP (item, proveedor, orden...).
// El gateway lo muestra y lo reenvía sin interpretar su significado de negocio.
type Record = map[string]any

// ListQuery parámetros de un listado remoto.
type ListQuery struct {
	Page    int
	Limit   int
	Search  string
	Filters map[string]string // igualdad simple: status=PENDING, warehouse=W01...
}

// Pagination metadatos de página que reporta el ERP.
type Pagination struct {
	TotalPages int `json:"totalPages"`
	TotalCount int `json:"totalCount"`
}

// CollectionPage una página de registros más sus metadatos.
type CollectionPage struct {
	Records    []Record
	Pagination Pagination
}

// ListCollection pide una página de la colección. collection es la clave del
// arreglo dentro de data, p.ej. "items" en {data:{items:[...], pagination:{...}}}.
func (c *Client) ListCollection(ctx context.Context, token, path, collection string, q ListQuery) Outcome[CollectionPage] {
	query := url.Values{}
	if q.Page > 0 {
		query.Set("page", strconv.Itoa(q.Page))
	}
	if q.Limit > 0 {
		query.Set("limit", strconv.Itoa(q.Limit))
	}
	if q.Search != "" {
		query.Set("search", q.Search)
	}
	for k, v := range q.Filters {
		if v != "" {
			query.Set(k, v)
		}
	}

	out := c.envelopeCall(ctx, token, path, RequestOptions{Query: query})
	if !out.OK {
		return Relabel[Envelope, CollectionPage](out)
	}

	var data map[string]json.RawMessage
	if err := json.Unmarshal(out.Value.Data, &data); err != nil {
		return Failure[CollectionPage](FailServer, "respuesta de listado ilegible")
	}

	page := CollectionPage{Records: []Record{}}
	if raw, ok := data[collection]; ok {
		if err := json.Unmarshal(raw, &page.Records); err != nil {
			return Failure[CollectionPage](FailServer, "colección "+collection+" ilegible")
		}
	}
	if raw, ok := data["pagination"]; ok {
		_ = json.Unmarshal(raw, &page.Pagination)
	}
	return Success(page)
}

// CreateRecord POST del registro completo. Devuelve el registro creado si el
// ERP lo retorna; los callers re-consultan el listado de todos modos.
func (c *Client) CreateRecord(ctx context.Context, token, path string, rec Record) Outcome[Record] {
	out := c.envelopeCall(ctx, token, path, RequestOptions{
		Method: http.MethodPost,
		Body:   rec,
	})
	if !out.OK {
		return Relabel[Envelope, Record](out)
	}
	return Success(decodeRecord(out.Value))
}

// UpdateRecord PATCH del registro completo bajo /:id.
func (c *Client) UpdateRecord(ctx context.Context, token, path, id string, rec Record) Outcome[Record] {
	out := c.envelopeCall(ctx, token, path+"/"+url.PathEscape(id), RequestOptions{
		Method: http.MethodPatch,
		Body:   rec,
	})
	if !out.OK {
		return Relabel[Envelope, Record](out)
	}
	return Success(decodeRecord(out.Value))
}

// DeleteRecord DELETE bajo /:id.
func (c *Client) DeleteRecord(ctx context.Context, token, path, id string) Outcome[struct{}] {
	out := c.envelopeCall(ctx, token, path+"/"+url.PathEscape(id), RequestOptions{
		Method: http.MethodDelete,
	})
	if !out.OK {
		return Relabel[Envelope, struct{}](out)
	}
	return Success(struct{}{})
}

// Action POST a una sub-ruta de acción (p.ej. /api/purchase-requests/:id/approve).
func (c *Client) Action(ctx context.Context, token, path, id, action string, body any) Outcome[Record] {
	out := c.envelopeCall(ctx, token, path+"/"+url.PathEscape(id)+"/"+action, RequestOptions{
		Method: http.MethodPost,
		Body:   body,
	})
	if !out.OK {
		return Relabel[Envelope, Record](out)
	}
	return Success(decodeRecord(out.Value))
}

// decodeRecord extrae el primer objeto dentro de data, sea directo o anidado
// bajo una clave singular ({data:{item:{...}}}); nil si no hay cuerpo.
func decodeRecord(env Envelope) Record {
	if len(env.Data) == 0 {
		return nil
	}
	var direct Record
	if err := json.Unmarshal(env.Data, &direct); err != nil {
		return nil
	}
	// Forma anidada: un solo campo cuyo valor es el objeto.
	if len(direct) == 1 {
		for _, v := range direct {
			if inner, ok := v.(map[string]any); ok {
				return inner
			}
		}
	}
	return direct
}
