package controller

import "github.com/invorya/erp-admin-gateway/internal/domain/entity"

// Resource describe una pantalla CRUD: su ruta en el gateway, el endpoint
// upstream, la clave de la colección dentro de data y los campos sobre los
// que opera el filtrado local de la página en memoria.
type Resource struct {
	Name          string      // segmento de ruta del gateway, p.ej. "items"
	Path          string      // endpoint upstream, p.ej. "/api/items"
	Collection    string      // clave del arreglo en {data:{<clave>:[...]}}
	SearchFields  []string    // campos incluidos en la búsqueda por subcadena
	FilterParams  []string    // query params de igualdad reenviados y aplicados localmente
	ExportColumns []string    // columnas (y orden) del export a Excel
	MinRole       entity.Role // rol mínimo para ver la pantalla; vacío = cualquier autenticado
}

// Registry pantallas del ERP administradas por el gateway. El detalle de
// campos por formulario es presentación y vive en el front; aquí solo se
// declara lo que el filtrado y el export necesitan conocer.
func Registry() []Resource {
	return []Resource{
		// Datos maestros
		{
			Name: "companies", Path: "/api/companies", Collection: "companies",
			SearchFields:  []string{"name", "taxId", "city"},
			FilterParams:  []string{"status"},
			ExportColumns: []string{"name", "taxId", "city", "phone", "status"},
		},
		{
			Name: "items", Path: "/api/items", Collection: "items",
			SearchFields:  []string{"code", "name", "specification"},
			FilterParams:  []string{"category", "status"},
			ExportColumns: []string{"code", "name", "specification", "category", "unit", "status"},
		},
		{
			Name: "suppliers", Path: "/api/suppliers", Collection: "suppliers",
			SearchFields:  []string{"name", "contactName", "email"},
			FilterParams:  []string{"status"},
			ExportColumns: []string{"name", "contactName", "phone", "email", "status"},
		},
		{
			Name: "users", Path: "/api/users", Collection: "users",
			SearchFields:  []string{"name", "email", "department"},
			FilterParams:  []string{"role", "active"},
			ExportColumns: []string{"name", "email", "role", "department", "position", "active"},
			MinRole:       entity.RoleAdmin,
		},
		// Compras
		{
			Name: "purchase-requests", Path: "/api/purchase-requests", Collection: "requests",
			SearchFields:  []string{"number", "itemName", "requesterName"},
			FilterParams:  []string{"status", "department"},
			ExportColumns: []string{"number", "itemName", "quantity", "requesterName", "status", "createdAt"},
		},
		{
			Name: "purchase-orders", Path: "/api/purchase-orders", Collection: "orders",
			SearchFields:  []string{"number", "supplierName"},
			FilterParams:  []string{"status", "supplier"},
			ExportColumns: []string{"number", "supplierName", "totalAmount", "status", "orderedAt"},
		},
		{
			Name: "receipts", Path: "/api/receipts", Collection: "receipts",
			SearchFields:  []string{"number", "orderNumber", "supplierName"},
			FilterParams:  []string{"status", "warehouse"},
			ExportColumns: []string{"number", "orderNumber", "supplierName", "receivedAt", "status"},
		},
		// Inventario
		{
			Name: "inventory-transactions", Path: "/api/inventory/transactions", Collection: "transactions",
			SearchFields:  []string{"itemCode", "itemName", "reference"},
			FilterParams:  []string{"type", "warehouse"},
			ExportColumns: []string{"itemCode", "itemName", "type", "quantity", "warehouse", "createdAt"},
		},
		{
			Name: "inventory-status", Path: "/api/inventory/status", Collection: "levels",
			SearchFields:  []string{"itemCode", "itemName"},
			FilterParams:  []string{"warehouse", "category"},
			ExportColumns: []string{"itemCode", "itemName", "warehouse", "onHand", "reserved", "available"},
		},
		// Producción
		{
			Name: "work-orders", Path: "/api/work-orders", Collection: "workOrders",
			SearchFields:  []string{"number", "itemName"},
			FilterParams:  []string{"status", "line"},
			ExportColumns: []string{"number", "itemName", "quantity", "line", "status", "dueDate"},
		},
		// Calidad
		{
			Name: "quality-inspections", Path: "/api/quality-inspections", Collection: "inspections",
			SearchFields:  []string{"number", "itemName", "inspectorName"},
			FilterParams:  []string{"result", "type"},
			ExportColumns: []string{"number", "itemName", "type", "result", "inspectorName", "inspectedAt"},
		},
		// Ventas
		{
			Name: "sales-orders", Path: "/api/sales-orders", Collection: "orders",
			SearchFields:  []string{"number", "customerName"},
			FilterParams:  []string{"status"},
			ExportColumns: []string{"number", "customerName", "totalAmount", "status", "orderedAt"},
		},
		// RR.HH.
		{
			Name: "employees", Path: "/api/employees", Collection: "employees",
			SearchFields:  []string{"name", "email", "department"},
			FilterParams:  []string{"department", "active"},
			ExportColumns: []string{"name", "email", "department", "position", "hiredAt", "active"},
			MinRole:       entity.RoleManager,
		},
	}
}
