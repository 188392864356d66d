package erp

// FailKind clasifica los fallos esperados al hablar con el API del ERP.
// El cliente nunca convierte estos casos en error de Go: el caller ramifica
// sobre el Outcome, no sobre excepciones ni err != nil.
type FailKind int

const (
	// FailNone valor cero; solo aparece en outcomes exitosos.
	FailNone FailKind = iota
	// FailTransport red inalcanzable, DNS, timeout: se sintetiza un sobre de
	// error genérico en vez de propagar el error de transporte.
	FailTransport
	// FailUnauthorized HTTP 401: la sesión quedó inválida; el caller debe
	// limpiar el token y tratar al usuario como desconectado.
	FailUnauthorized
	// FailForbidden HTTP 403: autenticado pero sin permiso.
	FailForbidden
	// FailValidation 4xx con mensaje de negocio: se muestra textual al usuario.
	FailValidation
	// FailServer 5xx u otra respuesta no interpretable: transitorio, no
	// invalida la sesión.
	FailServer
)

// String etiqueta legible para logs y cuerpos de error.
func (k FailKind) String() string {
	switch k {
	case FailNone:
		return "none"
	case FailTransport:
		return "transport"
	case FailUnauthorized:
		return "unauthorized"
	case FailForbidden:
		return "forbidden"
	case FailValidation:
		return "validation"
	case FailServer:
		return "server"
	default:
		return "unknown"
	}
}

// Outcome resultado etiquetado de una llamada al ERP:
// {OK: true, Value} | {OK: false, Kind, Message}.
type Outcome[T any] struct {
	OK      bool
	Value   T
	Kind    FailKind
	Message string
}

// Success construye un outcome exitoso.
func Success[T any](v T) Outcome[T] {
	return Outcome[T]{OK: true, Value: v}
}

// Failure construye un outcome fallido con su clase y mensaje para el usuario.
func Failure[T any](kind FailKind, message string) Outcome[T] {
	return Outcome[T]{OK: false, Kind: kind, Message: message}
}

// Relabel copia un fallo hacia otro tipo de valor (útil al encadenar llamadas).
func Relabel[T, U any](o Outcome[T]) Outcome[U] {
	return Outcome[U]{OK: false, Kind: o.Kind, Message: o.Message}
}
