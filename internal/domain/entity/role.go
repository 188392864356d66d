package entity

// Role es el enum cerrado de roles del ERP. El orden total ADMIN > MANAGER > USER
// es el único criterio de autorización del gateway: el API externo aplica las
// reglas de negocio finas.
type Role string

const (
	RoleAdmin   Role = "ADMIN"
	RoleManager Role = "MANAGER"
	RoleUser    Role = "USER"
)

// Level devuelve la posición del rol en la jerarquía. Un rol desconocido vale 0
// y pierde toda comparación.
func (r Role) Level() int {
	switch r {
	case RoleAdmin:
		return 3
	case RoleManager:
		return 2
	case RoleUser:
		return 1
	default:
		return 0
	}
}

// Known indica si el rol pertenece al enum.
func (r Role) Known() bool { return r.Level() > 0 }

// AtLeast indica si el rol alcanza el mínimo requerido. Un rol desconocido
// nunca alcanza nada, ni siquiera a otro desconocido.
func (r Role) AtLeast(min Role) bool {
	return r.Known() && r.Level() >= min.Level()
}
