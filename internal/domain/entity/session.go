package entity

import "time"

// Session representa un contexto de navegador autenticado. Invariantes:
//   - a lo sumo una sesión activa por cookie de navegador (el SID es la clave);
//   - un Token presente significa "posiblemente autenticado": la validez solo
//     la confirma un GET /api/auth/me exitoso contra el ERP.
//
// Ciclo de vida: se crea en login/register, el token rota en change-password,
// y se destruye en logout explícito o cuando el ERP responde 401.
type Session struct {
	ID        string    `json:"id"`
	Token     string    `json:"token"`
	User      *User     `json:"user,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// Expired indica si la sesión venció respecto a now.
func (s *Session) Expired(now time.Time) bool {
	return !s.ExpiresAt.IsZero() && now.After(s.ExpiresAt)
}
