package entity

import "time"

// User perfil cacheado del usuario autenticado, tal como lo devuelve
// GET /api/auth/me del ERP. El gateway no interpreta más campos que el rol;
// el resto se muestra tal cual llega.
type User struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	Email      string    `json:"email"`
	Role       Role      `json:"role"`
	Department string    `json:"department,omitempty"`
	Position   string    `json:"position,omitempty"`
	Phone      string    `json:"phone,omitempty"`
	Active     bool      `json:"active"`
	CreatedAt  time.Time `json:"createdAt,omitempty"`
	UpdatedAt  time.Time `json:"updatedAt,omitempty"`
}
