package dto

import "github.com/invorya/erp-admin-gateway/internal/domain/entity"

// LoginRequest entrada para login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// RegisterRequest entrada para registro. Solo name, email y password son
// obligatorios; role/department/position/phone los valida el ERP.
type RegisterRequest struct {
	Name       string `json:"name"`
	Email      string `json:"email"`
	Password   string `json:"password"`
	Role       string `json:"role,omitempty"`
	Department string `json:"department,omitempty"`
	Position   string `json:"position,omitempty"`
	Phone      string `json:"phone,omitempty"`
}

// UpdateProfileRequest campos editables del perfil propio (nil = sin cambio).
type UpdateProfileRequest struct {
	Name       *string `json:"name,omitempty"`
	Department *string `json:"department,omitempty"`
	Position   *string `json:"position,omitempty"`
	Phone      *string `json:"phone,omitempty"`
}

// ChangePasswordRequest rotación de contraseña; el ERP valida la actual.
type ChangePasswordRequest struct {
	PasswordCurrent string `json:"passwordCurrent"`
	Password        string `json:"password"`
	PasswordConfirm string `json:"passwordConfirm"`
}

// SessionResponse salida de login/register/me: el perfil, nunca el token
// (el token vive en el session store del gateway, no viaja al navegador).
type SessionResponse struct {
	Status string       `json:"status"`
	User   *entity.User `json:"user,omitempty"`
}
