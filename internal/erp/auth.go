package erp

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/invorya/erp-admin-gateway/internal/domain/entity"
)

// Rutas de autenticación del API externo.
const (
	pathLogin          = "/api/auth/login"
	pathRegister       = "/api/auth/register"
	pathMe             = "/api/auth/me"
	pathChangePassword = "/api/auth/change-password"
)

// AuthResult resultado de login/register: token emitido y perfil del usuario.
type AuthResult struct {
	Token string
	User  *entity.User
}

// RegisterInput campos de registro. Solo Name, Email y Password son
// obligatorios; el resto lo decide (o ignora) el ERP.
type RegisterInput struct {
	Name       string `json:"name"`
	Email      string `json:"email"`
	Password   string `json:"password"`
	Role       string `json:"role,omitempty"`
	Department string `json:"department,omitempty"`
	Position   string `json:"position,omitempty"`
	Phone      string `json:"phone,omitempty"`
}

// ProfileUpdate campos editables del perfil propio. Punteros: nil = sin cambio.
type ProfileUpdate struct {
	Name       *string `json:"name,omitempty"`
	Department *string `json:"department,omitempty"`
	Position   *string `json:"position,omitempty"`
	Phone      *string `json:"phone,omitempty"`
}

// Login envía credenciales. En éxito el Value incluye el token a guardar en la
// sesión; en fallo el outcome trae la clase y el mensaje para el usuario.
func (c *Client) Login(ctx context.Context, email, password string) Outcome[AuthResult] {
	out := c.envelopeCall(ctx, "", pathLogin, RequestOptions{
		Method: http.MethodPost,
		Body:   map[string]string{"email": email, "password": password},
	})
	if !out.OK {
		return Relabel[Envelope, AuthResult](out)
	}
	return authResultFromEnvelope(out.Value)
}

// Register registra un usuario nuevo; mismo contrato de sobre que Login.
func (c *Client) Register(ctx context.Context, in RegisterInput) Outcome[AuthResult] {
	out := c.envelopeCall(ctx, "", pathRegister, RequestOptions{
		Method: http.MethodPost,
		Body:   in,
	})
	if !out.OK {
		return Relabel[Envelope, AuthResult](out)
	}
	return authResultFromEnvelope(out.Value)
}

// CurrentUser consulta GET /api/auth/me con el token dado.
// Con token vacío devuelve FailUnauthorized sin tocar la red: ausencia de
// token ya significa "no autenticado". El caller decide limpiar la sesión
// solo cuando Kind == FailUnauthorized venga de un 401 real o de este atajo.
func (c *Client) CurrentUser(ctx context.Context, token string) Outcome[*entity.User] {
	if token == "" {
		return Failure[*entity.User](FailUnauthorized, "sin token de sesión")
	}
	out := c.envelopeCall(ctx, token, pathMe, RequestOptions{})
	if !out.OK {
		return Relabel[Envelope, *entity.User](out)
	}
	user, ok := decodeUser(out.Value)
	if !ok {
		return Failure[*entity.User](FailServer, "perfil de usuario ilegible")
	}
	return Success(user)
}

// UpdateProfile envía un PATCH parcial del perfil propio y devuelve el perfil
// actualizado.
func (c *Client) UpdateProfile(ctx context.Context, token string, in ProfileUpdate) Outcome[*entity.User] {
	out := c.envelopeCall(ctx, token, pathMe, RequestOptions{
		Method: http.MethodPatch,
		Body:   in,
	})
	if !out.OK {
		return Relabel[Envelope, *entity.User](out)
	}
	user, ok := decodeUser(out.Value)
	if !ok {
		return Failure[*entity.User](FailServer, "perfil de usuario ilegible")
	}
	return Success(user)
}

// ChangePassword rota la contraseña. Si el ERP devuelve un token nuevo (porque
// invalidó el anterior del lado servidor), viene en el Value para que la
// sesión lo reemplace.
func (c *Client) ChangePassword(ctx context.Context, token, current, newPassword, confirm string) Outcome[AuthResult] {
	out := c.envelopeCall(ctx, token, pathChangePassword, RequestOptions{
		Method: http.MethodPatch,
		Body: map[string]string{
			"passwordCurrent": current,
			"password":        newPassword,
			"passwordConfirm": confirm,
		},
	})
	if !out.OK {
		return Relabel[Envelope, AuthResult](out)
	}
	user, _ := decodeUser(out.Value)
	return Success(AuthResult{Token: out.Value.Token, User: user})
}

func authResultFromEnvelope(env Envelope) Outcome[AuthResult] {
	if env.Token == "" {
		// 2xx sin token es un sobre malformado; no hay sesión que crear.
		return Failure[AuthResult](FailServer, "el servidor no devolvió un token de sesión")
	}
	user, _ := decodeUser(env)
	return Success(AuthResult{Token: env.Token, User: user})
}

// decodeUser acepta las dos formas que usa el ERP: {data:{user:{...}}} o el
// objeto usuario directamente dentro de data.
func decodeUser(env Envelope) (*entity.User, bool) {
	if len(env.Data) == 0 {
		return nil, false
	}
	var wrapped struct {
		User *entity.User `json:"user"`
	}
	if err := json.Unmarshal(env.Data, &wrapped); err == nil && wrapped.User != nil && wrapped.User.ID != "" {
		return wrapped.User, true
	}
	var direct entity.User
	if err := json.Unmarshal(env.Data, &direct); err == nil && direct.ID != "" {
		return &direct, true
	}
	return nil, false
}
