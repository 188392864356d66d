package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/invorya/erp-admin-gateway/internal/application/auth"
	"github.com/invorya/erp-admin-gateway/internal/domain/entity"
	pkgjwt "github.com/invorya/erp-admin-gateway/pkg/jwt"
)

// Locals keys que el guard deja disponibles para los handlers protegidos.
const (
	LocalSessionID = "session_id"
	LocalUser      = "current_user"
)

// GuardDeps dependencias compartidas del route guard.
type GuardDeps struct {
	Auth         *auth.UseCase
	CookieName   string
	CookieSecret string
	SignInPath   string // destino cuando no hay sesión válida
	DefaultPath  string // destino cuando el rol no alcanza (dentro de la app, no al login)
}

// GuardConfig configuración por ruta.
type GuardConfig struct {
	RequireAuth bool
	MinRole     entity.Role // vacío = solo exige autenticación
}

// RouteGuard decide, por petición, entre tres estados terminales:
//
//	Checking    -> estado inicial, dura lo que duran las consultas de sesión;
//	Authorized  -> se ejecuta el handler protegido (única vía hacia c.Next());
//	Redirecting -> se emite la navegación y el subtree protegido jamás corre,
//	               ni siquiera transitoriamente.
//
// La revalidación de rol ocurre una vez por petición; un rol revocado en el
// ERP a mitad de sesión se nota recién en la siguiente navegación.
func RouteGuard(deps GuardDeps, cfg GuardConfig) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if !cfg.RequireAuth {
			return c.Next()
		}

		sid := sessionIDFromCookie(c, deps)
		if sid == "" || !deps.Auth.IsAuthenticated(c.Context(), sid) {
			return redirectToSignIn(c, deps, sid)
		}

		// Presencia de token no implica validez: solo el perfil la confirma.
		user := deps.Auth.CurrentUser(c.Context(), sid)
		if user == nil {
			// Logout explícito: deja el storage consistente aunque el 401 ya
			// haya limpiado el token.
			deps.Auth.Logout(c.Context(), sid)
			return redirectToSignIn(c, deps, sid)
		}

		if cfg.MinRole != "" && !user.Role.AtLeast(cfg.MinRole) {
			return c.Redirect(deps.DefaultPath, fiber.StatusSeeOther)
		}

		c.Locals(LocalSessionID, sid)
		c.Locals(LocalUser, user)
		return c.Next()
	}
}

// RequireRole re-chequea el rol para una sub-ruta ya autenticada. Debe usarse
// DESPUÉS de RouteGuard (necesita LocalUser). Rol insuficiente redirige al
// DefaultPath: es una rama normal de control, no un error.
func RequireRole(deps GuardDeps, min entity.Role) fiber.Handler {
	return func(c *fiber.Ctx) error {
		user := CurrentUser(c)
		if user == nil {
			return redirectToSignIn(c, deps, SessionID(c))
		}
		if !user.Role.AtLeast(min) {
			return c.Redirect(deps.DefaultPath, fiber.StatusSeeOther)
		}
		return c.Next()
	}
}

func redirectToSignIn(c *fiber.Ctx, deps GuardDeps, sid string) error {
	clearSessionCookie(c, deps.CookieName)
	return c.Redirect(deps.SignInPath, fiber.StatusSeeOther)
}

// sessionIDFromCookie valida la cookie firmada y extrae el SID; cualquier
// cookie ausente, vencida o adulterada se trata como sesión ausente.
func sessionIDFromCookie(c *fiber.Ctx, deps GuardDeps) string {
	raw := c.Cookies(deps.CookieName)
	if raw == "" {
		return ""
	}
	sid, err := pkgjwt.Parse(deps.CookieSecret, raw)
	if err != nil {
		return ""
	}
	return sid
}

func clearSessionCookie(c *fiber.Ctx, name string) {
	c.Cookie(&fiber.Cookie{
		Name:     name,
		Value:    "",
		MaxAge:   -1,
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
}

// SessionID devuelve el SID dejado por el guard, o cadena vacía.
func SessionID(c *fiber.Ctx) string {
	v := c.Locals(LocalSessionID)
	if v == nil {
		return ""
	}
	s, _ := v.(string)
	return s
}

// CurrentUser devuelve el perfil dejado por el guard, o nil.
func CurrentUser(c *fiber.Ctx) *entity.User {
	v := c.Locals(LocalUser)
	if v == nil {
		return nil
	}
	u, _ := v.(*entity.User)
	return u
}
