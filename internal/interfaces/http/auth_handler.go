package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/invorya/erp-admin-gateway/internal/application/auth"
	"github.com/invorya/erp-admin-gateway/internal/application/controller"
	"github.com/invorya/erp-admin-gateway/internal/application/dto"
	"github.com/invorya/erp-admin-gateway/internal/domain/entity"
	"github.com/invorya/erp-admin-gateway/internal/erp"
	pkgjwt "github.com/invorya/erp-admin-gateway/pkg/jwt"
)

// AuthHandler maneja login, registro, perfil y logout contra el ERP.
type AuthHandler struct {
	uc    *auth.UseCase
	views *controller.Manager
	deps  GuardDeps
	ttl   int // minutos de vida de la cookie
}

// NewAuthHandler construye el handler de auth.
func NewAuthHandler(uc *auth.UseCase, views *controller.Manager, deps GuardDeps, ttlMinutes int) *AuthHandler {
	return &AuthHandler{uc: uc, views: views, deps: deps, ttl: ttlMinutes}
}

// Login autentica contra el ERP y abre la sesión del gateway.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var in dto.LoginRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if in.Email == "" || in.Password == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "email y password son requeridos"})
	}
	out := h.uc.Login(c.Context(), in.Email, in.Password)
	if !out.OK {
		return failJSON(c, out.Kind, out.Message)
	}
	if err := h.setSessionCookie(c, out.Value); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(dto.SessionResponse{Status: "success", User: out.Value.User})
}

// Register registra al usuario en el ERP y abre sesión, igual que Login.
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var in dto.RegisterRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if in.Name == "" || in.Email == "" || in.Password == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "name, email y password son requeridos"})
	}
	out := h.uc.Register(c.Context(), erp.RegisterInput{
		Name:       in.Name,
		Email:      in.Email,
		Password:   in.Password,
		Role:       in.Role,
		Department: in.Department,
		Position:   in.Position,
		Phone:      in.Phone,
	})
	if !out.OK {
		return failJSON(c, out.Kind, out.Message)
	}
	if err := h.setSessionCookie(c, out.Value); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.Status(fiber.StatusCreated).JSON(dto.SessionResponse{Status: "success", User: out.Value.User})
}

// Logout es un reset duro: destruye la sesión, descarta todo el estado de
// vista y navega al login. Idempotente: sin sesión previa hace lo mismo.
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	sid := sessionIDFromCookie(c, h.deps)
	if sid != "" {
		h.uc.Logout(c.Context(), sid)
		h.views.DropSession(sid)
	}
	clearSessionCookie(c, h.deps.CookieName)
	return c.Redirect(h.deps.SignInPath, fiber.StatusSeeOther)
}

// Me devuelve el perfil validado por el guard.
func (h *AuthHandler) Me(c *fiber.Ctx) error {
	return c.JSON(dto.SessionResponse{Status: "success", User: CurrentUser(c)})
}

// UpdateProfile reenvía el PATCH parcial del perfil propio.
func (h *AuthHandler) UpdateProfile(c *fiber.Ctx) error {
	var in dto.UpdateProfileRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	out := h.uc.UpdateProfile(c.Context(), SessionID(c), erp.ProfileUpdate{
		Name:       in.Name,
		Department: in.Department,
		Position:   in.Position,
		Phone:      in.Phone,
	})
	if !out.OK {
		return failJSON(c, out.Kind, out.Message)
	}
	return c.JSON(dto.SessionResponse{Status: "success", User: out.Value})
}

// ChangePassword rota la contraseña; la sesión absorbe el token nuevo si el
// ERP lo emite, así que la cookie del navegador sigue siendo válida.
func (h *AuthHandler) ChangePassword(c *fiber.Ctx) error {
	var in dto.ChangePasswordRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if in.PasswordCurrent == "" || in.Password == "" || in.Password != in.PasswordConfirm {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "las contraseñas no coinciden o faltan campos"})
	}
	out := h.uc.ChangePassword(c.Context(), SessionID(c), in.PasswordCurrent, in.Password, in.PasswordConfirm)
	if !out.OK {
		return failJSON(c, out.Kind, out.Message)
	}
	return c.JSON(dto.SessionResponse{Status: "success", User: out.Value})
}

func (h *AuthHandler) setSessionCookie(c *fiber.Ctx, s *entity.Session) error {
	signed, err := pkgjwt.Generate(h.deps.CookieSecret, s.ID, "erp-admin-gateway", h.ttl)
	if err != nil {
		return err
	}
	c.Cookie(&fiber.Cookie{
		Name:     h.deps.CookieName,
		Value:    signed,
		MaxAge:   h.ttl * 60,
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
	return nil
}

// failJSON traduce la clase del outcome a un status HTTP y un cuerpo uniforme.
func failJSON(c *fiber.Ctx, kind erp.FailKind, message string) error {
	status := fiber.StatusBadGateway
	code := "UPSTREAM"
	switch kind {
	case erp.FailUnauthorized:
		status, code = fiber.StatusUnauthorized, "UNAUTHORIZED"
	case erp.FailForbidden:
		status, code = fiber.StatusForbidden, "FORBIDDEN"
	case erp.FailValidation:
		status, code = fiber.StatusBadRequest, "VALIDATION"
	case erp.FailTransport:
		status, code = fiber.StatusBadGateway, "TRANSPORT"
	case erp.FailServer:
		status, code = fiber.StatusBadGateway, "UPSTREAM"
	}
	return c.Status(status).JSON(dto.ErrorResponse{Code: code, Message: message})
}
