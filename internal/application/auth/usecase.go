// Package auth implementa el ciclo de vida de la sesión del gateway sobre el
// cliente del ERP y el session store. Contrato heredado del front original:
// los fallos esperados (credenciales malas, token vencido, red caída) nunca
// son errores de Go; el caller ramifica sobre outcomes o valores nil.
package auth

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/invorya/erp-admin-gateway/internal/domain/entity"
	"github.com/invorya/erp-admin-gateway/internal/erp"
	"github.com/invorya/erp-admin-gateway/internal/session"
	"github.com/invorya/erp-admin-gateway/pkg/logger"
)

// Client contrato mínimo que auth necesita del cliente ERP (interfaz para tests).
type Client interface {
	Login(ctx context.Context, email, password string) erp.Outcome[erp.AuthResult]
	Register(ctx context.Context, in erp.RegisterInput) erp.Outcome[erp.AuthResult]
	CurrentUser(ctx context.Context, token string) erp.Outcome[*entity.User]
	UpdateProfile(ctx context.Context, token string, in erp.ProfileUpdate) erp.Outcome[*entity.User]
	ChangePassword(ctx context.Context, token, current, newPassword, confirm string) erp.Outcome[erp.AuthResult]
}

// UseCase casos de uso de sesión: login, registro, perfil, logout, roles.
type UseCase struct {
	api      Client
	sessions session.Store
	ttl      time.Duration
	log      *logger.Logger
	now      func() time.Time
}

// NewUseCase construye el caso de uso de auth.
func NewUseCase(api Client, sessions session.Store, ttlMinutes int, log *logger.Logger) *UseCase {
	if ttlMinutes <= 0 {
		ttlMinutes = 480
	}
	return &UseCase{
		api:      api,
		sessions: sessions,
		ttl:      time.Duration(ttlMinutes) * time.Minute,
		log:      log.Component("auth"),
		now:      time.Now,
	}
}

// Login autentica contra el ERP y, en éxito, crea la sesión con el token
// devuelto. El Value es la sesión recién creada (su ID va a la cookie).
func (uc *UseCase) Login(ctx context.Context, email, password string) erp.Outcome[*entity.Session] {
	out := uc.api.Login(ctx, email, password)
	if !out.OK {
		return erp.Relabel[erp.AuthResult, *entity.Session](out)
	}
	return erp.Success(uc.createSession(ctx, out.Value))
}

// Register registra al usuario y abre sesión con el token devuelto, igual que Login.
func (uc *UseCase) Register(ctx context.Context, in erp.RegisterInput) erp.Outcome[*entity.Session] {
	out := uc.api.Register(ctx, in)
	if !out.OK {
		return erp.Relabel[erp.AuthResult, *entity.Session](out)
	}
	return erp.Success(uc.createSession(ctx, out.Value))
}

func (uc *UseCase) createSession(ctx context.Context, res erp.AuthResult) *entity.Session {
	now := uc.now()
	s := &entity.Session{
		ID:        uuid.New().String(),
		Token:     res.Token,
		User:      res.User,
		CreatedAt: now,
		ExpiresAt: now.Add(uc.ttl),
	}
	uc.sessions.Set(ctx, s)
	uc.log.Info().Str("session_id", s.ID).Msg("sesión creada")
	return s
}

// Logout destruye la sesión. Idempotente: sin sesión previa es un no-op.
func (uc *UseCase) Logout(ctx context.Context, sessionID string) {
	uc.sessions.Clear(ctx, sessionID)
}

// IsAuthenticated predicado puro: hay token almacenado para la sesión.
// Presencia no implica validez; la validez solo la confirma CurrentUser.
func (uc *UseCase) IsAuthenticated(ctx context.Context, sessionID string) bool {
	s := uc.sessions.Get(ctx, sessionID)
	return s != nil && s.Token != ""
}

// Token devuelve el Bearer token de la sesión, o cadena vacía.
func (uc *UseCase) Token(ctx context.Context, sessionID string) string {
	s := uc.sessions.Get(ctx, sessionID)
	if s == nil {
		return ""
	}
	return s.Token
}

// CurrentUser valida la sesión contra el ERP y devuelve el perfil, o nil.
//   - Sin sesión o sin token: nil inmediato, cero llamadas de red.
//   - 401 del ERP: la sesión quedó inválida; se limpia y se devuelve nil.
//   - Otro fallo (transporte, 5xx): nil SIN limpiar, se trata como transitorio.
//   - Éxito: se cachea el perfil en la sesión y se devuelve.
func (uc *UseCase) CurrentUser(ctx context.Context, sessionID string) *entity.User {
	s := uc.sessions.Get(ctx, sessionID)
	if s == nil || s.Token == "" {
		return nil
	}
	out := uc.api.CurrentUser(ctx, s.Token)
	if !out.OK {
		if out.Kind == erp.FailUnauthorized {
			uc.log.Info().Str("session_id", sessionID).Msg("token rechazado por el ERP; sesión invalidada")
			uc.sessions.Clear(ctx, sessionID)
		}
		return nil
	}
	s.User = out.Value
	uc.sessions.Set(ctx, s)
	return out.Value
}

// HasRole consulta el perfil actual (round-trip de red) y compara contra la
// jerarquía ADMIN > MANAGER > USER. Un rol desconocido nunca pasa.
func (uc *UseCase) HasRole(ctx context.Context, sessionID string, min entity.Role) bool {
	user := uc.CurrentUser(ctx, sessionID)
	if user == nil {
		return false
	}
	return user.Role.AtLeast(min)
}

// UpdateProfile reenvía el PATCH parcial y refresca el perfil cacheado.
func (uc *UseCase) UpdateProfile(ctx context.Context, sessionID string, in erp.ProfileUpdate) erp.Outcome[*entity.User] {
	s := uc.sessions.Get(ctx, sessionID)
	if s == nil || s.Token == "" {
		return erp.Failure[*entity.User](erp.FailUnauthorized, "sesión no encontrada")
	}
	out := uc.api.UpdateProfile(ctx, s.Token, in)
	if out.OK {
		s.User = out.Value
		uc.sessions.Set(ctx, s)
	}
	return out
}

// ChangePassword rota la contraseña y, si el ERP emite un token nuevo (el
// anterior puede quedar invalidado del lado servidor), lo reemplaza en la
// sesión antes de devolver el perfil.
func (uc *UseCase) ChangePassword(ctx context.Context, sessionID, current, newPassword, confirm string) erp.Outcome[*entity.User] {
	s := uc.sessions.Get(ctx, sessionID)
	if s == nil || s.Token == "" {
		return erp.Failure[*entity.User](erp.FailUnauthorized, "sesión no encontrada")
	}
	out := uc.api.ChangePassword(ctx, s.Token, current, newPassword, confirm)
	if !out.OK {
		return erp.Relabel[erp.AuthResult, *entity.User](out)
	}
	if out.Value.Token != "" {
		s.Token = out.Value.Token
	}
	if out.Value.User != nil {
		s.User = out.Value.User
	}
	uc.sessions.Set(ctx, s)
	return erp.Success(s.User)
}
