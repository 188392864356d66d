// Package session implementa el almacén de sesiones del gateway: la única
// fuente de verdad del Bearer token de cada navegador.
//
// Contrato (intencionalmente sin errores hacia el caller):
//   - Get devuelve nil como marcador de ausencia; nunca falla.
//   - Set sobreescribe cualquier valor anterior.
//   - Clear es idempotente: limpiar dos veces deja el almacén igual de vacío.
//
// Una petición sin cookie de sesión equivale al contexto "fuera del navegador":
// todas las operaciones con SID vacío son no-ops.
package session

import (
	"context"

	"github.com/invorya/erp-admin-gateway/internal/domain/entity"
)

// Store contrato del almacén de sesiones. Las implementaciones absorben sus
// propios errores de infraestructura (registrándolos) para sostener el contrato
// de no-fallo: un backend caído se comporta como ausencia de sesión.
type Store interface {
	Get(ctx context.Context, sessionID string) *entity.Session
	Set(ctx context.Context, s *entity.Session)
	Clear(ctx context.Context, sessionID string)
}
