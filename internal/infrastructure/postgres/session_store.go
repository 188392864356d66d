package postgres

import (
	"context"
	"encoding/json"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/invorya/erp-admin-gateway/internal/domain/entity"
	"github.com/invorya/erp-admin-gateway/pkg/logger"
)

// SessionStore implementación de session.Store sobre PostgreSQL, para
// despliegues con más de una instancia del gateway detrás de un balanceador.
//
// Mantiene el contrato de no-fallo del Store: los errores de infraestructura
// se registran y la operación se comporta como ausencia (Get) o como no-op
// (Set/Clear). Un Postgres caído degrada a "sesión no encontrada", nunca a un
// error visible para el usuario.
type SessionStore struct {
	pool *pgxpool.Pool
	log  *logger.Logger
	now  func() time.Time
}

// NewSessionStore construye el store y garantiza el esquema.
func NewSessionStore(ctx context.Context, pool *pgxpool.Pool, log *logger.Logger) (*SessionStore, error) {
	s := &SessionStore{pool: pool, log: log.Component("session-store"), now: time.Now}
	if err := s.ensureSchema(ctx); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *SessionStore) ensureSchema(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS gateway_sessions (
			id          TEXT PRIMARY KEY,
			token       TEXT NOT NULL,
			profile     JSONB,
			created_at  TIMESTAMPTZ NOT NULL,
			expires_at  TIMESTAMPTZ NOT NULL
		)`)
	return err
}

// Get devuelve la sesión o nil. Vencidas y errores de DB leen como ausencia.
func (s *SessionStore) Get(ctx context.Context, sessionID string) *entity.Session {
	if sessionID == "" {
		return nil
	}
	var (
		sess    entity.Session
		profile []byte
	)
	err := s.pool.QueryRow(ctx,
		`SELECT id, token, profile, created_at, expires_at FROM gateway_sessions WHERE id = $1`,
		sessionID,
	).Scan(&sess.ID, &sess.Token, &profile, &sess.CreatedAt, &sess.ExpiresAt)
	if err == pgx.ErrNoRows {
		return nil
	}
	if err != nil {
		s.log.Warn().Err(err).Str("session_id", sessionID).Msg("lectura de sesión falló; se trata como ausente")
		return nil
	}
	if sess.Expired(s.now()) {
		s.Clear(ctx, sessionID)
		return nil
	}
	if len(profile) > 0 {
		var u entity.User
		if err := json.Unmarshal(profile, &u); err == nil {
			sess.User = &u
		}
	}
	return &sess
}

// Set persiste la sesión (upsert por SID).
func (s *SessionStore) Set(ctx context.Context, sess *entity.Session) {
	if sess == nil || sess.ID == "" {
		return
	}
	var profile []byte
	if sess.User != nil {
		profile, _ = json.Marshal(sess.User)
	}
	_, err := s.pool.Exec(ctx, `
		INSERT INTO gateway_sessions (id, token, profile, created_at, expires_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (id) DO UPDATE
		SET token = EXCLUDED.token, profile = EXCLUDED.profile, expires_at = EXCLUDED.expires_at`,
		sess.ID, sess.Token, profile, sess.CreatedAt, sess.ExpiresAt)
	if err != nil {
		s.log.Warn().Err(err).Str("session_id", sess.ID).Msg("escritura de sesión falló")
	}
}

// Clear elimina la sesión. Idempotente.
func (s *SessionStore) Clear(ctx context.Context, sessionID string) {
	if sessionID == "" {
		return
	}
	if _, err := s.pool.Exec(ctx, `DELETE FROM gateway_sessions WHERE id = $1`, sessionID); err != nil {
		s.log.Warn().Err(err).Str("session_id", sessionID).Msg("borrado de sesión falló")
	}
}

// Sweep purga sesiones vencidas; pensado para llamarse desde un ticker.
// Devuelve los SID eliminados para que el llamador descarte también el
// estado asociado a ellos.
func (s *SessionStore) Sweep(ctx context.Context) []string {
	rows, err := s.pool.Query(ctx, `DELETE FROM gateway_sessions WHERE expires_at < $1 RETURNING id`, s.now())
	if err != nil {
		s.log.Warn().Err(err).Msg("purga de sesiones falló")
		return nil
	}
	defer rows.Close()
	var removed []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			continue
		}
		removed = append(removed, id)
	}
	return removed
}
