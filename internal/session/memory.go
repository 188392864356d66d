package session

import (
	"context"
	"sync"
	"time"

	"github.com/invorya/erp-admin-gateway/internal/domain/entity"
)

// MemoryStore almacén de sesiones en memoria. Es el backend por defecto:
// el gateway solo guarda un token por sesión, así que perder las sesiones en
// un reinicio cuesta un nuevo login, no datos.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]*entity.Session
	now      func() time.Time
}

// NewMemoryStore construye el almacén en memoria.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		sessions: make(map[string]*entity.Session),
		now:      time.Now,
	}
}

// Get devuelve la sesión o nil. Una sesión vencida se purga y lee como ausente.
func (m *MemoryStore) Get(_ context.Context, sessionID string) *entity.Session {
	if sessionID == "" {
		return nil
	}
	m.mu.RLock()
	s, ok := m.sessions[sessionID]
	m.mu.RUnlock()
	if !ok {
		return nil
	}
	if s.Expired(m.now()) {
		m.Clear(context.Background(), sessionID)
		return nil
	}
	cp := *s
	return &cp
}

// Set persiste la sesión, sobreescribiendo cualquier valor anterior del mismo SID.
func (m *MemoryStore) Set(_ context.Context, s *entity.Session) {
	if s == nil || s.ID == "" {
		return
	}
	cp := *s
	m.mu.Lock()
	m.sessions[s.ID] = &cp
	m.mu.Unlock()
}

// Clear elimina la sesión. No-op si no existe.
func (m *MemoryStore) Clear(_ context.Context, sessionID string) {
	if sessionID == "" {
		return
	}
	m.mu.Lock()
	delete(m.sessions, sessionID)
	m.mu.Unlock()
}

// Sweep purga sesiones vencidas; pensado para llamarse desde un ticker.
// Devuelve los SID eliminados para que el llamador descarte también el
// estado asociado a ellos (p. ej. el estado de vista por sesión).
func (m *MemoryStore) Sweep(_ context.Context) []string {
	now := m.now()
	m.mu.Lock()
	defer m.mu.Unlock()
	var removed []string
	for id, s := range m.sessions {
		if s.Expired(now) {
			delete(m.sessions, id)
			removed = append(removed, id)
		}
	}
	return removed
}
