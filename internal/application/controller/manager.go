package controller

import (
	"sync"

	"github.com/invorya/erp-admin-gateway/internal/domain"
	"github.com/invorya/erp-admin-gateway/pkg/logger"
)

// Manager reparte page controllers por sesión y por pantalla. El estado de
// vista (búsqueda, filtros, filas viejas visibles) es del navegador que lo
// generó: dos sesiones no comparten controller.
type Manager struct {
	api       API
	log       *logger.Logger
	resources map[string]Resource

	mu        sync.Mutex
	bySession map[string]map[string]*PageController
}

// NewManager construye el manager con el registro de pantallas.
func NewManager(api API, log *logger.Logger) *Manager {
	resources := make(map[string]Resource)
	for _, r := range Registry() {
		resources[r.Name] = r
	}
	return &Manager{
		api:       api,
		log:       log,
		resources: resources,
		bySession: make(map[string]map[string]*PageController),
	}
}

// Resource devuelve la definición de una pantalla registrada.
func (m *Manager) Resource(name string) (Resource, bool) {
	r, ok := m.resources[name]
	return r, ok
}

// Controller devuelve (creándolo si hace falta) el controller de una pantalla
// para una sesión.
func (m *Manager) Controller(sessionID, name string) (*PageController, error) {
	res, ok := m.resources[name]
	if !ok {
		return nil, domain.ErrUnknownResource
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	forSession, ok := m.bySession[sessionID]
	if !ok {
		forSession = make(map[string]*PageController)
		m.bySession[sessionID] = forSession
	}
	pc, ok := forSession[name]
	if !ok {
		pc = New(res, m.api, m.log)
		forSession[name] = pc
	}
	return pc, nil
}

// DropSession descarta todo el estado de vista de una sesión (logout es un
// reset duro, no uno suave).
func (m *Manager) DropSession(sessionID string) {
	m.mu.Lock()
	delete(m.bySession, sessionID)
	m.mu.Unlock()
}
