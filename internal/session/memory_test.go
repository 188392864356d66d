package session

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/invorya/erp-admin-gateway/internal/domain/entity"
)

// Test interno: necesita inyectar el reloj del store.

func newSession(id string, expiresAt time.Time) *entity.Session {
	return &entity.Session{
		ID:        id,
		Token:     "tok-" + id,
		CreatedAt: expiresAt.Add(-time.Hour),
		ExpiresAt: expiresAt,
	}
}

func TestMemoryStore_SetGet(t *testing.T) {
	m := NewMemoryStore()
	m.Set(context.Background(), newSession("s1", time.Now().Add(time.Hour)))

	s := m.Get(context.Background(), "s1")
	require.NotNil(t, s)
	assert.Equal(t, "tok-s1", s.Token)
}

func TestMemoryStore_GetDevuelveCopia(t *testing.T) {
	m := NewMemoryStore()
	m.Set(context.Background(), newSession("s1", time.Now().Add(time.Hour)))

	a := m.Get(context.Background(), "s1")
	a.Token = "mutado"

	b := m.Get(context.Background(), "s1")
	assert.Equal(t, "tok-s1", b.Token, "mutar la copia devuelta no debe afectar al store")
}

func TestMemoryStore_SesionVencidaSeLeeComoAusente(t *testing.T) {
	m := NewMemoryStore()
	base := time.Now()
	m.now = func() time.Time { return base }
	m.Set(context.Background(), newSession("s1", base.Add(10*time.Minute)))

	// Avanza el reloj más allá del vencimiento.
	m.now = func() time.Time { return base.Add(11 * time.Minute) }

	assert.Nil(t, m.Get(context.Background(), "s1"))
}

func TestMemoryStore_ClearEsIdempotente(t *testing.T) {
	m := NewMemoryStore()
	m.Set(context.Background(), newSession("s1", time.Now().Add(time.Hour)))

	m.Clear(context.Background(), "s1")
	m.Clear(context.Background(), "s1")
	m.Clear(context.Background(), "no-existe")

	assert.Nil(t, m.Get(context.Background(), "s1"))
}

func TestMemoryStore_SidVacio(t *testing.T) {
	m := NewMemoryStore()
	assert.Nil(t, m.Get(context.Background(), ""))
	m.Set(context.Background(), &entity.Session{}) // sin ID: se ignora
	m.Clear(context.Background(), "")
}

func TestMemoryStore_SweepPurgaSoloLasVencidas(t *testing.T) {
	m := NewMemoryStore()
	base := time.Now()
	m.now = func() time.Time { return base }
	m.Set(context.Background(), newSession("viva", base.Add(time.Hour)))
	m.Set(context.Background(), newSession("vencida-1", base.Add(-time.Minute)))
	m.Set(context.Background(), newSession("vencida-2", base.Add(-time.Hour)))

	removed := m.Sweep(context.Background())

	// Los SID eliminados se devuelven para que el llamador descarte también
	// el estado de vista asociado a esas sesiones.
	assert.ElementsMatch(t, []string{"vencida-1", "vencida-2"}, removed)
	assert.NotNil(t, m.Get(context.Background(), "viva"))
	assert.Nil(t, m.Get(context.Background(), "vencida-1"))
}
