package scan

import (
	"sync"
	"time"

	"github.com/jhoicas/Inventario-scanner/internal/domain"
	"github.com/jhoicas/Inventario-scanner/internal/domain/entity"
)

// DefaultIdleWindow ventana de inactividad tras la última acción aceptada.
const DefaultIdleWindow = 300 * time.Second

// Mode estado del modo de operación. Active=false equivale a "sin definir".
type Mode struct {
	Active    bool
	Operation entity.Operation
	Since     time.Time
}

// Status lectura del estado del guardián en un instante dado.
type Status struct {
	TimeRemaining     time.Duration
	RequiresOperation bool
	LastOperationTime *time.Time
}

// Guard mantiene el modo de operación del proceso. Todas las lecturas-modificaciones
// del par (operación, since) ocurren bajo el mismo mutex.
type Guard struct {
	mu   sync.Mutex
	idle time.Duration
	mode Mode
}

// NewGuard construye el guardián en estado sin definir. idle <= 0 usa DefaultIdleWindow.
func NewGuard(idle time.Duration) *Guard {
	if idle <= 0 {
		idle = DefaultIdleWindow
	}
	return &Guard{idle: idle}
}

// IdleWindow devuelve la ventana configurada.
func (g *Guard) IdleWindow() time.Duration { return g.idle }

// Switch activa la operación indicada con since = now.
func (g *Guard) Switch(op entity.Operation, now time.Time) (Mode, error) {
	if !op.Valid() {
		return Mode{}, domain.ErrInvalidOperation
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	g.mode = Mode{Active: true, Operation: op, Since: now}
	return g.mode, nil
}

// Authorize decide si un código puede procesarse en now. Devuelve la operación
// vigente o ErrOperationTimeout (el modo no se modifica).
func (g *Guard) Authorize(now time.Time) (entity.Operation, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.expired(now) {
		return "", domain.ErrOperationTimeout
	}
	return g.mode.Operation, nil
}

// Touch reinicia la ventana tras una mutación exitosa. since nunca retrocede
// y la operación vigente se conserva.
func (g *Guard) Touch(now time.Time) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if !g.mode.Active {
		return
	}
	if now.After(g.mode.Since) {
		g.mode.Since = now
	}
}

// Status calcula tiempo restante y si se requiere operación. No modifica el modo.
func (g *Guard) Status(now time.Time) Status {
	g.mu.Lock()
	defer g.mu.Unlock()
	if !g.mode.Active {
		return Status{RequiresOperation: true}
	}
	since := g.mode.Since
	remaining := g.idle - now.Sub(since)
	if remaining < 0 {
		remaining = 0
	}
	if remaining > g.idle {
		remaining = g.idle
	}
	return Status{
		TimeRemaining:     remaining,
		RequiresOperation: g.expired(now),
		LastOperationTime: &since,
	}
}

// Mode devuelve una copia del modo actual.
func (g *Guard) Mode() Mode {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.mode
}

// expired regla estricta: vencido solo si elapsed > idle. Requiere g.mu tomado.
func (g *Guard) expired(now time.Time) bool {
	if !g.mode.Active {
		return true
	}
	return now.Sub(g.mode.Since) > g.idle
}
