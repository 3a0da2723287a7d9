// Package realtime difunde los eventos del libro a los visores conectados.
//
// Publish nunca bloquea: cada suscriptor tiene un buffer acotado y el que lo llena es
// expulsado (su canal Done se cierra) para que un visor lento no frene los escaneos.
// El orden por suscriptor es FIFO, así que el orden por código de barras es el de publicación.
package realtime

import (
	"errors"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/jhoicas/Inventario-scanner/internal/application/ledger"
	"github.com/jhoicas/Inventario-scanner/internal/domain/event"
)

var _ ledger.Broadcaster = (*Hub)(nil)

var ErrHubClosed = errors.New("realtime: hub cerrado")

// Subscription canal de un observador.
type Subscription struct {
	id   string
	ch   chan event.Event
	done chan struct{}
	once sync.Once
	hub  *Hub
}

// ID identificador del suscriptor.
func (s *Subscription) ID() string { return s.id }

// Events canal de eventos (nunca se cierra; usar Done para terminar).
func (s *Subscription) Events() <-chan event.Event { return s.ch }

// Done se cierra cuando el suscriptor es expulsado o cerrado.
func (s *Subscription) Done() <-chan struct{} { return s.done }

// Close da de baja la suscripción. Es idempotente.
func (s *Subscription) Close() { s.hub.remove(s) }

func (s *Subscription) finish() { s.once.Do(func() { close(s.done) }) }

// Stats contadores del hub.
type Stats struct {
	Subscribers int    `json:"subscribers"`
	Published   uint64 `json:"published"`
	Evicted     uint64 `json:"evicted"`
}

// Hub fan-out en memoria.
type Hub struct {
	mu     sync.RWMutex
	subs   map[string]*Subscription
	closed bool
	buffer int

	published atomic.Uint64
	evicted   atomic.Uint64
	log       zerolog.Logger
}

// NewHub crea un hub; buffer es el tamaño por suscriptor (mínimo 1).
func NewHub(buffer int, log zerolog.Logger) *Hub {
	if buffer < 1 {
		buffer = 1
	}
	return &Hub{subs: make(map[string]*Subscription), buffer: buffer, log: log}
}

// Subscribe registra un observador con el buffer por defecto.
func (h *Hub) Subscribe() (*Subscription, error) {
	return h.SubscribeBuffered(h.buffer)
}

// SubscribeBuffered registra un observador con un buffer propio (sumideros externos).
func (h *Hub) SubscribeBuffered(buffer int) (*Subscription, error) {
	if buffer < 1 {
		buffer = 1
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return nil, ErrHubClosed
	}
	s := &Subscription{
		id:   uuid.NewString(),
		ch:   make(chan event.Event, buffer),
		done: make(chan struct{}),
		hub:  h,
	}
	h.subs[s.id] = s
	return s, nil
}

// Publish entrega el evento a todos los suscriptores sin bloquear.
func (h *Hub) Publish(evt event.Event) {
	var lagging []*Subscription

	h.mu.RLock()
	if h.closed {
		h.mu.RUnlock()
		return
	}
	h.published.Add(1)
	for _, s := range h.subs {
		select {
		case s.ch <- evt:
		default:
			lagging = append(lagging, s)
		}
	}
	h.mu.RUnlock()

	for _, s := range lagging {
		if h.remove(s) {
			h.evicted.Add(1)
			h.log.Warn().Str("subscriber", s.id).Str("event", evt.Type).Msg("suscriptor lento expulsado")
		}
	}
}

// Stats devuelve los contadores actuales.
func (h *Hub) Stats() Stats {
	h.mu.RLock()
	n := len(h.subs)
	h.mu.RUnlock()
	return Stats{Subscribers: n, Published: h.published.Load(), Evicted: h.evicted.Load()}
}

// Close expulsa a todos los suscriptores y rechaza nuevas suscripciones.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return
	}
	h.closed = true
	for id, s := range h.subs {
		delete(h.subs, id)
		s.finish()
	}
}

func (h *Hub) remove(s *Subscription) bool {
	h.mu.Lock()
	_, ok := h.subs[s.id]
	delete(h.subs, s.id)
	h.mu.Unlock()
	s.finish()
	return ok
}
