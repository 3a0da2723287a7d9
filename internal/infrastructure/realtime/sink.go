package realtime

import (
	"context"
	"time"

	"github.com/jhoicas/Inventario-scanner/internal/domain/event"
)

// Sink destino externo de eventos (Kafka, MQTT).
type Sink interface {
	Name() string
	Send(ctx context.Context, evt event.Event) error
	Close() error
}

const sinkBuffer = 1024

// Attach drena una suscripción hacia el sumidero en su propia goroutine, de modo que un
// broker lento nunca frena Publish. Si el sumidero se atrasa y es expulsado, se vuelve a
// suscribir (los eventos perdidos quedan registrados en el log). Termina con ctx.
func (h *Hub) Attach(ctx context.Context, sink Sink) {
	go func() {
		defer func() {
			if err := sink.Close(); err != nil {
				h.log.Error().Err(err).Str("sink", sink.Name()).Msg("cerrar sumidero")
			}
		}()
		for {
			sub, err := h.SubscribeBuffered(sinkBuffer)
			if err != nil {
				return
			}
			if !h.drain(ctx, sub, sink) {
				sub.Close()
				return
			}
			h.log.Warn().Str("sink", sink.Name()).Msg("sumidero expulsado por atraso; re-suscribiendo")
		}
	}()
}

// drain devuelve false cuando ctx termina o el hub se cierra.
func (h *Hub) drain(ctx context.Context, sub *Subscription, sink Sink) bool {
	for {
		select {
		case <-ctx.Done():
			return false
		case <-sub.Done():
			h.mu.RLock()
			closed := h.closed
			h.mu.RUnlock()
			return !closed
		case evt := <-sub.Events():
			sendCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
			if err := sink.Send(sendCtx, evt); err != nil {
				h.log.Error().Err(err).Str("sink", sink.Name()).Str("event", evt.Type).Msg("enviar evento")
			}
			cancel()
		}
	}
}
