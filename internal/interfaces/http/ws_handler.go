package http

import (
	"time"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/jhoicas/Inventario-scanner/internal/infrastructure/realtime"
)

const (
	wsWriteTimeout = 10 * time.Second
	wsPingInterval = 30 * time.Second
)

// WSHandler canal de difusión para los visores (inventory_update, operation_changed, database_cleared).
type WSHandler struct {
	hub *realtime.Hub
	log zerolog.Logger
}

// NewWSHandler construye el handler.
func NewWSHandler(hub *realtime.Hub, log zerolog.Logger) *WSHandler {
	return &WSHandler{hub: hub, log: log}
}

// Upgrade rechaza peticiones que no piden WebSocket.
func (h *WSHandler) Upgrade(c *fiber.Ctx) error {
	if websocket.IsWebSocketUpgrade(c) {
		return c.Next()
	}
	return fiber.ErrUpgradeRequired
}

// Stream escribe cada evento como JSON. Si el visor se queda atrás el hub lo expulsa y
// se cierra la conexión; el cliente debe reconectar y recargar /api/inventory.
func (h *WSHandler) Stream(conn *websocket.Conn) {
	sub, err := h.hub.Subscribe()
	if err != nil {
		h.log.Warn().Err(err).Msg("ws: suscripción rechazada")
		return
	}
	defer sub.Close()

	log := h.log.With().Str("subscriber", sub.ID()).Logger()
	log.Debug().Msg("ws: visor conectado")

	// El lector solo detecta el cierre del cliente; los mensajes entrantes se ignoran.
	gone := make(chan struct{})
	go func() {
		defer close(gone)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	ping := time.NewTicker(wsPingInterval)
	defer ping.Stop()

	for {
		select {
		case evt := <-sub.Events():
			_ = conn.SetWriteDeadline(time.Now().Add(wsWriteTimeout))
			if err := conn.WriteJSON(evt); err != nil {
				log.Debug().Err(err).Msg("ws: escritura fallida")
				return
			}
		case <-ping.C:
			_ = conn.SetWriteDeadline(time.Now().Add(wsWriteTimeout))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case <-sub.Done():
			log.Info().Msg("ws: visor expulsado por lentitud")
			return
		case <-gone:
			log.Debug().Msg("ws: visor desconectado")
			return
		}
	}
}
